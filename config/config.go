package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string
	STRIPE_PRICE_ID       string

	// SITE_URL is the public base URL of the frontend, used to build the
	// checkout success/cancel and portal return redirects.
	SITE_URL string

	// STRICT_WEBHOOK_VERIFICATION controls whether the webhook endpoint fails
	// closed when the signing secret or signature header is missing. Relaxed
	// mode is an explicit opt-in for local development only.
	STRICT_WEBHOOK_VERIFICATION bool

	CORS_ORIGIN string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	STRIPE_SECRET_KEY = mustEnv("STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = getEnv("STRIPE_WEBHOOK_SECRET", "")
	STRIPE_PRICE_ID = mustEnv("STRIPE_PRICE_ID")

	SITE_URL = getEnv("SITE_URL", "http://localhost:8080")
	STRICT_WEBHOOK_VERIFICATION = getEnvBool("STRICT_WEBHOOK_VERIFICATION", true)

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "*")

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	if STRIPE_WEBHOOK_SECRET == "" && STRICT_WEBHOOK_VERIFICATION {
		log.Println("STRIPE_WEBHOOK_SECRET not set: webhook requests will be rejected until it is configured.")
	}
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Fatalf("Invalid boolean for %s: %q", key, value)
	}
	return b
}
