package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"paperboy/config"
	"paperboy/database"
	adminapi "paperboy/internal/api/admin"
	authapi "paperboy/internal/api/auth"
	"paperboy/internal/api/billing"
	profilesapi "paperboy/internal/api/profiles"
	"paperboy/internal/api/stripewebhook"
	routes "paperboy/internal/app/http"
	"paperboy/internal/infra/stripeclient"
	"paperboy/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	db, err := database.Open(config.DB_URL)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}

	st := store.New(db)
	sc := stripeclient.New(config.STRIPE_SECRET_KEY)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Handlers{
		Auth: authapi.New(logger, st, config.JWT_SECRET, authapi.GoogleConfig{
			ClientID:         config.GOOGLE_CLIENT_ID,
			ClientSecret:     config.GOOGLE_CLIENT_SECRET,
			RedirectURL:      config.GOOGLE_REDIRECT_URL,
			FrontendRedirect: config.GOOGLE_FRONTEND_REDIRECT,
		}),
		Profiles: profilesapi.New(logger, st),
		Billing:  billing.New(logger, st, sc, config.STRIPE_PRICE_ID, config.SITE_URL),
		Webhook:  stripewebhook.New(logger, st, config.STRIPE_WEBHOOK_SECRET, config.STRICT_WEBHOOK_VERIFICATION),
		Admin:    adminapi.New(logger, st),

		JWTSecret:    config.JWT_SECRET,
		ProfileStore: st,
	})

	if err := r.Run(":" + config.PORT); err != nil {
		log.Fatal("Server exited: ", err)
	}
}
