package routes

import (
	adminapi "paperboy/internal/api/admin"
	authapi "paperboy/internal/api/auth"
	"paperboy/internal/api/billing"
	profilesapi "paperboy/internal/api/profiles"
	"paperboy/internal/api/stripewebhook"
	"paperboy/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth     *authapi.Handler
	Profiles *profilesapi.Handler
	Billing  *billing.Handler
	Webhook  *stripewebhook.Handler
	Admin    *adminapi.Handler

	JWTSecret    string
	ProfileStore middleware.ProfileStore
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	// The webhook reads the raw body for signature verification, so it stays
	// outside the sanitizing group.
	r.POST("/webhook", h.Webhook.Handle)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/stats/users", h.Profiles.GetUserCount)
	r.GET("/pricing", h.Billing.GetPricing)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", h.Auth.Register)
	public.POST("/login", h.Auth.Login)

	public.GET("/auth/google", h.Auth.GoogleStart)
	public.GET("/auth/google/callback", h.Auth.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(h.JWTSecret))
	auth.GET("/me", h.Profiles.GetCurrentUser)
	auth.PUT("/profile", h.Profiles.UpdateProfile)
	auth.POST("/create-checkout-session", h.Billing.CreateCheckoutSession)
	auth.POST("/billing-portal", h.Billing.CreateBillingPortal)

	// Subscribed users
	subscribed := auth.Group("/")
	subscribed.Use(middleware.RequireActiveSubscription(h.ProfileStore))
	subscribed.GET("/newsstand", h.Profiles.GetNewsstand)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(h.JWTSecret), middleware.RequireRole("admin"))
	admin.GET("/dashboard", h.Admin.Dashboard)
	admin.GET("/users", h.Admin.ListAllUsers)
	admin.GET("/subscriptions", h.Admin.ListAllSubscriptions)
}
