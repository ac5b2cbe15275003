package billing

import (
	"log/slog"
	"net/http"

	"paperboy/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

// CreateBillingPortal opens a Stripe customer-portal session for self-service
// subscription management. Requires an existing billing customer on file.
func (h *Handler) CreateBillingPortal(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	profile, err := h.store.ProfileByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Profile not found"})
		return
	}
	if profile.StripeCustomerID == nil || *profile.StripeCustomerID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No Stripe customer yet (subscribe first)"})
		return
	}

	portal, err := h.stripe.NewBillingPortalSession(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*profile.StripeCustomerID),
		ReturnURL: stripe.String(h.siteURL + "/dashboard"),
	})
	if err != nil {
		h.log.Error("failed to create billing portal session",
			slog.String("user_id", userID.String()), slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create billing portal session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": portal.URL})
}
