package billing

import (
	"log/slog"
	"net/http"

	"paperboy/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

// CreateCheckoutSession starts a subscription checkout for the authenticated
// user. A Stripe customer is created and persisted first when the profile has
// none; an existing customer id is always reused.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	ctx := c.Request.Context()

	profile, err := h.store.ProfileByUserID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Profile not found"})
		return
	}

	customerID := ""
	if profile.StripeCustomerID != nil {
		customerID = *profile.StripeCustomerID
	}

	if customerID == "" {
		cus, err := h.stripe.NewCustomer(&stripe.CustomerParams{
			Email: stripe.String(profile.Email),
			Metadata: map[string]string{
				"user_id": userID.String(),
			},
		})
		if err != nil {
			h.log.Error("failed to create Stripe customer",
				slog.String("user_id", userID.String()), slog.Any("err", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Stripe customer"})
			return
		}

		// Persist before creating the session so the webhook fallback lookup
		// by customer id works even if checkout is abandoned.
		if err := h.store.UpdateProfile(ctx, userID, map[string]interface{}{
			"stripe_customer_id": cus.ID,
		}); err != nil {
			h.log.Error("failed to store Stripe customer id",
				slog.String("user_id", userID.String()), slog.Any("err", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store Stripe customer"})
			return
		}

		customerID = cus.ID
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(h.priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(h.siteURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(h.siteURL + "/payment-canceled"),

		// client_reference_id links the session back to the user in webhooks.
		ClientReferenceID: stripe.String(userID.String()),

		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id": userID.String(),
			},
		},
	}

	s, err := h.stripe.NewCheckoutSession(params)
	if err != nil {
		h.log.Error("failed to create checkout session",
			slog.String("user_id", userID.String()), slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "url": s.URL})
}
