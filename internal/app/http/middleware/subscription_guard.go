package middleware

import (
	"context"
	"net/http"

	"paperboy/internal/domain/profiles"
	"paperboy/internal/infra/stripeclient"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileStore interface {
	ProfileByUserID(ctx context.Context, userID uuid.UUID) (*profiles.Profile, error)
}

// RequireActiveSubscription gates subscriber content on a trialing or active
// subscription status. Status is event-driven; there is no local expiry clock.
func RequireActiveSubscription(st ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
			return
		}

		profile, err := st.ProfileByUserID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Subscription not found"})
			return
		}

		if !stripeclient.IsEntitled(profile.SubscriptionStatus) {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "An active subscription is required"})
			return
		}

		c.Next()
	}
}
