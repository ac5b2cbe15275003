package billing

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is the per-subscription history row. Upserted keyed on the
// Stripe subscription id; rows are status-updated over the lifecycle but
// never deleted.
type Subscription struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;index:idx_subscriptions_user_id" json:"user_id"`
	StripeSubscriptionID string    `gorm:"not null;uniqueIndex:idx_subscriptions_stripe_subscription_id" json:"stripe_subscription_id"`
	StripeCustomerID     string    `json:"stripe_customer_id"`

	Status             string     `json:"status"`
	CurrentPeriodStart *time.Time `json:"current_period_start"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end"`
	PriceID            string     `json:"price_id"`
	LastBilledAt       *time.Time `json:"last_billed_at"`

	SubscribedAt time.Time `gorm:"autoCreateTime" json:"subscribed_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
