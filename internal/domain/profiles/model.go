package profiles

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the per-user application record. One row per user, created at
// signup and never deleted. The subscription fields are owned by the Stripe
// webhook reconciler; name/title/goals are owned by the onboarding form.
type Profile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_profiles_user_id" json:"user_id"`

	Email string `json:"email"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Goals string `json:"goals"`

	// Nil means the user has never subscribed.
	SubscriptionStatus   *string    `gorm:"column:subscription_status" json:"subscription_status"`
	StripeCustomerID     *string    `gorm:"column:stripe_customer_id;uniqueIndex:idx_profiles_stripe_customer_id" json:"stripe_customer_id"`
	StripeSubscriptionID *string    `gorm:"column:stripe_subscription_id" json:"stripe_subscription_id"`
	TrialEnd             *time.Time `gorm:"column:trial_end" json:"trial_end"`

	OnboardingComplete bool `gorm:"not null;default:false" json:"onboarding_complete"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
