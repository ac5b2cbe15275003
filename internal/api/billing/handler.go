// Package billing exposes the Stripe-facing endpoints: checkout session
// creation, the customer portal, and the public pricing lookup.
package billing

import (
	"context"
	"log/slog"

	"paperboy/internal/domain/profiles"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v75"
)

// Store is the slice of persistence the billing endpoints need.
type Store interface {
	ProfileByUserID(ctx context.Context, userID uuid.UUID) (*profiles.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) error
}

// StripeClient abstracts the outbound Stripe calls so tests can substitute a
// fake. Calls are synchronous request/response; failures surface to the
// caller, they are not retried here.
type StripeClient interface {
	NewCustomer(params *stripe.CustomerParams) (*stripe.Customer, error)
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	NewBillingPortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error)
	GetPrice(id string, params *stripe.PriceParams) (*stripe.Price, error)
}

type Handler struct {
	log     *slog.Logger
	store   Store
	stripe  StripeClient
	priceID string
	siteURL string
}

func New(log *slog.Logger, st Store, sc StripeClient, priceID, siteURL string) *Handler {
	return &Handler{
		log:     log,
		store:   st,
		stripe:  sc,
		priceID: priceID,
		siteURL: siteURL,
	}
}
