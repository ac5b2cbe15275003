package stripewebhook

import (
	"context"
	"errors"
	"log/slog"

	"paperboy/internal/store"

	"github.com/google/uuid"
)

// ErrNoUser means neither the event's own user reference nor a stored billing
// customer id resolved to a profile.
var ErrNoUser = errors.New("no user resolved for billing customer")

// resolveUserID maps an event to the internal user id. The explicit reference
// carried by the event (subscription metadata, or the checkout client
// reference) wins when a profile row exists for it; the fallback is the
// profile whose stored stripe_customer_id matches.
func (h *Handler) resolveUserID(ctx context.Context, ev *Event) (uuid.UUID, error) {
	ref := ev.MetadataUserID
	if ref == "" {
		ref = ev.ClientReferenceID
	}
	if ref != "" {
		id, err := uuid.Parse(ref)
		if err != nil {
			h.log.Warn("event carried an unparsable user reference", slog.String("ref", ref))
		} else {
			_, err := h.store.ProfileByUserID(ctx, id)
			if err == nil {
				return id, nil
			}
			if !errors.Is(err, store.ErrNotFound) {
				return uuid.Nil, err
			}
			h.log.Warn("event user reference has no profile", slog.String("ref", ref))
		}
	}

	if ev.CustomerID != "" {
		profile, err := h.store.ProfileByStripeCustomerID(ctx, ev.CustomerID)
		if err == nil {
			return profile.UserID, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return uuid.Nil, err
		}
	}

	return uuid.Nil, ErrNoUser
}
