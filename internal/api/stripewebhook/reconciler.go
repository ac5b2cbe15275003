package stripewebhook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paperboy/internal/domain/billing"
	"paperboy/internal/infra/stripeclient"

	"github.com/google/uuid"
)

// apply persists the state an event implies. Every write is keyed (match by
// id, set fields), so re-delivery of the same event is a no-op by
// construction. The profile write is the primary effect; history-row failures
// are logged and do not abort the event.
func (h *Handler) apply(ctx context.Context, userID uuid.UUID, ev *Event) error {
	switch ev.Kind {
	case KindCheckoutCompleted:
		return h.applyCheckoutCompleted(ctx, userID, ev)
	case KindSubscriptionCreated, KindSubscriptionUpdated:
		return h.applySubscriptionChange(ctx, userID, ev)
	case KindSubscriptionDeleted:
		return h.applySubscriptionDeleted(ctx, userID, ev)
	case KindInvoicePaid:
		return h.applyInvoicePaid(ctx, userID, ev)
	case KindInvoicePaymentFailed:
		return h.applyInvoicePaymentFailed(ctx, userID, ev)
	}
	return fmt.Errorf("no updater for event kind %q", ev.Kind)
}

func (h *Handler) applyCheckoutCompleted(ctx context.Context, userID uuid.UUID, ev *Event) error {
	fields := map[string]interface{}{
		"onboarding_complete": true,
	}
	if ev.CustomerID != "" {
		fields["stripe_customer_id"] = ev.CustomerID
	}
	return h.store.UpdateProfile(ctx, userID, fields)
}

func (h *Handler) applySubscriptionChange(ctx context.Context, userID uuid.UUID, ev *Event) error {
	status := stripeclient.NormalizeStatus(ev.Status)

	row := &billing.Subscription{
		UserID:               userID,
		StripeSubscriptionID: ev.SubscriptionID,
		StripeCustomerID:     ev.CustomerID,
		Status:               status,
		CurrentPeriodStart:   ev.PeriodStart,
		CurrentPeriodEnd:     ev.PeriodEnd,
		PriceID:              ev.PriceID,
	}
	if err := h.store.UpsertSubscription(ctx, row); err != nil {
		h.logSideUpdateFailure(ev, "upsert subscription row", err)
	}

	fields := map[string]interface{}{
		"subscription_status":    status,
		"stripe_subscription_id": ev.SubscriptionID,
		"trial_end":              ev.TrialEnd,
	}
	if ev.CustomerID != "" {
		fields["stripe_customer_id"] = ev.CustomerID
	}
	return h.store.UpdateProfile(ctx, userID, fields)
}

func (h *Handler) applySubscriptionDeleted(ctx context.Context, userID uuid.UUID, ev *Event) error {
	endedAt := time.Now().UTC()
	if ev.EndedAt != nil {
		endedAt = *ev.EndedAt
	}

	status := stripeclient.NormalizeStatus(ev.Status)
	if status == stripeclient.StatusNone {
		status = stripeclient.StatusCanceled
	}

	if err := h.store.UpdateSubscriptionByStripeID(ctx, ev.SubscriptionID, map[string]interface{}{
		"status":             status,
		"current_period_end": endedAt,
	}); err != nil {
		h.logSideUpdateFailure(ev, "close subscription row", err)
	}

	return h.store.UpdateProfile(ctx, userID, map[string]interface{}{
		"subscription_status": stripeclient.StatusCanceled,
	})
}

func (h *Handler) applyInvoicePaid(ctx context.Context, userID uuid.UUID, ev *Event) error {
	billedAt := time.Now().UTC()
	if ev.BilledAt != nil {
		billedAt = *ev.BilledAt
	}

	if ev.SubscriptionID != "" {
		if err := h.store.UpdateSubscriptionByStripeID(ctx, ev.SubscriptionID, map[string]interface{}{
			"status":               stripeclient.StatusActive,
			"current_period_start": ev.PeriodStart,
			"current_period_end":   ev.PeriodEnd,
			"last_billed_at":       billedAt,
		}); err != nil {
			h.logSideUpdateFailure(ev, "record paid period", err)
		}
	}

	return h.store.UpdateProfile(ctx, userID, map[string]interface{}{
		"subscription_status": stripeclient.StatusActive,
	})
}

func (h *Handler) applyInvoicePaymentFailed(ctx context.Context, userID uuid.UUID, ev *Event) error {
	if ev.SubscriptionID != "" {
		if err := h.store.UpdateSubscriptionByStripeID(ctx, ev.SubscriptionID, map[string]interface{}{
			"status": stripeclient.StatusPastDue,
		}); err != nil {
			h.logSideUpdateFailure(ev, "mark subscription past due", err)
		}
	}

	return h.store.UpdateProfile(ctx, userID, map[string]interface{}{
		"subscription_status": stripeclient.StatusPastDue,
	})
}

func (h *Handler) logSideUpdateFailure(ev *Event, op string, err error) {
	h.log.Error("subscription history update failed",
		slog.String("op", op),
		slog.String("type", string(ev.Kind)),
		slog.String("stripe_subscription_id", ev.SubscriptionID),
		slog.Any("err", err))
}
