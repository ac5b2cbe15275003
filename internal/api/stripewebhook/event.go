package stripewebhook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v75"
)

type Kind string

const (
	KindCheckoutCompleted    Kind = "checkout.session.completed"
	KindSubscriptionCreated  Kind = "customer.subscription.created"
	KindSubscriptionUpdated  Kind = "customer.subscription.updated"
	KindSubscriptionDeleted  Kind = "customer.subscription.deleted"
	KindInvoicePaid          Kind = "invoice.paid"
	KindInvoicePaymentFailed Kind = "invoice.payment_failed"
)

// Event is the typed record extracted from a verified Stripe event before any
// update logic runs. Extraction is pure; nothing here touches storage.
type Event struct {
	Kind Kind

	CustomerID     string
	SubscriptionID string
	Status         string
	PriceID        string

	// ClientReferenceID carries the user id on checkout events.
	ClientReferenceID string
	// MetadataUserID carries the user id on subscription events whose
	// checkout attached it.
	MetadataUserID string

	PeriodStart *time.Time
	PeriodEnd   *time.Time
	TrialEnd    *time.Time

	// EndedAt closes the billing period on subscription.deleted: ended_at,
	// falling back to canceled_at. Nil when the payload carries neither.
	EndedAt *time.Time
	// BilledAt is the invoice creation time on invoice events.
	BilledAt *time.Time
}

// Classify dispatches on the event type tag and extracts the fields the
// reconciler needs. ok is false for unrecognized kinds; err is non-nil only
// when a recognized kind carries an unparsable payload.
func Classify(event *stripe.Event) (*Event, bool, error) {
	kind := Kind(event.Type)
	switch kind {
	case KindCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, true, fmt.Errorf("parse checkout session: %w", err)
		}
		out := &Event{Kind: kind, ClientReferenceID: session.ClientReferenceID}
		if session.Customer != nil {
			out.CustomerID = session.Customer.ID
		}
		if session.Subscription != nil {
			out.SubscriptionID = session.Subscription.ID
		}
		return out, true, nil

	case KindSubscriptionCreated, KindSubscriptionUpdated, KindSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, true, fmt.Errorf("parse subscription: %w", err)
		}
		out := &Event{
			Kind:           kind,
			SubscriptionID: sub.ID,
			Status:         string(sub.Status),
			PeriodStart:    unixTime(sub.CurrentPeriodStart),
			PeriodEnd:      unixTime(sub.CurrentPeriodEnd),
			TrialEnd:       unixTime(sub.TrialEnd),
			MetadataUserID: sub.Metadata["user_id"],
		}
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			out.PriceID = sub.Items.Data[0].Price.ID
		}
		if kind == KindSubscriptionDeleted {
			out.EndedAt = unixTime(sub.EndedAt)
			if out.EndedAt == nil {
				out.EndedAt = unixTime(sub.CanceledAt)
			}
		}
		return out, true, nil

	case KindInvoicePaid, KindInvoicePaymentFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, true, fmt.Errorf("parse invoice: %w", err)
		}
		out := &Event{
			Kind:        kind,
			PeriodStart: unixTime(inv.PeriodStart),
			PeriodEnd:   unixTime(inv.PeriodEnd),
			BilledAt:    unixTime(inv.Created),
		}
		if inv.Customer != nil {
			out.CustomerID = inv.Customer.ID
		}
		if inv.Subscription != nil {
			out.SubscriptionID = inv.Subscription.ID
		}
		return out, true, nil
	}

	return nil, false, nil
}

func unixTime(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
