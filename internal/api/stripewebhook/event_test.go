package stripewebhook

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
)

func mustEvent(t *testing.T, eventType string, object string) *stripe.Event {
	t.Helper()
	raw := `{"id":"evt_test","type":"` + eventType + `","data":{"object":` + object + `}}`
	var ev stripe.Event
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	return &ev
}

func TestClassifyCheckoutCompleted(t *testing.T) {
	ev := mustEvent(t, "checkout.session.completed", `{
		"id": "cs_test_1",
		"client_reference_id": "2f6dbe1e-33c0-4a23-9a0f-3c1f55b2a111",
		"customer": "cus_123",
		"subscription": "sub_123"
	}`)

	out, ok, err := Classify(ev)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, KindCheckoutCompleted, out.Kind)
	assert.Equal(t, "2f6dbe1e-33c0-4a23-9a0f-3c1f55b2a111", out.ClientReferenceID)
	assert.Equal(t, "cus_123", out.CustomerID)
	assert.Equal(t, "sub_123", out.SubscriptionID)
}

func TestClassifySubscriptionUpdated(t *testing.T) {
	ev := mustEvent(t, "customer.subscription.updated", `{
		"id": "sub_123",
		"customer": "cus_123",
		"status": "trialing",
		"current_period_start": 1700000000,
		"current_period_end": 1702592000,
		"trial_end": 1701000000,
		"items": {"data": [{"price": {"id": "price_123"}}]},
		"metadata": {"user_id": "2f6dbe1e-33c0-4a23-9a0f-3c1f55b2a111"}
	}`)

	out, ok, err := Classify(ev)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, KindSubscriptionUpdated, out.Kind)
	assert.Equal(t, "sub_123", out.SubscriptionID)
	assert.Equal(t, "cus_123", out.CustomerID)
	assert.Equal(t, "trialing", out.Status)
	assert.Equal(t, "price_123", out.PriceID)
	assert.Equal(t, "2f6dbe1e-33c0-4a23-9a0f-3c1f55b2a111", out.MetadataUserID)

	require.NotNil(t, out.PeriodStart)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), *out.PeriodStart)
	require.NotNil(t, out.PeriodEnd)
	assert.Equal(t, time.Unix(1702592000, 0).UTC(), *out.PeriodEnd)
	require.NotNil(t, out.TrialEnd)
	assert.Equal(t, time.Unix(1701000000, 0).UTC(), *out.TrialEnd)
}

func TestClassifySubscriptionUpdatedNoTrial(t *testing.T) {
	ev := mustEvent(t, "customer.subscription.updated", `{
		"id": "sub_123",
		"customer": "cus_123",
		"status": "active",
		"current_period_start": 1700000000,
		"current_period_end": 1702592000
	}`)

	out, ok, err := Classify(ev)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, out.TrialEnd)
	assert.Empty(t, out.PriceID)
}

func TestClassifySubscriptionDeletedEndedAtFallback(t *testing.T) {
	withEndedAt := mustEvent(t, "customer.subscription.deleted", `{
		"id": "sub_123",
		"customer": "cus_123",
		"status": "canceled",
		"ended_at": 1702000000,
		"canceled_at": 1701000000
	}`)
	out, _, err := Classify(withEndedAt)
	require.NoError(t, err)
	require.NotNil(t, out.EndedAt)
	assert.Equal(t, time.Unix(1702000000, 0).UTC(), *out.EndedAt)

	canceledOnly := mustEvent(t, "customer.subscription.deleted", `{
		"id": "sub_123",
		"customer": "cus_123",
		"status": "canceled",
		"canceled_at": 1701000000
	}`)
	out, _, err = Classify(canceledOnly)
	require.NoError(t, err)
	require.NotNil(t, out.EndedAt)
	assert.Equal(t, time.Unix(1701000000, 0).UTC(), *out.EndedAt)

	neither := mustEvent(t, "customer.subscription.deleted", `{
		"id": "sub_123",
		"customer": "cus_123",
		"status": "canceled"
	}`)
	out, _, err = Classify(neither)
	require.NoError(t, err)
	assert.Nil(t, out.EndedAt)
}

func TestClassifyInvoicePaid(t *testing.T) {
	ev := mustEvent(t, "invoice.paid", `{
		"id": "in_1",
		"customer": "cus_123",
		"subscription": "sub_123",
		"period_start": 1700000000,
		"period_end": 1702592000,
		"created": 1700000100
	}`)

	out, ok, err := Classify(ev)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, KindInvoicePaid, out.Kind)
	assert.Equal(t, "cus_123", out.CustomerID)
	assert.Equal(t, "sub_123", out.SubscriptionID)
	require.NotNil(t, out.BilledAt)
	assert.Equal(t, time.Unix(1700000100, 0).UTC(), *out.BilledAt)
}

func TestClassifyUnrecognizedKind(t *testing.T) {
	ev := mustEvent(t, "payment_intent.succeeded", `{"id": "pi_1"}`)

	out, ok, err := Classify(ev)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, out)
}

func TestClassifyMalformedPayload(t *testing.T) {
	ev := &stripe.Event{
		Type: "customer.subscription.updated",
		Data: &stripe.EventData{Raw: json.RawMessage(`"not an object"`)},
	}

	_, ok, err := Classify(ev)
	assert.True(t, ok)
	assert.Error(t, err)
}
