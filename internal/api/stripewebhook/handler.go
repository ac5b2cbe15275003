// Package stripewebhook reconciles Stripe billing events into local profile
// and subscription-history state.
package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"paperboy/internal/domain/billing"
	"paperboy/internal/domain/profiles"
	"paperboy/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

// Store is the slice of persistence the reconciler needs.
type Store interface {
	ProfileByUserID(ctx context.Context, userID uuid.UUID) (*profiles.Profile, error)
	ProfileByStripeCustomerID(ctx context.Context, customerID string) (*profiles.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) error
	UpsertSubscription(ctx context.Context, sub *billing.Subscription) error
	UpdateSubscriptionByStripeID(ctx context.Context, stripeSubscriptionID string, fields map[string]interface{}) error
}

type Handler struct {
	log    *slog.Logger
	store  Store
	secret string
	strict bool
}

// New builds the webhook handler. When strict is false and the secret or the
// signature header is absent, events are parsed without verification; that
// mode exists for local development only.
func New(log *slog.Logger, st Store, webhookSecret string, strict bool) *Handler {
	return &Handler{
		log:    log,
		store:  st,
		secret: webhookSecret,
		strict: strict,
	}
}

const maxBodyBytes = int64(65536)

var errWebhookNotConfigured = errors.New("webhook signing secret not configured")

// Handle is the POST /webhook endpoint. Every outcome is converted to an HTTP
// response here; nothing below it is allowed to panic the process.
func (h *Handler) Handle(c *gin.Context) {
	payload, err := readBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := h.verifyAndParse(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, errWebhookNotConfigured) {
			h.log.Error("webhook rejected", slog.Any("err", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook not configured"})
			return
		}
		h.log.Warn("webhook verification failed", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	ev, ok, err := Classify(event)
	if err != nil {
		h.log.Warn("failed to parse event payload",
			slog.String("type", string(event.Type)), slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse event payload"})
		return
	}
	if !ok {
		h.log.Info("ignoring unrecognized event", slog.String("type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ctx := c.Request.Context()

	userID, err := h.resolveUserID(ctx, ev)
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			// One event's resolution failure must not block independent
			// deliveries; acknowledge so Stripe stops retrying.
			h.log.Warn("could not resolve user for event",
				slog.String("type", string(ev.Kind)),
				slog.String("customer_id", ev.CustomerID))
			c.JSON(http.StatusOK, gin.H{"status": "received"})
			return
		}
		h.log.Error("user resolution failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user"})
		return
	}

	if err := h.apply(ctx, userID, ev); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.log.Warn("no profile row matched event",
				slog.String("type", string(ev.Kind)),
				slog.String("user_id", userID.String()))
			c.JSON(http.StatusOK, gin.H{"status": "received"})
			return
		}
		h.log.Error("failed to apply event",
			slog.String("type", string(ev.Kind)),
			slog.String("user_id", userID.String()),
			slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply subscription update"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func (h *Handler) verifyAndParse(payload []byte, signature string) (*stripe.Event, error) {
	if h.secret != "" && signature != "" {
		event, err := webhook.ConstructEventWithOptions(
			payload,
			signature,
			h.secret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
		)
		if err != nil {
			return nil, err
		}
		return &event, nil
	}

	if h.strict {
		if h.secret == "" {
			return nil, errWebhookNotConfigured
		}
		return nil, errors.New("missing Stripe-Signature header")
	}

	h.log.Warn("processing webhook without signature verification (relaxed mode)")
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func readBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
