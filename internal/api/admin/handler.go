package admin

import (
	"context"
	"log/slog"
	"net/http"

	"paperboy/internal/domain/billing"
	"paperboy/internal/domain/profiles"
	"paperboy/internal/infra/stripeclient"

	"github.com/gin-gonic/gin"
)

type Store interface {
	ListProfiles(ctx context.Context) ([]profiles.Profile, error)
	ListSubscriptions(ctx context.Context) ([]billing.Subscription, error)
	CountProfiles(ctx context.Context) (int64, error)
}

type Handler struct {
	log   *slog.Logger
	store Store
}

func New(log *slog.Logger, st Store) *Handler {
	return &Handler{log: log, store: st}
}

type Stats struct {
	TotalUsers          int64 `json:"total_users"`
	ActiveSubscriptions int   `json:"active_subscriptions"`
}

func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.store.CountProfiles(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	subs, err := h.store.ListSubscriptions(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	active := 0
	for _, s := range subs {
		status := s.Status
		if stripeclient.IsEntitled(&status) {
			active++
		}
	}

	c.JSON(http.StatusOK, Stats{TotalUsers: total, ActiveSubscriptions: active})
}

func (h *Handler) ListAllUsers(c *gin.Context) {
	out, err := h.store.ListProfiles(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list profiles", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ListAllSubscriptions(c *gin.Context) {
	out, err := h.store.ListSubscriptions(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list subscriptions", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}
	c.JSON(http.StatusOK, out)
}
