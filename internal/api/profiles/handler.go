// Package profiles serves the per-user profile: the /me view, the onboarding
// form, and the public subscriber counter.
package profiles

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"paperboy/internal/app/http/middleware"
	"paperboy/internal/domain/profiles"
	"paperboy/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store is the slice of persistence the profile endpoints need.
type Store interface {
	ProfileByUserID(ctx context.Context, userID uuid.UUID) (*profiles.Profile, error)
	CreateProfile(ctx context.Context, p *profiles.Profile) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) error
	CountProfiles(ctx context.Context) (int64, error)
}

type Handler struct {
	log   *slog.Logger
	store Store
}

func New(log *slog.Logger, st Store) *Handler {
	return &Handler{log: log, store: st}
}

// GetCurrentUser returns the authenticated user's profile, subscription
// fields included.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.store.ProfileByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles the onboarding form: name, title and goals, upserted
// by user id. Reapplying the same form is a no-op.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Name  string `json:"name"`
		Title string `json:"title" binding:"required"`
		Goals string `json:"goals" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	fields := map[string]interface{}{
		"title": input.Title,
		"goals": input.Goals,
	}
	if input.Name != "" {
		fields["name"] = input.Name
	}

	err := h.store.UpdateProfile(ctx, userID, fields)
	if errors.Is(err, store.ErrNotFound) {
		err = h.store.CreateProfile(ctx, &profiles.Profile{
			UserID: userID,
			Name:   input.Name,
			Title:  input.Title,
			Goals:  input.Goals,
		})
	}
	if err != nil {
		h.log.Error("profile upsert failed", slog.String("user_id", userID.String()), slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// userCountBase pads the public counter the same way the landing page always
// has.
const userCountBase = 10

// GetUserCount backs the landing-page subscriber counter. The frontend polls
// it; no push channel.
func (h *Handler) GetUserCount(c *gin.Context) {
	n, err := h.store.CountProfiles(c.Request.Context())
	if err != nil {
		h.log.Error("profile count failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": userCountBase + n})
}
