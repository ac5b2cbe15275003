package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"paperboy/internal/domain/profiles"
	"paperboy/internal/domain/users"
	"paperboy/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Store is the slice of persistence the auth endpoints need.
type Store interface {
	CreateUser(ctx context.Context, u *users.User) error
	UserByEmail(ctx context.Context, email string) (*users.User, error)
	UserByGoogleSub(ctx context.Context, sub string) (*users.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	CreateProfile(ctx context.Context, p *profiles.Profile) error
	ProfileByUserID(ctx context.Context, userID uuid.UUID) (*profiles.Profile, error)
}

type GoogleConfig struct {
	ClientID         string
	ClientSecret     string
	RedirectURL      string
	FrontendRedirect string
}

type Handler struct {
	log       *slog.Logger
	store     Store
	jwtSecret string
	google    GoogleConfig
}

func New(log *slog.Logger, st Store, jwtSecret string, google GoogleConfig) *Handler {
	return &Handler{
		log:       log,
		store:     st,
		jwtSecret: jwtSecret,
		google:    google,
	}
}

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func (h *Handler) Register(c *gin.Context) {
	var input struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !isPasswordStrong(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long and contain both letters and numbers"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	hashed := string(hashedPassword)

	ctx := c.Request.Context()

	user := users.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Password:     &hashed,
		AuthProvider: "local",
		Role:         "user",
	}
	if err := h.store.CreateUser(ctx, &user); err != nil {
		h.log.Warn("user insert failed", slog.String("email", input.Email), slog.Any("err", err))
		c.JSON(http.StatusConflict, gin.H{"error": "Email may already exist"})
		return
	}

	// The profile row exists from signup on; onboarding and the webhook
	// reconciler only ever update it.
	if err := h.ensureProfile(ctx, &user); err != nil {
		h.log.Error("profile create failed", slog.String("user_id", user.ID.String()), slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	token, err := h.issueToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.UserByEmail(c.Request.Context(), input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.Password == nil || *user.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This account uses Google sign-in"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) issueToken(user *users.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}

func (h *Handler) ensureProfile(ctx context.Context, user *users.User) error {
	_, err := h.store.ProfileByUserID(ctx, user.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return h.store.CreateProfile(ctx, &profiles.Profile{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.FirstName + " " + user.LastName,
	})
}
