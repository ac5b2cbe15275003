package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paperboy/internal/domain/profiles"
	"paperboy/internal/domain/users"
	"paperboy/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testJWTSecret = "test-jwt-secret"

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateUser(ctx context.Context, u *users.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockStore) UserByEmail(ctx context.Context, email string) (*users.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *mockStore) UserByGoogleSub(ctx context.Context, sub string) (*users.User, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *mockStore) UpdateUser(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *mockStore) CreateProfile(ctx context.Context, p *profiles.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockStore) ProfileByUserID(ctx context.Context, userID uuid.UUID) (*profiles.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profiles.Profile), args.Error(1)
}

func newAuthRouter(st Store) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(logger, st, testJWTSecret, GoogleConfig{})

	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenClaims(t *testing.T, body string) jwt.MapClaims {
	t.Helper()
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Token)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestRegister(t *testing.T) {
	st := new(mockStore)
	userID := uuid.New()

	st.On("CreateUser", mock.Anything, mock.AnythingOfType("*users.User")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*users.User)
			u.ID = userID
			// The stored password is a hash, never the submitted value.
			require.NotNil(t, u.Password)
			assert.NotEqual(t, "hunter2pass1", *u.Password)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte("hunter2pass1")))
			assert.Equal(t, "local", u.AuthProvider)
			assert.Equal(t, "user", u.Role)
		}).
		Return(nil)
	st.On("ProfileByUserID", mock.Anything, userID).Return(nil, store.ErrNotFound)
	st.On("CreateProfile", mock.Anything, mock.MatchedBy(func(p *profiles.Profile) bool {
		return p.UserID == userID && p.Email == "sam@example.com" && p.Name == "Sam Reader"
	})).Return(nil)

	r := newAuthRouter(st)
	w := postJSON(r, "/register", `{"first_name":"Sam","last_name":"Reader","email":"sam@example.com","password":"hunter2pass1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	claims := tokenClaims(t, w.Body.String())
	assert.Equal(t, userID.String(), claims["user_id"])
	assert.Equal(t, "sam@example.com", claims["email"])
	assert.Equal(t, "user", claims["role"])
	st.AssertExpectations(t)
}

func TestRegisterWeakPassword(t *testing.T) {
	st := new(mockStore)
	r := newAuthRouter(st)

	for _, password := range []string{"short1", "allletters", "12345678"} {
		w := postJSON(r, "/register", `{"first_name":"Sam","last_name":"Reader","email":"sam@example.com","password":"`+password+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, "password %q", password)
	}
	st.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	st := new(mockStore)
	st.On("CreateUser", mock.Anything, mock.Anything).Return(errors.New("duplicate key value"))

	r := newAuthRouter(st)
	w := postJSON(r, "/register", `{"first_name":"Sam","last_name":"Reader","email":"sam@example.com","password":"hunter2pass1"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	st.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything)
}

func localUser(t *testing.T, password string) *users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)
	return &users.User{
		ID:           uuid.New(),
		Email:        "sam@example.com",
		Password:     &hashed,
		AuthProvider: "local",
		Role:         "user",
	}
}

func TestLogin(t *testing.T) {
	user := localUser(t, "hunter2pass1")
	st := new(mockStore)
	st.On("UserByEmail", mock.Anything, "sam@example.com").Return(user, nil)

	r := newAuthRouter(st)
	w := postJSON(r, "/login", `{"email":"sam@example.com","password":"hunter2pass1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	claims := tokenClaims(t, w.Body.String())
	assert.Equal(t, user.ID.String(), claims["user_id"])
}

func TestLoginWrongPassword(t *testing.T) {
	user := localUser(t, "hunter2pass1")
	st := new(mockStore)
	st.On("UserByEmail", mock.Anything, "sam@example.com").Return(user, nil)

	r := newAuthRouter(st)
	w := postJSON(r, "/login", `{"email":"sam@example.com","password":"wrongpass99"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	st := new(mockStore)
	st.On("UserByEmail", mock.Anything, "nobody@example.com").Return(nil, store.ErrNotFound)

	r := newAuthRouter(st)
	w := postJSON(r, "/login", `{"email":"nobody@example.com","password":"hunter2pass1"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginGoogleAccount(t *testing.T) {
	st := new(mockStore)
	st.On("UserByEmail", mock.Anything, "sam@example.com").Return(&users.User{
		ID:           uuid.New(),
		Email:        "sam@example.com",
		AuthProvider: "google",
	}, nil)

	r := newAuthRouter(st)
	w := postJSON(r, "/login", `{"email":"sam@example.com","password":"hunter2pass1"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Google sign-in")
}

func TestIsPasswordStrong(t *testing.T) {
	assert.True(t, isPasswordStrong("hunter2pass1"))
	assert.True(t, isPasswordStrong("Abcdefg1"))
	assert.False(t, isPasswordStrong("short1"))
	assert.False(t, isPasswordStrong("onlyletters"))
	assert.False(t, isPasswordStrong("1234567890"))
}
