package auth_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bakerist/bakerist/internal/auth"
	"github.com/bakerist/bakerist/internal/rbac"
	"github.com/bakerist/bakerist/internal/shared"
	"github.com/bakerist/bakerist/internal/users"
)

type stubRepo struct {
	user *users.User
}

func (s *stubRepo) Create(ctx context.Context, user *users.User) error {
	s.user = user
	return nil
}

func (s *stubRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	if s.user == nil || s.user.ID != id {
		return shared.ErrNotFound
	}
	s.user.PasswordHash = hash
	return nil
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	logger := slog.Default()
	handler := auth.NewHandler(logger, auth.NewService(repo), sessionManager, csrfManager)
	return handler, sessionManager
}

func doJSON(t *testing.T, sm *shared.SessionManager, h http.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	// Commit before the handler writes: ResponseRecorder snapshots headers at
	// WriteHeader, mirroring the production middleware's commit-on-first-write.
	require.NoError(t, sm.Commit(ctx, res, req, sess))
	h(res, req)
	return res
}

func TestLoginSuccessOpensSession(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("maria-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &stubRepo{user: &users.User{
		ID:           "user-1",
		Email:        "maria@example.com",
		PasswordHash: string(hash),
		Role:         rbac.RoleCustomer,
		IsActive:     true,
	}}
	handler, sm := newAuthHandler(t, repo)

	res := doJSON(t, sm, handler.Login, http.MethodPost, "/api/auth/login",
		`{"email":"maria@example.com","password":"maria-secret"}`)

	require.Equal(t, http.StatusOK, res.Code)
	var payload struct {
		User struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
		CSRFToken string `json:"csrf_token"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	assert.Equal(t, "user-1", payload.User.ID)
	assert.NotEmpty(t, payload.CSRFToken)
	assert.NotEmpty(t, res.Result().Cookies())
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler, sm := newAuthHandler(t, &stubRepo{})

	res := doJSON(t, sm, handler.Login, http.MethodPost, "/api/auth/login",
		`{"email":"nobody@example.com","password":"whatever1"}`)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRegisterAutoLogin(t *testing.T) {
	repo := &stubRepo{}
	handler, sm := newAuthHandler(t, repo)

	res := doJSON(t, sm, handler.Register, http.MethodPost, "/api/auth/register",
		`{"name":"Juan dela Cruz","email":"juan@example.com","password":"secretpass","barangay":"Anilao"}`)

	require.Equal(t, http.StatusCreated, res.Code)
	require.NotNil(t, repo.user)
	assert.Equal(t, rbac.RoleCustomer, repo.user.Role)
}

func TestRegisterValidation(t *testing.T) {
	handler, sm := newAuthHandler(t, &stubRepo{})

	res := doJSON(t, sm, handler.Register, http.MethodPost, "/api/auth/register",
		`{"name":"Juan","email":"not-an-email","password":"short"}`)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}
