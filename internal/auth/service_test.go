package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bakerist/bakerist/internal/rbac"
	"github.com/bakerist/bakerist/internal/shared"
	"github.com/bakerist/bakerist/internal/users"
)

type stubRepo struct {
	byID    map[string]*users.User
	byEmail map[string]*users.User
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: map[string]*users.User{}, byEmail: map[string]*users.User{}}
}

func (s *stubRepo) Create(ctx context.Context, user *users.User) error {
	if _, exists := s.byEmail[user.Email]; exists {
		return shared.ErrDuplicateEmail
	}
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	return nil
}

func (s *stubRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *stubRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *stubRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	user, ok := s.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	user.PasswordHash = hash
	return nil
}

func seedUser(t *testing.T, repo *stubRepo, email, password string, active bool) *users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &users.User{
		ID:           "user-" + email,
		Email:        email,
		PasswordHash: string(hash),
		Role:         rbac.RoleCustomer,
		IsActive:     active,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestRegisterCreatesCustomer(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Juan dela Cruz",
		Email:    "juan@example.com",
		Password: "secretpass",
		Barangay: "Anilao",
		Sitio:    "Sitio Maliksi",
	})
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)
	assert.True(t, user.Preferences.SMSNotifications)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secretpass")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	seedUser(t, repo, "juan@example.com", "whatever", true)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Juan", Email: "juan@example.com", Password: "secretpass",
	})
	assert.ErrorIs(t, err, shared.ErrDuplicateEmail)
}

func TestAuthenticate(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	seedUser(t, repo, "maria@example.com", "maria-secret", true)

	user, err := svc.Authenticate(context.Background(), "maria@example.com", "maria-secret")
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", user.Email)

	_, err = svc.Authenticate(context.Background(), "maria@example.com", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "maria-secret")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateInactive(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	seedUser(t, repo, "gone@example.com", "gone-secret", false)

	_, err := svc.Authenticate(context.Background(), "gone@example.com", "gone-secret")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	user := seedUser(t, repo, "juan@example.com", "oldpassword", true)

	err := svc.ChangePassword(context.Background(), user.ID, "wrongcurrent", "newpassword1")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "oldpassword", "newpassword1"))
	_, err = svc.Authenticate(context.Background(), "juan@example.com", "newpassword1")
	assert.NoError(t, err)
}
