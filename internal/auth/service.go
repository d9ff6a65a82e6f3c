// Package auth implements registration, login and password flows on top of
// the users store. Password hashes use bcrypt.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bakerist/bakerist/internal/rbac"
	"github.com/bakerist/bakerist/internal/shared"
	"github.com/bakerist/bakerist/internal/users"
)

// Repository is the slice of the users store auth needs.
type Repository interface {
	Create(ctx context.Context, user *users.User) error
	GetByID(ctx context.Context, id string) (*users.User, error)
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput carries self-service registration fields.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	ContactNo  string
	Barangay   string
	Sitio      string
	Newsletter bool
}

// Register creates a customer account. Registration opens a session at the
// handler level (auto-login).
func (s *Service) Register(ctx context.Context, input RegisterInput) (*users.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &users.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         rbac.RoleCustomer,
		ContactNo:    input.ContactNo,
		Barangay:     input.Barangay,
		Sitio:        input.Sitio,
		IsActive:     true,
		Preferences: users.Preferences{
			Newsletter:       input.Newsletter,
			SMSNotifications: true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate validates email/password credentials. Unknown emails,
// inactive accounts and wrong passwords all yield the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return shared.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, userID, string(hash))
}
