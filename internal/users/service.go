package users

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bakerist/bakerist/internal/rbac"
	"github.com/bakerist/bakerist/internal/shared"
)

// Service wraps profile and staff management rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a single user.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// ProfileUpdate carries the customer-editable profile fields.
type ProfileUpdate struct {
	Name        string
	ContactNo   string
	Barangay    string
	Sitio       string
	Preferences Preferences
}

// UpdateProfile applies profile changes to the caller's own account.
func (s *Service) UpdateProfile(ctx context.Context, userID string, input ProfileUpdate) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = input.Name
	user.ContactNo = input.ContactNo
	user.Barangay = input.Barangay
	user.Sitio = input.Sitio
	user.Preferences = input.Preferences
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateStaffInput describes a staff account created by an admin.
type CreateStaffInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	ContactNo   string
	Department  string
	Permissions []string
}

// CreateStaff creates a staff or admin account. The permissions list is
// persisted verbatim; it has no effect on authorization.
func (s *Service) CreateStaff(ctx context.Context, actorID string, input CreateStaffInput) (*User, error) {
	role := input.Role
	if role == "" {
		role = rbac.RoleStaff
	}
	if role != rbac.RoleStaff && role != rbac.RoleAdmin {
		return nil, fmt.Errorf("%w: role must be staff or admin", shared.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	department := input.Department
	if department == "" {
		department = "Operations"
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		ContactNo:    input.ContactNo,
		IsActive:     true,
		Department:   department,
		Permissions:  input.Permissions,
		CreatedBy:    actorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// StaffUpdate carries admin-editable staff fields. Nil pointers leave the
// current value untouched.
type StaffUpdate struct {
	Name        *string
	Role        *string
	ContactNo   *string
	Department  *string
	IsActive    *bool
	Permissions *[]string
}

// UpdateStaff applies changes to a staff account. Admins cannot change
// their own role.
func (s *Service) UpdateStaff(ctx context.Context, actorID, staffID string, input StaffUpdate) (*User, error) {
	user, err := s.repo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if user.Role != rbac.RoleStaff && user.Role != rbac.RoleAdmin {
		return nil, shared.ErrNotFound
	}
	if input.Role != nil && staffID == actorID && *input.Role != user.Role {
		return nil, fmt.Errorf("%w: cannot change your own role", shared.ErrForbidden)
	}
	if input.Role != nil {
		if *input.Role != rbac.RoleStaff && *input.Role != rbac.RoleAdmin {
			return nil, fmt.Errorf("%w: role must be staff or admin", shared.ErrValidation)
		}
		user.Role = *input.Role
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.ContactNo != nil {
		user.ContactNo = *input.ContactNo
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Permissions != nil {
		user.Permissions = *input.Permissions
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeactivateStaff disables a staff account. Self-deactivation is refused.
func (s *Service) DeactivateStaff(ctx context.Context, actorID, staffID string) error {
	if actorID == staffID {
		return fmt.Errorf("%w: cannot deactivate your own account", shared.ErrForbidden)
	}
	active := false
	_, err := s.UpdateStaff(ctx, actorID, staffID, StaffUpdate{IsActive: &active})
	return err
}

// ListStaff returns all staff and admin accounts.
func (s *Service) ListStaff(ctx context.Context) ([]User, error) {
	return s.repo.ListStaff(ctx)
}

// CountCustomers returns the number of customer accounts. The admin
// dashboard shows it next to the order metrics.
func (s *Service) CountCustomers(ctx context.Context) (int, error) {
	return s.repo.CountByRole(ctx, rbac.RoleCustomer)
}
