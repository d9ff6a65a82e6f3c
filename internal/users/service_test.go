package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakerist/bakerist/internal/rbac"
	"github.com/bakerist/bakerist/internal/shared"
)

type memoryRepo struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]*User{}, byEmail: map[string]*User{}}
}

func (m *memoryRepo) Create(ctx context.Context, user *User) error {
	if _, exists := m.byEmail[user.Email]; exists {
		return shared.ErrDuplicateEmail
	}
	clone := *user
	m.byID[user.ID] = &clone
	m.byEmail[user.Email] = &clone
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (*User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *memoryRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *memoryRepo) Update(ctx context.Context, user *User) error {
	if _, ok := m.byID[user.ID]; !ok {
		return shared.ErrNotFound
	}
	clone := *user
	m.byID[user.ID] = &clone
	m.byEmail[user.Email] = &clone
	return nil
}

func (m *memoryRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	user, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	user.PasswordHash = hash
	return nil
}

func (m *memoryRepo) ListStaff(ctx context.Context) ([]User, error) {
	var staff []User
	for _, user := range m.byID {
		if user.Role == rbac.RoleStaff || user.Role == rbac.RoleAdmin {
			staff = append(staff, *user)
		}
	}
	return staff, nil
}

func (m *memoryRepo) CountByRole(ctx context.Context, role string) (int, error) {
	n := 0
	for _, user := range m.byID {
		if user.Role == role {
			n++
		}
	}
	return n, nil
}

func TestCreateStaffDefaults(t *testing.T) {
	svc := NewService(newMemoryRepo())

	staff, err := svc.CreateStaff(context.Background(), "admin-1", CreateStaffInput{
		Name:     "Ana Reyes",
		Email:    "ana@bakerist.local",
		Password: "longenoughpw",
	})
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleStaff, staff.Role)
	assert.Equal(t, "Operations", staff.Department)
	assert.True(t, staff.IsActive)
	assert.Equal(t, "admin-1", staff.CreatedBy)
	assert.NotEqual(t, "longenoughpw", staff.PasswordHash)
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	_, err := svc.CreateStaff(context.Background(), "admin-1", CreateStaffInput{
		Name: "Ana", Email: "ana@bakerist.local", Password: "longenoughpw",
	})
	require.NoError(t, err)

	_, err = svc.CreateStaff(context.Background(), "admin-1", CreateStaffInput{
		Name: "Other Ana", Email: "ana@bakerist.local", Password: "longenoughpw",
	})
	assert.ErrorIs(t, err, shared.ErrDuplicateEmail)
}

func TestUpdateStaffCannotChangeOwnRole(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	admin, err := svc.CreateStaff(context.Background(), "", CreateStaffInput{
		Name: "Root", Email: "root@bakerist.local", Password: "longenoughpw", Role: rbac.RoleAdmin,
	})
	require.NoError(t, err)

	staffRole := rbac.RoleStaff
	_, err = svc.UpdateStaff(context.Background(), admin.ID, admin.ID, StaffUpdate{Role: &staffRole})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestDeactivateStaff(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	staff, err := svc.CreateStaff(context.Background(), "admin-1", CreateStaffInput{
		Name: "Ana", Email: "ana@bakerist.local", Password: "longenoughpw",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateStaff(context.Background(), "admin-1", staff.ID))
	got, err := svc.Get(context.Background(), staff.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	err = svc.DeactivateStaff(context.Background(), staff.ID, staff.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestUpdateStaffRejectsCustomers(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	customer := &User{ID: "cust-1", Email: "c@x.ph", Role: rbac.RoleCustomer, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), customer))

	name := "New Name"
	_, err := svc.UpdateStaff(context.Background(), "admin-1", "cust-1", StaffUpdate{Name: &name})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
