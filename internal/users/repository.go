package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bakerist/bakerist/internal/shared"
)

// Repository defines persistence for user accounts.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	ListStaff(ctx context.Context) ([]User, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

// PostgresRepository provides PostgreSQL backed persistence for users.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, contact_no, barangay, sitio,
	is_active, department, permissions, created_by, newsletter, sms_notifications,
	created_at, updated_at`

// Create inserts a new user. A unique-violation on email maps to
// shared.ErrDuplicateEmail.
func (r *PostgresRepository) Create(ctx context.Context, user *User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, contact_no, barangay, sitio,
			is_active, department, permissions, created_by, newsletter, sms_notifications,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.ContactNo,
		user.Barangay, user.Sitio, user.IsActive, user.Department, user.Permissions,
		nullable(user.CreatedBy), user.Preferences.Newsletter, user.Preferences.SMSNotifications,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByID fetches a user by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail fetches a user by unique email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// Update overwrites the mutable profile fields of a user.
func (r *PostgresRepository) Update(ctx context.Context, user *User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $2, email = $3, role = $4, contact_no = $5, barangay = $6, sitio = $7,
			is_active = $8, department = $9, permissions = $10,
			newsletter = $11, sms_notifications = $12, updated_at = $13
		WHERE id = $1`,
		user.ID, user.Name, user.Email, user.Role, user.ContactNo, user.Barangay,
		user.Sitio, user.IsActive, user.Department, user.Permissions,
		user.Preferences.Newsletter, user.Preferences.SMSNotifications, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrDuplicateEmail
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListStaff returns staff and admin accounts.
func (r *PostgresRepository) ListStaff(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role IN ('staff', 'admin') ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

// CountByRole counts accounts holding a role.
func (r *PostgresRepository) CountByRole(ctx context.Context, role string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE role = $1`, role).Scan(&n)
	return n, err
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	var createdBy *string
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.ContactNo, &user.Barangay, &user.Sitio, &user.IsActive, &user.Department,
		&user.Permissions, &createdBy, &user.Preferences.Newsletter,
		&user.Preferences.SMSNotifications, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	if createdBy != nil {
		user.CreatedBy = *createdBy
	}
	return &user, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
