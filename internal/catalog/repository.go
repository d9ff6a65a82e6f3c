package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bakerist/bakerist/internal/shared"
)

// Repository defines persistence for products.
type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	DecrementStock(ctx context.Context, id string, qty int) error
	ListBelowStock(ctx context.Context, threshold int) ([]Product, error)
	Count(ctx context.Context) (int, error)
}

// PostgresRepository provides PostgreSQL backed persistence for products.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, name, category, price, stock, available, description, image, options, created_at, updated_at`

// Create inserts a new product.
func (r *PostgresRepository) Create(ctx context.Context, product *Product) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, name, category, price, stock, available, description, image, options, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		product.ID, product.Name, product.Category, product.Price, product.Stock,
		product.Available, product.Description, product.Image, product.Options,
		product.CreatedAt, product.UpdatedAt)
	return err
}

// GetByID fetches one product.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// List returns every product. Filtering and ordering happen in the service.
func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Update overwrites product fields.
func (r *PostgresRepository) Update(ctx context.Context, product *Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $2, category = $3, price = $4, stock = $5, available = $6,
			description = $7, image = $8, options = $9, updated_at = $10
		WHERE id = $1`,
		product.ID, product.Name, product.Category, product.Price, product.Stock,
		product.Available, product.Description, product.Image, product.Options,
		product.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DecrementStock atomically subtracts qty, refusing to go negative.
func (r *PostgresRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`,
		id, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// ListBelowStock returns products with stock under the threshold.
func (r *PostgresRepository) ListBelowStock(ctx context.Context, threshold int) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE stock < $1 ORDER BY stock`, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Count returns the number of products.
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&count)
	return count, err
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Available,
		&p.Description, &p.Image, &p.Options, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
