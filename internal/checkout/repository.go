package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bakerist/bakerist/internal/orders"
	"github.com/bakerist/bakerist/internal/platform/db"
	"github.com/bakerist/bakerist/internal/shared"
)

// Zone is one barangay shipping-fee row.
type Zone struct {
	Barangay    string  `json:"barangay"`
	ShippingFee float64 `json:"shipping_fee"`
}

// Repository owns the transactional unit of checkout plus the zone table.
type Repository interface {
	ListZones(ctx context.Context) ([]Zone, error)
	ZoneFee(ctx context.Context, barangay string) (float64, bool, error)
	PlaceOrder(ctx context.Context, order *orders.Order) error
}

// PostgresRepository provides PostgreSQL backed checkout persistence.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListZones returns the barangay fee table.
func (r *PostgresRepository) ListZones(ctx context.Context) ([]Zone, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT barangay, shipping_fee FROM delivery_zones ORDER BY barangay`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		var z Zone
		if err := rows.Scan(&z.Barangay, &z.ShippingFee); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// ZoneFee looks up a barangay's shipping fee. The second return is false
// when the barangay is unmapped.
func (r *PostgresRepository) ZoneFee(ctx context.Context, barangay string) (float64, bool, error) {
	var fee float64
	err := r.pool.QueryRow(ctx,
		`SELECT shipping_fee FROM delivery_zones WHERE barangay = $1`, barangay).Scan(&fee)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return fee, true, nil
}

// PlaceOrder commits an order atomically: the stock decrements, the order
// row, and the order-number counter bump either all land or none do. The
// order ID is assigned inside the transaction from the locked counter.
func (r *PostgresRepository) PlaceOrder(ctx context.Context, order *orders.Order) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var counter int
		if err := tx.QueryRow(ctx,
			`SELECT next_order_number FROM settings FOR UPDATE`).Scan(&counter); err != nil {
			return fmt.Errorf("checkout: read order counter: %w", err)
		}
		order.ID = orders.GenerateOrderID(counter, order.CreatedAt)

		for _, item := range order.Items {
			tag, err := tx.Exec(ctx, `
				UPDATE products
				SET stock = stock - $2, updated_at = now()
				WHERE id = $1 AND stock >= $2`,
				item.ProductID, item.Qty)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				var exists bool
				if err := tx.QueryRow(ctx,
					`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, item.ProductID).Scan(&exists); err != nil {
					return err
				}
				if !exists {
					return shared.ErrNotFound
				}
				return shared.ErrInsufficientStock
			}
		}

		if err := orders.InsertTx(ctx, tx, order); err != nil {
			return fmt.Errorf("checkout: insert order: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE settings SET next_order_number = next_order_number + 1`); err != nil {
			return fmt.Errorf("checkout: bump order counter: %w", err)
		}
		return nil
	})
}
