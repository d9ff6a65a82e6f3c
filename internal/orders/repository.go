package orders

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bakerist/bakerist/internal/shared"
)

// ListFilter narrows admin order listings.
type ListFilter struct {
	Status        string
	PaymentStatus string
	Search        string
	Since         *time.Time
}

// Stats are the dashboard aggregates over the order table.
type Stats struct {
	TotalOrders   int     `json:"total_orders"`
	TodayOrders   int     `json:"today_orders"`
	PendingOrders int     `json:"pending_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	TodayRevenue  float64 `json:"today_revenue"`
}

// Repository defines persistence for orders.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, error)
	UpdateStatus(ctx context.Context, order *Order) error
	CountAll(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	Revenue(ctx context.Context) (float64, error)
	RevenueSince(ctx context.Context, since time.Time) (float64, error)
}

// PostgresRepository provides PostgreSQL backed persistence for orders.
// Items and delivery info live in jsonb columns, preserving the document
// shape orders were born with.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const orderColumns = `id, user_id, items, subtotal, shipping_fee, total, delivery_info,
	tracking_status, payment_method, payment_status, order_notes, created_at, updated_at`

// GetByID fetches an order by its public ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// ListByUser returns a customer's orders, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// List returns orders for the admin table, newest first. Search matches the
// order ID, customer name, or contact number.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "$N", "$"+strconv.Itoa(len(args))))
	}
	if filter.Status != "" && filter.Status != "all" {
		add("tracking_status = $N", filter.Status)
	}
	if filter.PaymentStatus != "" && filter.PaymentStatus != "all" {
		add("payment_status = $N", filter.PaymentStatus)
	}
	if filter.Search != "" {
		add(`(id ILIKE $N OR delivery_info->>'full_name' ILIKE $N OR delivery_info->>'contact' ILIKE $N)`,
			"%"+filter.Search+"%")
	}
	if filter.Since != nil {
		add("created_at >= $N", *filter.Since)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// UpdateStatus persists the mutable status fields of an order.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, order *Order) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET tracking_status = $2, payment_status = $3, updated_at = $4
		WHERE id = $1`,
		order.ID, order.TrackingStatus, order.PaymentStatus, order.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountAll returns the total number of orders.
func (r *PostgresRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&n)
	return n, err
}

// CountSince counts orders created at or after the given time.
func (r *PostgresRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

// CountByStatus counts orders in a tracking status.
func (r *PostgresRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE tracking_status = $1`, status).Scan(&n)
	return n, err
}

// Revenue sums totals over all orders.
func (r *PostgresRepository) Revenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT coalesce(sum(total), 0) FROM orders`).Scan(&total)
	return total, err
}

// RevenueSince sums totals of orders created at or after the given time.
func (r *PostgresRepository) RevenueSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT coalesce(sum(total), 0) FROM orders WHERE created_at >= $1`, since).Scan(&total)
	return total, err
}

// InsertTx writes an order inside a caller-held transaction. Checkout uses
// this so the order row, the stock decrements, and the counter bump commit
// together.
func InsertTx(ctx context.Context, tx pgx.Tx, order *Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	info, err := json.Marshal(order.DeliveryInfo)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, items, subtotal, shipping_fee, total, delivery_info,
			tracking_status, payment_method, payment_status, order_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		order.ID, order.UserID, items, order.Subtotal, order.ShippingFee, order.Total, info,
		order.TrackingStatus, order.PaymentMethod, order.PaymentStatus, order.OrderNotes,
		order.CreatedAt, order.UpdatedAt)
	return err
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	var result []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	return result, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var order Order
	var items, info []byte
	if err := row.Scan(&order.ID, &order.UserID, &items, &order.Subtotal, &order.ShippingFee,
		&order.Total, &info, &order.TrackingStatus, &order.PaymentMethod, &order.PaymentStatus,
		&order.OrderNotes, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(info, &order.DeliveryInfo); err != nil {
		return nil, err
	}
	return &order, nil
}
