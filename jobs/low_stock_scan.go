package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LowStockScanJob sweeps the catalog for available products whose stock fell
// below the alert threshold and records them for the bakery staff.
type LowStockScanJob struct {
	Pool      *pgxpool.Pool
	Logger    *slog.Logger
	Threshold int
}

// NewLowStockScanJob initialises the low-stock sweep handler.
func NewLowStockScanJob(pool *pgxpool.Pool, logger *slog.Logger, threshold int) *LowStockScanJob {
	return &LowStockScanJob{Pool: pool, Logger: logger, Threshold: threshold}
}

// Handle processes TaskTypeLowStockScan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("low stock scan job: not configured")
	}
	rows, err := j.Pool.Query(ctx, `
		SELECT id, name, stock
		FROM products
		WHERE available AND stock < $1
		ORDER BY stock ASC`, j.Threshold)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, name string
		var stock int
		if err := rows.Scan(&id, &name, &stock); err != nil {
			return err
		}
		j.Logger.Warn("low stock", "product_id", id, "name", name, "stock", stock)
		count++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	j.Logger.Info("low stock scan complete", "flagged", count)
	return nil
}
