package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// OrderDeliveredJob sends the delivery confirmation mail for an order.
type OrderDeliveredJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// NewOrderDeliveredJob initialises the delivered-mail handler.
func NewOrderDeliveredJob(pool *pgxpool.Pool, logger *slog.Logger) *OrderDeliveredJob {
	return &OrderDeliveredJob{Pool: pool, Logger: logger}
}

// Handle processes TaskTypeOrderDelivered tasks.
func (j *OrderDeliveredJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("order delivered job: not configured")
	}
	var payload OrderDeliveredPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	var email, name string
	var total float64
	err := j.Pool.QueryRow(ctx, `
		SELECT u.email, u.name, o.total
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1`, payload.OrderID).Scan(&email, &name, &total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Order or account gone; retrying will not help.
			return asynq.SkipRetry
		}
		return err
	}

	printer := message.NewPrinter(language.English)
	subject := fmt.Sprintf("Your order %s has been delivered", payload.OrderID)
	body := printer.Sprintf("Hi %s, your order %s (₱%.2f) was delivered. Thank you for ordering!",
		name, payload.OrderID, total)

	// Placeholder: integrate with SMTP/Mailpit in phase 2.
	j.Logger.Info("send email", "to", email, "subject", subject, "body", body)
	return nil
}
