package orders

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bakerist/bakerist/internal/shared"
	"github.com/bakerist/bakerist/jobs"
)

// TaskEnqueuer submits background tasks. *asynq.Client satisfies it.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service drives the order lifecycle after checkout.
type Service struct {
	logger *slog.Logger
	repo   Repository
	tasks  TaskEnqueuer
	now    func() time.Time
}

// NewService constructs the order service. tasks may be nil when no worker
// is running, e.g. in tests.
func NewService(logger *slog.Logger, repo Repository, tasks TaskEnqueuer) *Service {
	return &Service{logger: logger, repo: repo, tasks: tasks, now: time.Now}
}

// Get fetches any order. Staff and admin views use this.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

// GetForUser fetches an order only if it belongs to the given customer.
// Foreign orders surface as not found rather than forbidden, so order IDs
// cannot be probed.
func (s *Service) GetForUser(ctx context.Context, id, userID string) (*Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

// ListForUser returns a customer's own orders, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// List returns orders for the admin table.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Order, error) {
	return s.repo.List(ctx, filter)
}

// Advance moves an order to the next tracking status in the fixed sequence.
// Advancing a Delivered order is a no-op, not an error.
func (s *Service) Advance(ctx context.Context, id string) (*Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := NextStatus(order.TrackingStatus)
	if !ok {
		return order, nil
	}
	return s.applyStatus(ctx, order, next)
}

// SetStatus puts an order directly into the given tracking status.
func (s *Service) SetStatus(ctx context.Context, id, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, shared.ErrValidation
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyStatus(ctx, order, status)
}

func (s *Service) applyStatus(ctx context.Context, order *Order, status string) (*Order, error) {
	delivered := status == StatusDelivered && order.TrackingStatus != StatusDelivered

	order.TrackingStatus = status
	// Cash-on-delivery settles when the order lands at the door.
	if status == StatusDelivered && order.PaymentMethod == PaymentCOD {
		order.PaymentStatus = PaymentPaid
	}
	order.UpdatedAt = s.now()

	if err := s.repo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	if delivered && s.tasks != nil {
		task, err := jobs.NewOrderDeliveredTask(jobs.OrderDeliveredPayload{
			OrderID: order.ID,
			UserID:  order.UserID,
		})
		if err == nil {
			_, err = s.tasks.Enqueue(task, asynq.Queue(jobs.QueueDefault))
		}
		if err != nil {
			// Delivery confirmation mail is best effort.
			s.logger.Warn("enqueue order delivered task", "order_id", order.ID, "error", err)
		}
	}
	return order, nil
}

// Stats assembles the dashboard aggregates for the order table.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	startOfDay := s.now().Truncate(24 * time.Hour)

	var stats Stats
	var err error
	if stats.TotalOrders, err = s.repo.CountAll(ctx); err != nil {
		return Stats{}, err
	}
	if stats.TodayOrders, err = s.repo.CountSince(ctx, startOfDay); err != nil {
		return Stats{}, err
	}
	if stats.PendingOrders, err = s.repo.CountByStatus(ctx, StatusToPrepare); err != nil {
		return Stats{}, err
	}
	if stats.TotalRevenue, err = s.repo.Revenue(ctx); err != nil {
		return Stats{}, err
	}
	if stats.TodayRevenue, err = s.repo.RevenueSince(ctx, startOfDay); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
