package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeOrderDelivered is enqueued when an order reaches Delivered.
	TaskTypeOrderDelivered = "mail:order_delivered"
	// TaskTypeLowStockScan sweeps the catalog for products running low.
	TaskTypeLowStockScan = "stock:low_scan"
)

// OrderDeliveredPayload identifies the delivered order. The worker resolves
// the customer email from the database so status updates stay lightweight.
type OrderDeliveredPayload struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

// NewOrderDeliveredTask constructs an Asynq task for a delivered order.
func NewOrderDeliveredTask(payload OrderDeliveredPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeOrderDelivered, data), nil
}

// NewLowStockScanTask constructs the periodic low-stock sweep task.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeLowStockScan, nil)
}
