// Package orders owns the order lifecycle: records are created once at
// checkout and afterwards only their status fields change. Orders are never
// deleted.
package orders

import (
	"encoding/json"
	"fmt"
	"time"
)

// Tracking statuses, in lifecycle order.
const (
	StatusToPay          = "To Pay"
	StatusToPrepare      = "To Prepare"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
)

// StatusSequence is the fixed lifecycle order used by Advance and by the
// customer tracking timeline.
var StatusSequence = []string{StatusToPay, StatusToPrepare, StatusOutForDelivery, StatusDelivered}

// Payment methods.
const (
	PaymentCOD        = "COD"
	PaymentGCash      = "GCash"
	PaymentCreditCard = "Credit Card"
)

// Payment statuses.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
)

// OrderItem is a line captured at checkout time. Price and name are
// snapshots; later catalog edits do not rewrite history.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Price     float64         `json:"price"`
	Options   json.RawMessage `json:"options,omitempty"`
}

// DeliveryInfo holds the destination and contact captured at checkout.
type DeliveryInfo struct {
	FullName       string `json:"full_name"`
	Barangay       string `json:"barangay"`
	Sitio          string `json:"sitio"`
	Contact        string `json:"contact"`
	DeliveryMethod string `json:"delivery_method"`
	Instructions   string `json:"instructions,omitempty"`
}

// Order is a placed order.
type Order struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	Items          []OrderItem  `json:"items"`
	Subtotal       float64      `json:"subtotal"`
	ShippingFee    float64      `json:"shipping_fee"`
	Total          float64      `json:"total"`
	DeliveryInfo   DeliveryInfo `json:"delivery_info"`
	TrackingStatus string       `json:"tracking_status"`
	PaymentMethod  string       `json:"payment_method"`
	PaymentStatus  string       `json:"payment_status"`
	OrderNotes     string       `json:"order_notes,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// GenerateOrderID formats an order ID from the settings counter and a date,
// e.g. ORD-20250120-0004. The counter is stored independently of the order
// table and is not derived from the order count.
func GenerateOrderID(counter int, at time.Time) string {
	return fmt.Sprintf("ORD-%s-%04d", at.Format("20060102"), counter)
}

// ValidStatus reports whether s is one of the known tracking statuses.
func ValidStatus(s string) bool {
	for _, known := range StatusSequence {
		if s == known {
			return true
		}
	}
	return false
}

// NextStatus returns the status after s in the lifecycle sequence, and false
// when s is terminal or unknown.
func NextStatus(s string) (string, bool) {
	for i, known := range StatusSequence {
		if s == known && i+1 < len(StatusSequence) {
			return StatusSequence[i+1], true
		}
	}
	return "", false
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCOD || m == PaymentGCash || m == PaymentCreditCard
}

// InitialPaymentStatus maps the payment method to the status an order starts
// in: cash on delivery stays Pending until the order is delivered, everything
// else is treated as settled upfront.
func InitialPaymentStatus(method string) string {
	if method == PaymentCOD {
		return PaymentPending
	}
	return PaymentPaid
}
