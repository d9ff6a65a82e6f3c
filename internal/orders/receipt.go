package orders

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pesoPrinter = message.NewPrinter(language.English)

// FormatPeso renders an amount as Philippine pesos with thousands grouping,
// e.g. ₱1,234.50.
func FormatPeso(amount float64) string {
	return pesoPrinter.Sprintf("₱%.2f", amount)
}

// ReceiptLine is one formatted line on the order receipt.
type ReceiptLine struct {
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// TrackingStep marks one stage of the delivery timeline. State is one of
// "completed", "current" or "pending".
type TrackingStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	State       string `json:"state"`
}

// Receipt is the customer-facing order summary with amounts already
// formatted for display.
type Receipt struct {
	OrderID       string         `json:"order_id"`
	PlacedAt      string         `json:"placed_at"`
	CustomerName  string         `json:"customer_name"`
	Address       string         `json:"address"`
	Contact       string         `json:"contact"`
	Lines         []ReceiptLine  `json:"lines"`
	Subtotal      string         `json:"subtotal"`
	ShippingFee   string         `json:"shipping_fee"`
	Total         string         `json:"total"`
	PaymentMethod string         `json:"payment_method"`
	PaymentStatus string         `json:"payment_status"`
	Tracking      []TrackingStep `json:"tracking"`
	OrderNotes    string         `json:"order_notes,omitempty"`
}

// BuildReceipt renders the receipt view for an order.
func BuildReceipt(order *Order) Receipt {
	lines := make([]ReceiptLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, ReceiptLine{
			Name:      item.Name,
			Qty:       item.Qty,
			UnitPrice: FormatPeso(item.Price),
			LineTotal: FormatPeso(float64(item.Qty) * item.Price),
		})
	}

	shipping := FormatPeso(order.ShippingFee)
	if order.ShippingFee == 0 {
		shipping = "FREE"
	}

	return Receipt{
		OrderID:       order.ID,
		PlacedAt:      order.CreatedAt.Format("January 2, 2006 3:04 PM"),
		CustomerName:  order.DeliveryInfo.FullName,
		Address:       order.DeliveryInfo.Sitio + ", " + order.DeliveryInfo.Barangay,
		Contact:       order.DeliveryInfo.Contact,
		Lines:         lines,
		Subtotal:      FormatPeso(order.Subtotal),
		ShippingFee:   shipping,
		Total:         FormatPeso(order.Total),
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		Tracking:      TrackingTimeline(order.TrackingStatus),
		OrderNotes:    order.OrderNotes,
	}
}

var timelineSteps = []TrackingStep{
	{Title: "Order Placed", Description: "Your order has been received"},
	{Title: "Payment Confirmed", Description: "Payment has been processed"},
	{Title: "Preparing Order", Description: "Our bakers are preparing your items"},
	{Title: "Out for Delivery", Description: "Your order is on the way"},
	{Title: "Delivered", Description: "Order has been delivered"},
}

// TrackingTimeline expands a current status into the five display steps.
// The two synthetic leading steps (placed, payment) sit before the status
// ladder, so a status at index i completes the first i+2 steps.
func TrackingTimeline(current string) []TrackingStep {
	currentIdx := -1
	for i, status := range StatusSequence {
		if status == current {
			currentIdx = i
			break
		}
	}
	steps := make([]TrackingStep, len(timelineSteps))
	for i, step := range timelineSteps {
		switch {
		case i <= currentIdx+1:
			step.State = "completed"
		case i == currentIdx+2:
			step.State = "current"
		default:
			step.State = "pending"
		}
		steps[i] = step
	}
	return steps
}
