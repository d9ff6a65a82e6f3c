package orders

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ordersCSVHeader is the fixed export column list. The order is part of the
// export contract and must not change.
var ordersCSVHeader = []string{
	"Order ID", "Customer Name", "Contact", "Barangay", "Items",
	"Subtotal", "Shipping", "Total", "Status", "Payment Method", "Payment Status", "Date",
}

// WriteCSV renders the orders export. Line items collapse into a single
// column as "Name (qty); Name (qty)".
func WriteCSV(w io.Writer, orders []Order) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ordersCSVHeader); err != nil {
		return err
	}
	for _, o := range orders {
		row := []string{
			o.ID,
			o.DeliveryInfo.FullName,
			o.DeliveryInfo.Contact,
			o.DeliveryInfo.Barangay,
			itemsColumn(o.Items),
			strconv.FormatFloat(o.Subtotal, 'f', -1, 64),
			strconv.FormatFloat(o.ShippingFee, 'f', -1, 64),
			strconv.FormatFloat(o.Total, 'f', -1, 64),
			o.TrackingStatus,
			o.PaymentMethod,
			o.PaymentStatus,
			o.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func itemsColumn(items []OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s (%d)", item.Name, item.Qty))
	}
	return strings.Join(parts, "; ")
}
