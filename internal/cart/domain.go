// Package cart implements the session-scoped shopping cart. Line items
// snapshot the product name and price at add time; they are not live-joined
// against the catalog afterwards.
package cart

import "encoding/json"

// Item is one cart line.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     float64         `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
	Options   json.RawMessage `json:"options,omitempty"`
}

// Cart is the view returned to clients.
type Cart struct {
	Items    []Item  `json:"items"`
	Subtotal float64 `json:"subtotal"`
	Count    int     `json:"count"`
}

// Subtotal sums qty x price over the line items.
func Subtotal(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}

// Count sums line quantities.
func Count(items []Item) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// ViewOf assembles the client view for a set of items.
func ViewOf(items []Item) Cart {
	if items == nil {
		items = []Item{}
	}
	return Cart{Items: items, Subtotal: Subtotal(items), Count: Count(items)}
}
