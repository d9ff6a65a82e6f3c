// Package catalog owns product records and stock arithmetic. Products are
// disabled rather than deleted; hiding a product from customer listings
// does not remove it from admin views.
package catalog

import (
	"encoding/json"
	"time"
)

// Product represents a bakery catalog item.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       float64         `json:"price"`
	Stock       int             `json:"stock"`
	Available   bool            `json:"available"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Options     json.RawMessage `json:"options,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockStatus classifies a stock level for inventory badges.
type StockStatus string

const (
	StockStatusOut      StockStatus = "out_of_stock"
	StockStatusCritical StockStatus = "critical"
	StockStatusLow      StockStatus = "low"
	StockStatusIn       StockStatus = "in_stock"
)

// StatusForStock maps a stock count to its badge classification.
// Thresholds: 0 out, 1-4 critical, 5-9 low, 10+ in stock.
func StatusForStock(stock int) StockStatus {
	switch {
	case stock == 0:
		return StockStatusOut
	case stock < 5:
		return StockStatusCritical
	case stock < 10:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// Label returns the badge text shown for the status.
func (s StockStatus) Label() string {
	switch s {
	case StockStatusOut:
		return "Out of Stock"
	case StockStatusCritical:
		return "Very Low"
	case StockStatusLow:
		return "Low"
	default:
		return "In Stock"
	}
}

// Sort keys accepted by product listings.
const (
	SortPriceAsc  = "price-low"
	SortPriceDesc = "price-high"
	SortName      = "name"
	SortPopular   = "popular"
)

// ListFilter narrows and orders a product listing. AvailableOnly is set for
// customer-facing listings; admin views see disabled products too.
type ListFilter struct {
	Category      string
	Search        string
	SortBy        string
	AvailableOnly bool
}

// LowStockThreshold is the stock level below which the admin dashboard
// raises an alert.
const LowStockThreshold = 10
