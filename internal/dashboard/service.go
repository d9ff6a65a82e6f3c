// Package dashboard assembles the admin overview: order metrics, revenue,
// low stock alerts, and the customer count, gathered concurrently.
package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bakerist/bakerist/internal/catalog"
	"github.com/bakerist/bakerist/internal/orders"
)

// OrderStats provides the order aggregates. The orders service satisfies it.
type OrderStats interface {
	Stats(ctx context.Context) (orders.Stats, error)
}

// ProductReader provides catalog counts. The catalog service satisfies it.
type ProductReader interface {
	Count(ctx context.Context) (int, error)
	LowStock(ctx context.Context) ([]catalog.Product, error)
}

// CustomerCounter provides the customer total. The users service satisfies it.
type CustomerCounter interface {
	CountCustomers(ctx context.Context) (int, error)
}

// LowStockAlert is one product flagged on the overview.
type LowStockAlert struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Status    string `json:"status"`
}

// Overview is the admin landing view.
type Overview struct {
	TotalOrders    int             `json:"total_orders"`
	TodayOrders    int             `json:"today_orders"`
	PendingOrders  int             `json:"pending_orders"`
	TotalRevenue   float64         `json:"total_revenue"`
	TodayRevenue   float64         `json:"today_revenue"`
	TotalProducts  int             `json:"total_products"`
	TotalCustomers int             `json:"total_customers"`
	LowStock       []LowStockAlert `json:"low_stock"`
}

// Service gathers the overview figures.
type Service struct {
	orders    OrderStats
	products  ProductReader
	customers CustomerCounter
}

// NewService constructs the dashboard service.
func NewService(orderStats OrderStats, products ProductReader, customers CustomerCounter) *Service {
	return &Service{orders: orderStats, products: products, customers: customers}
}

// Overview fans the metric queries out concurrently and assembles the view.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var view Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.orders.Stats(ctx)
		if err != nil {
			return err
		}
		view.TotalOrders = stats.TotalOrders
		view.TodayOrders = stats.TodayOrders
		view.PendingOrders = stats.PendingOrders
		view.TotalRevenue = stats.TotalRevenue
		view.TodayRevenue = stats.TodayRevenue
		return nil
	})
	g.Go(func() error {
		count, err := s.products.Count(ctx)
		if err != nil {
			return err
		}
		view.TotalProducts = count
		return nil
	})
	g.Go(func() error {
		low, err := s.products.LowStock(ctx)
		if err != nil {
			return err
		}
		alerts := make([]LowStockAlert, 0, len(low))
		for _, p := range low {
			alerts = append(alerts, LowStockAlert{
				ProductID: p.ID,
				Name:      p.Name,
				Stock:     p.Stock,
				Status:    catalog.StatusForStock(p.Stock).Label(),
			})
		}
		view.LowStock = alerts
		return nil
	})
	g.Go(func() error {
		count, err := s.customers.CountCustomers(ctx)
		if err != nil {
			return err
		}
		view.TotalCustomers = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &view, nil
}
