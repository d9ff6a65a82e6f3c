package checkout

import (
	"context"
	"log/slog"
	"time"

	"github.com/bakerist/bakerist/internal/cart"
	"github.com/bakerist/bakerist/internal/orders"
)

// CartReader is the slice of the cart service checkout needs.
type CartReader interface {
	Items(ctx context.Context, sessionID string) ([]cart.Item, error)
	Clear(ctx context.Context, sessionID string) error
}

// Input is the full checkout form.
type Input struct {
	Delivery   DeliveryForm `json:"delivery"`
	Payment    PaymentForm  `json:"payment"`
	OrderNotes string       `json:"order_notes"`
}

// Service orchestrates order placement.
type Service struct {
	logger *slog.Logger
	repo   Repository
	carts  CartReader
	now    func() time.Time
}

// NewService constructs the checkout service.
func NewService(logger *slog.Logger, repo Repository, carts CartReader) *Service {
	return &Service{logger: logger, repo: repo, carts: carts, now: time.Now}
}

// Zones returns the barangay fee table for the checkout form.
func (s *Service) Zones(ctx context.Context) ([]Zone, error) {
	return s.repo.ListZones(ctx)
}

// Quote resolves the shipping fee for the current cart and barangay without
// placing an order. The checkout page calls this when the barangay changes.
func (s *Service) Quote(ctx context.Context, sessionID, barangay string) (subtotal, shipping float64, err error) {
	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return 0, 0, err
	}
	subtotal = cart.Subtotal(items)
	fee, known, err := s.repo.ZoneFee(ctx, barangay)
	if err != nil {
		return 0, 0, err
	}
	return subtotal, ShippingFee(subtotal, fee, known), nil
}

// ProcessOrder validates the checkout form, prices the cart, and commits the
// order. On success the cart is cleared.
func (s *Service) ProcessOrder(ctx context.Context, userID, sessionID string, input Input) (*orders.Order, error) {
	if err := ValidateDelivery(input.Delivery); err != nil {
		return nil, err
	}
	if err := ValidatePayment(input.Payment); err != nil {
		return nil, err
	}

	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &FieldError{Field: "cart", Detail: "is empty"}
	}

	subtotal := cart.Subtotal(items)
	fee, known, err := s.repo.ZoneFee(ctx, input.Delivery.Barangay)
	if err != nil {
		return nil, err
	}
	shipping := ShippingFee(subtotal, fee, known)

	lines := make([]orders.OrderItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, orders.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Qty:       item.Quantity,
			Price:     item.Price,
			Options:   item.Options,
		})
	}

	now := s.now()
	order := &orders.Order{
		UserID:      userID,
		Items:       lines,
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Total:       subtotal + shipping,
		DeliveryInfo: orders.DeliveryInfo{
			FullName:       input.Delivery.FullName,
			Barangay:       input.Delivery.Barangay,
			Sitio:          input.Delivery.Sitio,
			Contact:        input.Delivery.Contact,
			DeliveryMethod: input.Delivery.DeliveryMethod,
			Instructions:   input.Delivery.Instructions,
		},
		TrackingStatus: orders.StatusToPrepare,
		PaymentMethod:  input.Payment.Method,
		PaymentStatus:  orders.InitialPaymentStatus(input.Payment.Method),
		OrderNotes:     input.OrderNotes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.PlaceOrder(ctx, order); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order is already committed; a stale cart is recoverable.
		s.logger.Warn("clear cart after checkout", "order_id", order.ID, "error", err)
	}

	s.logger.Info("order placed",
		"order_id", order.ID, "user_id", userID, "total", order.Total,
		"payment_method", order.PaymentMethod)
	return order, nil
}
