package checkout

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakerist/bakerist/internal/cart"
	"github.com/bakerist/bakerist/internal/orders"
	"github.com/bakerist/bakerist/internal/shared"
)

type stubRepo struct {
	zones    map[string]float64
	counter  int
	placed   []*orders.Order
	placeErr error
}

func (s *stubRepo) ListZones(context.Context) ([]Zone, error) {
	var zones []Zone
	for b, fee := range s.zones {
		zones = append(zones, Zone{Barangay: b, ShippingFee: fee})
	}
	return zones, nil
}

func (s *stubRepo) ZoneFee(_ context.Context, barangay string) (float64, bool, error) {
	fee, ok := s.zones[barangay]
	return fee, ok, nil
}

func (s *stubRepo) PlaceOrder(_ context.Context, order *orders.Order) error {
	if s.placeErr != nil {
		return s.placeErr
	}
	order.ID = orders.GenerateOrderID(s.counter, order.CreatedAt)
	s.counter++
	s.placed = append(s.placed, order)
	return nil
}

type stubCart struct {
	items   []cart.Item
	cleared bool
}

func (s *stubCart) Items(context.Context, string) ([]cart.Item, error) { return s.items, nil }

func (s *stubCart) Clear(context.Context, string) error {
	s.cleared = true
	return nil
}

func validInput() Input {
	return Input{
		Delivery: DeliveryForm{
			FullName:       "Juan dela Cruz",
			Barangay:       "Anilao",
			Sitio:          "Sitio Maliksi",
			Contact:        "+639171234567",
			DeliveryMethod: "Delivery",
		},
		Payment: PaymentForm{Method: orders.PaymentCOD},
	}
}

func newCheckout(items []cart.Item) (*Service, *stubRepo, *stubCart) {
	repo := &stubRepo{
		zones:   map[string]float64{"Anilao": 30, "Bagalangit": 25, "Laurel": 55},
		counter: 4,
	}
	carts := &stubCart{items: items}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, carts), repo, carts
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("+639171234567"))
	assert.True(t, ValidPhone("09171234567"))
	assert.False(t, ValidPhone("9171234567"))
	assert.False(t, ValidPhone("+63917123456"))
	assert.False(t, ValidPhone("+6391712345678"))
	assert.False(t, ValidPhone("+63917123456a"))
	assert.False(t, ValidPhone(""))
}

func TestValidateDelivery(t *testing.T) {
	form := validInput().Delivery

	missing := form
	missing.Sitio = "  "
	err := ValidateDelivery(missing)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "sitio", fieldErr.Field)
	assert.ErrorIs(t, err, shared.ErrValidation)

	badPhone := form
	badPhone.Contact = "12345"
	err = ValidateDelivery(badPhone)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "contact", fieldErr.Field)

	assert.NoError(t, ValidateDelivery(form))
}

func TestValidatePayment(t *testing.T) {
	assert.NoError(t, ValidatePayment(PaymentForm{Method: orders.PaymentCOD}))

	err := ValidatePayment(PaymentForm{Method: orders.PaymentGCash, GCashNumber: "123"})
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "gcash_number", fieldErr.Field)
	assert.NoError(t, ValidatePayment(PaymentForm{Method: orders.PaymentGCash, GCashNumber: "09171234567"}))

	card := PaymentForm{
		Method:     orders.PaymentCreditCard,
		CardNumber: "4111111111111111",
		CardExpiry: "12/27",
		CardCVV:    "123",
		CardName:   "Juan dela Cruz",
	}
	assert.NoError(t, ValidatePayment(card))
	card.CardCVV = ""
	err = ValidatePayment(card)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "card_cvv", fieldErr.Field)

	err = ValidatePayment(PaymentForm{Method: "Bitcoin"})
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "method", fieldErr.Field)
}

func TestShippingFeeThresholdIsStrict(t *testing.T) {
	// exactly 300 still pays the zone fee
	assert.Equal(t, 30.0, ShippingFee(300, 30, true))
	assert.Equal(t, 0.0, ShippingFee(300.01, 30, true))
	assert.Equal(t, DefaultShippingFee, ShippingFee(100, 0, false))
}

func TestProcessOrder(t *testing.T) {
	items := []cart.Item{
		{ProductID: "prod_pandesal", Name: "Pandesal Classic", Price: 8, Quantity: 12},
		{ProductID: "prod_ensaymada", Name: "Ensaymada Special", Price: 25, Quantity: 4},
	}
	svc, repo, carts := newCheckout(items)

	order, err := svc.ProcessOrder(context.Background(), "user-1", "sess-1", validInput())
	require.NoError(t, err)

	assert.Equal(t, "ORD-"+order.CreatedAt.Format("20060102")+"-0004", order.ID)
	assert.Equal(t, 196.0, order.Subtotal)
	assert.Equal(t, 30.0, order.ShippingFee)
	assert.Equal(t, 226.0, order.Total)
	assert.Equal(t, orders.StatusToPrepare, order.TrackingStatus)
	assert.Equal(t, orders.PaymentPending, order.PaymentStatus)
	assert.Len(t, repo.placed, 1)
	assert.True(t, carts.cleared)
}

func TestProcessOrderFreeShippingOverThreshold(t *testing.T) {
	items := []cart.Item{{ProductID: "prod_cake", Name: "Ube Cake", Price: 350, Quantity: 1}}
	svc, _, _ := newCheckout(items)

	order, err := svc.ProcessOrder(context.Background(), "user-1", "sess-1", validInput())
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.ShippingFee)
	assert.Equal(t, 350.0, order.Total)
}

func TestProcessOrderUnknownBarangayDefaultFee(t *testing.T) {
	items := []cart.Item{{ProductID: "prod_pandesal", Name: "Pandesal Classic", Price: 8, Quantity: 5}}
	svc, _, _ := newCheckout(items)

	input := validInput()
	input.Delivery.Barangay = "San Roque"
	order, err := svc.ProcessOrder(context.Background(), "user-1", "sess-1", input)
	require.NoError(t, err)
	assert.Equal(t, DefaultShippingFee, order.ShippingFee)
}

func TestProcessOrderNonCODIsPaidUpfront(t *testing.T) {
	items := []cart.Item{{ProductID: "prod_pandesal", Name: "Pandesal Classic", Price: 8, Quantity: 5}}
	svc, _, _ := newCheckout(items)

	input := validInput()
	input.Payment = PaymentForm{Method: orders.PaymentGCash, GCashNumber: "09171234567"}
	order, err := svc.ProcessOrder(context.Background(), "user-1", "sess-1", input)
	require.NoError(t, err)
	assert.Equal(t, orders.PaymentPaid, order.PaymentStatus)
}

func TestProcessOrderEmptyCart(t *testing.T) {
	svc, repo, carts := newCheckout(nil)

	_, err := svc.ProcessOrder(context.Background(), "user-1", "sess-1", validInput())
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "cart", fieldErr.Field)
	assert.Empty(t, repo.placed)
	assert.False(t, carts.cleared)
}

func TestProcessOrderInsufficientStockKeepsCart(t *testing.T) {
	items := []cart.Item{{ProductID: "prod_pandesal", Name: "Pandesal Classic", Price: 8, Quantity: 500}}
	svc, repo, carts := newCheckout(items)
	repo.placeErr = shared.ErrInsufficientStock

	_, err := svc.ProcessOrder(context.Background(), "user-1", "sess-1", validInput())
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.False(t, carts.cleared)
}

func TestOrderCounterIgnoresStoredOrderCount(t *testing.T) {
	items := []cart.Item{{ProductID: "prod_pandesal", Name: "Pandesal Classic", Price: 8, Quantity: 2}}
	svc, repo, _ := newCheckout(items)

	first, err := svc.ProcessOrder(context.Background(), "user-1", "sess-1", validInput())
	require.NoError(t, err)
	assert.Contains(t, first.ID, "-0004")

	// An order vanishing from the store must not rewind the counter: IDs
	// come from the settings row, never from counting orders.
	repo.placed = nil

	second, err := svc.ProcessOrder(context.Background(), "user-1", "sess-1", validInput())
	require.NoError(t, err)
	assert.Contains(t, second.ID, "-0005")
	assert.NotEqual(t, first.ID, second.ID)

	assert.Len(t, repo.placed, 1)
	assert.Equal(t, 6, repo.counter)
}
