package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakerist/bakerist/internal/shared"
)

type memoryRepo struct {
	products map[string]*Product
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: map[string]*Product{}}
}

func (m *memoryRepo) Create(ctx context.Context, product *Product) error {
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (m *memoryRepo) List(ctx context.Context) ([]Product, error) {
	var result []Product
	for _, p := range m.products {
		result = append(result, *p)
	}
	return result, nil
}

func (m *memoryRepo) Update(ctx context.Context, product *Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return shared.ErrNotFound
	}
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *memoryRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	product, ok := m.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	if qty > product.Stock {
		return shared.ErrInsufficientStock
	}
	product.Stock -= qty
	return nil
}

func (m *memoryRepo) ListBelowStock(ctx context.Context, threshold int) ([]Product, error) {
	var result []Product
	for _, p := range m.products {
		if p.Stock < threshold {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *memoryRepo) Count(ctx context.Context) (int, error) {
	return len(m.products), nil
}

func seedProduct(t *testing.T, repo *memoryRepo, id, name, category string, price float64, stock int, available bool) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &Product{
		ID: id, Name: name, Category: category, Price: price, Stock: stock, Available: available,
	}))
}

func TestDecrementStockRefusesOverdraw(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	seedProduct(t, repo, "prod_001", "Pandesal Classic", "Breads", 8, 5, true)

	err := svc.DecrementStock(context.Background(), "prod_001", 6)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	got, err := svc.Get(context.Background(), "prod_001")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock, "failed decrement must leave stock unchanged")
}

func TestDecrementStock(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	seedProduct(t, repo, "prod_001", "Pandesal Classic", "Breads", 8, 5, true)

	require.NoError(t, svc.DecrementStock(context.Background(), "prod_001", 5))
	got, err := svc.Get(context.Background(), "prod_001")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	err = svc.DecrementStock(context.Background(), "prod_001", 0)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestStatusForStockThresholds(t *testing.T) {
	cases := []struct {
		stock int
		want  StockStatus
		label string
	}{
		{0, StockStatusOut, "Out of Stock"},
		{1, StockStatusCritical, "Very Low"},
		{4, StockStatusCritical, "Very Low"},
		{5, StockStatusLow, "Low"},
		{9, StockStatusLow, "Low"},
		{10, StockStatusIn, "In Stock"},
		{120, StockStatusIn, "In Stock"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusForStock(tc.stock), "stock=%d", tc.stock)
		assert.Equal(t, tc.label, StatusForStock(tc.stock).Label(), "stock=%d", tc.stock)
	}
}

func TestListHidesUnavailableFromCustomers(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	seedProduct(t, repo, "prod_001", "Pandesal Classic", "Breads", 8, 120, true)
	seedProduct(t, repo, "prod_002", "Ube Cake", "Cakes", 450, 3, false)

	customer, err := svc.List(context.Background(), ListFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Len(t, customer, 1)

	admin, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Len(t, admin, 2)
}

func TestListFilterAndSort(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	seedProduct(t, repo, "prod_001", "Pandesal Classic", "Breads", 8, 120, true)
	seedProduct(t, repo, "prod_002", "Ensaymada Special", "Breads", 25, 45, true)
	seedProduct(t, repo, "prod_003", "Ube Cake", "Cakes", 450, 3, true)

	breads, err := svc.List(context.Background(), ListFilter{Category: "Breads"})
	require.NoError(t, err)
	assert.Len(t, breads, 2)

	search, err := svc.List(context.Background(), ListFilter{Search: "ENSAYMADA"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "prod_002", search[0].ID)

	byPrice, err := svc.List(context.Background(), ListFilter{SortBy: SortPriceDesc})
	require.NoError(t, err)
	require.Len(t, byPrice, 3)
	assert.Equal(t, "prod_003", byPrice[0].ID)

	popular, err := svc.List(context.Background(), ListFilter{SortBy: SortPopular})
	require.NoError(t, err)
	assert.Equal(t, "prod_003", popular[0].ID, "popular sorts by ascending stock")
}

func TestToggleAvailability(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	seedProduct(t, repo, "prod_001", "Pandesal Classic", "Breads", 8, 120, true)

	product, err := svc.ToggleAvailability(context.Background(), "prod_001")
	require.NoError(t, err)
	assert.False(t, product.Available)

	product, err = svc.ToggleAvailability(context.Background(), "prod_001")
	require.NoError(t, err)
	assert.True(t, product.Available)
}

func TestSetStockRejectsNegative(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	seedProduct(t, repo, "prod_001", "Pandesal Classic", "Breads", 8, 120, true)

	_, err := svc.SetStock(context.Background(), "prod_001", -1)
	assert.ErrorIs(t, err, shared.ErrValidation)
}
