package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bakerist/bakerist/internal/shared"
)

// Service wraps catalog and inventory business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns products matching the filter. Search is case-insensitive
// over name and description; "popular" sorts by ascending stock, as the
// original storefront did.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(filter.Search)
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if filter.AvailableOnly && !p.Available {
			continue
		}
		if filter.Category != "" && filter.Category != "all" && p.Category != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch filter.SortBy {
	case SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	case SortName:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })
	case SortPopular:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Stock < filtered[j].Stock })
	}

	return filtered, nil
}

// CreateInput describes a new product added by an admin.
type CreateInput struct {
	Name        string
	Category    string
	Price       float64
	Stock       int
	Description string
	Image       string
}

// Create adds a new product to the catalog.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	if input.Price < 0 || input.Stock < 0 {
		return nil, fmt.Errorf("%w: price and stock must be non-negative", shared.ErrValidation)
	}
	now := time.Now().UTC()
	product := &Product{
		ID:          "prod_" + uuid.NewString(),
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		Available:   true,
		Description: input.Description,
		Image:       input.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// FieldPatch carries optional product field overwrites. No audit history is
// kept; patches overwrite directly.
type FieldPatch struct {
	Name        *string
	Category    *string
	Price       *float64
	Description *string
	Image       *string
}

// UpdateFields applies a patch to a product.
func (s *Service) UpdateFields(ctx context.Context, id string, patch FieldPatch) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, fmt.Errorf("%w: price must be non-negative", shared.ErrValidation)
		}
		product.Price = *patch.Price
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Image != nil {
		product.Image = *patch.Image
	}
	product.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// SetStock overwrites the stock count.
func (s *Service) SetStock(ctx context.Context, id string, stock int) (*Product, error) {
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock must be non-negative", shared.ErrValidation)
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Stock = stock
	product.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DecrementStock subtracts qty from a product's stock. It fails with
// shared.ErrInsufficientStock when qty exceeds the current stock, leaving
// the stock untouched.
func (s *Service) DecrementStock(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
	}
	return s.repo.DecrementStock(ctx, id, qty)
}

// ToggleAvailability flips a product's customer-facing visibility.
func (s *Service) ToggleAvailability(ctx context.Context, id string) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Available = !product.Available
	product.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// LowStock returns products below the alert threshold.
func (s *Service) LowStock(ctx context.Context) ([]Product, error) {
	return s.repo.ListBelowStock(ctx, LowStockThreshold)
}

// Count returns the catalog size for the dashboard.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
