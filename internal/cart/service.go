package cart

import (
	"context"
	"log/slog"

	"github.com/bakerist/bakerist/internal/catalog"
	"github.com/bakerist/bakerist/internal/shared"
)

// ProductGetter is the slice of the catalog the cart needs.
type ProductGetter interface {
	Get(ctx context.Context, id string) (*catalog.Product, error)
}

// Service applies cart rules: quantities above the live stock level are
// rejected and unavailable products cannot be added.
type Service struct {
	logger   *slog.Logger
	repo     Repository
	products ProductGetter
}

func NewService(logger *slog.Logger, repo Repository, products ProductGetter) *Service {
	return &Service{logger: logger, repo: repo, products: products}
}

// Items returns the current cart contents.
func (s *Service) Items(ctx context.Context, sessionID string) ([]Item, error) {
	return s.repo.Get(ctx, sessionID)
}

// Add puts quantity units of a product in the cart, merging with an existing
// line for the same product. A quantity that would exceed current stock,
// merged total included, rejects the operation and leaves the cart as it was.
func (s *Service) Add(ctx context.Context, sessionID, productID string, quantity int) ([]Item, error) {
	if quantity <= 0 {
		return nil, shared.ErrValidation
	}
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Available || product.Stock == 0 {
		return nil, shared.ErrInsufficientStock
	}

	items, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range items {
		if items[i].ProductID == productID {
			if items[i].Quantity+quantity > product.Stock {
				return nil, shared.ErrInsufficientStock
			}
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		if quantity > product.Stock {
			return nil, shared.ErrInsufficientStock
		}
		items = append(items, Item{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
			Image:     product.Image,
			Options:   product.Options,
		})
	}

	if err := s.repo.Save(ctx, sessionID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateQuantity sets the quantity for a line. A quantity below one removes
// the line; anything above current stock rejects the update and leaves the
// line unchanged.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) ([]Item, error) {
	if quantity < 1 {
		return s.Remove(ctx, sessionID, productID)
	}
	items, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		product, err := s.products.Get(ctx, productID)
		if err != nil {
			return nil, err
		}
		if quantity > product.Stock {
			return nil, shared.ErrInsufficientStock
		}
		items[i].Quantity = quantity
		found = true
		break
	}
	if !found {
		return nil, shared.ErrNotFound
	}
	if err := s.repo.Save(ctx, sessionID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove drops a line from the cart. Removing an absent line is not an error.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) ([]Item, error) {
	items, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	if err := s.repo.Save(ctx, sessionID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Clear(ctx, sessionID)
}
