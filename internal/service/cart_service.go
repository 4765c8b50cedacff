package service

import (
	"context"
	"fmt"
	"sort"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/session"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService owns cart mutations and pricing. Every mutation returns the
// full recomputed summary so callers always observe consistent
// post-mutation state.
type CartService interface {
	Add(ctx context.Context, sessionID string, productID uuid.UUID) (*domain.CartSummary, error)
	Reduce(ctx context.Context, sessionID string, productID uuid.UUID) (*domain.CartSummary, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*domain.CartSummary, error)
	Summary(ctx context.Context, sessionID string) (*domain.CartSummary, error)
	Count(ctx context.Context, sessionID string) (int, error)
}

type cartService struct {
	products repository.ProductRepository
	carts    session.CartStore
}

// NewCartService creates a new instance of CartService
func NewCartService(products repository.ProductRepository, carts session.CartStore) CartService {
	return &cartService{
		products: products,
		carts:    carts,
	}
}

// Add puts one unit of the product into the cart, or increments the
// quantity if it is already there. The catalog price is cached on the entry
// as display metadata only; pricing always reads the live catalog.
func (s *cartService) Add(ctx context.Context, sessionID string, productID uuid.UUID) (*domain.CartSummary, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	key := productID.String()
	if entry, ok := cart[key]; ok {
		entry.Quantity++
		cart[key] = entry
	} else {
		cart[key] = domain.CartEntry{
			Name:     product.Name,
			Price:    product.Price,
			ImageURL: product.ImageURL,
			Quantity: 1,
		}
	}

	if err := s.carts.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	return s.summarize(ctx, cart)
}

// Reduce decrements the product's quantity by one and drops the entry when
// the quantity reaches zero. Absent entries are a no-op.
func (s *cartService) Reduce(ctx context.Context, sessionID string, productID uuid.UUID) (*domain.CartSummary, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	key := productID.String()
	if entry, ok := cart[key]; ok {
		entry.Quantity--
		if entry.Quantity <= 0 {
			delete(cart, key)
		} else {
			cart[key] = entry
		}
	}

	if err := s.carts.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	return s.summarize(ctx, cart)
}

// Remove deletes the product's entry regardless of quantity
func (s *cartService) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*domain.CartSummary, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	delete(cart, productID.String())

	if err := s.carts.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	return s.summarize(ctx, cart)
}

// Summary prices the cart against the current catalog
func (s *cartService) Summary(ctx context.Context, sessionID string) (*domain.CartSummary, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return s.summarize(ctx, cart)
}

// Count returns the sum of all quantities in the cart
func (s *cartService) Count(ctx context.Context, sessionID string) (int, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	return cart.TotalQuantity(), nil
}

// summarize builds the priced view of a cart. Unit prices come from the
// catalog rows, never from the entries' cached display prices. Entries
// whose product no longer exists, with an unparseable key, or with a
// non-positive quantity are skipped rather than failing the summary.
func (s *cartService) summarize(ctx context.Context, cart domain.Cart) (*domain.CartSummary, error) {
	ids := make([]uuid.UUID, 0, len(cart))
	for key := range cart {
		id, err := uuid.Parse(key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to price cart: %w", err)
	}

	summary := &domain.CartSummary{Items: []domain.CartLine{}}

	for key, entry := range cart {
		id, err := uuid.Parse(key)
		if err != nil {
			continue
		}

		product, ok := products[id]
		if !ok {
			continue
		}

		if entry.Quantity <= 0 {
			continue
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(entry.Quantity)))

		summary.Items = append(summary.Items, domain.CartLine{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Quantity: entry.Quantity,
			Subtotal: subtotal,
			ImageURL: product.ImageURL,
		})
		summary.TotalPrice = summary.TotalPrice.Add(subtotal)
		summary.TotalQty += entry.Quantity
	}

	// Map iteration order is random; keep the output stable
	sort.Slice(summary.Items, func(i, j int) bool {
		return summary.Items[i].Name < summary.Items[j].Name
	})

	return summary, nil
}
