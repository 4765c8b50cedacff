package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/notify"
	"storefront/internal/repository"
	"storefront/internal/session"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const notifyTimeout = 10 * time.Second

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingFields  = errors.New("all customer fields are required")
	ErrCheckoutFailed = errors.New("order processing failed")
)

// CheckoutRequest carries the customer fields for one checkout attempt
type CheckoutRequest struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// CheckoutService materializes a session cart into a persisted order
type CheckoutService interface {
	Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*domain.Order, error)
}

type checkoutService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	carts    session.CartStore
	notifier notify.Notifier
	fromAddr string
	logger   *zap.Logger
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	carts session.CartStore,
	notifier notify.Notifier,
	fromAddr string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		products: products,
		orders:   orders,
		carts:    carts,
		notifier: notifier,
		fromAddr: fromAddr,
		logger:   logger,
	}
}

// Checkout runs the whole attempt: validate, snapshot the catalog, persist
// order + items + stock reduction in one transaction, clear the cart, then
// send the confirmation without blocking the response.
//
// On any failure before the commit the cart is left untouched and no
// order, item, or stock change persists. Cart entries whose product was
// deleted since add-to-cart are silently dropped from the order.
func (s *checkoutService) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load cart for checkout", zap.Error(err))
		return nil, ErrCheckoutFailed
	}

	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	address := strings.TrimSpace(req.Address)

	if name == "" || email == "" || phone == "" || address == "" {
		return nil, ErrMissingFields
	}

	order := &domain.Order{
		ID:           uuid.New(),
		CustomerName: name,
		Email:        email,
		Phone:        phone,
		Address:      address,
		TotalPrice:   decimal.Zero,
		Status:       domain.OrderStatusPending,
		CreatedAt:    time.Now(),
	}

	items, err := s.snapshotItems(ctx, cart)
	if err != nil {
		s.logger.Error("Failed to snapshot cart for checkout", zap.Error(err))
		return nil, ErrCheckoutFailed
	}

	// Every referenced product may have been deleted since add-to-cart
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	order.Items = items

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("Order materialization failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil, ErrCheckoutFailed
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order is committed; a stale cart is the lesser problem
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}

	s.sendConfirmation(order)

	return order, nil
}

// snapshotItems re-fetches the referenced products and builds line items at
// the current catalog price. Lines for deleted products are dropped;
// malformed entries are skipped.
func (s *checkoutService) snapshotItems(ctx context.Context, cart domain.Cart) ([]domain.OrderItem, error) {
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
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(cart))
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

		items = append(items, domain.OrderItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Quantity:  entry.Quantity,
			Price:     product.Price,
			Subtotal:  product.Price.Mul(decimal.NewFromInt(int64(entry.Quantity))),
		})
	}

	return items, nil
}

// sendConfirmation fires the order confirmation in the background.
// Delivery failures are logged and swallowed; they never affect the
// already-committed order.
func (s *checkoutService) sendConfirmation(order *domain.Order) {
	subject := fmt.Sprintf("Order #%s Confirmation", order.ID)
	body := fmt.Sprintf("Thanks %s, your order #%s has been placed.", order.CustomerName, order.ID)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.Send(ctx, subject, body, s.fromAddr, order.Email); err != nil {
			s.logger.Warn("Order confirmation email failed",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		}
	}()
}
