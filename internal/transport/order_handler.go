package transport

import (
	"net/http"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderItemResponse represents one line item snapshot
type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Subtotal  string `json:"subtotal"`
}

// OrderResponse represents an order in admin responses
type OrderResponse struct {
	ID           string              `json:"id"`
	CustomerName string              `json:"customer_name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	Address      string              `json:"address"`
	TotalPrice   string              `json:"total_price"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	Items        []OrderItemResponse `json:"items"`
}

// UpdateStatusRequest represents the order status change payload
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler handles admin HTTP requests for order tracking
type OrderHandler struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders repository.OrderRepository, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// RegisterRoutes registers all order routes behind the admin chain
func (h *OrderHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(adminOnly)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}/status", h.UpdateStatus)
	})
}

// List returns all orders, newest first
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}

	middleware.RespondWithJSON(w, http.StatusOK, responses)
}

// Get returns one order with its items
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to find order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to find order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toOrderResponse(order))
}

// UpdateStatus changes an order's fulfillment status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Status validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.IsValid() {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order status")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, status); err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to update order status", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", id.String()),
		zap.String("status", req.Status),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return uuid.Nil, false
	}
	return id, true
}

func toOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
			Subtotal:  item.Subtotal.StringFixed(2),
		})
	}

	return OrderResponse{
		ID:           order.ID.String(),
		CustomerName: order.CustomerName,
		Email:        order.Email,
		Phone:        order.Phone,
		Address:      order.Address,
		TotalPrice:   order.TotalPrice.StringFixed(2),
		Status:       string(order.Status),
		CreatedAt:    order.CreatedAt,
		Items:        items,
	}
}
