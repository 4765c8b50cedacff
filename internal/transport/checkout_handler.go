package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutRequest represents the checkout form payload
type CheckoutRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,max=50"`
	Address string `json:"address" validate:"required"`
}

// CheckoutResponse represents a successfully placed order
type CheckoutResponse struct {
	OrderID    string `json:"order_id"`
	TotalPrice string `json:"total_price"`
	Status     string `json:"status"`
}

// CheckoutHandler handles the checkout submission
type CheckoutHandler struct {
	checkout service.CheckoutService
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkout service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

// RegisterRoutes registers the checkout route
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/checkout", h.Checkout)
}

// Checkout handles the checkout POST
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Error("Session id missing from context")
		middleware.RespondWithError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Checkout validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.checkout.Checkout(r.Context(), sessionID, service.CheckoutRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		switch err {
		case service.ErrEmptyCart:
			middleware.RespondWithError(w, http.StatusBadRequest, "cart is empty")
		case service.ErrMissingFields:
			middleware.RespondWithError(w, http.StatusBadRequest, "all fields are required")
		default:
			// The cause is already logged by the service; the client
			// only sees the generic failure message.
			middleware.RespondWithError(w, http.StatusInternalServerError, "order processing failed")
		}
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("total_price", order.TotalPrice.StringFixed(2)),
	)

	middleware.RespondWithJSON(w, http.StatusCreated, CheckoutResponse{
		OrderID:    order.ID.String(),
		TotalPrice: order.TotalPrice.StringFixed(2),
		Status:     string(order.Status),
	})
}
