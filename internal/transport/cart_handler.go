package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartLineResponse represents one priced line in a cart summary
type CartLineResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
	Image    string `json:"image"`
}

// CartSummaryResponse represents the priced cart returned by every cart
// operation. Money values are rounded to two decimals here, at the output
// boundary.
type CartSummaryResponse struct {
	Items      []CartLineResponse `json:"items"`
	TotalPrice string             `json:"total_price"`
	TotalQty   int                `json:"total_qty"`
}

// CartCountResponse carries the badge counter
type CartCountResponse struct {
	Count int `json:"count"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	carts  service.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.Summary)
		r.Get("/count", h.Count)
		r.Post("/{productID}", h.Add)
		r.Post("/{productID}/reduce", h.Reduce)
		r.Delete("/{productID}", h.Remove)
	})
}

// Add handles adding one unit of a product to the session cart
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	sessionID, productID, ok := h.parseSessionAndProduct(w, r)
	if !ok {
		return
	}

	summary, err := h.carts.Add(r.Context(), sessionID, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to add to cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// Reduce handles decrementing a product's quantity
func (h *CartHandler) Reduce(w http.ResponseWriter, r *http.Request) {
	sessionID, productID, ok := h.parseSessionAndProduct(w, r)
	if !ok {
		return
	}

	summary, err := h.carts.Reduce(r.Context(), sessionID, productID)
	if err != nil {
		h.logger.Error("Failed to reduce cart entry", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// Remove handles deleting a product's entry from the cart
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sessionID, productID, ok := h.parseSessionAndProduct(w, r)
	if !ok {
		return
	}

	summary, err := h.carts.Remove(r.Context(), sessionID, productID)
	if err != nil {
		h.logger.Error("Failed to remove cart entry", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// Summary returns the priced view of the session cart
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	summary, err := h.carts.Summary(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to summarize cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// Count returns the total quantity across all cart entries
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	count, err := h.carts.Count(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to count cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartCountResponse{Count: count})
}

func (h *CartHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Error("Session id missing from context")
		middleware.RespondWithError(w, http.StatusInternalServerError, "session unavailable")
		return "", false
	}
	return sessionID, true
}

func (h *CartHandler) parseSessionAndProduct(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return "", uuid.Nil, false
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return "", uuid.Nil, false
	}

	return sessionID, productID, true
}

func toSummaryResponse(summary *domain.CartSummary) CartSummaryResponse {
	items := make([]CartLineResponse, 0, len(summary.Items))
	for _, line := range summary.Items {
		items = append(items, CartLineResponse{
			ID:       line.ID.String(),
			Name:     line.Name,
			Price:    line.Price.StringFixed(2),
			Quantity: line.Quantity,
			Subtotal: line.Subtotal.StringFixed(2),
			Image:    line.ImageURL,
		})
	}

	return CartSummaryResponse{
		Items:      items,
		TotalPrice: summary.TotalPrice.StringFixed(2),
		TotalQty:   summary.TotalQty,
	}
}
