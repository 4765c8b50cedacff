package transport

import (
	"net/http"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents the create/update product payload
type ProductRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Price    string `json:"price" validate:"required"`
	Stock    int    `json:"stock" validate:"gte=0"`
	ImageURL string `json:"image_url" validate:"max=500"`
}

// ProductResponse represents a product in API responses.
// Money fields are rendered as fixed two-decimal strings.
type ProductResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SuggestionResponse represents one catalog search hit
type SuggestionResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products repository.ProductRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers all catalog routes. Write operations are wrapped
// by the supplied admin middleware chain.
func (h *ProductHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/suggest", h.Suggest)
		r.Get("/{id}", h.Get)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	price, ok := h.parsePrice(w, req.Price)
	if !ok {
		return
	}

	now := time.Now()
	product := &domain.Product{
		ID:        uuid.New(),
		Name:      req.Name,
		Price:     price,
		Stock:     req.Stock,
		ImageURL:  req.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.products.Create(r.Context(), product); err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, toProductResponse(product))
}

// Update handles product edits
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	price, ok := h.parsePrice(w, req.Price)
	if !ok {
		return
	}

	product := &domain.Product{
		ID:       id,
		Name:     req.Name,
		Price:    price,
		Stock:    req.Stock,
		ImageURL: req.ImageURL,
	}

	if err := h.products.Update(r.Context(), product); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

// Delete handles product removal
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// Get returns a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	product, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to find product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to find product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

// List returns the whole catalog
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	responses := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, toProductResponse(product))
	}

	middleware.RespondWithJSON(w, http.StatusOK, responses)
}

// Suggest returns name-search suggestions for the q query parameter
func (h *ProductHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	suggestions, err := h.products.Suggest(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to search products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to search products")
		return
	}

	responses := make([]SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		responses = append(responses, SuggestionResponse{
			ID:    s.ID.String(),
			Name:  s.Name,
			Price: s.Price.StringFixed(2),
			Image: s.ImageURL,
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, responses)
}

func (h *ProductHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ProductHandler) parsePrice(w http.ResponseWriter, raw string) (decimal.Decimal, bool) {
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid price")
		return decimal.Decimal{}, false
	}
	return price, true
}

func toProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:        product.ID.String(),
		Name:      product.Name,
		Price:     product.Price.StringFixed(2),
		Stock:     product.Stock,
		ImageURL:  product.ImageURL,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}
