package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopmate/storefront/internal/domain"
	"github.com/shopmate/storefront/internal/service"
	"github.com/shopmate/storefront/pkg/httputil"
	"github.com/shopmate/storefront/pkg/pagination"
	"github.com/shopmate/storefront/pkg/validator"
)

const maxBodyBytes = 1 << 20

// StorefrontHandler handles HTTP requests for the storefront endpoints.
type StorefrontHandler struct {
	service *service.StorefrontService
	logger  *slog.Logger
}

// NewStorefrontHandler creates a new storefront HTTP handler.
func NewStorefrontHandler(svc *service.StorefrontService, logger *slog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Products ---

// ListProducts handles GET /api/v1/products
func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.service.ListProducts(r.Context(), service.ListQuery{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Page:     pagination.FromRequest(r),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetProductDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, detail)
}

// AddReview handles POST /api/v1/products/{id}/reviews
func (h *StorefrontHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req service.AddReviewInput
	if !h.decode(w, r, &req) {
		return
	}

	review, err := h.service.AddReview(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, review)
}

// BuyNow handles POST /api/v1/products/{id}/buy-now
func (h *StorefrontHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.BuyNow(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, result)
}

// --- Cart ---

// GetCart handles GET /api/v1/cart
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Cart(r.Context()))
}

// ClearCart handles DELETE /api/v1/cart
func (h *StorefrontHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.ClearCart(r.Context()))
}

// AddItem handles POST /api/v1/cart/items
func (h *StorefrontHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req service.AddToCartInput
	if !h.decode(w, r, &req) {
		return
	}
	h.writeSnapshot(w, r, func() (domain.Snapshot, error) {
		return h.service.AddToCart(r.Context(), req.ProductID.String())
	})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{id}
func (h *StorefrontHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateQuantityInput
	if !h.decode(w, r, &req) {
		return
	}
	h.writeSnapshot(w, r, func() (domain.Snapshot, error) {
		return h.service.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), *req.Quantity)
	})
}

// IncreaseItemQuantity handles POST /api/v1/cart/items/{id}/increase
func (h *StorefrontHandler) IncreaseItemQuantity(w http.ResponseWriter, r *http.Request) {
	h.writeSnapshot(w, r, func() (domain.Snapshot, error) {
		return h.service.IncreaseQuantity(r.Context(), chi.URLParam(r, "id"))
	})
}

// DecreaseItemQuantity handles POST /api/v1/cart/items/{id}/decrease
func (h *StorefrontHandler) DecreaseItemQuantity(w http.ResponseWriter, r *http.Request) {
	h.writeSnapshot(w, r, func() (domain.Snapshot, error) {
		return h.service.DecreaseQuantity(r.Context(), chi.URLParam(r, "id"))
	})
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *StorefrontHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.writeSnapshot(w, r, func() (domain.Snapshot, error) {
		return h.service.RemoveFromCart(r.Context(), chi.URLParam(r, "id"))
	})
}

// --- Wishlist ---

// GetWishlist handles GET /api/v1/wishlist
func (h *StorefrontHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Wishlist(r.Context()))
}

// ToggleWishlist handles POST /api/v1/wishlist/{id}/toggle
func (h *StorefrontHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ToggleWishlist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, result)
}

// --- Checkout ---

// Checkout handles POST /api/v1/checkout
func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req domain.DeliveryDetails
	if !h.decode(w, r, &req) {
		return
	}

	confirmation, err := h.service.Checkout(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, confirmation)
}

// --- Helpers ---

func (h *StorefrontHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := validator.DecodeAndValidate(r.Body, dst); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return false
	}
	return true
}

func (h *StorefrontHandler) writeSnapshot(w http.ResponseWriter, r *http.Request, op func() (domain.Snapshot, error)) {
	snap, err := op()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, snap)
}
