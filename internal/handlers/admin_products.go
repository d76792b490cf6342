package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/brandfolio/api/internal/domain"
	"github.com/brandfolio/api/internal/platform/httpx"
	"github.com/brandfolio/api/internal/services"
)

// AdminHandlers serves administrative catalog mutations.
type AdminHandlers struct {
	catalog services.CatalogService
}

// NewAdminHandlers constructs handlers for admin routes.
func NewAdminHandlers(catalog services.CatalogService) *AdminHandlers {
	return &AdminHandlers{catalog: catalog}
}

// Routes registers the admin endpoints.
func (h *AdminHandlers) Routes(r chi.Router) {
	r.Post("/products", h.addProduct)
	r.Delete("/products/{productID}", h.removeProduct)
}

func (h *AdminHandlers) addProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid product payload", http.StatusBadRequest))
		return
	}

	model, err := h.catalog.AddProduct(ctx, product)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, model)
}

func (h *AdminHandlers) removeProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	productID := strings.TrimSpace(chi.URLParam(r, "productID"))
	if err := h.catalog.RemoveProduct(ctx, productID); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
