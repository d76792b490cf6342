package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/brandfolio/api/internal/domain"
	"github.com/brandfolio/api/internal/platform/httpx"
	"github.com/brandfolio/api/internal/platform/visitor"
	"github.com/brandfolio/api/internal/services"
)

// ProductHandlers serves the public catalog endpoints.
type ProductHandlers struct {
	catalog services.CatalogService
}

// NewProductHandlers constructs handlers for catalog routes.
func NewProductHandlers(catalog services.CatalogService) *ProductHandlers {
	return &ProductHandlers{catalog: catalog}
}

// Routes registers the catalog endpoints.
func (h *ProductHandlers) Routes(r chi.Router) {
	r.Get("/", h.listProducts)
	r.Get("/{productID}", h.getProduct)
	r.Get("/{productID}/go", h.followAffiliate)
	r.Get("/{productID}/attachments/{name}", h.downloadAttachment)
}

type productListingPayload struct {
	Products []domain.ProductViewModel `json:"products"`
	Total    int                       `json:"total"`
	Matched  int                       `json:"matched"`
	Tags     []string                  `json:"tags,omitempty"`
}

func (h *ProductHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	query := services.ProductQuery{
		Search:    strings.TrimSpace(r.URL.Query().Get("q")),
		Tags:      splitTags(r.URL.Query()["tags"]),
		VisitorID: visitor.ID(ctx),
	}

	listing, err := h.catalog.ListProducts(ctx, query)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, productListingPayload{
		Products: listing.Products,
		Total:    listing.Total,
		Matched:  listing.Matched,
		Tags:     listing.Tags,
	})
}

func (h *ProductHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	productID := strings.TrimSpace(chi.URLParam(r, "productID"))
	model, err := h.catalog.GetProduct(ctx, visitor.ID(ctx), productID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, model)
}

// followAffiliate records the click and redirects to the outbound link.
func (h *ProductHandlers) followAffiliate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	productID := strings.TrimSpace(chi.URLParam(r, "productID"))
	link, err := h.catalog.ResolveAffiliate(ctx, visitor.ID(ctx), productID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	http.Redirect(w, r, link, http.StatusFound)
}

// downloadAttachment records the download and redirects to the hosted file.
func (h *ProductHandlers) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	productID := strings.TrimSpace(chi.URLParam(r, "productID"))
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	url, err := h.catalog.ResolveAttachment(ctx, visitor.ID(ctx), productID, name)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// splitTags accepts both repeated tags parameters and comma separated lists.
func splitTags(raw []string) []string {
	var tags []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
	}
	return tags
}
