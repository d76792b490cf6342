package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/brandfolio/api/internal/domain"
	"github.com/brandfolio/api/internal/platform/httpx"
	"github.com/brandfolio/api/internal/platform/visitor"
	"github.com/brandfolio/api/internal/services"
)

// MeHandlers serves visitor-scoped endpoints: the wishlist and theme
// preference. The visitor identity comes from the signed cookie, so there is
// no account or login involved.
type MeHandlers struct {
	wishlist services.WishlistService
	prefs    services.PreferenceService
}

// NewMeHandlers constructs handlers for visitor scoped routes.
func NewMeHandlers(wishlist services.WishlistService, prefs services.PreferenceService) *MeHandlers {
	return &MeHandlers{wishlist: wishlist, prefs: prefs}
}

// Routes registers the visitor scoped endpoints.
func (h *MeHandlers) Routes(r chi.Router) {
	r.Route("/wishlist", func(r chi.Router) {
		r.Get("/", h.listWishlist)
		r.Delete("/", h.clearWishlist)
		r.Put("/{productID}", h.addWishlistItem)
		r.Delete("/{productID}", h.removeWishlistItem)
	})
	r.Route("/theme", func(r chi.Router) {
		r.Get("/", h.getTheme)
		r.Put("/", h.setTheme)
	})
}

type wishlistItemPayload struct {
	ProductID string `json:"productId"`
	AddedAt   string `json:"addedAt"`
}

type wishlistPayload struct {
	Items []wishlistItemPayload `json:"items"`
	Count int                   `json:"count"`
}

func buildWishlistPayload(items []domain.WishlistItem) wishlistPayload {
	payload := wishlistPayload{Items: make([]wishlistItemPayload, 0, len(items)), Count: len(items)}
	for _, item := range items {
		payload.Items = append(payload.Items, wishlistItemPayload{
			ProductID: item.ProductID,
			AddedAt:   item.AddedAt.UTC().Format(time.RFC3339),
		})
	}
	return payload
}

func (h *MeHandlers) listWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID, ok := h.requireVisitor(w, r)
	if !ok {
		return
	}

	items, err := h.wishlist.List(ctx, visitorID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildWishlistPayload(items))
}

func (h *MeHandlers) addWishlistItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID, ok := h.requireVisitor(w, r)
	if !ok {
		return
	}

	productID := strings.TrimSpace(chi.URLParam(r, "productID"))
	items, err := h.wishlist.Add(ctx, visitorID, productID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildWishlistPayload(items))
}

func (h *MeHandlers) removeWishlistItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID, ok := h.requireVisitor(w, r)
	if !ok {
		return
	}

	productID := strings.TrimSpace(chi.URLParam(r, "productID"))
	items, err := h.wishlist.Remove(ctx, visitorID, productID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildWishlistPayload(items))
}

func (h *MeHandlers) clearWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID, ok := h.requireVisitor(w, r)
	if !ok {
		return
	}

	if err := h.wishlist.Clear(ctx, visitorID); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type themePayload struct {
	Theme string `json:"theme"`
}

func (h *MeHandlers) getTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID, ok := h.requireVisitor(w, r)
	if !ok {
		return
	}
	if h.prefs == nil {
		httpx.WriteError(ctx, w, httpx.NewError("preferences_unavailable", "preference service is unavailable", http.StatusServiceUnavailable))
		return
	}

	theme, err := h.prefs.Theme(ctx, visitorID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, themePayload{Theme: string(theme)})
}

func (h *MeHandlers) setTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID, ok := h.requireVisitor(w, r)
	if !ok {
		return
	}
	if h.prefs == nil {
		httpx.WriteError(ctx, w, httpx.NewError("preferences_unavailable", "preference service is unavailable", http.StatusServiceUnavailable))
		return
	}

	var payload themePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid theme payload", http.StatusBadRequest))
		return
	}

	if err := h.prefs.SetTheme(ctx, visitorID, domain.Theme(strings.ToLower(strings.TrimSpace(payload.Theme)))); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MeHandlers) requireVisitor(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	if h.wishlist == nil {
		httpx.WriteError(ctx, w, httpx.NewError("wishlist_unavailable", "wishlist service is unavailable", http.StatusServiceUnavailable))
		return "", false
	}
	visitorID := strings.TrimSpace(visitor.ID(ctx))
	if visitorID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("visitor_required", "visitor identity missing", http.StatusBadRequest))
		return "", false
	}
	return visitorID, true
}
