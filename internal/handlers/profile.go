package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brandfolio/api/internal/platform/httpx"
	"github.com/brandfolio/api/internal/services"
)

// ProfileHandlers serves the public owner profile endpoint.
type ProfileHandlers struct {
	profile services.ProfileService
}

// NewProfileHandlers constructs handlers for profile routes.
func NewProfileHandlers(profile services.ProfileService) *ProfileHandlers {
	return &ProfileHandlers{profile: profile}
}

// Routes registers the profile endpoints.
func (h *ProfileHandlers) Routes(r chi.Router) {
	r.Get("/", h.getProfile)
}

func (h *ProfileHandlers) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.profile == nil {
		httpx.WriteError(ctx, w, httpx.NewError("profile_unavailable", "profile service is unavailable", http.StatusServiceUnavailable))
		return
	}

	profile, err := h.profile.Profile(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, profile)
}
