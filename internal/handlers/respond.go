package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brandfolio/api/internal/platform/httpx"
	"github.com/brandfolio/api/internal/repositories"
	"github.com/brandfolio/api/internal/services"
)

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps service and repository failures onto the JSON
// error envelope.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, services.ErrProductNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
		return
	case errors.Is(err, services.ErrNoAffiliateLink):
		httpx.WriteError(ctx, w, httpx.NewError("no_affiliate_link", "product has no outbound link", http.StatusNotFound))
		return
	case errors.Is(err, services.ErrAttachmentNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("attachment_not_found", "attachment not found", http.StatusNotFound))
		return
	case errors.Is(err, services.ErrInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			httpx.WriteError(ctx, w, httpx.NewError("not_found", "resource not found", http.StatusNotFound))
			return
		case repoErr.IsConflict():
			httpx.WriteError(ctx, w, httpx.NewError("conflict", "resource conflict", http.StatusConflict))
			return
		case repoErr.IsUnavailable():
			httpx.WriteError(ctx, w, httpx.NewError("storage_unavailable", "storage temporarily unavailable", http.StatusServiceUnavailable))
			return
		}
	}

	httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
}
