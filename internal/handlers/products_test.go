package handlers

import (
	"net/http"
	"testing"

	"github.com/brandfolio/api/internal/catalog"
	domain "github.com/brandfolio/api/internal/domain"
)

func TestListProductsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("full listing", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products/", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var payload productListingPayload
		decodeBody(t, rec, &payload)
		if payload.Total != 2 || payload.Matched != 2 || len(payload.Products) != 2 {
			t.Fatalf("expected full listing, got %+v", payload)
		}
		if len(payload.Tags) == 0 {
			t.Fatalf("expected tag universe in listing")
		}
	})

	t.Run("search narrows listing", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products/?q=yoga", nil)
		var payload productListingPayload
		decodeBody(t, rec, &payload)
		if payload.Matched != 1 || payload.Products[0].ID != "p2" {
			t.Fatalf("expected only p2 matched, got %+v", payload)
		}
		if payload.Total != 2 {
			t.Fatalf("expected total to stay at catalog size, got %d", payload.Total)
		}
	})

	t.Run("comma separated tags accepted", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products/?tags=tech,fitness", nil)
		var payload productListingPayload
		decodeBody(t, rec, &payload)
		if payload.Matched != 2 {
			t.Fatalf("expected both products matched by tag union, got %d", payload.Matched)
		}
	})
}

func TestGetProductEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products/p1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var model domain.ProductViewModel
	decodeBody(t, rec, &model)
	if model.ID != "p1" || model.CTALabel != catalog.DefaultCTALabel {
		t.Fatalf("unexpected model %+v", model)
	}

	t.Run("unknown product", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products/ghost", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		var envelope errorEnvelope
		decodeBody(t, rec, &envelope)
		if envelope.Code != "product_not_found" {
			t.Fatalf("expected product_not_found, got %q", envelope.Code)
		}
	})
}

func TestFollowAffiliateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products/p1/go", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://example.com/stand" {
		t.Fatalf("unexpected redirect target %q", loc)
	}

	t.Run("product without link", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products/p2/go", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		var envelope errorEnvelope
		decodeBody(t, rec, &envelope)
		if envelope.Code != "no_affiliate_link" {
			t.Fatalf("expected no_affiliate_link, got %q", envelope.Code)
		}
	})
}

func TestDownloadAttachmentEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products/p1/attachments/assembly.pdf", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "https://example.com/assembly.pdf" {
		t.Fatalf("unexpected redirect target %q", loc)
	}

	t.Run("unknown attachment", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products/p1/attachments/missing.pdf", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		var envelope errorEnvelope
		decodeBody(t, rec, &envelope)
		if envelope.Code != "attachment_not_found" {
			t.Fatalf("expected attachment_not_found, got %q", envelope.Code)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products/ghost/attachments/assembly.pdf", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSplitTags(t *testing.T) {
	got := splitTags([]string{"tech, office", "", " fitness "})
	want := []string{"tech", "office", "fitness"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
