package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brandfolio/api/internal/analytics"
	"github.com/brandfolio/api/internal/catalog"
	domain "github.com/brandfolio/api/internal/domain"
	"github.com/brandfolio/api/internal/platform/visitor"
	"github.com/brandfolio/api/internal/repositories/memory"
	"github.com/brandfolio/api/internal/services"
)

// testEnv wires real services over in-memory repositories so handler tests
// cover the full request path without any external backend.
type testEnv struct {
	catalog *catalog.Store
	svc     struct {
		catalog services.CatalogService
		profile services.ProfileService
		wish    services.WishlistService
		prefs   services.PreferenceService
	}
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{catalog: catalog.NewStore()}
	env.catalog.Replace([]domain.Product{
		{ID: "p1", Title: "Ergonomic Laptop Stand", Description: "Aluminium stand", Tags: []string{"tech", "office"}, AffiliateLink: "https://example.com/stand",
			Attachments: []domain.Attachment{{Name: "assembly.pdf", URL: "https://example.com/assembly.pdf", Type: "pdf"}}},
		{ID: "p2", Title: "Yoga Mat", Description: "Non-slip mat", Tags: []string{"fitness"}},
	})

	tracker := analytics.NewTracker(analytics.NopSink{}, nil)
	t.Cleanup(tracker.Close)

	wishRepo := memory.NewWishlistRepository()

	var err error
	env.svc.catalog, err = services.NewCatalogService(services.CatalogServiceDeps{
		Store:    env.catalog,
		Wishlist: wishRepo,
		Tracker:  tracker,
	})
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	env.svc.profile, err = services.NewProfileService(services.ProfileServiceDeps{
		Raw: []byte(`{"name": "Ada Example", "tagline": "Things I use", "bio": "Hello."}`),
	})
	if err != nil {
		t.Fatalf("profile service: %v", err)
	}
	env.svc.wish, err = services.NewWishlistService(services.WishlistServiceDeps{
		Repo:    wishRepo,
		Catalog: env.catalog,
		Tracker: tracker,
	})
	if err != nil {
		t.Fatalf("wishlist service: %v", err)
	}
	env.svc.prefs, err = services.NewPreferenceService(services.PreferenceServiceDeps{
		Repo: memory.NewPreferenceRepository(),
	})
	if err != nil {
		t.Fatalf("preference service: %v", err)
	}

	env.handler = NewRouter(
		WithProductRoutes(NewProductHandlers(env.svc.catalog).Routes),
		WithProfileRoutes(NewProfileHandlers(env.svc.profile).Routes),
		WithMeRoutes(NewMeHandlers(env.svc.wish, env.svc.prefs).Routes),
		WithAdminRoutes(NewAdminHandlers(env.svc.catalog).Routes),
	)
	return env
}

// do performs a request against the router with a fixed visitor identity.
func (env *testEnv) do(t *testing.T, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req = req.WithContext(visitor.WithID(req.Context(), "visitor-1"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

type errorEnvelope struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}
