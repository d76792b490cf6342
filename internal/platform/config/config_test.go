package config

import (
	"context"
	"errors"
	"testing"
	"time"
)

func baseEnv() map[string]string {
	return map[string]string{
		"SITE_VISITOR_COOKIE_SECRET": "test-secret",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background(),
		WithEnvFile(""),
		WithoutSystemEnv(),
		WithEnvMap(baseEnv()),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Server.Port)
	}
	if cfg.Documents.CatalogSource != "data/products.json" {
		t.Fatalf("expected default catalog source, got %q", cfg.Documents.CatalogSource)
	}
	if cfg.Analytics.Topic != "site-analytics" {
		t.Fatalf("expected default topic, got %q", cfg.Analytics.Topic)
	}
	if cfg.Analytics.SearchDebounce != 300*time.Millisecond {
		t.Fatalf("expected default debounce, got %v", cfg.Analytics.SearchDebounce)
	}
	if !cfg.Features.EnableAnalytics {
		t.Fatalf("expected analytics enabled by default")
	}
	if cfg.Features.EnableAdmin {
		t.Fatalf("expected admin disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["SITE_SERVER_PORT"] = "9090"
	env["SITE_SERVER_READ_TIMEOUT"] = "5s"
	env["SITE_DOCUMENTS_CATALOG_SOURCE"] = "gs://bucket/catalog.json"
	env["SITE_FIRESTORE_PROJECT_ID"] = "demo-project"
	env["SITE_ANALYTICS_FLUSH_BATCH"] = "10"
	env["SITE_FEATURE_ADMIN"] = "true"

	cfg, err := Load(context.Background(),
		WithEnvFile(""),
		WithoutSystemEnv(),
		WithEnvMap(env),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port override, got %q", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("expected read timeout override, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Documents.CatalogSource != "gs://bucket/catalog.json" {
		t.Fatalf("expected catalog source override, got %q", cfg.Documents.CatalogSource)
	}
	if cfg.Analytics.FlushBatchSize != 10 {
		t.Fatalf("expected flush batch override, got %d", cfg.Analytics.FlushBatchSize)
	}
	if !cfg.Features.EnableAdmin {
		t.Fatalf("expected admin enabled")
	}
	// Analytics project falls back to the Firestore project.
	if cfg.Analytics.ProjectID != "demo-project" {
		t.Fatalf("expected analytics project fallback, got %q", cfg.Analytics.ProjectID)
	}
}

func TestLoadRequiresCookieSecret(t *testing.T) {
	_, err := Load(context.Background(),
		WithEnvFile(""),
		WithoutSystemEnv(),
		WithEnvMap(map[string]string{}),
	)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	found := false
	for _, field := range validation.Fields() {
		if field == "Visitor.CookieSecret" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Visitor.CookieSecret in %v", validation.Fields())
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	env := baseEnv()
	env["SITE_SERVER_READ_TIMEOUT"] = "not-a-duration"
	env["SITE_ANALYTICS_FLUSH_BATCH"] = "many"

	cfg, err := Load(context.Background(),
		WithEnvFile(""),
		WithoutSystemEnv(),
		WithEnvMap(env),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Fatalf("expected default read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Analytics.FlushBatchSize != 50 {
		t.Fatalf("expected default flush batch, got %d", cfg.Analytics.FlushBatchSize)
	}
}
