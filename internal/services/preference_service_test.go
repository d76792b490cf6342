package services

import (
	"context"
	"errors"
	"testing"

	domain "github.com/brandfolio/api/internal/domain"
)

func TestPreferenceTheme(t *testing.T) {
	repo := newStubPreferenceRepository()
	svc, err := NewPreferenceService(PreferenceServiceDeps{Repo: repo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("defaults to light when nothing stored", func(t *testing.T) {
		theme, err := svc.Theme(context.Background(), "v1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if theme != domain.ThemeLight {
			t.Fatalf("expected light default, got %q", theme)
		}
	})

	t.Run("returns stored theme", func(t *testing.T) {
		if err := svc.SetTheme(context.Background(), "v1", domain.ThemeDark); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		theme, err := svc.Theme(context.Background(), "v1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if theme != domain.ThemeDark {
			t.Fatalf("expected dark, got %q", theme)
		}
	})

	t.Run("unrecognised stored value falls back to default", func(t *testing.T) {
		repo.themes["v2"] = domain.Theme("sepia")
		theme, err := svc.Theme(context.Background(), "v2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if theme != DefaultTheme {
			t.Fatalf("expected default, got %q", theme)
		}
	})

	t.Run("missing visitor rejected", func(t *testing.T) {
		if _, err := svc.Theme(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestPreferenceSetTheme(t *testing.T) {
	svc, err := NewPreferenceService(PreferenceServiceDeps{Repo: newStubPreferenceRepository()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SetTheme(context.Background(), "v1", domain.Theme("neon")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unsupported theme, got %v", err)
	}
	if err := svc.SetTheme(context.Background(), "", domain.ThemeDark); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing visitor, got %v", err)
	}
}

func TestPreferenceRepositoryFailureSurfaces(t *testing.T) {
	repo := newStubPreferenceRepository()
	repo.err = &stubRepoError{unavailable: true}
	svc, err := NewPreferenceService(PreferenceServiceDeps{Repo: repo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Theme(context.Background(), "v1"); err == nil {
		t.Fatalf("expected repository error to surface")
	}
}
