package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	domain "github.com/brandfolio/api/internal/domain"
	pfirestore "github.com/brandfolio/api/internal/platform/firestore"
	"github.com/brandfolio/api/internal/repositories"
)

const visitorCollection = "visitors"

// PreferenceRepository persists per-visitor preferences on the visitor document.
type PreferenceRepository struct {
	provider *pfirestore.Provider
}

// NewPreferenceRepository constructs a Firestore-backed preference repository.
func NewPreferenceRepository(provider *pfirestore.Provider) (*PreferenceRepository, error) {
	if provider == nil {
		return nil, errors.New("preference repository requires firestore provider")
	}
	return &PreferenceRepository{provider: provider}, nil
}

// GetTheme returns the stored theme for the visitor.
func (r *PreferenceRepository) GetTheme(ctx context.Context, visitorID string) (domain.Theme, error) {
	doc, err := r.document(ctx, visitorID)
	if err != nil {
		return "", err
	}

	snap, err := doc.Get(ctx)
	if err != nil {
		return "", pfirestore.WrapError("preferences.getTheme", err)
	}

	var stored preferenceDocument
	if err := snap.DataTo(&stored); err != nil {
		return "", pfirestore.WrapError("preferences.getTheme", err)
	}
	return domain.Theme(stored.Theme), nil
}

// SetTheme stores the theme, overwriting any previous value.
func (r *PreferenceRepository) SetTheme(ctx context.Context, visitorID string, theme domain.Theme) error {
	doc, err := r.document(ctx, visitorID)
	if err != nil {
		return err
	}

	_, err = doc.Set(ctx, map[string]any{
		"theme":     string(theme),
		"updatedAt": time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return pfirestore.WrapError("preferences.setTheme", err)
	}
	return nil
}

func (r *PreferenceRepository) document(ctx context.Context, visitorID string) (*firestore.DocumentRef, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("preference repository not initialised")
	}
	id := strings.TrimSpace(visitorID)
	if id == "" {
		return nil, errors.New("preference repository: visitor id is required")
	}
	client, err := r.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(visitorCollection).Doc(id), nil
}

type preferenceDocument struct {
	Theme     string    `firestore:"theme"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// Ensure interface compliance.
var _ repositories.PreferenceRepository = (*PreferenceRepository)(nil)
