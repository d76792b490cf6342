package repositories

import (
	"context"
	"time"

	domain "github.com/brandfolio/api/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// WishlistRepository tracks saved products per visitor. Implementations
// should return a RepositoryError for backend failures so services can map
// them onto transport semantics.
type WishlistRepository interface {
	// List returns the visitor's saved items ordered by addition time.
	List(ctx context.Context, visitorID string) ([]domain.WishlistItem, error)
	// Put stores the item when absent, reporting whether it was created.
	// Storing an already present product id is a no-op.
	Put(ctx context.Context, visitorID string, productID string, addedAt time.Time) (bool, error)
	// Delete removes the item, reporting whether anything was removed.
	// Deleting an absent item reports false without error.
	Delete(ctx context.Context, visitorID string, productID string) (bool, error)
	// Clear removes every item for the visitor.
	Clear(ctx context.Context, visitorID string) error
}

// PreferenceRepository persists per-visitor site preferences.
type PreferenceRepository interface {
	// GetTheme returns the stored theme, or a not-found RepositoryError
	// when the visitor has never set one.
	GetTheme(ctx context.Context, visitorID string) (domain.Theme, error)
	// SetTheme stores the theme, overwriting any previous value.
	SetTheme(ctx context.Context, visitorID string, theme domain.Theme) error
}
