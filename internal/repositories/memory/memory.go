// Package memory provides in-memory repository implementations used for
// local development and as a fallback when no Firestore project is
// configured. Contents do not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domain "github.com/brandfolio/api/internal/domain"
	"github.com/brandfolio/api/internal/repositories"
)

type repoError struct {
	op       string
	notFound bool
}

func (e *repoError) Error() string {
	if e.notFound {
		return fmt.Sprintf("%s: not found", e.op)
	}
	return e.op
}

func (e *repoError) IsNotFound() bool    { return e != nil && e.notFound }
func (e *repoError) IsConflict() bool    { return false }
func (e *repoError) IsUnavailable() bool { return false }

// WishlistRepository keeps saved products per visitor in process memory.
type WishlistRepository struct {
	mu    sync.Mutex
	items map[string]map[string]time.Time
}

// NewWishlistRepository constructs an empty memory-backed wishlist repository.
func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{items: make(map[string]map[string]time.Time)}
}

// List implements repositories.WishlistRepository.
func (r *WishlistRepository) List(_ context.Context, visitorID string) ([]domain.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := r.items[strings.TrimSpace(visitorID)]
	if len(saved) == 0 {
		return nil, nil
	}
	out := make([]domain.WishlistItem, 0, len(saved))
	for id, addedAt := range saved {
		out = append(out, domain.WishlistItem{ProductID: id, AddedAt: addedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].AddedAt.Before(out[j].AddedAt)
	})
	return out, nil
}

// Put implements repositories.WishlistRepository.
func (r *WishlistRepository) Put(_ context.Context, visitorID string, productID string, addedAt time.Time) (bool, error) {
	visitorID = strings.TrimSpace(visitorID)
	productID = strings.TrimSpace(productID)
	if visitorID == "" || productID == "" {
		return false, fmt.Errorf("wishlist memory: visitor id and product id are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved, ok := r.items[visitorID]
	if !ok {
		saved = make(map[string]time.Time)
		r.items[visitorID] = saved
	}
	if _, exists := saved[productID]; exists {
		return false, nil
	}
	saved[productID] = addedAt.UTC()
	return true, nil
}

// Delete implements repositories.WishlistRepository.
func (r *WishlistRepository) Delete(_ context.Context, visitorID string, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved, ok := r.items[strings.TrimSpace(visitorID)]
	if !ok {
		return false, nil
	}
	productID = strings.TrimSpace(productID)
	if _, exists := saved[productID]; !exists {
		return false, nil
	}
	delete(saved, productID)
	return true, nil
}

// Clear implements repositories.WishlistRepository.
func (r *WishlistRepository) Clear(_ context.Context, visitorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, strings.TrimSpace(visitorID))
	return nil
}

// PreferenceRepository keeps per-visitor preferences in process memory.
type PreferenceRepository struct {
	mu     sync.Mutex
	themes map[string]domain.Theme
}

// NewPreferenceRepository constructs an empty memory-backed preference repository.
func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{themes: make(map[string]domain.Theme)}
}

// GetTheme implements repositories.PreferenceRepository.
func (r *PreferenceRepository) GetTheme(_ context.Context, visitorID string) (domain.Theme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	theme, ok := r.themes[strings.TrimSpace(visitorID)]
	if !ok {
		return "", &repoError{op: "preferences.getTheme", notFound: true}
	}
	return theme, nil
}

// SetTheme implements repositories.PreferenceRepository.
func (r *PreferenceRepository) SetTheme(_ context.Context, visitorID string, theme domain.Theme) error {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return fmt.Errorf("preference memory: visitor id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes[visitorID] = theme
	return nil
}

// Ensure interface compliance.
var (
	_ repositories.WishlistRepository   = (*WishlistRepository)(nil)
	_ repositories.PreferenceRepository = (*PreferenceRepository)(nil)
	_ repositories.RepositoryError      = (*repoError)(nil)
)
