package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/brandfolio/api/internal/analytics"
	domain "github.com/brandfolio/api/internal/domain"
	"github.com/brandfolio/api/internal/repositories"
)

type stubRepoError struct {
	notFound    bool
	unavailable bool
}

func (e *stubRepoError) Error() string       { return "stub repository error" }
func (e *stubRepoError) IsNotFound() bool    { return e.notFound }
func (e *stubRepoError) IsConflict() bool    { return false }
func (e *stubRepoError) IsUnavailable() bool { return e.unavailable }

var _ repositories.RepositoryError = (*stubRepoError)(nil)

type stubWishlistRepository struct {
	mu    sync.Mutex
	items map[string]map[string]time.Time
	err   error
}

func newStubWishlistRepository() *stubWishlistRepository {
	return &stubWishlistRepository{items: make(map[string]map[string]time.Time)}
}

func (r *stubWishlistRepository) List(_ context.Context, visitorID string) ([]domain.WishlistItem, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WishlistItem
	for id, addedAt := range r.items[visitorID] {
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

func (r *stubWishlistRepository) Put(_ context.Context, visitorID string, productID string, addedAt time.Time) (bool, error) {
	if r.err != nil {
		return false, r.err
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
	saved[productID] = addedAt
	return true, nil
}

func (r *stubWishlistRepository) Delete(_ context.Context, visitorID string, productID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	saved, ok := r.items[visitorID]
	if !ok {
		return false, nil
	}
	if _, exists := saved[productID]; !exists {
		return false, nil
	}
	delete(saved, productID)
	return true, nil
}

func (r *stubWishlistRepository) Clear(_ context.Context, visitorID string) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, visitorID)
	return nil
}

type stubPreferenceRepository struct {
	mu     sync.Mutex
	themes map[string]domain.Theme
	err    error
}

func newStubPreferenceRepository() *stubPreferenceRepository {
	return &stubPreferenceRepository{themes: make(map[string]domain.Theme)}
}

func (r *stubPreferenceRepository) GetTheme(_ context.Context, visitorID string) (domain.Theme, error) {
	if r.err != nil {
		return "", r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	theme, ok := r.themes[visitorID]
	if !ok {
		return "", &stubRepoError{notFound: true}
	}
	return theme, nil
}

func (r *stubPreferenceRepository) SetTheme(_ context.Context, visitorID string, theme domain.Theme) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes[visitorID] = theme
	return nil
}

// eventRecorder captures analytics events through a real tracker configured
// to flush every event immediately.
type eventRecorder struct {
	mu     sync.Mutex
	events []analytics.Event
}

func (r *eventRecorder) sink(_ context.Context, events []analytics.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *eventRecorder) named(name string) []analytics.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []analytics.Event
	for _, event := range r.events {
		if event.Name == name {
			out = append(out, event)
		}
	}
	return out
}

func newTestTracker(recorder *eventRecorder) *analytics.Tracker {
	return analytics.NewTracker(analytics.SinkFunc(recorder.sink), nil,
		analytics.WithBatchSize(1),
		analytics.WithFlushInterval(time.Hour),
	)
}
