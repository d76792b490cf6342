package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brandfolio/api/internal/analytics"
	"github.com/brandfolio/api/internal/catalog"
	domain "github.com/brandfolio/api/internal/domain"
	"github.com/brandfolio/api/internal/repositories"
)

// WishlistServiceDeps bundles constructor inputs for the wishlist service.
type WishlistServiceDeps struct {
	Repo    repositories.WishlistRepository
	Catalog *catalog.Store
	Tracker *analytics.Tracker
	Clock   func() time.Time
}

type wishlistService struct {
	repo    repositories.WishlistRepository
	catalog *catalog.Store
	tracker *analytics.Tracker
	clock   func() time.Time
}

// NewWishlistService constructs the wishlist service with the supplied dependencies.
func NewWishlistService(deps WishlistServiceDeps) (WishlistService, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("wishlist service: repository is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("wishlist service: catalog store is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &wishlistService{
		repo:    deps.Repo,
		catalog: deps.Catalog,
		tracker: deps.Tracker,
		clock:   func() time.Time { return clock().UTC() },
	}, nil
}

func (s *wishlistService) List(ctx context.Context, visitorID string) ([]domain.WishlistItem, error) {
	if err := requireVisitor(visitorID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, visitorID)
}

// Add saves the product for the visitor. Adding a product that is already
// saved is a no-op and emits no event, so repeated clicks cannot inflate the
// analytics stream.
func (s *wishlistService) Add(ctx context.Context, visitorID string, productID string) ([]domain.WishlistItem, error) {
	if err := requireVisitor(visitorID); err != nil {
		return nil, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if _, ok := s.catalog.Get(productID); !ok {
		return nil, ErrProductNotFound
	}

	created, err := s.repo.Put(ctx, visitorID, productID, s.clock())
	if err != nil {
		return nil, err
	}
	if created && s.tracker != nil {
		s.tracker.Record(analytics.EventWishlistAdd, visitorID, map[string]string{
			"productId": productID,
		})
	}
	return s.repo.List(ctx, visitorID)
}

// Remove deletes the saved product. Removing an absent product succeeds so
// the operation stays idempotent, but only an actual removal emits an event.
func (s *wishlistService) Remove(ctx context.Context, visitorID string, productID string) ([]domain.WishlistItem, error) {
	if err := requireVisitor(visitorID); err != nil {
		return nil, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}

	removed, err := s.repo.Delete(ctx, visitorID, productID)
	if err != nil {
		return nil, err
	}
	if removed && s.tracker != nil {
		s.tracker.Record(analytics.EventWishlistRemove, visitorID, map[string]string{
			"productId": productID,
		})
	}
	return s.repo.List(ctx, visitorID)
}

func (s *wishlistService) Clear(ctx context.Context, visitorID string) error {
	if err := requireVisitor(visitorID); err != nil {
		return err
	}
	if err := s.repo.Clear(ctx, visitorID); err != nil {
		return err
	}
	if s.tracker != nil {
		s.tracker.Record(analytics.EventWishlistClear, visitorID, nil)
	}
	return nil
}

func requireVisitor(visitorID string) error {
	if strings.TrimSpace(visitorID) == "" {
		return fmt.Errorf("%w: visitor id is required", ErrInvalidInput)
	}
	return nil
}
