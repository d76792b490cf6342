package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brandfolio/api/internal/analytics"
	"github.com/brandfolio/api/internal/catalog"
	domain "github.com/brandfolio/api/internal/domain"
	"github.com/brandfolio/api/internal/platform/requestctx"
	"github.com/brandfolio/api/internal/platform/sched"
	"github.com/brandfolio/api/internal/repositories"
)

// CatalogServiceDeps bundles constructor inputs for the catalog service.
type CatalogServiceDeps struct {
	Store    *catalog.Store
	Renderer *catalog.Renderer
	Wishlist repositories.WishlistRepository
	Tracker  *analytics.Tracker

	// FilterDebounce coalesces filter events fired by rapid successive
	// queries (a visitor typing in the search box) into the trailing one.
	// Zero records every filtered query immediately.
	FilterDebounce time.Duration
}

type catalogService struct {
	store          *catalog.Store
	renderer       *catalog.Renderer
	wishlist       repositories.WishlistRepository
	tracker        *analytics.Tracker
	filterDebounce *sched.Debouncer
}

// NewCatalogService constructs the catalog service with the supplied dependencies.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("catalog service: store is required")
	}
	renderer := deps.Renderer
	if renderer == nil {
		renderer = catalog.NewRenderer()
	}
	svc := &catalogService{
		store:    deps.Store,
		renderer: renderer,
		wishlist: deps.Wishlist,
		tracker:  deps.Tracker,
	}
	if deps.FilterDebounce > 0 {
		svc.filterDebounce = sched.NewDebouncer(deps.FilterDebounce)
	}
	return svc, nil
}

// ListProducts filters the catalog and projects the matches into view models.
// The filter event fires only for restricted queries so an unfiltered page
// load produces no analytics noise.
func (s *catalogService) ListProducts(ctx context.Context, query ProductQuery) (ProductListing, error) {
	entries := s.store.All()
	state := catalog.NewFilterState(query.Search, query.Tags)
	matched := catalog.Apply(entries, state)

	models := s.renderer.ToViewModels(matched)
	s.markWishlisted(ctx, query.VisitorID, models)

	if !state.Empty() && s.tracker != nil {
		tags := state.Tags()
		sort.Strings(tags)
		record := func() {
			s.tracker.Record(analytics.EventFilterUsed, query.VisitorID, map[string]string{
				"search":  state.SearchTerm,
				"tags":    strings.Join(tags, ","),
				"matched": fmt.Sprintf("%d", len(matched)),
			})
		}
		if s.filterDebounce != nil {
			s.filterDebounce.Trigger(record)
		} else {
			record()
		}
	}

	return ProductListing{
		Products: models,
		Total:    len(entries),
		Matched:  len(matched),
		Tags:     s.store.TagUniverse(),
	}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, visitorID string, productID string) (domain.ProductViewModel, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return domain.ProductViewModel{}, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	entry, ok := s.store.Get(productID)
	if !ok {
		return domain.ProductViewModel{}, ErrProductNotFound
	}
	model := s.renderer.ToViewModel(entry)
	models := []domain.ProductViewModel{model}
	s.markWishlisted(ctx, visitorID, models)
	return models[0], nil
}

// ResolveAffiliate returns the outbound link for a product and records the
// click. The event is emitted before the redirect so abandoned navigations
// still count.
func (s *catalogService) ResolveAffiliate(ctx context.Context, visitorID string, productID string) (string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return "", fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	entry, ok := s.store.Get(productID)
	if !ok {
		return "", ErrProductNotFound
	}
	link := strings.TrimSpace(entry.AffiliateLink)
	if link == "" {
		return "", ErrNoAffiliateLink
	}

	if s.tracker != nil {
		s.tracker.Record(analytics.EventAffiliateClick, visitorID, map[string]string{
			"productId": entry.ID,
			"title":     entry.Title,
		})
	}
	return link, nil
}

// ResolveAttachment returns the download URL for a named product attachment
// and records the download.
func (s *catalogService) ResolveAttachment(ctx context.Context, visitorID string, productID string, name string) (string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return "", fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: attachment name is required", ErrInvalidInput)
	}
	entry, ok := s.store.Get(productID)
	if !ok {
		return "", ErrProductNotFound
	}
	for _, attachment := range entry.Attachments {
		if attachment.Name != name {
			continue
		}
		if s.tracker != nil {
			s.tracker.Record(analytics.EventAttachmentDownload, visitorID, map[string]string{
				"productId": entry.ID,
				"name":      attachment.Name,
			})
		}
		return attachment.URL, nil
	}
	return "", ErrAttachmentNotFound
}

// AddProduct appends a new entry to the live catalog. The loaded document is
// the durable source of truth; additions live until the next restart.
func (s *catalogService) AddProduct(ctx context.Context, product domain.Product) (domain.ProductViewModel, error) {
	product.ID = strings.TrimSpace(product.ID)
	product.Title = strings.TrimSpace(product.Title)
	if product.ID == "" {
		return domain.ProductViewModel{}, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if product.Title == "" {
		return domain.ProductViewModel{}, fmt.Errorf("%w: product title is required", ErrInvalidInput)
	}
	if _, exists := s.store.Get(product.ID); exists {
		return domain.ProductViewModel{}, fmt.Errorf("%w: product id %q already exists", ErrInvalidInput, product.ID)
	}

	s.store.Replace(append(s.store.All(), product))
	requestctx.Logger(ctx).Info("product added",
		zap.String("product_id", product.ID),
		zap.Int("catalog_size", s.store.Len()),
	)

	if s.tracker != nil {
		s.tracker.Record(analytics.EventProductAdded, "", map[string]string{
			"productId": product.ID,
			"title":     product.Title,
		})
	}
	return s.renderer.ToViewModel(product), nil
}

// RemoveProduct drops an entry from the live catalog.
func (s *catalogService) RemoveProduct(ctx context.Context, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if _, ok := s.store.Get(productID); !ok {
		return ErrProductNotFound
	}

	entries := s.store.All()
	kept := make([]domain.Product, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == productID {
			continue
		}
		kept = append(kept, entry)
	}
	s.store.Replace(kept)
	requestctx.Logger(ctx).Info("product removed",
		zap.String("product_id", productID),
		zap.Int("catalog_size", s.store.Len()),
	)

	if s.tracker != nil {
		s.tracker.Record(analytics.EventProductRemoved, "", map[string]string{
			"productId": productID,
		})
	}
	return nil
}

// markWishlisted flags models saved by the visitor. A repository failure
// leaves the flags unset rather than failing the catalog read.
func (s *catalogService) markWishlisted(ctx context.Context, visitorID string, models []domain.ProductViewModel) {
	if s.wishlist == nil || strings.TrimSpace(visitorID) == "" || len(models) == 0 {
		return
	}
	items, err := s.wishlist.List(ctx, visitorID)
	if err != nil {
		requestctx.Logger(ctx).Warn("wishlist lookup failed", zap.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}
	saved := make(map[string]struct{}, len(items))
	for _, item := range items {
		saved[item.ProductID] = struct{}{}
	}
	for i := range models {
		if _, ok := saved[models[i].ID]; ok {
			models[i].Wishlisted = true
		}
	}
}
