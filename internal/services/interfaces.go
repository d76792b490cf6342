package services

import (
	"context"

	domain "github.com/brandfolio/api/internal/domain"
)

// ProductQuery captures the caller's search term and tag selection.
type ProductQuery struct {
	Search    string
	Tags      []string
	VisitorID string
}

// ProductListing is the rendered result of a catalog query.
type ProductListing struct {
	Products []domain.ProductViewModel
	Total    int
	Matched  int
	Tags     []string
}

// CatalogService serves rendered catalog entries and administrative mutations.
type CatalogService interface {
	ListProducts(ctx context.Context, query ProductQuery) (ProductListing, error)
	GetProduct(ctx context.Context, visitorID string, productID string) (domain.ProductViewModel, error)
	ResolveAffiliate(ctx context.Context, visitorID string, productID string) (string, error)
	ResolveAttachment(ctx context.Context, visitorID string, productID string, name string) (string, error)
	AddProduct(ctx context.Context, product domain.Product) (domain.ProductViewModel, error)
	RemoveProduct(ctx context.Context, productID string) error
}

// ProfileService serves the site owner's profile document.
type ProfileService interface {
	Profile(ctx context.Context) (domain.Profile, error)
}

// WishlistService manages a visitor's saved products.
type WishlistService interface {
	List(ctx context.Context, visitorID string) ([]domain.WishlistItem, error)
	Add(ctx context.Context, visitorID string, productID string) ([]domain.WishlistItem, error)
	Remove(ctx context.Context, visitorID string, productID string) ([]domain.WishlistItem, error)
	Clear(ctx context.Context, visitorID string) error
}

// PreferenceService manages per-visitor site preferences.
type PreferenceService interface {
	Theme(ctx context.Context, visitorID string) (domain.Theme, error)
	SetTheme(ctx context.Context, visitorID string, theme domain.Theme) error
}
