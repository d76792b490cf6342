package domain

import "time"

// Product is a single catalog entry. Entries are immutable once loaded;
// administrative updates replace the whole collection.
type Product struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Price         string       `json:"price,omitempty"`
	Image         string       `json:"image,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	CTAText       string       `json:"ctaText,omitempty"`
	AffiliateLink string       `json:"affiliateLink,omitempty"`
	Features      []string     `json:"features,omitempty"`
	Attachments   []Attachment `json:"attachments,omitempty"`
}

// Attachment is a downloadable resource associated with a product.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// ProductViewModel is the flat, display-ready projection of a Product with
// defaults applied. Textual fields are sanitized before they reach here; the
// rendering collaborator may insert them into markup as-is.
type ProductViewModel struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Price         string       `json:"price"`
	Image         string       `json:"image"`
	ImageFallback string       `json:"imageFallback"`
	Tags          []string     `json:"tags,omitempty"`
	CTALabel      string       `json:"ctaLabel"`
	AffiliateLink string       `json:"affiliateLink,omitempty"`
	Features      []string     `json:"features,omitempty"`
	Attachments   []Attachment `json:"attachments,omitempty"`
	Wishlisted    bool         `json:"wishlisted,omitempty"`
}

// Profile holds the site owner's public profile document.
type Profile struct {
	Name         string       `json:"name"`
	Tagline      string       `json:"tagline"`
	Bio          string       `json:"bio"`
	BioHTML      string       `json:"bioHtml,omitempty"`
	Email        string       `json:"email"`
	ProfileImage string       `json:"profileImage"`
	SocialLinks  []SocialLink `json:"socialLinks,omitempty"`
}

// SocialLink points at one of the owner's social profiles.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Theme names a site color scheme persisted per visitor.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether the theme is one of the supported values.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// WishlistItem references a catalog entry by id. The reference is weak:
// the entry may have left the catalog without invalidating the item.
type WishlistItem struct {
	ProductID string    `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
}
