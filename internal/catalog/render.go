package catalog

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	domain "github.com/brandfolio/api/internal/domain"
)

const (
	// DefaultCTALabel is substituted when an entry carries no call-to-action text.
	DefaultCTALabel = "View Product"
	// PlaceholderImage is served by the static front end when the primary
	// image reference fails to resolve.
	PlaceholderImage = "/assets/images/product-placeholder.svg"

	maxFeatureBullets = 3
)

// Renderer converts filtered catalog entries into display-ready view models.
// All textual fields pass through a strict sanitization policy so catalog
// content can never smuggle markup into the rendered page.
type Renderer struct {
	policy *bluemonday.Policy
}

// NewRenderer constructs a Renderer with the strict text-only policy.
func NewRenderer() *Renderer {
	return &Renderer{policy: bluemonday.StrictPolicy()}
}

// ToViewModels projects entries into view models, preserving order. Defaults
// are applied here: empty price stays empty, a missing CTA label falls back
// to DefaultCTALabel, a missing image falls back to the placeholder, and
// feature bullets are capped at three (extras dropped silently).
func (r *Renderer) ToViewModels(entries []domain.Product) []domain.ProductViewModel {
	out := make([]domain.ProductViewModel, 0, len(entries))
	for _, entry := range entries {
		out = append(out, r.ToViewModel(entry))
	}
	return out
}

// ToViewModel projects a single entry.
func (r *Renderer) ToViewModel(entry domain.Product) domain.ProductViewModel {
	vm := domain.ProductViewModel{
		ID:            entry.ID,
		Title:         r.sanitize(entry.Title),
		Description:   r.sanitize(entry.Description),
		Price:         r.sanitize(entry.Price),
		Image:         strings.TrimSpace(entry.Image),
		ImageFallback: PlaceholderImage,
		CTALabel:      r.sanitize(entry.CTAText),
		AffiliateLink: strings.TrimSpace(entry.AffiliateLink),
	}
	if vm.Image == "" {
		vm.Image = PlaceholderImage
	}
	if vm.CTALabel == "" {
		vm.CTALabel = DefaultCTALabel
	}

	for _, tag := range entry.Tags {
		if cleaned := r.sanitize(tag); cleaned != "" {
			vm.Tags = append(vm.Tags, cleaned)
		}
	}

	features := entry.Features
	if len(features) > maxFeatureBullets {
		features = features[:maxFeatureBullets]
	}
	for _, feature := range features {
		if cleaned := r.sanitize(feature); cleaned != "" {
			vm.Features = append(vm.Features, cleaned)
		}
	}

	for _, att := range entry.Attachments {
		name := r.sanitize(att.Name)
		url := strings.TrimSpace(att.URL)
		if name == "" || url == "" {
			continue
		}
		vm.Attachments = append(vm.Attachments, domain.Attachment{
			Name: name,
			URL:  url,
			Type: r.sanitize(att.Type),
		})
	}

	return vm
}

func (r *Renderer) sanitize(value string) string {
	return strings.TrimSpace(r.policy.Sanitize(value))
}
