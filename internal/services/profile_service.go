package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	domain "github.com/brandfolio/api/internal/domain"
)

// FallbackProfile is served when the profile document is missing or
// malformed, so the page always has an owner card to render.
var FallbackProfile = domain.Profile{
	Name:         "Site Owner",
	Tagline:      "Curated products I use and recommend",
	Bio:          "Welcome! Browse the catalog and save your favorites.",
	ProfileImage: "/assets/images/profile-placeholder.svg",
}

// ProfileServiceDeps bundles constructor inputs for the profile service.
type ProfileServiceDeps struct {
	// Raw is the profile document fetched at startup. Empty or malformed
	// input falls back to FallbackProfile.
	Raw []byte
}

type profileService struct {
	once    sync.Once
	raw     []byte
	profile domain.Profile
}

// NewProfileService constructs the profile service over a fetched document.
func NewProfileService(deps ProfileServiceDeps) (ProfileService, error) {
	return &profileService{raw: deps.Raw}, nil
}

// Profile returns the owner profile with rendered bio markup. The document
// is decoded on first use and cached for the process lifetime.
func (s *profileService) Profile(ctx context.Context) (domain.Profile, error) {
	_ = ctx
	s.once.Do(func() {
		s.profile = decodeProfile(s.raw)
	})
	return s.profile, nil
}

func decodeProfile(raw []byte) domain.Profile {
	profile := FallbackProfile
	if len(raw) > 0 {
		var decoded domain.Profile
		if err := json.Unmarshal(raw, &decoded); err == nil && strings.TrimSpace(decoded.Name) != "" {
			profile = decoded
		}
	}

	if profile.ProfileImage == "" {
		profile.ProfileImage = FallbackProfile.ProfileImage
	}
	profile.BioHTML = renderBio(profile.Bio)
	return profile
}

// renderBio converts the markdown bio into sanitized HTML. The UGC policy
// strips scripts and event handlers while keeping basic formatting.
func renderBio(bio string) string {
	bio = strings.TrimSpace(bio)
	if bio == "" {
		return ""
	}

	md := goldmark.New(
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(bio), &buf); err != nil {
		return fmt.Sprintf("<p>%s</p>", bluemonday.StrictPolicy().Sanitize(bio))
	}

	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	return strings.TrimSpace(policy.Sanitize(buf.String()))
}
