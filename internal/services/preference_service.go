package services

import (
	"context"
	"fmt"

	domain "github.com/brandfolio/api/internal/domain"
	"github.com/brandfolio/api/internal/repositories"
)

// DefaultTheme applies when a visitor has never stored a preference.
const DefaultTheme = domain.ThemeLight

// PreferenceServiceDeps bundles constructor inputs for the preference service.
type PreferenceServiceDeps struct {
	Repo repositories.PreferenceRepository
}

type preferenceService struct {
	repo repositories.PreferenceRepository
}

// NewPreferenceService constructs the preference service with the supplied dependencies.
func NewPreferenceService(deps PreferenceServiceDeps) (PreferenceService, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("preference service: repository is required")
	}
	return &preferenceService{repo: deps.Repo}, nil
}

// Theme returns the visitor's stored theme, falling back to the default when
// nothing has been stored or the stored value is no longer recognised.
func (s *preferenceService) Theme(ctx context.Context, visitorID string) (domain.Theme, error) {
	if err := requireVisitor(visitorID); err != nil {
		return "", err
	}
	theme, err := s.repo.GetTheme(ctx, visitorID)
	if err != nil {
		if isRepositoryNotFound(err) {
			return DefaultTheme, nil
		}
		return "", err
	}
	if !theme.Valid() {
		return DefaultTheme, nil
	}
	return theme, nil
}

func (s *preferenceService) SetTheme(ctx context.Context, visitorID string, theme domain.Theme) error {
	if err := requireVisitor(visitorID); err != nil {
		return err
	}
	if !theme.Valid() {
		return fmt.Errorf("%w: unsupported theme %q", ErrInvalidInput, string(theme))
	}
	return s.repo.SetTheme(ctx, visitorID, theme)
}
