package services

import (
	"errors"

	"github.com/brandfolio/api/internal/repositories"
)

var (
	// ErrProductNotFound indicates the requested product is not in the catalog.
	ErrProductNotFound = errors.New("services: product not found")
	// ErrNoAffiliateLink indicates the product exists but carries no outbound link.
	ErrNoAffiliateLink = errors.New("services: product has no affiliate link")
	// ErrAttachmentNotFound indicates the product carries no attachment by that name.
	ErrAttachmentNotFound = errors.New("services: attachment not found")
	// ErrInvalidInput indicates the caller supplied invalid data.
	ErrInvalidInput = errors.New("services: invalid input")
)

func isRepositoryNotFound(err error) bool {
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.IsNotFound()
	}
	return false
}
