package repository

import (
	"context"

	"rideboard/internal/domain"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Create inserts a review. A second review by the same reviewer for the
	// same listing returns ErrConflict.
	Create(ctx context.Context, review *domain.Review) error

	// ListForListing returns the listing's reviews, newest first.
	ListForListing(ctx context.Context, listingID string) ([]*domain.Review, error)
}
