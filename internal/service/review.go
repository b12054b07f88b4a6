package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"rideboard/internal/domain"
	"rideboard/internal/repository"
)

// ReviewService handles post-ride reviews of a listing's poster.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	listingRepo repository.ListingRepository
	now         func() time.Time
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repository.ReviewRepository, listingRepo repository.ListingRepository, now func() time.Time) *ReviewService {
	if now == nil {
		now = time.Now
	}
	return &ReviewService{reviewRepo: reviewRepo, listingRepo: listingRepo, now: now}
}

// CreateReview records a rating of the listing's poster. One review per
// (listing, reviewer) pair; posters cannot review themselves.
func (s *ReviewService) CreateReview(ctx context.Context, reviewerID, listingID string, rating int, comment string) (*domain.Review, error) {
	if reviewerID == "" {
		return nil, ErrInvalidUserID
	}
	if listingID == "" {
		return nil, ErrInvalidListingID
	}
	if rating < 1 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.UserID == reviewerID {
		return nil, ErrOwnListingReview
	}

	review := &domain.Review{
		ID:         uuid.New().String(),
		ListingID:  listingID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  s.now(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	return review, nil
}

// ListingReviews returns a listing's reviews plus the average rating, zero
// when there are none.
func (s *ReviewService) ListingReviews(ctx context.Context, listingID string) ([]*domain.Review, float64, error) {
	if listingID == "" {
		return nil, 0, ErrInvalidListingID
	}
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, 0, err
	}

	reviews, err := s.reviewRepo.ListForListing(ctx, listingID)
	if err != nil {
		return nil, 0, err
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := 0.0
	if len(reviews) > 0 {
		avg = float64(sum) / float64(len(reviews))
	}
	return reviews, avg, nil
}
