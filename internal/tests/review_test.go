package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"rideboard/internal/domain"
	"rideboard/internal/service"
)

// ──────────────────────────────────────────────
// 5. RIDE REVIEWS
// ──────────────────────────────────────────────

func newReviewFixture() (*MockReviewRepository, *MockListingRepository, *service.ReviewService) {
	users := NewMockUserRepository()
	listings := NewMockListingRepository(users)
	listings.AddListing(&domain.Listing{ID: "listing-1", UserID: "poster"})
	reviews := NewMockReviewRepository()
	svc := service.NewReviewService(reviews, listings, fixedClock(time.Now()))
	return reviews, listings, svc
}

func TestCreateReview_RatingBounds(t *testing.T) {
	t.Parallel()

	_, _, svc := newReviewFixture()
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.CreateReview(ctx, "rider-1", "listing-1", rating, ""); !errors.Is(err, service.ErrRatingOutOfRange) {
			t.Errorf("rating %d: expected ErrRatingOutOfRange, got %v", rating, err)
		}
	}
	for rating := 1; rating <= 5; rating++ {
		reviewer := "rider-" + string(rune('a'+rating))
		if _, err := svc.CreateReview(ctx, reviewer, "listing-1", rating, "good trip"); err != nil {
			t.Errorf("rating %d: unexpected error %v", rating, err)
		}
	}
}

func TestCreateReview_PosterCannotReviewOwnListing(t *testing.T) {
	t.Parallel()

	_, _, svc := newReviewFixture()

	if _, err := svc.CreateReview(context.Background(), "poster", "listing-1", 5, ""); !errors.Is(err, service.ErrOwnListingReview) {
		t.Errorf("expected ErrOwnListingReview, got %v", err)
	}
}

func TestCreateReview_DuplicateRejected(t *testing.T) {
	t.Parallel()

	_, _, svc := newReviewFixture()
	ctx := context.Background()

	if _, err := svc.CreateReview(ctx, "rider-1", "listing-1", 4, "fine"); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := svc.CreateReview(ctx, "rider-1", "listing-1", 2, "changed my mind"); !errors.Is(err, service.ErrDuplicateReview) {
		t.Errorf("expected ErrDuplicateReview, got %v", err)
	}
}

func TestListingReviews_AverageRating(t *testing.T) {
	t.Parallel()

	_, _, svc := newReviewFixture()
	ctx := context.Background()

	reviews, avg, err := svc.ListingReviews(ctx, "listing-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reviews) != 0 || avg != 0 {
		t.Errorf("expected empty result with zero average, got %d reviews avg %f", len(reviews), avg)
	}

	if _, err := svc.CreateReview(ctx, "rider-1", "listing-1", 5, ""); err != nil {
		t.Fatalf("review: %v", err)
	}
	if _, err := svc.CreateReview(ctx, "rider-2", "listing-1", 2, ""); err != nil {
		t.Fatalf("review: %v", err)
	}

	reviews, avg, err = svc.ListingReviews(ctx, "listing-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	if avg != 3.5 {
		t.Errorf("expected average 3.5, got %f", avg)
	}
}
