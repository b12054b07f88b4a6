package postgres

import (
	"context"
	"database/sql"

	"rideboard/internal/domain"
	"rideboard/internal/repository"
)

// ReviewRepository is a PostgreSQL implementation of
// repository.ReviewRepository.
type ReviewRepository struct {
	q Querier
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{q: db}
}

// Create inserts a review. The (listing_id, reviewer_id) pair is unique; a
// second review by the same reviewer returns ErrConflict.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, listing_id, reviewer_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.q.ExecContext(ctx, query,
		review.ID,
		review.ListingID,
		review.ReviewerID,
		review.Rating,
		nullString(review.Comment),
		review.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// ListForListing returns the listing's reviews, newest first.
func (r *ReviewRepository) ListForListing(ctx context.Context, listingID string) ([]*domain.Review, error) {
	query := `
		SELECT id, listing_id, reviewer_id, rating, comment, created_at
		FROM reviews WHERE listing_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var rev domain.Review
		var comment sql.NullString
		if err := rows.Scan(&rev.ID, &rev.ListingID, &rev.ReviewerID, &rev.Rating, &comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		rev.Comment = comment.String
		reviews = append(reviews, &rev)
	}
	return reviews, rows.Err()
}
