package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"rideboard/internal/domain"
	"rideboard/internal/repository"
)

// ListingRepository is a PostgreSQL implementation of
// repository.ListingRepository.
type ListingRepository struct {
	q Querier
}

// NewListingRepository creates a new PostgreSQL listing repository.
func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{q: db}
}

// NewListingRepositoryWithTx creates a listing repository using a transaction.
func NewListingRepositoryWithTx(tx *sql.Tx) *ListingRepository {
	return &ListingRepository{q: tx}
}

const listingColumns = `id, user_id, type, start_location, end_location, ride_date, ride_time, seats_available, description, phone, community_id, recurring_days, expires_at, is_archived, created_at`

// Create persists a new listing.
func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.q.ExecContext(ctx, query,
		l.ID,
		l.UserID,
		l.Type,
		l.StartLocation,
		l.EndLocation,
		l.RideDate,
		nullString(l.RideTime),
		nullInt(l.SeatsAvailable),
		nullString(l.Description),
		nullString(l.Phone),
		nullString(l.CommunityID),
		pq.Array(l.RecurringDays),
		l.ExpiresAt,
		l.IsArchived,
		l.CreatedAt,
	)
	return err
}

// GetByID retrieves a listing by ID.
func (r *ListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	return scanListing(r.q.QueryRowContext(ctx, query, id))
}

// Update rewrites a listing's mutable fields.
func (r *ListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	query := `
		UPDATE listings
		SET type = $1, start_location = $2, end_location = $3, ride_date = $4,
		    ride_time = $5, seats_available = $6, description = $7, phone = $8,
		    community_id = $9, recurring_days = $10, expires_at = $11, is_archived = $12
		WHERE id = $13
	`

	result, err := r.q.ExecContext(ctx, query,
		l.Type,
		l.StartLocation,
		l.EndLocation,
		l.RideDate,
		nullString(l.RideTime),
		nullInt(l.SeatsAvailable),
		nullString(l.Description),
		nullString(l.Phone),
		nullString(l.CommunityID),
		pq.Array(l.RecurringDays),
		l.ExpiresAt,
		l.IsArchived,
		l.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result, repository.ErrNotFound)
}

// FindActiveForUser returns the user's current active listing. Several rows
// can technically qualify; the most recently created wins.
func (r *ListingRepository) FindActiveForUser(ctx context.Context, userID string, disableAutoExpiry bool, now time.Time) (*domain.Listing, error) {
	query := `
		SELECT ` + listingColumns + ` FROM listings
		WHERE user_id = $1 AND NOT is_archived AND ($2 OR expires_at > $3)
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return scanListing(r.q.QueryRowContext(ctx, query, userID, disableAutoExpiry, now))
}

// FindMostRecentExpired returns the newest listing that is archived or, for an
// owner without the auto-expiry override, past its expiry.
func (r *ListingRepository) FindMostRecentExpired(ctx context.Context, userID string, disableAutoExpiry bool, now time.Time) (*domain.Listing, error) {
	query := `
		SELECT ` + listingColumns + ` FROM listings
		WHERE user_id = $1 AND (is_archived OR (NOT $2 AND expires_at <= $3))
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return scanListing(r.q.QueryRowContext(ctx, query, userID, disableAutoExpiry, now))
}

// Search returns active listings matching the filter. The active predicate is
// evaluated inside the query against filter.Now, joined with each owner's
// auto-expiry override, so results never need post-filtering.
func (r *ListingRepository) Search(ctx context.Context, filter repository.ListingFilter) ([]*domain.Listing, error) {
	var sb strings.Builder
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sb.WriteString(`
		SELECT l.id, l.user_id, l.type, l.start_location, l.end_location, l.ride_date, l.ride_time, l.seats_available, l.description, l.phone, l.community_id, l.recurring_days, l.expires_at, l.is_archived, l.created_at
		FROM listings l
		JOIN users u ON u.id = l.user_id
		WHERE NOT l.is_archived AND (u.disable_auto_expiry OR l.expires_at > ` + arg(filter.Now) + `)`)

	switch filter.Scope {
	case repository.ScopePublic:
		sb.WriteString(` AND l.community_id IS NULL`)
	case repository.ScopeCommunity:
		sb.WriteString(` AND l.community_id = ` + arg(filter.CommunityID))
	case repository.ScopeAll:
		if len(filter.MemberCommunityIDs) == 0 {
			sb.WriteString(` AND l.community_id IS NULL`)
		} else {
			sb.WriteString(` AND (l.community_id IS NULL OR l.community_id = ANY(` + arg(pq.Array(filter.MemberCommunityIDs)) + `))`)
		}
	}

	if filter.Type != "" {
		sb.WriteString(` AND l.type = ` + arg(filter.Type))
	}

	if filter.SearchText != "" {
		pattern := "%" + filter.SearchText + "%"
		p := arg(pattern)
		sb.WriteString(` AND (l.start_location ILIKE ` + p + ` OR l.end_location ILIKE ` + p + ` OR l.description ILIKE ` + p + `)`)
	}

	if filter.Cursor != nil {
		cmp := "<"
		if filter.SortBy == repository.SortOldest {
			cmp = ">"
		}
		sb.WriteString(` AND (l.created_at, l.id) ` + cmp + ` (` + arg(filter.Cursor.CreatedAt) + `, ` + arg(filter.Cursor.ID) + `)`)
	}

	if filter.SortBy == repository.SortOldest {
		sb.WriteString(` ORDER BY l.created_at ASC, l.id ASC`)
	} else {
		sb.WriteString(` ORDER BY l.created_at DESC, l.id DESC`)
	}

	if filter.Limit > 0 {
		sb.WriteString(` LIMIT ` + arg(filter.Limit))
	}

	rows, err := r.q.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*domain.Listing
	for rows.Next() {
		l, err := scanListingRow(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row *sql.Row) (*domain.Listing, error) {
	l, err := scanListingRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return l, err
}

func scanListingRow(s rowScanner) (*domain.Listing, error) {
	var l domain.Listing
	var rideTime, description, phone, communityID sql.NullString
	var seats sql.NullInt64
	var recurringDays pq.StringArray

	err := s.Scan(
		&l.ID,
		&l.UserID,
		&l.Type,
		&l.StartLocation,
		&l.EndLocation,
		&l.RideDate,
		&rideTime,
		&seats,
		&description,
		&phone,
		&communityID,
		&recurringDays,
		&l.ExpiresAt,
		&l.IsArchived,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.RideTime = rideTime.String
	l.SeatsAvailable = int(seats.Int64)
	l.Description = description.String
	l.Phone = phone.String
	l.CommunityID = communityID.String
	l.RecurringDays = recurringDays
	return &l, nil
}
