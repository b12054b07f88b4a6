package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rideboard/internal/domain"
	"rideboard/internal/repository"
)

// CommunityRepository is a PostgreSQL implementation of
// repository.CommunityRepository.
type CommunityRepository struct {
	q Querier
}

// NewCommunityRepository creates a new PostgreSQL community repository.
func NewCommunityRepository(db *sql.DB) *CommunityRepository {
	return &CommunityRepository{q: db}
}

// Create persists a new community.
func (r *CommunityRepository) Create(ctx context.Context, c *domain.Community) error {
	query := `
		INSERT INTO communities (id, name, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.ExecContext(ctx, query, c.ID, c.Name, nullString(c.Description), c.CreatedBy, c.CreatedAt)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// GetByID retrieves a community by ID.
func (r *CommunityRepository) GetByID(ctx context.Context, id string) (*domain.Community, error) {
	query := `SELECT id, name, description, created_by, created_at FROM communities WHERE id = $1`

	var c domain.Community
	var description sql.NullString
	err := r.q.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &description, &c.CreatedBy, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Description = description.String
	return &c, nil
}

// GetAll retrieves all communities, newest first.
func (r *CommunityRepository) GetAll(ctx context.Context) ([]*domain.Community, error) {
	query := `SELECT id, name, description, created_by, created_at FROM communities ORDER BY created_at DESC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCommunities(rows)
}

// AddMember inserts a membership record. The (community_id, user_id) pair is
// unique; a duplicate join returns ErrConflict.
func (r *CommunityRepository) AddMember(ctx context.Context, m *domain.Membership) error {
	query := `
		INSERT INTO community_members (id, community_id, user_id, joined_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.q.ExecContext(ctx, query, m.ID, m.CommunityID, m.UserID, m.JoinedAt)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// FindMembership returns the join record for the pair.
func (r *CommunityRepository) FindMembership(ctx context.Context, communityID, userID string) (*domain.Membership, error) {
	query := `
		SELECT id, community_id, user_id, joined_at
		FROM community_members WHERE community_id = $1 AND user_id = $2
	`

	var m domain.Membership
	err := r.q.QueryRowContext(ctx, query, communityID, userID).Scan(&m.ID, &m.CommunityID, &m.UserID, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns the communities the user belongs to.
func (r *CommunityRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Community, error) {
	query := `
		SELECT c.id, c.name, c.description, c.created_by, c.created_at
		FROM communities c
		JOIN community_members m ON m.community_id = c.id
		WHERE m.user_id = $1
		ORDER BY m.joined_at ASC
	`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCommunities(rows)
}

func collectCommunities(rows *sql.Rows) ([]*domain.Community, error) {
	var communities []*domain.Community
	for rows.Next() {
		var c domain.Community
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Description = description.String
		communities = append(communities, &c)
	}
	return communities, rows.Err()
}
