package repository

import (
	"context"

	"rideboard/internal/domain"
)

// CommunityRepository defines persistence operations for communities and
// memberships.
type CommunityRepository interface {
	Create(ctx context.Context, community *domain.Community) error
	GetByID(ctx context.Context, id string) (*domain.Community, error)
	GetAll(ctx context.Context) ([]*domain.Community, error)

	// AddMember inserts a membership record. A duplicate (community, user)
	// pair returns ErrConflict.
	AddMember(ctx context.Context, membership *domain.Membership) error

	// FindMembership returns the join record for the pair, or ErrNotFound.
	FindMembership(ctx context.Context, communityID, userID string) (*domain.Membership, error)

	// ListForUser returns the communities the user belongs to.
	ListForUser(ctx context.Context, userID string) ([]*domain.Community, error)
}
