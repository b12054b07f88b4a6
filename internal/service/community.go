package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"rideboard/internal/domain"
	"rideboard/internal/repository"
)

// CommunityService handles community CRUD and membership.
type CommunityService struct {
	communityRepo repository.CommunityRepository
	now           func() time.Time
}

// NewCommunityService creates a new CommunityService.
func NewCommunityService(communityRepo repository.CommunityRepository, now func() time.Time) *CommunityService {
	if now == nil {
		now = time.Now
	}
	return &CommunityService{communityRepo: communityRepo, now: now}
}

// CreateCommunity creates a community and auto-joins the creator. The
// membership write happens after the community row is durable; if it fails
// the community still exists (the creator can join manually), so the error is
// logged rather than propagated.
func (s *CommunityService) CreateCommunity(ctx context.Context, creatorID, name, description string) (*domain.Community, error) {
	if creatorID == "" {
		return nil, ErrInvalidUserID
	}
	if name == "" {
		return nil, ErrInvalidCommunityName
	}

	community := &domain.Community{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedBy:   creatorID,
		CreatedAt:   s.now(),
	}
	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, err
	}

	if err := s.join(ctx, community.ID, creatorID); err != nil && !errors.Is(err, repository.ErrConflict) {
		log.Printf("auto-join failed for community %s creator %s: %v", community.ID, creatorID, err)
	}
	return community, nil
}

// JoinCommunity adds the caller to a community. Joining twice returns
// ErrAlreadyMember.
func (s *CommunityService) JoinCommunity(ctx context.Context, communityID, userID string) (*domain.Membership, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}

	if err := s.join(ctx, communityID, userID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}
	return s.communityRepo.FindMembership(ctx, communityID, userID)
}

// GetCommunity retrieves a community by ID.
func (s *CommunityService) GetCommunity(ctx context.Context, id string) (*domain.Community, error) {
	return s.communityRepo.GetByID(ctx, id)
}

// ListCommunities returns all communities.
func (s *CommunityService) ListCommunities(ctx context.Context) ([]*domain.Community, error) {
	return s.communityRepo.GetAll(ctx)
}

// MyCommunities returns the communities the caller belongs to.
func (s *CommunityService) MyCommunities(ctx context.Context, userID string) ([]*domain.Community, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.communityRepo.ListForUser(ctx, userID)
}

func (s *CommunityService) join(ctx context.Context, communityID, userID string) error {
	return s.communityRepo.AddMember(ctx, &domain.Membership{
		ID:          uuid.New().String(),
		CommunityID: communityID,
		UserID:      userID,
		JoinedAt:    s.now(),
	})
}
