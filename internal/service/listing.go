package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"rideboard/internal/domain"
	"rideboard/internal/metrics"
	"rideboard/internal/repository"
)

// ListingService handles the ride listing lifecycle. Expiry is never stored:
// ExpiresAt is fixed once at creation and classification happens at read time
// against the owner's current auto-expiry override.
type ListingService struct {
	listingRepo   repository.ListingRepository
	userRepo      repository.UserRepository
	communityRepo repository.CommunityRepository
	metrics       *metrics.Metrics
	loc           *time.Location
	now           func() time.Time
}

// NewListingService creates a new ListingService. loc is the board's timezone
// for the end-of-day expiry boundary; now is injectable for tests.
func NewListingService(listingRepo repository.ListingRepository, userRepo repository.UserRepository, communityRepo repository.CommunityRepository, m *metrics.Metrics, loc *time.Location, now func() time.Time) *ListingService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &ListingService{
		listingRepo:   listingRepo,
		userRepo:      userRepo,
		communityRepo: communityRepo,
		metrics:       m,
		loc:           loc,
		now:           now,
	}
}

// CreateListingRequest contains the parameters for posting a listing.
type CreateListingRequest struct {
	UserID         string
	Type           domain.ListingType
	StartLocation  string
	EndLocation    string
	RideDate       string // "2006-01-02"
	RideTime       string
	SeatsAvailable int
	Description    string
	Phone          string
	CommunityID    string // empty = public feed
	RecurringDays  []string
}

// CreateListing validates and persists a new listing. ExpiresAt is assigned
// here and only here: midnight after RideDate in the board's timezone.
func (s *ListingService) CreateListing(ctx context.Context, req CreateListingRequest) (*domain.Listing, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.Type != domain.ListingTypeOffering && req.Type != domain.ListingTypeSeeking {
		return nil, ErrInvalidListingType
	}
	if req.StartLocation == "" || req.EndLocation == "" {
		return nil, ErrMissingLocation
	}
	for _, day := range req.RecurringDays {
		if !domain.ValidWeekdays[day] {
			return nil, ErrInvalidRecurringDay
		}
	}

	expiresAt, err := domain.ListingExpiry(req.RideDate, s.loc)
	if err != nil {
		return nil, ErrInvalidRideDate
	}

	// Posting into a community is member-only, same rule as reading its feed.
	if req.CommunityID != "" {
		if _, err := s.communityRepo.GetByID(ctx, req.CommunityID); err != nil {
			return nil, err
		}
		if _, err := s.communityRepo.FindMembership(ctx, req.CommunityID, req.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotCommunityMember
			}
			return nil, err
		}
	}

	listing := &domain.Listing{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		Type:           req.Type,
		StartLocation:  req.StartLocation,
		EndLocation:    req.EndLocation,
		RideDate:       req.RideDate,
		RideTime:       req.RideTime,
		SeatsAvailable: req.SeatsAvailable,
		Description:    req.Description,
		Phone:          req.Phone,
		CommunityID:    req.CommunityID,
		RecurringDays:  req.RecurringDays,
		ExpiresAt:      expiresAt,
		CreatedAt:      s.now(),
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ListingsCreated.WithLabelValues(string(listing.Type)).Inc()
	}
	return listing, nil
}

// GetListing retrieves a listing by ID.
func (s *ListingService) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	if id == "" {
		return nil, ErrInvalidListingID
	}
	return s.listingRepo.GetByID(ctx, id)
}

// EditListingRequest contains the editable fields of a listing.
type EditListingRequest struct {
	StartLocation  string
	EndLocation    string
	RideDate       string
	RideTime       string
	SeatsAvailable int
	Description    string
	Phone          string
	RecurringDays  []string
}

// EditListing updates a listing's details. Only the owner may edit; a changed
// ride date moves the expiry boundary accordingly.
func (s *ListingService) EditListing(ctx context.Context, callerID, listingID string, req EditListingRequest) (*domain.Listing, error) {
	listing, err := s.ownedListing(ctx, callerID, listingID)
	if err != nil {
		return nil, err
	}

	if req.StartLocation == "" || req.EndLocation == "" {
		return nil, ErrMissingLocation
	}
	for _, day := range req.RecurringDays {
		if !domain.ValidWeekdays[day] {
			return nil, ErrInvalidRecurringDay
		}
	}
	expiresAt, err := domain.ListingExpiry(req.RideDate, s.loc)
	if err != nil {
		return nil, ErrInvalidRideDate
	}

	listing.StartLocation = req.StartLocation
	listing.EndLocation = req.EndLocation
	listing.RideDate = req.RideDate
	listing.RideTime = req.RideTime
	listing.SeatsAvailable = req.SeatsAvailable
	listing.Description = req.Description
	listing.Phone = req.Phone
	listing.RecurringDays = req.RecurringDays
	listing.ExpiresAt = expiresAt

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// ArchiveListing marks a listing done. Archiving is permanent and independent
// of the clock; only the owner may archive.
func (s *ListingService) ArchiveListing(ctx context.Context, callerID, listingID string) (*domain.Listing, error) {
	listing, err := s.ownedListing(ctx, callerID, listingID)
	if err != nil {
		return nil, err
	}

	if listing.IsArchived {
		return listing, nil // already done, idempotent
	}

	listing.IsArchived = true
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// CurrentListing returns the caller's active listing, applying the expiry
// policy with the caller's current auto-expiry override. ErrNotFound when
// nothing qualifies.
func (s *ListingService) CurrentListing(ctx context.Context, userID string) (*domain.Listing, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.listingRepo.FindActiveForUser(ctx, userID, user.DisableAutoExpiry, s.now())
}

// LastExpiredListing returns the caller's most recently created listing that
// is archived or past expiry.
func (s *ListingService) LastExpiredListing(ctx context.Context, userID string) (*domain.Listing, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.listingRepo.FindMostRecentExpired(ctx, userID, user.DisableAutoExpiry, s.now())
}

// ownedListing loads a listing and verifies the caller owns it.
func (s *ListingService) ownedListing(ctx context.Context, callerID, listingID string) (*domain.Listing, error) {
	if callerID == "" {
		return nil, ErrInvalidUserID
	}
	if listingID == "" {
		return nil, ErrInvalidListingID
	}
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.UserID != callerID {
		return nil, ErrNotListingOwner
	}
	return listing, nil
}
