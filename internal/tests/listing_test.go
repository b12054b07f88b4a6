package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"rideboard/internal/domain"
	"rideboard/internal/repository"
	"rideboard/internal/service"
)

// ──────────────────────────────────────────────
// 1. LISTING LIFECYCLE EDGE CASES
// ──────────────────────────────────────────────

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newListingService(users *MockUserRepository, listings *MockListingRepository, now time.Time) *service.ListingService {
	return service.NewListingService(listings, users, NewMockCommunityRepository(), nil, time.UTC, fixedClock(now))
}

func TestCreateListing_AssignsEndOfDayExpiry(t *testing.T) {
	t.Parallel()

	users := NewMockUserRepository()
	listings := NewMockListingRepository(users)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newListingService(users, listings, now)

	listing, err := svc.CreateListing(context.Background(), service.CreateListingRequest{
		UserID:        "user-1",
		Type:          domain.ListingTypeOffering,
		StartLocation: "DHA Phase 5",
		EndLocation:   "Gulberg",
		RideDate:      "2026-03-12",
		RideTime:      "18:30",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	if !listing.ExpiresAt.Equal(want) {
		t.Errorf("expected expiry %v (midnight after ride date), got %v", want, listing.ExpiresAt)
	}
	if listings.CreateCallCount != 1 {
		t.Errorf("expected one Create call, got %d", listings.CreateCallCount)
	}
}

func TestCreateListing_ValidationErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     service.CreateListingRequest
		wantErr error
	}{
		{
			name: "missing user",
			req: service.CreateListingRequest{
				Type:          domain.ListingTypeOffering,
				StartLocation: "A",
				EndLocation:   "B",
				RideDate:      "2026-03-12",
			},
			wantErr: service.ErrInvalidUserID,
		},
		{
			name: "unknown type",
			req: service.CreateListingRequest{
				UserID:        "user-1",
				Type:          "CARPOOL",
				StartLocation: "A",
				EndLocation:   "B",
				RideDate:      "2026-03-12",
			},
			wantErr: service.ErrInvalidListingType,
		},
		{
			name: "missing end location",
			req: service.CreateListingRequest{
				UserID:        "user-1",
				Type:          domain.ListingTypeSeeking,
				StartLocation: "A",
				RideDate:      "2026-03-12",
			},
			wantErr: service.ErrMissingLocation,
		},
		{
			name: "malformed ride date",
			req: service.CreateListingRequest{
				UserID:        "user-1",
				Type:          domain.ListingTypeSeeking,
				StartLocation: "A",
				EndLocation:   "B",
				RideDate:      "12/03/2026",
			},
			wantErr: service.ErrInvalidRideDate,
		},
		{
			name: "bad recurring day",
			req: service.CreateListingRequest{
				UserID:        "user-1",
				Type:          domain.ListingTypeSeeking,
				StartLocation: "A",
				EndLocation:   "B",
				RideDate:      "2026-03-12",
				RecurringDays: []string{"monday", "moonday"},
			},
			wantErr: service.ErrInvalidRecurringDay,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			users := NewMockUserRepository()
			listings := NewMockListingRepository(users)
			svc := newListingService(users, listings, time.Now())

			_, err := svc.CreateListing(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateListing_CommunityRequiresMembership(t *testing.T) {
	t.Parallel()

	users := NewMockUserRepository()
	listings := NewMockListingRepository(users)
	communities := NewMockCommunityRepository()
	ctx := context.Background()

	if err := communities.Create(ctx, &domain.Community{ID: "lahore-commuters", Name: "Lahore Commuters"}); err != nil {
		t.Fatalf("seed community: %v", err)
	}
	if err := communities.AddMember(ctx, &domain.Membership{ID: "m-1", CommunityID: "lahore-commuters", UserID: "member"}); err != nil {
		t.Fatalf("seed membership: %v", err)
	}

	svc := service.NewListingService(listings, users, communities, nil, time.UTC, fixedClock(time.Now()))
	req := service.CreateListingRequest{
		Type:          domain.ListingTypeOffering,
		StartLocation: "DHA Phase 5",
		EndLocation:   "Gulberg",
		RideDate:      "2026-03-12",
		CommunityID:   "lahore-commuters",
	}

	req.UserID = "outsider"
	if _, err := svc.CreateListing(ctx, req); !errors.Is(err, service.ErrNotCommunityMember) {
		t.Errorf("expected ErrNotCommunityMember for a non-member post, got %v", err)
	}
	if listings.CreateCallCount != 0 {
		t.Error("expected no listing written for a non-member post")
	}

	req.UserID = "member"
	if _, err := svc.CreateListing(ctx, req); err != nil {
		t.Errorf("member post: %v", err)
	}

	req.CommunityID = "no-such-community"
	if _, err := svc.CreateListing(ctx, req); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown community, got %v", err)
	}
}

func TestEditListing_NonOwnerForbidden(t *testing.T) {
	t.Parallel()

	users := NewMockUserRepository()
	listings := NewMockListingRepository(users)
	listings.AddListing(&domain.Listing{ID: "listing-1", UserID: "owner"})
	svc := newListingService(users, listings, time.Now())

	_, err := svc.EditListing(context.Background(), "intruder", "listing-1", service.EditListingRequest{
		StartLocation: "A",
		EndLocation:   "B",
		RideDate:      "2026-03-12",
	})
	if !errors.Is(err, service.ErrNotListingOwner) {
		t.Errorf("expected ErrNotListingOwner, got %v", err)
	}
	if listings.UpdateCallCount != 0 {
		t.Error("expected no Update call for a non-owner edit")
	}
}

func TestEditListing_NewRideDateMovesExpiry(t *testing.T) {
	t.Parallel()

	users := NewMockUserRepository()
	listings := NewMockListingRepository(users)
	listings.AddListing(&domain.Listing{
		ID:        "listing-1",
		UserID:    "owner",
		ExpiresAt: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
	})
	svc := newListingService(users, listings, time.Now())

	updated, err := svc.EditListing(context.Background(), "owner", "listing-1", service.EditListingRequest{
		StartLocation: "A",
		EndLocation:   "B",
		RideDate:      "2026-03-20",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC)
	if !updated.ExpiresAt.Equal(want) {
		t.Errorf("expected moved expiry %v, got %v", want, updated.ExpiresAt)
	}
}

func TestArchiveListing_Idempotent(t *testing.T) {
	t.Parallel()

	users := NewMockUserRepository()
	listings := NewMockListingRepository(users)
	listings.AddListing(&domain.Listing{ID: "listing-1", UserID: "owner"})
	svc := newListingService(users, listings, time.Now())

	if _, err := svc.ArchiveListing(context.Background(), "owner", "listing-1"); err != nil {
		t.Fatalf("first archive: %v", err)
	}
	if _, err := svc.ArchiveListing(context.Background(), "owner", "listing-1"); err != nil {
		t.Fatalf("second archive: %v", err)
	}
	if listings.UpdateCallCount != 1 {
		t.Errorf("expected one Update call across both archives, got %d", listings.UpdateCallCount)
	}
}

func TestCurrentListing_ExpiredListingDisappears(t *testing.T) {
	t.Parallel()

	users := NewMockUserRepository()
	users.AddUser(&domain.User{ID: "user-1"})
	listings := NewMockListingRepository(users)
	listings.AddListing(&domain.Listing{
		ID:        "listing-1",
		UserID:    "user-1",
		ExpiresAt: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})

	before := time.Date(2026, 3, 12, 23, 59, 0, 0, time.UTC)
	svc := newListingService(users, listings, before)
	if _, err := svc.CurrentListing(context.Background(), "user-1"); err != nil {
		t.Fatalf("expected active listing before expiry, got %v", err)
	}

	after := time.Date(2026, 3, 13, 0, 1, 0, 0, time.UTC)
	svc = newListingService(users, listings, after)
	if _, err := svc.CurrentListing(context.Background(), "user-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after expiry, got %v", err)
	}
	if got, err := svc.LastExpiredListing(context.Background(), "user-1"); err != nil {
		t.Errorf("expected listing in the expired slot, got %v", err)
	} else if got.ID != "listing-1" {
		t.Errorf("expected listing-1 in the expired slot, got %s", got.ID)
	}
}

func TestCurrentListing_OverrideKeepsExpiredListingActive(t *testing.T) {
	t.Parallel()

	users := NewMockUserRepository()
	users.AddUser(&domain.User{ID: "user-1", DisableAutoExpiry: true})
	listings := NewMockListingRepository(users)
	listings.AddListing(&domain.Listing{
		ID:        "listing-1",
		UserID:    "user-1",
		ExpiresAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	now := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	svc := newListingService(users, listings, now)

	got, err := svc.CurrentListing(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected active listing under override, got %v", err)
	}
	if got.ID != "listing-1" {
		t.Errorf("expected listing-1, got %s", got.ID)
	}
	if _, err := svc.LastExpiredListing(context.Background(), "user-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected empty expired slot under override, got %v", err)
	}
}

func TestSettingsToggle_ReclassifiesOnNextRead(t *testing.T) {
	t.Parallel()

	users := NewMockUserRepository()
	users.AddUser(&domain.User{ID: "user-1"})
	listings := NewMockListingRepository(users)
	listings.AddListing(&domain.Listing{
		ID:        "listing-1",
		UserID:    "user-1",
		ExpiresAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	now := time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC)
	svc := newListingService(users, listings, now)
	ctx := context.Background()

	if _, err := svc.CurrentListing(ctx, "user-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected expired before toggle, got %v", err)
	}

	// No migration, no listing write: only the user flag changes.
	if err := users.SetDisableAutoExpiry(ctx, "user-1", true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.CurrentListing(ctx, "user-1"); err != nil {
		t.Errorf("expected active after enabling override, got %v", err)
	}

	if err := users.SetDisableAutoExpiry(ctx, "user-1", false); err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if _, err := svc.CurrentListing(ctx, "user-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected expired again after disabling override, got %v", err)
	}
	if listings.UpdateCallCount != 0 {
		t.Errorf("expected no listing writes across toggles, got %d", listings.UpdateCallCount)
	}
}

func TestCurrentListing_MostRecentWinsOnOverlap(t *testing.T) {
	t.Parallel()

	users := NewMockUserRepository()
	users.AddUser(&domain.User{ID: "user-1"})
	listings := NewMockListingRepository(users)

	expires := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	listings.AddListing(&domain.Listing{
		ID: "older", UserID: "user-1", ExpiresAt: expires,
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	listings.AddListing(&domain.Listing{
		ID: "newer", UserID: "user-1", ExpiresAt: expires,
		CreatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})

	svc := newListingService(users, listings, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	got, err := svc.CurrentListing(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "newer" {
		t.Errorf("expected most recently created listing to win, got %s", got.ID)
	}
}

func TestArchiveListing_BeatsOverride(t *testing.T) {
	t.Parallel()

	users := NewMockUserRepository()
	users.AddUser(&domain.User{ID: "user-1", DisableAutoExpiry: true})
	listings := NewMockListingRepository(users)
	listings.AddListing(&domain.Listing{
		ID:        "listing-1",
		UserID:    "user-1",
		ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	svc := newListingService(users, listings, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := svc.ArchiveListing(ctx, "user-1", "listing-1"); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := svc.CurrentListing(ctx, "user-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected archived listing inactive despite override, got %v", err)
	}
	if got, err := svc.LastExpiredListing(ctx, "user-1"); err != nil || got.ID != "listing-1" {
		t.Errorf("expected archived listing in expired slot, got %v, %v", got, err)
	}
}
