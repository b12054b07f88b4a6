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
// 3. FEED ASSEMBLY AND PAGINATION
// ──────────────────────────────────────────────

type feedFixture struct {
	users       *MockUserRepository
	listings    *MockListingRepository
	communities *MockCommunityRepository
	now         time.Time
}

func newFeedFixture() *feedFixture {
	users := NewMockUserRepository()
	return &feedFixture{
		users:       users,
		listings:    NewMockListingRepository(users),
		communities: NewMockCommunityRepository(),
		now:         time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *feedFixture) service() *service.FeedService {
	return service.NewFeedService(f.listings, f.communities, nil, nil, fixedClock(f.now))
}

// addListing seeds an active listing created minutesAgo before the fixture
// clock. communityID empty means public.
func (f *feedFixture) addListing(id, ownerID, communityID string, listingType domain.ListingType, minutesAgo int) {
	if f.users.GetUser(ownerID) == nil {
		f.users.AddUser(&domain.User{ID: ownerID})
	}
	f.listings.AddListing(&domain.Listing{
		ID:            id,
		UserID:        ownerID,
		Type:          listingType,
		StartLocation: "Model Town",
		EndLocation:   "Johar Town",
		CommunityID:   communityID,
		ExpiresAt:     f.now.Add(24 * time.Hour),
		CreatedAt:     f.now.Add(-time.Duration(minutesAgo) * time.Minute),
	})
}

func (f *feedFixture) join(communityID, userID string) {
	_ = f.communities.Create(context.Background(), &domain.Community{ID: communityID, Name: communityID})
	_ = f.communities.AddMember(context.Background(), &domain.Membership{
		ID: communityID + "-" + userID, CommunityID: communityID, UserID: userID, JoinedAt: f.now,
	})
}

func feedIDs(page *domain.Page[*domain.Listing]) []string {
	ids := make([]string, 0, len(page.Items))
	for _, l := range page.Items {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestFeed_AnonymousSeesPublicOnly(t *testing.T) {
	t.Parallel()

	f := newFeedFixture()
	f.addListing("public-1", "owner-1", "", domain.ListingTypeOffering, 1)
	f.addListing("community-1", "owner-2", "lahore-commuters", domain.ListingTypeOffering, 2)

	page, err := f.service().AssembleFeed(context.Background(), "", service.FeedParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := feedIDs(page); len(got) != 1 || got[0] != "public-1" {
		t.Errorf("expected only the public listing, got %v", got)
	}
}

func TestFeed_MemberSeesPublicPlusOwnCommunities(t *testing.T) {
	t.Parallel()

	f := newFeedFixture()
	f.addListing("public-1", "owner-1", "", domain.ListingTypeOffering, 1)
	f.addListing("mine", "owner-2", "lahore-commuters", domain.ListingTypeOffering, 2)
	f.addListing("not-mine", "owner-3", "karachi-commuters", domain.ListingTypeOffering, 3)
	f.join("lahore-commuters", "member-1")

	page, err := f.service().AssembleFeed(context.Background(), "member-1", service.FeedParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := feedIDs(page)
	if len(got) != 2 || got[0] != "public-1" || got[1] != "mine" {
		t.Errorf("expected [public-1 mine] newest first, got %v", got)
	}
}

func TestFeed_CommunityScopeRequiresMembership(t *testing.T) {
	t.Parallel()

	f := newFeedFixture()
	f.addListing("community-1", "owner-1", "lahore-commuters", domain.ListingTypeOffering, 1)
	f.join("lahore-commuters", "member-1")
	svc := f.service()
	ctx := context.Background()

	params := service.FeedParams{Scope: repository.ScopeCommunity, CommunityID: "lahore-commuters"}

	if _, err := svc.AssembleFeed(ctx, "", params); !errors.Is(err, service.ErrNotCommunityMember) {
		t.Errorf("expected anonymous caller rejected, got %v", err)
	}
	if _, err := svc.AssembleFeed(ctx, "outsider", params); !errors.Is(err, service.ErrNotCommunityMember) {
		t.Errorf("expected non-member rejected, got %v", err)
	}
	page, err := svc.AssembleFeed(ctx, "member-1", params)
	if err != nil {
		t.Fatalf("member should pass: %v", err)
	}
	if got := feedIDs(page); len(got) != 1 || got[0] != "community-1" {
		t.Errorf("expected community listing for member, got %v", got)
	}
}

func TestFeed_UnknownScopeRejected(t *testing.T) {
	t.Parallel()

	f := newFeedFixture()
	_, err := f.service().AssembleFeed(context.Background(), "", service.FeedParams{Scope: "friends"})
	if !errors.Is(err, service.ErrInvalidScope) {
		t.Errorf("expected ErrInvalidScope, got %v", err)
	}
}

func TestFeed_UnknownTypeAndSortRejected(t *testing.T) {
	t.Parallel()

	f := newFeedFixture()
	f.addListing("public-1", "owner-1", "", domain.ListingTypeOffering, 1)
	svc := f.service()
	ctx := context.Background()

	// A garbage type must not silently produce an empty feed.
	if _, err := svc.AssembleFeed(ctx, "", service.FeedParams{Type: "CARPOOL"}); !errors.Is(err, service.ErrInvalidListingType) {
		t.Errorf("expected ErrInvalidListingType, got %v", err)
	}
	// An unknown sort must not silently mean newest.
	if _, err := svc.AssembleFeed(ctx, "", service.FeedParams{SortBy: "trending"}); !errors.Is(err, service.ErrInvalidSortOrder) {
		t.Errorf("expected ErrInvalidSortOrder, got %v", err)
	}
}

func TestFeed_TypeFilterAndSearchText(t *testing.T) {
	t.Parallel()

	f := newFeedFixture()
	f.addListing("offer-1", "owner-1", "", domain.ListingTypeOffering, 1)
	f.addListing("seek-1", "owner-2", "", domain.ListingTypeSeeking, 2)
	f.listings.AddListing(&domain.Listing{
		ID: "offer-airport", UserID: "owner-1", Type: domain.ListingTypeOffering,
		StartLocation: "Airport", EndLocation: "DHA",
		ExpiresAt: f.now.Add(24 * time.Hour), CreatedAt: f.now.Add(-3 * time.Minute),
	})
	svc := f.service()
	ctx := context.Background()

	page, err := svc.AssembleFeed(ctx, "", service.FeedParams{Type: domain.ListingTypeSeeking})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := feedIDs(page); len(got) != 1 || got[0] != "seek-1" {
		t.Errorf("expected only seeking listings, got %v", got)
	}

	page, err = svc.AssembleFeed(ctx, "", service.FeedParams{SearchText: "airport"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := feedIDs(page); len(got) != 1 || got[0] != "offer-airport" {
		t.Errorf("expected case-insensitive location match, got %v", got)
	}
}

func TestFeed_ExpiredListingsExcluded(t *testing.T) {
	t.Parallel()

	f := newFeedFixture()
	f.addListing("active", "owner-1", "", domain.ListingTypeOffering, 1)

	f.users.AddUser(&domain.User{ID: "owner-2"})
	f.listings.AddListing(&domain.Listing{
		ID: "expired", UserID: "owner-2", Type: domain.ListingTypeOffering,
		ExpiresAt: f.now.Add(-time.Hour), CreatedAt: f.now.Add(-48 * time.Hour),
	})
	f.users.AddUser(&domain.User{ID: "owner-3", DisableAutoExpiry: true})
	f.listings.AddListing(&domain.Listing{
		ID: "expired-but-overridden", UserID: "owner-3", Type: domain.ListingTypeOffering,
		ExpiresAt: f.now.Add(-time.Hour), CreatedAt: f.now.Add(-49 * time.Hour),
	})

	page, err := f.service().AssembleFeed(context.Background(), "", service.FeedParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := feedIDs(page)
	if len(got) != 2 || got[0] != "active" || got[1] != "expired-but-overridden" {
		t.Errorf("expected owner override to keep a stale listing visible, got %v", got)
	}
}

func TestFeed_CursorPaginationWalksWholeFeed(t *testing.T) {
	t.Parallel()

	f := newFeedFixture()
	for i := 0; i < 5; i++ {
		f.addListing([]string{"e", "d", "c", "b", "a"}[i], "owner-1", "", domain.ListingTypeOffering, i)
	}
	svc := f.service()
	ctx := context.Background()

	var seen []string
	cursor := ""
	pages := 0
	for {
		page, err := svc.AssembleFeed(ctx, "", service.FeedParams{Limit: 2, Cursor: cursor})
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		seen = append(seen, feedIDs(page)...)
		pages++
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	if pages != 3 {
		t.Errorf("expected 3 pages of limit 2 over 5 rows, got %d", pages)
	}
	want := []string{"e", "d", "c", "b", "a"} // newest first
	if len(seen) != len(want) {
		t.Fatalf("expected %d rows without duplicates or gaps, got %v", len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
}

func TestFeed_OldestSortReversesOrder(t *testing.T) {
	t.Parallel()

	f := newFeedFixture()
	f.addListing("newest", "owner-1", "", domain.ListingTypeOffering, 1)
	f.addListing("oldest", "owner-1", "", domain.ListingTypeOffering, 10)

	page, err := f.service().AssembleFeed(context.Background(), "", service.FeedParams{SortBy: repository.SortOldest})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := feedIDs(page); len(got) != 2 || got[0] != "oldest" {
		t.Errorf("expected oldest first, got %v", got)
	}
}

func TestFeed_MalformedCursorRejected(t *testing.T) {
	t.Parallel()

	f := newFeedFixture()
	_, err := f.service().AssembleFeed(context.Background(), "", service.FeedParams{Cursor: "not-base64!!"})
	if !errors.Is(err, service.ErrBadCursor) {
		t.Errorf("expected ErrBadCursor, got %v", err)
	}
}

func TestFeed_AnonymousFirstPageCached(t *testing.T) {
	t.Parallel()

	f := newFeedFixture()
	f.addListing("public-1", "owner-1", "", domain.ListingTypeOffering, 1)
	cache := NewMockFeedCache()
	svc := service.NewFeedService(f.listings, f.communities, cache, nil, fixedClock(f.now))
	ctx := context.Background()

	if _, err := svc.AssembleFeed(ctx, "", service.FeedParams{}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if cache.SetCallCount != 1 {
		t.Errorf("expected the page to be cached, SetFeedPage called %d times", cache.SetCallCount)
	}

	if _, err := svc.AssembleFeed(ctx, "", service.FeedParams{}); err != nil {
		t.Fatalf("second request: %v", err)
	}
	if f.listings.SearchCallCount != 1 {
		t.Errorf("expected the second request served from cache, Search called %d times", f.listings.SearchCallCount)
	}

	// Authenticated callers bypass the cache: their visibility set is personal.
	f.users.AddUser(&domain.User{ID: "member-1"})
	if _, err := svc.AssembleFeed(ctx, "member-1", service.FeedParams{}); err != nil {
		t.Fatalf("authenticated request: %v", err)
	}
	if f.listings.SearchCallCount != 2 {
		t.Errorf("expected authenticated request to hit the repository, Search called %d times", f.listings.SearchCallCount)
	}
}
