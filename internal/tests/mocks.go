package tests

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"rideboard/internal/domain"
	"rideboard/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository. The
// verification transitions reproduce the storage layer's commit-time state
// guards, so race scenarios behave the way they do against Postgres.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount    int32
	SubmitCallCount    int32
	ApproveCallCount   int32
	RejectCallCount    int32
	SetExpiryCallCount int32

	// Error injection
	CreateError error
	GetError    error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

// AddUser seeds a user.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.Verification.Status == "" {
		user.Verification.Status = domain.VerificationUnverified
	}
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrConflict
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) SetDisableAutoExpiry(ctx context.Context, userID string, disable bool) error {
	atomic.AddInt32(&m.SetExpiryCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.DisableAutoExpiry = disable
	return nil
}

func (m *MockUserRepository) SetVerificationPending(ctx context.Context, userID, frontURL, backURL string, submittedAt time.Time) error {
	atomic.AddInt32(&m.SubmitCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok || user.Verification.Status == domain.VerificationVerified {
		return repository.ErrStateMismatch
	}
	user.Verification.Status = domain.VerificationPending
	user.Verification.PendingFrontURL = frontURL
	user.Verification.PendingBackURL = backURL
	user.Verification.SubmittedAt = submittedAt
	user.Verification.RejectionReason = ""
	user.Verification.RejectedAt = time.Time{}
	return nil
}

func (m *MockUserRepository) ApproveVerification(ctx context.Context, userID, nicNumber string) error {
	atomic.AddInt32(&m.ApproveCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok || user.Verification.Status != domain.VerificationPending {
		return repository.ErrStateMismatch
	}
	user.Verification.Status = domain.VerificationVerified
	user.Verification.NICVerified = true
	user.Verification.NICNumber = nicNumber
	user.Verification.FrontImageURL = user.Verification.PendingFrontURL
	user.Verification.BackImageURL = user.Verification.PendingBackURL
	user.Verification.PendingFrontURL = ""
	user.Verification.PendingBackURL = ""
	return nil
}

func (m *MockUserRepository) RejectVerification(ctx context.Context, userID, reason string, rejectedAt time.Time) error {
	atomic.AddInt32(&m.RejectCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok || user.Verification.Status != domain.VerificationPending {
		return repository.ErrStateMismatch
	}
	user.Verification.Status = domain.VerificationRejected
	user.Verification.PendingFrontURL = ""
	user.Verification.PendingBackURL = ""
	user.Verification.RejectionReason = reason
	user.Verification.RejectedAt = rejectedAt
	return nil
}

func (m *MockUserRepository) ListPendingVerifications(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pending []*domain.User
	for _, u := range m.users {
		if u.Verification.Status == domain.VerificationPending {
			clone := *u
			pending = append(pending, &clone)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Verification.SubmittedAt.Before(pending[j].Verification.SubmittedAt)
	})
	if offset >= len(pending) {
		return nil, nil
	}
	pending = pending[offset:]
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// GetUser returns the live user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// ──────────────────────────────────────────────
// MOCK LISTING REPOSITORY
// ──────────────────────────────────────────────

// MockListingRepository is a mock implementation of ListingRepository. Search
// consults the user repository for each owner's auto-expiry override, the way
// the SQL implementation joins the users table.
type MockListingRepository struct {
	mu       sync.RWMutex
	listings map[string]*domain.Listing
	users    *MockUserRepository

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32
	SearchCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	SearchError error
}

// NewMockListingRepository creates a new mock listing repository backed by the
// given user repository for owner flags.
func NewMockListingRepository(users *MockUserRepository) *MockListingRepository {
	return &MockListingRepository{
		listings: make(map[string]*domain.Listing),
		users:    users,
	}
}

// AddListing seeds a listing.
func (m *MockListingRepository) AddListing(l *domain.Listing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[l.ID] = l
}

func (m *MockListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *l
	m.listings[l.ID] = &clone
	return nil
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *l
	return &clone, nil
}

func (m *MockListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[l.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *l
	m.listings[l.ID] = &clone
	return nil
}

func (m *MockListingRepository) FindActiveForUser(ctx context.Context, userID string, disableAutoExpiry bool, now time.Time) (*domain.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *domain.Listing
	for _, l := range m.listings {
		if l.UserID != userID || !domain.IsListingActive(l, disableAutoExpiry, now) {
			continue
		}
		if best == nil || newerThan(l, best) {
			best = l
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	clone := *best
	return &clone, nil
}

func (m *MockListingRepository) FindMostRecentExpired(ctx context.Context, userID string, disableAutoExpiry bool, now time.Time) (*domain.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *domain.Listing
	for _, l := range m.listings {
		if l.UserID != userID || !domain.IsListingExpiredOrArchived(l, disableAutoExpiry, now) {
			continue
		}
		if best == nil || newerThan(l, best) {
			best = l
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	clone := *best
	return &clone, nil
}

func (m *MockListingRepository) Search(ctx context.Context, filter repository.ListingFilter) ([]*domain.Listing, error) {
	atomic.AddInt32(&m.SearchCallCount, 1)
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.Listing
	for _, l := range m.listings {
		if !domain.IsListingActive(l, m.ownerDisablesExpiry(l.UserID), filter.Now) {
			continue
		}
		if !scopeMatches(l, filter) {
			continue
		}
		if filter.Type != "" && l.Type != filter.Type {
			continue
		}
		if filter.SearchText != "" && !textMatches(l, filter.SearchText) {
			continue
		}
		if filter.Cursor != nil && !cursorMatches(l, filter) {
			continue
		}
		clone := *l
		matched = append(matched, &clone)
	}

	oldest := filter.SortBy == repository.SortOldest
	sort.Slice(matched, func(i, j int) bool {
		if oldest {
			return newerThan(matched[j], matched[i])
		}
		return newerThan(matched[i], matched[j])
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (m *MockListingRepository) ownerDisablesExpiry(userID string) bool {
	if m.users == nil {
		return false
	}
	user := m.users.GetUser(userID)
	return user != nil && user.DisableAutoExpiry
}

// newerThan orders listings by creation time descending with ID as the
// deterministic tie-break, matching the SQL ORDER BY created_at DESC, id DESC.
func newerThan(a, b *domain.Listing) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func scopeMatches(l *domain.Listing, filter repository.ListingFilter) bool {
	switch filter.Scope {
	case repository.ScopePublic:
		return l.IsPublic()
	case repository.ScopeCommunity:
		return l.CommunityID == filter.CommunityID
	default: // ScopeAll
		if l.IsPublic() {
			return true
		}
		for _, id := range filter.MemberCommunityIDs {
			if l.CommunityID == id {
				return true
			}
		}
		return false
	}
}

func textMatches(l *domain.Listing, text string) bool {
	needle := strings.ToLower(text)
	return strings.Contains(strings.ToLower(l.StartLocation), needle) ||
		strings.Contains(strings.ToLower(l.EndLocation), needle) ||
		strings.Contains(strings.ToLower(l.Description), needle)
}

func cursorMatches(l *domain.Listing, filter repository.ListingFilter) bool {
	c := filter.Cursor
	if filter.SortBy == repository.SortOldest {
		return l.CreatedAt.After(c.CreatedAt) || (l.CreatedAt.Equal(c.CreatedAt) && l.ID > c.ID)
	}
	return l.CreatedAt.Before(c.CreatedAt) || (l.CreatedAt.Equal(c.CreatedAt) && l.ID < c.ID)
}

// ──────────────────────────────────────────────
// MOCK COMMUNITY REPOSITORY
// ──────────────────────────────────────────────

// MockCommunityRepository is a mock implementation of CommunityRepository.
type MockCommunityRepository struct {
	mu          sync.RWMutex
	communities map[string]*domain.Community
	memberships map[string]*domain.Membership // key: communityID|userID

	// Counters for verification
	CreateCallCount    int32
	AddMemberCallCount int32

	// Error injection
	CreateError    error
	AddMemberError error
}

// NewMockCommunityRepository creates a new mock community repository.
func NewMockCommunityRepository() *MockCommunityRepository {
	return &MockCommunityRepository{
		communities: make(map[string]*domain.Community),
		memberships: make(map[string]*domain.Membership),
	}
}

func membershipKey(communityID, userID string) string {
	return communityID + "|" + userID
}

func (m *MockCommunityRepository) Create(ctx context.Context, c *domain.Community) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *c
	m.communities[c.ID] = &clone
	return nil
}

func (m *MockCommunityRepository) GetByID(ctx context.Context, id string) (*domain.Community, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.communities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *MockCommunityRepository) GetAll(ctx context.Context) ([]*domain.Community, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Community, 0, len(m.communities))
	for _, c := range m.communities {
		clone := *c
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockCommunityRepository) AddMember(ctx context.Context, membership *domain.Membership) error {
	atomic.AddInt32(&m.AddMemberCallCount, 1)
	if m.AddMemberError != nil {
		return m.AddMemberError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := membershipKey(membership.CommunityID, membership.UserID)
	if _, ok := m.memberships[key]; ok {
		return repository.ErrConflict
	}
	clone := *membership
	m.memberships[key] = &clone
	return nil
}

func (m *MockCommunityRepository) FindMembership(ctx context.Context, communityID, userID string) (*domain.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	membership, ok := m.memberships[membershipKey(communityID, userID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *membership
	return &clone, nil
}

func (m *MockCommunityRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Community, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Community
	for _, membership := range m.memberships {
		if membership.UserID != userID {
			continue
		}
		if c, ok := m.communities[membership.CommunityID]; ok {
			clone := *c
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK REVIEW REPOSITORY
// ──────────────────────────────────────────────

// MockReviewRepository is a mock implementation of ReviewRepository.
type MockReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]*domain.Review // key: listingID|reviewerID

	// Error injection
	CreateError error
}

// NewMockReviewRepository creates a new mock review repository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{reviews: make(map[string]*domain.Review)}
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := review.ListingID + "|" + review.ReviewerID
	if _, ok := m.reviews[key]; ok {
		return repository.ErrConflict
	}
	clone := *review
	m.reviews[key] = &clone
	return nil
}

func (m *MockReviewRepository) ListForListing(ctx context.Context, listingID string) ([]*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Review
	for _, r := range m.reviews {
		if r.ListingID == listingID {
			clone := *r
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK FEED CACHE
// ──────────────────────────────────────────────

// MockFeedCache is an in-memory FeedCache.
type MockFeedCache struct {
	mu    sync.Mutex
	pages map[string]*domain.Page[*domain.Listing]

	// Counters for verification
	GetCallCount int32
	SetCallCount int32
}

// NewMockFeedCache creates a new mock feed cache.
func NewMockFeedCache() *MockFeedCache {
	return &MockFeedCache{pages: make(map[string]*domain.Page[*domain.Listing])}
}

func (m *MockFeedCache) GetFeedPage(ctx context.Context, key string) (*domain.Page[*domain.Listing], error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pages[key], nil
}

func (m *MockFeedCache) SetFeedPage(ctx context.Context, key string, page *domain.Page[*domain.Listing]) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[key] = page
	return nil
}
