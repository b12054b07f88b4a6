package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"rideboard/internal/domain"
	"rideboard/internal/metrics"
	"rideboard/internal/redis"
	"rideboard/internal/repository"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// FeedService assembles the ranked, paginated feed a client receives. It
// resolves the caller's community memberships into a visibility set and
// delegates filtering and ordering to the listing repository.
type FeedService struct {
	listingRepo   repository.ListingRepository
	communityRepo repository.CommunityRepository
	cache         redis.FeedCache
	metrics       *metrics.Metrics
	now           func() time.Time
}

// NewFeedService creates a new FeedService. cache and m may be nil.
func NewFeedService(listingRepo repository.ListingRepository, communityRepo repository.CommunityRepository, cache redis.FeedCache, m *metrics.Metrics, now func() time.Time) *FeedService {
	if now == nil {
		now = time.Now
	}
	return &FeedService{
		listingRepo:   listingRepo,
		communityRepo: communityRepo,
		cache:         cache,
		metrics:       m,
		now:           now,
	}
}

// FeedParams are the client-supplied feed query parameters.
type FeedParams struct {
	Scope       repository.ListingScope // defaults to ScopeAll
	CommunityID string                  // required when Scope is ScopeCommunity
	Type        domain.ListingType      // empty = both
	SortBy      repository.SortOrder    // defaults to newest
	SearchText  string
	Limit       int
	Cursor      string // opaque token from a previous page
}

// AssembleFeed returns one page of the feed for the given caller. userID is
// empty for anonymous callers, who see only public listings; community scope
// requires membership.
func (s *FeedService) AssembleFeed(ctx context.Context, userID string, params FeedParams) (*domain.Page[*domain.Listing], error) {
	scope := params.Scope
	switch scope {
	case "":
		scope = repository.ScopeAll
	case repository.ScopePublic, repository.ScopeCommunity, repository.ScopeAll:
	default:
		return nil, ErrInvalidScope
	}
	switch params.Type {
	case "", domain.ListingTypeOffering, domain.ListingTypeSeeking:
	default:
		return nil, ErrInvalidListingType
	}
	switch params.SortBy {
	case "":
		params.SortBy = repository.SortNewest
	case repository.SortNewest, repository.SortOldest:
	default:
		return nil, ErrInvalidSortOrder
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	if s.metrics != nil {
		s.metrics.FeedRequests.WithLabelValues(string(scope)).Inc()
	}

	cursor, err := decodeCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	filter := repository.ListingFilter{
		Type:       params.Type,
		Scope:      scope,
		SortBy:     params.SortBy,
		SearchText: params.SearchText,
		Now:        s.now(),
		Limit:      limit + 1, // one extra row to detect a following page
		Cursor:     cursor,
	}

	switch scope {
	case repository.ScopeCommunity:
		if params.CommunityID == "" {
			return nil, ErrInvalidCommunityName
		}
		if userID == "" {
			return nil, ErrNotCommunityMember
		}
		if _, err := s.communityRepo.FindMembership(ctx, params.CommunityID, userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotCommunityMember
			}
			return nil, err
		}
		filter.CommunityID = params.CommunityID

	case repository.ScopeAll:
		// Anonymous callers see the public partition only; members see
		// public plus every community they belong to.
		if userID != "" {
			communities, err := s.communityRepo.ListForUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			for _, c := range communities {
				filter.MemberCommunityIDs = append(filter.MemberCommunityIDs, c.ID)
			}
		}
	}

	cacheKey := s.feedCacheKey(userID, scope, params, limit)
	if cacheKey != "" {
		page, err := s.cache.GetFeedPage(ctx, cacheKey)
		if err != nil {
			log.Printf("feed cache read failed: %v", err)
		} else if page != nil {
			if s.metrics != nil {
				s.metrics.FeedCacheHits.Inc()
			}
			return page, nil
		}
		if s.metrics != nil {
			s.metrics.FeedCacheMisses.Inc()
		}
	}

	listings, err := s.listingRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &domain.Page[*domain.Listing]{Items: listings}
	if len(listings) > limit {
		page.Items = listings[:limit]
		last := page.Items[limit-1]
		page.NextCursor = encodeCursor(last.CreatedAt, last.ID)
	}

	if cacheKey != "" {
		if err := s.cache.SetFeedPage(ctx, cacheKey, page); err != nil {
			log.Printf("feed cache write failed: %v", err)
		}
	}
	return page, nil
}

// feedCacheKey returns a cache key for the query, or "" when the page is not
// cacheable (authenticated caller, a cursor past the first page, or no cache
// configured).
func (s *FeedService) feedCacheKey(userID string, scope repository.ListingScope, params FeedParams, limit int) string {
	if s.cache == nil || userID != "" || params.Cursor != "" || scope == repository.ScopeCommunity {
		return ""
	}
	return fmt.Sprintf("public:%s:%s:%s:%s:%d", scope, params.Type, params.SortBy, params.SearchText, limit)
}

// Cursor tokens are base64("<RFC3339Nano created_at>|<id>"), opaque to clients.

func encodeCursor(createdAt time.Time, id string) string {
	raw := createdAt.Format(time.RFC3339Nano) + "|" + id
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(token string) (*repository.Cursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrBadCursor
	}
	createdAtStr, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil, ErrBadCursor
	}
	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, ErrBadCursor
	}
	return &repository.Cursor{CreatedAt: createdAt, ID: id}, nil
}
