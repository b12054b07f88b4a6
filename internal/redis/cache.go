package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"rideboard/internal/domain"
)

// CacheStore caches assembled feed pages in Redis. Only the anonymous public
// feed is cached: it is the hottest query and the only one whose result does
// not depend on the caller. Invalidation is TTL-only; a freshly posted listing
// may lag the public feed by up to FeedCacheTTL.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// FeedCacheTTL bounds staleness of cached public feed pages.
const FeedCacheTTL = 10 * time.Second

const feedCachePrefix = "cache:feed:"

// GetFeedPage retrieves a cached feed page. A nil page with nil error is a
// cache miss.
func (s *CacheStore) GetFeedPage(ctx context.Context, key string) (*domain.Page[*domain.Listing], error) {
	data, err := s.client.Get(ctx, feedCachePrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var page domain.Page[*domain.Listing]
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetFeedPage stores a feed page under the given key.
func (s *CacheStore) SetFeedPage(ctx context.Context, key string, page *domain.Page[*domain.Listing]) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, feedCachePrefix+key, data, FeedCacheTTL).Err()
}
