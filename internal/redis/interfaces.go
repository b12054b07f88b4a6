package redis

import (
	"context"

	"rideboard/internal/domain"
)

// FeedCache is the caching contract consumed by the feed assembler. It allows
// running without Redis (nil cache) and testing with in-memory fakes.
type FeedCache interface {
	GetFeedPage(ctx context.Context, key string) (*domain.Page[*domain.Listing], error)
	SetFeedPage(ctx context.Context, key string, page *domain.Page[*domain.Listing]) error
}

var _ FeedCache = (*CacheStore)(nil)
