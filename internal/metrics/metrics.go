package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the board's core paths: feed assembly,
// listing creation, and the verification workflow.
type Metrics struct {
	FeedRequests            *prometheus.CounterVec
	ListingsCreated         *prometheus.CounterVec
	VerificationTransitions *prometheus.CounterVec
	FeedCacheHits           prometheus.Counter
	FeedCacheMisses         prometheus.Counter
}

// New creates a Metrics instance with all collectors registered on the
// default registry.
func New() *Metrics {
	return &Metrics{
		FeedRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rideboard_feed_requests_total",
			Help: "Feed requests by visibility scope",
		}, []string{"scope"}),
		ListingsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rideboard_listings_created_total",
			Help: "Listings created by type",
		}, []string{"type"}),
		VerificationTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rideboard_verification_transitions_total",
			Help: "Verification workflow transitions by edge",
		}, []string{"transition"}),
		FeedCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rideboard_feed_cache_hits_total",
			Help: "Public feed pages served from cache",
		}),
		FeedCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rideboard_feed_cache_misses_total",
			Help: "Public feed pages assembled from storage",
		}),
	}
}
