package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"rideboard/internal/handler"
	"rideboard/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler         *handler.UserHandler
	ListingHandler      *handler.ListingHandler
	FeedHandler         *handler.FeedHandler
	CommunityHandler    *handler.CommunityHandler
	VerificationHandler *handler.VerificationHandler
	ReviewHandler       *handler.ReviewHandler
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
	JWTSecret           []byte
}

// NewRouter creates a new Gin router with all routes registered.
//
// Route groups fall into three tiers: the feed and read endpoints take an
// optional identity (anonymous callers see the public partition only),
// everything that writes requires authentication, and the verification review
// queue additionally requires the admin claim.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	optionalAuth := middleware.AuthMiddleware(deps.JWTSecret, false)
	requireAuth := middleware.AuthMiddleware(deps.JWTSecret, true)

	// Replay protection runs after auth so keys are scoped per caller.
	idem := middleware.IdempotencyMiddleware(deps.RedisClient)

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// The feed: anonymous callers get the public partition.
		v1.GET("/feed", optionalAuth, deps.FeedHandler.Get)

		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", idem, deps.UserHandler.Register)
			users.GET("/me", requireAuth, deps.UserHandler.Me)
			users.PATCH("/me/settings", requireAuth, idem, deps.UserHandler.UpdateSettings)
		}

		// Listing routes.
		listings := v1.Group("/listings")
		{
			listings.POST("", requireAuth, idem, deps.ListingHandler.Create)
			listings.GET("/current", requireAuth, deps.ListingHandler.Current)
			listings.GET("/last-expired", requireAuth, deps.ListingHandler.LastExpired)
			listings.GET("/:id", deps.ListingHandler.Get)
			listings.PUT("/:id", requireAuth, idem, deps.ListingHandler.Edit)
			listings.POST("/:id/archive", requireAuth, idem, deps.ListingHandler.Archive)
			listings.POST("/:id/reviews", requireAuth, idem, deps.ReviewHandler.Create)
			listings.GET("/:id/reviews", deps.ReviewHandler.ListForListing)
		}

		// Community routes.
		communities := v1.Group("/communities")
		{
			communities.POST("", requireAuth, idem, deps.CommunityHandler.Create)
			communities.GET("", deps.CommunityHandler.GetAll)
			communities.GET("/mine", requireAuth, deps.CommunityHandler.Mine)
			communities.GET("/:id", deps.CommunityHandler.Get)
			communities.POST("/:id/join", requireAuth, idem, deps.CommunityHandler.Join)
		}

		// Verification routes.
		verification := v1.Group("/verification", requireAuth)
		{
			verification.POST("", idem, deps.VerificationHandler.Submit)
			verification.GET("", deps.VerificationHandler.Status)
		}

		// Admin review queue.
		admin := v1.Group("/admin", requireAuth, middleware.AdminOnly())
		{
			admin.GET("/verification/pending", deps.VerificationHandler.ListPending)
			admin.POST("/verification/:userId/approve", idem, deps.VerificationHandler.Approve)
			admin.POST("/verification/:userId/reject", idem, deps.VerificationHandler.Reject)
		}
	}

	return router
}
