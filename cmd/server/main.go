package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"rideboard/internal/app"
	"rideboard/internal/config"
	"rideboard/internal/handler"
	"rideboard/internal/metrics"
	internalRedis "rideboard/internal/redis"
	"rideboard/internal/repository/postgres"
	"rideboard/internal/service"
	"rideboard/internal/storage"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// NIC images go to Cloudinary when configured.
	var uploader storage.Uploader
	if cfg.Storage.CloudinaryURL != "" {
		uploader, err = storage.NewCloudinaryUploader(cfg.Storage.CloudinaryURL)
		if err != nil {
			log.Fatalf("failed to initialize cloudinary: %v", err)
		}
	} else {
		log.Println("CLOUDINARY_URL not set; verification submissions will fail")
		uploader = storage.UnconfiguredUploader{}
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, uploader, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, uploader storage.Uploader, cfg *config.Config) *http.Server {
	// Redis-backed feed cache.
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Prometheus collectors.
	m := metrics.New()

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	listingRepo := postgres.NewListingRepository(db)
	communityRepo := postgres.NewCommunityRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	// Initialize services. The clock is explicit so expiry classification is
	// deterministic under test.
	loc := cfg.Location()
	listingService := service.NewListingService(listingRepo, userRepo, communityRepo, m, loc, time.Now)
	feedService := service.NewFeedService(listingRepo, communityRepo, cacheStore, m, time.Now)
	verificationService := service.NewVerificationService(userRepo, m, time.Now)
	communityService := service.NewCommunityService(communityRepo, time.Now)
	reviewService := service.NewReviewService(reviewRepo, listingRepo, time.Now)

	// Initialize handlers.
	userHandler := handler.NewUserHandler(userRepo)
	listingHandler := handler.NewListingHandler(listingService)
	feedHandler := handler.NewFeedHandler(feedService)
	communityHandler := handler.NewCommunityHandler(communityService)
	verificationHandler := handler.NewVerificationHandler(verificationService, uploader)
	reviewHandler := handler.NewReviewHandler(reviewService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:         userHandler,
		ListingHandler:      listingHandler,
		FeedHandler:         feedHandler,
		CommunityHandler:    communityHandler,
		VerificationHandler: verificationHandler,
		ReviewHandler:       reviewHandler,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
		JWTSecret:           []byte(cfg.Auth.JWTSecret),
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
