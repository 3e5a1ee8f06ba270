package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"

	"github.com/triplog/triplog-backend/config"
	"github.com/triplog/triplog-backend/db"
	"github.com/triplog/triplog-backend/handlers"
	"github.com/triplog/triplog-backend/internal/draft"
	"github.com/triplog/triplog-backend/internal/store/postgres"
	"github.com/triplog/triplog-backend/logger"
	reviewservice "github.com/triplog/triplog-backend/models/review/service"
	tripservice "github.com/triplog/triplog-backend/models/trip/service"
	"github.com/triplog/triplog-backend/router"
	"github.com/triplog/triplog-backend/services"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisOptions := &redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.IsProduction() {
		redisOptions.TLSConfig = &tls.Config{
			ServerName: cfg.Redis.Address,
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(redisOptions)
	defer redisClient.Close()

	supabaseClient, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, &supabase.ClientOptions{})
	if err != nil {
		log.Fatalf("Failed to create Supabase client: %v", err)
	}

	// Stores
	tripStore := postgres.NewTripStore(pool)
	destinationStore := postgres.NewDestinationStore(pool)
	reviewStore := postgres.NewReviewStore(pool)
	userStore := postgres.NewUserStore(pool)
	notificationStore := postgres.NewNotificationStore(pool)

	// Draft state machine and image staging
	staging, err := draft.NewStaging(cfg.Storage.StagingDir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		log.Fatalf("Failed to initialize image staging: %v", err)
	}
	draftManager := draft.NewManager(staging)

	fileStorage, err := tripservice.NewS3FileStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Services
	rateLimitService := services.NewRateLimitService(redisClient)
	identityService := services.NewSupabaseIdentityService(supabaseClient, userStore)
	notificationService := services.NewNotificationService(notificationStore)
	submissionService := tripservice.NewSubmissionService(
		tripStore, destinationStore, reviewStore,
		identityService, fileStorage, staging, notificationService,
	)
	tripService := tripservice.NewTripService(tripStore, userStore, fileStorage)
	reviewService := reviewservice.NewReviewService(reviewStore)

	// Handlers
	deps := router.Dependencies{
		Config:              cfg,
		RateLimiter:         rateLimitService,
		AuthHandler:         handlers.NewAuthHandler(supabaseClient, cfg),
		DraftHandler:        handlers.NewDraftHandler(draftManager, submissionService),
		TripHandler:         handlers.NewTripHandler(tripService),
		ReviewHandler:       handlers.NewReviewHandler(reviewService),
		NotificationHandler: handlers.NewNotificationHandler(notificationStore),
		UserHandler:         handlers.NewUserHandler(userStore),
		HealthHandler:       handlers.NewHealthHandler(pool, redisClient, Version),
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.SetupRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
	log.Info("Server stopped")
}
