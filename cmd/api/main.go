package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-profile-directory/config"
	_ "go-profile-directory/docs" // Important for Swagger
	"go-profile-directory/internal/delivery/http/middleware"
	v1 "go-profile-directory/internal/delivery/http/v1"
	"go-profile-directory/internal/domain"
	"go-profile-directory/internal/repository/postgres"
	"go-profile-directory/internal/repository/roster"
	"go-profile-directory/internal/usecase"
	"go-profile-directory/pkg/auth"
	"go-profile-directory/pkg/avatar"
	"go-profile-directory/pkg/database"
	"go-profile-directory/pkg/logger"
	"go-profile-directory/pkg/redis"
	"go-profile-directory/pkg/security"
	"go-profile-directory/pkg/storage"
	"go-profile-directory/pkg/supabase"
	"go-profile-directory/pkg/validation"
)

// @title           Profile Directory API
// @version         1.0
// @description     Participant profile directory with comments, touch points and admin management.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init()
	logger.Log.Info("Starting profile directory", "port", cfg.Port, "env", cfg.AppEnv)

	audit := security.NewAuditLogger("profile-directory", cfg.AppEnv)
	defer audit.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	checkers := []domain.HealthChecker{
		usecase.NewChecker("database", dbPool.Ping),
	}

	// 4. Optional Redis for rate limiting
	redisClient, err := redis.Connect(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		redisClient = nil
	case err != nil:
		logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		redisClient = nil
	default:
		defer redisClient.Close()
		checkers = append(checkers, usecase.NewChecker("redis", func(ctx context.Context) error {
			return redis.HealthCheck(ctx, redisClient)
		}))
	}

	// 5. Optional image storage
	var images domain.ImageStorage
	storageCfg := storage.Config{
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		Bucket:          cfg.StorageBucket,
		PublicBaseURL:   cfg.StoragePublicBaseURL(),
	}
	if storageCfg.Configured() {
		s3Client, err := storage.NewS3Client(ctx, storageCfg)
		if err != nil {
			logger.Log.Error("Failed to create storage client", "error", err)
			os.Exit(1)
		}
		bucket := storage.NewBucket(s3Client, storageCfg.Bucket, storageCfg.PublicBaseURL)
		images = bucket
		checkers = append(checkers, usecase.NewChecker("storage", bucket.Ping))
	} else {
		logger.Log.Warn("Storage credentials not configured - image uploads will be unavailable")
	}

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	commentRepo := postgres.NewCommentRepository(dbPool)
	touchPointRepo := postgres.NewTouchPointRepository(dbPool)
	mentorRepo, err := roster.LoadMentorRepository(cfg.MentorsFile)
	if err != nil {
		logger.Log.Error("Failed to load mentor roster", "error", err)
		os.Exit(1)
	}
	avatars, err := avatar.LoadResolver(cfg.AvatarsFile)
	if err != nil {
		logger.Log.Error("Failed to load avatar photos", "error", err)
		os.Exit(1)
	}

	// 7. Setup UseCases
	validate := validation.New()
	authClient := supabase.NewAuthClient(cfg.SupabaseUrl, cfg.SupabaseKey)
	authUC := usecase.NewAuthUsecase(userRepo, authClient, audit, usecase.AuthConfig{
		LookupTimeout:   cfg.LookupTimeout,
		DefaultRedirect: cfg.FrontendURL + "/auth/callback",
		AllowedOrigins:  cfg.AllowedOrigins,
	})
	mentorUC := usecase.NewMentorUsecase(mentorRepo)
	profileUC := usecase.NewProfileUsecase(profileRepo, commentRepo, touchPointRepo, images, avatars, validate, audit)
	commentUC := usecase.NewCommentUsecase(commentRepo, profileRepo, validate)
	touchPointUC := usecase.NewTouchPointUsecase(touchPointRepo, profileRepo, validate)
	healthUC := usecase.NewHealthUsecase(checkers...)

	// 8. Setup Auth Provider (JWKS)
	jwksProvider := auth.NewProvider(cfg.JWKSURL())

	// 9. Setup Router
	limiter := middleware.NewRateLimiter(redisClient, audit)
	go limiter.Cleanup(ctx, 5*time.Minute)

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       authUC,
		MentorUC:     mentorUC,
		ProfileUC:    profileUC,
		CommentUC:    commentUC,
		TouchPointUC: touchPointUC,
		HealthUC:     healthUC,
		JWKSProvider: jwksProvider,
		RateLimiter:  limiter,
		Audit:        audit,
		Config:       cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
