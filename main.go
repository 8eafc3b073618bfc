package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/factlens-inc/factlens-engine/pkg/auth"
	"github.com/factlens-inc/factlens-engine/pkg/config"
	"github.com/factlens-inc/factlens-engine/pkg/database"
	"github.com/factlens-inc/factlens-engine/pkg/handlers"
	"github.com/factlens-inc/factlens-engine/pkg/logging"
	"github.com/factlens-inc/factlens-engine/pkg/middleware"
	"github.com/factlens-inc/factlens-engine/pkg/repositories"
	"github.com/factlens-inc/factlens-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", cfg.Database.Host),
		zap.String("redis", cfg.Redis.Host))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database.URL(), cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.String("error", logging.SanitizeError(err)))
	}

	redisClient, err := database.NewRedisClient(&database.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient == nil {
		logger.Info("Redis not configured, trending disabled")
	}

	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	defer jwksClient.Close()

	authService := auth.NewAuthService(jwksClient, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	claimRepo := repositories.NewClaimRepository(db)
	checkerRepo := repositories.NewFactCheckerRepository(db)
	verdictRepo := repositories.NewVerdictRepository(db)
	activityRepo := repositories.NewActivityRepository(db)

	trending := services.NewTrendingTracker(redisClient, logger)
	claimService := services.NewClaimService(claimRepo, trending, logger)
	checkerService := services.NewFactCheckerService(checkerRepo, claimRepo, verdictRepo, activityRepo, logger)
	verdictService := services.NewVerdictService(verdictRepo, checkerRepo, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewClaimsHandler(claimService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewFactCheckersHandler(checkerService, verdictService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewVerdictsHandler(verdictService, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting factlens-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
