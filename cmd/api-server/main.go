package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"tapea/database"
	"tapea/internal/config"
	"tapea/internal/microservices/http-api/handler"
	"tapea/internal/microservices/http-api/middleware"
	"tapea/internal/microservices/http-api/repository"
	"tapea/internal/microservices/http-api/service"
	"tapea/internal/microservices/websocket"
	"tapea/internal/pending"
	"tapea/internal/ranking"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	rdb, err := newRedis(cfg)
	if err != nil {
		logger.Error("redis_config_invalid", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// background workers (live ranking hub) stop with this context
	appCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	router := setupRouter(appCtx, cfg, db, rdb, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", "addr", addr, "env", cfg.GoEnv, "oauth_enabled", cfg.OAuthEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
		stopWorkers()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server_shutdown_failed", "error", err)
		}
		logger.Info("server_stopped_gracefully")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" || cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func newRedis(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	return redis.NewClient(opts), nil
}

func setupRouter(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, logger *slog.Logger) *gin.Engine {
	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	tapaRepo := repository.NewTapaRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Services
	var states service.StateStore
	provider := service.NewGoogleProvider(cfg)
	if provider != nil {
		states = service.NewRedisStateStore(rdb, service.DefaultStateTTL)
	} else {
		logger.Warn("google_oauth_disabled", "reason", "GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET not set")
	}
	authService := service.NewAuthService(userRepo, refreshTokenRepo, provider, states, cfg, logger)

	pendingCaches := func(deviceID string) pending.Cache {
		return pending.NewRedisCache(rdb, deviceID, pending.DefaultTTL)
	}
	rankingService := service.NewRankingService(venueRepo, voteRepo)
	rankingHub := websocket.NewHub(rankingService, ranking.DefaultLimit, logger)
	go rankingHub.Run(ctx)

	pendingService := service.NewPendingService(pendingCaches, voteRepo, venueRepo, cfg.VoteRadiusMeters, cfg.StoreTimeout, logger, rankingHub)
	voteService := service.NewVoteService(voteRepo, tapaRepo, cfg.VoteRadiusMeters, cfg.StoreTimeout, logger, rankingHub)
	venueService := service.NewVenueService(venueRepo, cfg.PublicBaseURL)
	eventService := service.NewEventService(eventRepo)
	raffleService := service.NewRaffleService(voteRepo, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, pendingService)
	voteHandler := handler.NewVoteHandler(voteService)
	venueHandler := handler.NewVenueHandler(venueService, pendingService, authService)
	eventHandler := handler.NewEventHandler(eventService)
	rankingHandler := handler.NewRankingHandler(rankingService, raffleService)

	voteLimiter := middleware.NewRateLimiter(cfg.VoteRateLimit, cfg.VoteRateBurst)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/check-conn", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"database": "ok", "redis": "ok"}
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["database"], code = "unreachable", http.StatusServiceUnavailable
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			status["redis"], code = "unreachable", http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})

	// Live ranking
	r.GET("/ws/ranking", websocket.RankingFeedHandler(rankingHub, websocket.NewUpgrader(cfg.CORSOrigins)))

	// Sign-in
	authHandler.RegisterRoutes(r.Group("/auth"))

	// QR entry for anonymous visitors
	votar := r.Group("/votar")
	{
		votar.GET("/:venueId", venueHandler.VoteEntry)
		votar.POST("/:venueId/pending", voteLimiter.Middleware(), venueHandler.StagePending)
	}

	api := r.Group("/api")
	{
		eventHandler.RegisterRoutes(api)
		venueHandler.RegisterRoutes(api)
		api.GET("/ranking", rankingHandler.Ranking)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(authService))
		{
			protected.POST("/votes", voteLimiter.Middleware(), voteHandler.Cast)
			protected.GET("/me/votes", voteHandler.MyVotes)
			protected.GET("/me/passport", voteHandler.Passport)
			protected.GET("/me/role", authHandler.Role)

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			admin.GET("/raffle", rankingHandler.RaffleParticipants)
		}
	}

	return r
}
