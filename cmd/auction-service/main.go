package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"auction-marketplace/internal/api/handlers"
	apiMiddleware "auction-marketplace/internal/api/middleware"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/infrastructure/mysql"
	"auction-marketplace/internal/infrastructure/redis"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

func main() {
	log := logger.New()
	log.Info("Starting auction marketplace service")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Initialize MySQL
	db := utils.InitializeMysql(ctx, cfg, log)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}()
	log.Info("Connected to MySQL")

	if err := mysql.Migrate(ctx, db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize the session cache when Redis is configured. The service
	// works without it; session lookups just always hit MySQL.
	var sessionCache domain.SessionCache
	if cfg.Redis.Enabled {
		rdb := redisClient.NewClient(&redisClient.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		sessionCache = redis.NewRedisSessionCache(rdb)
		log.Info("Connected to Redis", "address", cfg.Redis.Address)
	}

	// Initialize repositories
	auctionRepo := mysql.NewMySQLAuctionRepository(db)
	bidRepo := mysql.NewMySQLBidRepository(db)
	draftRepo := mysql.NewMySQLDraftRepository(db)
	userRepo := mysql.NewMySQLUserRepository(db)
	sessionRepo := mysql.NewMySQLSessionRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, sessionRepo, sessionCache,
		cfg.Session.TTL, cfg.Session.CacheTTL, log)
	biddingService := services.NewBiddingService(auctionRepo, log)
	lifecycleService := services.NewLifecycleService(auctionRepo, draftRepo, log)
	listingService := services.NewListingService(auctionRepo, bidRepo, draftRepo, log)

	if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Error("Failed to bootstrap admin account", "error", err)
		os.Exit(1)
	}

	// Start the expiry sweeper
	sweeper := services.NewCronSweeper(lifecycleService, authService, log)
	if err := sweeper.Start(cfg.Sweep.Spec); err != nil {
		log.Error("Failed to start sweeper", "error", err)
		os.Exit(1)
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(apiMiddleware.ResolveSession(authService))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	auctionHandler := handlers.NewAuctionHandler(biddingService, lifecycleService, listingService, log)
	draftHandler := handlers.NewDraftHandler(listingService, lifecycleService, log)

	// API routes
	api := e.Group("/api/v1")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.Me, apiMiddleware.RequireUser())

	api.GET("/auctions", auctionHandler.List)
	api.GET("/auctions/:id", auctionHandler.Get)
	api.GET("/auctions/:id/bids", auctionHandler.GetBids)
	api.POST("/auctions/:id/bids", auctionHandler.PlaceBid, apiMiddleware.RequireUser())
	api.POST("/auctions/:id/status", auctionHandler.TransitionStatus, apiMiddleware.RequireUser())

	drafts := api.Group("/drafts", apiMiddleware.RequireUser())
	drafts.POST("", draftHandler.Create)
	drafts.GET("/:id", draftHandler.Get)
	drafts.DELETE("/:id", draftHandler.Delete)
	drafts.POST("/:id/promote", draftHandler.Promote)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "auction-marketplace",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	serverAddr := cfg.Addr()
	log.Info("Starting HTTP server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down auction marketplace service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	sweeper.Stop()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Auction marketplace service stopped")
}
