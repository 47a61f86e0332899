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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-pricing/config"
	"hotel-pricing/controllers"
	"hotel-pricing/routes"
	"hotel-pricing/services"
	"hotel-pricing/utils"
)

func main() {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !envLoaded {
		logger.Warn(".env not found, continuing with environment variables")
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	logger.Info("database connection established")

	rateCache := buildRateCache(ctx, cfg, logger)

	rates := services.NewRateService(
		services.NewOpenERClient(cfg.FXBaseURL, cfg.FXTimeout),
		rateCache,
		cfg.FXCacheTTL,
		logger,
	)
	policy := services.NewPolicyService(db, cfg.VATFallbackPercentage, logger)
	inventory := services.NewInventoryService(db)
	selections := services.NewSelectionService(db, services.NewSelectionHub(), logger)
	quotes := services.NewQuoteService(selections, policy, rates, inventory, logger)

	router := routes.SetupRouter(routes.Controllers{
		Pricing:   controllers.NewPricingController(quotes, rates),
		Selection: controllers.NewSelectionController(selections, quotes, inventory),
		Property:  controllers.NewPropertyController(policy),
		Inventory: controllers.NewInventoryController(inventory),
	}, cfg.CORSOrigins, logger)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// No WriteTimeout: selection event streams stay open.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if closer, ok := rateCache.(*services.RedisRateCache); ok {
		closer.Close()
	}

	logger.Info("server stopped gracefully")
}

// buildRateCache uses Redis when REDIS_ADDR is set and reachable, and the
// in-process cache otherwise.
func buildRateCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) services.RateCache {
	if cfg.RedisAddr == "" {
		return services.NewMemoryRateCache()
	}

	cache := services.NewRedisRateCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.FXStaleWindow)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable, using in-memory rate cache",
			zap.String("addr", cfg.RedisAddr), zap.Error(err))
		cache.Close()
		return services.NewMemoryRateCache()
	}
	logger.Info("redis rate cache enabled", zap.String("addr", cfg.RedisAddr))
	return cache
}
