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

	"recipehub/database"
	"recipehub/internal/config"
	"recipehub/internal/logger"
	"recipehub/internal/media"
	"recipehub/internal/microservices/http-api/cache"
	"recipehub/internal/microservices/http-api/handler"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/microservices/http-api/service"
	"recipehub/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Setup structured logging
	appLog := logger.New(logger.Config{Format: cfg.LogFormat, Level: cfg.LogLevel})
	slog.SetDefault(appLog)
	appLog.Info("starting_api_server", "env", cfg.GoEnv, "port", cfg.HTTPPort, "driver", cfg.DatabaseDriver)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database
	db, err := database.ConnectDB(cfg, appLog)
	if err != nil {
		appLog.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Optional Redis cache for tags and ingredient search
	var catalogCache service.CatalogCache
	if cfg.UsesCache() {
		rc, err := cache.NewCatalogCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			appLog.Warn("catalog_cache_disabled", "error", err)
		} else {
			defer rc.Close()
			catalogCache = rc
		}
	}

	store := repository.NewStore(db)
	images := media.NewImageStore(cfg.MediaPath, cfg.ImageMaxWidth, cfg.UploadMaxSize)
	projector := service.NewProjector(store.Projections, store.Recipes)

	services := handler.Services{
		Auth:          service.NewAuthService(cfg),
		Recipes:       service.NewRecipeService(store, projector, images, appLog, cfg.PageSize),
		Favorites:     service.NewFavoriteService(store, projector, appLog),
		ShoppingCart:  service.NewShoppingCartService(store, projector, appLog),
		ShoppingList:  service.NewShoppingListService(store.ShoppingList),
		Users:         service.NewUserService(store.Users, projector, appLog, cfg.PageSize),
		Subscriptions: service.NewSubscriptionService(store, projector, appLog, cfg.PageSize),
		Catalog:       service.NewCatalogService(store.Tags, store.Products, catalogCache, appLog),
	}

	if err := handler.RegisterValidators(); err != nil {
		appLog.Error("validator_setup_failed", "error", err)
		os.Exit(1)
	}

	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	router := handler.NewRouter(services, handler.RouterConfig{
		Options: handler.Options{
			Log:      appLog,
			Timeout:  cfg.RequestTimeout,
			MediaURL: cfg.MediaURL,
			PageSize: cfg.PageSize,
		},
		CORSOrigins: cfg.CORSOrigins,
		Limiter:     limiter,
		MediaRoot:   cfg.MediaPath,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		appLog.Info("http_server_listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		appLog.Info("received_shutdown_signal")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			appLog.Error("shutdown_failed", "error", err)
		}
		appLog.Info("server_stopped_gracefully")
	case err := <-errChan:
		appLog.Error("server_error", "error", err.Error())
		os.Exit(1)
	}
}
