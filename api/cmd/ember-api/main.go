package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ember/api/internal/api/handlers"
	"ember/api/internal/api/middleware"
	"ember/api/internal/api/router"
	"ember/api/internal/config"
	"ember/api/internal/core/domain"
	"ember/api/internal/core/services"
	"ember/api/internal/db/memory"
	redisstore "ember/api/internal/db/redis"
)

func main() {
	// --- 1. Telemetry & Configuration ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, reading process environment")
	}
	cfg := config.Load()

	// --- 2. Backing Store ---
	var store domain.SecretStore
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("Using in-memory store: secrets will not survive a restart")
		store = memory.NewSecretRepo()
	default:
		connectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisRepo, err := redisstore.Connect(connectCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Error("FATAL: Redis failed", "error", err)
			os.Exit(1)
		}
		store = redisRepo
	}
	defer store.Close()

	// --- 3. Dependency Injection ---
	storeService := services.NewStoreService(store, cfg)
	viewService := services.NewViewService(store)

	secretHandler := handlers.NewSecretHandler(storeService, viewService)
	healthHandler := handlers.NewHealthHandler(store)
	authMiddleware := middleware.NewAuthMiddleware(cfg.APIKey, logger)

	// --- 4. HTTP Gateway ---
	mux := router.NewRouter(router.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		SecretHandler:  secretHandler,
		HealthHandler:  healthHandler,
		AuthMiddleware: authMiddleware,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// --- 5. Graceful Exit ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Ember one-time secret API active", "port", cfg.Port, "driver", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("CRITICAL: Server crashed", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ERROR: Forced shutdown", "error", err)
	}
	logger.Info("Ember shutdown complete")
}
