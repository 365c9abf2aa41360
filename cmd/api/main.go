package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"industrial-catalog/internal/config"
	"industrial-catalog/internal/database"
	"industrial-catalog/internal/logger"
	"industrial-catalog/internal/repository"
	"industrial-catalog/internal/server"
	"industrial-catalog/migrations"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close server resources
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// openBackend connects the storage selected by STORE_BACKEND
func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (server.Backend, error) {
	if cfg.Store.Backend == config.BackendMemory {
		log.Info("Using in-memory catalog store")
		return server.Backend{
			Store: repository.NewMemoryCatalogStore(),
			Users: repository.NewMemoryUserRepository(),
		}, nil
	}

	dbService, err := database.New(ctx, cfg.Database)
	if err != nil {
		return server.Backend{}, err
	}
	db := dbService.DB()

	log.Info("Database health check", zap.Any("health", dbService.Health(ctx)))

	if err := database.RunMigrations(db, migrations.FS, log); err != nil {
		dbService.Close()
		return server.Backend{}, err
	}

	version, err := database.MigrationVersion(db, migrations.FS)
	if err != nil {
		log.Warn("Could not read schema version", zap.Error(err))
	} else {
		log.Info("Database migrations completed successfully", zap.Int64("version", version))
	}

	return server.Backend{
		Store: repository.NewPostgresCatalogStore(db),
		Users: repository.NewUserRepository(db),
		DB:    dbService,
	}, nil
}

// openRedis returns nil when no Redis host is configured
func openRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	if !cfg.Enabled() {
		log.Info("Redis not configured, rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Rate limiting fails open, so an unreachable Redis only costs a warning
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis ping failed", zap.String("addr", cfg.Addr()), zap.Error(err))
	}

	return client
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	log.Info("Starting industrial catalog API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("backend", cfg.Store.Backend),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open storage backend", zap.Error(err))
	}
	backend.Redis = openRedis(ctx, cfg.Redis, log)

	// Create server
	srv := server.NewServer(cfg, log, backend)

	if err := srv.Bootstrap(ctx); err != nil {
		log.Fatal("Failed to bootstrap catalog", zap.Error(err))
	}

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")
}
