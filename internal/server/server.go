package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"industrial-catalog/internal/auth"
	"industrial-catalog/internal/config"
	"industrial-catalog/internal/database"
	custommiddleware "industrial-catalog/internal/middleware"
	"industrial-catalog/internal/repository"
	"industrial-catalog/internal/seed"
	"industrial-catalog/internal/service"
	"industrial-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Backend carries the storage the server runs on. DB is nil for the memory
// backend and Redis is nil when rate limiting is disabled.
type Backend struct {
	Store repository.CatalogStore
	Users repository.UserRepository
	DB    database.Service
	Redis *redis.Client
}

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	backend Backend
	users   service.UserService
}

func NewServer(cfg *config.Config, logger *zap.Logger, backend Backend) *Server {
	// Create router
	router := chi.NewRouter()
	router.Use(custommiddleware.DefaultMiddlewareStack(logger)...)
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	if backend.Redis != nil {
		router.Use(custommiddleware.RateLimitMiddleware(backend.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "rate_limit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", healthHandler(backend))

	// Initialize auth
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessExpiry)*time.Minute)
	hasher := auth.NewScryptHasher()

	// Initialize services
	catalogService := service.NewCatalogService(backend.Store)
	userService := service.NewUserService(backend.Users, hasher, tokens, logger)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	adminHandler := transport.NewAdminHandler(catalogService, logger)
	userHandler := transport.NewUserHandler(userService, logger)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(tokens, logger)
	adminAuth := custommiddleware.AdminAuthMiddleware(custommiddleware.BasicCredentials{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	}, tokens, logger)

	// Register routes
	catalogHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router, adminAuth)
	userHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:  cfg,
		logger:  logger,
		backend: backend,
		users:   userService,
	}

	return server
}

// Bootstrap loads the starter catalog when seeding is enabled and makes sure
// the configured administrator account exists.
func (s *Server) Bootstrap(ctx context.Context) error {
	if s.config.Store.Seed {
		if err := seed.Catalog(ctx, s.backend.Store, s.logger); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	if s.config.Admin.Username != "" {
		if err := s.users.EnsureAdmin(ctx, s.config.Admin.Username, s.config.Admin.Password); err != nil {
			return fmt.Errorf("failed to ensure admin user: %w", err)
		}
	}

	return nil
}

func healthHandler(backend Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{"status": "ok"}
		code := http.StatusOK

		if backend.DB != nil {
			dbHealth := backend.DB.Health(r.Context())
			status["database"] = dbHealth
			if dbHealth["status"] != "up" {
				status["status"] = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		if backend.Redis != nil {
			if err := backend.Redis.Ping(r.Context()).Err(); err != nil {
				status["redis"] = "down"
			} else {
				status["redis"] = "up"
			}
		}

		custommiddleware.RespondWithJSON(w, code, status)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.backend.DB != nil {
		if err := s.backend.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.backend.Redis != nil {
		if err := s.backend.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
