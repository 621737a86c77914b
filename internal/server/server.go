package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/handlog/backend/config"
	"github.com/pageza/handlog/backend/internal/api"
	"github.com/pageza/handlog/backend/internal/database"
	"github.com/pageza/handlog/backend/internal/middleware"
	"github.com/pageza/handlog/backend/internal/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	logger *zap.Logger
}

// New assembles the gin engine. redis and snapshots are optional: without
// redis writes are not rate limited, without snapshots the snapshot route is
// not mounted.
func New(cfg *config.Config, db *gorm.DB, logger *zap.Logger, redisClient *redis.Client, snapshots api.SnapshotStore) *Server {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.ErrorHandler(logger),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	s := &Server{
		router: router,
		db:     db,
		logger: logger,
	}

	deps := api.Dependencies{
		DB:        db,
		Logger:    logger,
		Snapshots: snapshots,
	}
	if redisClient != nil && cfg.RateLimitPerMinute > 0 {
		deps.WriteLimit = middleware.NewWriteRateLimiter(redisClient, cfg.RateLimitPerMinute, logger).Middleware()
	}

	apiGroup := router.Group("/api")
	apiGroup.GET("/health", s.health)
	api.RegisterRoutes(apiGroup, deps)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.NoRoute(middleware.NotFound)

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := database.HealthCheck(ctx, s.db); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, types.HealthResponse{Status: "unhealthy", Database: "unreachable"})
		return
	}
	c.JSON(http.StatusOK, types.HealthResponse{Status: "healthy", Database: "connected"})
}

// Start serves until the server is shut down. It returns nil after a
// graceful Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
