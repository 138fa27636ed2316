// Package api exposes the reconciliation engine over HTTP.
//
// The engine itself has no network surface; this package owns parsing the
// uploaded exports, invoking the engine, persisting the run, and shaping
// responses.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/openledger/bankrecon/internal/domain/engine"
	"github.com/openledger/bankrecon/internal/infrastructure/storage"
)

// maxUploadSize caps a single reconcile request body.
const maxUploadSize = 10 << 20 // 10 MB

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config Config
	engine *engine.Engine
	repo   storage.Repository
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates a new API server.
// If repo is nil, runs are not persisted and the history endpoints return
// empty results.
func NewServer(cfg Config, eng *engine.Engine, repo storage.Repository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = maxUploadSize

	s := &Server{
		config: cfg,
		engine: eng,
		repo:   repo,
		logger: logger,
		router: router,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	s.router.Use(s.requestLogger())
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	s.router.GET("/health", s.handleHealth)

	apiGroup := s.router.Group("/api")
	{
		apiGroup.POST("/reconcile", s.handleReconcile)
		apiGroup.GET("/runs", s.handleListRuns)
		apiGroup.GET("/runs/:id", s.handleGetRun)
		apiGroup.GET("/stats", s.handleStats)
	}
}

// requestLogger logs each request with method, path, status, and duration.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Router exposes the underlying handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.logger.Info("api server starting", "addr", addr)
	return s.router.Run(addr)
}
