package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pinmapa/pinmapa-backend/internal/auth"
	"github.com/pinmapa/pinmapa-backend/internal/config"
	"github.com/pinmapa/pinmapa-backend/internal/db"
	apperrors "github.com/pinmapa/pinmapa-backend/internal/errors"
	"github.com/pinmapa/pinmapa-backend/internal/middleware"
	"github.com/pinmapa/pinmapa-backend/internal/token"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server for the Pinmapa backend API.
type Server struct {
	cfg    *config.Config
	log    *logrus.Logger
	engine *gin.Engine
	db     *sql.DB // Database connection for health checks
}

// New creates a new Server instance with the given config and logger.
// The map frontend is served from arbitrary origins, so CORS stays open;
// X-Auth-Token must be allowed through alongside Authorization.
func New(cfg *config.Config, log *logrus.Logger, database *sql.DB) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization", "X-Auth-Token"},
	}))
	gin.SetMode(gin.ReleaseMode)

	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": apperrors.ErrMethodNotAllowed.Message})
	})
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrRouteNotFound.Message})
	})

	return &Server{
		cfg:    cfg,
		log:    log,
		engine: engine,
		db:     database,
	}
}

// SetupRoutes registers all API routes and middleware for the server.
// This function centralizes route registration for maintainability.
func (s *Server) SetupRoutes(authHandler *auth.AuthHandler, tokens *token.Manager) {
	api := s.engine.Group("/api")

	requireAuth := middleware.RequireAuth(tokens, s.log)

	// Auth routes carry their own per-route middleware; place, category and
	// upload handlers mount under the same group behind requireAuth.
	auth.RegisterAuthRoutes(authHandler, api, requireAuth)
}

// routes registers health check and other non-API routes.
func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		// Basic health check
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Pinmapa backend is healthy",
		})
	})

	// Detailed health check with database connection pool stats
	s.engine.GET("/healthz/detailed", func(c *gin.Context) {
		if err := s.db.Ping(); err != nil {
			c.JSON(503, gin.H{
				"status":  "error",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Pinmapa backend is healthy",
			"database": gin.H{
				"status": "connected",
				"pool":   db.GetConnectionStats(s.db),
			},
			"server_time": time.Now().UTC().Format(time.RFC3339),
		})
	})
}

// Start runs the HTTP server on the configured port.
func (s *Server) Start() error {
	s.routes()
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	s.log.Infof("starting server on %s", addr)
	return s.engine.Run(addr)
}
