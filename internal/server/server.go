// Package server
//
// @title Foliogate API
// @version 1.0
// @description Auth gateway for the portfolio/blog front end
// @host localhost:3000
// @BasePath /
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/foliogate-dev/foliogate/internal/backend"
	"github.com/foliogate-dev/foliogate/internal/config"
	"github.com/foliogate-dev/foliogate/internal/models"
	"github.com/foliogate-dev/foliogate/internal/session"
)

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    zerolog.Logger
	validator *validator.Validate
	backend   *backend.Client
	version   string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	// Initialize session signing
	session.Initialize(cfg.Session.Secret)

	// Initialize validator with the payload schema validations
	validate := validator.New()
	if err := models.RegisterValidations(validate); err != nil {
		return nil, err
	}

	// Create server
	server := &Server{
		config:    cfg,
		logger:    zlog,
		validator: validate,
		backend:   backend.New(cfg.Backend.URL),
		version:   version,
	}

	// Setup router
	server.setupRouter()

	return server, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware for the public front-end origin
	if s.config.Server.PublicURL != "" {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     []string{s.config.Server.PublicURL},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// Auth endpoints
	s.router.POST("/api/auth/login", s.login)
	s.router.POST("/api/auth/logout", s.logout)
	s.router.GET("/api/auth/session", s.getSession)
	s.router.POST("/api/auth/sync-cookie", s.syncCookie)

	// Registration proxy
	s.router.POST("/api/proxy/register", s.register)

	// Blog proxy routes; the backend enforces authorization, the gateway
	// only attaches credentials
	s.router.GET("/api/blogs", s.listBlogs)
	s.router.POST("/api/blogs", s.createBlog)
	s.router.GET("/api/blogs/:id", s.getBlog)
	s.router.PATCH("/api/blogs/:id", s.updateBlog)
	s.router.DELETE("/api/blogs/:id", s.deleteBlog)
	// POST alias: some UI contexts cannot issue a native DELETE
	s.router.POST("/api/blogs/:id/delete", s.deleteBlog)

	// Admin dashboard (guarded)
	dashboard := s.router.Group("/dashboard")
	dashboard.Use(AdminGuardMiddleware(s.logger))
	dashboard.GET("/*page", s.dashboardPage)
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("HTTP request")
	}
}

// @Router /health [get]
// @Success 200 {object} map[string]interface{}
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "foliogate",
		"version":   s.version,
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create HTTP server with production timeouts
	srv := &http.Server{
		Addr:              s.config.Server.ListenAddr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		s.logger.Info().Str("addr", s.config.Server.ListenAddr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
