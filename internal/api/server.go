package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexanderkoo04/language/internal/auth"
	"github.com/alexanderkoo04/language/internal/config"
)

const (
	readTimeoutSeconds = 10
	// A pipeline run can spend a full minute rendering plus the translation
	// call, so the write timeout must sit comfortably above both.
	writeTimeoutSeconds = 180
	idleTimeoutSeconds  = 120
)

// Server is the HTTP server hosting the translation API.
type Server struct {
	server *http.Server
	log    *zap.Logger
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(handlers *Handlers, verifier auth.Verifier, debug bool, log *zap.Logger) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/translate", auth.OptionalAuth(verifier), handlers.Translate)
	router.GET("/render/:id", handlers.Render)
	router.GET("/dashboard", auth.RequireAuth(verifier), handlers.Dashboard)

	return router
}

// NewServer wraps the router in an http.Server with sane timeouts.
func NewServer(cfg *config.Config, router *gin.Engine, log *zap.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Port),
			Handler:      router,
			ReadTimeout:  readTimeoutSeconds * time.Second,
			WriteTimeout: writeTimeoutSeconds * time.Second,
			IdleTimeout:  idleTimeoutSeconds * time.Second,
		},
		log: log,
	}
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.log.Info("starting translation service", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// requestLogger logs each request with method, path, status and duration.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
