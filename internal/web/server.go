// Package web exposes the reconciliation engine over HTTP: upload the two
// source files (or point the server at remote sources) and get the report
// back as JSON or as the styled workbook.
package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"platecheck/internal/config"
	"platecheck/internal/fetch"
)

// Server bundles router and dependencies for the report API.
type Server struct {
	cfg     config.Config
	fetcher *fetch.Client
	engine  *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, fetcher *fetch.Client) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	server := &Server{cfg: cfg, fetcher: fetcher, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	if s.cfg.AuthToken != "" {
		api.Use(bearerAuthMiddleware(s.cfg.AuthToken))
	}
	api.GET("/report", s.handleReportJSON)
	api.POST("/report", s.handleReportJSON)
	api.GET("/report.xlsx", s.handleReportXLSX)
	api.POST("/report.xlsx", s.handleReportXLSX)
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
