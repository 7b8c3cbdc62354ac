// Package server exposes a read-only JSON view of the session records.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/pomolit/internal/aggregator"
	"github.com/julianstephens/pomolit/internal/clock"
	"github.com/julianstephens/pomolit/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server is the reporting API server
type Server struct {
	agg    *aggregator.Aggregator
	clock  clock.Clock
	router *gin.Engine
}

// NewServer creates a new API server reading through agg
func NewServer(agg *aggregator.Aggregator, clk clock.Clock) *Server {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		agg:    agg,
		clock:  clk,
		router: router,
	}

	router.GET("/api/health", s.handleHealth)

	api := router.Group("/api")
	api.Use(s.refresh())
	{
		api.GET("/records", s.handleRecords)
		api.GET("/records/:date", s.handleRecord)
		api.GET("/stats", s.handleStats)
	}

	return s
}

// Handler returns the router for embedding or tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("API server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// refresh reloads records before each data request; another process may
// be writing to the same store.
func (s *Server) refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.agg.Refresh(); err != nil {
			logger.Error("Failed to load records", "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
