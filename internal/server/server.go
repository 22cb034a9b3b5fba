// Package server exposes the live catalog over HTTP as JSON.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swilhoit/sunbeam/internal/metrics"
	"github.com/swilhoit/sunbeam/internal/store"
)

// RequestIDHeader carries the per-request id.
const RequestIDHeader = "X-Request-ID"

const shutdownTimeout = 5 * time.Second

// Server serves whatever catalog the holder currently publishes.
type Server struct {
	holder  *store.Holder
	log     *zap.Logger
	metrics *metrics.Metrics
	engine  *gin.Engine
}

// New builds the router. m may be nil.
func New(holder *store.Holder, log *zap.Logger, m *metrics.Metrics) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{holder: holder, log: log, metrics: m}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(s.observe())
	s.routes(r)
	s.engine = r
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/products", s.listProducts)
	r.GET("/products/:handle", s.getProduct)
	r.GET("/products/:handle/related", s.relatedProducts)
	r.GET("/search", s.search)
	r.GET("/facets", s.facets)

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr), zap.Int("products", s.holder.Current().Len()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()
		s.metrics.ObserveHTTP(route, status, elapsed)

		s.log.Debug("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
		)
	}
}
