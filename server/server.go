// Package server exposes document generation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"auto_presentation_generator/logger"
	"auto_presentation_generator/metrics"
	"auto_presentation_generator/publisher"
)

const (
	DefaultRequestTimeout = 5 * time.Minute
	shutdownTimeout       = 10 * time.Second
)

// Options tunes the HTTP front-end.
type Options struct {
	// RequestTimeout bounds one generation including image lookups.
	RequestTimeout time.Duration
}

// Server exposes a Publisher over HTTP.
type Server struct {
	pub      *publisher.Publisher
	log      logger.Logger
	metrics  *metrics.Metrics
	inflight *inflightStore
	timeout  time.Duration
}

// New creates a Server around pub. A nil log discards output and a nil m
// leaves /metrics unrouted.
func New(pub *publisher.Publisher, log logger.Logger, m *metrics.Metrics, opts Options) (*Server, error) {
	if pub == nil {
		return nil, errors.New("publisher required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	return &Server{
		pub:      pub,
		log:      log,
		metrics:  m,
		inflight: newInflightStore(),
		timeout:  opts.RequestTimeout,
	}, nil
}

// Routes builds the gin engine.
func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestIDMiddleware(), loggerMiddleware(s.log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/catalog", s.handleCatalog)
	api.POST("/outlines", s.handleOutline)
	api.POST("/decks", s.handleDeck)
	api.POST("/render", s.handleRender)
	api.POST("/preview", s.handlePreview)
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting web server", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
