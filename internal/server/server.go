// Package server exposes the scraping engine over HTTP: a small chi-routed
// JSON API plus the middleware stack (request IDs, structured access logs,
// rate limiting) it runs behind.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
	"github.com/pjkea/social-media-scraper-api/internal/config"
)

// Engine is the subset of the scraping engine the HTTP layer depends on.
type Engine interface {
	ScrapeWithCredentials(ctx context.Context, req schemas.ScrapeRequest) (*schemas.ScrapeResult, error)
	TestCredentials(ctx context.Context, req schemas.CredentialRequest) (*schemas.CredentialCheck, error)
	ListSessions() ([]schemas.SessionRecord, error)
	DeleteSession(id string) error
	PruneSessions(age time.Duration) (schemas.PruneReport, error)
}

// Server wraps the engine in an http.Server with graceful shutdown.
type Server struct {
	cfg    config.ServerConfig
	logger *zap.Logger
	http   *http.Server
}

// New builds the server with its full middleware and routing stack.
func New(cfg config.ServerConfig, engine Engine, logger *zap.Logger) *Server {
	logger = logger.Named("server")
	return &Server{
		cfg:    cfg,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(cfg, engine, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until the context is canceled, then drains in-flight requests
// within the configured shutdown budget.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening.", zap.String("addr", s.cfg.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP API.", zap.Duration("timeout", s.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
