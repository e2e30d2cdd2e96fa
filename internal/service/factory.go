// Package service wires the application graph: configuration in, a ready
// engine or server out. All construction and dependency plumbing lives here
// so the commands stay thin.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
	"github.com/pjkea/social-media-scraper-api/internal/browser"
	"github.com/pjkea/social-media-scraper-api/internal/config"
	"github.com/pjkea/social-media-scraper-api/internal/platform"
	"github.com/pjkea/social-media-scraper-api/internal/scrape"
	"github.com/pjkea/social-media-scraper-api/internal/server"
	"github.com/pjkea/social-media-scraper-api/internal/sessions"
)

// NewEngine builds the scraping engine with the real Chrome-backed browser
// stack behind it.
func NewEngine(cfg *config.Config, logger *zap.Logger) (*scrape.Engine, error) {
	store, err := sessions.NewStore(cfg.Sessions.Dir, logger)
	if err != nil {
		return nil, err
	}

	manager := browser.NewManager(*cfg, logger)
	launch := func(ctx context.Context, profileDir string, persona schemas.Persona) (schemas.PageDriver, error) {
		return manager.Launch(ctx, profileDir, persona)
	}

	return scrape.NewEngine(cfg, platform.NewRegistry(), store, launch, logger), nil
}

// NewServer builds the HTTP API on top of a fully wired engine.
func NewServer(cfg *config.Config, logger *zap.Logger) (*server.Server, error) {
	engine, err := NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	return server.New(cfg.Server, engine, logger), nil
}
