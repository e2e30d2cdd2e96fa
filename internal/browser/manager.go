// Package browser is the chromedp-backed implementation of the automation
// capability the engine consumes. A Manager launches one Chrome process per
// profile directory; the resulting Page satisfies schemas.PageDriver.
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
	"github.com/pjkea/social-media-scraper-api/internal/browser/stealth"
	"github.com/pjkea/social-media-scraper-api/internal/config"
	"github.com/pjkea/social-media-scraper-api/internal/humanoid"
)

// Manager launches profile-scoped browser instances. A weighted semaphore
// caps how many Chrome processes are alive at once across all requests.
type Manager struct {
	cfg    config.Config
	logger *zap.Logger
	sem    *semaphore.Weighted
}

// NewManager creates a browser manager.
func NewManager(cfg config.Config, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		logger: logger.Named("browser_manager"),
		sem:    semaphore.NewWeighted(cfg.Browser.Concurrency),
	}
}

// Launch starts a Chrome instance bound to profileDir and returns a Page
// with the stealth persona applied. The caller must Close the page on every
// exit path; Close releases the concurrency slot.
func (m *Manager) Launch(ctx context.Context, profileDir string, persona schemas.Persona) (*Page, error) {
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a browser slot: %w", err)
	}

	opts := append([]chromedp.ExecAllocatorOption{},
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.UserDataDir(profileDir),
		chromedp.UserAgent(persona.UserAgent),
		chromedp.WindowSize(int(persona.Width), int(persona.Height)),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
	)
	if m.cfg.Browser.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	}
	for _, arg := range m.cfg.Browser.Args {
		opts = append(opts, chromedp.Flag(arg, true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	cleanup := func() {
		browserCancel()
		allocCancel()
		m.sem.Release(1)
	}

	// First Run starts the process and connects the target.
	if err := chromedp.Run(browserCtx); err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to launch browser for profile %s: %w", profileDir, err)
	}

	pageLogger := m.logger.Named("page").With(zap.String("profile", profileDir))
	if err := chromedp.Run(browserCtx, stealth.Apply(persona, pageLogger)); err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to apply stealth persona: %w", err)
	}

	return &Page{
		ctx:      browserCtx,
		logger:   pageLogger,
		humanoid: humanoid.New(m.cfg.Humanoid, pageLogger),
		close:    cleanup,
	}, nil
}
