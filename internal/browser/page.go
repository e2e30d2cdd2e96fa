package browser

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
	"github.com/pjkea/social-media-scraper-api/internal/humanoid"
)

// Page is a live browser tab bound to one profile directory. It implements
// schemas.PageDriver. All operations honor both the session lifetime and the
// caller's context.
type Page struct {
	ctx      context.Context
	logger   *zap.Logger
	humanoid *humanoid.Humanoid

	mu       sync.Mutex
	isClosed bool
	close    func()
}

var _ schemas.PageDriver = (*Page)(nil)

// combine derives a context from the browser session context that is also
// canceled when the caller's context is done. The chromedp target travels in
// the session context's values, so it must be the parent.
func (p *Page) combine(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(p.ctx)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// Navigate loads the URL and waits for the document body, bounded by timeout.
func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	p.logger.Debug("Navigating.", zap.String("url", url))

	runCtx, cancel := p.combine(ctx)
	defer cancel()
	navCtx, navCancel := context.WithTimeout(runCtx, timeout)
	defer navCancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		if navCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return &schemas.NavigationTimeoutError{URL: url, Timeout: timeout}
		}
		if ctx.Err() != nil {
			return fmt.Errorf("navigation canceled: %w", ctx.Err())
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// CurrentURL reports the page's current location.
func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	runCtx, cancel := p.combine(ctx)
	defer cancel()

	var loc string
	if err := chromedp.Run(runCtx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("failed to read page location: %w", err)
	}
	return loc, nil
}

// WaitVisible blocks until selector matches a visible element or timeout.
func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	runCtx, cancel := p.combine(ctx)
	defer cancel()
	waitCtx, waitCancel := context.WithTimeout(runCtx, timeout)
	defer waitCancel()

	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("selector %q not visible within %s: %w", selector, timeout, err)
	}
	return nil
}

// OuterHTMLAll returns the outer HTML of every element matching selector.
// Evaluation happens in page context so node handles never go stale between
// the query and the read.
func (p *Page) OuterHTMLAll(ctx context.Context, selector string) ([]string, error) {
	runCtx, cancel := p.combine(ctx)
	defer cancel()

	expr := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%s)).map(el => el.outerHTML)`,
		strconv.Quote(selector),
	)
	var fragments []string
	if err := chromedp.Run(runCtx, chromedp.Evaluate(expr, &fragments)); err != nil {
		return nil, fmt.Errorf("failed to collect elements for %q: %w", selector, err)
	}
	return fragments, nil
}

// Click performs a human-paced click on the first match of selector.
func (p *Page) Click(ctx context.Context, selector string) error {
	runCtx, cancel := p.combine(ctx)
	defer cancel()

	if err := chromedp.Run(runCtx, p.humanoid.Click(selector)); err != nil {
		return fmt.Errorf("click failed for %q: %w", selector, err)
	}
	return nil
}

// Type clears the field matching selector and enters text with human-paced
// keystrokes.
func (p *Page) Type(ctx context.Context, selector, text string) error {
	runCtx, cancel := p.combine(ctx)
	defer cancel()

	if err := chromedp.Run(runCtx, p.humanoid.Type(selector, text)); err != nil {
		return fmt.Errorf("type failed for %q: %w", selector, err)
	}
	return nil
}

// ScrollToBottom scrolls the window to the full document height.
func (p *Page) ScrollToBottom(ctx context.Context) error {
	return p.Evaluate(ctx, `window.scrollTo({top: document.body.scrollHeight, behavior: 'smooth'})`, nil)
}

// ScrollBy scrolls by a fraction of the viewport height.
func (p *Page) ScrollBy(ctx context.Context, fraction float64) error {
	expr := fmt.Sprintf(`window.scrollBy({top: window.innerHeight * %f, behavior: 'smooth'})`, fraction)
	return p.Evaluate(ctx, expr, nil)
}

// Evaluate runs a JavaScript expression in page context.
func (p *Page) Evaluate(ctx context.Context, expression string, out any) error {
	runCtx, cancel := p.combine(ctx)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Evaluate(expression, out)); err != nil {
		return fmt.Errorf("script evaluation failed: %w", err)
	}
	return nil
}

// Close tears down the tab, the browser process, and releases the manager's
// concurrency slot. Idempotent.
func (p *Page) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isClosed {
		return nil
	}
	p.isClosed = true

	p.logger.Debug("Closing browser page.")
	p.close()
	return nil
}
