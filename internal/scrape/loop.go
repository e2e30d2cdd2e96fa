package scrape

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
	"github.com/pjkea/social-media-scraper-api/internal/platform"
)

const containerFallbackWait = 3 * time.Second

// Collector runs the bounded acquisition loop for one authenticated page:
// harvest containers, extract, dedup by fingerprint, scroll, repeat until a
// stopping condition fires.
type Collector struct {
	cfg       *platform.Config
	page      schemas.PageDriver
	extractor *Extractor
	logger    *zap.Logger
	rng       *rand.Rand
	now       func() time.Time
}

// NewCollector builds a collector for one scrape request.
func NewCollector(cfg *platform.Config, page schemas.PageDriver, logger *zap.Logger) *Collector {
	return &Collector{
		cfg:       cfg,
		page:      page,
		extractor: NewExtractor(cfg, logger),
		logger:    logger.Named("collect").With(zap.String("platform", cfg.Name)),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// Collect navigates to profileURL and gathers posts dated at or after cutoff.
// The loop stops on the iteration ceiling, the post limit, or an iteration
// whose only new posts are all older than the cutoff. A profile with no
// recognizable containers yields an empty slice, not an error; a sparse or
// empty page is a legitimate outcome.
func (c *Collector) Collect(ctx context.Context, profileURL string, cutoff time.Time) ([]schemas.Post, error) {
	if err := c.page.Navigate(ctx, profileURL, c.cfg.Timing.NavigationTimeout); err != nil {
		return nil, err
	}

	if !c.awaitContainers(ctx) {
		c.logger.Warn("No post containers appeared, returning empty result.",
			zap.String("url", profileURL))
		return []schemas.Post{}, nil
	}

	seen := make(map[string]struct{})
	var posts []schemas.Post
	sawOlder := false

	for iteration := 0; iteration < c.cfg.Timing.MaxScrolls; iteration++ {
		if ctx.Err() != nil {
			return posts, ctx.Err()
		}

		fragments := c.harvest(ctx)
		newCount, newOlder := c.absorb(fragments, cutoff, seen, &posts)
		if newOlder > 0 {
			sawOlder = true
		}

		c.logger.Debug("Acquisition iteration complete.",
			zap.Int("iteration", iteration),
			zap.Int("fragments", len(fragments)),
			zap.Int("new", newCount),
			zap.Int("total", len(posts)))

		if len(posts) >= c.cfg.Timing.PostLimit {
			posts = posts[:c.cfg.Timing.PostLimit]
			c.logger.Debug("Post limit reached, stopping.")
			break
		}
		// All genuinely new material this round predates the window, so
		// scrolling further only digs deeper into the past.
		if newCount > 0 && newCount == newOlder {
			c.logger.Debug("Reached content older than cutoff, stopping.")
			break
		}
		// The feed stopped yielding and we already crossed the cutoff
		// boundary once; there is nothing newer left to find.
		if newCount == 0 && sawOlder {
			c.logger.Debug("Feed exhausted past the cutoff, stopping.")
			break
		}

		if err := c.scroll(ctx); err != nil {
			c.logger.Debug("Scroll failed, stopping acquisition.", zap.Error(err))
			break
		}
		if err := c.pause(ctx); err != nil {
			return posts, err
		}
	}

	return FilterByCutoff(posts, cutoff), nil
}

// awaitContainers waits for the first container selector to render. The
// primary selector gets the full navigation budget; fallbacks get a short
// probe each since the page has already had time to settle.
func (c *Collector) awaitContainers(ctx context.Context) bool {
	for i, selector := range c.cfg.Selectors.PostContainer {
		wait := containerFallbackWait
		if i == 0 {
			wait = c.cfg.Timing.NavigationTimeout
		}
		if c.page.WaitVisible(ctx, selector, wait) == nil {
			return true
		}
	}
	return false
}

// harvest returns the outer HTML of every visible post container, using the
// first selector in the chain that matches anything.
func (c *Collector) harvest(ctx context.Context) []string {
	for _, selector := range c.cfg.Selectors.PostContainer {
		fragments, err := c.page.OuterHTMLAll(ctx, selector)
		if err != nil {
			c.logger.Debug("Container harvest failed.",
				zap.String("selector", selector), zap.Error(err))
			continue
		}
		if len(fragments) > 0 {
			return fragments
		}
	}
	return nil
}

// absorb extracts each fragment, drops duplicates by fingerprint, and appends
// in-window posts. It reports how many fragments were new this round and how
// many of those predated the cutoff.
func (c *Collector) absorb(fragments []string, cutoff time.Time, seen map[string]struct{}, posts *[]schemas.Post) (newCount, newOlder int) {
	now := c.now()
	for _, fragment := range fragments {
		cand, err := c.extractor.Extract(fragment, now)
		if err != nil {
			c.logger.Debug("Skipping unextractable element.", zap.Error(err))
			continue
		}
		if cand == nil {
			continue
		}
		if _, dup := seen[cand.Fingerprint]; dup {
			continue
		}
		seen[cand.Fingerprint] = struct{}{}
		newCount++

		if cand.Post.Date.Before(cutoff) {
			newOlder++
			continue
		}

		post := cand.Post
		post.ID = schemas.PostID(cand.Fingerprint, len(*posts))
		*posts = append(*posts, post)
	}
	return newCount, newOlder
}

// scroll advances the feed. Platforms that reveal content lazily get a
// partial scroll first so intermediate viewports trigger their loaders.
func (c *Collector) scroll(ctx context.Context) error {
	if c.cfg.SlowReveal {
		if err := c.page.ScrollBy(ctx, 0.5); err != nil {
			return err
		}
		if err := c.pause(ctx); err != nil {
			return err
		}
	}
	return c.page.ScrollToBottom(ctx)
}

// pause sleeps for the platform's scroll delay jittered to 70-130%, bailing
// early on context cancellation.
func (c *Collector) pause(ctx context.Context) error {
	delay := time.Duration(float64(c.cfg.Timing.ScrollDelay) * (0.7 + 0.6*c.rng.Float64()))
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
