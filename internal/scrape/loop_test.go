package scrape

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pjkea/social-media-scraper-api/internal/platform"
)

// fakePage simulates an infinite-scroll feed: each ScrollToBottom reveals the
// next batch of container fragments.
type fakePage struct {
	mu       sync.Mutex
	visible  map[string]bool
	batches  [][]string
	batchIdx int
	scrolls  int
	urls     []string
}

func (f *fakePage) Navigate(_ context.Context, url string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	return nil
}

func (f *fakePage) CurrentURL(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.urls) == 0 {
		return "", nil
	}
	return f.urls[len(f.urls)-1], nil
}

func (f *fakePage) WaitVisible(_ context.Context, selector string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.visible[selector] {
		return nil
	}
	return fmt.Errorf("selector %s never became visible", selector)
}

func (f *fakePage) OuterHTMLAll(_ context.Context, selector string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.visible[selector] || len(f.batches) == 0 {
		return nil, nil
	}
	idx := f.batchIdx
	if idx >= len(f.batches) {
		idx = len(f.batches) - 1
	}
	return f.batches[idx], nil
}

func (f *fakePage) Click(context.Context, string) error        { return nil }
func (f *fakePage) Type(context.Context, string, string) error { return nil }

func (f *fakePage) ScrollToBottom(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrolls++
	if f.batchIdx < len(f.batches)-1 {
		f.batchIdx++
	}
	return nil
}

func (f *fakePage) ScrollBy(context.Context, float64) error       { return nil }
func (f *fakePage) Evaluate(context.Context, string, any) error   { return nil }
func (f *fakePage) Close(context.Context) error                   { return nil }

func loopConfig() *platform.Config {
	cfg := extractorConfig()
	cfg.Selectors.PostContainer = platform.SelectorChain{`.post`}
	cfg.Timing = platform.Timing{
		ScrollDelay:       time.Millisecond,
		MaxScrolls:        5,
		PostLimit:         10,
		LoginTimeout:      time.Second,
		NavigationTimeout: time.Second,
	}
	return cfg
}

func postFragment(text, iso string) string {
	return fmt.Sprintf(
		`<article class="post"><div class="post-text">%s</div><time datetime="%s"></time></article>`,
		text, iso)
}

func newTestCollector(t *testing.T, cfg *platform.Config, page *fakePage) *Collector {
	c := NewCollector(cfg, page, zaptest.NewLogger(t))
	return c
}

func TestCollectDeduplicatesAcrossIterations(t *testing.T) {
	now := time.Now().UTC()
	recent := now.Add(-time.Hour).Format(time.RFC3339)

	a := postFragment("post a", recent)
	b := postFragment("post b", recent)
	c := postFragment("post c", recent)

	page := &fakePage{
		visible: map[string]bool{`.post`: true},
		batches: [][]string{{a, b}, {a, b, c}, {a, b, c}},
	}

	collector := newTestCollector(t, loopConfig(), page)
	posts, err := collector.Collect(context.Background(), "https://example.com/u", now.Add(-24*time.Hour))
	require.NoError(t, err)

	require.Len(t, posts, 3)
	assert.Equal(t, "post a", posts[0].Text)
	assert.Equal(t, "post b", posts[1].Text)
	assert.Equal(t, "post c", posts[2].Text)

	// Ordinal-suffixed IDs are unique within the result.
	seen := map[string]struct{}{}
	for _, p := range posts {
		_, dup := seen[p.ID]
		assert.False(t, dup, p.ID)
		seen[p.ID] = struct{}{}
	}
}

func TestCollectNoContainersYieldsEmptyResult(t *testing.T) {
	page := &fakePage{visible: map[string]bool{}}

	collector := newTestCollector(t, loopConfig(), page)
	posts, err := collector.Collect(context.Background(), "https://example.com/u", time.Now().Add(-time.Hour))

	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Zero(t, page.scrolls)
}

func TestCollectHonorsPostLimit(t *testing.T) {
	now := time.Now().UTC()
	recent := now.Add(-time.Hour).Format(time.RFC3339)

	var batch []string
	for i := 0; i < 6; i++ {
		batch = append(batch, postFragment(fmt.Sprintf("post %d", i), recent))
	}

	cfg := loopConfig()
	cfg.Timing.PostLimit = 4

	page := &fakePage{visible: map[string]bool{`.post`: true}, batches: [][]string{batch}}
	collector := newTestCollector(t, cfg, page)

	posts, err := collector.Collect(context.Background(), "https://example.com/u", now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, posts, 4)
}

func TestCollectStopsWhenOnlyOlderContentRemains(t *testing.T) {
	now := time.Now().UTC()
	recent := now.Add(-time.Hour).Format(time.RFC3339)
	stale := now.Add(-90 * 24 * time.Hour).Format(time.RFC3339)

	fresh := postFragment("fresh", recent)
	old1 := postFragment("ancient one", stale)
	old2 := postFragment("ancient two", stale)

	page := &fakePage{
		visible: map[string]bool{`.post`: true},
		batches: [][]string{{fresh}, {fresh, old1, old2}, {fresh, old1, old2}},
	}

	collector := newTestCollector(t, loopConfig(), page)
	posts, err := collector.Collect(context.Background(), "https://example.com/u", now.Add(-24*time.Hour))
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "fresh", posts[0].Text)
	// One scroll after the fresh batch, then the all-stale iteration stops
	// the loop well before the iteration ceiling.
	assert.Equal(t, 1, page.scrolls)
}

func TestCollectStopsWhenExhaustedFeedStopsYielding(t *testing.T) {
	now := time.Now().UTC()
	recent := now.Add(-time.Hour).Format(time.RFC3339)
	stale := now.Add(-90 * 24 * time.Hour).Format(time.RFC3339)

	fresh := postFragment("fresh", recent)
	old := postFragment("ancient", stale)

	// The whole feed fits in one viewport: after the first harvest crosses
	// the cutoff, further scrolling reveals nothing new and the loop must
	// stop rather than sleep through the remaining iteration budget.
	page := &fakePage{
		visible: map[string]bool{`.post`: true},
		batches: [][]string{{fresh, old}, {fresh, old}},
	}

	collector := newTestCollector(t, loopConfig(), page)
	posts, err := collector.Collect(context.Background(), "https://example.com/u", now.Add(-24*time.Hour))
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "fresh", posts[0].Text)
	assert.Equal(t, 1, page.scrolls)
}

func TestCollectStopsOnCanceledContext(t *testing.T) {
	now := time.Now().UTC()
	recent := now.Add(-time.Hour).Format(time.RFC3339)

	page := &fakePage{
		visible: map[string]bool{`.post`: true},
		batches: [][]string{{postFragment("a", recent)}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	collector := newTestCollector(t, loopConfig(), page)
	_, err := collector.Collect(ctx, "https://example.com/u", now.Add(-24*time.Hour))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCollectSlowRevealScrollsInTwoPhases(t *testing.T) {
	now := time.Now().UTC()
	recent := now.Add(-time.Hour).Format(time.RFC3339)

	cfg := loopConfig()
	cfg.SlowReveal = true
	cfg.Timing.MaxScrolls = 2

	page := &fakePage{
		visible: map[string]bool{`.post`: true},
		batches: [][]string{{postFragment("a", recent)}, {postFragment("a", recent), postFragment("b", recent)}},
	}

	collector := newTestCollector(t, cfg, page)
	posts, err := collector.Collect(context.Background(), "https://example.com/u", now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}
