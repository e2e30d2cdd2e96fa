package scrape

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pjkea/social-media-scraper-api/internal/platform"
)

func extractorConfig() *platform.Config {
	return &platform.Config{
		Name:       "test",
		LandingURL: "https://example.com/home",
		Selectors: platform.Selectors{
			Text:   platform.SelectorChain{`.post-text`, `div[lang]`},
			Author: platform.SelectorChain{`.author a`, `.author`},
			Date:   platform.SelectorChain{`time`},
			Stats:  platform.SelectorChain{`.stats`},
			Link:   platform.SelectorChain{`a.permalink`},
		},
		StatPatterns: map[string][]*regexp.Regexp{
			"likes":    nil,
			"comments": nil,
		},
	}
}

func newTestExtractor(t *testing.T) *Extractor {
	return NewExtractor(extractorConfig(), zaptest.NewLogger(t))
}

func TestExtractFullPost(t *testing.T) {
	e := newTestExtractor(t)
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	fragment := `
	<article>
	  <div class="author"><a href="/alice">Alice</a></div>
	  <div class="post-text">Hello   world, this is a post.</div>
	  <time datetime="2026-08-30T10:00:00Z">5h</time>
	  <div class="stats">12 likes · 3 comments</div>
	  <a class="permalink" href="/alice/status/123">link</a>
	</article>`

	cand, err := e.Extract(fragment, now)
	require.NoError(t, err)
	require.NotNil(t, cand)

	assert.Equal(t, "Hello world, this is a post.", cand.Post.Text)
	assert.Equal(t, "Alice", cand.Post.Author)
	assert.Equal(t, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), cand.Post.Date)
	assert.Equal(t, "https://example.com/alice/status/123", cand.Post.SourceURL)
	assert.Equal(t, "test", cand.Post.Platform)
	assert.NotEmpty(t, cand.Fingerprint)

	require.NotNil(t, cand.Post.Stats.Likes)
	assert.Equal(t, int64(12), *cand.Post.Stats.Likes)
	require.NotNil(t, cand.Post.Stats.Comments)
	assert.Equal(t, int64(3), *cand.Post.Stats.Comments)
}

func TestExtractFallbackSelectors(t *testing.T) {
	e := newTestExtractor(t)
	now := time.Now().UTC()

	// Primary selectors absent; the fallbacks in each chain must kick in.
	fragment := `
	<article>
	  <div class="author">bob</div>
	  <div lang="en">fallback text</div>
	  <time datetime="2026-08-29T12:00:00Z"></time>
	</article>`

	cand, err := e.Extract(fragment, now)
	require.NoError(t, err)
	require.NotNil(t, cand)

	assert.Equal(t, "fallback text", cand.Post.Text)
	assert.Equal(t, "bob", cand.Post.Author)
}

func TestExtractRelativeDisplayDate(t *testing.T) {
	e := newTestExtractor(t)
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	fragment := `<article><div class="post-text">x</div><time>2h</time></article>`

	cand, err := e.Extract(fragment, now)
	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.Equal(t, now.Add(-2*time.Hour), cand.Post.Date)
}

func TestExtractDropsUndatedElement(t *testing.T) {
	e := newTestExtractor(t)

	fragment := `<article><div class="post-text">no date here</div></article>`

	cand, err := e.Extract(fragment, time.Now().UTC())
	require.NoError(t, err)
	assert.Nil(t, cand)
}

func TestExtractMissingOptionalFields(t *testing.T) {
	e := newTestExtractor(t)

	fragment := `<article><time datetime="2026-08-30T10:00:00Z"></time></article>`

	cand, err := e.Extract(fragment, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, cand)

	assert.Empty(t, cand.Post.Text)
	assert.Empty(t, cand.Post.Author)
	assert.Empty(t, cand.Post.SourceURL)
	assert.Nil(t, cand.Post.Stats.Likes)
}

func TestExtractStatsFromAriaLabel(t *testing.T) {
	e := newTestExtractor(t)

	fragment := `
	<article>
	  <time datetime="2026-08-30T10:00:00Z"></time>
	  <div class="stats" aria-label="98 likes"></div>
	</article>`

	cand, err := e.Extract(fragment, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, cand)
	require.NotNil(t, cand.Post.Stats.Likes)
	assert.Equal(t, int64(98), *cand.Post.Stats.Likes)
}

func TestExtractAbsoluteLinkKept(t *testing.T) {
	e := newTestExtractor(t)

	fragment := `
	<article>
	  <time datetime="2026-08-30T10:00:00Z"></time>
	  <a class="permalink" href="https://other.example/p/1">x</a>
	</article>`

	cand, err := e.Extract(fragment, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.Equal(t, "https://other.example/p/1", cand.Post.SourceURL)
}

func TestFingerprintStableAcrossOrdinals(t *testing.T) {
	e := newTestExtractor(t)
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	fragment := `<article><div class="post-text">same post</div><time datetime="2026-08-30T10:00:00Z"></time></article>`

	first, err := e.Extract(fragment, now)
	require.NoError(t, err)
	second, err := e.Extract(fragment, now)
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
}
