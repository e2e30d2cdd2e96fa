package scrape

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjkea/social-media-scraper-api/internal/platform"
)

func statConfig(keys ...string) *platform.Config {
	patterns := map[string][]*regexp.Regexp{}
	for _, key := range keys {
		patterns[key] = nil // generic fallbacks only
	}
	return &platform.Config{Name: "test", StatPatterns: patterns}
}

func TestParseStats(t *testing.T) {
	t.Run("parses separated counters", func(t *testing.T) {
		cfg := statConfig("likes", "comments")
		stats := ParseStats(cfg, "1,250 likes · 42 comments")

		require.NotNil(t, stats.Likes)
		assert.Equal(t, int64(1250), *stats.Likes)
		require.NotNil(t, stats.Comments)
		assert.Equal(t, int64(42), *stats.Comments)
		assert.Nil(t, stats.Shares)
		assert.Nil(t, stats.Views)
	})

	t.Run("expands K and M suffixes", func(t *testing.T) {
		cfg := statConfig("likes", "views")
		stats := ParseStats(cfg, "1.2K likes and 3.5M views")

		require.NotNil(t, stats.Likes)
		assert.Equal(t, int64(1200), *stats.Likes)
		require.NotNil(t, stats.Views)
		assert.Equal(t, int64(3_500_000), *stats.Views)
	})

	t.Run("unmatched key stays nil never zero", func(t *testing.T) {
		cfg := statConfig("likes", "shares")
		stats := ParseStats(cfg, "87 likes")

		require.NotNil(t, stats.Likes)
		assert.Equal(t, int64(87), *stats.Likes)
		assert.Nil(t, stats.Shares)
	})

	t.Run("unconfigured key never emits even when text matches", func(t *testing.T) {
		cfg := statConfig("likes")
		stats := ParseStats(cfg, "10 likes · 99 comments · 5 shares · 1K views")

		require.NotNil(t, stats.Likes)
		assert.Nil(t, stats.Comments)
		assert.Nil(t, stats.Shares)
		assert.Nil(t, stats.Views)
	})

	t.Run("empty text yields all nil", func(t *testing.T) {
		stats := ParseStats(statConfig("likes", "comments", "shares", "views"), "   ")
		assert.Nil(t, stats.Likes)
		assert.Nil(t, stats.Comments)
		assert.Nil(t, stats.Shares)
		assert.Nil(t, stats.Views)
	})

	t.Run("platform patterns take precedence over generic", func(t *testing.T) {
		cfg := &platform.Config{
			Name: "test",
			StatPatterns: map[string][]*regexp.Regexp{
				"likes": {regexp.MustCompile(`(?i)reacted\s+([\d.,]+[KkMm]?)\s+times`)},
			},
		}
		stats := ParseStats(cfg, "reacted 300 times · 12 likes")
		require.NotNil(t, stats.Likes)
		assert.Equal(t, int64(300), *stats.Likes)
	})
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"1,250", 1250, true},
		{"1.2K", 1200, true},
		{"3k", 3000, true},
		{"2.5M", 2_500_000, true},
		{"1m", 1_000_000, true},
		{"", 0, false},
		{"K", 0, false},
		{"1.2", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseCount(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.raw)
		}
	}
}
