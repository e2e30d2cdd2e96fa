package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
)

func TestTimeframeDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"1h":  time.Hour,
		"6h":  6 * time.Hour,
		"12h": 12 * time.Hour,
		"1d":  24 * time.Hour,
		"3d":  72 * time.Hour,
		"7d":  7 * 24 * time.Hour,
		"30d": 30 * 24 * time.Hour,
	}
	for symbol, want := range cases {
		assert.Equal(t, want, TimeframeDuration(symbol), symbol)
	}
}

func TestUnknownTimeframeFallsBackToDefault(t *testing.T) {
	for _, symbol := range []string{"", "2w", "never", "7D", "1 hour"} {
		assert.Equal(t, 7*24*time.Hour, TimeframeDuration(symbol), symbol)
		assert.Equal(t, DefaultTimeframe, NormalizeTimeframe(symbol), symbol)
	}
}

func TestNormalizeTimeframeKeepsKnownSymbols(t *testing.T) {
	assert.Equal(t, "1h", NormalizeTimeframe("1h"))
	assert.Equal(t, "30d", NormalizeTimeframe("30d"))
}

func TestCutoffFor(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(-time.Hour), CutoffFor("1h", now))
	assert.Equal(t, now.Add(-7*24*time.Hour), CutoffFor("bogus", now))
}

func TestFilterByCutoff(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24 * time.Hour)

	posts := []schemas.Post{
		{ID: "recent", Date: now.Add(-time.Hour)},
		{ID: "boundary", Date: cutoff},
		{ID: "stale", Date: cutoff.Add(-time.Minute)},
	}

	filtered := FilterByCutoff(posts, cutoff)
	require.Len(t, filtered, 2)
	assert.Equal(t, "recent", filtered[0].ID)
	assert.Equal(t, "boundary", filtered[1].ID)
}
