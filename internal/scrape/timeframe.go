package scrape

import (
	"time"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
)

// DefaultTimeframe is applied when the requested symbol is not recognized.
const DefaultTimeframe = "7d"

var timeframeDurations = map[string]time.Duration{
	"1h":  time.Hour,
	"6h":  6 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
	"3d":  3 * 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// NormalizeTimeframe returns the canonical symbol, substituting the default
// for anything unrecognized.
func NormalizeTimeframe(timeframe string) string {
	if _, ok := timeframeDurations[timeframe]; ok {
		return timeframe
	}
	return DefaultTimeframe
}

// TimeframeDuration maps a symbolic window to its duration. Unknown symbols
// fall back to the default window rather than failing the request.
func TimeframeDuration(timeframe string) time.Duration {
	if d, ok := timeframeDurations[timeframe]; ok {
		return d
	}
	return timeframeDurations[DefaultTimeframe]
}

// CutoffFor converts the symbolic window into an absolute cutoff instant.
func CutoffFor(timeframe string, now time.Time) time.Time {
	return now.Add(-TimeframeDuration(timeframe))
}

// FilterByCutoff returns the posts at or after cutoff, preserving order. The
// acquisition loop already drops older posts during extraction; this final
// pass guarantees the result invariant regardless of loop internals.
func FilterByCutoff(posts []schemas.Post, cutoff time.Time) []schemas.Post {
	filtered := make([]schemas.Post, 0, len(posts))
	for _, p := range posts {
		if !p.Date.Before(cutoff) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
