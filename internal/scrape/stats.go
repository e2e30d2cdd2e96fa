package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
	"github.com/pjkea/social-media-scraper-api/internal/platform"
)

// Generic fallback patterns per stat key, tried after the platform-specific
// list. A key only participates at all when the platform configures it, so
// a platform that never exposes views can never emit one.
var genericStatPatterns = map[string][]*regexp.Regexp{
	"likes": {
		regexp.MustCompile(`(?i)([\d.,]+[KkMm]?)\s*(?:likes?|reactions?|hearts?)\b`),
		regexp.MustCompile(`(?i)likes?[:\s]+([\d.,]+[KkMm]?)`),
	},
	"comments": {
		regexp.MustCompile(`(?i)([\d.,]+[KkMm]?)\s*(?:comments?|repl(?:y|ies))\b`),
		regexp.MustCompile(`(?i)comments?[:\s]+([\d.,]+[KkMm]?)`),
	},
	"shares": {
		regexp.MustCompile(`(?i)([\d.,]+[KkMm]?)\s*(?:shares?|reposts?|retweets?)\b`),
		regexp.MustCompile(`(?i)shares?[:\s]+([\d.,]+[KkMm]?)`),
	},
	"views": {
		regexp.MustCompile(`(?i)([\d.,]+[KkMm]?)\s*views?\b`),
		regexp.MustCompile(`(?i)views?[:\s]+([\d.,]+[KkMm]?)`),
	},
}

// ParseStats extracts engagement counters from the concatenated stats-region
// text. Per key: platform-specific patterns first, then the generic
// fallbacks; the first numeric capture wins. A key with no match stays nil,
// never zero.
func ParseStats(cfg *platform.Config, text string) schemas.PostStats {
	stats := schemas.PostStats{}
	if strings.TrimSpace(text) == "" {
		return stats
	}

	for key, platformPatterns := range cfg.StatPatterns {
		patterns := append(append([]*regexp.Regexp{}, platformPatterns...), genericStatPatterns[key]...)

		for _, pattern := range patterns {
			m := pattern.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			value, ok := parseCount(m[1])
			if !ok {
				continue
			}
			assignStat(&stats, key, value)
			break
		}
	}
	return stats
}

func assignStat(stats *schemas.PostStats, key string, value int64) {
	switch key {
	case "likes":
		stats.Likes = &value
	case "comments":
		stats.Comments = &value
	case "shares":
		stats.Shares = &value
	case "views":
		stats.Views = &value
	}
}

// parseCount normalizes a displayed count: thousands separators stripped,
// K/M suffixes expanded ("1.2K" -> 1200).
func parseCount(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(raw, "K"), strings.HasSuffix(raw, "k"):
		multiplier = 1_000
		raw = raw[:len(raw)-1]
	case strings.HasSuffix(raw, "M"), strings.HasSuffix(raw, "m"):
		multiplier = 1_000_000
		raw = raw[:len(raw)-1]
	}

	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return 0, false
	}

	if multiplier == 1 {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int64(f * float64(multiplier)), true
}
