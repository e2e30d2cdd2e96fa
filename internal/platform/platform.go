// Package platform is the static configuration registry for supported
// social platforms: URL templates, selector chains, login markers, stat
// patterns, and timing budgets. Entries are built once at init and never
// mutated afterwards; lookups have no side effects.
package platform

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
)

// SelectorChain is an ordered list of DOM queries tried in sequence until
// one matches. The first entry is the primary selector; the rest are
// fallbacks for older or regional markup variants.
type SelectorChain []string

// Selectors groups the per-field chains used by the extraction pipeline.
type Selectors struct {
	PostContainer SelectorChain
	Text          SelectorChain
	Author        SelectorChain
	Date          SelectorChain
	Stats         SelectorChain
	Link          SelectorChain
}

// Timing is the per-platform budget applied at every suspension point.
type Timing struct {
	ScrollDelay       time.Duration
	MaxScrolls        int
	PostLimit         int
	LoginTimeout      time.Duration
	NavigationTimeout time.Duration
}

// Config is one immutable registry entry.
type Config struct {
	Name string

	LoginURL string
	// LandingURL is the authenticated landing page used to probe whether a
	// persisted session is still logged in.
	LandingURL         string
	profileURLTemplate string

	Selectors      Selectors
	PopupSelectors []string

	UsernameField string
	PasswordField string
	SubmitButton  string

	// LoggedInMarker is a DOM element only present for authenticated users.
	LoggedInMarker string
	// TwoFactorMarker is the input that appears when a second factor is
	// demanded after credential submission.
	TwoFactorMarker string
	// ChallengePathHints are URL fragments that identify a platform
	// checkpoint/challenge flow.
	ChallengePathHints []string

	// SlowReveal requests an extra half-viewport scroll and pause per
	// acquisition iteration for platforms that stagger content rendering.
	SlowReveal bool

	// StatPatterns maps a stat key (likes/comments/shares/views) to its
	// platform-specific regular expressions. Only keys present here are ever
	// emitted for the platform; generic fallback patterns apply per key on
	// top of these.
	StatPatterns map[string][]*regexp.Regexp

	Timing Timing
}

// ProfileURL renders the public profile URL for a username.
func (c *Config) ProfileURL(username string) string {
	return fmt.Sprintf(c.profileURLTemplate, username)
}

// Registry resolves platform names (and aliases) to configurations.
type Registry struct {
	configs map[string]*Config
	aliases map[string]string
}

// NewRegistry builds the registry with all supported platforms.
func NewRegistry() *Registry {
	r := &Registry{
		configs: map[string]*Config{},
		aliases: map[string]string{"x": "twitter"},
	}
	for _, cfg := range []*Config{
		twitterConfig(),
		instagramConfig(),
		facebookConfig(),
		linkedinConfig(),
	} {
		r.configs[cfg.Name] = cfg
	}
	return r
}

// Get returns the configuration for a platform name, case-insensitively.
// Unknown names fail with *schemas.UnsupportedPlatformError.
func (r *Registry) Get(name string) (*Config, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	if cfg, ok := r.configs[key]; ok {
		return cfg, nil
	}
	return nil, &schemas.UnsupportedPlatformError{
		Platform:  name,
		Supported: r.Supported(),
	}
}

// Supported lists the canonical platform names in sorted order.
func (r *Registry) Supported() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustCompile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}
