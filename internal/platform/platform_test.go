package platform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
)

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	t.Run("known platforms resolve", func(t *testing.T) {
		for _, name := range []string{"twitter", "instagram", "facebook", "linkedin"} {
			cfg, err := r.Get(name)
			require.NoError(t, err, name)
			assert.Equal(t, name, cfg.Name)
		}
	})

	t.Run("alias resolves to canonical config", func(t *testing.T) {
		cfg, err := r.Get("x")
		require.NoError(t, err)
		assert.Equal(t, "twitter", cfg.Name)
	})

	t.Run("lookup is case insensitive", func(t *testing.T) {
		cfg, err := r.Get("Twitter")
		require.NoError(t, err)
		assert.Equal(t, "twitter", cfg.Name)
	})

	t.Run("unknown platform fails with typed error", func(t *testing.T) {
		_, err := r.Get("myspace")
		var unsupported *schemas.UnsupportedPlatformError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, "myspace", unsupported.Platform)
		assert.NotEmpty(t, unsupported.Supported)
	})
}

func TestRegistrySupported(t *testing.T) {
	supported := NewRegistry().Supported()
	assert.Equal(t, []string{"facebook", "instagram", "linkedin", "twitter"}, supported)
}

func TestProfileURL(t *testing.T) {
	r := NewRegistry()

	twitter, err := r.Get("twitter")
	require.NoError(t, err)
	assert.Equal(t, "https://x.com/jack", twitter.ProfileURL("jack"))

	linkedin, err := r.Get("linkedin")
	require.NoError(t, err)
	assert.Contains(t, linkedin.ProfileURL("someone"), "/in/someone")
}

func TestConfigsAreComplete(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.Supported() {
		name := name
		t.Run(name, func(t *testing.T) {
			cfg, err := r.Get(name)
			require.NoError(t, err)

			assert.NotEmpty(t, cfg.LoginURL)
			assert.NotEmpty(t, cfg.LandingURL)
			assert.NotEmpty(t, cfg.Selectors.PostContainer)
			assert.NotEmpty(t, cfg.Selectors.Date)
			assert.NotEmpty(t, cfg.UsernameField)
			assert.NotEmpty(t, cfg.PasswordField)
			assert.NotEmpty(t, cfg.SubmitButton)
			assert.NotEmpty(t, cfg.LoggedInMarker)
			assert.NotEmpty(t, cfg.StatPatterns)
			assert.Greater(t, cfg.Timing.MaxScrolls, 0)
			assert.Greater(t, cfg.Timing.PostLimit, 0)
			assert.Greater(t, cfg.Timing.LoginTimeout, time.Duration(0))
			assert.Greater(t, cfg.Timing.NavigationTimeout, time.Duration(0))
		})
	}
}
