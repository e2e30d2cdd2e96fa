// Package config holds the viper-backed application configuration. Defaults
// are registered on a viper instance via SetDefaults, optionally overlaid by
// a YAML config file and SCRAPER_* environment variables, then unmarshaled
// into the Config struct and validated.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the root configuration object.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Humanoid HumanoidConfig `mapstructure:"humanoid" yaml:"humanoid"`
	Sessions SessionsConfig `mapstructure:"sessions" yaml:"sessions"`
	Scraper  ScraperConfig  `mapstructure:"scraper" yaml:"scraper"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig holds settings for the Chrome instances the engine launches.
type BrowserConfig struct {
	Headless bool `mapstructure:"headless" yaml:"headless"`
	// Concurrency caps the number of simultaneously live browser instances
	// across all requests.
	Concurrency int64    `mapstructure:"concurrency" yaml:"concurrency"`
	Args        []string `mapstructure:"args" yaml:"args"`
}

// HumanoidConfig tunes the human-paced input simulation. Delays are ranges,
// not constants: every call draws fresh values.
type HumanoidConfig struct {
	KeyDelayMinMs   int `mapstructure:"key_delay_min_ms" yaml:"key_delay_min_ms"`
	KeyDelayMaxMs   int `mapstructure:"key_delay_max_ms" yaml:"key_delay_max_ms"`
	PauseMinMs      int `mapstructure:"pause_min_ms" yaml:"pause_min_ms"`
	PauseMaxMs      int `mapstructure:"pause_max_ms" yaml:"pause_max_ms"`
	PointerSteps    int `mapstructure:"pointer_steps" yaml:"pointer_steps"`
	PointerJitterPx int `mapstructure:"pointer_jitter_px" yaml:"pointer_jitter_px"`
}

// SessionsConfig controls where browser profiles and their metadata live.
type SessionsConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
	// FreshnessWindow bounds how old a stored login may be before the engine
	// skips the existing-session probe and logs in from scratch.
	FreshnessWindow time.Duration `mapstructure:"freshness_window" yaml:"freshness_window"`
}

// ScraperConfig holds engine-level behavior toggles.
type ScraperConfig struct {
	// Interactive permits blocking on manual two-factor code entry. Servers
	// run unattended and fail fast instead.
	Interactive   bool          `mapstructure:"interactive" yaml:"interactive"`
	TwoFactorWait time.Duration `mapstructure:"two_factor_wait" yaml:"two_factor_wait"`
}

// ServerConfig configures the HTTP API surface.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps" yaml:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst"`
}

// SetDefaults registers default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "scraperd")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.concurrency", 4)

	v.SetDefault("humanoid.key_delay_min_ms", 50)
	v.SetDefault("humanoid.key_delay_max_ms", 150)
	v.SetDefault("humanoid.pause_min_ms", 300)
	v.SetDefault("humanoid.pause_max_ms", 900)
	v.SetDefault("humanoid.pointer_steps", 4)
	v.SetDefault("humanoid.pointer_jitter_px", 6)

	v.SetDefault("sessions.dir", defaultSessionsDir())
	v.SetDefault("sessions.freshness_window", 24*time.Hour)

	v.SetDefault("scraper.interactive", false)
	v.SetDefault("scraper.two_factor_wait", 120*time.Second)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.rate_limit_rps", 2.0)
	v.SetDefault("server.rate_limit_burst", 5)
}

// NewConfigFromViper unmarshals and validates a configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// NewDefaultConfig returns a configuration populated with defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Browser.Concurrency <= 0 {
		return fmt.Errorf("browser.concurrency must be a positive integer")
	}
	if c.Humanoid.KeyDelayMinMs < 0 || c.Humanoid.KeyDelayMaxMs <= c.Humanoid.KeyDelayMinMs {
		return fmt.Errorf("humanoid key delay range [%d,%d) is invalid", c.Humanoid.KeyDelayMinMs, c.Humanoid.KeyDelayMaxMs)
	}
	if c.Humanoid.PauseMinMs < 0 || c.Humanoid.PauseMaxMs <= c.Humanoid.PauseMinMs {
		return fmt.Errorf("humanoid pause range [%d,%d) is invalid", c.Humanoid.PauseMinMs, c.Humanoid.PauseMaxMs)
	}
	if c.Sessions.Dir == "" {
		return fmt.Errorf("sessions.dir is required")
	}
	if c.Sessions.FreshnessWindow <= 0 {
		return fmt.Errorf("sessions.freshness_window must be a positive duration")
	}
	if c.Scraper.TwoFactorWait <= 0 {
		return fmt.Errorf("scraper.two_factor_wait must be a positive duration")
	}
	return nil
}

func defaultSessionsDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(".", ".scraper-sessions")
	}
	return filepath.Join(home, ".scraper-sessions")
}
