// Package config holds runtime settings for the SDK, loaded in layers:
// defaults, then a JSON file (if one is named via -c/-config), then
// command-line flags. Later sources take precedence.
package config

import "time"

// Config holds runtime settings.
//
// Fields:
//   - APIRoot: scheme://host of the CRM backend; "/api" is appended per
//     request.
//   - RequestTimeout: per-request HTTP timeout.
//   - StaleAfter: how long a cached result counts as fresh before reads
//     revalidate it in the background. Zero disables time-based staleness.
//   - LogLevel: debug, info, warn, or error.
type Config struct {
	APIRoot        string
	RequestTimeout time.Duration
	StaleAfter     time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIRoot = "http://127.0.0.1:8080"
	c.RequestTimeout = 15 * time.Second
	c.StaleAfter = 30 * time.Second
	c.LogLevel = "info"
}

// Load constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
