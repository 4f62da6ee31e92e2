package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkoval/crmsync/internal/flagx"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// are plain seconds so a config file stays editable by hand.
type jsonConfig struct {
	APIRoot            string `json:"api_root"`
	RequestTimeoutSecs int    `json:"request_timeout_secs"`
	StaleAfterSecs     int    `json:"stale_after_secs"`
	LogLevel           string `json:"log_level"`
}

// parseJSON overlays cfg with values from the JSON file named via the
// -c/-config flags. When no file is named, nothing happens. Read or
// unmarshal errors panic; callers wanting soft failure should recover.
func parseJSON(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIRoot != "" {
		cfg.APIRoot = jc.APIRoot
	}
	if jc.RequestTimeoutSecs > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeoutSecs) * time.Second
	}
	if jc.StaleAfterSecs > 0 {
		cfg.StaleAfter = time.Duration(jc.StaleAfterSecs) * time.Second
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
