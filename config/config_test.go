package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"test-binary"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.APIRoot)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.StaleAfter)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadWithoutOverrides(t *testing.T) {
	withArgs(t)

	cfg := Load()

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, cfg)
}

func TestLoadFromJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"api_root": "https://crm.example.com",
		"stale_after_secs": 60
	}`), 0o600))
	withArgs(t, "-c", path)

	cfg := Load()

	assert.Equal(t, "https://crm.example.com", cfg.APIRoot)
	assert.Equal(t, 60*time.Second, cfg.StaleAfter)
	// Unset file fields keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFlagsOverrideJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_root":"https://file.example.com","log_level":"warn"}`), 0o600))
	withArgs(t, "-c", path, "-a", "https://flag.example.com", "-t", "5")

	cfg := Load()

	assert.Equal(t, "https://flag.example.com", cfg.APIRoot)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestForeignFlagsIgnored(t *testing.T) {
	withArgs(t, "-app-specific", "value", "-l", "debug", "-verbose")

	cfg := Load()

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.APIRoot)
}

func TestMissingConfigFilePanics(t *testing.T) {
	withArgs(t, "-c", filepath.Join(t.TempDir(), "absent.json"))

	assert.Panics(t, func() { Load() })
}
