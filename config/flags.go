package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkoval/crmsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   API root of the backend (default from Config)
//	-t int      request timeout in seconds
//	-s int      cache stale-after in seconds
//	-l string   log level
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with the embedding application's
// own flags.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-s", "-l"})

	fs := flag.NewFlagSet("crmsync", flag.ContinueOnError)

	fs.StringVar(&cfg.APIRoot, "a", cfg.APIRoot, "API root of the backend")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	stale := fs.Int("s", int(cfg.StaleAfter.Seconds()), "cache stale-after (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.StaleAfter = time.Duration(*stale) * time.Second
}
