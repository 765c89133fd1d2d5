package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr          string
	AllowOrigins  string
	DataDir       string // empty keeps the archive in memory
	LogLevel      log.Level
	MatchInterval time.Duration
}

// Load parses args as command-line flags. Flags default to CHESSRULES_* environment variables.
func Load(args []string) (Config, error) {
	return load(args, os.Getenv)
}

func load(args []string, lookup func(string) string) (Config, error) {
	fs := flag.NewFlagSet("chessrules", flag.ContinueOnError)

	getenv := func(key, def string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return def
	}

	addr := fs.String("addr", getenv("CHESSRULES_ADDR", ":8080"), "listen address")
	origins := fs.String("origins", getenv("CHESSRULES_ORIGINS", "http://localhost:5173"), "comma-separated allowed CORS origins")
	dataDir := fs.String("data", getenv("CHESSRULES_DATA_DIR", ""), "badger data directory (empty: in memory)")
	level := fs.String("log-level", getenv("CHESSRULES_LOG_LEVEL", "info"), "trace, debug, info, warn or error")
	interval := fs.String("match-interval", getenv("CHESSRULES_MATCH_INTERVAL", "1s"), "matchmaking tick")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:         *addr,
		AllowOrigins: *origins,
		DataDir:      *dataDir,
	}
	var err error
	if cfg.LogLevel, err = parseLevel(*level); err != nil {
		return Config{}, err
	}
	if cfg.MatchInterval, err = time.ParseDuration(*interval); err != nil {
		return Config{}, fmt.Errorf("match interval: %w", err)
	}
	if cfg.MatchInterval <= 0 {
		return Config{}, fmt.Errorf("match interval must be positive, got %s", cfg.MatchInterval)
	}
	return cfg, nil
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
