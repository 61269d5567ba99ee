package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Environment variables read by Load.
const (
	EnvAPIBase  = "CNNCT_API_BASE"
	EnvStateDir = "CNNCT_STATE_DIR"
	EnvTimeout  = "CNNCT_TIMEOUT"
	EnvLogLevel = "CNNCT_LOG_LEVEL"
)

// DefaultAPIBase is where the probe backend listens by default.
const DefaultAPIBase = "http://127.0.0.1:8080"

// Config holds client settings. Flags override the values Load returns.
type Config struct {
	APIBase  string
	StateDir string
	Timeout  time.Duration
	LogLevel string
	NoColor  bool
	Insecure bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads defaults from the environment.
func Load() (Config, error) {
	cfg := Config{
		APIBase:  getenv(EnvAPIBase, DefaultAPIBase),
		StateDir: getenv(EnvStateDir, defaultStateDir()),
		LogLevel: getenv(EnvLogLevel, "warn"),
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "cnnct")
	}
	return ".cnnct"
}
