package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvAPIBase, "")
	t.Setenv(EnvStateDir, "")
	t.Setenv(EnvTimeout, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.APIBase != DefaultAPIBase || cfg.Timeout != 0 || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if filepath.Base(cfg.StateDir) != "cnnct" {
		t.Fatalf("unexpected state dir %q", cfg.StateDir)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvAPIBase, "http://probe.internal:9000")
	t.Setenv(EnvStateDir, "/var/lib/cnnct")
	t.Setenv(EnvTimeout, "5s")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := Config{APIBase: "http://probe.internal:9000", StateDir: "/var/lib/cnnct", Timeout: 5 * time.Second, LogLevel: "debug"}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
}

func TestLoadBadTimeout(t *testing.T) {
	t.Setenv(EnvTimeout, "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid timeout")
	}
}
