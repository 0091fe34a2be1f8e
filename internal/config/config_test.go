package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Daemon.Interval != 5*time.Minute {
		t.Errorf("Daemon.Interval = %v, want 5m", cfg.Daemon.Interval)
	}
	if cfg.Weather.RefreshInterval != 10*time.Minute {
		t.Errorf("Weather.RefreshInterval = %v, want 10m", cfg.Weather.RefreshInterval)
	}
	if cfg.Weather.MaxStale != time.Hour {
		t.Errorf("Weather.MaxStale = %v, want 1h", cfg.Weather.MaxStale)
	}
	if cfg.Backend.Command != "hyprsunset" {
		t.Errorf("Backend.Command = %q, want hyprsunset", cfg.Backend.Command)
	}
	if cfg.Night.DayStartHour != 6 || cfg.Night.NightStartHour != 20 {
		t.Errorf("day window = [%d, %d), want [6, 20)",
			cfg.Night.DayStartHour, cfg.Night.NightStartHour)
	}
	if cfg.Fallback.City != "London" {
		t.Errorf("Fallback.City = %q, want London", cfg.Fallback.City)
	}
	if cfg.Server.Listen != "127.0.0.1:8923" {
		t.Errorf("Server.Listen = %q, want loopback default", cfg.Server.Listen)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("IPGEOLOCATION_API_KEY", "geo-key")
	t.Setenv("UPDATE_INTERVAL", "90s")
	t.Setenv("BACKEND_COMMAND", "wlsunset")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.OpenWeatherAPIKey != "ow-key" {
		t.Errorf("OpenWeatherAPIKey = %q, want ow-key", cfg.API.OpenWeatherAPIKey)
	}
	if cfg.API.IPGeoAPIKey != "geo-key" {
		t.Errorf("IPGeoAPIKey = %q, want geo-key", cfg.API.IPGeoAPIKey)
	}
	if cfg.Daemon.Interval != 90*time.Second {
		t.Errorf("Daemon.Interval = %v, want 90s", cfg.Daemon.Interval)
	}
	if cfg.Backend.Command != "wlsunset" {
		t.Errorf("Backend.Command = %q, want wlsunset", cfg.Backend.Command)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("Server.LogLevel = %q, want debug", cfg.Server.LogLevel)
	}
}

func TestLoad_PathsUnderConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	wantConfigDir := filepath.Join(dir, "hyprlight")
	if cfg.Paths.ConfigDir != wantConfigDir {
		t.Errorf("ConfigDir = %q, want %q", cfg.Paths.ConfigDir, wantConfigDir)
	}
	if cfg.Paths.CacheDir != filepath.Join(wantConfigDir, "cache") {
		t.Errorf("CacheDir = %q, want under config dir", cfg.Paths.CacheDir)
	}
	if cfg.Paths.StateFile != filepath.Join(wantConfigDir, "state.json") {
		t.Errorf("StateFile = %q, want under config dir", cfg.Paths.StateFile)
	}
}
