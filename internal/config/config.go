package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Listen       string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	API struct {
		OpenWeatherAPIKey string
		IPGeoAPIKey       string
		OpenWeatherURL    string
		IPGeoURL          string
	}

	Daemon struct {
		Interval time.Duration
	}

	Weather struct {
		RefreshInterval time.Duration
		MaxStale        time.Duration
	}

	HTTP struct {
		LocationTimeout time.Duration
		WeatherTimeout  time.Duration
		MaxRetries      int
		RetryDelay      time.Duration
		Multiplier      float64
		BreakerTimeout  time.Duration
	}

	Backend struct {
		Command      string
		KillPrevious bool
		Notify       bool
	}

	Night struct {
		DayStartHour   int
		NightStartHour int
	}

	Fallback struct {
		City      string
		Country   string
		Latitude  float64
		Longitude float64
	}

	Paths struct {
		ConfigDir string
		CacheDir  string
		StateFile string
	}
}

// Load reads configuration from the user's config.env plus the process
// environment. explicitPath, when non-empty, overrides the default
// ~/.config/hyprlight/config.env location. Missing files are not an error;
// every key has a default.
func Load(explicitPath string) (*Config, error) {
	configDir := defaultConfigDir()

	envFile := filepath.Join(configDir, "config.env")
	if explicitPath != "" {
		envFile = explicitPath
		configDir = filepath.Dir(explicitPath)
	}

	if err := godotenv.Load(envFile); err != nil {
		zap.L().Debug("No config file found, using environment variables",
			zap.String("path", envFile))
	}

	cfg := &Config{}

	// Control server (loopback only by default)
	cfg.Server.Listen = getEnv("HYPRLIGHT_LISTEN", "127.0.0.1:8923")
	cfg.Server.ReadTimeout = parseDuration(getEnv("HYPRLIGHT_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("HYPRLIGHT_WRITE_TIMEOUT", "10s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// Remote APIs
	cfg.API.OpenWeatherAPIKey = getEnv("OPENWEATHER_API_KEY", "")
	cfg.API.IPGeoAPIKey = getEnv("IPGEOLOCATION_API_KEY", "")
	cfg.API.OpenWeatherURL = getEnv("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5")
	cfg.API.IPGeoURL = getEnv("IPGEOLOCATION_URL", "https://api.ipgeolocation.io")

	// Daemon cadence
	cfg.Daemon.Interval = parseDuration(getEnv("UPDATE_INTERVAL", "5m"))

	// Weather cache policy
	cfg.Weather.RefreshInterval = parseDuration(getEnv("WEATHER_REFRESH_INTERVAL", "10m"))
	cfg.Weather.MaxStale = parseDuration(getEnv("WEATHER_MAX_STALE", "1h"))

	// Outbound HTTP
	cfg.HTTP.LocationTimeout = parseDuration(getEnv("LOCATION_TIMEOUT", "10s"))
	cfg.HTTP.WeatherTimeout = parseDuration(getEnv("WEATHER_TIMEOUT", "15s"))
	cfg.HTTP.MaxRetries = parseInt(getEnv("MAX_RETRIES", "2"))
	cfg.HTTP.RetryDelay = parseDuration(getEnv("RETRY_DELAY", "1s"))
	cfg.HTTP.Multiplier = parseFloat(getEnv("RETRY_MULTIPLIER", "2"))
	cfg.HTTP.BreakerTimeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	// Backend tool
	cfg.Backend.Command = getEnv("BACKEND_COMMAND", "hyprsunset")
	cfg.Backend.KillPrevious = parseBool(getEnv("BACKEND_KILL_PREVIOUS", "true"))
	cfg.Backend.Notify = parseBool(getEnv("DESKTOP_NOTIFICATIONS", "true"))

	// Fixed-hour day window, used when no location is known
	cfg.Night.DayStartHour = parseInt(getEnv("DAY_START_HOUR", "6"))
	cfg.Night.NightStartHour = parseInt(getEnv("NIGHT_START_HOUR", "20"))

	// Last-resort coordinates
	cfg.Fallback.City = getEnv("FALLBACK_CITY", "London")
	cfg.Fallback.Country = getEnv("FALLBACK_COUNTRY", "United Kingdom")
	cfg.Fallback.Latitude = parseFloat(getEnv("FALLBACK_LATITUDE", "51.5074"))
	cfg.Fallback.Longitude = parseFloat(getEnv("FALLBACK_LONGITUDE", "-0.1278"))

	// On-disk layout
	cfg.Paths.ConfigDir = configDir
	cfg.Paths.CacheDir = getEnv("HYPRLIGHT_CACHE_DIR", filepath.Join(configDir, "cache"))
	cfg.Paths.StateFile = getEnv("HYPRLIGHT_STATE_FILE", filepath.Join(configDir, "state.json"))

	return cfg, nil
}

func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hyprlight")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "hyprlight"
	}
	return filepath.Join(home, ".config", "hyprlight")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}

func parseBool(value string) bool {
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		zap.L().Warn("Failed to parse bool", zap.String("value", value), zap.Error(err))
		return false
	}
	return boolValue
}
