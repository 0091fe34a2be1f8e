package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/IamAndelib/Auto-blue-light-filter/internal/api"
	"github.com/IamAndelib/Auto-blue-light-filter/internal/config"
	"github.com/IamAndelib/Auto-blue-light-filter/internal/models"
	"github.com/IamAndelib/Auto-blue-light-filter/internal/scheduler"
	"github.com/IamAndelib/Auto-blue-light-filter/internal/services"
	"github.com/IamAndelib/Auto-blue-light-filter/pkg/client"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const usage = `Usage: hyprlight [flags] [status|manual|auto|force-manual|toggle|refresh-location|test <kelvin>]

Without a subcommand, hyprlight runs as a daemon.`

type commandKind int

const (
	cmdDaemon commandKind = iota
	cmdStatus
	cmdToggleMode
	cmdForceAuto
	cmdForceManual
	cmdToggleFilter
	cmdRefreshLocation
	cmdTest
)

// command is the subcommand resolved once at entry.
type command struct {
	kind   commandKind
	kelvin int
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{kind: cmdDaemon}, nil
	}

	switch args[0] {
	case "status":
		return command{kind: cmdStatus}, nil
	case "manual":
		return command{kind: cmdToggleMode}, nil
	case "auto":
		return command{kind: cmdForceAuto}, nil
	case "force-manual":
		return command{kind: cmdForceManual}, nil
	case "toggle":
		return command{kind: cmdToggleFilter}, nil
	case "refresh-location":
		return command{kind: cmdRefreshLocation}, nil
	case "test":
		if len(args) < 2 {
			return command{}, fmt.Errorf("test requires a kelvin value")
		}
		kelvin, err := strconv.Atoi(args[1])
		if err != nil {
			return command{}, fmt.Errorf("invalid kelvin value %q", args[1])
		}
		return command{kind: cmdTest, kelvin: kelvin}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", args[0])
	}
}

func main() {
	configPath := pflag.String("config", "", "path to config.env (default ~/.config/hyprlight/config.env)")
	interval := pflag.Duration("interval", 0, "evaluation interval override")
	listen := pflag.String("listen", "", "control API listen address override")
	logLevel := pflag.String("log-level", "info", "log level (debug|info|warn|error)")
	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	cmd, err := parseCommand(pflag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := resolveLogLevel(pflag.CommandLine.Changed("log-level"), *logLevel, cfg.Server.LogLevel)
	logger := buildLogger(cmd.kind == cmdDaemon, level)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	if *interval > 0 {
		cfg.Daemon.Interval = *interval
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}

	cache, err := services.NewDiskCache(cfg.Paths.CacheDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache directory", zap.Error(err))
	}

	store := services.NewStateStore(cfg.Paths.StateFile, logger)
	applier := services.NewHyprsunsetApplier(cfg.Backend.Command, cfg.Backend.KillPrevious, logger)
	notifier := services.NewNotifier(cfg.Backend.Notify, logger)
	selector := services.NewSelector(cfg.Night.DayStartHour, cfg.Night.NightStartHour, logger)

	var locationClient services.LocationClient
	if cfg.API.IPGeoAPIKey != "" {
		c := client.NewIPGeoClient(cfg.API.IPGeoAPIKey, client.ClientConfig{
			Timeout:        cfg.HTTP.LocationTimeout,
			MaxRetries:     cfg.HTTP.MaxRetries,
			RetryDelay:     cfg.HTTP.RetryDelay,
			Multiplier:     cfg.HTTP.Multiplier,
			BreakerTimeout: cfg.HTTP.BreakerTimeout,
		}, logger)
		c.SetBaseURL(cfg.API.IPGeoURL)
		locationClient = c
		logger.Debug("Geolocation client initialized")
	} else {
		logger.Info("No geolocation API key configured, using cached or fallback location")
	}

	var weatherClient services.WeatherClient
	if cfg.API.OpenWeatherAPIKey != "" {
		c := client.NewOpenWeatherClient(cfg.API.OpenWeatherAPIKey, client.ClientConfig{
			Timeout:        cfg.HTTP.WeatherTimeout,
			MaxRetries:     cfg.HTTP.MaxRetries,
			RetryDelay:     cfg.HTTP.RetryDelay,
			Multiplier:     cfg.HTTP.Multiplier,
			BreakerTimeout: cfg.HTTP.BreakerTimeout,
		}, logger)
		c.SetBaseURL(cfg.API.OpenWeatherURL)
		weatherClient = c
		logger.Debug("Weather client initialized")
	} else {
		logger.Info("No weather API key configured, selection degrades to time of day")
	}

	engine := services.NewEngine(
		services.EngineConfig{
			WeatherRefreshInterval: cfg.Weather.RefreshInterval,
			WeatherMaxStale:        cfg.Weather.MaxStale,
			Fallback: models.LocationInfo{
				City:      cfg.Fallback.City,
				Country:   cfg.Fallback.Country,
				Latitude:  cfg.Fallback.Latitude,
				Longitude: cfg.Fallback.Longitude,
			},
		},
		store, selector, applier, notifier, cache,
		locationClient, weatherClient, logger,
	)

	controller := services.NewModeController(store, applier, notifier, logger)
	controller.SetEvaluate(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := engine.RunCycle(ctx); err != nil {
			logger.Error("Evaluation after mode switch failed", zap.Error(err))
		}
	})

	switch cmd.kind {
	case cmdStatus:
		runStatus(cfg, engine)
	case cmdToggleMode:
		if _, err := controller.ToggleMode(); err != nil {
			logger.Warn("Mode change not fully persisted", zap.Error(err))
		}
	case cmdForceAuto:
		_, changed, err := controller.ForceAuto()
		if err != nil {
			logger.Warn("Mode change not fully persisted", zap.Error(err))
		}
		if !changed {
			fmt.Println("Already in automatic mode")
		}
	case cmdForceManual:
		_, changed, err := controller.ForceManual()
		if err != nil {
			logger.Warn("Mode change not fully persisted", zap.Error(err))
		}
		if !changed {
			fmt.Println("Already in manual mode")
		}
	case cmdToggleFilter:
		_, effective, err := controller.ToggleFilter()
		if err != nil {
			logger.Error("Filter toggle failed", zap.Error(err))
			os.Exit(1)
		}
		if !effective {
			fmt.Println("Cannot toggle blue light filter in automatic mode. Switch to manual mode first.")
		}
	case cmdRefreshLocation:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		location, err := engine.RefreshLocation(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Location refresh failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Location refreshed: %s, %s (%.4f, %.4f)\n",
			location.City, location.Country, location.Latitude, location.Longitude)
	case cmdTest:
		if err := engine.ApplyKelvin(cmd.kelvin); err != nil {
			fmt.Fprintf(os.Stderr, "Apply failed: %v\n", err)
			os.Exit(1)
		}
	case cmdDaemon:
		runDaemon(cfg, engine, controller, logger)
	}
}

func runStatus(cfg *config.Config, engine *services.Engine) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	report := engine.Status(ctx)

	weatherStr := "Unknown"
	ambientStr := "Unknown"
	if report.Weather != nil {
		weatherStr = fmt.Sprintf("%s (%s)", report.Weather.Condition, report.Weather.Description)
		ambientStr = fmt.Sprintf("%.1f°C", report.Weather.AmbientC)
	}

	filterStatus := "OFF"
	if report.State.FilterOn {
		filterStatus = "ON"
	}

	fmt.Println("==================================================")
	fmt.Println("LOCATION & WEATHER")
	fmt.Printf("   Location: %s, %s\n", report.Location.City, report.Location.Country)
	fmt.Printf("   Weather: %s\n", weatherStr)
	fmt.Printf("   Temperature: %s\n", ambientStr)
	fmt.Printf("   Time Period: %s\n", report.Period)
	fmt.Println()
	fmt.Println("SCREEN SETTINGS")
	fmt.Printf("   Screen Temperature: %dK\n", report.State.LastKelvin)
	fmt.Printf("   Mode: %s\n", report.State.Mode)
	fmt.Printf("   Blue Light Filter: %s\n", filterStatus)
	fmt.Printf("   Selected Profile: %s\n", report.Profile)
	fmt.Println()
	fmt.Println("FILES")
	fmt.Printf("   Config: %s\n", cfg.Paths.ConfigDir)
	fmt.Printf("   State: %s\n", cfg.Paths.StateFile)
	fmt.Printf("   Cache: %s\n", cfg.Paths.CacheDir)
	fmt.Println("==================================================")
}

func runDaemon(cfg *config.Config, engine *services.Engine, controller *services.ModeController, logger *zap.Logger) {
	logger.Info("Starting screen temperature daemon",
		zap.Duration("interval", cfg.Daemon.Interval),
		zap.String("listen", cfg.Server.Listen))

	sched := scheduler.NewScheduler(engine, cfg.Daemon.Interval, logger)

	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	handler := api.NewHandler(engine, controller, sched, logger)
	api.SetupRoutes(app, handler, logger)

	if err := sched.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	go func() {
		logger.Info("Control API listening", zap.String("address", cfg.Server.Listen))
		if err := app.Listen(cfg.Server.Listen); err != nil {
			logger.Fatal("Failed to start control API", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down daemon...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sched.Stop()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Control API shutdown failed", zap.Error(err))
	}

	logger.Info("Daemon stopped")
}

// resolveLogLevel prefers an explicit --log-level flag; otherwise the
// configured LOG_LEVEL applies.
func resolveLogLevel(flagChanged bool, flagValue, configValue string) string {
	if !flagChanged && configValue != "" {
		return configValue
	}
	return flagValue
}

func buildLogger(daemon bool, level string) *zap.Logger {
	var zapCfg zap.Config
	if daemon {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
