package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/IamAndelib/Auto-blue-light-filter/internal/models"
	"go.uber.org/zap"
)

// LocationClient resolves the machine's location. Nil means no API key was
// configured and only cached/fallback coordinates are available.
type LocationClient interface {
	Lookup(ctx context.Context) (*models.LocationInfo, error)
}

// WeatherClient fetches current conditions for a coordinate pair.
type WeatherClient interface {
	CurrentByCoords(ctx context.Context, lat, lon float64) (*models.WeatherInfo, error)
}

const (
	locationCacheEntry = "location.json"
	weatherCacheEntry  = "weather.json"
)

// EngineConfig carries the policy knobs for one evaluation cycle.
type EngineConfig struct {
	// WeatherRefreshInterval gates how often the weather API is hit.
	WeatherRefreshInterval time.Duration
	// WeatherMaxStale bounds how old a cached reading may be and still be
	// used after a failed refetch. Older readings degrade the selection to
	// time-of-day only.
	WeatherMaxStale time.Duration
	// Fallback is used when neither the API nor the cache can say where
	// the machine is.
	Fallback models.LocationInfo
}

// Engine runs the resolve → select → apply cycle and owns the resolver
// caching policy. Resolver failures never propagate: the selector always
// receives the best data available, possibly none.
type Engine struct {
	cfg      EngineConfig
	store    *StateStore
	selector *Selector
	applier  TemperatureApplier
	notifier *Notifier
	cache    *DiskCache
	location LocationClient
	weather  WeatherClient
	logger   *zap.Logger

	now func() time.Time

	mu              sync.Mutex
	cycleCount      int
	applyCount      int
	resolveFailures int
	lastCycle       time.Time
	lastProfile     string
}

func NewEngine(
	cfg EngineConfig,
	store *StateStore,
	selector *Selector,
	applier TemperatureApplier,
	notifier *Notifier,
	cache *DiskCache,
	location LocationClient,
	weather WeatherClient,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		cfg:      cfg,
		store:    store,
		selector: selector,
		applier:  applier,
		notifier: notifier,
		cache:    cache,
		location: location,
		weather:  weather,
		logger:   logger,
		now:      time.Now,
	}
}

// RunCycle performs one automatic-mode evaluation. In manual mode it is a
// no-op: the mode controller owns the screen then.
func (e *Engine) RunCycle(ctx context.Context) error {
	state := e.store.Current()
	if state.Mode == models.ModeManual {
		e.logger.Debug("Manual mode active, skipping automatic cycle")
		return nil
	}

	location := e.ResolveLocation(ctx, false)
	weather := e.ResolveWeather(ctx, location)
	profile := e.selector.SelectProfile(e.now(), location, weather)

	e.mu.Lock()
	e.cycleCount++
	e.lastCycle = e.now()
	e.lastProfile = profile.Name
	e.mu.Unlock()

	if profile.Kelvin == state.LastKelvin {
		e.logger.Debug("Temperature unchanged",
			zap.String("profile", profile.Name),
			zap.Int("kelvin", profile.Kelvin))
		return nil
	}

	e.logger.Info("Profile selected",
		zap.String("profile", profile.Name),
		zap.Int("kelvin", profile.Kelvin),
		zap.Int("previous_kelvin", state.LastKelvin))

	return e.applyAndRecord(profile.Kelvin)
}

// ApplyKelvin sets an arbitrary temperature, bypassing selection. Used by
// the test subcommand and the control API.
func (e *Engine) ApplyKelvin(kelvin int) error {
	return e.applyAndRecord(kelvin)
}

func (e *Engine) applyAndRecord(kelvin int) error {
	if err := e.applier.Apply(kelvin); err != nil {
		e.logger.Error("Failed to apply temperature",
			zap.Int("kelvin", kelvin),
			zap.Error(err))
		e.notifier.Send(fmt.Sprintf("Error setting temperature: %v", err))
		return err
	}

	e.mu.Lock()
	e.applyCount++
	e.mu.Unlock()

	if _, err := e.store.Update(func(st *models.ModeState) {
		st.LastKelvin = kelvin
	}); err != nil {
		// Screen is set; the stale file only costs one redundant apply
		// after a restart.
		e.logger.Warn("Applied temperature not persisted", zap.Error(err))
	}

	e.notifier.Send(fmt.Sprintf("Screen temperature set to %dK", kelvin))
	return nil
}

// ResolveLocation returns the best known location, in order: disk cache,
// geolocation API, configured fallback. It never fails; force skips the
// cache read.
func (e *Engine) ResolveLocation(ctx context.Context, force bool) *models.LocationInfo {
	if !force {
		var cached models.LocationInfo
		if _, err := e.cache.Read(locationCacheEntry, &cached); err == nil {
			return &cached
		}
	}

	if e.location != nil {
		location, err := e.location.Lookup(ctx)
		if err == nil {
			if err := e.cache.Write(locationCacheEntry, location); err != nil {
				e.logger.Warn("Failed to cache location", zap.Error(err))
			}
			return location
		}

		e.recordResolveFailure()
		e.logger.Warn("Geolocation lookup failed", zap.Error(err))

		// The lookup may have been forced past a perfectly good cache.
		var cached models.LocationInfo
		if _, err := e.cache.Read(locationCacheEntry, &cached); err == nil {
			return &cached
		}
	} else {
		e.logger.Debug("No geolocation API key configured")
	}

	fallback := e.cfg.Fallback
	e.logger.Info("Using fallback location",
		zap.String("city", fallback.City),
		zap.String("country", fallback.Country))
	return &fallback
}

// RefreshLocation drops the cached location and resolves it again.
func (e *Engine) RefreshLocation(ctx context.Context) (*models.LocationInfo, error) {
	if err := e.cache.Drop(locationCacheEntry); err != nil {
		e.logger.Warn("Failed to drop cached location", zap.Error(err))
	}

	if e.location == nil {
		return nil, fmt.Errorf("no geolocation API key configured")
	}

	location, err := e.location.Lookup(ctx)
	if err != nil {
		e.recordResolveFailure()
		return nil, fmt.Errorf("refresh location: %w", err)
	}

	if err := e.cache.Write(locationCacheEntry, location); err != nil {
		e.logger.Warn("Failed to cache location", zap.Error(err))
	}
	return location, nil
}

// ResolveWeather returns current conditions, honoring the refresh interval
// and falling back to a not-too-stale cached reading when the API fails.
// A nil return means weather is unavailable and the selector should degrade.
func (e *Engine) ResolveWeather(ctx context.Context, location *models.LocationInfo) *models.WeatherInfo {
	var cached models.WeatherInfo
	storedAt, cacheErr := e.cache.Read(weatherCacheEntry, &cached)
	age := e.now().Sub(storedAt)

	if cacheErr == nil && age < e.cfg.WeatherRefreshInterval {
		e.logger.Debug("Using cached weather",
			zap.Duration("age", age),
			zap.String("condition", string(cached.Condition)))
		return &cached
	}

	if e.weather == nil {
		e.logger.Debug("No weather API key configured")
		return e.staleWeatherOrNil(&cached, cacheErr, age)
	}

	weather, err := e.weather.CurrentByCoords(ctx, location.Latitude, location.Longitude)
	if err != nil {
		e.recordResolveFailure()
		e.logger.Warn("Weather lookup failed", zap.Error(err))
		return e.staleWeatherOrNil(&cached, cacheErr, age)
	}

	if err := e.cache.Write(weatherCacheEntry, weather); err != nil {
		e.logger.Warn("Failed to cache weather", zap.Error(err))
	}
	return weather
}

func (e *Engine) staleWeatherOrNil(cached *models.WeatherInfo, cacheErr error, age time.Duration) *models.WeatherInfo {
	if cacheErr == nil && age < e.cfg.WeatherMaxStale {
		e.logger.Info("Using stale cached weather",
			zap.Duration("age", age))
		return cached
	}
	return nil
}

func (e *Engine) recordResolveFailure() {
	e.mu.Lock()
	e.resolveFailures++
	e.mu.Unlock()
}

// StatusReport is the snapshot behind the status subcommand and the
// control API.
type StatusReport struct {
	Location *models.LocationInfo `json:"location"`
	Weather  *models.WeatherInfo  `json:"weather,omitempty"`
	Period   string               `json:"period"`
	Profile  string               `json:"profile"`
	State    models.ModeState     `json:"state"`
}

// Status resolves location and weather (cache-first) and reports what the
// automatic selection would currently be, alongside the persisted state.
func (e *Engine) Status(ctx context.Context) StatusReport {
	location := e.ResolveLocation(ctx, false)
	weather := e.ResolveWeather(ctx, location)

	period := "day"
	if e.selector.IsNight(e.now(), location) {
		period = "night"
	}

	return StatusReport{
		Location: location,
		Weather:  weather,
		Period:   period,
		Profile:  e.selector.SelectProfile(e.now(), location, weather).Name,
		State:    e.store.Current(),
	}
}

// Stats reports cycle counters for the health endpoint.
func (e *Engine) Stats() map[string]interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	return map[string]interface{}{
		"cycles":           e.cycleCount,
		"applies":          e.applyCount,
		"resolve_failures": e.resolveFailures,
		"last_cycle":       e.lastCycle,
		"last_profile":     e.lastProfile,
	}
}
