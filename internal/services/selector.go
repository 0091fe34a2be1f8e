package services

import (
	"time"

	"github.com/IamAndelib/Auto-blue-light-filter/internal/models"
	"github.com/sixdouglas/suncalc"
	"go.uber.org/zap"
)

// Selector picks a temperature profile from the time of day and the current
// weather. It never fails: missing weather degrades to a time-of-day-only
// choice, missing location degrades to a fixed-hour day window.
type Selector struct {
	// Fixed-hour day window [DayStartHour, NightStartHour) used when no
	// coordinates are available.
	DayStartHour   int
	NightStartHour int

	logger *zap.Logger
}

func NewSelector(dayStartHour, nightStartHour int, logger *zap.Logger) *Selector {
	return &Selector{
		DayStartHour:   dayStartHour,
		NightStartHour: nightStartHour,
		logger:         logger,
	}
}

// IsNight reports whether now falls outside daylight. With known coordinates
// the sun's altitude decides; otherwise the fixed-hour window does.
func (s *Selector) IsNight(now time.Time, location *models.LocationInfo) bool {
	if location != nil {
		position := suncalc.GetPosition(now, location.Latitude, location.Longitude)
		return position.Altitude <= 0
	}

	hour := now.Hour()
	return hour < s.DayStartHour || hour >= s.NightStartHour
}

// SelectProfile resolves the automatic-mode profile.
//
// Night: ambient below the cold threshold picks night-cold, otherwise
// night-default. Day: the weather condition class decides; clear is also the
// safe default when weather is unknown or unavailable.
func (s *Selector) SelectProfile(now time.Time, location *models.LocationInfo, weather *models.WeatherInfo) models.Profile {
	night := s.IsNight(now, location)

	if weather == nil {
		profile := models.DayClear
		if night {
			profile = models.NightDefault
		}
		s.logger.Debug("Weather unavailable, time-of-day-only selection",
			zap.Bool("night", night),
			zap.String("profile", profile.Name))
		return profile
	}

	if night {
		if weather.AmbientC < models.NightColdThreshold {
			return models.NightCold
		}
		return models.NightDefault
	}

	switch weather.Condition {
	case models.ConditionClear:
		return models.DayClear
	case models.ConditionRainy:
		return models.DayRainy
	case models.ConditionCloudy:
		return models.DayCloudy
	default:
		return models.DayClear
	}
}
