package models

// Profile is a named screen temperature preset. The set of profiles is fixed;
// the selector and the mode controller only ever hand out the values below.
type Profile struct {
	Name   string `json:"name"`
	Kelvin int    `json:"kelvin"`
}

var (
	DayClear     = Profile{Name: "day-clear", Kelvin: 6500}
	DayCloudy    = Profile{Name: "day-cloudy", Kelvin: 5800}
	DayRainy     = Profile{Name: "day-rainy", Kelvin: 5200}
	NightDefault = Profile{Name: "night-default", Kelvin: 4200}
	NightCold    = Profile{Name: "night-cold", Kelvin: 3800}
	ManualOn     = Profile{Name: "manual-on", Kelvin: 5000}
	ManualOff    = Profile{Name: "manual-off", Kelvin: 6500}
)

// NightColdThreshold is the ambient temperature (°C) below which the colder
// night profile is preferred.
const NightColdThreshold = 5.0

// Condition is the coarse weather class the selector branches on.
type Condition string

const (
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRainy   Condition = "rainy"
	ConditionUnknown Condition = "unknown"
)

// ClassifyCondition maps an OpenWeatherMap "main" group to a Condition.
// Anything recognizable that is neither clear nor precipitation counts as
// cloudy, matching how the display should react to reduced daylight.
func ClassifyCondition(owmMain string) Condition {
	switch owmMain {
	case "":
		return ConditionUnknown
	case "Clear":
		return ConditionClear
	case "Rain", "Drizzle", "Thunderstorm":
		return ConditionRainy
	default:
		return ConditionCloudy
	}
}
