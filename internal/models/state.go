package models

import "time"

// LocationInfo is the IP-derived location. It is resolved once and cached on
// disk until the user asks for a refresh.
type LocationInfo struct {
	City       string    `json:"city"`
	Country    string    `json:"country"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// WeatherInfo is one current-conditions reading.
type WeatherInfo struct {
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	AmbientC    float64   `json:"ambient_celsius"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Mode says who decides the screen temperature.
type Mode string

const (
	ModeAutomatic Mode = "automatic"
	ModeManual    Mode = "manual"
)

// ModeState is the persisted mode record. It is the sole source of truth
// across process restarts; every mutation is written to disk before the
// mutating call returns.
type ModeState struct {
	Mode       Mode      `json:"mode"`
	FilterOn   bool      `json:"filter_on"`
	LastKelvin int       `json:"last_kelvin"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultModeState is what a fresh install (or an unreadable state file)
// starts from.
func DefaultModeState() ModeState {
	return ModeState{
		Mode:       ModeAutomatic,
		FilterOn:   false,
		LastKelvin: 4500,
	}
}
