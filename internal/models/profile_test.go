package models

import "testing"

func TestClassifyCondition(t *testing.T) {
	tests := []struct {
		owmMain string
		want    Condition
	}{
		{"Clear", ConditionClear},
		{"Rain", ConditionRainy},
		{"Drizzle", ConditionRainy},
		{"Thunderstorm", ConditionRainy},
		{"Clouds", ConditionCloudy},
		{"Snow", ConditionCloudy},
		{"Mist", ConditionCloudy},
		{"Fog", ConditionCloudy},
		{"", ConditionUnknown},
	}

	for _, tt := range tests {
		if got := ClassifyCondition(tt.owmMain); got != tt.want {
			t.Errorf("ClassifyCondition(%q) = %q, want %q", tt.owmMain, got, tt.want)
		}
	}
}

func TestProfileTable(t *testing.T) {
	kelvins := map[string]int{
		DayClear.Name:     6500,
		DayCloudy.Name:    5800,
		DayRainy.Name:     5200,
		NightDefault.Name: 4200,
		NightCold.Name:    3800,
		ManualOn.Name:     5000,
		ManualOff.Name:    6500,
	}

	for _, profile := range []Profile{DayClear, DayCloudy, DayRainy, NightDefault, NightCold, ManualOn, ManualOff} {
		if profile.Kelvin != kelvins[profile.Name] {
			t.Errorf("%s = %dK, want %dK", profile.Name, profile.Kelvin, kelvins[profile.Name])
		}
	}
}
