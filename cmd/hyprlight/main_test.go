package main

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		args    []string
		want    commandKind
		kelvin  int
		wantErr bool
	}{
		{nil, cmdDaemon, 0, false},
		{[]string{"status"}, cmdStatus, 0, false},
		{[]string{"manual"}, cmdToggleMode, 0, false},
		{[]string{"auto"}, cmdForceAuto, 0, false},
		{[]string{"force-manual"}, cmdForceManual, 0, false},
		{[]string{"toggle"}, cmdToggleFilter, 0, false},
		{[]string{"refresh-location"}, cmdRefreshLocation, 0, false},
		{[]string{"test", "5000"}, cmdTest, 5000, false},
		{[]string{"test"}, 0, 0, true},
		{[]string{"test", "warm"}, 0, 0, true},
		{[]string{"frobnicate"}, 0, 0, true},
	}

	for _, tt := range tests {
		got, err := parseCommand(tt.args)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCommand(%v) error = nil, want error", tt.args)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCommand(%v) error: %v", tt.args, err)
			continue
		}
		if got.kind != tt.want {
			t.Errorf("parseCommand(%v).kind = %v, want %v", tt.args, got.kind, tt.want)
		}
		if got.kelvin != tt.kelvin {
			t.Errorf("parseCommand(%v).kelvin = %d, want %d", tt.args, got.kelvin, tt.kelvin)
		}
	}
}

func TestResolveLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		flagChanged bool
		flagValue   string
		configValue string
		want        string
	}{
		{"config wins when flag unset", false, "info", "debug", "debug"},
		{"flag default when nothing configured", false, "info", "", "info"},
		{"explicit flag overrides config", true, "warn", "debug", "warn"},
	}

	for _, tt := range tests {
		if got := resolveLogLevel(tt.flagChanged, tt.flagValue, tt.configValue); got != tt.want {
			t.Errorf("%s: resolveLogLevel() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
