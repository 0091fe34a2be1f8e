package services

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestHyprsunsetApplier_KelvinRange(t *testing.T) {
	applier := NewHyprsunsetApplier("true", false, zap.NewNop())

	for _, kelvin := range []int{0, 999, 10001} {
		if err := applier.Apply(kelvin); !errors.Is(err, ErrToolInvocation) {
			t.Errorf("Apply(%d) error = %v, want ErrToolInvocation", kelvin, err)
		}
	}
}

func TestHyprsunsetApplier_MissingCommand(t *testing.T) {
	applier := NewHyprsunsetApplier("hyprlight-no-such-backend", false, zap.NewNop())

	err := applier.Apply(5000)
	if !errors.Is(err, ErrToolInvocation) {
		t.Errorf("Apply() error = %v, want ErrToolInvocation", err)
	}
}

func TestHyprsunsetApplier_StartsBackend(t *testing.T) {
	// "true" ignores the -t flag and exits immediately; Apply only cares
	// that the process could be started and detached.
	applier := NewHyprsunsetApplier("true", false, zap.NewNop())

	if err := applier.Apply(5000); err != nil {
		t.Errorf("Apply() error: %v", err)
	}
}
