package services

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// TemperatureApplier sets the display color temperature.
type TemperatureApplier interface {
	Apply(kelvin int) error
}

// HyprsunsetApplier drives the external hyprsunset tool. hyprsunset is a
// long-running process that holds the gamma setting, so each apply kills the
// previous instance and spawns a fresh detached one.
type HyprsunsetApplier struct {
	command      string
	killPrevious bool
	settleDelay  time.Duration
	logger       *zap.Logger
}

func NewHyprsunsetApplier(command string, killPrevious bool, logger *zap.Logger) *HyprsunsetApplier {
	return &HyprsunsetApplier{
		command:      command,
		killPrevious: killPrevious,
		settleDelay:  500 * time.Millisecond,
		logger:       logger,
	}
}

func (a *HyprsunsetApplier) Apply(kelvin int) error {
	if kelvin < 1000 || kelvin > 10000 {
		return fmt.Errorf("%w: kelvin %d out of range [1000, 10000]", ErrToolInvocation, kelvin)
	}

	if a.killPrevious {
		// A leftover instance would fight over the gamma setting.
		if err := exec.Command("pkill", "-x", a.command).Run(); err == nil {
			time.Sleep(a.settleDelay)
		}
	}

	cmd := exec.Command(a.command, "-t", strconv.Itoa(kelvin))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: start %s: %v", ErrToolInvocation, a.command, err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		a.logger.Warn("Failed to detach backend process", zap.Error(err))
	}

	a.logger.Info("Screen temperature applied",
		zap.Int("kelvin", kelvin),
		zap.String("command", a.command),
		zap.Int("pid", pid))
	return nil
}
