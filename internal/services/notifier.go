package services

import (
	"os/exec"

	"go.uber.org/zap"
)

// Notifier sends best-effort desktop notifications through notify-send.
// A missing binary or a failed send is never an error.
type Notifier struct {
	enabled bool
	logger  *zap.Logger
}

func NewNotifier(enabled bool, logger *zap.Logger) *Notifier {
	if enabled {
		if _, err := exec.LookPath("notify-send"); err != nil {
			logger.Debug("notify-send not found, desktop notifications disabled")
			enabled = false
		}
	}
	return &Notifier{enabled: enabled, logger: logger}
}

func (n *Notifier) Send(message string) {
	n.logger.Info("Notification", zap.String("message", message))
	if !n.enabled {
		return
	}

	cmd := exec.Command("notify-send", "-a", "Screen Lighting", "-t", "3000", message)
	if err := cmd.Run(); err != nil {
		n.logger.Debug("Notification failed", zap.Error(err))
	}
}
