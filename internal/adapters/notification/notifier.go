// Package notification provides desktop notification utilities.
package notification

import (
	"github.com/gen2brain/beeep"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// Notifier handles desktop notifications and the fallback system bell.
type Notifier struct {
	cfg    *config.NotificationConfig
	notify func(title, message string, icon any) error
	beep   func(freq float64, duration int) error
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		notify: beeep.Notify,
		beep:   beeep.Beep,
	}
}

var _ ports.Notifier = (*Notifier)(nil)

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	return n.notify(title, message, "")
}

// Beep rings the system bell unless sound is turned off in the config.
func (n *Notifier) Beep() error {
	if n.cfg != nil && !n.cfg.Sound {
		return nil
	}
	return n.beep(beeep.DefaultFreq, beeep.DefaultDuration)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
