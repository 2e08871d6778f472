package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// NotificationTitle is the title of completion notifications.
const NotificationTitle = "Pomodoro"

// lateSuffix marks completions that happened while the program was closed.
const lateSuffix = " (while you were away)"

// AlarmService plays the chime and shows a notification on every completion.
// Failures are logged and never reach the timer.
type AlarmService struct {
	notifier ports.Notifier
	sound    ports.SoundPlayer
	prefs    *PreferenceService
	enabled  bool
	logger   *slog.Logger
}

// NewAlarmService creates an alarm. notifier and sound may be nil.
func NewAlarmService(notifier ports.Notifier, sound ports.SoundPlayer, prefs *PreferenceService) *AlarmService {
	return &AlarmService{
		notifier: notifier,
		sound:    sound,
		prefs:    prefs,
		enabled:  true,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetNotificationsEnabled turns desktop notifications on or off regardless
// of the stored permission.
func (a *AlarmService) SetNotificationsEnabled(enabled bool) {
	a.enabled = enabled
}

// SetLogger sets the alarm logger.
func (a *AlarmService) SetLogger(logger *slog.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// Observe fires the alarm for completion events.
func (a *AlarmService) Observe(ev domain.TimerEvent) {
	if ev.Kind != domain.EventCompleted {
		return
	}
	a.Fire(context.Background(), ev.Finished, ev.Late)
}

// Fire plays the chime when sound is enabled and notifies when permission
// was granted.
func (a *AlarmService) Fire(ctx context.Context, finished domain.Mode, late bool) {
	prefs := domain.DefaultPreferences()
	if a.prefs != nil {
		p, err := a.prefs.Get(ctx)
		if err != nil {
			a.logger.Warn("failed to read preferences", "error", err)
		} else {
			prefs = p
		}
	}

	if prefs.SoundEnabled {
		a.chime()
	}

	if a.enabled && a.notifier != nil && prefs.NotifyPermission == domain.PermissionGranted {
		if err := a.notifier.Notify(NotificationTitle, AlarmMessage(finished, late)); err != nil {
			a.logger.Debug("notification failed", "error", err)
		}
	}
}

func (a *AlarmService) chime() {
	if a.sound != nil {
		err := a.sound.Chime()
		if err == nil {
			return
		}
		a.logger.Debug("chime failed, falling back to bell", "error", err)
	}
	if a.notifier != nil {
		if err := a.notifier.Beep(); err != nil {
			a.logger.Debug("bell failed", "error", err)
		}
	}
}

// AlarmMessage returns the notification body for a completion.
func AlarmMessage(finished domain.Mode, late bool) string {
	msg := domain.CompletionMessage(finished)
	if late {
		msg += lateSuffix
	}
	return msg
}
