package ports

import (
	"context"

	"github.com/xvierd/pomo-cli/internal/domain"
)

// TimerCommand represents a user action on the timer.
type TimerCommand string

const (
	// CmdStart starts or resumes the countdown.
	CmdStart TimerCommand = "start"

	// CmdPause freezes the countdown.
	CmdPause TimerCommand = "pause"

	// CmdToggle starts when idle and pauses when running.
	CmdToggle TimerCommand = "toggle"

	// CmdReset restores the full duration of the current mode.
	CmdReset TimerCommand = "reset"

	// CmdSkip moves to the next mode without counting a session.
	CmdSkip TimerCommand = "skip"

	// CmdWork switches to focus mode.
	CmdWork TimerCommand = "work"

	// CmdShort switches to a short break.
	CmdShort TimerCommand = "short"

	// CmdLong switches to a long break.
	CmdLong TimerCommand = "long"

	// CmdResetSessions zeroes the session counters.
	CmdResetSessions TimerCommand = "reset_sessions"
)

// TimerController is the control surface of the timer engine.
// This is a driving port (called by adapters).
type TimerController interface {
	// Snapshot returns the current state.
	Snapshot() domain.TimerState

	// Start begins the countdown.
	Start()

	// Pause freezes the countdown.
	Pause()

	// Toggle starts or pauses.
	Toggle()

	// Reset restores the full duration of the current mode.
	Reset()

	// Skip moves to the next mode.
	Skip()

	// SetMode switches to the given mode.
	SetMode(m domain.Mode)

	// ResetSessions zeroes the session counters.
	ResetSessions()

	// Subscribe registers a listener and returns a function that removes it.
	Subscribe(fn func(domain.TimerEvent)) func()
}

// Timer is the interactive timer interface.
// This is a driving port (called by the application layer).
type Timer interface {
	// Run starts the interface and blocks until the user quits.
	Run(ctx context.Context) error

	// Stop gracefully stops the interface.
	Stop()
}
