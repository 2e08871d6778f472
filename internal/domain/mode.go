package domain

import (
	"fmt"
	"time"
)

// Mode identifies one of the three timer phases.
type Mode string

const (
	ModeWork  Mode = "work"
	ModeShort Mode = "short"
	ModeLong  Mode = "long"
)

// DefaultLongBreakInterval is the number of completed work sessions between long breaks.
const DefaultLongBreakInterval = 4

// Modes lists all modes in tab order.
var Modes = []Mode{ModeWork, ModeShort, ModeLong}

// ParseMode checks if a string names a valid mode.
// The shorthand aliases accepted on the command line map to their canonical ids.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "work", "focus", "1":
		return ModeWork, nil
	case "short", "short_break", "2":
		return ModeShort, nil
	case "long", "long_break", "3":
		return ModeLong, nil
	}
	return "", fmt.Errorf("%w %q: must be one of work, short, long", ErrInvalidMode, s)
}

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	return m == ModeWork || m == ModeShort || m == ModeLong
}

// IsBreak returns true for both break modes.
func (m Mode) IsBreak() bool {
	return m == ModeShort || m == ModeLong
}

// Label returns a human-readable label.
func (m Mode) Label() string {
	switch m {
	case ModeWork:
		return "Focus Time"
	case ModeShort:
		return "Short Break"
	case ModeLong:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// ModeConfig is one entry of the mode table.
type ModeConfig struct {
	ID       Mode
	Duration time.Duration
}

// Label returns the label of the configured mode.
func (c ModeConfig) Label() string {
	return c.ID.Label()
}

// Seconds returns the configured duration in whole seconds.
func (c ModeConfig) Seconds() int {
	return int(c.Duration / time.Second)
}

// ModeTable holds the duration of each mode and the long break cadence.
type ModeTable struct {
	Work              time.Duration
	Short             time.Duration
	Long              time.Duration
	LongBreakInterval int
}

// DefaultModeTable returns the standard 25/5/15 minute table.
func DefaultModeTable() ModeTable {
	return ModeTable{
		Work:              25 * time.Minute,
		Short:             5 * time.Minute,
		Long:              15 * time.Minute,
		LongBreakInterval: DefaultLongBreakInterval,
	}
}

// Config returns the configuration entry for a mode.
func (t ModeTable) Config(m Mode) ModeConfig {
	return ModeConfig{ID: m, Duration: t.Duration(m)}
}

// Duration returns the configured duration of a mode.
// Unknown modes resolve to the work duration.
func (t ModeTable) Duration(m Mode) time.Duration {
	switch m {
	case ModeShort:
		return t.Short
	case ModeLong:
		return t.Long
	default:
		return t.Work
	}
}

// Seconds returns the configured duration of a mode in whole seconds.
func (t ModeTable) Seconds(m Mode) int {
	return int(t.Duration(m) / time.Second)
}

// WithDuration returns a copy of the table with one mode's duration replaced.
func (t ModeTable) WithDuration(m Mode, d time.Duration) ModeTable {
	switch m {
	case ModeWork:
		t.Work = d
	case ModeShort:
		t.Short = d
	case ModeLong:
		t.Long = d
	}
	return t
}

// Interval returns the long break cadence, defaulting when unset.
func (t ModeTable) Interval() int {
	if t.LongBreakInterval <= 0 {
		return DefaultLongBreakInterval
	}
	return t.LongBreakInterval
}

// NextMode returns the mode that follows a completed period.
// sessionsCompleted is the counter value after the completion has been applied.
func (t ModeTable) NextMode(completed Mode, sessionsCompleted int) Mode {
	if completed != ModeWork {
		return ModeWork
	}
	if sessionsCompleted%t.Interval() == 0 {
		return ModeLong
	}
	return ModeShort
}

// SkipTarget returns the mode reached by skipping the current period.
// Skipping work lands on the break a completion would have produced,
// without the completion itself being counted.
func (t ModeTable) SkipTarget(current Mode, sessionsCompleted int) Mode {
	if current != ModeWork {
		return ModeWork
	}
	return t.NextMode(ModeWork, sessionsCompleted+1)
}
