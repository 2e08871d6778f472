package domain

import "time"

// Per-mode minute bounds.
const (
	MinMinutes      = 1
	MaxWorkMinutes  = 120
	MaxBreakMinutes = 60

	DefaultWorkMinutes  = 25
	DefaultShortMinutes = 5
	DefaultLongMinutes  = 15
)

// Settings holds the user-adjustable duration of each mode, in minutes.
type Settings struct {
	WorkMinutes  int
	ShortMinutes int
	LongMinutes  int
}

// DefaultSettings returns 25/5/15.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:  DefaultWorkMinutes,
		ShortMinutes: DefaultShortMinutes,
		LongMinutes:  DefaultLongMinutes,
	}
}

// Normalize substitutes defaults for non-positive values and clamps each
// field into its allowed range.
func (s Settings) Normalize() Settings {
	return Settings{
		WorkMinutes:  normalizeMinutes(s.WorkMinutes, DefaultWorkMinutes, MaxWorkMinutes),
		ShortMinutes: normalizeMinutes(s.ShortMinutes, DefaultShortMinutes, MaxBreakMinutes),
		LongMinutes:  normalizeMinutes(s.LongMinutes, DefaultLongMinutes, MaxBreakMinutes),
	}
}

// Minutes returns the configured minutes of a mode.
func (s Settings) Minutes(m Mode) int {
	switch m {
	case ModeShort:
		return s.ShortMinutes
	case ModeLong:
		return s.LongMinutes
	default:
		return s.WorkMinutes
	}
}

// Duration returns the configured duration of a mode.
func (s Settings) Duration(m Mode) time.Duration {
	return time.Duration(s.Minutes(m)) * time.Minute
}

// ModeTable builds a mode table from the settings with the given long break cadence.
func (s Settings) ModeTable(interval int) ModeTable {
	return ModeTable{
		Work:              s.Duration(ModeWork),
		Short:             s.Duration(ModeShort),
		Long:              s.Duration(ModeLong),
		LongBreakInterval: interval,
	}
}

func normalizeMinutes(v, fallback, max int) int {
	if v <= 0 {
		v = fallback
	}
	return clamp(v, MinMinutes, max)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
