// Package clock provides the wall clock used by the timer engine.
package clock

import (
	"time"

	"github.com/xvierd/pomo-cli/internal/ports"
)

// System is the standard library clock.
type System struct{}

// Ensure System implements ports.Clock.
var _ ports.Clock = System{}

// New returns the system clock.
func New() System {
	return System{}
}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f on a runtime timer.
func (System) AfterFunc(d time.Duration, f func()) ports.Stopper {
	return time.AfterFunc(d, f)
}
