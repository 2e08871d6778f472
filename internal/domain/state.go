package domain

import (
	"fmt"
	"time"
)

// TimerState is a plain-data snapshot of the timer engine.
type TimerState struct {
	Mode              Mode
	TimeLeft          int // seconds
	TotalTime         int // seconds
	Running           bool
	EndTime           *time.Time
	SessionsCompleted int
	SessionsToday     int
	DateKey           string
}

// DefaultTimerState returns an idle work-mode state for the given table.
func DefaultTimerState(table ModeTable) TimerState {
	secs := table.Seconds(ModeWork)
	return TimerState{
		Mode:      ModeWork,
		TimeLeft:  secs,
		TotalTime: secs,
	}
}

// TimerRecord is a persisted snapshot as read back from storage.
// Nil fields were missing or unreadable.
type TimerRecord struct {
	Mode              Mode
	TimeLeft          *int
	TotalTime         *int
	Running           bool
	EndTime           *time.Time
	SessionsCompleted *int
}

// Resolve turns a stored record into a consistent state, substituting
// the table's duration for missing fields. An idle record adopts the
// table's total time and never keeps more time left than that.
func (r TimerRecord) Resolve(table ModeTable) TimerState {
	if !r.Mode.Valid() {
		return DefaultTimerState(table)
	}

	full := table.Seconds(r.Mode)
	st := TimerState{
		Mode:      r.Mode,
		TimeLeft:  full,
		TotalTime: full,
	}
	if r.TimeLeft != nil {
		st.TimeLeft = max(0, *r.TimeLeft)
	}
	if r.TotalTime != nil {
		st.TotalTime = max(1, *r.TotalTime)
	}
	if r.SessionsCompleted != nil {
		st.SessionsCompleted = max(0, *r.SessionsCompleted)
	}
	if r.Running && r.EndTime != nil {
		end := *r.EndTime
		st.Running = true
		st.EndTime = &end
	}

	if !st.Running {
		st.TotalTime = full
	}
	if st.TimeLeft > st.TotalTime {
		st.TimeLeft = st.TotalTime
	}
	return st
}

// ComputeRemaining returns the whole seconds left until end, rounded up and never negative.
func ComputeRemaining(end, now time.Time) int {
	d := end.Sub(now)
	if d <= 0 {
		return 0
	}
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}

// Progress returns the elapsed fraction of the current period in [0,1].
func (s TimerState) Progress() float64 {
	if s.TotalTime <= 0 {
		return 0
	}
	p := 1 - float64(s.TimeLeft)/float64(s.TotalTime)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Remaining returns the time left as a duration.
func (s TimerState) Remaining() time.Duration {
	return time.Duration(s.TimeLeft) * time.Second
}

// SessionDots returns how many of the cadence dots are filled.
func (s TimerState) SessionDots(interval int) int {
	if interval <= 0 {
		interval = DefaultLongBreakInterval
	}
	return s.SessionsCompleted % interval
}

// StatusLabel returns a human-readable running state.
func (s TimerState) StatusLabel() string {
	switch {
	case s.Running:
		return "Running"
	case s.TimeLeft < s.TotalTime:
		return "Paused"
	default:
		return "Ready"
	}
}

// FormatClock renders whole seconds as MM:SS. Minutes are not wrapped at 60.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// TimerEventKind distinguishes plain state changes from completions.
type TimerEventKind string

const (
	EventChanged   TimerEventKind = "changed"
	EventCompleted TimerEventKind = "completed"
)

// TimerEvent is delivered to engine subscribers after every transition.
type TimerEvent struct {
	Kind     TimerEventKind
	State    TimerState
	Finished Mode // mode that just completed, set on EventCompleted
	Next     Mode
	Minutes  int  // logged focus minutes, zero for breaks
	Late     bool // completion detected on restore
}

// CompletionMessage returns the notification body for a finished mode.
func CompletionMessage(finished Mode) string {
	if finished == ModeWork {
		return "Focus session complete! Take a break."
	}
	return "Break over! Time to focus."
}

// CurrentState aggregates what the status views show.
type CurrentState struct {
	Timer        TimerState
	Interval     int
	ActiveTask   *Task
	PendingTasks int
	TodayMinutes int
}
