package services

import (
	"context"
	"io"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// DefaultPollInterval is how often a running countdown re-reads the clock.
const DefaultPollInterval = 250 * time.Millisecond

// EngineOption configures a TimerEngine.
type EngineOption func(*TimerEngine)

// WithPollInterval overrides the polling interval.
func WithPollInterval(d time.Duration) EngineOption {
	return func(e *TimerEngine) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *TimerEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAutoStart makes the next mode start right after a completion.
func WithAutoStart(enabled bool) EngineOption {
	return func(e *TimerEngine) {
		e.autoStart = enabled
	}
}

// TimerEngine is the countdown state machine. Remaining time is always
// derived from the absolute end time, so missed polls never drift the
// countdown. Every transition is persisted through the timer repository.
type TimerEngine struct {
	mu           sync.Mutex
	clock        ports.Clock
	store        ports.TimerRepository
	logger       *slog.Logger
	table        domain.ModeTable
	pollInterval time.Duration
	autoStart    bool

	state domain.TimerState
	daily domain.DailyCounter

	poll     ports.Stopper
	gen      uint64
	closed   bool
	restored bool
	lateMode domain.Mode

	subs     map[int]func(domain.TimerEvent)
	nextSub  int
	outbox   []domain.TimerEvent
	flushing bool
}

// Ensure TimerEngine implements ports.TimerController.
var _ ports.TimerController = (*TimerEngine)(nil)

// NewTimerEngine creates an idle engine in work mode. Call Restore to
// pick up a persisted snapshot.
func NewTimerEngine(clock ports.Clock, store ports.TimerRepository, table domain.ModeTable, opts ...EngineOption) *TimerEngine {
	e := &TimerEngine{
		clock:        clock,
		store:        store,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		table:        table,
		pollInterval: DefaultPollInterval,
		state:        domain.DefaultTimerState(table),
		subs:         make(map[int]func(domain.TimerEvent)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.daily = domain.DailyCounter{Date: domain.DateKey(clock.Now())}
	return e
}

// Restore loads the persisted snapshot and daily counter. A countdown
// whose end passed while the process was not running completes once,
// flagged as late. A countdown still in the future resumes polling.
func (e *TimerEngine) Restore(ctx context.Context) {
	rec, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Warn("failed to load timer state", "error", err)
	}
	daily, err := e.store.LoadDaily(ctx)
	if err != nil {
		e.logger.Warn("failed to load daily counter", "error", err)
	}

	e.mu.Lock()
	e.stopPollLocked()
	e.restored = true
	e.lateMode = ""
	if rec != nil {
		e.state = rec.Resolve(e.table)
	} else {
		e.state = domain.DefaultTimerState(e.table)
	}
	e.daily = daily
	now := e.clock.Now()
	e.daily.Rollover(domain.DateKey(now))

	if e.state.Running {
		e.state.TimeLeft = domain.ComputeRemaining(*e.state.EndTime, now)
		if e.state.TimeLeft > e.state.TotalTime {
			end := now.Add(time.Duration(e.state.TotalTime) * time.Second)
			e.state.EndTime = &end
			e.state.TimeLeft = e.state.TotalTime
		}
		if e.state.TimeLeft == 0 {
			e.logger.Info("countdown ended while away", "mode", e.state.Mode)
			e.lateMode = e.state.Mode
			e.completeLocked(now, true)
		} else {
			e.schedulePollLocked()
			e.changedLocked()
		}
	} else {
		e.changedLocked()
	}
	e.mu.Unlock()
	e.flush()
}

// CompletedWhileAway reports the mode whose countdown Restore found
// already ended.
func (e *TimerEngine) CompletedWhileAway() (domain.Mode, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lateMode, e.lateMode != ""
}

// Snapshot returns the current state with the remaining time recomputed.
func (e *TimerEngine) Snapshot() domain.TimerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(e.clock.Now())
}

// Table returns the current mode table.
func (e *TimerEngine) Table() domain.ModeTable {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table
}

// Start begins the countdown. A period with no time left completes instead.
func (e *TimerEngine) Start() {
	e.mu.Lock()
	e.startLocked(e.clock.Now())
	e.mu.Unlock()
	e.flush()
}

// Pause freezes the countdown at the drift-corrected remaining time.
func (e *TimerEngine) Pause() {
	e.mu.Lock()
	if e.state.Running {
		e.pauseLocked(e.clock.Now())
		e.changedLocked()
	}
	e.mu.Unlock()
	e.flush()
}

// Toggle starts an idle timer and pauses a running one.
func (e *TimerEngine) Toggle() {
	e.mu.Lock()
	now := e.clock.Now()
	if e.state.Running {
		e.pauseLocked(now)
		e.changedLocked()
	} else {
		e.startLocked(now)
	}
	e.mu.Unlock()
	e.flush()
}

// Tick recomputes the remaining time and completes the period at zero.
func (e *TimerEngine) Tick() {
	e.mu.Lock()
	e.tickLocked()
	e.mu.Unlock()
	e.flush()
}

// SetMode switches modes, stopping a running countdown. It never counts
// as a completion.
func (e *TimerEngine) SetMode(m domain.Mode) {
	if !m.Valid() {
		return
	}
	e.mu.Lock()
	now := e.clock.Now()
	e.pauseLocked(now)
	e.loadModeLocked(m)
	e.changedLocked()
	e.mu.Unlock()
	e.flush()
}

// Reset restores the full duration of the current mode.
func (e *TimerEngine) Reset() {
	e.mu.Lock()
	e.pauseLocked(e.clock.Now())
	e.loadModeLocked(e.state.Mode)
	e.changedLocked()
	e.mu.Unlock()
	e.flush()
}

// Skip leaves the current period without counting it. Focus moves to the
// break a completion would have produced, a break moves to focus.
func (e *TimerEngine) Skip() {
	e.mu.Lock()
	e.pauseLocked(e.clock.Now())
	e.loadModeLocked(e.table.SkipTarget(e.state.Mode, e.state.SessionsCompleted))
	e.changedLocked()
	e.mu.Unlock()
	e.flush()
}

// ResetSessions zeroes the session cadence and today's counter.
func (e *TimerEngine) ResetSessions() {
	e.mu.Lock()
	e.daily.Rollover(domain.DateKey(e.clock.Now()))
	e.state.SessionsCompleted = 0
	e.daily.Count = 0
	e.changedLocked()
	e.mu.Unlock()
	e.flush()
}

// ApplyDurationChange updates one mode's duration. The active mode picks
// it up immediately when idle; a running countdown keeps its end time and
// the new value applies on the next SetMode or Reset. Before Restore only
// the table changes and nothing is persisted.
func (e *TimerEngine) ApplyDurationChange(m domain.Mode, seconds int) {
	if !m.Valid() || seconds <= 0 {
		return
	}
	d := time.Duration(seconds) * time.Second
	e.mu.Lock()
	if e.table.Duration(m) == d {
		e.mu.Unlock()
		return
	}
	e.table = e.table.WithDuration(m, d)
	if m == e.state.Mode && !e.state.Running {
		e.state.TimeLeft = seconds
		e.state.TotalTime = seconds
	}
	if !e.restored {
		e.mu.Unlock()
		return
	}
	e.changedLocked()
	e.mu.Unlock()
	e.flush()
}

// SetAutoStart enables or disables starting the next mode after a completion.
func (e *TimerEngine) SetAutoStart(enabled bool) {
	e.mu.Lock()
	e.autoStart = enabled
	e.mu.Unlock()
}

// Subscribe registers fn for every event. Listeners run outside the
// engine lock, one event at a time, in transition order.
func (e *TimerEngine) Subscribe(fn func(domain.TimerEvent)) func() {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Close stops polling. The state stays readable.
func (e *TimerEngine) Close() {
	e.mu.Lock()
	e.stopPollLocked()
	e.closed = true
	e.mu.Unlock()
}

func (e *TimerEngine) startLocked(now time.Time) {
	if e.state.Running {
		return
	}
	if e.state.TimeLeft <= 0 {
		e.completeLocked(now, false)
		return
	}
	end := now.Add(time.Duration(e.state.TimeLeft) * time.Second)
	e.state.Running = true
	e.state.EndTime = &end
	e.schedulePollLocked()
	e.changedLocked()
}

// pauseLocked freezes a running countdown without emitting an event.
func (e *TimerEngine) pauseLocked(now time.Time) {
	e.stopPollLocked()
	if !e.state.Running {
		return
	}
	e.state.TimeLeft = domain.ComputeRemaining(*e.state.EndTime, now)
	e.state.Running = false
	e.state.EndTime = nil
}

func (e *TimerEngine) loadModeLocked(m domain.Mode) {
	secs := e.table.Seconds(m)
	e.state.Mode = m
	e.state.TimeLeft = secs
	e.state.TotalTime = secs
}

func (e *TimerEngine) tickLocked() {
	if !e.state.Running {
		return
	}
	now := e.clock.Now()
	left := domain.ComputeRemaining(*e.state.EndTime, now)
	if left == 0 {
		e.completeLocked(now, false)
		return
	}
	if left != e.state.TimeLeft {
		e.state.TimeLeft = left
		e.changedLocked()
	}
}

// completeLocked runs the completion transition exactly once for the
// current period.
func (e *TimerEngine) completeLocked(now time.Time, late bool) {
	e.stopPollLocked()
	finished := e.state.Mode
	e.state.Running = false
	e.state.EndTime = nil
	e.state.TimeLeft = 0

	minutes := 0
	if finished == domain.ModeWork {
		e.daily.Rollover(domain.DateKey(now))
		e.state.SessionsCompleted++
		e.daily.Count++
		minutes = max(1, int(math.Round(e.table.Work.Minutes())))
	}
	next := e.table.NextMode(finished, e.state.SessionsCompleted)
	e.loadModeLocked(next)

	if e.autoStart && !e.closed {
		end := now.Add(time.Duration(e.state.TimeLeft) * time.Second)
		e.state.Running = true
		e.state.EndTime = &end
		e.schedulePollLocked()
	}

	snap := e.persistLocked(now)
	e.logger.Info("period complete", "finished", finished, "next", next, "sessions", snap.SessionsCompleted, "late", late)
	e.outbox = append(e.outbox, domain.TimerEvent{
		Kind:     domain.EventCompleted,
		State:    snap,
		Finished: finished,
		Next:     next,
		Minutes:  minutes,
		Late:     late,
	})
}

// changedLocked persists the state and queues a change event.
func (e *TimerEngine) changedLocked() {
	snap := e.persistLocked(e.clock.Now())
	e.outbox = append(e.outbox, domain.TimerEvent{Kind: domain.EventChanged, State: snap})
}

func (e *TimerEngine) persistLocked(now time.Time) domain.TimerState {
	if e.daily.Rollover(domain.DateKey(now)) {
		e.logger.Debug("daily counter rolled over", "date", e.daily.Date)
	}
	snap := e.snapshotLocked(now)
	if err := e.store.Save(context.Background(), snap); err != nil {
		e.logger.Warn("failed to persist timer state", "error", err)
	}
	return snap
}

func (e *TimerEngine) snapshotLocked(now time.Time) domain.TimerState {
	snap := e.state
	if snap.Running && snap.EndTime != nil {
		end := *snap.EndTime
		snap.EndTime = &end
		snap.TimeLeft = domain.ComputeRemaining(end, now)
	}
	today := domain.DateKey(now)
	snap.DateKey = today
	if e.daily.Date == today {
		snap.SessionsToday = e.daily.Count
	} else {
		snap.SessionsToday = 0
	}
	return snap
}

// schedulePollLocked arms the single polling callback. Any previous
// callback is invalidated by bumping the generation.
func (e *TimerEngine) schedulePollLocked() {
	e.stopPollLocked()
	if e.closed {
		return
	}
	gen := e.gen
	e.poll = e.clock.AfterFunc(e.pollInterval, func() { e.onPoll(gen) })
}

func (e *TimerEngine) stopPollLocked() {
	e.gen++
	if e.poll != nil {
		e.poll.Stop()
		e.poll = nil
	}
}

func (e *TimerEngine) onPoll(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || e.closed {
		e.mu.Unlock()
		return
	}
	e.poll = nil
	e.tickLocked()
	if e.state.Running && e.poll == nil {
		e.schedulePollLocked()
	}
	e.mu.Unlock()
	e.flush()
}

// flush delivers queued events. Only one goroutine delivers at a time;
// events queued by listeners are picked up by the same loop.
func (e *TimerEngine) flush() {
	e.mu.Lock()
	if e.flushing {
		e.mu.Unlock()
		return
	}
	e.flushing = true
	for len(e.outbox) > 0 {
		ev := e.outbox[0]
		e.outbox = e.outbox[1:]
		ids := make([]int, 0, len(e.subs))
		for id := range e.subs {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		fns := make([]func(domain.TimerEvent), 0, len(ids))
		for _, id := range ids {
			fns = append(fns, e.subs[id])
		}
		e.mu.Unlock()
		for _, fn := range fns {
			fn(ev)
		}
		e.mu.Lock()
	}
	e.flushing = false
	e.mu.Unlock()
}
