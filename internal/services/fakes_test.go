package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xvierd/pomo-cli/internal/adapters/storage"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

func setupTestStorage(t *testing.T) (ports.Storage, func()) {
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	return store, func() { _ = store.Close() }
}

// fakeClock is a manual clock. Callbacks fire only from Advance, in the
// caller's goroutine.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	c       *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) ports.Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{c: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward, firing due callbacks in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if next.at.After(c.now) {
			c.now = next.at
		}
		next.fired = true
		c.mu.Unlock()
		next.f()
	}
}

// Jump moves time forward without firing anything, like a suspended process.
func (c *fakeClock) Jump(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Pending returns the number of armed callbacks.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// memTimerRepo is an in-memory ports.TimerRepository.
type memTimerRepo struct {
	mu      sync.Mutex
	rec     *domain.TimerRecord
	daily   domain.DailyCounter
	saves   []domain.TimerState
	saveErr error
	loadErr error
}

func (r *memTimerRepo) Load(context.Context) (*domain.TimerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.rec == nil {
		return nil, nil
	}
	rec := *r.rec
	return &rec, nil
}

func (r *memTimerRepo) LoadDaily(context.Context) (domain.DailyCounter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.daily, nil
}

func (r *memTimerRepo) Save(_ context.Context, st domain.TimerState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, st)
	if r.saveErr != nil {
		return r.saveErr
	}
	left, total, sessions := st.TimeLeft, st.TotalTime, st.SessionsCompleted
	r.rec = &domain.TimerRecord{
		Mode:              st.Mode,
		TimeLeft:          &left,
		TotalTime:         &total,
		Running:           st.Running,
		SessionsCompleted: &sessions,
	}
	if st.Running && st.EndTime != nil {
		end := *st.EndTime
		r.rec.EndTime = &end
	}
	r.daily = domain.DailyCounter{Date: st.DateKey, Count: st.SessionsToday}
	return nil
}

func (r *memTimerRepo) last() domain.TimerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves[len(r.saves)-1]
}

var errStoreDown = errors.New("store unavailable")

// eventLog records engine events.
type eventLog struct {
	mu     sync.Mutex
	events []domain.TimerEvent
}

func (l *eventLog) record(ev domain.TimerEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) completions() []domain.TimerEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.TimerEvent
	for _, ev := range l.events {
		if ev.Kind == domain.EventCompleted {
			out = append(out, ev)
		}
	}
	return out
}
