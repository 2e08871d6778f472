package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// Timer implements the ports.Timer interface using Bubbletea.
type Timer struct {
	model  Model
	source ports.TimerController
	opts   []tea.ProgramOption

	mu      sync.Mutex
	program *tea.Program
}

// NewTimer creates a new TUI timer adapter.
func NewTimer(model Model, opts ...tea.ProgramOption) *Timer {
	return &Timer{
		model:  model,
		source: model.svc.Engine,
		opts:   opts,
	}
}

// Ensure Timer implements ports.Timer.
var _ ports.Timer = (*Timer)(nil)

// Run starts the timer interface and blocks until the user quits.
func (t *Timer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, t.opts...)
	program := tea.NewProgram(t.model, opts...)

	t.mu.Lock()
	t.program = program
	t.mu.Unlock()

	// Engine listeners run on the caller's goroutine, which may be the
	// update loop itself, so events are queued and forwarded separately.
	queue := newEventQueue()
	unsubscribe := t.source.Subscribe(queue.push)
	defer unsubscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		queue.forward(ctx, func(ev domain.TimerEvent) { program.Send(eventMsg(ev)) })
	}()

	_, err := program.Run()
	cancel()
	wg.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// Stop gracefully stops the timer interface.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.program != nil {
		t.program.Quit()
	}
}

// eventQueue is an unbounded FIFO between engine listeners and the program.
type eventQueue struct {
	mu     sync.Mutex
	items  []domain.TimerEvent
	signal chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{signal: make(chan struct{}, 1)}
}

func (q *eventQueue) push(ev domain.TimerEvent) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *eventQueue) drain() []domain.TimerEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// forward delivers queued events in order until ctx is done.
func (q *eventQueue) forward(ctx context.Context, send func(domain.TimerEvent)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.signal:
			for _, ev := range q.drain() {
				send(ev)
			}
		}
	}
}
