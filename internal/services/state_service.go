package services

import (
	"context"
	"fmt"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// TimerSource is a timer controller that also exposes its mode table.
type TimerSource interface {
	ports.TimerController
	Table() domain.ModeTable
}

// StateService implements the MCPStateProvider interface.
type StateService struct {
	timer   TimerSource
	tasks   *TaskService
	metrics *MetricsService
}

// NewStateService creates a new state service.
func NewStateService(timer TimerSource, tasks *TaskService, metrics *MetricsService) *StateService {
	return &StateService{timer: timer, tasks: tasks, metrics: metrics}
}

// GetCurrentState implements ports.MCPStateProvider.
func (s *StateService) GetCurrentState(ctx context.Context) (*domain.CurrentState, error) {
	state := &domain.CurrentState{
		Timer:    s.timer.Snapshot(),
		Interval: s.timer.Table().Interval(),
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	state.ActiveTask = tasks.FirstPending()
	state.PendingTasks = tasks.Pending()

	if s.metrics != nil {
		today, err := s.metrics.TotalMinutes(ctx, state.Timer.DateKey)
		if err != nil {
			return nil, err
		}
		state.TodayMinutes = today
	}

	return state, nil
}

// Dispatch implements ports.MCPStateProvider.
func (s *StateService) Dispatch(ctx context.Context, cmd ports.TimerCommand) (*domain.CurrentState, error) {
	if err := Apply(s.timer, cmd); err != nil {
		return nil, err
	}
	return s.GetCurrentState(ctx)
}

// Apply runs a timer command against a controller.
func Apply(timer ports.TimerController, cmd ports.TimerCommand) error {
	switch cmd {
	case ports.CmdStart:
		timer.Start()
	case ports.CmdPause:
		timer.Pause()
	case ports.CmdToggle:
		timer.Toggle()
	case ports.CmdReset:
		timer.Reset()
	case ports.CmdSkip:
		timer.Skip()
	case ports.CmdWork:
		timer.SetMode(domain.ModeWork)
	case ports.CmdShort:
		timer.SetMode(domain.ModeShort)
	case ports.CmdLong:
		timer.SetMode(domain.ModeLong)
	case ports.CmdResetSessions:
		timer.ResetSessions()
	default:
		return fmt.Errorf("unsupported timer command %q", cmd)
	}
	return nil
}

// ListTasks implements ports.MCPStateProvider.
func (s *StateService) ListTasks(ctx context.Context) (domain.TaskList, error) {
	return s.tasks.List(ctx)
}

// AddTask implements ports.MCPStateProvider.
func (s *StateService) AddTask(ctx context.Context, text string) (*domain.Task, error) {
	return s.tasks.Add(ctx, text)
}

// ToggleTask implements ports.MCPStateProvider.
func (s *StateService) ToggleTask(ctx context.Context, pos int) (*domain.Task, error) {
	return s.tasks.Toggle(ctx, pos)
}

// GetMetrics implements ports.MCPStateProvider.
func (s *StateService) GetMetrics(ctx context.Context) (*domain.MetricsSummary, error) {
	return s.metrics.Summary(ctx)
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
