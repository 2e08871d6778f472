package ports

import (
	"context"

	"github.com/xvierd/pomo-cli/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides state and actions to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// GetCurrentState returns the timer, today's counters and the first pending task.
	GetCurrentState(ctx context.Context) (*domain.CurrentState, error)

	// Dispatch applies a timer command.
	Dispatch(ctx context.Context, cmd TimerCommand) (*domain.CurrentState, error)

	// ListTasks returns the task list in order.
	ListTasks(ctx context.Context) (domain.TaskList, error)

	// AddTask appends a task.
	AddTask(ctx context.Context, text string) (*domain.Task, error)

	// ToggleTask flips the done flag of the task at a zero-based position.
	ToggleTask(ctx context.Context, pos int) (*domain.Task, error)

	// GetMetrics returns the focus summary.
	GetMetrics(ctx context.Context) (*domain.MetricsSummary, error)
}
