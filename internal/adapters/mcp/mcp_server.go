// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"pomo",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_timer_state",
			mcp.WithDescription("Get the pomodoro timer state, today's session count, focus minutes and the next pending task"),
		),
		s.handleGetTimerState,
	)

	// Timer controls share one handler shape.
	controls := []struct {
		name, description string
		cmd               ports.TimerCommand
	}{
		{"start_timer", "Start or resume the countdown of the current mode", ports.CmdStart},
		{"pause_timer", "Pause the running countdown", ports.CmdPause},
		{"reset_timer", "Reset the current mode to its full duration", ports.CmdReset},
		{"skip_timer", "Skip to the next mode without counting a session", ports.CmdSkip},
	}
	for _, c := range controls {
		s.server.AddTool(
			mcp.NewTool(c.name, mcp.WithDescription(c.description)),
			s.commandHandler(c.cmd),
		)
	}

	setModeTool := mcp.NewTool(
		"set_mode",
		mcp.WithDescription("Switch the timer to a mode. A running countdown is paused"),
		mcp.WithString(
			"mode",
			mcp.Required(),
			mcp.Description("Target mode"),
			mcp.Enum("work", "short", "long"),
		),
	)
	s.server.AddTool(setModeTool, s.handleSetMode)

	listTasksTool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List tasks in order, optionally filtered by status"),
		mcp.WithString(
			"status",
			mcp.Description("Filter tasks by status: pending, done"),
			mcp.Enum("pending", "done"),
		),
	)
	s.server.AddTool(listTasksTool, s.handleListTasks)

	addTaskTool := mcp.NewTool(
		"add_task",
		mcp.WithDescription("Append a task to the list"),
		mcp.WithString(
			"text",
			mcp.Required(),
			mcp.Description("The task text"),
		),
	)
	s.server.AddTool(addTaskTool, s.handleAddTask)

	toggleTaskTool := mcp.NewTool(
		"toggle_task",
		mcp.WithDescription("Mark a task done, or pending again"),
		mcp.WithNumber(
			"position",
			mcp.Required(),
			mcp.Description("1-based position of the task in list_tasks"),
		),
	)
	s.server.AddTool(toggleTaskTool, s.handleToggleTask)

	s.server.AddTool(
		mcp.NewTool(
			"get_metrics",
			mcp.WithDescription("Get focus totals, streaks and weekly goal progress"),
		),
		s.handleGetMetrics,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func timerPayload(st domain.TimerState) map[string]any {
	result := map[string]any{
		"mode":               string(st.Mode),
		"label":              st.Mode.Label(),
		"status":             st.StatusLabel(),
		"time_left":          domain.FormatClock(st.TimeLeft),
		"time_left_seconds":  st.TimeLeft,
		"total_time_seconds": st.TotalTime,
		"running":            st.Running,
		"progress":           st.Progress(),
		"sessions_completed": st.SessionsCompleted,
		"sessions_today":     st.SessionsToday,
	}
	if st.EndTime != nil {
		result["end_time"] = st.EndTime.Format(time.RFC3339)
	}
	return result
}

func taskPayload(pos int, t *domain.Task) map[string]any {
	return map[string]any{
		"position": pos + 1,
		"id":       t.ID,
		"text":     t.Text,
		"done":     t.Done,
	}
}

func statePayload(cur *domain.CurrentState) map[string]any {
	result := map[string]any{
		"timer":         timerPayload(cur.Timer),
		"interval":      cur.Interval,
		"session_dots":  cur.Timer.SessionDots(cur.Interval),
		"today_minutes": cur.TodayMinutes,
		"pending_tasks": cur.PendingTasks,
		"active_task":   nil,
	}
	if cur.ActiveTask != nil {
		result["active_task"] = map[string]any{
			"id":   cur.ActiveTask.ID,
			"text": cur.ActiveTask.Text,
		}
	}
	return result
}

// handleGetTimerState handles the get_timer_state tool.
func (s *Server) handleGetTimerState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cur, err := s.stateProvider.GetCurrentState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current state: %w", err)
	}
	return jsonResult(statePayload(cur))
}

func (s *Server) commandHandler(cmd ports.TimerCommand) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cur, err := s.stateProvider.Dispatch(ctx, cmd)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to %s timer: %v", cmd, err)), nil
		}
		return jsonResult(statePayload(cur))
	}
}

// handleSetMode handles the set_mode tool.
func (s *Server) handleSetMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("mode")
	if err != nil {
		return mcp.NewToolResultError("mode is required: " + err.Error()), nil
	}

	mode, err := domain.ParseMode(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cmd := map[domain.Mode]ports.TimerCommand{
		domain.ModeWork:  ports.CmdWork,
		domain.ModeShort: ports.CmdShort,
		domain.ModeLong:  ports.CmdLong,
	}[mode]

	cur, err := s.stateProvider.Dispatch(ctx, cmd)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set mode: %v", err)), nil
	}
	return jsonResult(statePayload(cur))
}

// handleListTasks handles the list_tasks tool.
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := request.GetString("status", "")

	tasks, err := s.stateProvider.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	filtered := []map[string]any{}
	for i, task := range tasks {
		if status == "pending" && task.Done || status == "done" && !task.Done {
			continue
		}
		filtered = append(filtered, taskPayload(i, task))
	}

	result := map[string]any{
		"tasks":       filtered,
		"total_count": len(filtered),
	}
	if status != "" {
		result["filter_status"] = status
	}
	return jsonResult(result)
}

// handleAddTask handles the add_task tool.
func (s *Server) handleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required: " + err.Error()), nil
	}

	task, err := s.stateProvider.AddTask(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add task: %v", err)), nil
	}

	tasks, err := s.stateProvider.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return jsonResult(taskPayload(tasks.IndexOf(task.ID), task))
}

// handleToggleTask handles the toggle_task tool.
func (s *Server) handleToggleTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	position, err := request.RequireFloat("position")
	if err != nil {
		return mcp.NewToolResultError("position is required: " + err.Error()), nil
	}

	pos := int(position) - 1
	task, err := s.stateProvider.ToggleTask(ctx, pos)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no task at position %d", int(position))), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle task: %v", err)), nil
	}
	return jsonResult(taskPayload(pos, task))
}

// handleGetMetrics handles the get_metrics tool.
func (s *Server) handleGetMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := s.stateProvider.GetMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics: %w", err)
	}

	return jsonResult(map[string]any{
		"today_minutes":      summary.Today,
		"week_minutes":       summary.Week,
		"month_minutes":      summary.Month,
		"all_time_minutes":   summary.AllTime,
		"sessions":           summary.Sessions,
		"current_streak":     summary.Streaks.Current,
		"best_streak":        summary.Streaks.Best,
		"days_active_week":   summary.DaysActiveWeek,
		"weekly_goal":        summary.WeeklyGoal,
		"goal_percent":       summary.GoalPercent,
		"goal_remaining":     summary.GoalRemaining,
		"today_formatted":    domain.FormatMinutes(summary.Today),
		"all_time_formatted": domain.FormatMinutes(summary.AllTime),
	})
}
