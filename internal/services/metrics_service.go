package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// ChartDays is the width of the daily focus chart.
const ChartDays = 7

// MetricsService owns the focus history and the weekly goal.
type MetricsService struct {
	sessions    ports.SessionRepository
	clock       ports.Clock
	gitDetector ports.GitDetector
	workingDir  string
	logger      *slog.Logger
}

// NewMetricsService creates a new metrics service. gitDetector may be nil.
func NewMetricsService(storage ports.Storage, clock ports.Clock, gitDetector ports.GitDetector) *MetricsService {
	return &MetricsService{
		sessions:    storage.Sessions(),
		clock:       clock,
		gitDetector: gitDetector,
		workingDir:  ".",
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetWorkingDir sets the directory whose git branch is attached to new entries.
func (s *MetricsService) SetWorkingDir(dir string) {
	s.workingDir = dir
}

// SetLogger sets the service logger.
func (s *MetricsService) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Observe logs focus completions delivered by the timer engine.
func (s *MetricsService) Observe(ev domain.TimerEvent) {
	if ev.Kind != domain.EventCompleted || ev.Finished != domain.ModeWork || ev.Minutes <= 0 {
		return
	}
	if err := s.RecordSession(context.Background(), ev.Minutes); err != nil {
		s.logger.Warn("failed to record session", "error", err)
	}
}

// RecordSession appends a completed focus session dated today.
func (s *MetricsService) RecordSession(ctx context.Context, minutes int) error {
	entry := domain.SessionLogEntry{
		Date:    domain.DateKey(s.clock.Now()),
		Minutes: minutes,
	}

	// Detect git context if available
	if s.gitDetector != nil && s.gitDetector.IsAvailable() {
		gitInfo, err := s.gitDetector.Detect(ctx, s.workingDir)
		if err == nil && gitInfo != nil {
			entry.Branch = gitInfo.Branch
		}
	}

	if err := s.sessions.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	s.logger.Debug("session recorded", "date", entry.Date, "minutes", minutes, "branch", entry.Branch)
	return nil
}

// Entries returns the whole history in append order.
func (s *MetricsService) Entries(ctx context.Context) (domain.SessionLog, error) {
	log, err := s.sessions.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	return log, nil
}

// TotalMinutes returns the minutes logged on a date key.
func (s *MetricsService) TotalMinutes(ctx context.Context, date string) (int, error) {
	log, err := s.Entries(ctx)
	if err != nil {
		return 0, err
	}
	return log.TotalMinutes(date), nil
}

// MinutesLastNDays returns the minutes logged in the last n days, today included.
func (s *MetricsService) MinutesLastNDays(ctx context.Context, n int) (int, error) {
	log, err := s.Entries(ctx)
	if err != nil {
		return 0, err
	}
	return log.MinutesLastNDays(s.clock.Now(), n), nil
}

// DaysActive returns how many of the last n days have any focus time.
func (s *MetricsService) DaysActive(ctx context.Context, n int) (int, error) {
	log, err := s.Entries(ctx)
	if err != nil {
		return 0, err
	}
	return log.DaysActive(s.clock.Now(), n), nil
}

// Streaks returns the current and best runs of active days.
func (s *MetricsService) Streaks(ctx context.Context) (domain.Streaks, error) {
	log, err := s.Entries(ctx)
	if err != nil {
		return domain.Streaks{}, err
	}
	return log.Streaks(s.clock.Now()), nil
}

// WeeklyGoal returns the weekly goal in minutes.
func (s *MetricsService) WeeklyGoal(ctx context.Context) (int, error) {
	goal, err := s.sessions.WeeklyGoal(ctx)
	if err != nil {
		return domain.DefaultWeeklyGoal, fmt.Errorf("failed to load weekly goal: %w", err)
	}
	return goal, nil
}

// SetWeeklyGoal clamps and stores the goal, returning the stored value.
func (s *MetricsService) SetWeeklyGoal(ctx context.Context, minutes int) (int, error) {
	goal := domain.ClampWeeklyGoal(minutes)
	if err := s.sessions.SetWeeklyGoal(ctx, goal); err != nil {
		return 0, fmt.Errorf("failed to save weekly goal: %w", err)
	}
	return goal, nil
}

// ApplyWeeklyGoal parses user input. Input without a leading integer keeps
// the previous goal.
func (s *MetricsService) ApplyWeeklyGoal(ctx context.Context, input string) (int, error) {
	minutes, ok := leadingInt(input)
	if !ok {
		return s.WeeklyGoal(ctx)
	}
	return s.SetWeeklyGoal(ctx, minutes)
}

// Summary returns every figure of the metrics pane.
func (s *MetricsService) Summary(ctx context.Context) (*domain.MetricsSummary, error) {
	log, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	goal, err := s.WeeklyGoal(ctx)
	if err != nil {
		return nil, err
	}
	summary := log.Summary(s.clock.Now(), goal)
	return &summary, nil
}

// Chart returns the per-day minutes of the last n days, oldest first.
func (s *MetricsService) Chart(ctx context.Context, n int) ([]domain.ChartDay, error) {
	log, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = ChartDays
	}
	return log.Chart(s.clock.Now(), n), nil
}

// Clear removes the whole history. The weekly goal is kept.
func (s *MetricsService) Clear(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear metrics: %w", err)
	}
	s.logger.Info("metrics cleared")
	return nil
}

// leadingInt parses an optionally signed integer prefix, ignoring surrounding space.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || end == 0 && (c == '-' || c == '+') {
			end++
			continue
		}
		break
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}
