// Package ports defines the interfaces (driven and driving ports)
// for pomo following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"

	"github.com/xvierd/pomo-cli/internal/domain"
)

// TimerRepository persists the timer snapshot and the daily counter.
// This is a driven port (implemented by adapters).
type TimerRepository interface {
	// Load returns the stored snapshot, or nil when none exists or it is
	// unreadable. Fields that are missing or of the wrong type are left nil.
	Load(ctx context.Context) (*domain.TimerRecord, error)

	// LoadDaily returns the stored daily counter, or a zero counter.
	LoadDaily(ctx context.Context) (domain.DailyCounter, error)

	// Save writes the snapshot and its daily counter atomically.
	Save(ctx context.Context, state domain.TimerState) error
}

// SessionRepository stores the focus history and the weekly goal.
// This is a driven port (implemented by adapters).
type SessionRepository interface {
	// Append adds one completed session to the log.
	Append(ctx context.Context, entry domain.SessionLogEntry) error

	// FindAll returns the log in append order, skipping invalid entries.
	FindAll(ctx context.Context) (domain.SessionLog, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// WeeklyGoal returns the stored goal in minutes, or the default.
	WeeklyGoal(ctx context.Context) (int, error)

	// SetWeeklyGoal stores the goal in minutes.
	SetWeeklyGoal(ctx context.Context, minutes int) error
}

// TaskRepository stores the ordered task list.
// This is a driven port (implemented by adapters).
type TaskRepository interface {
	// List returns all tasks in position order.
	List(ctx context.Context) (domain.TaskList, error)

	// Replace overwrites the stored list, positions included.
	Replace(ctx context.Context, tasks domain.TaskList) error

	// FindByText does a fuzzy search over task text, best match first.
	FindByText(ctx context.Context, query string) (domain.TaskList, error)
}

// SettingsRepository stores per-mode durations.
// This is a driven port (implemented by adapters).
type SettingsRepository interface {
	// Load returns the raw stored settings; zero fields mean missing.
	Load(ctx context.Context) (domain.Settings, error)

	// Save writes the settings.
	Save(ctx context.Context, s domain.Settings) error
}

// PreferenceRepository stores theme, sound, auto-start and notification flags.
// This is a driven port (implemented by adapters).
type PreferenceRepository interface {
	// Load returns the stored preferences with defaults for missing keys.
	Load(ctx context.Context) (domain.Preferences, error)

	// Save writes every preference.
	Save(ctx context.Context, p domain.Preferences) error
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Timer provides access to the timer snapshot.
	Timer() TimerRepository

	// Sessions provides access to the focus history.
	Sessions() SessionRepository

	// Tasks provides access to the task list.
	Tasks() TaskRepository

	// Settings provides access to mode durations.
	Settings() SettingsRepository

	// Preferences provides access to user flags.
	Preferences() PreferenceRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
