package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// sessionRepository implements ports.SessionRepository using SQLite.
type sessionRepository struct {
	db   *sql.DB
	docs *documentStore
}

// newSessionRepository creates a new session repository.
func newSessionRepository(db *sql.DB, docs *documentStore) ports.SessionRepository {
	return &sessionRepository{db: db, docs: docs}
}

// Append persists a completed session.
func (r *sessionRepository) Append(ctx context.Context, entry domain.SessionLogEntry) error {
	if !entry.Valid() {
		return fmt.Errorf("invalid session entry %+v: %w", entry, domain.ErrInvalidSetting)
	}

	query := `
		INSERT INTO sessions (date, minutes, branch, logged_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.Date,
		entry.Minutes,
		nullableString(entry.Branch),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// FindAll retrieves the log in append order. Rows without a date or with
// non-positive minutes are skipped.
func (r *sessionRepository) FindAll(ctx context.Context) (domain.SessionLog, error) {
	query := `
		SELECT date, minutes, branch
		FROM sessions
		WHERE date != '' AND minutes > 0
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var log domain.SessionLog
	for rows.Next() {
		var entry domain.SessionLogEntry
		var branch sql.NullString
		if err := rows.Scan(&entry.Date, &entry.Minutes, &branch); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		entry.Branch = branch.String
		log = append(log, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return log, nil
}

// Clear removes the whole history.
func (r *sessionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	return nil
}

// WeeklyGoal returns the stored goal. Missing or unreadable values, and
// values below the minimum, fall back to the default goal.
func (r *sessionRepository) WeeklyGoal(ctx context.Context) (int, error) {
	raw, ok, err := r.docs.get(ctx, keyWeeklyGoal)
	if err != nil || !ok {
		return domain.DefaultWeeklyGoal, err
	}
	goal, valid := looseInt(raw)
	if !valid || goal < domain.MinWeeklyGoal {
		return domain.DefaultWeeklyGoal, nil
	}
	return domain.ClampWeeklyGoal(goal), nil
}

// SetWeeklyGoal stores the goal.
func (r *sessionRepository) SetWeeklyGoal(ctx context.Context, minutes int) error {
	return r.docs.put(ctx, r.db, keyWeeklyGoal, minutes)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
