package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Document keys of the kv table.
const (
	keyTimerState       = "pomo.timer_state"
	keyDaily            = "pomo.daily"
	keySettings         = "pomo.settings"
	keyWeeklyGoal       = "pomo.weekly_goal"
	keyTheme            = "pomo.theme"
	keySoundEnabled     = "pomo.sound_enabled"
	keyAutoStart        = "pomo.auto_start"
	keyNotifyPermission = "pomo.notify_permission"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// documentStore reads and writes JSON values in the kv table.
type documentStore struct {
	db *sql.DB
}

func newDocumentStore(db *sql.DB) *documentStore {
	return &documentStore{db: db}
}

// get returns the raw value of key. ok is false when the key is absent.
func (d *documentStore) get(ctx context.Context, key string) (raw json.RawMessage, ok bool, err error) {
	var value string
	err = d.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return json.RawMessage(value), true, nil
}

// put marshals value and upserts it under key.
func (d *documentStore) put(ctx context.Context, ex execer, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := ex.ExecContext(ctx, query, key, string(data), time.Now()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// putRaw stores an already encoded value. Used by tests to plant malformed data.
func (d *documentStore) putRaw(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err := d.db.ExecContext(ctx, query, key, value, time.Now())
	return err
}

// withTx runs fn inside a transaction.
func (d *documentStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// object decodes raw as a JSON object. Anything else yields nil.
func object(raw json.RawMessage) map[string]json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return fields
}

// present reports whether raw holds a non-null JSON value.
func present(raw json.RawMessage) bool {
	return len(raw) > 0 && strings.TrimSpace(string(raw)) != "null"
}

// finiteInt reads a finite JSON number, truncated toward negative infinity.
// Values outside the int range saturate.
func finiteInt(raw json.RawMessage) (int, bool) {
	if !present(raw) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	switch {
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	}
	return int(math.Floor(f)), true
}

// looseInt reads a JSON number or a numeric string with an integer prefix.
func looseInt(raw json.RawMessage) (int, bool) {
	if v, ok := finiteInt(raw); ok {
		return v, true
	}
	s, ok := stringValue(raw)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

// boolValue reads a JSON boolean.
func boolValue(raw json.RawMessage) (bool, bool) {
	if !present(raw) {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// stringValue reads a JSON string.
func stringValue(raw json.RawMessage) (string, bool) {
	if !present(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
