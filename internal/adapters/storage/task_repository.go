package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// taskRepository implements ports.TaskRepository using SQLite.
type taskRepository struct {
	db *sql.DB
}

// newTaskRepository creates a new task repository.
func newTaskRepository(db *sql.DB) ports.TaskRepository {
	return &taskRepository{db: db}
}

// List retrieves all tasks in position order.
func (r *taskRepository) List(ctx context.Context) (domain.TaskList, error) {
	query := `
		SELECT id, text, done
		FROM tasks
		WHERE text != ''
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return r.scanTasks(rows)
}

// Replace rewrites the whole list so stored positions match the slice order.
func (r *taskRepository) Replace(ctx context.Context, tasks domain.TaskList) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tasks (id, position, text, done) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare task insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, task := range tasks {
		if _, err := stmt.ExecContext(ctx, task.ID, i, task.Text, task.Done); err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("duplicate task id %s: %w", task.ID, err)
			}
			return fmt.Errorf("failed to save task: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tasks: %w", err)
	}
	return nil
}

// FindByText does a fuzzy search for tasks by text, best match first.
func (r *taskRepository) FindByText(ctx context.Context, query string) (domain.TaskList, error) {
	tasks, err := r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks for fuzzy search: %w", err)
	}

	texts := make([]string, len(tasks))
	for i, task := range tasks {
		texts[i] = task.Text
	}

	var result domain.TaskList
	for _, match := range fuzzy.Find(query, texts) {
		result = append(result, tasks[match.Index])
	}

	return result, nil
}

// scanTasks scans multiple task rows.
func (r *taskRepository) scanTasks(rows *sql.Rows) (domain.TaskList, error) {
	tasks := domain.TaskList{}
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(&task.ID, &task.Text, &task.Done); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}
