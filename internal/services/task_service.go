// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"fmt"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// TaskService handles task-related use cases. Positions are zero-based.
type TaskService struct {
	storage ports.Storage
}

// NewTaskService creates a new task service.
func NewTaskService(storage ports.Storage) *TaskService {
	return &TaskService{storage: storage}
}

// List retrieves the task list in order.
func (s *TaskService) List(ctx context.Context) (domain.TaskList, error) {
	tasks, err := s.storage.Tasks().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Add appends a new task.
func (s *TaskService) Add(ctx context.Context, text string) (*domain.Task, error) {
	task, err := domain.NewTask(text)
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, append(tasks, task)); err != nil {
		return nil, err
	}
	return task, nil
}

// Toggle flips the done flag of the task at pos.
func (s *TaskService) Toggle(ctx context.Context, pos int) (*domain.Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if !tasks.Valid(pos) {
		return nil, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, pos+1)
	}

	task := tasks[pos]
	task.Toggle()
	if err := s.save(ctx, tasks); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task at pos and returns it.
func (s *TaskService) Delete(ctx context.Context, pos int) (*domain.Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	rest, err := tasks.Remove(pos)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, pos+1)
	}
	removed := tasks[pos]
	if err := s.save(ctx, rest); err != nil {
		return nil, err
	}
	return removed, nil
}

// Move reorders the list as if the task at from were cut and inserted at to.
func (s *TaskService) Move(ctx context.Context, from, to int) (domain.TaskList, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	moved, err := tasks.Move(from, to)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, moved); err != nil {
		return nil, err
	}
	return moved, nil
}

// FirstPending returns the first task not yet done, or nil.
func (s *TaskService) FirstPending(ctx context.Context) (*domain.Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return tasks.FirstPending(), nil
}

// Find does a fuzzy search on task text and returns the zero-based
// position of the best match.
func (s *TaskService) Find(ctx context.Context, query string) (int, *domain.Task, error) {
	matches, err := s.storage.Tasks().FindByText(ctx, query)
	if err != nil {
		return -1, nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	if len(matches) == 0 {
		return -1, nil, fmt.Errorf("%w: %q", domain.ErrTaskNotFound, query)
	}

	tasks, err := s.List(ctx)
	if err != nil {
		return -1, nil, err
	}
	return tasks.IndexOf(matches[0].ID), matches[0], nil
}

// ClearDone removes every completed task and returns how many were removed.
func (s *TaskService) ClearDone(ctx context.Context) (int, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	kept := make(domain.TaskList, 0, len(tasks))
	for _, task := range tasks {
		if !task.Done {
			kept = append(kept, task)
		}
	}
	if len(kept) == len(tasks) {
		return 0, nil
	}
	if err := s.save(ctx, kept); err != nil {
		return 0, err
	}
	return len(tasks) - len(kept), nil
}

func (s *TaskService) save(ctx context.Context, tasks domain.TaskList) error {
	if err := s.storage.Tasks().Replace(ctx, tasks); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}
