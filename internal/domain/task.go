// Package domain contains the core entities of pomo: timer modes and state,
// the daily counter, the focus history, tasks, settings and preferences.
// These types are independent of any storage or presentation layer.
package domain

import (
	"errors"
	"strings"
)

// Common domain errors.
var (
	ErrEmptyTaskText   = errors.New("task text cannot be empty")
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidPosition = errors.New("invalid task position")
	ErrInvalidMode     = errors.New("invalid mode")
	ErrInvalidSetting  = errors.New("invalid setting")
)

// Task is one entry of the ordered task list.
type Task struct {
	ID   string
	Text string
	Done bool
}

// NewTask creates a pending task with trimmed text.
func NewTask(text string) (*Task, error) {
	text = strings.TrimSpace(text)
	if err := validateTaskText(text); err != nil {
		return nil, err
	}
	return &Task{
		ID:   generateID(),
		Text: text,
	}, nil
}

// validateTaskText ensures the text is not empty.
func validateTaskText(text string) error {
	if text == "" {
		return ErrEmptyTaskText
	}
	return nil
}

// Toggle flips the done flag.
func (t *Task) Toggle() {
	t.Done = !t.Done
}

// TaskList is an ordered list of tasks. Position is the user-facing address.
type TaskList []*Task

// Valid reports whether pos addresses an existing task.
func (l TaskList) Valid(pos int) bool {
	return pos >= 0 && pos < len(l)
}

// Remove returns the list without the task at pos.
func (l TaskList) Remove(pos int) (TaskList, error) {
	if !l.Valid(pos) {
		return l, ErrInvalidPosition
	}
	out := make(TaskList, 0, len(l)-1)
	out = append(out, l[:pos]...)
	return append(out, l[pos+1:]...), nil
}

// Move takes the task at from out of the list and reinserts it at to.
func (l TaskList) Move(from, to int) (TaskList, error) {
	if !l.Valid(from) || !l.Valid(to) {
		return l, ErrInvalidPosition
	}
	if from == to {
		return l, nil
	}
	moved := l[from]
	rest, _ := l.Remove(from)
	out := make(TaskList, 0, len(l))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	return append(out, rest[to:]...), nil
}

// FirstPending returns the first task not yet done, or nil.
func (l TaskList) FirstPending() *Task {
	for _, t := range l {
		if !t.Done {
			return t
		}
	}
	return nil
}

// Pending returns the count of tasks not yet done.
func (l TaskList) Pending() int {
	n := 0
	for _, t := range l {
		if !t.Done {
			n++
		}
	}
	return n
}

// IndexOf returns the position of the task with the given id, or -1.
func (l TaskList) IndexOf(id string) int {
	for i, t := range l {
		if t.ID == id {
			return i
		}
	}
	return -1
}
