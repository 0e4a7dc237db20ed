package task

import (
	"strings"
	"time"
)

// Task is a single item on the list.
//
// Tasks are values: the With*, Toggled and Marked* functions return an
// updated copy with UpdatedAt bumped, leaving the receiver untouched.
type Task struct {
	// ID is an opaque unique identifier assigned when the task is added.
	ID string

	// Title is the trimmed summary of the task (max 200 chars).
	Title string

	// Done is true once the task is completed.
	Done bool

	// Priority is the importance level.
	Priority Priority

	// Category is a free-text label (max 50 chars).
	Category string

	// CreatedAt is when the task was created.
	CreatedAt time.Time

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time
}

// NewOptions configures New. Zero values select the defaults.
type NewOptions struct {
	Done      bool
	Priority  Priority
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New builds a validated task.
// CreatedAt defaults to now and UpdatedAt defaults to CreatedAt.
func New(id, title string, opts NewOptions) (Task, error) {
	if opts.Priority == "" {
		opts.Priority = PriorityMedium
	}
	if opts.CreatedAt.IsZero() {
		opts.CreatedAt = time.Now()
	}
	if opts.UpdatedAt.IsZero() {
		opts.UpdatedAt = opts.CreatedAt
	}

	t := Task{
		ID:        id,
		Title:     strings.TrimSpace(title),
		Done:      opts.Done,
		Priority:  opts.Priority,
		Category:  normalizeCategory(opts.Category),
		CreatedAt: normalizeTime(opts.CreatedAt),
		UpdatedAt: normalizeTime(opts.UpdatedAt),
	}
	if err := ValidateTask(t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// WithTitle returns the task with a new, re-validated title.
func (t Task) WithTitle(title string, now time.Time) (Task, error) {
	if err := ValidateTitle(title); err != nil {
		return t, err
	}
	t.Title = strings.TrimSpace(title)
	return t.touched(now), nil
}

// WithPriority returns the task with a new priority.
func (t Task) WithPriority(priority Priority, now time.Time) (Task, error) {
	if err := ValidatePriority(priority); err != nil {
		return t, err
	}
	t.Priority = priority
	return t.touched(now), nil
}

// WithCategory returns the task with a new category.
// An empty category resets to DefaultCategory.
func (t Task) WithCategory(category string, now time.Time) (Task, error) {
	if err := ValidateCategory(category); err != nil {
		return t, err
	}
	t.Category = normalizeCategory(category)
	return t.touched(now), nil
}

// Toggled returns the task with Done flipped.
func (t Task) Toggled(now time.Time) Task {
	t.Done = !t.Done
	return t.touched(now)
}

// MarkedDone returns the task with Done set.
func (t Task) MarkedDone(now time.Time) Task {
	t.Done = true
	return t.touched(now)
}

// MarkedPending returns the task with Done cleared.
func (t Task) MarkedPending(now time.Time) Task {
	t.Done = false
	return t.touched(now)
}

// touched bumps UpdatedAt. UpdatedAt strictly increases even when the clock
// does not advance between two mutations.
func (t Task) touched(now time.Time) Task {
	now = normalizeTime(now)
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now
	return t
}

// normalizeTime drops the monotonic reading and location so stored and
// parsed timestamps compare equal with ==.
func normalizeTime(value time.Time) time.Time {
	return value.Round(0).UTC()
}
