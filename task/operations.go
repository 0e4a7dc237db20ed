package task

import (
	"context"
	"fmt"
)

// Draft describes a task to add. Zero values select the defaults.
type Draft struct {
	Title    string
	Priority Priority
	Category string
}

func (d Draft) validate() error {
	if err := ValidateTitle(d.Title); err != nil {
		return err
	}
	if d.Priority != "" {
		if err := ValidatePriority(d.Priority); err != nil {
			return err
		}
	}
	return ValidateCategory(d.Category)
}

// Add stores a new task with a fresh ID and returns it.
func (s *Store) Add(ctx context.Context, draft Draft) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	if err := draft.validate(); err != nil {
		return Task{}, err
	}

	tasks, err := s.readTasksForWrite(ctx)
	if err != nil {
		return Task{}, err
	}
	id, err := s.uniqueID(tasks)
	if err != nil {
		return Task{}, err
	}

	now := s.clock()
	created, err := New(id, draft.Title, NewOptions{
		Priority:  draft.Priority,
		Category:  draft.Category,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Task{}, err
	}

	tasks = append(tasks, created)
	if err := s.writeTasks(ctx, tasks); err != nil {
		return Task{}, err
	}
	return created, nil
}

// FindByID returns the task with the given ID, or ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	tasks := s.readTasks(ctx)
	i := indexOf(tasks, id)
	if i < 0 {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tasks[i], nil
}

// UpdateOptions configures fields to update on a task.
// Nil pointers mean "don't update this field".
type UpdateOptions struct {
	Title    *string
	Done     *bool
	Priority *Priority
	Category *string
}

func (opts UpdateOptions) isEmpty() bool {
	return opts.Title == nil && opts.Done == nil && opts.Priority == nil && opts.Category == nil
}

// Update applies opts to the task with the given ID and returns the result.
// Nothing is written when the ID is unknown or a field fails validation.
func (s *Store) Update(ctx context.Context, id string, opts UpdateOptions) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	tasks, err := s.readTasksForWrite(ctx)
	if err != nil {
		return Task{}, err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if opts.isEmpty() {
		return tasks[i], nil
	}

	now := s.clock()
	updated := tasks[i]

	if opts.Title != nil {
		if updated, err = updated.WithTitle(*opts.Title, now); err != nil {
			return Task{}, err
		}
	}
	if opts.Done != nil {
		if *opts.Done {
			updated = updated.MarkedDone(now)
		} else {
			updated = updated.MarkedPending(now)
		}
	}
	if opts.Priority != nil {
		if updated, err = updated.WithPriority(*opts.Priority, now); err != nil {
			return Task{}, err
		}
	}
	if opts.Category != nil {
		if updated, err = updated.WithCategory(*opts.Category, now); err != nil {
			return Task{}, err
		}
	}

	tasks[i] = updated
	if err := s.writeTasks(ctx, tasks); err != nil {
		return Task{}, err
	}
	return updated, nil
}

// Remove deletes the task with the given ID. Removing an unknown ID is a
// no-op and does not rewrite storage.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tasks, err := s.readTasksForWrite(ctx)
	if err != nil {
		return err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return nil
	}

	tasks = append(tasks[:i], tasks[i+1:]...)
	return s.writeTasks(ctx, tasks)
}

// RemoveAll empties the collection.
func (s *Store) RemoveAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.writeTasks(ctx, nil)
}
