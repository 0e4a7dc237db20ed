package ops

import (
	"context"

	"github.com/amonks/ticklist/task"
)

// AddRequest describes a task to add. Priority and Category are optional;
// a given Priority must be one of the lowercase names exactly.
type AddRequest struct {
	Title    string
	Priority string
	Category string
}

// AddResponse carries the stored task on success.
type AddResponse struct {
	Result
	Task *task.Task `json:"task,omitempty"`
}

// Add creates tasks.
type Add struct{ env *Env }

func NewAdd(env *Env) *Add { return &Add{env: env} }

// Execute validates every field before touching storage and reports all
// validation failures at once.
func (op *Add) Execute(ctx context.Context, req AddRequest) AddResponse {
	const name = "add"

	var problems []error
	if err := task.ValidateTitle(req.Title); err != nil {
		problems = append(problems, err)
	}
	priority := task.Priority(req.Priority)
	if priority != "" {
		if err := task.ValidatePriority(priority); err != nil {
			problems = append(problems, err)
		}
	}
	if err := task.ValidateCategory(req.Category); err != nil {
		problems = append(problems, err)
	}
	if len(problems) > 0 {
		return AddResponse{Result: op.env.fail(name, joinMessages(problems), nil)}
	}

	created, err := op.env.Store.Add(ctx, task.Draft{
		Title:    req.Title,
		Priority: priority,
		Category: req.Category,
	})
	if err != nil {
		return AddResponse{Result: op.env.fail(name, err.Error(), err)}
	}
	return AddResponse{
		Result: op.env.succeed(name, MsgTaskAdded, true),
		Task:   &created,
	}
}

// UpdateRequest names the task and the fields to change. Nil fields are
// left alone.
type UpdateRequest struct {
	ID       string
	Title    *string
	Done     *bool
	Priority *task.Priority
	Category *string
}

// UpdateResponse carries the updated task on success.
type UpdateResponse struct {
	Result
	Task *task.Task `json:"task,omitempty"`
}

// Update edits tasks.
type Update struct{ env *Env }

func NewUpdate(env *Env) *Update { return &Update{env: env} }

// Execute resolves the task first, then validates the supplied fields.
func (op *Update) Execute(ctx context.Context, req UpdateRequest) UpdateResponse {
	const name = "update"

	existing, err := op.env.resolve(ctx, req.ID)
	if err != nil {
		return UpdateResponse{Result: op.env.failResolve(name, err)}
	}

	var problems []error
	if req.Title != nil {
		if err := task.ValidateTitle(*req.Title); err != nil {
			problems = append(problems, err)
		}
	}
	if req.Category != nil {
		if err := task.ValidateCategory(*req.Category); err != nil {
			problems = append(problems, err)
		}
	}
	if len(problems) > 0 {
		return UpdateResponse{Result: op.env.fail(name, joinMessages(problems), nil)}
	}

	updated, err := op.env.Store.Update(ctx, existing.ID, task.UpdateOptions{
		Title:    req.Title,
		Done:     req.Done,
		Priority: req.Priority,
		Category: req.Category,
	})
	if err != nil {
		return UpdateResponse{Result: op.env.fail(name, err.Error(), err)}
	}
	return UpdateResponse{
		Result: op.env.succeed(name, MsgTaskUpdated, true),
		Task:   &updated,
	}
}

// ToggleRequest names the task to flip.
type ToggleRequest struct {
	ID string
}

// ToggleResponse carries the toggled task on success.
type ToggleResponse struct {
	Result
	Task *task.Task `json:"task,omitempty"`
}

// Toggle flips the done flag of tasks.
type Toggle struct{ env *Env }

func NewToggle(env *Env) *Toggle { return &Toggle{env: env} }

func (op *Toggle) Execute(ctx context.Context, req ToggleRequest) ToggleResponse {
	const name = "toggle"

	existing, err := op.env.resolve(ctx, req.ID)
	if err != nil {
		return ToggleResponse{Result: op.env.failResolve(name, err)}
	}

	done := !existing.Done
	updated, err := op.env.Store.Update(ctx, existing.ID, task.UpdateOptions{Done: &done})
	if err != nil {
		return ToggleResponse{Result: op.env.fail(name, err.Error(), err)}
	}

	message := MsgMarkedDone
	if existing.Done {
		message = MsgMarkedPending
	}
	return ToggleResponse{
		Result: op.env.succeed(name, message, true),
		Task:   &updated,
	}
}

// RemoveRequest names the task to delete.
type RemoveRequest struct {
	ID string
}

// RemoveResponse reports the outcome of a removal.
type RemoveResponse struct {
	Result
	ID string `json:"id,omitempty"`
}

// Remove deletes tasks.
type Remove struct{ env *Env }

func NewRemove(env *Env) *Remove { return &Remove{env: env} }

// Execute resolves the task first so an unknown ID is reported rather than
// silently ignored.
func (op *Remove) Execute(ctx context.Context, req RemoveRequest) RemoveResponse {
	const name = "remove"

	existing, err := op.env.resolve(ctx, req.ID)
	if err != nil {
		return RemoveResponse{Result: op.env.failResolve(name, err)}
	}
	if err := op.env.Store.Remove(ctx, existing.ID); err != nil {
		return RemoveResponse{Result: op.env.fail(name, err.Error(), err)}
	}
	return RemoveResponse{
		Result: op.env.succeed(name, MsgTaskRemoved, true),
		ID:     existing.ID,
	}
}

// ClearResponse reports the outcome of emptying the list.
type ClearResponse struct {
	Result
}

// Clear removes every task.
type Clear struct{ env *Env }

func NewClear(env *Env) *Clear { return &Clear{env: env} }

func (op *Clear) Execute(ctx context.Context) ClearResponse {
	const name = "clear"

	if err := op.env.Store.RemoveAll(ctx); err != nil {
		return ClearResponse{Result: op.env.fail(name, err.Error(), err)}
	}
	result := op.env.succeed(name, MsgAllTasksRemoved, false)
	op.env.notifier().Info(MsgAllTasksRemoved)
	return ClearResponse{Result: result}
}
