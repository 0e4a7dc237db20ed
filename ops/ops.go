// Package ops exposes the task operations used by front ends.
//
// Each operation is built from an Env and executed with a request. Execute
// never returns an error: the outcome is reported in the response's Result
// and, for most operations, through the Env's Notifier.
package ops

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amonks/ticklist/internal/logger"
	"github.com/amonks/ticklist/internal/metrics"
	"github.com/amonks/ticklist/notify"
	"github.com/amonks/ticklist/task"
)

// Messages reported in Result.Message.
const (
	MsgTaskAdded       = "Task added"
	MsgTaskUpdated     = "Task updated"
	MsgTaskNotFound    = "Task not found"
	MsgMarkedDone      = "Task marked done"
	MsgMarkedPending   = "Task marked pending"
	MsgTaskRemoved     = "Task removed"
	MsgTaskLoaded      = "Task loaded"
	MsgStatsLoaded     = "Stats loaded"
	MsgAllTasksRemoved = "All tasks removed"
)

// Env carries the dependencies shared by every operation.
// Only Store is required.
type Env struct {
	Store    *task.Store
	Notifier notify.Notifier
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
}

// Result is the outcome envelope embedded in every response.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (env *Env) notifier() notify.Notifier {
	if env.Notifier == nil {
		return notify.Discard
	}
	return env.Notifier
}

func (env *Env) logger() *slog.Logger {
	if env.Logger == nil {
		return logger.Discard()
	}
	return env.Logger
}

// succeed records a successful operation and optionally notifies.
func (env *Env) succeed(operation, message string, announce bool) Result {
	env.Metrics.ObserveOperation(operation, true)
	if announce {
		env.notifier().Success(message)
	}
	return Result{Success: true, Message: message}
}

// fail records a failed operation, logs it and notifies with message.
func (env *Env) fail(operation, message string, err error) Result {
	env.Metrics.ObserveOperation(operation, false)
	if err != nil {
		env.logger().Info("operation failed", "operation", operation, "error", err)
	}
	env.notifier().Error(message)
	return Result{Success: false, Message: message}
}

// resolve maps an ID or unique ID prefix to a stored task.
func (env *Env) resolve(ctx context.Context, id string) (task.Task, error) {
	index, err := env.Store.IDIndex(ctx)
	if err != nil {
		return task.Task{}, err
	}
	fullID, err := index.Resolve(id)
	if err != nil {
		return task.Task{}, err
	}
	return env.Store.FindByID(ctx, fullID)
}

// failResolve reports a resolve error, using the fixed not-found message
// when the task does not exist.
func (env *Env) failResolve(operation string, err error) Result {
	if errors.Is(err, task.ErrNotFound) {
		return env.fail(operation, MsgTaskNotFound, err)
	}
	return env.fail(operation, err.Error(), err)
}

// joinMessages joins validation failures with ", ".
func joinMessages(errs []error) string {
	message := ""
	for i, err := range errs {
		if i > 0 {
			message += ", "
		}
		message += err.Error()
	}
	return message
}
