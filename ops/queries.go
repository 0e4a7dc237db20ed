package ops

import (
	"context"
	"fmt"

	"github.com/amonks/ticklist/task"
)

// ListRequest filters and orders the list. A nil Sort keeps insertion order.
type ListRequest struct {
	Filter task.ListFilter
	Sort   *task.SortOptions
}

// ListResponse carries the matching tasks. Tasks is never nil.
type ListResponse struct {
	Result
	Tasks []task.Task `json:"tasks"`
	Total int         `json:"total"`
}

// List queries tasks.
type List struct{ env *Env }

func NewList(env *Env) *List { return &List{env: env} }

// Execute reports an empty result as success.
func (op *List) Execute(ctx context.Context, req ListRequest) ListResponse {
	const name = "list"

	tasks, err := op.env.Store.List(ctx, req.Filter, req.Sort)
	if err != nil {
		return ListResponse{Result: op.env.fail(name, err.Error(), err), Tasks: []task.Task{}}
	}
	return ListResponse{
		Result: op.env.succeed(name, fmt.Sprintf("%d task(s) found", len(tasks)), false),
		Tasks:  tasks,
		Total:  len(tasks),
	}
}

// GetStatsResponse carries the tallies. Stats always has every priority key.
type GetStatsResponse struct {
	Result
	Stats task.Stats `json:"stats"`
}

// GetStats tallies the list.
type GetStats struct{ env *Env }

func NewGetStats(env *Env) *GetStats { return &GetStats{env: env} }

// Execute also refreshes the task gauges in the Env's metrics.
func (op *GetStats) Execute(ctx context.Context) GetStatsResponse {
	const name = "stats"

	stats, err := op.env.Store.Stats(ctx)
	if err != nil {
		return GetStatsResponse{Result: op.env.fail(name, err.Error(), err), Stats: task.EmptyStats()}
	}
	op.env.Metrics.SetStats(stats)
	return GetStatsResponse{
		Result: op.env.succeed(name, MsgStatsLoaded, false),
		Stats:  stats,
	}
}

// GetRequest names one task by ID or unique ID prefix.
type GetRequest struct {
	ID string
}

// GetResponse carries the task on success.
type GetResponse struct {
	Result
	Task *task.Task `json:"task,omitempty"`
}

// Get looks up a single task.
type Get struct{ env *Env }

func NewGet(env *Env) *Get { return &Get{env: env} }

func (op *Get) Execute(ctx context.Context, req GetRequest) GetResponse {
	const name = "get"

	found, err := op.env.resolve(ctx, req.ID)
	if err != nil {
		return GetResponse{Result: op.env.failResolve(name, err)}
	}
	return GetResponse{
		Result: op.env.succeed(name, MsgTaskLoaded, false),
		Task:   &found,
	}
}
