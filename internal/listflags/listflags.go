// Package listflags registers the filter and sort flags shared by commands
// that list tasks.
package listflags

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/amonks/ticklist/task"
)

// Options holds the parsed flag values.
type Options struct {
	Done     bool
	Pending  bool
	Priority string
	Category string
	Search   string
	Sort     string
	Desc     bool
}

// Add registers the list flags on cmd, bound to opts.
func Add(cmd *cobra.Command, opts *Options) {
	register(cmd.Flags(), opts)
	cmd.MarkFlagsMutuallyExclusive("done", "pending")
}

func register(flags *pflag.FlagSet, opts *Options) {
	flags.BoolVar(&opts.Done, "done", false, "Only show completed tasks")
	flags.BoolVar(&opts.Pending, "pending", false, "Only show pending tasks")
	flags.StringVarP(&opts.Priority, "priority", "p", "", "Only show tasks with this priority (low, medium, high, urgent)")
	flags.StringVarP(&opts.Category, "category", "c", "", "Only show tasks in this category")
	flags.StringVarP(&opts.Search, "search", "s", "", "Only show tasks whose title contains this text")
	flags.StringVar(&opts.Sort, "sort", "", "Sort by createdAt, updatedAt, title or priority")
	flags.BoolVar(&opts.Desc, "desc", false, "Sort in descending order")
}

// Filter converts the flags into a task filter. Only flags that were set
// on cmd become predicates.
func (opts *Options) Filter(cmd *cobra.Command) (task.ListFilter, error) {
	return opts.filter(cmd.Flags())
}

func (opts *Options) filter(flags *pflag.FlagSet) (task.ListFilter, error) {
	var filter task.ListFilter
	switch {
	case opts.Done:
		filter.Done = boolPtr(true)
	case opts.Pending:
		filter.Done = boolPtr(false)
	}
	if flags.Changed("priority") {
		priority, err := task.ParsePriority(opts.Priority)
		if err != nil {
			return task.ListFilter{}, err
		}
		filter.Priority = &priority
	}
	if flags.Changed("category") {
		category := opts.Category
		filter.Category = &category
	}
	filter.Search = opts.Search
	return filter, nil
}

// SortOptions returns nil when no sort was requested, keeping insertion order.
func (opts *Options) SortOptions() (*task.SortOptions, error) {
	if opts.Sort == "" {
		if opts.Desc {
			return nil, fmt.Errorf("--desc requires --sort")
		}
		return nil, nil
	}
	field, err := task.ParseSortField(opts.Sort)
	if err != nil {
		return nil, err
	}
	direction := task.SortAsc
	if opts.Desc {
		direction = task.SortDesc
	}
	return &task.SortOptions{Field: field, Direction: direction}, nil
}

func boolPtr(v bool) *bool {
	return &v
}
