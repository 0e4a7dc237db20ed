package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/ticklist/internal/editor"
	"github.com/amonks/ticklist/internal/listflags"
	internalstrings "github.com/amonks/ticklist/internal/strings"
	"github.com/amonks/ticklist/ops"
	"github.com/amonks/ticklist/task"
)

// add
var addCmd = &cobra.Command{
	Use:   "add [title...]",
	Short: "Add a task",
	Long: `Add a task.

Without a title, opens $EDITOR on a TOML form when running interactively.
Use --no-edit to skip the editor, or --edit to force opening it.`,
	RunE: runAdd,
}

var (
	addPriority string
	addCategory string
	addEdit     bool
	addNoEdit   bool
)

// update
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task",
	Long: `Update a task.

Without update flags, opens $EDITOR on a TOML form when running
interactively. Use --no-edit to skip the editor, or --edit to force opening it.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var (
	updateTitle    string
	updatePriority string
	updateCategory string
	updateEdit     bool
	updateNoEdit   bool
)

// toggle
var toggleCmd = &cobra.Command{
	Use:   "toggle <id>...",
	Short: "Flip the done state of one or more tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runToggle,
}

// done
var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark one or more tasks as done",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetDone(cmd, args, true)
	},
}

// undone
var undoneCmd = &cobra.Command{
	Use:   "undone <id>...",
	Short: "Mark one or more tasks as pending",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetDone(cmd, args, false)
	},
}

// remove
var removeCmd = &cobra.Command{
	Use:     "remove <id>...",
	Aliases: []string{"rm"},
	Short:   "Remove one or more tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

// clear
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every task",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

// list
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var (
	listFlags listflags.Options
	listJSON  bool
)

// show
var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var showJSON bool

// stats
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the task list",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var statsJSON bool

func init() {
	rootCmd.AddCommand(addCmd, updateCmd, toggleCmd, doneCmd, undoneCmd,
		removeCmd, clearCmd, listCmd, showCmd, statsCmd)

	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "Priority (low, medium, high, urgent)")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category (default General)")
	addCmd.Flags().BoolVar(&addEdit, "edit", false, "Open $EDITOR (default if interactive and no title)")
	addCmd.Flags().BoolVar(&addNoEdit, "no-edit", false, "Do not open $EDITOR")
	addCmd.MarkFlagsMutuallyExclusive("edit", "no-edit")

	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "New priority (low, medium, high, urgent)")
	updateCmd.Flags().StringVarP(&updateCategory, "category", "c", "", "New category")
	updateCmd.Flags().BoolVar(&updateEdit, "edit", false, "Open $EDITOR (default if interactive and no update flags)")
	updateCmd.Flags().BoolVar(&updateNoEdit, "no-edit", false, "Do not open $EDITOR")
	updateCmd.MarkFlagsMutuallyExclusive("edit", "no-edit")

	listflags.Add(listCmd, &listFlags)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := internalstrings.NormalizeWhitespace(strings.Join(args, " "))
	useEditor := addEdit || (!addNoEdit && title == "" && editor.IsInteractive())

	req := ops.AddRequest{
		Title:    title,
		Priority: priorityArg(addPriority),
		Category: addCategory,
	}
	if useEditor {
		parsed, err := editor.EditTask(nil)
		if err != nil {
			return err
		}
		draft := parsed.Draft()
		req.Title = draft.Title
		if !cmd.Flags().Changed("priority") {
			req.Priority = string(draft.Priority)
		}
		if !cmd.Flags().Changed("category") {
			req.Category = draft.Category
		}
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		resp := ops.NewAdd(a.env).Execute(ctx, req)
		if !resp.Success {
			return errOperationFailed
		}
		lengths := a.prefixLengths(ctx)
		fmt.Fprintf(a.out, "Added %s: %s\n", a.highlightID(lengths, resp.Task.ID), resp.Task.Title)
		return nil
	})
}

func runUpdate(cmd *cobra.Command, args []string) error {
	hasFlags := hasChangedFlags(cmd, "title", "priority", "category")
	useEditor := updateEdit || (!updateNoEdit && !hasFlags && editor.IsInteractive())

	return withApp(cmd, func(ctx context.Context, a *app) error {
		req := ops.UpdateRequest{ID: args[0]}

		if useEditor {
			got := ops.NewGet(a.env).Execute(ctx, ops.GetRequest{ID: args[0]})
			if !got.Success {
				return errOperationFailed
			}
			parsed, err := editor.EditTask(got.Task)
			if err != nil {
				return err
			}
			opts := parsed.UpdateOptions()
			req.ID = got.Task.ID
			req.Title = opts.Title
			req.Priority = opts.Priority
			req.Category = opts.Category
			req.Done = opts.Done
		} else {
			if !hasFlags {
				return fmt.Errorf("no updates given: use --title, --priority, --category or --edit")
			}
			if cmd.Flags().Changed("title") {
				title := updateTitle
				req.Title = &title
			}
			if cmd.Flags().Changed("priority") {
				priority, err := task.ParsePriority(updatePriority)
				if err != nil {
					a.env.Notifier.Error(err.Error())
					return errOperationFailed
				}
				req.Priority = &priority
			}
			if cmd.Flags().Changed("category") {
				category := updateCategory
				req.Category = &category
			}
		}

		resp := ops.NewUpdate(a.env).Execute(ctx, req)
		if !resp.Success {
			return errOperationFailed
		}
		lengths := a.prefixLengths(ctx)
		fmt.Fprintf(a.out, "Updated %s: %s\n", a.highlightID(lengths, resp.Task.ID), resp.Task.Title)
		return nil
	})
}

func runToggle(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		op := ops.NewToggle(a.env)
		failed := false
		for _, id := range args {
			resp := op.Execute(ctx, ops.ToggleRequest{ID: id})
			if !resp.Success {
				failed = true
				continue
			}
			printStatusLine(ctx, a, *resp.Task)
		}
		if failed {
			return errOperationFailed
		}
		return nil
	})
}

func runSetDone(cmd *cobra.Command, args []string, done bool) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		op := ops.NewUpdate(a.env)
		failed := false
		for _, id := range args {
			value := done
			resp := op.Execute(ctx, ops.UpdateRequest{ID: id, Done: &value})
			if !resp.Success {
				failed = true
				continue
			}
			printStatusLine(ctx, a, *resp.Task)
		}
		if failed {
			return errOperationFailed
		}
		return nil
	})
}

func printStatusLine(ctx context.Context, a *app, t task.Task) {
	lengths := a.prefixLengths(ctx)
	fmt.Fprintf(a.out, "%s %s: %s\n", statusLabel(t.Done), a.highlightID(lengths, t.ID), t.Title)
}

func runRemove(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		op := ops.NewRemove(a.env)
		failed := false
		for _, id := range args {
			resp := op.Execute(ctx, ops.RemoveRequest{ID: id})
			if !resp.Success {
				failed = true
				continue
			}
			fmt.Fprintf(a.out, "Removed %s\n", resp.ID)
		}
		if failed {
			return errOperationFailed
		}
		return nil
	})
}

func runClear(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if resp := ops.NewClear(a.env).Execute(ctx); !resp.Success {
			return errOperationFailed
		}
		return nil
	})
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := listFlags.Filter(cmd)
	if err != nil {
		return err
	}
	sortOpts, err := listFlags.SortOptions()
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		resp := ops.NewList(a.env).Execute(ctx, ops.ListRequest{Filter: filter, Sort: sortOpts})
		if !resp.Success {
			return errOperationFailed
		}

		if listJSON {
			return writeJSON(a.out, resp.Tasks)
		}

		if len(resp.Tasks) == 0 {
			stats := ops.NewGetStats(a.env).Execute(ctx)
			fmt.Fprintln(a.out, taskEmptyListMessage(stats.Stats.Total))
			return nil
		}

		fmt.Fprint(a.out, formatTaskTable(resp.Tasks, a.prefixLengths(ctx), a.ids.Highlight, nowFunc()))
		return nil
	})
}

func runShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		op := ops.NewGet(a.env)
		found := make([]task.Task, 0, len(args))
		failed := false
		for _, id := range args {
			resp := op.Execute(ctx, ops.GetRequest{ID: id})
			if !resp.Success {
				failed = true
				continue
			}
			found = append(found, *resp.Task)
		}

		if showJSON {
			if err := writeJSON(a.out, found); err != nil {
				return err
			}
		} else {
			style := detailStyle(a)
			for i, t := range found {
				if i > 0 {
					fmt.Fprintln(a.out)
				}
				fmt.Fprint(a.out, renderTaskDetail(t, style, terminalWidth(stdoutFile()), nowFunc()))
			}
		}

		if failed {
			return errOperationFailed
		}
		return nil
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		resp := ops.NewGetStats(a.env).Execute(ctx)
		if !resp.Success {
			return errOperationFailed
		}
		if statsJSON {
			return writeJSON(a.out, resp.Stats)
		}
		fmt.Fprint(a.out, formatStats(resp.Stats))
		return nil
	})
}

// priorityArg accepts any case and surrounding space on the command line.
// Unknown values pass through so the add operation reports them.
func priorityArg(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if parsed, err := task.ParsePriority(value); err == nil {
		return string(parsed)
	}
	return value
}
