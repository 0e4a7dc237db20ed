package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/amonks/ticklist/internal/markdown"
	"github.com/amonks/ticklist/internal/ui"
	"github.com/amonks/ticklist/task"
)

var nowFunc = time.Now

func stdoutFile() *os.File {
	return os.Stdout
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func statusLabel(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}

func taskEmptyListMessage(total int) string {
	if total == 0 {
		return "No tasks found."
	}
	return fmt.Sprintf("No matching tasks found (%d total).", total)
}

func formatTaskTable(tasks []task.Task, lengths map[string]int, highlight func(string, int) string, now time.Time) string {
	table := ui.NewTable("ID", "STATUS", "PRIORITY", "CATEGORY", "AGE", "TITLE")
	for _, t := range tasks {
		table.AddRow(
			highlight(t.ID, ui.PrefixLength(lengths, t.ID)),
			statusLabel(t.Done),
			string(t.Priority),
			ui.TruncateCell(t.Category),
			ui.Age(t.CreatedAt, now),
			ui.TruncateCell(t.Title),
		)
	}
	return table.String()
}

func formatStats(stats task.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total:     %d\n", stats.Total)
	fmt.Fprintf(&b, "Completed: %d\n", stats.Completed)
	fmt.Fprintf(&b, "Pending:   %d\n", stats.Pending)

	b.WriteString("\n")
	priorities := ui.NewTable("PRIORITY", "COUNT")
	for _, p := range task.ValidPriorities() {
		priorities.AddRow(string(p), fmt.Sprint(stats.ByPriority[p]))
	}
	b.WriteString(priorities.String())

	if len(stats.ByCategory) == 0 {
		return b.String()
	}

	categories := make([]string, 0, len(stats.ByCategory))
	for category := range stats.ByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	b.WriteString("\n")
	table := ui.NewTable("CATEGORY", "COUNT")
	for _, category := range categories {
		table.AddRow(ui.TruncateCell(category), fmt.Sprint(stats.ByCategory[category]))
	}
	b.WriteString(table.String())
	return b.String()
}

// detailStyle picks the markdown style for show output. Piped output is
// always plain.
func detailStyle(a *app) markdown.Style {
	if !term.IsTerminal(int(stdoutFile().Fd())) {
		return markdown.StyleASCII
	}
	return markdown.StyleFor(a.theme.IsDark())
}

const detailTimeLayout = "2006-01-02 15:04:05"

func renderTaskDetail(t task.Task, style markdown.Style, width int, now time.Time) string {
	var b strings.Builder
	heading := markdown.SafeRender(style, width, 0, []byte("# "+t.Title))
	b.WriteString(strings.TrimSpace(string(heading)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "ID:       %s\n", t.ID)
	fmt.Fprintf(&b, "Status:   %s\n", statusLabel(t.Done))
	fmt.Fprintf(&b, "Priority: %s\n", t.Priority)
	fmt.Fprintf(&b, "Category: %s\n", t.Category)
	fmt.Fprintf(&b, "Created:  %s (%s)\n", t.CreatedAt.Local().Format(detailTimeLayout), ui.Ago(t.CreatedAt, now))
	fmt.Fprintf(&b, "Updated:  %s (%s)\n", t.UpdatedAt.Local().Format(detailTimeLayout), ui.Ago(t.UpdatedAt, now))
	return b.String()
}
