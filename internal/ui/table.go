package ui

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	cellMaxWidth = 50
	cellEllipsis = "..."
	columnGap    = 2
)

// Table collects rows and renders them as aligned columns.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable returns a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a row. Missing trailing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table.
func (t *Table) String() string {
	return FormatTable(t.headers, t.rows)
}

// FormatTable renders headers and rows as left-aligned columns separated by
// two spaces. The last column is never padded.
func FormatTable(headers []string, rows [][]string) string {
	all := make([][]string, 0, len(rows)+1)
	all = append(all, normalizeRow(headers))
	for _, row := range rows {
		all = append(all, normalizeRow(row))
	}

	widths := make([]int, len(headers))
	for _, row := range all {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := ansi.PrintableRuneWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range all {
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(cell)
			if i == len(widths)-1 {
				break
			}
			b.WriteString(strings.Repeat(" ", widths[i]-ansi.PrintableRuneWidth(cell)+columnGap))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// TruncateCell flattens line breaks and limits value to 50 visible
// characters, keeping escape sequences intact.
func TruncateCell(value string) string {
	value = normalizeCell(value)
	if ansi.PrintableRuneWidth(value) <= cellMaxWidth {
		return value
	}
	return truncate.StringWithTail(value, cellMaxWidth, cellEllipsis)
}

func normalizeRow(row []string) []string {
	normalized := make([]string, len(row))
	for i, cell := range row {
		normalized[i] = normalizeCell(cell)
	}
	return normalized
}

func normalizeCell(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
}
