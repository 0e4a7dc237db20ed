package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	ansiBold  = "\x1b[1m"
	ansiCyan  = "\x1b[36m"
	ansiReset = "\x1b[0m"
)

// IDStyler highlights the unique prefix of task IDs when color is enabled.
type IDStyler struct {
	enabled bool
}

// NewIDStyler enables highlighting when out is a terminal and neither
// NO_COLOR nor TERM=dumb is set.
func NewIDStyler(out *os.File) IDStyler {
	return IDStyler{enabled: colorEnabled(out)}
}

// PlainIDs never highlights.
func PlainIDs() IDStyler {
	return IDStyler{}
}

// Enabled reports whether Highlight emits escape codes.
func (s IDStyler) Enabled() bool {
	return s.enabled
}

// Highlight returns id with its first prefixLen characters emphasized.
func (s IDStyler) Highlight(id string, prefixLen int) string {
	if id == "" || prefixLen <= 0 || prefixLen > len(id) || !s.enabled {
		return id
	}
	return ansiBold + ansiCyan + id[:prefixLen] + ansiReset + id[prefixLen:]
}

// PrefixLength looks up id in lengths, ignoring case.
func PrefixLength(lengths map[string]int, id string) int {
	if id == "" || lengths == nil {
		return 0
	}
	if n, ok := lengths[id]; ok {
		return n
	}
	return lengths[strings.ToLower(id)]
}

func colorEnabled(out *os.File) bool {
	if out == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(out.Fd()))
}
