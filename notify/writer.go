package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const defaultWidth = 80

// Writer prints notifications as single styled entries.
type Writer struct {
	mu      sync.Mutex
	out     io.Writer
	width   int
	styles  map[Kind]lipgloss.Style
	printed map[string]bool
}

// NewWriter returns a Writer wrapping messages to width columns.
// A width below 1 uses 80.
func NewWriter(out io.Writer, width int) *Writer {
	if width < 1 {
		width = defaultWidth
	}
	renderer := lipgloss.NewRenderer(out)
	return &Writer{
		out:   out,
		width: width,
		styles: map[Kind]lipgloss.Style{
			KindSuccess: renderer.NewStyle().Foreground(lipgloss.Color("2")),
			KindError:   renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
			KindInfo:    renderer.NewStyle().Foreground(lipgloss.Color("244")),
		},
		printed: make(map[string]bool),
	}
}

func (w *Writer) Success(message string) { w.write(KindSuccess, message) }
func (w *Writer) Error(message string)   { w.write(KindError, message) }
func (w *Writer) Info(message string)    { w.write(KindInfo, message) }

// Attach prints every notification pushed to c from now on.
// The returned func detaches.
func (w *Writer) Attach(c *Center) func() {
	w.mu.Lock()
	for _, n := range c.Notifications() {
		w.printed[n.ID] = true
	}
	w.mu.Unlock()

	return c.Subscribe(func(snapshot []Notification) {
		// Snapshots are newest first; print oldest unseen first.
		for i := len(snapshot) - 1; i >= 0; i-- {
			n := snapshot[i]
			w.mu.Lock()
			seen := w.printed[n.ID]
			w.printed[n.ID] = true
			w.mu.Unlock()
			if !seen {
				w.write(n.Kind, n.Message)
			}
		}
	})
}

func (w *Writer) write(kind Kind, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintln(w.out, w.render(kind, message))
}

// render prefixes the first line with the kind marker and indents the rest.
func (w *Writer) render(kind Kind, message string) string {
	marker := markerFor(kind)
	wrapped := wordwrap.String(strings.TrimSpace(message), w.width-len(marker)-1)
	lines := strings.Split(wrapped, "\n")
	indent := strings.Repeat(" ", len(marker)+1)
	for i, line := range lines {
		if i == 0 {
			lines[i] = marker + " " + line
		} else {
			lines[i] = indent + line
		}
	}
	style, ok := w.styles[kind]
	if !ok {
		return strings.Join(lines, "\n")
	}
	return style.Render(strings.Join(lines, "\n"))
}

func markerFor(kind Kind) string {
	switch kind {
	case KindSuccess:
		return "ok:"
	case KindError:
		return "error:"
	default:
		return "info:"
	}
}
