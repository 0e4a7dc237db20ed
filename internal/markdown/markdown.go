// Package markdown renders markdown for the terminal with glamour.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"

	internalstrings "github.com/amonks/ticklist/internal/strings"
)

// Style selects a glamour style sheet.
type Style string

const (
	StyleASCII Style = "ascii"
	StyleDark  Style = "dark"
	StyleLight Style = "light"
)

// StyleFor picks the dark or light sheet. Output that is not a terminal
// should use StyleASCII instead.
func StyleFor(dark bool) Style {
	if dark {
		return StyleDark
	}
	return StyleLight
}

type renderer interface {
	Render(string) (string, error)
}

type rendererKey struct {
	style Style
	width int
}

var (
	rendererMu sync.Mutex
	renderers  = map[rendererKey]renderer{}
)

// Render formats markdown text for terminal output, wrapping at width and
// indenting every line by indent spaces. It returns nil for blank input.
func Render(style Style, width, indent int, input []byte) []byte {
	if len(input) == 0 {
		return nil
	}
	value := internalstrings.NormalizeNewlines(string(input))
	value = internalstrings.TrimTrailingNewlines(value)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}
	if indent < 0 {
		indent = 0
	}
	renderWidth := max(width-indent, 1)

	rendered := value
	if r := markdownRenderer(style, renderWidth); r != nil {
		if formatted, err := r.Render(value); err == nil {
			rendered = formatted
		}
	}
	rendered = internalstrings.TrimTrailingNewlines(rendered)
	if strings.TrimSpace(rendered) == "" {
		return nil
	}
	return []byte(indentBlock(rendered, indent))
}

// SafeRender is Render, falling back to the trimmed input if the renderer
// panics.
func SafeRender(style Style, width, indent int, input []byte) (out []byte) {
	defer func() {
		if recover() != nil {
			value := internalstrings.TrimTrailingNewlines(internalstrings.NormalizeNewlines(string(input)))
			out = []byte(indentBlock(value, indent))
		}
	}()
	return Render(style, width, indent, input)
}

func markdownRenderer(style Style, width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	key := rendererKey{style: style, width: width}
	if cached, ok := renderers[key]; ok {
		return cached
	}
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(styleConfig(style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[key] = created
	return created
}

func styleConfig(style Style) ansi.StyleConfig {
	switch style {
	case StyleDark:
		return styles.DarkStyleConfig
	case StyleLight:
		return styles.LightStyleConfig
	default:
		config := styles.ASCIIStyleConfig
		config.Item.BlockPrefix = "- "
		return config
	}
}

func indentBlock(value string, spaces int) string {
	if spaces <= 0 {
		return value
	}
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
