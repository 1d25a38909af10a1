package render

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

const (
	DefaultStyle = "dracula"
	DefaultWidth = 100
)

// Styles lists the glamour styles a config may name.
var Styles = []string{"ascii", "dark", "dracula", "light", "notty", "pink"}

func ValidStyle(style string) bool {
	return slices.Contains(Styles, style)
}

// Markdown renders markdown source for the terminal.
func Markdown(src, style string, width int) (string, error) {
	if style == "" {
		style = DefaultStyle
	}
	if width <= 0 {
		width = DefaultWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(src)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
