package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWrapWidth is used by Render when width is not positive.
const DefaultWrapWidth = 100

// Render formats Markdown for a terminal. The style follows the terminal
// background and falls back to plain text when there is no terminal.
func Render(markdown string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
