package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const ruleWidth = 70

var (
	colorOK    = lipgloss.Color("#8BC34A")
	colorWarn  = lipgloss.Color("#FFC107")
	colorError = lipgloss.Color("#e53935")
	colorMuted = lipgloss.Color("#8a8f98")
)

// styles holds the console styles bound to one writer. Colors are dropped
// automatically when the writer is not a terminal.
type styles struct {
	title lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
	muted lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true),
		ok:    r.NewStyle().Foreground(colorOK),
		warn:  r.NewStyle().Foreground(colorWarn),
		err:   r.NewStyle().Foreground(colorError).Bold(true),
		muted: r.NewStyle().Foreground(colorMuted),
	}
}

// section writes a title between two rules.
func (s styles) section(b *strings.Builder, title string) {
	rule := strings.Repeat("=", ruleWidth)
	b.WriteString(rule + "\n")
	b.WriteString(s.title.Render(title) + "\n")
	b.WriteString(rule + "\n")
}
