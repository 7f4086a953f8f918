package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ftahirops/gputemp/model"
)

var (
	// Colors
	colorRed    = lipgloss.Color("#FF5555")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorWhite  = lipgloss.Color("#F8F8F2")
	colorGray   = lipgloss.Color("#6272A4")
)

// Styles groups the lipgloss styles bound to one renderer.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	OK      lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Panel   lipgloss.Style
}

// NewStyles builds the style set for r. Pass lipgloss.DefaultRenderer()
// for stdout.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(colorCyan),
		Label:   r.NewStyle().Foreground(colorGray),
		Value:   r.NewStyle().Foreground(colorWhite),
		OK:      r.NewStyle().Foreground(colorGreen),
		Warning: r.NewStyle().Foreground(colorRed).Bold(true),
		Error:   r.NewStyle().Foreground(colorYellow).Bold(true),
		Help:    r.NewStyle().Foreground(colorGray),
		Panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1),
	}
}

// temperature returns the style for a reading's temperature value.
// Only warnings are highlighted on the status line.
func (s Styles) temperature(sev model.Severity) (lipgloss.Style, bool) {
	if sev == model.SeverityWarning {
		return s.Warning, true
	}
	return lipgloss.Style{}, false
}
