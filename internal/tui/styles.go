package tui

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/combochart/internal/theme"
)

// styles are rebuilt whenever the active theme changes.
type styles struct {
	base      lipgloss.Style
	brand     lipgloss.Style
	info      lipgloss.Style
	separator lipgloss.Style
	help      lipgloss.Style
	helpKey   lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	err       lipgloss.Style
}

func newStyles(th theme.Theme) styles {
	return styles{
		base: lipgloss.NewStyle().
			Background(th.Background).
			Foreground(th.Text),
		brand: lipgloss.NewStyle().
			Bold(true).
			Foreground(th.Accent),
		info: lipgloss.NewStyle().
			Foreground(th.Subtext),
		separator: lipgloss.NewStyle().
			Foreground(th.Divider),
		help: lipgloss.NewStyle().
			Foreground(th.Subtext),
		helpKey: lipgloss.NewStyle().
			Foreground(th.Accent).
			Bold(true),
		label: lipgloss.NewStyle().
			Foreground(th.Subtext),
		value: lipgloss.NewStyle().
			Foreground(th.Text).
			Bold(true),
		err: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D20F39")).
			Bold(true),
	}
}

// seriesStyle colours a series label with its resolved chart colour.
func seriesStyle(c color.Color) lipgloss.Style {
	if c == nil {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Hex(c)))
}
