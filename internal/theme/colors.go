package theme

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/janekbaraniewski/combochart/internal/chart"
)

// ParseColor accepts "#RRGGBB" or "#RGB".
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", s, err)
	}
	return c.Clamped(), nil
}

// Hex formats c as "#rrggbb", dropping alpha.
func Hex(c color.Color) string {
	if c == nil {
		return ""
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}

// RGBA resolves a theme token to a concrete colour, or fallback when the token
// is empty or malformed.
func RGBA(token lipgloss.Color, fallback color.Color) color.Color {
	if token == "" {
		return fallback
	}
	c, err := ParseColor(string(token))
	if err != nil {
		return fallback
	}
	return c
}

// SeriesColor returns the palette colour for data set i. Past the end of the
// palette colours repeat, blended further toward the background on every lap.
func (t Theme) SeriesColor(i int) color.Color {
	if i < 0 {
		i = 0
	}
	if len(t.Series) == 0 {
		return RGBA(t.Accent, color.Black)
	}
	base, err := colorful.Hex(string(t.Series[i%len(t.Series)]))
	if err != nil {
		return RGBA(t.Accent, color.Black)
	}
	lap := i / len(t.Series)
	if lap == 0 {
		return base
	}
	bg, err := colorful.Hex(string(t.Background))
	if err != nil {
		return base
	}
	mix := 0.3 * float64(lap)
	if mix > 0.75 {
		mix = 0.75
	}
	return base.BlendLab(bg, mix).Clamped()
}

// Apply returns cfg with every colour taken from the theme. Fonts,
// intervals and margins are left alone.
func (t Theme) Apply(cfg chart.Config) chart.Config {
	def := chart.DefaultConfig()
	cfg.AxisColor = RGBA(t.Text, def.AxisColor)
	cfg.AxisDividerColor = RGBA(t.Divider, def.AxisDividerColor)
	cfg.AxisBackgroundColor = RGBA(t.Background, def.AxisBackgroundColor)
	cfg.LineAxisColor = RGBA(t.Subtext, def.LineAxisColor)
	cfg.HorizontalIndicatorColor = RGBA(t.Grid, def.HorizontalIndicatorColor)
	cfg.HighlightIndicatorColor = RGBA(t.Highlight, def.HighlightIndicatorColor)
	return cfg
}
