package chart

import "image/color"

const (
	DefaultAxisFontSize     = 9
	DefaultLineAxisFontSize = 8
	DefaultAxisInterval     = 3
	DefaultLineAxisInterval = 2
	DefaultAxisMargin       = 3
	DefaultLeftMargin       = 30
	DefaultRightMargin      = 15
	DefaultBottomMargin     = 25
	DefaultHighlightWidth   = 0.5
)

var (
	colorLightGray = color.RGBA{R: 0xAA, G: 0xAA, B: 0xAA, A: 0xFF}
	colorGray      = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
)

// Margins around the chart area. The top margin is always zero.
type Margins struct {
	Left   float64
	Right  float64
	Bottom float64
}

type Config struct {
	AxisFont            Font
	AxisColor           color.Color
	AxisInterval        int
	AxisDividerColor    color.Color
	AxisBackgroundColor color.Color

	LineAxisFont     Font
	LineAxisColor    color.Color
	LineAxisInterval int

	// AxisMargin is the gap between the chart area bottom and category labels.
	AxisMargin float64
	Margins    Margins

	HorizontalIndicatorColor color.Color
	HighlightIndicatorColor  color.Color
	HighlightWidth           float64
}

func DefaultConfig() Config {
	return Config{
		AxisFont:                 Font{Size: DefaultAxisFontSize},
		AxisColor:                color.Black,
		AxisInterval:             DefaultAxisInterval,
		AxisDividerColor:         colorLightGray,
		AxisBackgroundColor:      color.White,
		LineAxisFont:             Font{Size: DefaultLineAxisFontSize},
		LineAxisColor:            color.Black,
		LineAxisInterval:         DefaultLineAxisInterval,
		AxisMargin:               DefaultAxisMargin,
		Margins:                  Margins{Left: DefaultLeftMargin, Right: DefaultRightMargin, Bottom: DefaultBottomMargin},
		HorizontalIndicatorColor: colorGray,
		HighlightIndicatorColor:  colorGray,
		HighlightWidth:           DefaultHighlightWidth,
	}
}

// Normalize backfills unset or invalid fields with defaults.
func (c Config) Normalize() Config {
	def := DefaultConfig()

	if c.AxisFont.Size <= 0 {
		c.AxisFont.Size = def.AxisFont.Size
	}
	if c.LineAxisFont.Size <= 0 {
		c.LineAxisFont.Size = def.LineAxisFont.Size
	}
	if c.AxisInterval < 1 {
		c.AxisInterval = def.AxisInterval
	}
	if c.LineAxisInterval < 1 {
		c.LineAxisInterval = def.LineAxisInterval
	}
	if c.AxisMargin < 0 {
		c.AxisMargin = def.AxisMargin
	}
	if c.Margins.Left < 0 {
		c.Margins.Left = def.Margins.Left
	}
	if c.Margins.Right < 0 {
		c.Margins.Right = def.Margins.Right
	}
	if c.Margins.Bottom < 0 {
		c.Margins.Bottom = def.Margins.Bottom
	}
	if c.HighlightWidth <= 0 {
		c.HighlightWidth = def.HighlightWidth
	}

	c.AxisColor = orColor(c.AxisColor, def.AxisColor)
	c.AxisDividerColor = orColor(c.AxisDividerColor, def.AxisDividerColor)
	c.AxisBackgroundColor = orColor(c.AxisBackgroundColor, def.AxisBackgroundColor)
	c.LineAxisColor = orColor(c.LineAxisColor, def.LineAxisColor)
	c.HorizontalIndicatorColor = orColor(c.HorizontalIndicatorColor, def.HorizontalIndicatorColor)
	c.HighlightIndicatorColor = orColor(c.HighlightIndicatorColor, def.HighlightIndicatorColor)
	return c
}

func orColor(c, fallback color.Color) color.Color {
	if c == nil {
		return fallback
	}
	return c
}
