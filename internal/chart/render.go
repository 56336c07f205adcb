package chart

import (
	"image/color"
	"log"

	"github.com/samber/lo"
)

// Stage identifies one step of the draw order.
type Stage string

const (
	StageLineAxis  Stage = "line-axis"
	StageAxis      Stage = "axis"
	StageDivider   Stage = "divider"
	StageHighlight Stage = "highlight"
	StageBars      Stage = "bars"
	StageLines     Stage = "lines"
)

// Stages lists the draw order, back to front.
var Stages = []Stage{StageLineAxis, StageAxis, StageDivider, StageHighlight, StageBars, StageLines}

// StageMarker is implemented by canvases that want to know which stage is
// issuing the following operations.
type StageMarker interface {
	BeginStage(s Stage)
}

// Draw renders the chart onto c. Each stage is skipped when its data is
// absent or degenerate.
func (v *View) Draw(c Canvas) {
	l := v.layout()
	marker, _ := c.(StageMarker)
	for _, s := range Stages {
		if marker != nil {
			marker.BeginStage(s)
		}
		switch s {
		case StageLineAxis:
			v.drawLineAxis(c, l)
		case StageAxis:
			v.drawAxis(c, l)
		case StageDivider:
			v.drawAxisDivider(c, l)
		case StageHighlight:
			v.drawHighlightIndicator(c, l)
		case StageBars:
			v.drawBars(c, l)
		case StageLines:
			v.drawLines(c, l)
		}
	}
}

func (v *View) drawLineAxis(c Canvas, l Layout) {
	if v.lines == nil {
		return
	}
	style := TextStyle{Font: v.cfg.LineAxisFont, Color: v.cfg.LineAxisColor}
	for _, row := range l.GridRows(v.lines.MaxValue, v.cfg.LineAxisInterval) {
		text := v.delegate.LineAxisText(v, float64(row.Value))
		size := c.MeasureText(text, style.Font, style.Color)

		c.FillRect(Rect{X: l.Area.X, Y: row.Y, W: l.Area.W, H: 1}, Fill{Color: v.cfg.HorizontalIndicatorColor})
		c.DrawText(text, l.GridLabelOrigin(row, size), style)
	}
}

func (v *View) drawAxis(c Canvas, l Layout) {
	if _, ok := l.SlotWidth(); !ok {
		return
	}
	style := TextStyle{Font: v.cfg.AxisFont, Color: v.cfg.AxisColor}
	for i, axis := range v.axes {
		if !ShowsAxisLabel(i, v.cfg.AxisInterval) {
			continue
		}
		text := v.delegate.AxisText(v, axis)
		size := c.MeasureText(text, style.Font, style.Color)
		at := l.AxisLabelOrigin(i, size, v.cfg.AxisMargin)

		c.FillRect(Rect{X: at.X, Y: at.Y, W: size.W, H: size.H}, Fill{Color: v.cfg.AxisBackgroundColor})
		c.DrawText(text, at, style)
	}
}

func (v *View) drawAxisDivider(c Canvas, l Layout) {
	c.FillRect(Rect{X: 0, Y: l.Area.H, W: l.Bounds.W, H: 1}, Fill{Color: v.cfg.AxisDividerColor})
}

func (v *View) drawHighlightIndicator(c Canvas, l Layout) {
	if v.selected == nil {
		return
	}
	idx := lo.IndexOf(v.axes, *v.selected)
	if idx < 0 {
		return
	}
	c.FillRect(Rect{
		X: l.CategoryCenter(idx),
		Y: l.Area.Y,
		W: v.cfg.HighlightWidth,
		H: l.Bounds.H,
	}, Fill{Color: v.cfg.HighlightIndicatorColor})
}

func (v *View) drawBars(c Canvas, l Layout) {
	if v.bars == nil {
		return
	}
	scale := BarScale{Max: v.bars.MaxValue, GroupSpace: v.bars.GroupSpace, Sets: len(v.bars.DataSets)}
	if !scale.valid() || l.Count == 0 {
		return
	}
	for d, set := range v.bars.DataSets {
		if len(set.Entries) > l.Count {
			log.Printf("[chart] bar data set %q has %d entries for %d axes", set.Label, len(set.Entries), l.Count)
		}
		fill := Fill{Color: orColor(set.Color, color.Black)}
		for i, e := range set.Entries {
			if i >= l.Count {
				break
			}
			if !finite(e.Value) {
				continue
			}
			c.FillRect(l.BarRect(i, d, e.Value, scale, set.Space), fill)
		}
	}
}

func (v *View) drawLines(c Canvas, l Layout) {
	if v.lines == nil || !(v.lines.MaxValue > 0) || l.Count == 0 {
		return
	}
	for _, set := range v.lines.DataSets {
		if len(set.Entries) > l.Count {
			log.Printf("[chart] line data set %q has %d entries for %d axes", set.Label, len(set.Entries), l.Count)
		}
		values := make([]float64, len(set.Entries))
		for i, e := range set.Entries {
			values[i] = e.Value
		}
		pts := l.LineSegments(values, v.lines.MaxValue)
		if len(pts) < 2 {
			continue
		}
		width := set.Width
		if width <= 0 {
			width = 1
		}
		c.StrokeSegments(pts, Stroke{Color: orColor(set.Color, color.Black), Width: width})
	}
}
