package chart

import "math"

// ChartArea is the plotting rectangle inside bounds. The top margin is zero.
func ChartArea(bounds Size, m Margins) Rect {
	return Rect{
		X: m.Left,
		Y: 0,
		W: bounds.W - (m.Left + m.Right),
		H: bounds.H - m.Bottom,
	}
}

// Layout maps categories and values to pixel coordinates for one draw pass.
// It is recomputed on every draw and never cached across frames.
type Layout struct {
	Bounds Size
	Area   Rect
	Count  int
}

func NewLayout(bounds Size, m Margins, count int) Layout {
	return Layout{Bounds: bounds, Area: ChartArea(bounds, m), Count: count}
}

// SlotWidth is the horizontal span of one category. ok is false when there
// are no categories.
func (l Layout) SlotWidth() (float64, bool) {
	if l.Count <= 0 {
		return 0, false
	}
	return l.Area.W / float64(l.Count), true
}

// CategoryCenter is the x coordinate at the middle of slot i.
func (l Layout) CategoryCenter(i int) float64 {
	slot, _ := l.SlotWidth()
	return float64(i)*slot + slot/2 + l.Area.X
}

// BarScale carries the per-pass constants of the bar scale.
type BarScale struct {
	Max        float64
	GroupSpace float64
	Sets       int
}

func (s BarScale) valid() bool {
	return s.Max > 0 && s.Sets > 0
}

// BarRect is the rectangle of data set d at category i. Bars grow upward from
// the chart area bottom. space is the fraction of the bar's own sub-slot left
// empty, split evenly on both sides.
func (l Layout) BarRect(i, d int, value float64, s BarScale, space float64) Rect {
	slot, _ := l.SlotWidth()
	total := slot * (1 - s.GroupSpace)
	barWidth := total / float64(s.Sets)
	x := float64(i)*slot + float64(d)*barWidth + total/2 + l.Area.X
	height := value * (l.Area.H / s.Max)

	inset := barWidth * space / 2
	return Rect{
		X: x + inset,
		Y: l.Area.H,
		W: barWidth - 2*inset,
		H: -height,
	}.Normalize()
}

// LinePoint is the vertex of a line series at category i.
func (l Layout) LinePoint(i int, value, max float64) Point {
	return Point{
		X: l.CategoryCenter(i),
		Y: l.Area.H - value*(l.Area.H/max),
	}
}

// LineSegments returns segment endpoint pairs joining consecutive values.
// Interior points appear twice; the first and last appear once. Values past
// the category count are ignored, and a non-finite value drops both segments
// that touch it.
func (l Layout) LineSegments(values []float64, max float64) []Point {
	n := len(values)
	if n > l.Count {
		n = l.Count
	}
	if n == 0 {
		return nil
	}
	if n == 1 {
		if !finite(values[0]) {
			return nil
		}
		return []Point{l.LinePoint(0, values[0], max)}
	}
	pts := make([]Point, 0, 2*(n-1))
	for i := 1; i < n; i++ {
		if !finite(values[i-1]) || !finite(values[i]) {
			continue
		}
		pts = append(pts, l.LinePoint(i-1, values[i-1], max), l.LinePoint(i, values[i], max))
	}
	return pts
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// GridRow is one horizontal gridline of the line scale.
type GridRow struct {
	Value int
	Y     float64
	// Pitch is the pixel distance between consecutive integer values.
	Pitch float64
}

// GridRows lists gridlines for every integer value in [1, floor(max)-1] that
// is a multiple of interval. Maxima beyond the int32 range produce no rows.
func (l Layout) GridRows(max float64, interval int) []GridRow {
	if !finite(max) || max > math.MaxInt32 {
		return nil
	}
	top := int(max)
	if top <= 1 {
		return nil
	}
	if interval < 1 {
		interval = 1
	}
	pitch := l.Area.H / float64(top)
	var rows []GridRow
	for v := interval; v < top; v += interval {
		rows = append(rows, GridRow{Value: v, Y: l.Area.H - pitch*float64(v), Pitch: pitch})
	}
	return rows
}

// GridLabelOrigin places a gridline label right-aligned against the chart
// area's left edge.
func (l Layout) GridLabelOrigin(row GridRow, text Size) Point {
	return Point{X: l.Area.X - text.W, Y: row.Y - text.H/2}
}

// ShowsAxisLabel reports whether category i carries a label.
func ShowsAxisLabel(i, interval int) bool {
	if interval < 1 {
		interval = 1
	}
	return (i+1)%interval == 0
}

// AxisLabelOrigin centres a category label within slot i below the chart area.
func (l Layout) AxisLabelOrigin(i int, text Size, margin float64) Point {
	slot, _ := l.SlotWidth()
	return Point{
		X: slot*float64(i) + (slot-text.W)/2 + l.Area.X,
		Y: l.Area.H + margin,
	}
}
