// Package cells draws charts onto a terminal cell grid.
//
// The chart works in pixels; each terminal cell stands for a CellSize block of
// them. Filled rectangles become background-coloured cells, thin rectangles
// become box-drawing rules, text lands on the cell grid and line series are
// plotted with braille dots at 2×4 sub-cell resolution.
package cells

import (
	"image/color"
	"math"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/janekbaraniewski/combochart/internal/chart"
)

// CellSize is the pixel footprint of one terminal cell.
type CellSize struct {
	W float64
	H float64
}

// DefaultCellSize approximates a typical terminal font's aspect ratio.
var DefaultCellSize = CellSize{W: 6, H: 12}

const (
	brailleBase rune = 0x2800
	brailleLast rune = 0x28FF
)

var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a chart.Canvas over an ntcharts cell canvas.
type Canvas struct {
	cells canvas.Model
	size  CellSize
	base  lipgloss.Style
}

var _ chart.Canvas = (*Canvas)(nil)

// New returns a cols×rows grid. Empty cells are painted with base.
func New(cols, rows int, size CellSize, base lipgloss.Style) *Canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if !(size.W > 0) || !(size.H > 0) {
		size = DefaultCellSize
	}
	c := &Canvas{cells: canvas.New(cols, rows), size: size, base: base}
	c.Clear()
	return c
}

// Bounds is the pixel size the chart should lay itself out in.
func (c *Canvas) Bounds() chart.Size {
	return chart.Size{
		W: float64(c.cells.Width()) * c.size.W,
		H: float64(c.cells.Height()) * c.size.H,
	}
}

func (c *Canvas) Cols() int { return c.cells.Width() }
func (c *Canvas) Rows() int { return c.cells.Height() }

// CellToPixel maps a cell to the pixel at its centre.
func (c *Canvas) CellToPixel(col, row int) chart.Point {
	return CellCenter(col, row, c.size)
}

// CellCenter maps a cell to the pixel at its centre for the given cell size.
func CellCenter(col, row int, size CellSize) chart.Point {
	return chart.Point{
		X: (float64(col) + 0.5) * size.W,
		Y: (float64(row) + 0.5) * size.H,
	}
}

// Clear resets every cell to a blank in the base style.
func (c *Canvas) Clear() {
	for y := 0; y < c.cells.Height(); y++ {
		for x := 0; x < c.cells.Width(); x++ {
			c.cells.SetCell(canvas.Point{X: x, Y: y}, canvas.NewCellWithStyle(' ', c.base))
		}
	}
}

// Cell exposes the rune and style at a cell, for inspection.
func (c *Canvas) Cell(col, row int) canvas.Cell {
	return c.cells.Cell(canvas.Point{X: col, Y: row})
}

// View renders the grid as styled terminal lines.
func (c *Canvas) View() string {
	return c.cells.View()
}

// MeasureText reports display-cell width scaled to pixels; every string is
// one row tall.
func (c *Canvas) MeasureText(s string, _ chart.Font, _ color.Color) chart.Size {
	return chart.Size{W: float64(ansi.StringWidth(s)) * c.size.W, H: c.size.H}
}

func (c *Canvas) FillRect(r chart.Rect, f chart.Fill) {
	r = r.Normalize()
	col, ok := toLipgloss(f.Color)
	if !ok || !(r.W > 0) || !(r.H > 0) {
		return
	}
	r, ok = clipRect(r, c.Bounds())
	if !ok {
		return
	}
	x0, x1, thinX := span(r.X, r.MaxX(), c.size.W)
	y0, y1, thinY := span(r.Y, r.MaxY(), c.size.H)
	x0, x1 = max(x0, 0), min(x1, c.Cols())
	y0, y1 = max(y0, 0), min(y1, c.Rows())

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := canvas.Point{X: x, Y: y}
			switch {
			case thinX && thinY:
				c.overlay(p, '·', col)
			case thinY:
				c.overlay(p, '─', col)
			case thinX:
				c.overlay(p, '│', col)
			default:
				if c.inside(p) {
					c.cells.SetCell(p, canvas.NewCellWithStyle(' ', c.base.Background(col)))
				}
			}
		}
	}
}

// StrokeSegments plots each endpoint pair as braille dots. Segments are
// clipped to the grid and pairs with a non-finite endpoint are dropped. Dots
// from different calls on the same cell are merged into one glyph; the last
// colour wins.
func (c *Canvas) StrokeSegments(pts []chart.Point, s chart.Stroke) {
	col, ok := toLipgloss(s.Color)
	if !ok {
		return
	}
	bounds := c.Bounds()
	patterns := make(map[canvas.Point]rune)
	for i := 0; i+1 < len(pts); i += 2 {
		pa, pb, ok := clipSegment(pts[i], pts[i+1], bounds)
		if !ok {
			continue
		}
		a, b := c.dot(pa), c.dot(pb)
		dots := []canvas.Point{a}
		if a != b {
			dots = graph.GetLinePoints(a, b)
		}
		for _, d := range dots {
			if d.X < 0 || d.Y < 0 {
				continue
			}
			cell := canvas.Point{X: d.X / 2, Y: d.Y / 4}
			patterns[cell] |= brailleDots[d.Y%4][d.X%2]
		}
	}
	for p, bits := range patterns {
		if !c.inside(p) {
			continue
		}
		existing := c.cells.Cell(p)
		r := brailleBase | bits
		if existing.Rune >= brailleBase && existing.Rune <= brailleLast {
			r |= existing.Rune
		}
		c.cells.SetCell(p, canvas.NewCellWithStyle(r, existing.Style.Foreground(col)))
	}
}

// DrawText writes s starting at the cell containing at, keeping each cell's
// background.
func (c *Canvas) DrawText(s string, at chart.Point, st chart.TextStyle) {
	col, ok := toLipgloss(st.Color)
	if !ok {
		return
	}
	p := canvas.Point{
		X: int(math.Round(at.X / c.size.W)),
		Y: int(math.Round(at.Y / c.size.H)),
	}
	for _, r := range s {
		w := ansi.StringWidth(string(r))
		if w == 0 {
			continue
		}
		c.overlay(p, r, col)
		p.X += w
	}
}

func (c *Canvas) overlay(p canvas.Point, r rune, fg lipgloss.Color) {
	if !c.inside(p) {
		return
	}
	existing := c.cells.Cell(p)
	c.cells.SetCell(p, canvas.NewCellWithStyle(r, existing.Style.Foreground(fg)))
}

func (c *Canvas) inside(p canvas.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < c.cells.Width() && p.Y < c.cells.Height()
}

func (c *Canvas) dot(p chart.Point) canvas.Point {
	return canvas.Point{
		X: int(math.Floor(p.X / c.size.W * 2)),
		Y: int(math.Floor(p.Y / c.size.H * 4)),
	}
}

func finitePoint(p chart.Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// clipRect intersects r with the pixel area of the grid. Rects with a
// non-finite edge or no overlap report false.
func clipRect(r chart.Rect, b chart.Size) (chart.Rect, bool) {
	tl, br := chart.Point{X: r.X, Y: r.Y}, chart.Point{X: r.MaxX(), Y: r.MaxY()}
	if !finitePoint(tl) || !finitePoint(br) {
		return chart.Rect{}, false
	}
	x0, x1 := max(tl.X, 0), min(br.X, b.W)
	y0, y1 := max(tl.Y, 0), min(br.Y, b.H)
	if !(x1 > x0) || !(y1 > y0) {
		return chart.Rect{}, false
	}
	return chart.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

// clipSegment trims a-b to the pixel area of the grid (Liang-Barsky).
func clipSegment(a, b chart.Point, bounds chart.Size) (chart.Point, chart.Point, bool) {
	if !finitePoint(a) || !finitePoint(b) {
		return a, b, false
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X},
		{dx, bounds.W - a.X},
		{-dy, a.Y},
		{dy, bounds.H - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = min(t1, t)
		}
	}
	ca := chart.Point{X: a.X + t0*dx, Y: a.Y + t0*dy}
	cb := chart.Point{X: a.X + t1*dx, Y: a.Y + t1*dy}
	if !finitePoint(ca) || !finitePoint(cb) {
		return a, b, false
	}
	return ca, cb, true
}

// span converts a pixel interval to the cells whose centres it covers. An
// interval too narrow to cover any centre collapses to the cell holding its
// midpoint and reports thin.
func span(a, b, size float64) (from, to int, thin bool) {
	from = int(math.Round(a / size))
	to = int(math.Round(b / size))
	if to > from {
		return from, to, false
	}
	mid := int(math.Floor((a + b) / 2 / size))
	return mid, mid + 1, true
}

func toLipgloss(c color.Color) (lipgloss.Color, bool) {
	if c == nil {
		return "", false
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "", false
	}
	return lipgloss.Color(cf.Hex()), true
}
