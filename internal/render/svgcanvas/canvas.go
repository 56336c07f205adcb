// Package svgcanvas draws charts as SVG documents.
package svgcanvas

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/janekbaraniewski/combochart/internal/chart"
	"github.com/janekbaraniewski/combochart/internal/render/raster"
)

// Canvas is a chart.Canvas that streams SVG elements to a writer. Text is
// measured with the same Go fonts the raster canvas uses, so both outputs
// share one layout.
type Canvas struct {
	svg     *svg.SVG
	measure *raster.Measurer
	ended   bool
}

var _ chart.Canvas = (*Canvas)(nil)

// New starts a width×height document on w and paints bg when it is not nil.
// Close must be called to finish the document.
func New(w io.Writer, width, height int, bg color.Color) *Canvas {
	c := &Canvas{svg: svg.New(w), measure: raster.NewMeasurer()}
	c.svg.Start(width, height)
	if bg != nil {
		c.svg.Rect(0, 0, width, height, "fill:"+paint(bg)+opacity("fill-opacity", bg))
	}
	return c
}

func (c *Canvas) MeasureText(s string, f chart.Font, col color.Color) chart.Size {
	return c.measure.MeasureText(s, f, col)
}

func (c *Canvas) FillRect(r chart.Rect, f chart.Fill) {
	r = r.Normalize()
	if f.Color == nil || !(r.W > 0) || !(r.H > 0) {
		return
	}
	d := fmt.Sprintf("M%s %sH%sV%sH%sZ", num(r.X), num(r.Y), num(r.MaxX()), num(r.MaxY()), num(r.X))
	c.svg.Path(d, "fill:"+paint(f.Color)+opacity("fill-opacity", f.Color)+";stroke:none")
}

// StrokeSegments emits all pairs as one path of disjoint subpaths.
func (c *Canvas) StrokeSegments(pts []chart.Point, s chart.Stroke) {
	if s.Color == nil || !(s.Width > 0) || len(pts) < 2 {
		return
	}
	var b strings.Builder
	for i := 0; i+1 < len(pts); i += 2 {
		fmt.Fprintf(&b, "M%s %sL%s %s", num(pts[i].X), num(pts[i].Y), num(pts[i+1].X), num(pts[i+1].Y))
	}
	c.svg.Path(b.String(), fmt.Sprintf("fill:none;stroke:%s%s;stroke-width:%s",
		paint(s.Color), opacity("stroke-opacity", s.Color), num(s.Width)))
}

// DrawText places the text baseline one ascent below at.
func (c *Canvas) DrawText(s string, at chart.Point, st chart.TextStyle) {
	if s == "" || st.Color == nil {
		return
	}
	ascent := float64(c.measure.Face(st.Font).Metrics().Ascent) / 64
	c.svg.Gtransform(fmt.Sprintf("translate(%s,%s)", num(at.X), num(at.Y+ascent)))
	c.svg.Text(0, 0, s, fmt.Sprintf("font-family:%s;font-size:%spx;fill:%s%s",
		family(st.Font.Family), num(st.Font.Size), paint(st.Color), opacity("fill-opacity", st.Color)))
	c.svg.Gend()
}

// Close ends the document and releases font faces. It is safe to call twice.
func (c *Canvas) Close() error {
	if !c.ended {
		c.svg.End()
		c.ended = true
	}
	return c.measure.Close()
}

func paint(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "none"
	}
	return cf.Hex()
}

func opacity(attr string, c color.Color) string {
	_, _, _, a := c.RGBA()
	if a == 0xFFFF {
		return ""
	}
	return ";" + attr + ":" + num(float64(a)/0xFFFF)
}

func family(f string) string {
	switch strings.ToLower(strings.TrimSpace(f)) {
	case "mono", "monospace", "go mono":
		return "'Go Mono',monospace"
	case "bold", "go bold", "sans-bold":
		return "'Go',sans-serif;font-weight:bold"
	default:
		return "'Go',sans-serif"
	}
}

func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
