// Package raster draws charts onto an RGBA image and encodes them as PNG.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/janekbaraniewski/combochart/internal/chart"
)

// Canvas is a chart.Canvas backed by an *image.RGBA. Shapes are filled with
// an anti-aliasing rasteriser and composited over the existing pixels.
type Canvas struct {
	img     *image.RGBA
	measure *Measurer
	z       *vector.Rasterizer
}

var _ chart.Canvas = (*Canvas)(nil)

// New returns a w×h canvas cleared to bg. A nil bg leaves it transparent.
func New(w, h int, bg color.Color) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}
	return &Canvas{
		img:     img,
		measure: NewMeasurer(),
		z:       vector.NewRasterizer(w, h),
	}
}

func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Size() chart.Size {
	b := c.img.Bounds()
	return chart.Size{W: float64(b.Dx()), H: float64(b.Dy())}
}

func (c *Canvas) MeasureText(s string, f chart.Font, col color.Color) chart.Size {
	return c.measure.MeasureText(s, f, col)
}

func (c *Canvas) FillRect(r chart.Rect, f chart.Fill) {
	r = r.Normalize()
	if f.Color == nil || !(r.W > 0) || !(r.H > 0) {
		return
	}
	c.fillPolygon(f.Color,
		chart.Point{X: r.X, Y: r.Y},
		chart.Point{X: r.MaxX(), Y: r.Y},
		chart.Point{X: r.MaxX(), Y: r.MaxY()},
		chart.Point{X: r.X, Y: r.MaxY()},
	)
}

// StrokeSegments fills one quad per endpoint pair.
func (c *Canvas) StrokeSegments(pts []chart.Point, s chart.Stroke) {
	if s.Color == nil || !(s.Width > 0) {
		return
	}
	half := s.Width / 2
	for i := 0; i+1 < len(pts); i += 2 {
		p, q := pts[i], pts[i+1]
		dx, dy := q.X-p.X, q.Y-p.Y
		length := math.Hypot(dx, dy)
		if !(length > 0) {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half
		c.fillPolygon(s.Color,
			chart.Point{X: p.X + nx, Y: p.Y + ny},
			chart.Point{X: q.X + nx, Y: q.Y + ny},
			chart.Point{X: q.X - nx, Y: q.Y - ny},
			chart.Point{X: p.X - nx, Y: p.Y - ny},
		)
	}
}

// DrawText draws s with its box's top-left corner at at.
func (c *Canvas) DrawText(s string, at chart.Point, st chart.TextStyle) {
	if s == "" || st.Color == nil {
		return
	}
	face := c.measure.Face(st.Font)
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(st.Color),
		Face: face,
		Dot: fixed.Point26_6{
			X: floatToFixed(at.X),
			Y: floatToFixed(at.Y) + face.Metrics().Ascent,
		},
	}
	d.DrawString(s)
}

// EncodePNG writes the canvas as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Close releases the canvas's font faces.
func (c *Canvas) Close() error {
	return c.measure.Close()
}

func (c *Canvas) fillPolygon(col color.Color, pts ...chart.Point) {
	b := c.img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	c.z.Reset(b.Dx(), b.Dy())
	c.z.DrawOp = draw.Over
	for i, p := range pts {
		x, y := float32(clamp(p.X, 0, w)), float32(clamp(p.Y, 0, h))
		if i == 0 {
			c.z.MoveTo(x, y)
			continue
		}
		c.z.LineTo(x, y)
	}
	c.z.ClosePath()
	c.z.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
