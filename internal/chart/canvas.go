package chart

import "image/color"

type Point struct {
	X, Y float64
}

type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Normalize flips negative widths and heights so W and H are non-negative.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Font names a face by family and pixel size. Backends pick the closest face.
type Font struct {
	Family string
	Size   float64
}

type Fill struct {
	Color color.Color
}

type Stroke struct {
	Color color.Color
	Width float64
}

type TextStyle struct {
	Font  Font
	Color color.Color
}

// TextMeasurer is the text-metrics service used for label placement.
type TextMeasurer interface {
	MeasureText(s string, f Font, c color.Color) Size
}

// Canvas is the drawing surface handed to a single draw pass.
//
// Every call carries its complete style; implementations must not retain
// colour or width between calls.
type Canvas interface {
	TextMeasurer
	FillRect(r Rect, f Fill)
	// StrokeSegments strokes independent segments between consecutive
	// point pairs: pts[0]-pts[1], pts[2]-pts[3], ...
	StrokeSegments(pts []Point, s Stroke)
	// DrawText draws s with the top-left corner of its box at at.
	DrawText(s string, at Point, st TextStyle)
}
