package chart

import (
	"fmt"
	"image/color"
	"io"
	"unicode/utf8"
)

type OpKind string

const (
	OpFillRect       OpKind = "fill"
	OpStrokeSegments OpKind = "stroke"
	OpDrawText       OpKind = "text"
)

// Op is one recorded drawing call.
type Op struct {
	Stage  Stage
	Kind   OpKind
	Rect   Rect
	Points []Point
	Text   string
	At     Point
	Color  color.Color
	Width  float64
	Font   Font
}

// Recorder is a Canvas that records every call. Text is measured by Measurer
// when set, otherwise with a fixed advance per rune.
type Recorder struct {
	Measurer TextMeasurer
	Ops      []Op

	stage Stage
}

func (r *Recorder) BeginStage(s Stage) { r.stage = s }

func (r *Recorder) MeasureText(s string, f Font, c color.Color) Size {
	if r.Measurer != nil {
		return r.Measurer.MeasureText(s, f, c)
	}
	return Size{W: 0.5 * f.Size * float64(utf8.RuneCountInString(s)), H: 1.25 * f.Size}
}

func (r *Recorder) FillRect(rect Rect, f Fill) {
	r.Ops = append(r.Ops, Op{Stage: r.stage, Kind: OpFillRect, Rect: rect, Color: f.Color})
}

func (r *Recorder) StrokeSegments(pts []Point, s Stroke) {
	r.Ops = append(r.Ops, Op{
		Stage:  r.stage,
		Kind:   OpStrokeSegments,
		Points: append([]Point(nil), pts...),
		Color:  s.Color,
		Width:  s.Width,
	})
}

func (r *Recorder) DrawText(s string, at Point, st TextStyle) {
	r.Ops = append(r.Ops, Op{Stage: r.stage, Kind: OpDrawText, Text: s, At: at, Color: st.Color, Font: st.Font})
}

// Stage returns the operations issued by stage s, in order.
func (r *Recorder) Stage(s Stage) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Stage == s {
			out = append(out, op)
		}
	}
	return out
}

// Reset drops all recorded operations.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.stage = ""
}

// Dump writes one line per operation.
func (r *Recorder) Dump(w io.Writer) error {
	for _, op := range r.Ops {
		var err error
		switch op.Kind {
		case OpFillRect:
			_, err = fmt.Fprintf(w, "%-9s fill   x=%.2f y=%.2f w=%.2f h=%.2f color=%s\n",
				op.Stage, op.Rect.X, op.Rect.Y, op.Rect.W, op.Rect.H, colorString(op.Color))
		case OpStrokeSegments:
			_, err = fmt.Fprintf(w, "%-9s stroke segments=%d width=%.2f color=%s\n",
				op.Stage, len(op.Points)/2, op.Width, colorString(op.Color))
		case OpDrawText:
			_, err = fmt.Fprintf(w, "%-9s text   x=%.2f y=%.2f %q\n", op.Stage, op.At.X, op.At.Y, op.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func colorString(c color.Color) string {
	if c == nil {
		return "none"
	}
	r, g, b, a := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", r>>8, g>>8, b>>8, a>>8)
}
