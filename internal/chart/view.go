package chart

import (
	"github.com/janekbaraniewski/combochart/internal/core"
)

// View is a combined bar and line chart over a shared category axis.
//
// A View is not safe for concurrent use. Setters, pointer entry points and
// Draw must all be called from the host's UI goroutine.
type View struct {
	cfg        Config
	delegate   Delegate
	invalidate func()

	bounds Size
	axes   []core.Axis
	bars   *core.BarData
	lines  *core.LineData

	selected *core.Axis
}

type Option func(*View)

// WithDelegate sets the label and selection delegate. The view keeps a plain
// reference; it does not own the delegate.
func WithDelegate(d Delegate) Option {
	return func(v *View) { v.delegate = d }
}

// WithInvalidate sets the callback used to request a redraw from the host.
func WithInvalidate(fn func()) Option {
	return func(v *View) { v.invalidate = fn }
}

func New(cfg Config, opts ...Option) *View {
	v := &View{cfg: cfg.Normalize()}
	for _, opt := range opts {
		opt(v)
	}
	if v.delegate == nil {
		v.delegate = DelegateFuncs{}
	}
	return v
}

func (v *View) Config() Config { return v.cfg }

// SetConfig replaces the configuration and requests a redraw.
func (v *View) SetConfig(cfg Config) {
	v.cfg = cfg.Normalize()
	v.setNeedsDisplay()
}

func (v *View) SetDelegate(d Delegate) {
	if d == nil {
		d = DelegateFuncs{}
	}
	v.delegate = d
}

func (v *View) SetInvalidate(fn func()) { v.invalidate = fn }

func (v *View) SetBounds(s Size) { v.bounds = s }
func (v *View) Bounds() Size     { return v.bounds }

// SetAxes replaces the category list. The current selection is kept; it is
// not highlighted while absent from the list.
func (v *View) SetAxes(axes []core.Axis) {
	v.axes = append([]core.Axis(nil), axes...)
}

func (v *View) Axes() []core.Axis {
	return append([]core.Axis(nil), v.axes...)
}

func (v *View) SetBarData(d *core.BarData)   { v.bars = d }
func (v *View) BarData() *core.BarData       { return v.bars }
func (v *View) SetLineData(d *core.LineData) { v.lines = d }
func (v *View) LineData() *core.LineData     { return v.lines }

// ReloadData requests a redraw with the current data.
func (v *View) ReloadData() {
	v.setNeedsDisplay()
}

// ChartArea is the plotting rectangle for the current bounds.
func (v *View) ChartArea() Rect {
	return ChartArea(v.bounds, v.cfg.Margins)
}

func (v *View) layout() Layout {
	return NewLayout(v.bounds, v.cfg.Margins, len(v.axes))
}

// SelectedAxis returns a copy of the selected axis, or nil.
func (v *View) SelectedAxis() *core.Axis {
	if v.selected == nil {
		return nil
	}
	a := *v.selected
	return &a
}

// SelectedIndex is the position of the selected axis in the current list.
func (v *View) SelectedIndex() (int, bool) {
	if v.selected == nil {
		return 0, false
	}
	for i, a := range v.axes {
		if a == *v.selected {
			return i, true
		}
	}
	return 0, false
}

// HitTest returns the axis under p, or nil when there are no axes.
func (v *View) HitTest(p Point) *core.Axis {
	i, ok := v.layout().IndexAt(p.X)
	if !ok {
		return nil
	}
	a := v.axes[i]
	return &a
}

func (v *View) PointerBegan(p Point)     { v.updateFromPointer(p) }
func (v *View) PointerMoved(p Point)     { v.updateFromPointer(p) }
func (v *View) PointerEnded(p Point)     { v.updateFromPointer(p) }
func (v *View) PointerCancelled(p Point) { v.updateFromPointer(p) }

// SelectIndex selects the category at i, clamped to the axis list.
func (v *View) SelectIndex(i int) {
	if len(v.axes) == 0 {
		v.setSelection(nil)
		return
	}
	if i < 0 {
		i = 0
	}
	if i > len(v.axes)-1 {
		i = len(v.axes) - 1
	}
	a := v.axes[i]
	v.setSelection(&a)
}

func (v *View) updateFromPointer(p Point) {
	v.setSelection(v.HitTest(p))
}

func (v *View) setSelection(axis *core.Axis) {
	if sameAxis(v.selected, axis) {
		return
	}
	v.selected = axis
	v.delegate.DidSelect(v, v.SelectedAxis())
	v.setNeedsDisplay()
}

func sameAxis(a, b *core.Axis) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (v *View) setNeedsDisplay() {
	if v.invalidate != nil {
		v.invalidate()
	}
}
