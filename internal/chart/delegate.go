package chart

import (
	"strconv"

	"github.com/janekbaraniewski/combochart/internal/core"
)

// Delegate supplies label text and receives selection changes.
type Delegate interface {
	LineAxisText(v *View, value float64) string
	AxisText(v *View, axis core.Axis) string
	// DidSelect is called once per selection change. axis is nil when the
	// selection was cleared.
	DidSelect(v *View, axis *core.Axis)
}

// DelegateFuncs adapts optional functions to a Delegate. Nil fields fall
// back to the default formatting and a no-op selection handler.
type DelegateFuncs struct {
	LineAxisTextFunc func(value float64) string
	AxisTextFunc     func(axis core.Axis) string
	DidSelectFunc    func(axis *core.Axis)
}

func (d DelegateFuncs) LineAxisText(_ *View, value float64) string {
	if d.LineAxisTextFunc != nil {
		return d.LineAxisTextFunc(value)
	}
	return defaultLineAxisText(value)
}

func (d DelegateFuncs) AxisText(_ *View, axis core.Axis) string {
	if d.AxisTextFunc != nil {
		return d.AxisTextFunc(axis)
	}
	return axis.Text
}

func (d DelegateFuncs) DidSelect(_ *View, axis *core.Axis) {
	if d.DidSelectFunc != nil {
		d.DidSelectFunc(axis)
	}
}

func defaultLineAxisText(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
