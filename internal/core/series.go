package core

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/samber/lo"
)

type BarEntry struct {
	Value float64
}

// BarDataSet is one bar series. Entry i belongs to axis i.
type BarDataSet struct {
	Label   string
	Entries []BarEntry
	Color   color.Color
	// Space is the fraction of each bar's own sub-slot left empty.
	// Zero means bars of neighbouring data sets touch.
	Space float64
}

// BarData groups bar series drawn side by side within each category slot.
type BarData struct {
	DataSets []BarDataSet
	// MaxValue is the Y ceiling of the bar scale.
	MaxValue float64
	// GroupSpace is the fraction of a category slot not covered by bars.
	GroupSpace float64
}

type LineEntry struct {
	Value float64
}

// LineDataSet is one line series. Entry i belongs to axis i.
type LineDataSet struct {
	Label   string
	Entries []LineEntry
	Color   color.Color
	Width   float64
}

// LineData groups line series sharing one Y ceiling, independent from bars.
type LineData struct {
	DataSets []LineDataSet
	MaxValue float64
}

func BarEntries(values ...float64) []BarEntry {
	return lo.Map(values, func(v float64, _ int) BarEntry { return BarEntry{Value: v} })
}

func LineEntries(values ...float64) []LineEntry {
	return lo.Map(values, func(v float64, _ int) LineEntry { return LineEntry{Value: v} })
}

// NewBarData returns bar data whose MaxValue is derived from the entries.
func NewBarData(groupSpace float64, sets ...BarDataSet) *BarData {
	d := &BarData{DataSets: sets, GroupSpace: groupSpace}
	d.MaxValue = d.DerivedMax()
	return d
}

// NewLineData returns line data whose MaxValue is derived from the entries.
func NewLineData(sets ...LineDataSet) *LineData {
	d := &LineData{DataSets: sets}
	d.MaxValue = d.DerivedMax()
	return d
}

// DerivedMax is the largest entry value across all bar data sets, or 0.
func (d *BarData) DerivedMax() float64 {
	if d == nil {
		return 0
	}
	var all []float64
	for _, s := range d.DataSets {
		for _, e := range s.Entries {
			all = append(all, e.Value)
		}
	}
	return maxOf(all)
}

// DerivedMax is the largest entry value across all line data sets, or 0.
func (d *LineData) DerivedMax() float64 {
	if d == nil {
		return 0
	}
	var all []float64
	for _, s := range d.DataSets {
		for _, e := range s.Entries {
			all = append(all, e.Value)
		}
	}
	return maxOf(all)
}

func maxOf(xs []float64) float64 {
	xs = lo.Filter(xs, func(v float64, _ int) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) })
	if len(xs) == 0 {
		return 0
	}
	_, hi := stats.Bounds(xs)
	if hi < 0 {
		return 0
	}
	return hi
}

// Values returns the value of every bar data set at category i.
// Data sets without an entry at i are skipped.
func (d *BarData) Values(i int) []float64 {
	if d == nil {
		return nil
	}
	var out []float64
	for _, s := range d.DataSets {
		if i >= 0 && i < len(s.Entries) {
			out = append(out, s.Entries[i].Value)
		}
	}
	return out
}

// Values returns the value of every line data set at category i.
func (d *LineData) Values(i int) []float64 {
	if d == nil {
		return nil
	}
	var out []float64
	for _, s := range d.DataSets {
		if i >= 0 && i < len(s.Entries) {
			out = append(out, s.Entries[i].Value)
		}
	}
	return out
}

// CheckAlignment reports every series whose entry count differs from the
// number of axes.
func CheckAlignment(axes int, bars *BarData, lines *LineData) error {
	var errs []error
	if bars != nil {
		for i, s := range bars.DataSets {
			if len(s.Entries) != axes {
				errs = append(errs, fmt.Errorf("bar data set %d (%q): %d entries for %d axes", i, s.Label, len(s.Entries), axes))
			}
		}
	}
	if lines != nil {
		for i, s := range lines.DataSets {
			if len(s.Entries) != axes {
				errs = append(errs, fmt.Errorf("line data set %d (%q): %d entries for %d axes", i, s.Label, len(s.Entries), axes))
			}
		}
	}
	return errors.Join(errs...)
}
