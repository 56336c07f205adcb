package chart

import "math"

// IndexAt maps a view-local x coordinate to a category index.
//
// The index is clamped to [0, Count-1]: points right of the chart area select
// the last category and points left of it select the first. ok is false only
// when there are no categories.
func (l Layout) IndexAt(x float64) (int, bool) {
	slot, ok := l.SlotWidth()
	if !ok {
		return 0, false
	}
	if !(slot > 0) {
		return 0, true
	}
	f := math.Floor((x - l.Area.X) / slot)
	switch {
	case math.IsNaN(f), f < 0:
		return 0, true
	case f > float64(l.Count-1):
		return l.Count - 1, true
	}
	return int(f), true
}
