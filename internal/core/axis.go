package core

// Axis is one category along the shared horizontal axis.
//
// Axis values are comparable; two axes are the same category when both
// Key and Text match.
type Axis struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// NewAxis returns an axis whose display text defaults to its key.
func NewAxis(key string) Axis {
	return Axis{Key: key, Text: key}
}

// AxesFromKeys builds an axis list from plain keys.
func AxesFromKeys(keys ...string) []Axis {
	out := make([]Axis, 0, len(keys))
	for _, k := range keys {
		out = append(out, NewAxis(k))
	}
	return out
}
