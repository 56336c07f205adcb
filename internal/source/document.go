// Package source loads chart documents from JSON and XLSX files and watches
// them for changes.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/combochart/internal/core"
	"github.com/janekbaraniewski/combochart/internal/theme"
)

// Document is the on-disk form of a chart.
type Document struct {
	Axes  []core.Axis `json:"axes"`
	Bars  *BarsDoc    `json:"bars,omitempty"`
	Lines *LinesDoc   `json:"lines,omitempty"`
}

type BarsDoc struct {
	// GroupSpace and MaxValue are optional; nil means default and derived.
	GroupSpace *float64    `json:"group_space,omitempty"`
	MaxValue   *float64    `json:"max_value,omitempty"`
	DataSets   []BarSetDoc `json:"data_sets"`
}

type BarSetDoc struct {
	Label  string    `json:"label"`
	Color  string    `json:"color,omitempty"`
	Space  float64   `json:"space,omitempty"`
	Values []float64 `json:"values"`
}

type LinesDoc struct {
	MaxValue *float64     `json:"max_value,omitempty"`
	DataSets []LineSetDoc `json:"data_sets"`
}

type LineSetDoc struct {
	Label  string    `json:"label"`
	Color  string    `json:"color,omitempty"`
	Width  float64   `json:"width,omitempty"`
	Values []float64 `json:"values"`
}

// Chart is a document resolved into view data.
type Chart struct {
	Axes  []core.Axis
	Bars  *core.BarData
	Lines *core.LineData
}

// Load reads a document, choosing the format by file extension. sheet selects
// the worksheet for spreadsheets and is ignored otherwise.
func Load(path, sheet string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return LoadXLSX(path, sheet)
	case ".json", "":
		return LoadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported data file %s: want .json or .xlsx", path)
	}
}

func LoadJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode writes doc as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Build resolves colours and scales. Data sets without a colour take the
// next colour of th's series palette, bars first. Missing maxima are derived
// from the values; a missing group spacing takes defaultGroupSpace.
//
// Series whose length differs from the axis count are kept and logged; the
// view clips them when drawing.
func (d *Document) Build(th theme.Theme, defaultGroupSpace float64) (Chart, error) {
	out := Chart{
		Axes: lo.Map(d.Axes, func(a core.Axis, _ int) core.Axis {
			if a.Text == "" {
				a.Text = a.Key
			}
			return a
		}),
	}

	var errs []error
	palette := 0
	resolve := func(kind string, i int, label, hex string) color.Color {
		if strings.TrimSpace(hex) == "" {
			c := th.SeriesColor(palette)
			palette++
			return c
		}
		c, err := theme.ParseColor(hex)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s data set %d (%q): %w", kind, i, label, err))
			return nil
		}
		return c
	}

	if d.Bars != nil {
		groupSpace := defaultGroupSpace
		if d.Bars.GroupSpace != nil {
			groupSpace = *d.Bars.GroupSpace
		}
		if groupSpace < 0 || groupSpace >= 1 {
			errs = append(errs, fmt.Errorf("bars: group_space %v out of range [0, 1)", groupSpace))
		}
		sets := make([]core.BarDataSet, 0, len(d.Bars.DataSets))
		for i, s := range d.Bars.DataSets {
			if s.Space < 0 || s.Space >= 1 {
				errs = append(errs, fmt.Errorf("bar data set %d (%q): space %v out of range [0, 1)", i, s.Label, s.Space))
			}
			sets = append(sets, core.BarDataSet{
				Label:   s.Label,
				Entries: core.BarEntries(s.Values...),
				Color:   resolve("bar", i, s.Label, s.Color),
				Space:   s.Space,
			})
		}
		out.Bars = core.NewBarData(groupSpace, sets...)
		if d.Bars.MaxValue != nil {
			if err := checkMax("bars", *d.Bars.MaxValue); err != nil {
				errs = append(errs, err)
			}
			out.Bars.MaxValue = *d.Bars.MaxValue
		}
	}

	if d.Lines != nil {
		sets := make([]core.LineDataSet, 0, len(d.Lines.DataSets))
		for i, s := range d.Lines.DataSets {
			sets = append(sets, core.LineDataSet{
				Label:   s.Label,
				Entries: core.LineEntries(s.Values...),
				Color:   resolve("line", i, s.Label, s.Color),
				Width:   s.Width,
			})
		}
		out.Lines = core.NewLineData(sets...)
		if d.Lines.MaxValue != nil {
			if err := checkMax("lines", *d.Lines.MaxValue); err != nil {
				errs = append(errs, err)
			}
			out.Lines.MaxValue = *d.Lines.MaxValue
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Chart{}, err
	}
	if err := core.CheckAlignment(len(out.Axes), out.Bars, out.Lines); err != nil {
		log.Printf("[source] misaligned series: %v", err)
	}
	return out, nil
}

func checkMax(kind string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%s: max_value %v must be a positive number", kind, v)
	}
	return nil
}
