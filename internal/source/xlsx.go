package source

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/janekbaraniewski/combochart/internal/core"
)

const (
	textColumn = "text"
	linePrefix = "line:"
)

// LoadXLSX reads one worksheet. The first row is a header. Column A holds
// category keys; a column titled "text" holds display labels; columns
// titled "line:<name>" become line series and every other titled column a
// bar series. An empty sheet name selects the first sheet.
func LoadXLSX(path, sheet string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !lo.Contains(sheets, sheet) {
		return nil, fmt.Errorf("%s: sheet %q not found (have %s)", path, sheet, strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: reading sheet %q: %w", path, sheet, err)
	}
	doc, err := documentFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %q: %w", path, sheet, err)
	}
	return doc, nil
}

type column struct {
	index int
	label string
	line  bool
}

func documentFromRows(rows [][]string) (*Document, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("missing header row")
	}

	header := rows[0]
	textIdx := -1
	var cols []column
	for i := 1; i < len(header); i++ {
		title := strings.TrimSpace(header[i])
		switch {
		case title == "":
			continue
		case strings.EqualFold(title, textColumn):
			textIdx = i
		case len(title) > len(linePrefix) && strings.EqualFold(title[:len(linePrefix)], linePrefix):
			cols = append(cols, column{index: i, label: strings.TrimSpace(title[len(linePrefix):]), line: true})
		default:
			cols = append(cols, column{index: i, label: title})
		}
	}

	doc := &Document{}
	values := make([][]float64, len(cols))
	var errs []error
	for r, row := range rows[1:] {
		key := strings.TrimSpace(cell(row, 0))
		if key == "" {
			continue
		}
		doc.Axes = append(doc.Axes, core.Axis{Key: key, Text: strings.TrimSpace(cell(row, textIdx))})

		for c, col := range cols {
			raw := strings.TrimSpace(cell(row, col.index))
			if raw == "" {
				values[c] = append(values[c], 0)
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				name, _ := excelize.CoordinatesToCellName(col.index+1, r+2)
				errs = append(errs, fmt.Errorf("cell %s: %q is not a number", name, raw))
				v = 0
			}
			values[c] = append(values[c], v)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	for c, col := range cols {
		if col.line {
			if doc.Lines == nil {
				doc.Lines = &LinesDoc{}
			}
			doc.Lines.DataSets = append(doc.Lines.DataSets, LineSetDoc{Label: col.label, Values: values[c]})
			continue
		}
		if doc.Bars == nil {
			doc.Bars = &BarsDoc{}
		}
		doc.Bars.DataSets = append(doc.Bars.DataSets, BarSetDoc{Label: col.label, Values: values[c]})
	}
	return doc, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
