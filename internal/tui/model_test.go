package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/janekbaraniewski/combochart/internal/config"
	"github.com/janekbaraniewski/combochart/internal/source"
	"github.com/janekbaraniewski/combochart/internal/theme"
)

const testDoc = `{
  "axes": [{"key": "a", "text": "Alpha"}, {"key": "b", "text": "Beta"}, {"key": "c", "text": "Gamma"}],
  "bars": {"data_sets": [
    {"label": "visits", "values": [10, 20, 30]},
    {"label": "signups", "values": [2, 4, 6]}
  ]},
  "lines": {"data_sets": [{"label": "rate", "values": [1, 5, 10]}]}
}`

// Cells are 6x12 pixels and the chart spans 60 columns, so with the default
// margins each of the three categories covers 17.5 columns starting at col 5.
const (
	colAlpha = 10
	colBeta  = 30
	colGamma = 50
	chartRow = headerRows + 3
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	doc, err := source.Decode(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	th, ok := theme.Lookup(theme.DefaultName)
	if !ok {
		t.Fatalf("theme %q missing", theme.DefaultName)
	}
	m := NewModel(Options{Config: config.DefaultConfig(), Theme: th, Document: doc})
	t.Cleanup(m.Close)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 16})
	return updated.(Model)
}

func selectedKey(m Model) string {
	if a := m.Chart().SelectedAxis(); a != nil {
		return a.Key
	}
	return ""
}

func mouse(m Model, action tea.MouseAction, button tea.MouseButton, x, y int) Model {
	updated, _ := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
	return updated.(Model)
}

func TestMousePressSelectsCategoryUnderPointer(t *testing.T) {
	m := newTestModel(t)

	m = mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, colBeta, chartRow)
	if got := selectedKey(m); got != "b" {
		t.Fatalf("selected = %q, want b", got)
	}
	if !m.dragging {
		t.Fatal("press on chart should start a drag")
	}
}

func TestMouseDragFollowsPointerAndReleaseEnds(t *testing.T) {
	m := newTestModel(t)

	m = mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, colAlpha, chartRow)
	m = mouse(m, tea.MouseActionMotion, tea.MouseButtonLeft, colGamma, chartRow)
	if got := selectedKey(m); got != "c" {
		t.Fatalf("after drag selected = %q, want c", got)
	}

	m = mouse(m, tea.MouseActionRelease, tea.MouseButtonNone, colBeta, chartRow)
	if got := selectedKey(m); got != "b" {
		t.Fatalf("after release selected = %q, want b", got)
	}
	if m.dragging {
		t.Fatal("release should end the drag")
	}

	m = mouse(m, tea.MouseActionMotion, tea.MouseButtonNone, colAlpha, chartRow)
	if got := selectedKey(m); got != "b" {
		t.Fatalf("motion without drag changed selection to %q", got)
	}
}

func TestMouseDragPastEdgesClamps(t *testing.T) {
	m := newTestModel(t)

	m = mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, colBeta, chartRow)
	m = mouse(m, tea.MouseActionMotion, tea.MouseButtonLeft, 0, chartRow)
	if got := selectedKey(m); got != "a" {
		t.Fatalf("drag into left margin selected %q, want a", got)
	}
	m = mouse(m, tea.MouseActionMotion, tea.MouseButtonLeft, 200, chartRow)
	if got := selectedKey(m); got != "c" {
		t.Fatalf("drag past right edge selected %q, want c", got)
	}
}

func TestMousePressOutsideChartIgnored(t *testing.T) {
	m := newTestModel(t)

	m = mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, colBeta, 0)
	if got := selectedKey(m); got != "" {
		t.Fatalf("press on header selected %q", got)
	}
	if m.dragging {
		t.Fatal("press on header should not start a drag")
	}
}

func TestMouseWheelStepsSelection(t *testing.T) {
	m := newTestModel(t)

	m = mouse(m, tea.MouseActionPress, tea.MouseButtonWheelDown, 0, 0)
	if got := selectedKey(m); got != "a" {
		t.Fatalf("first wheel down selected %q, want a", got)
	}
	m = mouse(m, tea.MouseActionPress, tea.MouseButtonWheelDown, 0, 0)
	m = mouse(m, tea.MouseActionPress, tea.MouseButtonWheelDown, 0, 0)
	m = mouse(m, tea.MouseActionPress, tea.MouseButtonWheelDown, 0, 0)
	if got := selectedKey(m); got != "c" {
		t.Fatalf("wheel down past the end selected %q, want c", got)
	}
	m = mouse(m, tea.MouseActionPress, tea.MouseButtonWheelUp, 0, 0)
	if got := selectedKey(m); got != "b" {
		t.Fatalf("wheel up selected %q, want b", got)
	}
}

func TestArrowKeysMoveSelection(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(Model)
	if got := selectedKey(m); got != "c" {
		t.Fatalf("left with no selection selected %q, want c", got)
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	m = updated.(Model)
	if got := selectedKey(m); got != "b" {
		t.Fatalf("h selected %q, want b", got)
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyHome})
	m = updated.(Model)
	if got := selectedKey(m); got != "a" {
		t.Fatalf("home selected %q, want a", got)
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	m = updated.(Model)
	if got := selectedKey(m); got != "c" {
		t.Fatalf("end selected %q, want c", got)
	}
}

func TestQuitKeyReturnsQuit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestThemeKeyCyclesAndRecolours(t *testing.T) {
	prev := theme.Active().Name
	t.Cleanup(func() { theme.SetActive(prev) })
	theme.SetActive(theme.DefaultName)

	m := newTestModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("theme change should be persisted")
	}
	if m.theme.Name == theme.DefaultName {
		t.Fatalf("theme did not change from %q", theme.DefaultName)
	}
	if m.theme.Name != theme.Active().Name {
		t.Fatalf("model theme %q, active %q", m.theme.Name, theme.Active().Name)
	}
	after := m.Chart().BarData().DataSets[0].Color
	if theme.Hex(after) != theme.Hex(m.theme.SeriesColor(0)) {
		t.Fatalf("bar colour %s does not follow new palette %s", theme.Hex(after), theme.Hex(m.theme.SeriesColor(0)))
	}
}

func TestDocumentMessageReplacesDataAndKeepsSelection(t *testing.T) {
	m := newTestModel(t)
	m.Chart().SelectIndex(1)

	doc, err := source.Decode(strings.NewReader(`{"axes":[{"key":"a","text":"Alpha"},{"key":"b","text":"Beta"}],"bars":{"data_sets":[{"values":[7,8]}]}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	updated, _ := m.Update(documentMsg{doc: doc})
	m = updated.(Model)

	if got := len(m.Chart().Axes()); got != 2 {
		t.Fatalf("axes = %d, want 2", got)
	}
	if i, ok := m.Chart().SelectedIndex(); !ok || i != 1 {
		t.Fatalf("selected index = %d, %v; want 1 kept across reload", i, ok)
	}
	if m.status != "loaded" {
		t.Fatalf("status = %q", m.status)
	}
}

func TestDocumentErrorKeepsPreviousChart(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(documentMsg{err: errors.New("bad file\nsecond line")})
	m = updated.(Model)

	if got := len(m.Chart().Axes()); got != 3 {
		t.Fatalf("axes = %d, want previous 3", got)
	}
	line := ansi.Strip(m.statusLine())
	if !strings.Contains(line, "error: bad file …") {
		t.Fatalf("status line = %q", line)
	}
}

func TestInvalidReloadKeepsLastGoodDocument(t *testing.T) {
	prev := theme.Active().Name
	t.Cleanup(func() { theme.SetActive(prev) })
	theme.SetActive(theme.DefaultName)

	m := newTestModel(t)
	good := m.doc

	bad, err := source.Decode(strings.NewReader(`{"axes":[{"key":"z"}],"bars":{"max_value":0,"data_sets":[{"values":[1]}]}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	updated, _ := m.Update(documentMsg{doc: bad})
	m = updated.(Model)
	if m.loadErr == nil || !strings.Contains(m.loadErr.Error(), "max_value") {
		t.Fatalf("loadErr = %v, want max_value error", m.loadErr)
	}
	if m.doc != good {
		t.Fatal("failed reload should keep the last good document")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	m = updated.(Model)
	if m.doc != good || len(m.Chart().Axes()) != 3 {
		t.Fatalf("theme change rebuilt from the wrong document: %d axes", len(m.Chart().Axes()))
	}
	after := m.Chart().BarData().DataSets[0].Color
	if theme.Hex(after) != theme.Hex(m.theme.SeriesColor(0)) {
		t.Fatalf("bar colour %s does not follow new palette %s", theme.Hex(after), theme.Hex(m.theme.SeriesColor(0)))
	}
}

func TestStatusLineIgnoresSelectionMissingFromData(t *testing.T) {
	m := newTestModel(t)
	m.Chart().SelectIndex(2)

	doc, err := source.Decode(strings.NewReader(`{"axes":[{"key":"a","text":"Alpha"}],"bars":{"data_sets":[{"values":[7]}]}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	updated, _ := m.Update(documentMsg{doc: doc})
	m = updated.(Model)

	line := ansi.Strip(m.statusLine())
	if strings.Contains(line, "Gamma") || !strings.Contains(line, "quit") {
		t.Fatalf("status line = %q, want key help", line)
	}
}

func TestFileChangedWithoutPathDoesNothing(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(FileChangedMsg{})
	if cmd != nil {
		t.Fatal("no reload expected without a path")
	}
}

func TestStatusLineShowsSelectedValues(t *testing.T) {
	m := newTestModel(t)
	m.Chart().SelectIndex(1)

	line := ansi.Strip(m.statusLine())
	for _, want := range []string{"Beta", "visits 20", "signups 4", "mean 12.00", "rate 5"} {
		if !strings.Contains(line, want) {
			t.Errorf("status line %q missing %q", line, want)
		}
	}
}

func TestViewRendersChartBetweenHeaderAndFooter(t *testing.T) {
	m := newTestModel(t)
	m.Chart().SelectIndex(1)

	out := ansi.Strip(m.View())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 16 {
		t.Fatalf("view has %d lines, want 16", len(lines))
	}
	if !strings.Contains(lines[0], "combochart") {
		t.Fatalf("header = %q", lines[0])
	}
	if body := strings.Join(lines[headerRows:len(lines)-footerRows], "\n"); !strings.Contains(body, "Alpha") {
		t.Fatalf("first category label missing from chart body:\n%s", body)
	}
	if !strings.Contains(lines[len(lines)-1], "Beta") {
		t.Fatalf("status = %q", lines[len(lines)-1])
	}
}

func TestViewTooSmall(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})

	if got := updated.(Model).View(); !strings.Contains(got, "Terminal too small") {
		t.Fatalf("View = %q", got)
	}
}
