package tui

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/janekbaraniewski/combochart/internal/chart"
	"github.com/janekbaraniewski/combochart/internal/config"
	"github.com/janekbaraniewski/combochart/internal/core"
	"github.com/janekbaraniewski/combochart/internal/render/cells"
	"github.com/janekbaraniewski/combochart/internal/source"
	"github.com/janekbaraniewski/combochart/internal/theme"
)

const (
	headerRows = 2
	footerRows = 2
	minWidth   = 30
	minHeight  = 8
)

// FileChangedMsg asks the model to reload its data file.
type FileChangedMsg struct{}

type documentMsg struct {
	doc *source.Document
	err error
}

type themePersistedMsg struct {
	err error
}

// Options configure a viewer model.
type Options struct {
	Path   string
	Sheet  string
	Config config.Config
	Theme  theme.Theme
	// Document, when set, is shown immediately instead of waiting for the
	// first load of Path.
	Document *source.Document
}

// Model is the interactive chart viewer. The chart view is shared between
// copies of the model; Bubble Tea only ever runs one copy at a time.
type Model struct {
	path  string
	sheet string
	cfg   config.Config
	theme theme.Theme
	st    styles

	doc  *source.Document
	view *chart.View

	zones  *zone.Manager
	zoneID string

	width    int
	height   int
	dragging bool
	status   string
	loadErr  error
}

func NewModel(opts Options) Model {
	cfg := opts.Config
	th := opts.Theme
	if th.Name == "" {
		th = theme.Active()
	}

	zm := zone.New()
	m := Model{
		path:   opts.Path,
		sheet:  opts.Sheet,
		cfg:    cfg,
		theme:  th,
		st:     newStyles(th),
		zones:  zm,
		zoneID: zm.NewPrefix() + "chart",
	}
	m.view = chart.New(cfg.ChartConfig(th), chart.WithDelegate(chart.DelegateFuncs{
		DidSelectFunc: func(axis *core.Axis) {
			if axis == nil {
				log.Printf("[tui] selection cleared")
				return
			}
			log.Printf("[tui] selected %s", axis.Key)
		},
	}))
	if err := m.rebuild(opts.Document); err != nil {
		m.loadErr = err
	}
	return m
}

// Close releases the zone manager's background worker.
func (m Model) Close() {
	if m.zones != nil {
		m.zones.Close()
	}
}

// Chart exposes the underlying chart view.
func (m Model) Chart() *chart.View { return m.view }

func (m Model) Init() tea.Cmd {
	if m.doc == nil && m.path != "" {
		return m.loadCmd()
	}
	return nil
}

func (m Model) loadCmd() tea.Cmd {
	path, sheet := m.path, m.sheet
	return func() tea.Msg {
		doc, err := source.Load(path, sheet)
		return documentMsg{doc: doc, err: err}
	}
}

func (m Model) persistThemeCmd(themeName string) tea.Cmd {
	return func() tea.Msg {
		err := config.SaveTheme(themeName)
		if err != nil {
			log.Printf("[tui] theme persist: %v", err)
		}
		return themePersistedMsg{err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case FileChangedMsg:
		if m.path == "" {
			return m, nil
		}
		m.status = "reloading"
		return m, m.loadCmd()

	case documentMsg:
		if msg.err != nil {
			log.Printf("[tui] load %s: %v", m.path, msg.err)
			m.loadErr = msg.err
			m.status = ""
			return m, nil
		}
		if err := m.rebuild(msg.doc); err != nil {
			log.Printf("[tui] build %s: %v", m.path, err)
			m.loadErr = err
			m.status = ""
			return m, nil
		}
		m.loadErr = nil
		m.status = "loaded"
		return m, nil

	case themePersistedMsg:
		if msg.err != nil {
			m.status = "theme save failed"
		} else {
			m.status = "theme saved"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// rebuild resolves doc against the current theme and hands the result to
// the view. doc becomes the current document only when it builds. Palette
// colours follow the theme, so this also runs after a theme change.
func (m *Model) rebuild(doc *source.Document) error {
	if doc == nil {
		return nil
	}
	c, err := doc.Build(m.theme, m.cfg.Chart.GroupSpace)
	if err != nil {
		return err
	}
	m.doc = doc
	m.view.SetAxes(c.Axes)
	m.view.SetBarData(c.Bars)
	m.view.SetLineData(c.Lines)
	m.view.ReloadData()
	return nil
}

func (m *Model) applyTheme(th theme.Theme) {
	m.theme = th
	m.st = newStyles(th)
	m.view.SetConfig(m.cfg.ChartConfig(th))
	if err := m.rebuild(m.doc); err != nil {
		m.loadErr = err
	}
}

func (m Model) cellSize() cells.CellSize {
	if m.cfg.Viewer.CellWidth <= 0 || m.cfg.Viewer.CellHeight <= 0 {
		return cells.DefaultCellSize
	}
	return cells.CellSize{W: m.cfg.Viewer.CellWidth, H: m.cfg.Viewer.CellHeight}
}

func (m Model) chartCols() int { return max(m.width, 0) }

func (m Model) chartRows() int { return max(m.height-headerRows-footerRows, 0) }

func (m *Model) resize() {
	size := m.cellSize()
	m.view.SetBounds(chart.Size{
		W: float64(m.chartCols()) * size.W,
		H: float64(m.chartRows()) * size.H,
	})
}

// chartOrigin is the terminal cell of the chart's top-left corner. Before the
// first frame has been scanned the layout offsets are used.
func (m Model) chartOrigin() (int, int) {
	if m.zones != nil {
		if z := m.zones.Get(m.zoneID); z != nil && !z.IsZero() {
			return z.StartX, z.StartY
		}
	}
	return 0, headerRows
}

// pointer maps a mouse event to a point in view coordinates, at the centre of
// the cell under the cursor. inside reports whether the cell is on the chart.
func (m Model) pointer(msg tea.MouseMsg) (p chart.Point, inside bool) {
	ox, oy := m.chartOrigin()
	col, row := msg.X-ox, msg.Y-oy
	inside = col >= 0 && col < m.chartCols() && row >= 0 && row < m.chartRows()
	return cells.CellCenter(col, row, m.cellSize()), inside
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.step(-1)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.step(1)
			return m, nil
		case tea.MouseButtonLeft:
			p, inside := m.pointer(msg)
			if !inside {
				return m, nil
			}
			m.dragging = true
			m.view.PointerBegan(p)
		}
	case tea.MouseActionMotion:
		if !m.dragging {
			return m, nil
		}
		p, _ := m.pointer(msg)
		m.view.PointerMoved(p)
	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		p, _ := m.pointer(msg)
		m.view.PointerEnded(p)
	}
	return m, nil
}

// step moves the selection by delta categories. With nothing selected it
// starts from the first category going right and the last going left.
func (m *Model) step(delta int) {
	n := len(m.view.Axes())
	if n == 0 {
		return
	}
	i, ok := m.view.SelectedIndex()
	switch {
	case !ok && delta > 0:
		i = 0
	case !ok:
		i = n - 1
	default:
		i += delta
	}
	m.view.SelectIndex(i)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.step(-1)
	case "right", "l":
		m.step(1)
	case "home", "g":
		m.view.SelectIndex(0)
	case "end", "G":
		m.view.SelectIndex(len(m.view.Axes()) - 1)
	case "r":
		if m.path == "" {
			return m, nil
		}
		m.status = "reloading"
		return m, m.loadCmd()
	case "t":
		th := theme.Cycle()
		m.applyTheme(th)
		return m, m.persistThemeCmd(th.Name)
	}
	return m, nil
}

func (m Model) View() string {
	if m.width < minWidth || m.height < minHeight {
		return m.st.info.Render(fmt.Sprintf("\n  Terminal too small. Resize to at least %d×%d.", minWidth, minHeight))
	}

	canvas := cells.New(m.chartCols(), m.chartRows(), m.cellSize(), m.st.base)
	m.view.SetBounds(canvas.Bounds())
	if m.doc != nil {
		m.view.Draw(canvas)
	}
	body := strings.TrimRight(canvas.View(), "\n")
	if m.zones != nil {
		body = m.zones.Mark(m.zoneID, body)
	}

	out := m.renderHeader(m.width) + "\n" + body + "\n" + m.renderFooter(m.width)
	if m.zones != nil {
		return m.zones.Scan(out)
	}
	return out
}

func (m Model) renderHeader(w int) string {
	title := "combochart"
	if m.path != "" {
		title += " " + filepath.Base(m.path)
		if m.sheet != "" {
			title += ":" + m.sheet
		}
	}
	left := m.st.brand.Render(title)
	info := m.st.info.Render(m.theme.Label())

	gap := w - lipgloss.Width(left) - lipgloss.Width(info)
	if gap < 1 {
		gap = 1
	}
	line := ansi.Truncate(left+strings.Repeat(" ", gap)+info, w, "…")
	return line + "\n" + m.st.separator.Render(strings.Repeat("━", w))
}

func (m Model) renderFooter(w int) string {
	sep := m.st.separator.Render(strings.Repeat("━", w))
	return sep + "\n" + ansi.Truncate(m.statusLine(), w, "…")
}

func (m Model) statusLine() string {
	if m.loadErr != nil {
		return " " + m.st.err.Render("error: "+firstLine(m.loadErr.Error()))
	}
	if m.doc == nil {
		return " " + m.st.help.Render("loading…")
	}

	i, ok := m.view.SelectedIndex()
	if !ok {
		line := " " + m.keyHelp()
		if m.status != "" {
			line += m.st.help.Render(" · " + m.status)
		}
		return line
	}

	parts := []string{m.st.value.Render(m.view.Axes()[i].Text)}
	if bars := m.view.BarData(); bars != nil {
		for _, s := range bars.DataSets {
			if i < len(s.Entries) {
				parts = append(parts, seriesStyle(s.Color).Render(s.Label)+" "+m.st.value.Render(formatValue(s.Entries[i].Value)))
			}
		}
		if vals := bars.Values(i); len(vals) > 1 {
			parts = append(parts, m.st.label.Render("mean")+" "+m.st.value.Render(strconv.FormatFloat(stats.Mean(vals), 'f', 2, 64)))
		}
	}
	if lines := m.view.LineData(); lines != nil {
		for _, s := range lines.DataSets {
			if i < len(s.Entries) {
				parts = append(parts, seriesStyle(s.Color).Render(s.Label)+" "+m.st.value.Render(formatValue(s.Entries[i].Value)))
			}
		}
	}
	return " " + strings.Join(parts, m.st.label.Render(" · "))
}

func (m Model) keyHelp() string {
	keys := []struct{ key, desc string }{
		{"←/→", "select"},
		{"t", "theme"},
		{"r", "reload"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, m.st.helpKey.Render(k.key)+" "+m.st.help.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
