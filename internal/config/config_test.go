package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/janekbaraniewski/combochart/internal/chart"
	"github.com/janekbaraniewski/combochart/internal/theme"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Theme != theme.DefaultName {
		t.Errorf("default theme = %q, want %q", cfg.Theme, theme.DefaultName)
	}
	if cfg.Chart.AxisInterval != 3 || cfg.Chart.LineAxisInterval != 2 {
		t.Errorf("default intervals = %d/%d, want 3/2", cfg.Chart.AxisInterval, cfg.Chart.LineAxisInterval)
	}
	if cfg.Render.Width != 640 || cfg.Render.Height != 360 {
		t.Errorf("default render size = %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Chart.AxisFontSize != chart.DefaultAxisFontSize {
		t.Error("should return defaults for missing file")
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	path := writeConfig(t, `{
  "theme": "Nord",
  "chart": {"axis_interval": 1, "left_margin": 0, "axis_font_family": "mono"},
  "render": {"width": 1024}
}`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Theme != "Nord" {
		t.Errorf("theme = %q, want Nord", cfg.Theme)
	}
	if cfg.Chart.AxisInterval != 1 {
		t.Errorf("axis interval = %d, want 1", cfg.Chart.AxisInterval)
	}
	if cfg.Chart.LeftMargin != 0 {
		t.Errorf("left margin = %v, want explicit 0", cfg.Chart.LeftMargin)
	}
	if cfg.Chart.RightMargin != chart.DefaultRightMargin {
		t.Errorf("right margin = %v, want default", cfg.Chart.RightMargin)
	}
	if cfg.Render.Width != 1024 || cfg.Render.Height != 360 {
		t.Errorf("render size = %dx%d, want 1024x360", cfg.Render.Width, cfg.Render.Height)
	}
}

func TestLoadFrom_BackfillsInvalidValues(t *testing.T) {
	path := writeConfig(t, `{
  "theme": "",
  "chart": {"axis_interval": 0, "line_axis_interval": -2, "highlight_width": 0, "group_space": 1.5, "bottom_margin": -1},
  "render": {"width": -5, "height": 0},
  "viewer": {"cell_width": 0}
}`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Theme != def.Theme {
		t.Errorf("theme = %q", cfg.Theme)
	}
	if cfg.Chart != def.Chart {
		t.Errorf("chart = %+v, want %+v", cfg.Chart, def.Chart)
	}
	if cfg.Render != def.Render || cfg.Viewer != def.Viewer {
		t.Errorf("render/viewer = %+v / %+v", cfg.Render, cfg.Viewer)
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{"theme": `)
	cfg, err := LoadFrom(path)
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if cfg.Theme != theme.DefaultName {
		t.Errorf("invalid file should yield defaults, got theme %q", cfg.Theme)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	cfg := DefaultConfig()
	cfg.Theme = "Dracula"
	cfg.Chart.AxisInterval = 4
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestSaveThemeToKeepsOtherSettings(t *testing.T) {
	path := writeConfig(t, `{"chart": {"axis_interval": 5}}`)

	var wg sync.WaitGroup
	for _, name := range []string{"Nord", "Dracula", "Gruvbox"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := SaveThemeTo(path, name); err != nil {
				t.Errorf("SaveThemeTo(%s): %v", name, err)
			}
		}(name)
	}
	wg.Wait()

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Chart.AxisInterval != 5 {
		t.Errorf("axis interval = %d, want 5", cfg.Chart.AxisInterval)
	}
	switch cfg.Theme {
	case "Nord", "Dracula", "Gruvbox":
	default:
		t.Errorf("theme = %q", cfg.Theme)
	}
}

func TestChartConfigAppliesSettingsAndTheme(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chart.AxisInterval = 1
	cfg.Chart.LeftMargin = 50
	cfg.Chart.AxisFontFamily = "mono"

	th, ok := theme.Lookup("Nord")
	if !ok {
		t.Fatal("Nord theme missing")
	}
	cc := cfg.ChartConfig(th)
	if cc.AxisInterval != 1 || cc.Margins.Left != 50 {
		t.Errorf("chart config = %+v", cc)
	}
	if cc.AxisFont.Family != "mono" || cc.LineAxisFont.Size != chart.DefaultLineAxisFontSize {
		t.Errorf("fonts = %+v / %+v", cc.AxisFont, cc.LineAxisFont)
	}
	if theme.Hex(cc.AxisBackgroundColor) != strings.ToLower(string(th.Background)) {
		t.Errorf("background = %s, want %s", theme.Hex(cc.AxisBackgroundColor), th.Background)
	}
}
