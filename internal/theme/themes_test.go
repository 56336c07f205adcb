package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/combochart/internal/chart"
)

func snapshotThemeState() ([]Theme, int) {
	themeMu.RLock()
	defer themeMu.RUnlock()

	saved := make([]Theme, len(themes))
	copy(saved, themes)
	return saved, activeThemeIdx
}

func restoreThemeState(t *testing.T) {
	saved, savedIdx := snapshotThemeState()
	t.Cleanup(func() {
		themeMu.Lock()
		defer themeMu.Unlock()
		themes = saved
		activeThemeIdx = savedIdx
	})
}

func writeThemeFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write theme file %s: %v", path, err)
	}
}

func externalThemeJSON(name, accent string) string {
	return `{
  "name": "` + name + `",
  "background": "#111111",
  "surface": "#232323",
  "text": "#E8E8E8",
  "subtext": "#BDBDBD",
  "grid": "#303030",
  "divider": "#424242",
  "highlight": "#7F7F7F",
  "accent": "` + accent + `",
  "series": ["#CFCFCF", "#ABABAB"]
}`
}

func TestDefaultThemeMatchesChartDefaults(t *testing.T) {
	restoreThemeState(t)
	if err := Load(t.TempDir()); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := Active().Name; got != DefaultName {
		t.Fatalf("active theme = %q, want %q", got, DefaultName)
	}

	cfg := Active().Apply(chart.DefaultConfig())
	def := chart.DefaultConfig()
	pairs := []struct {
		name      string
		got, want color.Color
	}{
		{"axis", cfg.AxisColor, def.AxisColor},
		{"divider", cfg.AxisDividerColor, def.AxisDividerColor},
		{"background", cfg.AxisBackgroundColor, def.AxisBackgroundColor},
		{"grid", cfg.HorizontalIndicatorColor, def.HorizontalIndicatorColor},
		{"highlight", cfg.HighlightIndicatorColor, def.HighlightIndicatorColor},
	}
	for _, p := range pairs {
		if Hex(p.got) != Hex(p.want) {
			t.Errorf("%s = %s, want %s", p.name, Hex(p.got), Hex(p.want))
		}
	}
}

func TestBuiltinThemesAreValid(t *testing.T) {
	for _, th := range builtinThemes() {
		if err := th.validate(); err != nil {
			t.Errorf("%s: %v", th.Name, err)
		}
	}
}

func TestLoadThemesFromConfigDir(t *testing.T) {
	restoreThemeState(t)

	cfgDir := t.TempDir()
	writeThemeFile(t, filepath.Join(cfgDir, "themes"), "custom-gray.json", externalThemeJSON("Custom Gray", "#FAFAFA"))

	if err := Load(cfgDir); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !SetActive("custom gray") {
		t.Fatal("SetActive(custom gray) returned false")
	}
	active := Active()
	if active.Name != "Custom Gray" {
		t.Fatalf("active theme = %q, want Custom Gray", active.Name)
	}
	if active.Accent != lipgloss.Color("#FAFAFA") {
		t.Fatalf("accent = %q, want #FAFAFA", active.Accent)
	}
	if active.Icon == "" {
		t.Fatal("missing icon should be backfilled")
	}
}

func TestLoadThemesCanOverrideBuiltinByName(t *testing.T) {
	restoreThemeState(t)

	cfgDir := t.TempDir()
	writeThemeFile(t, filepath.Join(cfgDir, "themes"), "gruvbox.json", externalThemeJSON("Gruvbox", "#FFFFFF"))

	if err := Load(cfgDir); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	th, ok := Lookup("Gruvbox")
	if !ok || th.Accent != lipgloss.Color("#FFFFFF") {
		t.Fatalf("Lookup(Gruvbox) = %+v, %v", th, ok)
	}
	if len(Available()) != len(builtinThemes()) {
		t.Fatalf("override should not add a theme")
	}
}

func TestLoadThemesFromEnvPath(t *testing.T) {
	restoreThemeState(t)

	extraDir := t.TempDir()
	writeThemeFile(t, extraDir, "env-theme.json", externalThemeJSON("Env Gray", "#F0F0F0"))
	t.Setenv(DirEnvVar, extraDir)

	if err := Load(t.TempDir()); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !SetActive("Env Gray") {
		t.Fatal("SetActive(Env Gray) returned false")
	}
}

func TestLoadThemesReportsInvalidThemeFiles(t *testing.T) {
	restoreThemeState(t)

	cfgDir := t.TempDir()
	dir := filepath.Join(cfgDir, "themes")
	writeThemeFile(t, dir, "broken.json", `{"name":"Broken"}`)
	writeThemeFile(t, dir, "garbage.json", `{`)
	writeThemeFile(t, dir, "bad-color.json", strings.Replace(externalThemeJSON("Bad", "#FAFAFA"), "#111111", "not-a-color", 1))

	err := Load(cfgDir)
	if err == nil {
		t.Fatal("expected error for invalid theme files")
	}
	msg := strings.ToLower(err.Error())
	for _, want := range []string{"missing required color fields", "parse", "invalid color fields: background"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should mention %q", msg, want)
		}
	}
	if _, ok := Lookup("Broken"); ok {
		t.Fatal("invalid theme should not be loaded")
	}
	if !SetActive("Gruvbox") {
		t.Fatal("expected built-in themes to remain available")
	}
}

func TestActiveThemeSurvivesReload(t *testing.T) {
	restoreThemeState(t)
	if !SetActive("Nord") {
		t.Fatal("SetActive(Nord) returned false")
	}
	if err := Load(t.TempDir()); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := Active().Name; got != "Nord" {
		t.Fatalf("active theme = %q, want Nord", got)
	}
}

func TestCycleWraps(t *testing.T) {
	restoreThemeState(t)
	n := len(Available())
	start := Active().Name
	for i := 0; i < n; i++ {
		Cycle()
	}
	if got := Active().Name; got != start {
		t.Fatalf("after a full cycle active = %q, want %q", got, start)
	}
}

func TestSeriesColorCyclesAndFades(t *testing.T) {
	th := Theme{Background: "#FFFFFF", Series: []lipgloss.Color{"#FF0000", "#0000FF"}}
	if got := Hex(th.SeriesColor(0)); got != "#ff0000" {
		t.Fatalf("SeriesColor(0) = %s", got)
	}
	if got := Hex(th.SeriesColor(1)); got != "#0000ff" {
		t.Fatalf("SeriesColor(1) = %s", got)
	}
	if got := Hex(th.SeriesColor(2)); got == "#ff0000" {
		t.Fatal("second lap should differ from the first")
	}
	if got := Hex(Theme{Accent: "#00FF00"}.SeriesColor(3)); got != "#00ff00" {
		t.Fatalf("empty palette should fall back to accent, got %s", got)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor(" abc ")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if Hex(c) != "#aabbcc" {
		t.Fatalf("Hex = %s", Hex(c))
	}
	if _, err := ParseColor("#zzzzzz"); err == nil {
		t.Fatal("expected error for malformed colour")
	}
}
