// Package theme holds the colour themes shared by the renderers and the
// terminal viewer.
package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// COMBOCHART_THEME_DIR can point to one or more additional theme directories
// (path-list separated, e.g. ":" on unix, ";" on Windows).
const DirEnvVar = "COMBOCHART_THEME_DIR"

const DefaultName = "Paper"

// Theme is the colour token set used to paint a chart and its host.
//
// External themes can be defined as JSON files with matching snake_case
// fields, for example: {"name":"My Theme","background":"#111111",...}.
type Theme struct {
	Name string `json:"name"`
	Icon string `json:"icon"`

	Background lipgloss.Color `json:"background"`
	Surface    lipgloss.Color `json:"surface"`
	Text       lipgloss.Color `json:"text"`
	Subtext    lipgloss.Color `json:"subtext"`
	Grid       lipgloss.Color `json:"grid"`
	Divider    lipgloss.Color `json:"divider"`
	Highlight  lipgloss.Color `json:"highlight"`
	Accent     lipgloss.Color `json:"accent"`

	// Series colours are assigned to data sets without an explicit colour,
	// in order.
	Series []lipgloss.Color `json:"series"`
}

var (
	themeMu        sync.RWMutex
	themes         = builtinThemes()
	activeThemeIdx = defaultThemeIndex(themes)
)

func builtinThemes() []Theme {
	return []Theme{
		{
			Name: "Paper", Icon: "📄",
			Background: "#FFFFFF", Surface: "#F2F2F2",
			Text: "#000000", Subtext: "#000000",
			Grid: "#808080", Divider: "#AAAAAA", Highlight: "#808080", Accent: "#1F77B4",
			Series: []lipgloss.Color{"#1F77B4", "#FF7F0E", "#2CA02C", "#D62728", "#9467BD", "#8C564B"},
		},
		{
			Name: "Gruvbox", Icon: "🌻",
			Background: "#282828", Surface: "#3C3836",
			Text: "#EBDBB2", Subtext: "#D5C4A1",
			Grid: "#504945", Divider: "#665C54", Highlight: "#D3869B", Accent: "#D3869B",
			Series: []lipgloss.Color{"#83A598", "#FABD2F", "#B8BB26", "#FB4934", "#FE8019", "#8EC07C"},
		},
		{
			Name: "Catppuccin Mocha", Icon: "🐱",
			Background: "#1E1E2E", Surface: "#313244",
			Text: "#CDD6F4", Subtext: "#A6ADC8",
			Grid: "#45475A", Divider: "#585B70", Highlight: "#CBA6F7", Accent: "#CBA6F7",
			Series: []lipgloss.Color{"#89B4FA", "#FAB387", "#A6E3A1", "#F38BA8", "#F9E2AF", "#94E2D5"},
		},
		{
			Name: "Dracula", Icon: "🧛",
			Background: "#282A36", Surface: "#44475A",
			Text: "#F8F8F2", Subtext: "#BFBFBF",
			Grid: "#44475A", Divider: "#6272A4", Highlight: "#BD93F9", Accent: "#BD93F9",
			Series: []lipgloss.Color{"#8BE9FD", "#FFB86C", "#50FA7B", "#FF5555", "#F1FA8C", "#FF79C6"},
		},
		{
			Name: "Nord", Icon: "❄",
			Background: "#2E3440", Surface: "#3B4252",
			Text: "#ECEFF4", Subtext: "#D8DEE9",
			Grid: "#434C5E", Divider: "#4C566A", Highlight: "#B48EAD", Accent: "#B48EAD",
			Series: []lipgloss.Color{"#81A1C1", "#D08770", "#A3BE8C", "#BF616A", "#EBCB8B", "#8FBCBB"},
		},
		{
			Name: "Tokyo Night", Icon: "🌃",
			Background: "#1A1B26", Surface: "#24283B",
			Text: "#C0CAF5", Subtext: "#A9B1D6",
			Grid: "#414868", Divider: "#565F89", Highlight: "#BB9AF7", Accent: "#BB9AF7",
			Series: []lipgloss.Color{"#7AA2F7", "#FF9E64", "#9ECE6A", "#F7768E", "#E0AF68", "#73DACA"},
		},
		{
			Name: "Solarized Dark", Icon: "🌅",
			Background: "#002B36", Surface: "#073642",
			Text: "#93A1A1", Subtext: "#839496",
			Grid: "#0E3A45", Divider: "#586E75", Highlight: "#D33682", Accent: "#D33682",
			Series: []lipgloss.Color{"#268BD2", "#CB4B16", "#859900", "#DC322F", "#B58900", "#2AA198"},
		},
		{
			Name: "Grayscale", Icon: "⬛",
			Background: "#000000", Surface: "#181818",
			Text: "#F5F5F5", Subtext: "#D6D6D6",
			Grid: "#2A2A2A", Divider: "#3E3E3E", Highlight: "#FFFFFF", Accent: "#FFFFFF",
			Series: []lipgloss.Color{"#E8E8E8", "#BEBEBE", "#989898", "#D0D0D0", "#AAAAAA", "#787878"},
		},
	}
}

func defaultThemeIndex(all []Theme) int {
	for i, t := range all {
		if strings.EqualFold(strings.TrimSpace(t.Name), DefaultName) {
			return i
		}
	}
	return 0
}

func trimColor(c lipgloss.Color) lipgloss.Color {
	return lipgloss.Color(strings.TrimSpace(string(c)))
}

func normalizeTheme(in Theme) Theme {
	in.Name = strings.TrimSpace(in.Name)
	in.Icon = strings.TrimSpace(in.Icon)
	if in.Icon == "" {
		in.Icon = "🎨"
	}

	in.Background = trimColor(in.Background)
	in.Surface = trimColor(in.Surface)
	in.Text = trimColor(in.Text)
	in.Subtext = trimColor(in.Subtext)
	in.Grid = trimColor(in.Grid)
	in.Divider = trimColor(in.Divider)
	in.Highlight = trimColor(in.Highlight)
	in.Accent = trimColor(in.Accent)

	series := make([]lipgloss.Color, 0, len(in.Series))
	for _, c := range in.Series {
		if c = trimColor(c); c != "" {
			series = append(series, c)
		}
	}
	in.Series = series
	return in
}

func (t Theme) validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("missing required field: name")
	}
	fields := []struct {
		name  string
		value lipgloss.Color
	}{
		{"background", t.Background}, {"surface", t.Surface},
		{"text", t.Text}, {"subtext", t.Subtext},
		{"grid", t.Grid}, {"divider", t.Divider},
		{"highlight", t.Highlight}, {"accent", t.Accent},
	}
	var missing, invalid []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
			continue
		}
		if _, err := ParseColor(string(f.value)); err != nil {
			invalid = append(invalid, f.name)
		}
	}
	for i, c := range t.Series {
		if _, err := ParseColor(string(c)); err != nil {
			invalid = append(invalid, fmt.Sprintf("series[%d]", i))
		}
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required color fields: %s", strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		errs = append(errs, fmt.Errorf("invalid color fields: %s", strings.Join(invalid, ", ")))
	}
	if len(t.Series) == 0 {
		errs = append(errs, errors.New("series palette is empty"))
	}
	return errors.Join(errs...)
}

func searchDirs(configDir string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(path string) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}

	if strings.TrimSpace(configDir) != "" {
		add(filepath.Join(configDir, "themes"))
	}
	if env := strings.TrimSpace(os.Getenv(DirEnvVar)); env != "" {
		for _, part := range filepath.SplitList(env) {
			add(part)
		}
	}
	return out
}

func loadThemesFromDir(dir string) ([]Theme, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read theme dir %s: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	var loaded []Theme
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			continue
		}

		var t Theme
		if err := json.Unmarshal(data, &t); err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", path, err))
			continue
		}

		t = normalizeTheme(t)
		if err := t.validate(); err != nil {
			errs = append(errs, fmt.Errorf("validate %s: %w", path, err))
			continue
		}
		loaded = append(loaded, t)
	}

	return loaded, errors.Join(errs...)
}

// mergeThemes appends extra to base; a theme whose name matches an existing
// one replaces it in place.
func mergeThemes(base, extra []Theme) []Theme {
	if len(extra) == 0 {
		return base
	}
	merged := append([]Theme(nil), base...)
	indexByName := make(map[string]int, len(merged))
	for i, t := range merged {
		indexByName[strings.ToLower(t.Name)] = i
	}
	for _, t := range extra {
		k := strings.ToLower(t.Name)
		if i, ok := indexByName[k]; ok {
			merged[i] = t
			continue
		}
		indexByName[k] = len(merged)
		merged = append(merged, t)
	}
	return merged
}

func indexByNameLocked(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}
	for i, t := range themes {
		if t.Name == name {
			return i, true
		}
	}
	for i, t := range themes {
		if strings.EqualFold(t.Name, name) {
			return i, true
		}
	}
	return 0, false
}

// Load reloads the catalog from built-ins plus external theme files found in
// <configDir>/themes and each path in COMBOCHART_THEME_DIR.
//
// Invalid files are skipped and reported in the aggregated error; valid
// themes stay available either way.
func Load(configDir string) error {
	themeMu.Lock()
	defer themeMu.Unlock()

	current := ""
	if activeThemeIdx >= 0 && activeThemeIdx < len(themes) {
		current = themes[activeThemeIdx].Name
	}

	next := builtinThemes()
	var errs []error
	for _, dir := range searchDirs(configDir) {
		loaded, err := loadThemesFromDir(dir)
		if err != nil {
			errs = append(errs, err)
		}
		next = mergeThemes(next, loaded)
	}

	themes = next
	if i, ok := indexByNameLocked(current); ok {
		activeThemeIdx = i
	} else {
		activeThemeIdx = defaultThemeIndex(themes)
	}
	return errors.Join(errs...)
}

func Available() []Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()

	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

func Active() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if activeThemeIdx < 0 || activeThemeIdx >= len(themes) {
		return themes[0]
	}
	return themes[activeThemeIdx]
}

// Lookup finds a theme by name, exact match first, then case-insensitive.
func Lookup(name string) (Theme, bool) {
	themeMu.RLock()
	defer themeMu.RUnlock()
	i, ok := indexByNameLocked(name)
	if !ok {
		return Theme{}, false
	}
	return themes[i], true
}

// Cycle activates the next theme and returns it.
func Cycle() Theme {
	themeMu.Lock()
	defer themeMu.Unlock()

	activeThemeIdx = (activeThemeIdx + 1) % len(themes)
	return themes[activeThemeIdx]
}

func SetActive(name string) bool {
	themeMu.Lock()
	defer themeMu.Unlock()
	i, ok := indexByNameLocked(name)
	if ok {
		activeThemeIdx = i
	}
	return ok
}

// Label is the theme's icon and name for display.
func (t Theme) Label() string {
	if t.Icon == "" {
		return t.Name
	}
	return t.Icon + " " + t.Name
}
