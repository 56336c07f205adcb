package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/janekbaraniewski/combochart/internal/chart"
	"github.com/janekbaraniewski/combochart/internal/theme"
)

type ChartConfig struct {
	AxisFontFamily   string  `json:"axis_font_family"`
	AxisFontSize     float64 `json:"axis_font_size"`
	LineAxisFontSize float64 `json:"line_axis_font_size"`
	AxisInterval     int     `json:"axis_interval"`
	LineAxisInterval int     `json:"line_axis_interval"`
	AxisMargin       float64 `json:"axis_margin"`
	LeftMargin       float64 `json:"left_margin"`
	RightMargin      float64 `json:"right_margin"`
	BottomMargin     float64 `json:"bottom_margin"`
	HighlightWidth   float64 `json:"highlight_width"`
	// GroupSpace applies to documents that leave their bar group spacing unset.
	GroupSpace float64 `json:"group_space"`
}

type RenderConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ViewerConfig sizes the terminal cell grid in chart pixels.
type ViewerConfig struct {
	CellWidth  float64 `json:"cell_width"`
	CellHeight float64 `json:"cell_height"`
}

type Config struct {
	Theme  string       `json:"theme"`
	Chart  ChartConfig  `json:"chart"`
	Render RenderConfig `json:"render"`
	Viewer ViewerConfig `json:"viewer"`
}

func DefaultConfig() Config {
	return Config{
		Theme: theme.DefaultName,
		Chart: ChartConfig{
			AxisFontSize:     chart.DefaultAxisFontSize,
			LineAxisFontSize: chart.DefaultLineAxisFontSize,
			AxisInterval:     chart.DefaultAxisInterval,
			LineAxisInterval: chart.DefaultLineAxisInterval,
			AxisMargin:       chart.DefaultAxisMargin,
			LeftMargin:       chart.DefaultLeftMargin,
			RightMargin:      chart.DefaultRightMargin,
			BottomMargin:     chart.DefaultBottomMargin,
			HighlightWidth:   chart.DefaultHighlightWidth,
			GroupSpace:       0.2,
		},
		Render: RenderConfig{Width: 640, Height: 360},
		Viewer: ViewerConfig{CellWidth: 6, CellHeight: 12},
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "combochart")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "combochart")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads path over the defaults. A missing file is not an error.
// Out-of-range values fall back to their defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg.normalize(), nil
}

func (c Config) normalize() Config {
	def := DefaultConfig()

	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if c.Chart.AxisFontSize <= 0 {
		c.Chart.AxisFontSize = def.Chart.AxisFontSize
	}
	if c.Chart.LineAxisFontSize <= 0 {
		c.Chart.LineAxisFontSize = def.Chart.LineAxisFontSize
	}
	if c.Chart.AxisInterval < 1 {
		c.Chart.AxisInterval = def.Chart.AxisInterval
	}
	if c.Chart.LineAxisInterval < 1 {
		c.Chart.LineAxisInterval = def.Chart.LineAxisInterval
	}
	if c.Chart.AxisMargin < 0 {
		c.Chart.AxisMargin = def.Chart.AxisMargin
	}
	if c.Chart.LeftMargin < 0 {
		c.Chart.LeftMargin = def.Chart.LeftMargin
	}
	if c.Chart.RightMargin < 0 {
		c.Chart.RightMargin = def.Chart.RightMargin
	}
	if c.Chart.BottomMargin < 0 {
		c.Chart.BottomMargin = def.Chart.BottomMargin
	}
	if c.Chart.HighlightWidth <= 0 {
		c.Chart.HighlightWidth = def.Chart.HighlightWidth
	}
	if c.Chart.GroupSpace < 0 || c.Chart.GroupSpace >= 1 {
		c.Chart.GroupSpace = def.Chart.GroupSpace
	}
	if c.Render.Width <= 0 {
		c.Render.Width = def.Render.Width
	}
	if c.Render.Height <= 0 {
		c.Render.Height = def.Render.Height
	}
	if c.Viewer.CellWidth <= 0 {
		c.Viewer.CellWidth = def.Viewer.CellWidth
	}
	if c.Viewer.CellHeight <= 0 {
		c.Viewer.CellHeight = def.Viewer.CellHeight
	}
	return c
}

// ChartConfig builds the view configuration, coloured by t.
func (c Config) ChartConfig(t theme.Theme) chart.Config {
	cc := chart.DefaultConfig()
	cc.AxisFont = chart.Font{Family: c.Chart.AxisFontFamily, Size: c.Chart.AxisFontSize}
	cc.LineAxisFont = chart.Font{Family: c.Chart.AxisFontFamily, Size: c.Chart.LineAxisFontSize}
	cc.AxisInterval = c.Chart.AxisInterval
	cc.LineAxisInterval = c.Chart.LineAxisInterval
	cc.AxisMargin = c.Chart.AxisMargin
	cc.Margins = chart.Margins{
		Left:   c.Chart.LeftMargin,
		Right:  c.Chart.RightMargin,
		Bottom: c.Chart.BottomMargin,
	}
	cc.HighlightWidth = c.Chart.HighlightWidth
	return t.Apply(cc).Normalize()
}

// saveMu guards read-modify-write cycles on the config file.
var saveMu sync.Mutex

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SaveTheme persists a theme name into the config file (read-modify-write).
func SaveTheme(name string) error {
	return SaveThemeTo(ConfigPath(), name)
}

func SaveThemeTo(path string, name string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.Theme = name
	return SaveTo(path, cfg)
}
