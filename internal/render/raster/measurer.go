package raster

import (
	"image/color"
	"log"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/janekbaraniewski/combochart/internal/chart"
)

var (
	parseOnce sync.Once
	parsed    map[string]*opentype.Font
)

// familyFonts parses the embedded Go fonts once. Parsed fonts are shared;
// faces are not, since a face keeps glyph buffers.
func familyFonts() map[string]*opentype.Font {
	parseOnce.Do(func() {
		parsed = make(map[string]*opentype.Font)
		for name, ttf := range map[string][]byte{
			"regular": goregular.TTF,
			"bold":    gobold.TTF,
			"mono":    gomono.TTF,
		} {
			f, err := opentype.Parse(ttf)
			if err != nil {
				log.Printf("[raster] parse %s font: %v", name, err)
				continue
			}
			parsed[name] = f
		}
	})
	return parsed
}

func familyKey(family string) string {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "bold", "go bold", "sans-bold":
		return "bold"
	case "mono", "monospace", "go mono":
		return "mono"
	default:
		return "regular"
	}
}

type faceKey struct {
	family string
	size   float64
}

// Measurer measures and supplies font faces for chart fonts. It implements
// chart.TextMeasurer. A Measurer is not safe for concurrent use; give each
// render pass its own.
type Measurer struct {
	faces map[faceKey]font.Face
}

func NewMeasurer() *Measurer {
	return &Measurer{faces: make(map[faceKey]font.Face)}
}

// Face returns the face for f, falling back to basicfont when the Go fonts
// are unavailable.
func (m *Measurer) Face(f chart.Font) font.Face {
	key := faceKey{family: familyKey(f.Family), size: f.Size}
	if face, ok := m.faces[key]; ok {
		return face
	}

	var face font.Face = basicfont.Face7x13
	if otf, ok := familyFonts()[key.family]; ok && f.Size > 0 {
		opened, err := opentype.NewFace(otf, &opentype.FaceOptions{
			Size:    f.Size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			log.Printf("[raster] open face %s/%.1f: %v", key.family, f.Size, err)
		} else {
			face = opened
		}
	}
	m.faces[key] = face
	return face
}

func (m *Measurer) MeasureText(s string, f chart.Font, _ color.Color) chart.Size {
	face := m.Face(f)
	return chart.Size{
		W: fixedToFloat(font.MeasureString(face, s)),
		H: fixedToFloat(face.Metrics().Height),
	}
}

// Close releases every opened face.
func (m *Measurer) Close() error {
	for k, face := range m.faces {
		if face != basicfont.Face7x13 {
			_ = face.Close()
		}
		delete(m.faces, k)
	}
	return nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
