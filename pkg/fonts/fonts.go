// Package fonts provides text measurement for block and sidebar sizing.
//
// Layout only needs the rendered width of a label. [OpenType] measures with
// real font metrics, defaulting to the Go fonts compiled into the binary so
// no filesystem lookups happen. [Estimate] is the pure character-count
// fallback, and [Safe] combines the two so measurement never fails.
package fonts

import (
	"fmt"
	"math"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Size is the label font size in points. Rendering uses 72 DPI, so points
// and pixels coincide.
const Size = 12

// EstimateFactor is the average glyph advance assumed by [Estimate].
const EstimateFactor = 8.5

// Family is the CSS font-family for labels; FamilyItalic is used for type names.
const (
	Family       = `'TGL 0-17', 'Times New Roman', Times, serif`
	FamilyItalic = `'TGL 0-16', 'Times New Roman', Times, serif`
)

// Measurer reports the rendered width of text in pixels.
type Measurer interface {
	Measure(text string, italic bool) (float64, error)
}

// MeasureFunc adapts a plain function to [Measurer].
type MeasureFunc func(text string, italic bool) (float64, error)

// Measure calls f.
func (f MeasureFunc) Measure(text string, italic bool) (float64, error) { return f(text, italic) }

// Estimate returns a deterministic width proportional to the rune count.
func Estimate(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * EstimateFactor
}

// Estimator is a [Measurer] that always uses [Estimate].
type Estimator struct{}

// Measure implements [Measurer].
func (Estimator) Measure(text string, _ bool) (float64, error) { return Estimate(text), nil }

// =============================================================================
// OpenType metrics
// =============================================================================

// OpenType measures text with parsed font faces. Faces keep internal glyph
// caches, so access is serialized; an OpenType is safe to share between
// concurrent conversions.
type OpenType struct {
	mu      sync.Mutex
	regular font.Face
	italic  font.Face
}

// NewOpenType builds a measurer from TrueType/OpenType font data.
func NewOpenType(regularData, italicData []byte) (*OpenType, error) {
	regular, err := newFace(regularData)
	if err != nil {
		return nil, fmt.Errorf("regular face: %w", err)
	}
	italic, err := newFace(italicData)
	if err != nil {
		return nil, fmt.Errorf("italic face: %w", err)
	}
	return &OpenType{regular: regular, italic: italic}, nil
}

// Default returns a measurer over the embedded Go Regular and Go Italic fonts.
func Default() (*OpenType, error) {
	return NewOpenType(goregular.TTF, goitalic.TTF)
}

// Load reads font files from disk. An empty path selects the embedded Go
// font for that style.
func Load(regularPath, italicPath string) (*OpenType, error) {
	regular, err := readOr(regularPath, goregular.TTF)
	if err != nil {
		return nil, err
	}
	italic, err := readOr(italicPath, goitalic.TTF)
	if err != nil {
		return nil, err
	}
	return NewOpenType(regular, italic)
}

// Measure implements [Measurer].
func (o *OpenType) Measure(text string, italic bool) (float64, error) {
	face := o.regular
	if italic {
		face = o.italic
	}
	if face == nil {
		return 0, fmt.Errorf("no font face loaded")
	}
	o.mu.Lock()
	adv := font.MeasureString(face, text)
	o.mu.Unlock()
	return float64(adv) / 64, nil
}

func newFace(data []byte) (font.Face, error) {
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func readOr(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return data, nil
}

// =============================================================================
// Fallback wrapper
// =============================================================================

// Safe wraps a Measurer and substitutes [Estimate] whenever it is missing,
// fails, or reports a negative or non-finite width. The first fallback is
// logged at debug level.
type Safe struct {
	m      Measurer
	logger *log.Logger
	once   sync.Once
}

// NewSafe wraps m. Both arguments may be nil.
func NewSafe(m Measurer, logger *log.Logger) *Safe {
	return &Safe{m: m, logger: logger}
}

// Width returns the measured width of text, never failing.
func (s *Safe) Width(text string, italic bool) float64 {
	if text == "" {
		return 0
	}
	if s == nil || s.m == nil {
		return Estimate(text)
	}
	w, err := s.m.Measure(text, italic)
	if err != nil || w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		s.once.Do(func() {
			if s.logger != nil {
				s.logger.Debug("text measurement failed, using estimate", "text", text, "err", err)
			}
		})
		return Estimate(text)
	}
	return w
}

// Measure implements [Measurer]; it never returns an error.
func (s *Safe) Measure(text string, italic bool) (float64, error) {
	return s.Width(text, italic), nil
}
