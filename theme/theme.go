// Package theme resolves named themes and color palettes into concrete
// per-element style defaults. Resolution is a pure function over immutable
// registry data: identical inputs always produce identical ResolvedStyle
// values, which is what keeps the interactive and headless renderers in
// visual agreement.
//
// Resolution order for every style attribute is element override, then page
// theme, then book theme, then the global default theme. Unknown theme or
// palette names fall back to the defaults instead of erroring.
package theme

import (
	"image/color"

	"github.com/pillepelle-123/bookpress/book"
)

// DefaultTheme and DefaultPalette are the documented global fallbacks.
const (
	DefaultTheme   = "default"
	DefaultPalette = "default"
)

// VariantStyle holds the visual defaults a theme assigns to one element
// variant. Color fields are hex strings or palette role references of the
// form "@role".
type VariantStyle struct {
	Fill           string
	Stroke         string
	StrokeWidth    float64
	Roughness      float64
	FontFamily     string
	FontSize       float64
	LineHeight     float64 // multiplier on font size
	TextColor      string
	RuledLines     bool
	RuledLineColor string
	RuledLineWidth float64
}

// Theme is a named bundle of per-variant visual defaults.
type Theme struct {
	Name     string
	Default  VariantStyle
	Variants map[book.ElementType]VariantStyle
}

// Palette maps semantic color roles to concrete hex colors.
type Palette struct {
	Name  string
	Roles map[string]string
}

// ResolvedStyle is the concrete style for one element after theme and
// palette resolution. All colors are literal; role references are gone.
type ResolvedStyle struct {
	Fill        color.RGBA
	HasFill     bool
	Stroke      color.RGBA
	HasStroke   bool
	StrokeWidth float64
	Roughness   float64
	SketchSeed  int64

	FontFamily string
	FontSize   float64
	LineHeight float64 // absolute pixels
	TextColor  color.RGBA

	RuledLines     bool
	RuledLineColor color.RGBA
	RuledLineWidth float64

	PatternColor color.RGBA // default tile color for pattern backgrounds
}

// Sketchy reports whether strokes should be rendered with hand-drawn jitter.
func (s ResolvedStyle) Sketchy() bool { return s.Roughness > 0 }
