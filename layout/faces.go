// Package layout computes element geometry and text runs: line-wrapped text
// against a fixed content width, baseline offsets from real font metrics,
// and ruled-line positions for answer blocks.
//
// Both the interactive renderer and the headless exporter must draw text
// from the same metrics source, so the package ships its own font faces
// (the Go fonts, embedded in the binary) instead of loading host fonts.
// Any divergence in metrics between the two renderers shows up directly as
// visual mismatch in exported pages.
package layout

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Font family names understood by Faces.
const (
	FamilyRegular = "regular"
	FamilyBold    = "bold"
)

type faceKey struct {
	family string
	size   float64
}

// Faces caches font.Face instances per family and size. A Faces value is
// safe for concurrent lookup; the returned faces themselves must each be
// used from one goroutine at a time, which the per-surface render loops
// guarantee.
type Faces struct {
	regular *truetype.Font
	bold    *truetype.Font

	mu    sync.Mutex
	cache map[faceKey]font.Face
}

// NewFaces parses the embedded fonts and returns an empty face cache.
func NewFaces() (*Faces, error) {
	reg, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("layout: parsing regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("layout: parsing bold font: %w", err)
	}
	return &Faces{
		regular: reg,
		bold:    bold,
		cache:   make(map[faceKey]font.Face),
	}, nil
}

// Face returns the face for the given family name and pixel size. Unknown
// family names fall back to the regular face.
func (f *Faces) Face(family string, size float64) font.Face {
	if size <= 0 {
		size = 16
	}
	key := faceKey{family: family, size: size}

	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.cache[key]; ok {
		return face
	}

	ft := f.regular
	if family == FamilyBold {
		ft = f.bold
	}
	face := truetype.NewFace(ft, &truetype.Options{
		Size: size,
		DPI:  72, // size is already in pixels
	})
	f.cache[key] = face
	return face
}

// Ascent returns the ascent of the face in pixels.
func Ascent(face font.Face) float64 {
	return fixedToFloat(face.Metrics().Ascent)
}

// Descent returns the descent of the face in pixels.
func Descent(face font.Face) float64 {
	return fixedToFloat(face.Metrics().Descent)
}

// MeasureString returns the advance width of s in pixels.
func MeasureString(face font.Face, s string) float64 {
	return fixedToFloat(font.MeasureString(face, s))
}
