// Package printpipe post-processes page rasters for print: it scales them
// to the resolution of the requested quality tier, optionally converts to
// CMYK with an ICC profile, and encodes them for embedding in a PDF.
package printpipe

import (
	"fmt"
	"math"

	"github.com/pillepelle-123/bookpress/book"
)

// Quality names an export quality tier. Each tier fixes the output
// resolution; color handling is orthogonal.
type Quality string

// Quality tiers.
const (
	QualityPreview   Quality = "preview"   // 72 dpi, screen proofing
	QualityMedium    Quality = "medium"    // 150 dpi, home printing
	QualityPrinting  Quality = "printing"  // 300 dpi, print shop
	QualityExcellent Quality = "excellent" // 600 dpi, premium production
)

var qualityDPI = map[Quality]int{
	QualityPreview:   72,
	QualityMedium:    150,
	QualityPrinting:  300,
	QualityExcellent: 600,
}

// Valid reports whether q names a known tier.
func (q Quality) Valid() bool {
	_, ok := qualityDPI[q]
	return ok
}

// DPI returns the tier's output resolution.
func (q Quality) DPI() (int, error) {
	dpi, ok := qualityDPI[q]
	if !ok {
		return 0, fmt.Errorf("printpipe: unknown quality tier %q", q)
	}
	return dpi, nil
}

// PixelRatio returns the raster scale factor relative to the interactive
// canvas resolution.
func (q Quality) PixelRatio() (float64, error) {
	dpi, err := q.DPI()
	if err != nil {
		return 0, err
	}
	return float64(dpi) / book.BaseDPI, nil
}

// TargetPixels returns the output raster dimensions for a page format at
// the tier's resolution.
func TargetPixels(size book.PageSize, orient book.Orientation, q Quality) (w, h int, err error) {
	dpi, err := q.DPI()
	if err != nil {
		return 0, 0, err
	}
	wmm, hmm := book.SizeMM(size, orient)
	w = int(math.Round(wmm / book.MMPerInch * float64(dpi)))
	h = int(math.Round(hmm / book.MMPerInch * float64(dpi)))
	return w, h, nil
}
