package book

import "math"

// PageSize names a physical page format.
type PageSize string

// Supported page formats.
const (
	PageSizeA4     PageSize = "A4"
	PageSizeA5     PageSize = "A5"
	PageSizeLetter PageSize = "Letter"
	PageSizeSquare PageSize = "Square" // 210x210 mm
)

// Orientation of a page format.
type Orientation string

// Page orientations.
const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// Conversion constants between physical units and pixels.
const (
	MMPerPoint = 0.352778 // 1 pt = 1/72 inch
	MMPerInch  = 25.4

	// BaseDPI is the resolution of the interactive canvas. All element
	// geometry is stored in pixels at this density.
	BaseDPI = 96
)

// millimeter dimensions of each format in portrait orientation.
var pageSizeMM = map[PageSize][2]float64{
	PageSizeA4:     {210, 297},
	PageSizeA5:     {148, 210},
	PageSizeLetter: {215.9, 279.4},
	PageSizeSquare: {210, 210},
}

// Valid reports whether s names a supported page format.
func (s PageSize) Valid() bool {
	_, ok := pageSizeMM[s]
	return ok
}

// SizeMM returns the physical page dimensions in millimeters for the given
// orientation. Unknown formats fall back to A4.
func SizeMM(size PageSize, orient Orientation) (w, h float64) {
	dims, ok := pageSizeMM[size]
	if !ok {
		dims = pageSizeMM[PageSizeA4]
	}
	w, h = dims[0], dims[1]
	if orient == OrientationLandscape {
		w, h = h, w
	}
	return w, h
}

// SizePoints returns the physical page dimensions in PDF points.
func SizePoints(size PageSize, orient Orientation) (w, h float64) {
	wmm, hmm := SizeMM(size, orient)
	return wmm / MMPerPoint, hmm / MMPerPoint
}

// CanvasSize returns the interactive canvas pixel dimensions for the given
// format at BaseDPI. Both renderers compose at exactly this resolution so
// that layout decisions agree to the pixel.
func CanvasSize(size PageSize, orient Orientation) (w, h int) {
	wmm, hmm := SizeMM(size, orient)
	return int(math.Round(wmm / MMPerInch * BaseDPI)), int(math.Round(hmm / MMPerInch * BaseDPI))
}

// CanvasSizeOf is a convenience for a book's own format.
func (b *Book) CanvasSizeOf() (w, h int) {
	return CanvasSize(b.PageSize, b.Orientation)
}

// SizePointsOf is a convenience for a book's own format.
func (b *Book) SizePointsOf() (w, h float64) {
	return SizePoints(b.PageSize, b.Orientation)
}
