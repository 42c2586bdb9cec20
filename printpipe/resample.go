package printpipe

import (
	"image"

	"golang.org/x/image/draw"
)

// Resample scales src to exactly w×h pixels. Catmull-Rom keeps thin
// strokes and text edges acceptable in both directions; the stroke-width
// compensation applied upstream is calibrated against this kernel.
func Resample(src image.Image, w, h int) *image.RGBA {
	if b := src.Bounds(); b.Dx() == w && b.Dy() == h {
		if rgba, ok := src.(*image.RGBA); ok {
			return rgba
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
