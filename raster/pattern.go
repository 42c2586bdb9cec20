package raster

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/pillepelle-123/bookpress/book"
)

// baseTileSize is the unscaled edge length of a pattern tile in pixels.
const baseTileSize = 24

// PatternTile rebuilds a repeating tile bitmap from its declarative
// parameters. Tiles are regenerated wherever a scene is cloned or
// reconstructed, never carried across as bitmap handles.
func PatternTile(spec *book.PatternSpec) image.Image {
	scale := spec.Scale
	if scale <= 0 {
		scale = 1
	}
	size := int(baseTileSize*scale + 0.5)
	if size < 4 {
		size = 4
	}
	sw := spec.StrokeWidth
	if sw <= 0 {
		sw = 1
	}

	c, ok, err := book.ParseColor(spec.Color)
	if err != nil || !ok {
		c = mustGray()
	}

	dc := gg.NewContext(size, size)
	dc.SetColor(c)
	dc.SetLineWidth(sw)
	s := float64(size)

	switch spec.Kind {
	case book.PatternDots:
		dc.DrawCircle(s/2, s/2, s/8)
		dc.Fill()
	case book.PatternGrid:
		dc.DrawLine(0, 0.5, s, 0.5)
		dc.DrawLine(0.5, 0, 0.5, s)
		dc.Stroke()
	case book.PatternLines:
		dc.DrawLine(0, s/2, s, s/2)
		dc.Stroke()
	case book.PatternCrosshatch:
		dc.DrawLine(0, 0, s, s)
		dc.DrawLine(0, s, s, 0)
		dc.Stroke()
	default:
		// Unknown kinds degrade to a faint dot rather than failing the
		// whole page.
		dc.DrawCircle(s/2, s/2, s/10)
		dc.Fill()
	}
	return dc.Image()
}

func mustGray() color.RGBA {
	c, _, _ := book.ParseColor("#9ca3af")
	return c
}
