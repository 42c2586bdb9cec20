// Package raster converts a finished scene graph into a pixel buffer. It is
// the single drawing backend shared by the interactive preview and the
// headless export surface, so a scene rasterizes identically wherever it is
// played back.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/pillepelle-123/bookpress/layout"
	"github.com/pillepelle-123/bookpress/scene"
)

// RenderImage rasterizes the scene at pixel ratio 1 into a new buffer sized
// from the root node.
func RenderImage(root *scene.Node, faces *layout.Faces) (*image.RGBA, error) {
	return RenderImageRatio(root, faces, 1)
}

// RenderImageRatio rasterizes the scene at the given pixel ratio.
func RenderImageRatio(root *scene.Node, faces *layout.Faces, ratio float64) (*image.RGBA, error) {
	if ratio <= 0 {
		return nil, fmt.Errorf("raster: invalid pixel ratio %v", ratio)
	}
	w := int(root.W*ratio + 0.5)
	h := int(root.H*ratio + 0.5)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: scene has no area (%vx%v)", root.W, root.H)
	}
	dc := gg.NewContext(w, h)
	dc.Scale(ratio, ratio)
	if err := Render(root, dc, faces); err != nil {
		return nil, err
	}
	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("raster: unexpected surface image type %T", dc.Image())
	}
	return img, nil
}

// Render plays the scene back onto an existing drawing context.
func Render(root *scene.Node, dc *gg.Context, faces *layout.Faces) error {
	return renderNode(root, dc, faces, 1)
}

func renderNode(n *scene.Node, dc *gg.Context, faces *layout.Faces, opacity float64) error {
	op := opacity * n.Style.OpacityValue()

	dc.Push()
	defer dc.Pop()
	dc.Translate(n.X, n.Y)
	if n.Rotation != 0 {
		dc.RotateAbout(gg.Radians(n.Rotation), n.W/2, n.H/2)
	}

	switch n.Kind {
	case scene.KindGroup:
		// container only

	case scene.KindRect:
		if n.Style.Fill != nil {
			dc.SetColor(withAlpha(*n.Style.Fill, op))
			dc.DrawRectangle(0, 0, n.W, n.H)
			dc.Fill()
		}
		if n.Style.Stroke != nil && n.Style.StrokeWidth > 0 {
			dc.SetColor(withAlpha(*n.Style.Stroke, op))
			dc.SetLineWidth(n.Style.StrokeWidth)
			dc.DrawRectangle(0, 0, n.W, n.H)
			dc.Stroke()
		}

	case scene.KindEllipse:
		if n.Style.Fill != nil {
			dc.SetColor(withAlpha(*n.Style.Fill, op))
			dc.DrawEllipse(n.W/2, n.H/2, n.W/2, n.H/2)
			dc.Fill()
		}
		if n.Style.Stroke != nil && n.Style.StrokeWidth > 0 {
			dc.SetColor(withAlpha(*n.Style.Stroke, op))
			dc.SetLineWidth(n.Style.StrokeWidth)
			dc.DrawEllipse(n.W/2, n.H/2, n.W/2, n.H/2)
			dc.Stroke()
		}

	case scene.KindLine, scene.KindPath:
		if n.Style.Stroke != nil && n.Style.StrokeWidth > 0 && len(n.Points) >= 2 {
			dc.SetColor(withAlpha(*n.Style.Stroke, op))
			dc.SetLineWidth(n.Style.StrokeWidth)
			strokePolyline(dc, n.Points)
		}

	case scene.KindImage:
		if n.Image != nil {
			drawImageFit(dc, n.Image, n.W, n.H, op)
		}
		// Unresolved Src means the image was not (or could not be)
		// fetched; the element degrades to an empty area.

	case scene.KindText:
		if n.Style.Fill != nil && len(n.Runs) > 0 {
			dc.SetColor(withAlpha(*n.Style.Fill, op))
			dc.SetFontFace(faces.Face(n.FontFamily, n.FontSize))
			for _, run := range n.Runs {
				if run.Text == "" {
					continue
				}
				// Export clips silently: skip runs below the content box.
				if n.H > 0 && run.Baseline > n.H {
					continue
				}
				dc.DrawString(run.Text, run.X, run.Baseline)
			}
		}

	case scene.KindPattern:
		if n.Pattern != nil {
			tile := n.PatternTile
			if tile == nil {
				tile = PatternTile(n.Pattern)
			}
			// The surface pattern paints the tile verbatim, so opacity has
			// to be baked into the tile itself.
			if op < 1 {
				tile = fadeImage(tile, op)
			}
			dc.SetFillStyle(gg.NewSurfacePattern(tile, gg.RepeatBoth))
			dc.DrawRectangle(0, 0, n.W, n.H)
			dc.Fill()
		}

	case scene.KindQR:
		if n.QRContent != "" {
			img, err := qrImage(n.QRContent, int(n.W), int(n.H))
			if err != nil {
				return fmt.Errorf("raster: qr code: %w", err)
			}
			drawImageFit(dc, img, n.W, n.H, op)
		}

	default:
		return fmt.Errorf("raster: unknown node kind %d", n.Kind)
	}

	for _, ch := range n.Children {
		if err := renderNode(ch, dc, faces, op); err != nil {
			return err
		}
	}
	return nil
}

// strokePolyline strokes a point run, honoring pen-up break points between
// sketch passes.
func strokePolyline(dc *gg.Context, pts []scene.Point) {
	pen := false
	for _, p := range pts {
		if scene.IsBreak(p) {
			pen = false
			continue
		}
		if !pen {
			dc.MoveTo(p.X, p.Y)
			pen = true
			continue
		}
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
}

// drawImageFit stretches img to fill a w×h box at the current origin.
func drawImageFit(dc *gg.Context, img image.Image, w, h, opacity float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || w <= 0 || h <= 0 {
		return
	}
	if opacity < 1 {
		img = fadeImage(img, opacity)
	}
	dc.Push()
	dc.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

// fadeImage returns a copy of img with its alpha channel scaled by opacity.
func fadeImage(img image.Image, opacity float64) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, a := img.At(x, y).RGBA()
			out.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{
				R: uint8(float64(r>>8) * opacity),
				G: uint8(float64(g>>8) * opacity),
				B: uint8(float64(bb>>8) * opacity),
				A: uint8(float64(a>>8) * opacity),
			})
		}
	}
	return out
}

func withAlpha(c color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return c
	}
	if opacity < 0 {
		opacity = 0
	}
	c.A = uint8(float64(c.A) * opacity)
	return c
}
