// Package snapshot turns a live interactive scene into an export-ready one.
// Each transformation step corrects a specific structural mismatch between
// the editing context and the export context: editing chrome is stripped,
// geometry is re-anchored to the page origin, pattern tiles are rebuilt
// from their declarative parameters, background nodes are reordered ahead
// of content, and stroke widths are compensated for resampling loss.
package snapshot

import (
	"fmt"

	"github.com/pillepelle-123/bookpress/raster"
	"github.com/pillepelle-123/bookpress/scene"
)

// Calibration holds the empirically measured stroke-compensation
// multipliers per element category. The values are tuned against the
// Catmull-Rom resampling kernel used by the print post-processor; a
// different resampler needs re-measuring, not a formula change.
type Calibration struct {
	Shape  float64 // ordinary shape outlines and freehand strokes
	Border float64 // borders on text-bearing composites
}

// DefaultCalibration is the shipped tuning.
var DefaultCalibration = Calibration{Shape: 1.0, Border: 0.85}

func (c Calibration) orDefault() Calibration {
	if c.Shape <= 0 {
		c.Shape = DefaultCalibration.Shape
	}
	if c.Border <= 0 {
		c.Border = DefaultCalibration.Border
	}
	return c
}

// Transform produces the export scene for one page. pageOffset is where
// the page origin currently sits inside the live scene (viewport inset and
// pan); the export scene is re-anchored so that point maps to (0,0).
// rasterWidth and targetWidth are the pixel widths the scene will be
// rasterized at and finally rendered at; their ratio drives stroke-width
// compensation. The live scene is never mutated.
func Transform(live *scene.Node, pageOffset scene.Point, rasterWidth, targetWidth float64, calib Calibration) (*scene.Node, error) {
	if live == nil {
		return nil, fmt.Errorf("snapshot: nil scene")
	}
	calib = calib.orDefault()

	root := live.Clone()

	// 1. Editing-only nodes and placeholder affordances must never reach
	// an export.
	root.FilterChildren(func(n *scene.Node) bool {
		return !n.Tag.Has(scene.TagEditing)
	})

	// 2. Re-anchor: map the page's top-left content boundary to (0,0) in
	// export pixel space.
	root.X -= pageOffset.X
	root.Y -= pageOffset.Y

	// 3. Pattern tiles are native bitmap handles that do not survive the
	// structural clone above; rebuild each from its declarative spec.
	root.Walk(func(n *scene.Node) bool {
		if n.Kind == scene.KindPattern && n.Pattern != nil {
			n.PatternTile = raster.PatternTile(n.Pattern)
		}
		return true
	})

	// 4. A structural clone does not guarantee background-before-content
	// ordering on every path; restore the invariant wherever a group
	// carries a background child.
	root.Walk(func(n *scene.Node) bool {
		for _, ch := range n.Children {
			if ch.Tag.Has(scene.TagBackground) {
				scene.SortBackgroundFirst(n)
				break
			}
		}
		return true
	})

	// 5. Stroke-width compensation for raster resampling.
	comp := 1.0
	if rasterWidth > 0 && targetWidth > 0 {
		comp = rasterWidth / targetWidth
	}
	if comp != 1 {
		compensateStrokes(root, comp, calib, false)
	}

	return root, nil
}

// compensateStrokes scales stroke widths by the compensation factor times
// the per-category calibration. Ruled-line decorations are exempt: they
// are identified structurally, as decoration nodes contained within a
// text-bearing composite, because they already scale with the view and
// must stay visually thin.
func compensateStrokes(n *scene.Node, comp float64, calib Calibration, inTextComposite bool) {
	isTextComposite := inTextComposite
	if n.Kind == scene.KindGroup && n.ElementID != "" {
		isTextComposite = hasTextChild(n)
	}

	for _, ch := range n.Children {
		if ch.Style.Stroke != nil && ch.Style.StrokeWidth > 0 {
			if isTextComposite && ch.Tag.Has(scene.TagDecoration) {
				// exempt: ruled lines inside a text block
			} else if isTextComposite {
				ch.Style.StrokeWidth *= comp * calib.Border
			} else {
				ch.Style.StrokeWidth *= comp * calib.Shape
			}
		}
		compensateStrokes(ch, comp, calib, isTextComposite)
	}
}

func hasTextChild(n *scene.Node) bool {
	for _, ch := range n.Children {
		if ch.Kind == scene.KindText {
			return true
		}
	}
	return false
}
