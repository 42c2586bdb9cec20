package editor

import (
	"image/color"
	"math"

	"github.com/pillepelle-123/bookpress/book"
	"github.com/pillepelle-123/bookpress/layout"
	"github.com/pillepelle-123/bookpress/scene"
)

// placeholderGlyph is shown inside empty text-bearing elements.
const placeholderGlyph = "Aa"

// handleSize is the edge length of a selection transform handle.
const handleSize = 8.0

var (
	selectionColor   = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	placeholderColor = color.RGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff}
	previewColor     = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0x99}
)

// LiveScene produces the scene the editing surface draws: the shared page
// scene offset by the viewport, plus editing-only affordances. The scene is
// in pre-zoom units; the shell rasterizes it at pixel ratio Viewport.Zoom
// (raster.RenderImageRatio), which reproduces the Viewport.ToScreen
// mapping exactly. Every affordance node carries scene.TagEditing so the
// snapshot transformer can strip it; none of them may ever reach an export.
func (e *Editor) LiveScene() (*scene.Node, error) {
	pageScene, err := scene.Build(e.Page(), e.bk, e.reg, e.faces)
	if err != nil {
		return nil, err
	}

	ox, oy := e.Viewport.PageOffset()
	root := &scene.Node{
		Kind: scene.KindGroup,
		X:    ox,
		Y:    oy,
		W:    pageScene.W,
		H:    pageScene.H,
	}
	root.Children = append(root.Children, pageScene)
	root.Children = append(root.Children, e.placeholderNodes()...)
	root.Children = append(root.Children, e.selectionNodes()...)
	if n := e.interactionNode(); n != nil {
		root.Children = append(root.Children, n)
	}
	return root, nil
}

// placeholderNodes marks empty content slots: image elements waiting for a
// photo and text-bearing elements with nothing typed yet. Placeholders are
// editing affordances, never exported.
func (e *Editor) placeholderNodes() []*scene.Node {
	var nodes []*scene.Node
	ph := placeholderColor
	for i := range e.Page().Elements {
		el := &e.Page().Elements[i]
		if el.Type.TextBearing() && el.Text == "" && el.Question == "" && el.Answer == "" {
			nodes = append(nodes, e.textPlaceholderNode(el, &ph))
			continue
		}
		if el.Type != book.ElementImage || (el.Src != "" && !e.Uploading(el.ID)) {
			continue
		}
		frame := &scene.Node{
			Kind:  scene.KindRect,
			Tag:   scene.TagEditing | scene.TagPlaceholder,
			X:     el.X,
			Y:     el.Y,
			W:     el.Width,
			H:     el.Height,
			Style: scene.Style{Stroke: &ph, StrokeWidth: 1},
		}
		cross := &scene.Node{
			Kind:   scene.KindPath,
			Tag:    scene.TagEditing | scene.TagPlaceholder,
			X:      el.X,
			Y:      el.Y,
			Style:  scene.Style{Stroke: &ph, StrokeWidth: 1},
			Points: []scene.Point{{X: 0, Y: 0}, {X: el.Width, Y: el.Height}, scene.BreakPoint(), {X: el.Width, Y: 0}, {X: 0, Y: el.Height}},
		}
		nodes = append(nodes, frame, cross)
	}
	return nodes
}

// textPlaceholderNode renders a sample glyph centered in an empty text
// element, using the element's resolved font so the placeholder previews
// the real type size.
func (e *Editor) textPlaceholderNode(el *book.Element, fill *color.RGBA) *scene.Node {
	rs := e.reg.Resolve(el, e.Page(), e.bk)
	face := e.faces.Face(rs.FontFamily, rs.FontSize)
	glyphW := layout.MeasureString(face, placeholderGlyph)
	baseline := (el.Height + layout.Ascent(face) - layout.Descent(face)) / 2
	return &scene.Node{
		Kind:       scene.KindText,
		Tag:        scene.TagEditing | scene.TagPlaceholder,
		X:          el.X,
		Y:          el.Y,
		W:          el.Width,
		H:          el.Height,
		FontFamily: rs.FontFamily,
		FontSize:   rs.FontSize,
		Style:      scene.Style{Fill: fill},
		Runs: []layout.TextRun{{
			Text:     placeholderGlyph,
			X:        (el.Width - glyphW) / 2,
			Baseline: baseline,
		}},
	}
}

// selectionNodes draws the selection outline and its transform handles.
func (e *Editor) selectionNodes() []*scene.Node {
	var nodes []*scene.Node
	sel := selectionColor
	for i := range e.Page().Elements {
		el := &e.Page().Elements[i]
		if !e.isSelected(el.ID) {
			continue
		}
		x, y, w, h := el.Bounds()
		nodes = append(nodes, &scene.Node{
			Kind:  scene.KindRect,
			Tag:   scene.TagEditing,
			X:     x,
			Y:     y,
			W:     w,
			H:     h,
			Style: scene.Style{Stroke: &sel, StrokeWidth: 1},
		})
		for _, hx := range []float64{x, x + w/2, x + w} {
			for _, hy := range []float64{y, y + h/2, y + h} {
				if hx == x+w/2 && hy == y+h/2 {
					continue // no center handle
				}
				nodes = append(nodes, &scene.Node{
					Kind:  scene.KindRect,
					Tag:   scene.TagEditing,
					X:     hx - handleSize/2,
					Y:     hy - handleSize/2,
					W:     handleSize,
					H:     handleSize,
					Style: scene.Style{Fill: &sel},
				})
			}
		}
	}
	return nodes
}

// interactionNode renders the in-progress interaction: the marquee while
// selecting, or the tool-specific drawing preview.
func (e *Editor) interactionNode() *scene.Node {
	prev := previewColor
	switch e.state {
	case StateSelecting:
		x0, y0 := math.Min(e.startX, e.curX), math.Min(e.startY, e.curY)
		return &scene.Node{
			Kind:  scene.KindRect,
			Tag:   scene.TagEditing,
			X:     x0,
			Y:     y0,
			W:     math.Abs(e.curX - e.startX),
			H:     math.Abs(e.curY - e.startY),
			Style: scene.Style{Stroke: &prev, StrokeWidth: 1},
		}
	case StateDrawing:
		switch e.tool {
		case ToolRect, ToolText:
			x0, y0 := math.Min(e.startX, e.curX), math.Min(e.startY, e.curY)
			return &scene.Node{
				Kind:  scene.KindRect,
				Tag:   scene.TagEditing,
				X:     x0,
				Y:     y0,
				W:     math.Abs(e.curX - e.startX),
				H:     math.Abs(e.curY - e.startY),
				Style: scene.Style{Stroke: &prev, StrokeWidth: 1},
			}
		case ToolCircle:
			x0, y0 := math.Min(e.startX, e.curX), math.Min(e.startY, e.curY)
			return &scene.Node{
				Kind:  scene.KindEllipse,
				Tag:   scene.TagEditing,
				X:     x0,
				Y:     y0,
				W:     math.Abs(e.curX - e.startX),
				H:     math.Abs(e.curY - e.startY),
				Style: scene.Style{Stroke: &prev, StrokeWidth: 1},
			}
		case ToolLine:
			return &scene.Node{
				Kind:   scene.KindLine,
				Tag:    scene.TagEditing,
				X:      e.startX,
				Y:      e.startY,
				Points: []scene.Point{{X: 0, Y: 0}, {X: e.curX - e.startX, Y: e.curY - e.startY}},
				Style:  scene.Style{Stroke: &prev, StrokeWidth: 1},
			}
		case ToolBrush:
			if len(e.drawPoints) < 4 {
				return nil
			}
			pts := make([]scene.Point, 0, len(e.drawPoints)/2)
			for i := 0; i+1 < len(e.drawPoints); i += 2 {
				pts = append(pts, scene.Point{X: e.drawPoints[i], Y: e.drawPoints[i+1]})
			}
			return &scene.Node{
				Kind:   scene.KindPath,
				Tag:    scene.TagEditing,
				X:      e.startX,
				Y:      e.startY,
				Points: pts,
				Style:  scene.Style{Stroke: &prev, StrokeWidth: 2},
			}
		}
	}
	return nil
}
