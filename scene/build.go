package scene

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/pillepelle-123/bookpress/book"
	"github.com/pillepelle-123/bookpress/layout"
	"github.com/pillepelle-123/bookpress/theme"
)

// Build turns a page into its scene graph. Node order is strict: background
// nodes first, then one composite group per element in z-order. Inside a
// composite the order is background fill, border/stroke, content; ruled
// lines and other decorations are children of their owning composite so
// their z-order relative to other elements is preserved automatically.
func Build(pg *book.Page, bk *book.Book, reg *theme.Registry, faces *layout.Faces) (*Node, error) {
	if reg == nil {
		return nil, fmt.Errorf("scene: nil theme registry")
	}
	if faces == nil {
		return nil, fmt.Errorf("scene: nil font faces")
	}

	cw, ch := book.CanvasSize(bk.PageSize, bk.Orientation)
	root := &Node{Kind: KindGroup, W: float64(cw), H: float64(ch)}

	root.Children = append(root.Children, buildBackground(pg, bk, reg, float64(cw), float64(ch)))

	// Stable z-order: explicit z index wins, sequence order breaks ties.
	type zEntry struct {
		el  *book.Element
		z   int
		seq int
	}
	entries := make([]zEntry, len(pg.Elements))
	for i := range pg.Elements {
		el := &pg.Elements[i]
		entries[i] = zEntry{el: el, z: el.ZIndex(i), seq: i}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].z < entries[j].z })

	for _, e := range entries {
		grp, err := buildElement(e.el, pg, bk, reg, faces)
		if err != nil {
			return nil, fmt.Errorf("scene: element %s: %w", e.el.ID, err)
		}
		root.Children = append(root.Children, grp)
	}
	return root, nil
}

// buildBackground produces the single background node for a page. Pages
// without an explicit background get an opaque white fill so rasters never
// show surface garbage.
func buildBackground(pg *book.Page, bk *book.Book, reg *theme.Registry, w, h float64) *Node {
	bg := pg.Background
	if bg == nil {
		white := mustColor("#ffffff")
		return &Node{Kind: KindRect, Tag: TagBackground, W: w, H: h, Style: Style{Fill: &white}}
	}

	n := &Node{Tag: TagBackground, W: w, H: h, Style: Style{Opacity: bg.OpacityValue()}}
	switch bg.Type {
	case book.BackgroundColor:
		c, ok, err := book.ParseColor(bg.Color)
		if err != nil || !ok {
			c = mustColor("#ffffff")
		}
		n.Kind = KindRect
		n.Style.Fill = &c
	case book.BackgroundImage:
		n.Kind = KindImage
		n.Src = bg.Src
	case book.BackgroundPattern:
		n.Kind = KindPattern
		spec := *bg.Pattern
		if spec.Color == "" {
			pal := reg.PaletteFor(pg, bk)
			if c, ok := pal.Color("accent"); ok {
				spec.Color = book.FormatColor(c)
			}
		}
		if spec.Scale <= 0 {
			spec.Scale = 1
		}
		if spec.StrokeWidth <= 0 {
			spec.StrokeWidth = 1
		}
		n.Pattern = &spec
	}
	return n
}

// buildElement produces the composite group for one element.
func buildElement(el *book.Element, pg *book.Page, bk *book.Book, reg *theme.Registry, faces *layout.Faces) (*Node, error) {
	style := reg.Resolve(el, pg, bk)

	grp := &Node{
		Kind:      KindGroup,
		ElementID: el.ID,
		X:         el.X,
		Y:         el.Y,
		W:         el.Width,
		H:         el.Height,
		Rotation:  el.Rotation,
		Style:     Style{Opacity: el.OpacityValue()},
	}

	switch el.Type {
	case book.ElementRect:
		appendFill(grp, KindRect, style)
		appendOutline(grp, RectOutline(el.Width, el.Height), KindRect, style)

	case book.ElementCircle:
		appendFill(grp, KindEllipse, style)
		appendOutline(grp, EllipseOutline(el.Width, el.Height), KindEllipse, style)

	case book.ElementLine:
		pts := pairPoints(el.Points)
		if len(pts) < 2 {
			pts = []Point{{0, 0}, {el.Width, el.Height}}
		}
		appendStrokePath(grp, pts, style)

	case book.ElementBrush:
		pts := pairPoints(el.Points)
		if len(pts) < 2 {
			break
		}
		appendStrokePath(grp, pts, style)

	case book.ElementImage:
		if el.Src != "" {
			grp.Children = append(grp.Children, &Node{
				Kind: KindImage,
				W:    el.Width,
				H:    el.Height,
				Src:  el.Src,
			})
		}

	case book.ElementText, book.ElementQuestion, book.ElementAnswer:
		buildTextBlock(grp, el, style, faces)

	case book.ElementQnA:
		buildQnABlock(grp, el, style, faces)

	case book.ElementQRCode:
		content := el.ShareURL
		if content == "" {
			content = bk.ShareURL
		}
		if content != "" {
			grp.Children = append(grp.Children, &Node{
				Kind:      KindQR,
				W:         el.Width,
				H:         el.Height,
				QRContent: content,
			})
		}

	default:
		return nil, fmt.Errorf("unknown element type %q", el.Type)
	}

	return grp, nil
}

// appendFill adds the background-fill node of a shape composite.
func appendFill(grp *Node, kind Kind, style theme.ResolvedStyle) {
	if !style.HasFill {
		return
	}
	fill := style.Fill
	grp.Children = append(grp.Children, &Node{
		Kind:  kind,
		W:     grp.W,
		H:     grp.H,
		Style: Style{Fill: &fill},
	})
}

// appendOutline adds the border/stroke node of a shape composite, as a
// sketch path when the theme asks for hand-drawn strokes.
func appendOutline(grp *Node, outline []Point, kind Kind, style theme.ResolvedStyle) {
	if !style.HasStroke || style.StrokeWidth <= 0 {
		return
	}
	stroke := style.Stroke
	if style.Sketchy() {
		grp.Children = append(grp.Children, &Node{
			Kind:   KindPath,
			Points: SketchStroke(outline, style.Roughness, style.SketchSeed),
			Style:  Style{Stroke: &stroke, StrokeWidth: style.StrokeWidth},
		})
		return
	}
	grp.Children = append(grp.Children, &Node{
		Kind:  kind,
		W:     grp.W,
		H:     grp.H,
		Style: Style{Stroke: &stroke, StrokeWidth: style.StrokeWidth},
	})
}

// appendStrokePath adds a polyline stroke node (lines, freehand paths).
func appendStrokePath(grp *Node, pts []Point, style theme.ResolvedStyle) {
	if !style.HasStroke || style.StrokeWidth <= 0 {
		return
	}
	stroke := style.Stroke
	if style.Sketchy() {
		pts = SketchStroke(pts, style.Roughness, style.SketchSeed)
	}
	grp.Children = append(grp.Children, &Node{
		Kind:   KindPath,
		Points: pts,
		Style:  Style{Stroke: &stroke, StrokeWidth: style.StrokeWidth},
	})
}

// buildTextBlock lays out a plain text, question or answer block and
// attaches its ruled lines as decoration children.
func buildTextBlock(grp *Node, el *book.Element, style theme.ResolvedStyle, faces *layout.Faces) {
	text := el.Text
	if el.Type == book.ElementQuestion && text == "" {
		text = el.Question
	}

	contentW := el.Width - 2*layout.TextPadding
	contentH := el.Height - 2*layout.TextPadding
	face := faces.Face(style.FontFamily, style.FontSize)

	tl := layout.LayoutText(text, face, contentW, contentH, style.LineHeight)
	if style.RuledLines {
		tl = tl.WithRuledLines()
	}
	grp.Overflow = tl.Overflow

	appendFill(grp, KindRect, style)
	appendRuledLines(grp, tl.RuledLines, layout.TextPadding, contentW, style)

	textColor := style.TextColor
	grp.Children = append(grp.Children, &Node{
		Kind:       KindText,
		X:          layout.TextPadding,
		Y:          layout.TextPadding,
		W:          contentW,
		H:          contentH,
		Runs:       tl.Runs,
		FontFamily: style.FontFamily,
		FontSize:   style.FontSize,
		Style:      Style{Fill: &textColor},
	})
}

// buildQnABlock lays out an inline question/answer element: bold question,
// regular answer below, ruled lines under the answer runs.
func buildQnABlock(grp *Node, el *book.Element, style theme.ResolvedStyle, faces *layout.Faces) {
	contentW := el.Width - 2*layout.TextPadding
	contentH := el.Height - 2*layout.TextPadding

	qSize := style.FontSize + 2
	qFace := faces.Face(layout.FamilyBold, qSize)
	aFace := faces.Face(style.FontFamily, style.FontSize)

	ql := layout.LayoutQnA(el.Question, el.Answer, qFace, aFace,
		contentW, contentH, qSize*1.4, style.LineHeight)
	grp.Overflow = ql.Overflow

	appendFill(grp, KindRect, style)

	// Ruled lines belong to the answer area.
	answerLines := make([]float64, len(ql.Answer.RuledLines))
	for i, y := range ql.Answer.RuledLines {
		answerLines[i] = y + ql.AnswerY
	}
	appendRuledLines(grp, answerLines, layout.TextPadding, contentW, style)

	textColor := style.TextColor
	grp.Children = append(grp.Children, &Node{
		Kind:       KindText,
		X:          layout.TextPadding,
		Y:          layout.TextPadding,
		W:          contentW,
		H:          contentH,
		Runs:       ql.Question.Runs,
		FontFamily: layout.FamilyBold,
		FontSize:   qSize,
		Style:      Style{Fill: &textColor},
	})
	grp.Children = append(grp.Children, &Node{
		Kind:       KindText,
		X:          layout.TextPadding,
		Y:          layout.TextPadding + ql.AnswerY,
		W:          contentW,
		H:          contentH - ql.AnswerY,
		Runs:       ql.Answer.Runs,
		FontFamily: style.FontFamily,
		FontSize:   style.FontSize,
		Style:      Style{Fill: &textColor},
	})
}

// appendRuledLines attaches decoration line nodes inside the owning
// composite. They carry TagDecoration, which is what exempts them from
// export stroke-width compensation.
func appendRuledLines(grp *Node, ys []float64, x, w float64, style theme.ResolvedStyle) {
	if len(ys) == 0 {
		return
	}
	c := style.RuledLineColor
	width := style.RuledLineWidth
	if width <= 0 {
		width = 1
	}
	for _, y := range ys {
		grp.Children = append(grp.Children, &Node{
			Kind:   KindLine,
			Tag:    TagDecoration,
			X:      x,
			Y:      layout.TextPadding + y,
			Points: []Point{{0, 0}, {w, 0}},
			Style:  Style{Stroke: &c, StrokeWidth: width},
		})
	}
}

// pairPoints converts a flat x,y list into points, dropping a dangling
// coordinate.
func pairPoints(flat []float64) []Point {
	pts := make([]Point, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		pts = append(pts, Point{X: flat[i], Y: flat[i+1]})
	}
	return pts
}

func mustColor(s string) color.RGBA {
	c, _, _ := book.ParseColor(s)
	return c
}
