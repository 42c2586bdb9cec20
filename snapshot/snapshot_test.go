package snapshot

import (
	"image/color"
	"testing"

	"github.com/pillepelle-123/bookpress/book"
	"github.com/pillepelle-123/bookpress/scene"
)

var (
	testBlack = color.RGBA{A: 0xff}
	testBlue  = color.RGBA{B: 0xff, A: 0xff}
)

// liveTestScene builds a scene shaped like the editing surface produces:
// a viewport-offset root holding the page scene plus editing chrome, with
// the background deliberately out of order.
func liveTestScene() *scene.Node {
	black, blue := testBlack, testBlue

	shape := &scene.Node{
		Kind:      scene.KindGroup,
		ElementID: "r1",
		X:         10, Y: 10, W: 50, H: 50,
		Children: []*scene.Node{
			{Kind: scene.KindRect, W: 50, H: 50, Style: scene.Style{Stroke: &black, StrokeWidth: 2}},
		},
	}
	textBlock := &scene.Node{
		Kind:      scene.KindGroup,
		ElementID: "t1",
		X:         100, Y: 100, W: 120, H: 60,
		Children: []*scene.Node{
			{Kind: scene.KindRect, W: 120, H: 60, Style: scene.Style{Stroke: &black, StrokeWidth: 1}},
			{Kind: scene.KindText, W: 120, H: 60, Style: scene.Style{Fill: &black}, FontFamily: "regular", FontSize: 16},
			{
				Kind: scene.KindLine, Tag: scene.TagDecoration,
				Points: []scene.Point{{X: 0, Y: 30}, {X: 120, Y: 30}},
				Style:  scene.Style{Stroke: &black, StrokeWidth: 1},
			},
		},
	}
	background := &scene.Node{
		Kind: scene.KindPattern,
		Tag:  scene.TagBackground,
		W:    794, H: 1123,
		Pattern: &book.PatternSpec{Kind: book.PatternDots, Color: "#333333", Scale: 1},
	}
	page := &scene.Node{
		Kind: scene.KindGroup,
		W:    794, H: 1123,
		// background intentionally after content
		Children: []*scene.Node{shape, textBlock, background},
	}

	root := &scene.Node{Kind: scene.KindGroup, X: 40, Y: 40, W: 794, H: 1123}
	root.Children = append(root.Children, page)
	root.Children = append(root.Children,
		&scene.Node{Kind: scene.KindRect, Tag: scene.TagEditing, X: 10, Y: 10, W: 50, H: 50, Style: scene.Style{Stroke: &blue, StrokeWidth: 1}},
		&scene.Node{Kind: scene.KindPath, Tag: scene.TagEditing | scene.TagPlaceholder, Points: []scene.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}, Style: scene.Style{Stroke: &blue, StrokeWidth: 1}},
	)
	return root
}

func TestTransformStripsEditingNodes(t *testing.T) {
	out, err := Transform(liveTestScene(), scene.Point{X: 40, Y: 40}, 794, 794, DefaultCalibration)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	out.Walk(func(n *scene.Node) bool {
		if n.Tag.Has(scene.TagEditing) || n.Tag.Has(scene.TagPlaceholder) {
			t.Fatalf("editing node survived transform: %+v", n)
		}
		return true
	})
}

func TestTransformReanchorsToOrigin(t *testing.T) {
	out, err := Transform(liveTestScene(), scene.Point{X: 40, Y: 40}, 794, 794, DefaultCalibration)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out.X != 0 || out.Y != 0 {
		t.Fatalf("export scene anchored at (%v,%v), want origin", out.X, out.Y)
	}
}

func TestTransformRegeneratesPatternTiles(t *testing.T) {
	live := liveTestScene()
	out, err := Transform(live, scene.Point{X: 40, Y: 40}, 794, 794, DefaultCalibration)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	found := false
	out.Walk(func(n *scene.Node) bool {
		if n.Kind == scene.KindPattern {
			found = true
			if n.PatternTile == nil {
				t.Fatal("pattern tile was not regenerated")
			}
			b := n.PatternTile.Bounds()
			if b.Dx() == 0 || b.Dy() == 0 {
				t.Fatal("regenerated pattern tile is empty")
			}
		}
		return true
	})
	if !found {
		t.Fatal("pattern background missing from export scene")
	}
}

func TestTransformReordersBackgroundFirst(t *testing.T) {
	out, err := Transform(liveTestScene(), scene.Point{X: 40, Y: 40}, 794, 794, DefaultCalibration)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	page := out.Children[0]
	if len(page.Children) == 0 || !page.Children[0].Tag.Has(scene.TagBackground) {
		t.Fatal("background must be the first child after transform")
	}
}

func TestTransformCompensatesStrokes(t *testing.T) {
	// Raster at 794px, final render at 595px: strokes must gain
	// 794/595 of their width to hold visual weight through downsampling.
	out, err := Transform(liveTestScene(), scene.Point{X: 40, Y: 40}, 794, 595, DefaultCalibration)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	comp := 794.0 / 595.0

	var shape, border, ruled *scene.Node
	out.Walk(func(n *scene.Node) bool {
		switch {
		case n.ElementID == "r1":
			shape = n.Children[0]
		case n.ElementID == "t1":
			border = n.Children[0]
			for _, ch := range n.Children {
				if ch.Tag.Has(scene.TagDecoration) {
					ruled = ch
				}
			}
		}
		return true
	})
	if shape == nil || border == nil || ruled == nil {
		t.Fatal("test scene nodes missing after transform")
	}
	if got, want := shape.Style.StrokeWidth, 2*comp*DefaultCalibration.Shape; !almostEqual(got, want) {
		t.Fatalf("shape stroke = %v, want %v", got, want)
	}
	if got, want := border.Style.StrokeWidth, 1*comp*DefaultCalibration.Border; !almostEqual(got, want) {
		t.Fatalf("border stroke = %v, want %v", got, want)
	}
	if ruled.Style.StrokeWidth != 1 {
		t.Fatalf("ruled line stroke = %v, must stay exempt", ruled.Style.StrokeWidth)
	}
}

func TestTransformNoCompensationAtMatchingSizes(t *testing.T) {
	out, err := Transform(liveTestScene(), scene.Point{X: 40, Y: 40}, 2480, 2480, DefaultCalibration)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	out.Walk(func(n *scene.Node) bool {
		if n.ElementID == "r1" {
			if n.Children[0].Style.StrokeWidth != 2 {
				t.Fatalf("stroke changed without a size mismatch: %v", n.Children[0].Style.StrokeWidth)
			}
		}
		return true
	})
}

func TestTransformDoesNotMutateLiveScene(t *testing.T) {
	live := liveTestScene()
	before := countNodes(live)
	if _, err := Transform(live, scene.Point{X: 40, Y: 40}, 794, 595, DefaultCalibration); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if got := countNodes(live); got != before {
		t.Fatalf("live scene mutated: %d nodes, had %d", got, before)
	}
	if live.X != 40 {
		t.Fatal("live scene anchor mutated")
	}
	live.Walk(func(n *scene.Node) bool {
		if n.ElementID == "r1" && n.Children[0].Style.StrokeWidth != 2 {
			t.Fatal("live scene stroke mutated")
		}
		return true
	})
}

func TestTransformNilScene(t *testing.T) {
	if _, err := Transform(nil, scene.Point{}, 794, 794, DefaultCalibration); err == nil {
		t.Fatal("expected error for nil scene")
	}
}

func countNodes(root *scene.Node) int {
	n := 0
	root.Walk(func(*scene.Node) bool { n++; return true })
	return n
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
