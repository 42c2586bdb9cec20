package raster

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/pillepelle-123/bookpress/book"
	"github.com/pillepelle-123/bookpress/layout"
	"github.com/pillepelle-123/bookpress/scene"
	"github.com/pillepelle-123/bookpress/theme"
)

func testFaces(t *testing.T) *layout.Faces {
	t.Helper()
	faces, err := layout.NewFaces()
	if err != nil {
		t.Fatalf("NewFaces failed: %v", err)
	}
	return faces
}

func buildTestScene(t *testing.T, pg book.Page) *scene.Node {
	t.Helper()
	bk := &book.Book{
		ID:          "b1",
		PageSize:    book.PageSizeA5,
		Orientation: book.OrientationPortrait,
		Pages:       []book.Page{pg},
	}
	root, err := scene.Build(&bk.Pages[0], bk, theme.NewRegistry(), testFaces(t))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return root
}

func TestRenderFilledRect(t *testing.T) {
	root := buildTestScene(t, book.Page{
		Elements: []book.Element{{
			ID: "r", Type: book.ElementRect,
			X: 50, Y: 50, Width: 100, Height: 100,
			Fill: "#ff0000",
		}},
	})

	img, err := RenderImage(root, testFaces(t))
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}

	got := img.RGBAAt(100, 100)
	if got.R < 200 || got.G > 50 || got.B > 50 {
		t.Fatalf("center of red rect = %+v", got)
	}
	// Outside the rect is the white default background.
	bg := img.RGBAAt(10, 10)
	if bg.R < 250 || bg.G < 250 || bg.B < 250 {
		t.Fatalf("background pixel = %+v, want white", bg)
	}
}

func TestRenderStrokedUnfilledRect(t *testing.T) {
	w := 2.0
	root := buildTestScene(t, book.Page{
		Elements: []book.Element{{
			ID: "r", Type: book.ElementRect,
			X: 50, Y: 50, Width: 100, Height: 80,
			Fill: "transparent", Stroke: "#1f2937", StrokeWidth: &w,
		}},
	})

	img, err := RenderImage(root, testFaces(t))
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}

	// Interior stays white, border is dark.
	interior := img.RGBAAt(100, 90)
	if interior.R < 250 {
		t.Fatalf("interior should be unfilled, got %+v", interior)
	}
	edge := img.RGBAAt(100, 50)
	if edge.R > 100 && edge.G > 100 {
		t.Fatalf("top edge should be stroked, got %+v", edge)
	}
}

func TestRenderDeterministicForSketchyScene(t *testing.T) {
	pg := book.Page{
		Theme: "sketchy",
		Elements: []book.Element{{
			ID: "s", Type: book.ElementRect,
			X: 30, Y: 30, Width: 150, Height: 90,
		}},
	}

	a, err := RenderImage(buildTestScene(t, pg), testFaces(t))
	if err != nil {
		t.Fatalf("render a: %v", err)
	}
	b, err := RenderImage(buildTestScene(t, pg), testFaces(t))
	if err != nil {
		t.Fatalf("render b: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("two renders of the same sketchy page must be pixel-identical")
	}
}

func TestRenderPatternBackgroundNonEmpty(t *testing.T) {
	root := buildTestScene(t, book.Page{
		Background: &book.Background{
			Type:    book.BackgroundPattern,
			Pattern: &book.PatternSpec{Kind: book.PatternGrid, Color: "#333333"},
		},
	})

	img, err := RenderImage(root, testFaces(t))
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}

	// A grid pattern must produce non-background pixels somewhere.
	marked := 0
	for y := 0; y < img.Bounds().Dy(); y += 3 {
		for x := 0; x < img.Bounds().Dx(); x += 3 {
			c := img.RGBAAt(x, y)
			if c.A > 0 && c.R < 100 {
				marked++
			}
		}
	}
	if marked == 0 {
		t.Fatal("pattern background rendered blank")
	}
}

func TestRenderPatternBackgroundHonorsOpacity(t *testing.T) {
	patternPage := func(opacity float64) book.Page {
		return book.Page{
			Background: &book.Background{
				Type:    book.BackgroundPattern,
				Opacity: &opacity,
				Pattern: &book.PatternSpec{Kind: book.PatternGrid, Color: "#333333"},
			},
		}
	}

	opaque, err := RenderImage(buildTestScene(t, patternPage(1)), testFaces(t))
	if err != nil {
		t.Fatalf("render opaque: %v", err)
	}
	faint, err := RenderImage(buildTestScene(t, patternPage(0.1)), testFaces(t))
	if err != nil {
		t.Fatalf("render faint: %v", err)
	}

	if bytes.Equal(opaque.Pix, faint.Pix) {
		t.Fatal("pattern background ignores its opacity")
	}
	// Wherever the opaque render has full-strength grid ink, the faint
	// render must be lighter.
	lighter := 0
	for i := 0; i+3 < len(opaque.Pix); i += 4 {
		if opaque.Pix[i] < 100 && faint.Pix[i] > opaque.Pix[i] {
			lighter++
		}
	}
	if lighter == 0 {
		t.Fatal("faint pattern should render lighter than the opaque one")
	}
}

func TestPatternTileKinds(t *testing.T) {
	for _, kind := range []book.PatternKind{
		book.PatternDots, book.PatternGrid, book.PatternLines, book.PatternCrosshatch, "bogus",
	} {
		tile := PatternTile(&book.PatternSpec{Kind: kind, Color: "#000000"})
		if tile.Bounds().Dx() == 0 {
			t.Fatalf("kind %q produced empty tile", kind)
		}
		inked := false
		b := tile.Bounds()
		for y := b.Min.Y; y < b.Max.Y && !inked; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if _, _, _, a := tile.At(x, y).RGBA(); a > 0 {
					inked = true
					break
				}
			}
		}
		if !inked {
			t.Fatalf("kind %q produced blank tile", kind)
		}
	}
}

func TestPatternTileScale(t *testing.T) {
	small := PatternTile(&book.PatternSpec{Kind: book.PatternDots, Scale: 1})
	large := PatternTile(&book.PatternSpec{Kind: book.PatternDots, Scale: 2})
	if large.Bounds().Dx() <= small.Bounds().Dx() {
		t.Fatal("scale should grow the tile")
	}
}

func TestRenderTextRuns(t *testing.T) {
	root := buildTestScene(t, book.Page{
		Elements: []book.Element{{
			ID: "t", Type: book.ElementText,
			X: 20, Y: 20, Width: 300, Height: 100,
			Text: "Hello",
			Font: &book.FontSpec{Color: "#000000", Size: 32},
		}},
	})

	img, err := RenderImage(root, testFaces(t))
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}

	dark := 0
	for y := 20; y < 120; y++ {
		for x := 20; x < 320; x++ {
			c := img.RGBAAt(x, y)
			if c.R < 100 && c.G < 100 && c.B < 100 {
				dark++
			}
		}
	}
	if dark < 20 {
		t.Fatalf("expected text glyph pixels, found %d dark pixels", dark)
	}
}

func TestRenderQRCode(t *testing.T) {
	bk := book.Page{
		Elements: []book.Element{{
			ID: "qr", Type: book.ElementQRCode,
			X: 10, Y: 10, Width: 120, Height: 120,
			ShareURL: "https://example.com/b/1",
		}},
	}
	img, err := RenderImage(buildTestScene(t, bk), testFaces(t))
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}

	black, white := 0, 0
	for y := 10; y < 130; y++ {
		for x := 10; x < 130; x++ {
			c := img.RGBAAt(x, y)
			if c.R < 50 {
				black++
			} else if c.R > 200 {
				white++
			}
		}
	}
	if black == 0 || white == 0 {
		t.Fatalf("QR area should contain both dark and light modules (black=%d white=%d)", black, white)
	}
}

func TestWithAlpha(t *testing.T) {
	c := color.RGBA{R: 10, G: 20, B: 30, A: 200}
	if got := withAlpha(c, 1); got != c {
		t.Fatalf("opacity 1 should be identity, got %+v", got)
	}
	got := withAlpha(c, 0.5)
	if got.A != 100 {
		t.Fatalf("alpha = %d, want 100", got.A)
	}
}

func TestRenderImageRejectsBadRatio(t *testing.T) {
	root := &scene.Node{Kind: scene.KindGroup, W: 10, H: 10}
	if _, err := RenderImageRatio(root, testFaces(t), 0); err == nil {
		t.Fatal("expected error for zero pixel ratio")
	}
}
