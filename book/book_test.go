package book

import (
	"math"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestParseMinimalBook(t *testing.T) {
	data := []byte(`{
		"id": "b1",
		"pageSize": "A4",
		"orientation": "portrait",
		"pages": [{
			"id": "p1",
			"elements": [
				{"id": "e1", "type": "rect", "x": 10, "y": 20, "width": 100, "height": 50}
			]
		}]
	}`)

	b, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if b.NumPages() != 1 {
		t.Fatalf("expected 1 page, got %d", b.NumPages())
	}
	p, err := b.Page(1)
	if err != nil {
		t.Fatalf("Page(1) failed: %v", err)
	}
	if len(p.Elements) != 1 || p.Elements[0].Type != ElementRect {
		t.Fatalf("unexpected elements: %+v", p.Elements)
	}
}

func TestParseRejectsUnknownElementType(t *testing.T) {
	data := []byte(`{"id":"b1","pages":[{"elements":[{"id":"e1","type":"blob"}]}]}`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for unknown element type")
	}
}

func TestParseRejectsDuplicateElementIDs(t *testing.T) {
	data := []byte(`{"id":"b1","pages":[
		{"elements":[{"id":"e1","type":"rect"}]},
		{"elements":[{"id":"e1","type":"circle"}]}
	]}`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for duplicate element id")
	}
}

func TestValidatePatternBackground(t *testing.T) {
	b := &Book{ID: "b", Pages: []Page{{
		Background: &Background{Type: BackgroundPattern},
	}}}
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for pattern background without spec")
	}

	b.Pages[0].Background.Pattern = &PatternSpec{Kind: PatternDots}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid pattern background rejected: %v", err)
	}
}

func TestPageSizeDimensions(t *testing.T) {
	tests := []struct {
		size   PageSize
		orient Orientation
		wantW  float64
		wantH  float64
	}{
		{PageSizeA4, OrientationPortrait, 210, 297},
		{PageSizeA4, OrientationLandscape, 297, 210},
		{PageSizeA5, OrientationPortrait, 148, 210},
		{PageSizeLetter, OrientationPortrait, 215.9, 279.4},
		{PageSizeSquare, OrientationLandscape, 210, 210},
		{"bogus", OrientationPortrait, 210, 297}, // falls back to A4
	}
	for _, tt := range tests {
		w, h := SizeMM(tt.size, tt.orient)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("SizeMM(%s, %s) = %v x %v, want %v x %v",
				tt.size, tt.orient, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestSizePointsRoundTripsThroughMM(t *testing.T) {
	wPt, hPt := SizePoints(PageSizeA4, OrientationPortrait)
	wMM := wPt * MMPerPoint
	hMM := hPt * MMPerPoint
	if math.Abs(wMM-210) > 0.01 || math.Abs(hMM-297) > 0.01 {
		t.Fatalf("A4 points %v x %v convert to %v x %v mm", wPt, hPt, wMM, hMM)
	}
}

func TestCanvasSizeA4(t *testing.T) {
	w, h := CanvasSize(PageSizeA4, OrientationPortrait)
	// 210mm at 96dpi = 793.7, 297mm = 1122.5
	if w != 794 || h != 1123 {
		t.Fatalf("A4 canvas = %dx%d, want 794x1123", w, h)
	}
}

func TestElementBoundsBrushUsesPointExtents(t *testing.T) {
	e := Element{
		Type:   ElementBrush,
		X:      100,
		Y:      200,
		Points: []float64{0, 0, 50, -10, 30, 40},
	}
	x, y, w, h := e.Bounds()
	if x != 100 || y != 190 || w != 50 || h != 50 {
		t.Fatalf("brush bounds = (%v,%v,%v,%v), want (100,190,50,50)", x, y, w, h)
	}
}

func TestElementZIndex(t *testing.T) {
	e := Element{}
	if e.ZIndex(3) != 3 {
		t.Fatal("implicit z should be sequence order")
	}
	e.Z = intPtr(10)
	if e.ZIndex(3) != 10 {
		t.Fatal("explicit z should override sequence order")
	}
}

func TestOpacityClamped(t *testing.T) {
	e := Element{Opacity: floatPtr(1.5)}
	if e.OpacityValue() != 1 {
		t.Fatal("opacity should clamp to 1")
	}
	e.Opacity = floatPtr(-1)
	if e.OpacityValue() != 0 {
		t.Fatal("opacity should clamp to 0")
	}
	e.Opacity = nil
	if e.OpacityValue() != 1 {
		t.Fatal("nil opacity should default to 1")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
		wantR  uint8
		wantA  uint8
	}{
		{"#1f2937", true, 0x1f, 0xff},
		{"#F00", true, 0xff, 0xff},
		{"#ff000080", true, 0xff, 0x80},
		{"transparent", false, 0, 0},
		{"", false, 0, 0},
	}
	for _, tt := range tests {
		c, ok, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q) failed: %v", tt.in, err)
			continue
		}
		if ok != tt.wantOK {
			t.Errorf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
		}
		if ok && (c.R != tt.wantR || c.A != tt.wantA) {
			t.Errorf("ParseColor(%q) = %+v", tt.in, c)
		}
	}

	if _, _, err := ParseColor("red"); err == nil {
		t.Fatal("expected error for non-hex color")
	}
	if _, _, err := ParseColor("#12345"); err == nil {
		t.Fatal("expected error for bad hex length")
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	for _, s := range []string{"#1f2937", "#ff000080"} {
		c, _, err := ParseColor(s)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatColor(c); got != s {
			t.Fatalf("FormatColor(ParseColor(%q)) = %q", s, got)
		}
	}
}
