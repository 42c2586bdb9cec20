package theme

import (
	"reflect"
	"testing"

	"github.com/pillepelle-123/bookpress/book"
)

func TestResolveIsDeterministic(t *testing.T) {
	reg := NewRegistry()
	bk := &book.Book{Theme: "sketchy", Palette: "warm"}
	pg := &book.Page{}
	el := &book.Element{ID: "e1", Type: book.ElementRect}

	a := reg.Resolve(el, pg, bk)
	b := reg.Resolve(el, pg, bk)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("Resolve is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestResolveUnknownThemeFallsBack(t *testing.T) {
	reg := NewRegistry()
	bk := &book.Book{Theme: "no-such-theme", Palette: "no-such-palette"}
	el := &book.Element{ID: "e1", Type: book.ElementRect}

	got := reg.Resolve(el, &book.Page{}, bk)
	want := reg.Resolve(el, &book.Page{}, &book.Book{})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unknown theme/palette should resolve like the defaults:\n%+v\n%+v", got, want)
	}
}

func TestNewRegistryWithMergesOverBuiltins(t *testing.T) {
	custom := Theme{Name: "brand", Default: VariantStyle{
		Stroke:      "@primary",
		StrokeWidth: 4,
		FontFamily:  "bold",
		FontSize:    20,
		LineHeight:  1.2,
		TextColor:   "@text",
	}}
	pal := Palette{Name: "brand", Roles: map[string]string{
		"primary": "#102030",
		"accent":  "#405060",
		"text":    "#000000",
	}}
	reg := NewRegistryWith("brand-v2", []Theme{custom}, []Palette{pal})

	if reg.Version() != "brand-v2" {
		t.Fatalf("Version() = %q", reg.Version())
	}
	el := &book.Element{ID: "e1", Type: book.ElementRect}
	got := reg.Resolve(el, &book.Page{}, &book.Book{Theme: "brand", Palette: "brand"})
	if got.StrokeWidth != 4 || got.FontFamily != "bold" {
		t.Fatalf("custom theme not resolved: %+v", got)
	}
	if book.FormatColor(got.Stroke) != "#102030" {
		t.Fatalf("custom palette not resolved: %s", book.FormatColor(got.Stroke))
	}
	// Built-ins stay available underneath the custom tables.
	got = reg.Resolve(el, &book.Page{}, &book.Book{Theme: "sketchy"})
	if !got.Sketchy() {
		t.Fatal("built-in themes should survive the merge")
	}
}

func TestResolveOrderElementOverPageOverBook(t *testing.T) {
	reg := NewRegistry()
	bk := &book.Book{Theme: "minimal"}
	pg := &book.Page{Theme: "sketchy"}
	el := &book.Element{ID: "e1", Type: book.ElementRect}

	// Page theme wins over book theme.
	got := reg.Resolve(el, pg, bk)
	if got.Roughness == 0 {
		t.Fatal("page theme 'sketchy' should win over book theme 'minimal'")
	}

	// Element override wins over page theme.
	w := 7.5
	el.StrokeWidth = &w
	got = reg.Resolve(el, pg, bk)
	if got.StrokeWidth != 7.5 {
		t.Fatalf("element stroke width override ignored: %v", got.StrokeWidth)
	}
}

func TestResolvePaletteRole(t *testing.T) {
	reg := NewRegistry()
	el := &book.Element{ID: "e1", Type: book.ElementRect, PaletteRole: "accent"}
	got := reg.Resolve(el, &book.Page{}, &book.Book{Palette: "ocean"})
	if !got.HasFill {
		t.Fatal("palette role should produce a fill")
	}
	if book.FormatColor(got.Fill) != "#06b6d4" {
		t.Fatalf("accent role in ocean palette = %s", book.FormatColor(got.Fill))
	}
}

func TestResolveUnknownRoleDegradesToNoFill(t *testing.T) {
	reg := NewRegistry()
	el := &book.Element{ID: "e1", Type: book.ElementRect, PaletteRole: "chartreuse"}
	got := reg.Resolve(el, &book.Page{}, &book.Book{})
	if got.HasFill {
		t.Fatal("unknown palette role should not produce a fill")
	}
}

func TestResolveIsTotalOverAllVariants(t *testing.T) {
	reg := NewRegistry()
	variants := []book.ElementType{
		book.ElementRect, book.ElementCircle, book.ElementLine, book.ElementBrush,
		book.ElementImage, book.ElementText, book.ElementQuestion, book.ElementAnswer,
		book.ElementQnA, book.ElementQRCode,
	}
	for _, themeName := range []string{"default", "sketchy", "minimal", "unknown"} {
		for _, vt := range variants {
			el := &book.Element{ID: "x", Type: vt}
			got := reg.Resolve(el, &book.Page{}, &book.Book{Theme: themeName})
			if got.FontSize <= 0 || got.LineHeight <= 0 {
				t.Fatalf("theme %q variant %q: incomplete style %+v", themeName, vt, got)
			}
		}
	}
}

func TestSketchSeedStableAndDistinct(t *testing.T) {
	if SketchSeed("e1") != SketchSeed("e1") {
		t.Fatal("seed must be stable for the same element id")
	}
	if SketchSeed("e1") == SketchSeed("e2") {
		t.Fatal("different element ids should produce different seeds")
	}
}

func TestSketchyThemeSetsRoughness(t *testing.T) {
	reg := NewRegistry()
	el := &book.Element{ID: "e1", Type: book.ElementBrush}
	got := reg.Resolve(el, &book.Page{}, &book.Book{Theme: "sketchy"})
	if !got.Sketchy() {
		t.Fatal("sketchy theme should imply non-zero roughness")
	}
	got = reg.Resolve(el, &book.Page{}, &book.Book{Theme: "minimal"})
	if got.Sketchy() {
		t.Fatal("minimal theme should imply zero roughness")
	}
}
