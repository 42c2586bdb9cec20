package theme

import "github.com/pillepelle-123/bookpress/book"

// builtinThemes returns the three shipped themes. "default" draws clean
// solid strokes, "sketchy" adds seeded hand-drawn jitter and ruled lines
// under text, "minimal" uses thin strokes and no decoration.
func builtinThemes() map[string]Theme {
	base := VariantStyle{
		Stroke:         "@primary",
		StrokeWidth:    2,
		FontFamily:     "regular",
		FontSize:       16,
		LineHeight:     1.4,
		TextColor:      "@text",
		RuledLineColor: "@accent",
		RuledLineWidth: 1,
	}

	def := Theme{Name: "default", Default: base}
	def.Variants = map[book.ElementType]VariantStyle{
		book.ElementRect:     withFill(base, "transparent"),
		book.ElementCircle:   withFill(base, "transparent"),
		book.ElementBrush:    base,
		book.ElementQuestion: withText(base, "bold", 18),
		book.ElementAnswer:   withRuled(base),
		book.ElementQnA:      withRuled(withText(base, "regular", 16)),
	}

	sketchyBase := base
	sketchyBase.Roughness = 1.5
	sketchyBase.StrokeWidth = 2.5
	sketchy := Theme{Name: "sketchy", Default: sketchyBase}
	sketchy.Variants = map[book.ElementType]VariantStyle{
		book.ElementRect:     withFill(sketchyBase, "transparent"),
		book.ElementCircle:   withFill(sketchyBase, "transparent"),
		book.ElementBrush:    sketchyBase,
		book.ElementQuestion: withText(sketchyBase, "bold", 18),
		book.ElementAnswer:   withRuled(sketchyBase),
		book.ElementQnA:      withRuled(sketchyBase),
	}

	minimalBase := base
	minimalBase.StrokeWidth = 1
	minimal := Theme{Name: "minimal", Default: minimalBase}
	minimal.Variants = map[book.ElementType]VariantStyle{
		book.ElementRect:     withFill(minimalBase, "transparent"),
		book.ElementCircle:   withFill(minimalBase, "transparent"),
		book.ElementQuestion: withText(minimalBase, "bold", 17),
		book.ElementAnswer:   minimalBase,
		book.ElementQnA:      minimalBase,
	}

	return map[string]Theme{
		def.Name:     def,
		sketchy.Name: sketchy,
		minimal.Name: minimal,
	}
}

func withFill(v VariantStyle, fill string) VariantStyle {
	v.Fill = fill
	return v
}

func withText(v VariantStyle, family string, size float64) VariantStyle {
	v.FontFamily = family
	v.FontSize = size
	return v
}

func withRuled(v VariantStyle) VariantStyle {
	v.RuledLines = true
	return v
}

// builtinPalettes returns the shipped palettes. Each palette defines the
// four semantic roles elements may reference.
func builtinPalettes() map[string]Palette {
	return map[string]Palette{
		"default": {Name: "default", Roles: map[string]string{
			"primary":    "#1f2937",
			"accent":     "#3b82f6",
			"background": "#ffffff",
			"text":       "#111827",
		}},
		"warm": {Name: "warm", Roles: map[string]string{
			"primary":    "#7c2d12",
			"accent":     "#f59e0b",
			"background": "#fffbeb",
			"text":       "#431407",
		}},
		"ocean": {Name: "ocean", Roles: map[string]string{
			"primary":    "#0c4a6e",
			"accent":     "#06b6d4",
			"background": "#f0f9ff",
			"text":       "#082f49",
		}},
		"forest": {Name: "forest", Roles: map[string]string{
			"primary":    "#14532d",
			"accent":     "#65a30d",
			"background": "#f7fee7",
			"text":       "#1a2e05",
		}},
	}
}
