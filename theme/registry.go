package theme

import (
	"image/color"
	"strings"

	"github.com/pillepelle-123/bookpress/book"
)

// Registry is an immutable lookup table of themes and palettes, constructed
// once at process start and passed explicitly to every resolver call site.
type Registry struct {
	themes   map[string]Theme
	palettes map[string]Palette
	version  string
}

// Version identifies the registry contents, so renders can record which
// theme table they were produced against.
func (r *Registry) Version() string { return r.version }

// NewRegistry builds a registry with the built-in themes and palettes.
func NewRegistry() *Registry {
	return &Registry{
		themes:   builtinThemes(),
		palettes: builtinPalettes(),
		version:  "builtin-1",
	}
}

// NewRegistryWith builds a registry from explicit theme and palette tables,
// merged over the built-ins.
func NewRegistryWith(version string, themes []Theme, palettes []Palette) *Registry {
	r := NewRegistry()
	r.version = version
	for _, t := range themes {
		r.themes[t.Name] = t
	}
	for _, p := range palettes {
		r.palettes[p.Name] = p
	}
	return r
}

// Theme returns the named theme, falling back to the default theme for
// unknown names.
func (r *Registry) Theme(name string) Theme {
	if t, ok := r.themes[name]; ok {
		return t
	}
	return r.themes[DefaultTheme]
}

// Palette returns the named palette, falling back to the default palette
// for unknown names.
func (r *Registry) Palette(name string) Palette {
	if p, ok := r.palettes[name]; ok {
		return p
	}
	return r.palettes[DefaultPalette]
}

// PaletteFor returns the effective palette for a page: page override, then
// book, then the default palette.
func (r *Registry) PaletteFor(pg *book.Page, bk *book.Book) Palette {
	return r.Palette(paletteNameFor(pg, bk))
}

// Color returns the concrete color for a semantic role.
func (p Palette) Color(role string) (color.RGBA, bool) {
	s, ok := p.Roles[role]
	if !ok {
		return color.RGBA{}, false
	}
	c, ok, err := book.ParseColor(s)
	if err != nil {
		return color.RGBA{}, false
	}
	return c, ok
}

// themeNameFor picks the effective theme name: page override, then book,
// then global default.
func themeNameFor(pg *book.Page, bk *book.Book) string {
	if pg != nil && pg.Theme != "" {
		return pg.Theme
	}
	if bk != nil && bk.Theme != "" {
		return bk.Theme
	}
	return DefaultTheme
}

// paletteNameFor picks the effective palette name analogously.
func paletteNameFor(pg *book.Page, bk *book.Book) string {
	if pg != nil && pg.Palette != "" {
		return pg.Palette
	}
	if bk != nil && bk.Palette != "" {
		return bk.Palette
	}
	return DefaultPalette
}

// Resolve computes the concrete style for an element in the context of its
// page and book. It is total: every known variant has a complete default
// under every theme, and unknown names degrade to the global defaults.
func (r *Registry) Resolve(el *book.Element, pg *book.Page, bk *book.Book) ResolvedStyle {
	th := r.Theme(themeNameFor(pg, bk))
	pal := r.Palette(paletteNameFor(pg, bk))

	vs := th.Default
	if v, ok := th.Variants[el.Type]; ok {
		vs = v
	}

	// Element overrides.
	fill := vs.Fill
	if el.Fill != "" {
		fill = el.Fill
	}
	if el.PaletteRole != "" {
		fill = "@" + el.PaletteRole
	}
	stroke := vs.Stroke
	if el.Stroke != "" {
		stroke = el.Stroke
	}
	strokeWidth := vs.StrokeWidth
	if el.StrokeWidth != nil {
		strokeWidth = *el.StrokeWidth
	}
	roughness := vs.Roughness
	if el.Roughness != nil {
		roughness = *el.Roughness
	}
	fontFamily := vs.FontFamily
	fontSize := vs.FontSize
	textColor := vs.TextColor
	if el.Font != nil {
		if el.Font.Family != "" {
			fontFamily = el.Font.Family
		}
		if el.Font.Size > 0 {
			fontSize = el.Font.Size
		}
		if el.Font.Color != "" {
			textColor = el.Font.Color
		}
	}

	lineHeight := vs.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1.4
	}

	rs := ResolvedStyle{
		StrokeWidth:    strokeWidth,
		Roughness:      roughness,
		SketchSeed:     SketchSeed(el.ID),
		FontFamily:     fontFamily,
		FontSize:       fontSize,
		LineHeight:     fontSize * lineHeight,
		RuledLines:     vs.RuledLines,
		RuledLineWidth: vs.RuledLineWidth,
	}
	rs.Fill, rs.HasFill = resolveColor(fill, pal)
	rs.Stroke, rs.HasStroke = resolveColor(stroke, pal)
	rs.TextColor, _ = resolveColor(textColor, pal)
	rs.RuledLineColor, _ = resolveColor(vs.RuledLineColor, pal)
	rs.PatternColor, _ = resolveColor("@accent", pal)
	return rs
}

// resolveColor turns a hex color or "@role" reference into a concrete RGBA.
// Invalid colors resolve to nothing rather than erroring: the resolver is
// total by contract.
func resolveColor(s string, pal Palette) (color.RGBA, bool) {
	if strings.HasPrefix(s, "@") {
		role := s[1:]
		if v, found := pal.Roles[role]; found {
			s = v
		} else {
			s = ""
		}
	}
	c, ok, err := book.ParseColor(s)
	if err != nil {
		return color.RGBA{}, false
	}
	return c, ok
}
