package book

import "fmt"

// BackgroundType discriminates the background union.
type BackgroundType string

// Background kinds.
const (
	BackgroundColor   BackgroundType = "color"
	BackgroundImage   BackgroundType = "image"
	BackgroundPattern BackgroundType = "pattern"
)

// PatternKind names a repeating tile texture.
type PatternKind string

// Pattern tile kinds.
const (
	PatternDots       PatternKind = "dots"
	PatternGrid       PatternKind = "grid"
	PatternLines      PatternKind = "lines"
	PatternCrosshatch PatternKind = "crosshatch"
)

// PatternSpec declares a repeating pattern tile. Tiles are always rebuilt
// from these parameters; a rendered tile bitmap is never part of the model.
type PatternSpec struct {
	Kind        PatternKind `json:"kind"`
	Color       string      `json:"color,omitempty"`       // default: theme accent
	Scale       float64     `json:"scale,omitempty"`       // tile size multiplier, default 1
	StrokeWidth float64     `json:"strokeWidth,omitempty"` // default 1
}

// Background is the single per-page background layer, always rendered first.
type Background struct {
	Type    BackgroundType `json:"type"`
	Color   string         `json:"color,omitempty"`
	Src     string         `json:"src,omitempty"` // image URL
	Pattern *PatternSpec   `json:"pattern,omitempty"`
	Opacity *float64       `json:"opacity,omitempty"` // nil = 1.0
}

// OpacityValue returns the effective background opacity in [0,1].
func (b *Background) OpacityValue() float64 {
	if b.Opacity == nil {
		return 1
	}
	if *b.Opacity < 0 {
		return 0
	}
	if *b.Opacity > 1 {
		return 1
	}
	return *b.Opacity
}

func (b *Background) validate() error {
	switch b.Type {
	case BackgroundColor, BackgroundImage:
		return nil
	case BackgroundPattern:
		if b.Pattern == nil {
			return fmt.Errorf("pattern background requires pattern spec")
		}
		switch b.Pattern.Kind {
		case PatternDots, PatternGrid, PatternLines, PatternCrosshatch:
			return nil
		}
		return fmt.Errorf("unknown pattern kind %q", b.Pattern.Kind)
	}
	return fmt.Errorf("unknown background type %q", b.Type)
}
