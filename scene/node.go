// Package scene turns a page's element list and background spec into an
// ordered drawing-command tree consumed identically by the interactive
// renderer and the headless exporter. Nodes record what to draw, never how
// a particular surface draws it.
package scene

import (
	"image"
	"image/color"

	"github.com/pillepelle-123/bookpress/book"
	"github.com/pillepelle-123/bookpress/layout"
)

// Kind discriminates the drawing command a node represents.
type Kind uint8

// Node kinds.
const (
	KindGroup Kind = iota
	KindRect
	KindEllipse
	KindLine
	KindPath
	KindImage
	KindText
	KindPattern
	KindQR
)

// Tag marks structural roles that downstream passes rely on. Tags are how
// the export snapshot transformer identifies nodes to strip or exempt
// without magic thresholds.
type Tag uint8

// Node tags, combinable as a bit set.
const (
	TagBackground  Tag = 1 << iota // page background layer
	TagEditing                     // selection chrome, previews; never exported
	TagDecoration                  // ruled lines and borders owned by a text block
	TagPlaceholder                 // empty-content affordance; editor only
)

// Has reports whether t contains all bits of q.
func (t Tag) Has(q Tag) bool { return t&q == q }

// Point is a 2D coordinate in the node's local space.
type Point struct {
	X, Y float64
}

// Style is the paint state of a node. Nil fill or stroke means "draw
// nothing" for that phase.
type Style struct {
	Fill        *color.RGBA
	Stroke      *color.RGBA
	StrokeWidth float64
	Opacity     float64 // 0 is treated as 1 for convenience
}

// OpacityValue returns the effective opacity.
func (s Style) OpacityValue() float64 {
	if s.Opacity == 0 {
		return 1
	}
	return s.Opacity
}

// Node is one drawable command in the scene graph. Groups carry children;
// leaf kinds carry geometry and paint. Position is relative to the parent.
type Node struct {
	Kind      Kind
	Tag       Tag
	ElementID string // owning element, set on composite groups

	X, Y, W, H float64
	Rotation   float64 // degrees, around the node center
	Style      Style

	Points     []Point          // KindLine, KindPath
	Runs       []layout.TextRun // KindText
	FontFamily string
	FontSize   float64

	Src   string      // KindImage: remote reference, resolved before export
	Image image.Image // KindImage: inlined bitmap

	Pattern     *book.PatternSpec // KindPattern: declarative tile parameters
	PatternTile image.Image       // generated tile handle; never survives Clone

	QRContent string // KindQR

	// Overflow is set on composite groups whose text content is taller
	// than the element box. The interactive renderer shows a warning
	// affordance; export clips silently.
	Overflow bool

	Children []*Node
}

// Clone deep-copies the node tree. The pattern tile handle is deliberately
// not copied: like the native bitmap handles it stands in for, it does not
// survive structural duplication and must be regenerated from the pattern
// spec by whoever consumes the clone.
func (n *Node) Clone() *Node {
	c := *n
	c.PatternTile = nil
	if n.Points != nil {
		c.Points = append([]Point(nil), n.Points...)
	}
	if n.Runs != nil {
		c.Runs = append([]layout.TextRun(nil), n.Runs...)
	}
	if n.Pattern != nil {
		p := *n.Pattern
		c.Pattern = &p
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return &c
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, ch := range n.Children {
		ch.Walk(fn)
	}
}

// FilterChildren removes direct and nested children for which keep returns
// false. The receiver itself is never removed.
func (n *Node) FilterChildren(keep func(*Node) bool) {
	kept := n.Children[:0]
	for _, ch := range n.Children {
		if keep(ch) {
			ch.FilterChildren(keep)
			kept = append(kept, ch)
		}
	}
	// Zero the tail so removed nodes do not linger in the backing array.
	for i := len(kept); i < len(n.Children); i++ {
		n.Children[i] = nil
	}
	n.Children = kept
}

// SortBackgroundFirst stably reorders the direct children of root so every
// background-tagged node precedes every other node. Structural clones and
// scenes composed from raw data do not guarantee this invariant on their
// own.
func SortBackgroundFirst(root *Node) {
	var bg, rest []*Node
	for _, ch := range root.Children {
		if ch.Tag.Has(TagBackground) {
			bg = append(bg, ch)
		} else {
			rest = append(rest, ch)
		}
	}
	root.Children = append(bg, rest...)
}
