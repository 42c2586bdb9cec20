// Package editor implements the interactive rendering surface: per-tool
// pointer state machines, hit-testing, selection, and the editing-only
// affordances (handles, marquee, draw previews) layered over the shared
// scene graph. Everything the editor adds is tagged scene.TagEditing so the
// export snapshot transformer can strip it unambiguously.
package editor

// Viewport maps between screen coordinates and page-local coordinates. The
// interactive canvas renders the page inset within a padded, pannable,
// zoomable window; element geometry itself always stays page-local.
//
// The mapping is screen = zoom × (page offset + page point). LiveScene
// bakes the page offset into its root node and the shell rasterizes it at
// pixel ratio Zoom, so drawing and pointer mapping agree by construction.
type Viewport struct {
	PanX, PanY float64
	Zoom       float64 // 1 = 100%
	PageInset  float64 // padding around the page inside the window
}

// NewViewport returns a viewport at 100% zoom with the default page inset.
func NewViewport() Viewport {
	return Viewport{Zoom: 1, PageInset: 40}
}

// zoom returns the effective zoom factor, treating 0 as 1.
func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// PageOffset returns where the page origin sits in pre-zoom screen units.
func (v Viewport) PageOffset() (x, y float64) {
	return v.PageInset + v.PanX, v.PageInset + v.PanY
}

// ToPage converts a screen coordinate to page-local coordinates.
func (v Viewport) ToPage(sx, sy float64) (x, y float64) {
	ox, oy := v.PageOffset()
	z := v.zoom()
	return sx/z - ox, sy/z - oy
}

// ToScreen converts a page-local coordinate to screen coordinates.
func (v Viewport) ToScreen(px, py float64) (x, y float64) {
	ox, oy := v.PageOffset()
	z := v.zoom()
	return (px + ox) * z, (py + oy) * z
}
