package editor

import (
	"fmt"
	"math"

	"github.com/pillepelle-123/bookpress/book"
	"github.com/pillepelle-123/bookpress/layout"
	"github.com/pillepelle-123/bookpress/theme"
)

// brushHitMargin widens freehand-path hit areas so thin strokes remain
// selectable.
const brushHitMargin = 6.0

// minDragSize is the smallest drag that commits a drawn shape; anything
// smaller is treated as an accidental click and discarded.
const minDragSize = 4.0

// Editor owns the interactive editing state for one page of a book. It is
// single-threaded by design: all pointer handling runs on the UI event
// loop, and nothing here blocks.
type Editor struct {
	bk    *book.Book
	page  int // 0-based
	reg   *theme.Registry
	faces *layout.Faces

	Viewport Viewport

	tool      Tool
	state     State
	selection []string

	// in-progress pointer interaction
	startX, startY float64 // page coords at pointer-down
	curX, curY     float64
	drawPoints     []float64 // brush tool
	panStartX      float64
	panStartY      float64

	// pending image uploads by element id; failed uploads discard the
	// element.
	uploads map[string]bool

	nextID int
}

// New creates an editor for the given page of a book.
func New(bk *book.Book, pageIndex int, reg *theme.Registry, faces *layout.Faces) (*Editor, error) {
	if pageIndex < 0 || pageIndex >= len(bk.Pages) {
		return nil, fmt.Errorf("editor: page index %d out of range", pageIndex)
	}
	return &Editor{
		bk:       bk,
		page:     pageIndex,
		reg:      reg,
		faces:    faces,
		Viewport: NewViewport(),
		tool:     ToolSelect,
		state:    StateIdle,
		uploads:  make(map[string]bool),
	}, nil
}

// Page returns the page being edited.
func (e *Editor) Page() *book.Page { return &e.bk.Pages[e.page] }

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// State returns the current interaction state.
func (e *Editor) State() State { return e.state }

// Selection returns the ids of the selected elements.
func (e *Editor) Selection() []string { return e.selection }

// SetTool switches the active tool. Any in-progress interaction is
// cancelled and its geometry discarded.
func (e *Editor) SetTool(t Tool) {
	e.Cancel()
	e.tool = t
}

// Cancel resets the interaction state machine to idle, discarding
// in-progress geometry.
func (e *Editor) Cancel() {
	e.state = StateIdle
	e.drawPoints = nil
}

// PointerDown begins an interaction at the given screen coordinates.
func (e *Editor) PointerDown(sx, sy float64) {
	px, py := e.Viewport.ToPage(sx, sy)
	e.startX, e.startY = px, py
	e.curX, e.curY = px, py

	switch e.tool {
	case ToolPan:
		e.state = StatePanning
		e.panStartX, e.panStartY = e.Viewport.PanX, e.Viewport.PanY
		e.startX, e.startY = sx, sy // pan tracks screen deltas
	case ToolSelect:
		if hit := e.HitTest(px, py); hit != nil {
			if !e.isSelected(hit.ID) {
				e.selection = []string{hit.ID}
			}
			e.state = StateMovingGroup
		} else {
			e.selection = nil
			e.state = StateSelecting
		}
	case ToolBrush:
		e.state = StateDrawing
		e.drawPoints = []float64{0, 0} // relative to start
	case ToolRect, ToolCircle, ToolLine, ToolText:
		e.state = StateDrawing
	}
}

// PointerMove updates the in-progress interaction.
func (e *Editor) PointerMove(sx, sy float64) {
	switch e.state {
	case StatePanning:
		// Pan is stored pre-zoom, so screen deltas shrink by the zoom
		// factor.
		z := e.Viewport.zoom()
		e.Viewport.PanX = e.panStartX + (sx-e.startX)/z
		e.Viewport.PanY = e.panStartY + (sy-e.startY)/z
		return
	case StateIdle:
		return
	}

	px, py := e.Viewport.ToPage(sx, sy)

	switch e.state {
	case StateMovingGroup:
		dx, dy := px-e.curX, py-e.curY
		for i := range e.Page().Elements {
			el := &e.Page().Elements[i]
			if e.isSelected(el.ID) {
				el.X += dx
				el.Y += dy
			}
		}
	case StateDrawing:
		if e.tool == ToolBrush {
			e.drawPoints = append(e.drawPoints, px-e.startX, py-e.startY)
		}
	}
	e.curX, e.curY = px, py
}

// PointerUp completes the interaction, committing drawn geometry when it is
// large enough to be intentional.
func (e *Editor) PointerUp(sx, sy float64) {
	e.PointerMove(sx, sy)
	defer func() {
		e.state = StateIdle
		e.drawPoints = nil
	}()

	switch e.state {
	case StateSelecting:
		e.selection = e.elementsInMarquee()
	case StateDrawing:
		e.commitDrawing()
	}
}

// commitDrawing turns the in-progress geometry into a new element.
func (e *Editor) commitDrawing() {
	x0, y0 := math.Min(e.startX, e.curX), math.Min(e.startY, e.curY)
	w, h := math.Abs(e.curX-e.startX), math.Abs(e.curY-e.startY)

	switch e.tool {
	case ToolRect, ToolCircle, ToolText:
		if w < minDragSize || h < minDragSize {
			return
		}
		typ := book.ElementRect
		if e.tool == ToolCircle {
			typ = book.ElementCircle
		} else if e.tool == ToolText {
			typ = book.ElementText
		}
		e.addElement(book.Element{Type: typ, X: x0, Y: y0, Width: w, Height: h})
	case ToolLine:
		if w < minDragSize && h < minDragSize {
			return
		}
		e.addElement(book.Element{
			Type: book.ElementLine,
			X:    e.startX, Y: e.startY,
			Points: []float64{0, 0, e.curX - e.startX, e.curY - e.startY},
		})
	case ToolBrush:
		if len(e.drawPoints) < 4 {
			return
		}
		e.addElement(book.Element{
			Type: book.ElementBrush,
			X:    e.startX, Y: e.startY,
			Points: append([]float64(nil), e.drawPoints...),
		})
	}
}

func (e *Editor) addElement(el book.Element) {
	e.nextID++
	el.ID = fmt.Sprintf("%s-%s-%d", e.Page().ID, el.Type, e.nextID)
	e.Page().Elements = append(e.Page().Elements, el)
	e.selection = []string{el.ID}
}

// InsertImage adds an image element in a loading state. The upload is
// fire-and-forget: FinishUpload resolves it, and a failed upload discards
// the element entirely.
func (e *Editor) InsertImage(x, y, w, h float64) string {
	e.addElement(book.Element{Type: book.ElementImage, X: x, Y: y, Width: w, Height: h})
	id := e.selection[0]
	e.uploads[id] = true
	return id
}

// Uploading reports whether the element has a pending upload.
func (e *Editor) Uploading(id string) bool { return e.uploads[id] }

// FinishUpload resolves a pending upload. On success the element gets its
// source URL; on failure the element is discarded.
func (e *Editor) FinishUpload(id, src string, ok bool) {
	delete(e.uploads, id)
	pg := e.Page()
	for i := range pg.Elements {
		if pg.Elements[i].ID != id {
			continue
		}
		if ok {
			pg.Elements[i].Src = src
		} else {
			pg.Elements = append(pg.Elements[:i], pg.Elements[i+1:]...)
			e.deselect(id)
		}
		return
	}
}

// DeleteSelection removes the selected elements from the page.
func (e *Editor) DeleteSelection() {
	pg := e.Page()
	kept := pg.Elements[:0]
	for _, el := range pg.Elements {
		if !e.isSelected(el.ID) {
			kept = append(kept, el)
		}
	}
	pg.Elements = kept
	e.selection = nil
}

// HitTest returns the topmost element whose visual bounds contain the page
// coordinate, or nil. Freehand paths hit-test against their point extents
// plus a margin rather than the nominal box.
func (e *Editor) HitTest(px, py float64) *book.Element {
	pg := e.Page()
	for i := len(pg.Elements) - 1; i >= 0; i-- {
		el := &pg.Elements[i]
		x, y, w, h := el.Bounds()
		margin := 0.0
		if el.Type == book.ElementBrush || el.Type == book.ElementLine {
			margin = brushHitMargin
		}
		if px >= x-margin && px <= x+w+margin && py >= y-margin && py <= y+h+margin {
			return el
		}
	}
	return nil
}

// elementsInMarquee returns the ids of all elements intersecting the
// current marquee rectangle.
func (e *Editor) elementsInMarquee() []string {
	x0, y0 := math.Min(e.startX, e.curX), math.Min(e.startY, e.curY)
	x1, y1 := math.Max(e.startX, e.curX), math.Max(e.startY, e.curY)

	var ids []string
	for i := range e.Page().Elements {
		el := &e.Page().Elements[i]
		x, y, w, h := el.Bounds()
		if x < x1 && x+w > x0 && y < y1 && y+h > y0 {
			ids = append(ids, el.ID)
		}
	}
	return ids
}

func (e *Editor) isSelected(id string) bool {
	for _, s := range e.selection {
		if s == id {
			return true
		}
	}
	return false
}

func (e *Editor) deselect(id string) {
	kept := e.selection[:0]
	for _, s := range e.selection {
		if s != id {
			kept = append(kept, s)
		}
	}
	e.selection = kept
}
