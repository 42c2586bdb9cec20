package book

// ElementType discriminates the element tagged union. The Type field
// determines which payload fields of Element are relevant.
type ElementType string

// Element variants.
const (
	ElementRect     ElementType = "rect"
	ElementCircle   ElementType = "circle"
	ElementLine     ElementType = "line"
	ElementBrush    ElementType = "brush" // freehand path
	ElementImage    ElementType = "image" // photo or placeholder when Src is empty
	ElementText     ElementType = "text"
	ElementQuestion ElementType = "question"
	ElementAnswer   ElementType = "answer"
	ElementQnA      ElementType = "qna" // inline question/answer block
	ElementQRCode   ElementType = "qrcode"
)

// Valid reports whether t names a known element variant.
func (t ElementType) Valid() bool {
	switch t {
	case ElementRect, ElementCircle, ElementLine, ElementBrush, ElementImage,
		ElementText, ElementQuestion, ElementAnswer, ElementQnA, ElementQRCode:
		return true
	}
	return false
}

// TextBearing reports whether the variant lays out text runs.
func (t ElementType) TextBearing() bool {
	switch t {
	case ElementText, ElementQuestion, ElementAnswer, ElementQnA:
		return true
	}
	return false
}

// FontSpec overrides font settings for a single element.
type FontSpec struct {
	Family string  `json:"family,omitempty"` // "regular" or "bold"
	Size   float64 `json:"size,omitempty"`
	Color  string  `json:"color,omitempty"` // hex or palette role via PaletteRole
}

// Element is a single visual element on a page. Position and size are in
// page-local pixels at the base canvas resolution; rotation is in degrees
// around the element center.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width,omitempty"`
	Height   float64     `json:"height,omitempty"`
	Rotation float64     `json:"rotation,omitempty"`
	Opacity  *float64    `json:"opacity,omitempty"` // nil = 1.0
	Z        *int        `json:"z,omitempty"`       // nil = sequence order

	// Style overrides. Nil means "inherit from theme".
	Fill        string   `json:"fill,omitempty"` // hex color or "transparent"
	Stroke      string   `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	Roughness   *float64 `json:"roughness,omitempty"` // sketch jitter amplitude
	Font        *FontSpec `json:"font,omitempty"`
	PaletteRole string   `json:"paletteRole,omitempty"` // semantic color instead of literal fill

	// Variant payloads.
	Text       string    `json:"text,omitempty"`       // text, answer
	Question   string    `json:"question,omitempty"`   // question, qna
	QuestionID string    `json:"questionId,omitempty"` // catalog reference
	Answer     string    `json:"answer,omitempty"`     // qna
	Points     []float64 `json:"points,omitempty"`     // brush: x0,y0,x1,y1,...
	Src        string    `json:"src,omitempty"`        // image: uploaded photo URL
	ShareURL   string    `json:"shareUrl,omitempty"`   // qrcode: overrides book share URL
}

// OpacityValue returns the effective opacity in [0,1].
func (e *Element) OpacityValue() float64 {
	if e.Opacity == nil {
		return 1
	}
	if *e.Opacity < 0 {
		return 0
	}
	if *e.Opacity > 1 {
		return 1
	}
	return *e.Opacity
}

// ZIndex returns the effective z index: the explicit override when present,
// otherwise the element's position in the page sequence.
func (e *Element) ZIndex(seq int) int {
	if e.Z != nil {
		return *e.Z
	}
	return seq
}

// Bounds returns the axis-aligned bounds of the element's geometry. For
// brush elements the bounds are derived from the point extents rather than
// the nominal box, since freehand strokes routinely escape it.
func (e *Element) Bounds() (x, y, w, h float64) {
	if e.Type == ElementBrush && len(e.Points) >= 2 {
		minX, minY := e.Points[0], e.Points[1]
		maxX, maxY := minX, minY
		for i := 2; i+1 < len(e.Points); i += 2 {
			px, py := e.Points[i], e.Points[i+1]
			if px < minX {
				minX = px
			}
			if px > maxX {
				maxX = px
			}
			if py < minY {
				minY = py
			}
			if py > maxY {
				maxY = py
			}
		}
		return e.X + minX, e.Y + minY, maxX - minX, maxY - minY
	}
	return e.X, e.Y, e.Width, e.Height
}
