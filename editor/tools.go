package editor

// Tool names an active editing tool.
type Tool string

// Available tools.
const (
	ToolSelect Tool = "select"
	ToolPan    Tool = "pan"
	ToolRect   Tool = "rect"
	ToolCircle Tool = "circle"
	ToolLine   Tool = "line"
	ToolBrush  Tool = "brush"
	ToolText   Tool = "text"
)

// State is the pointer interaction state. All transitions are driven by
// pointer-down/move/up; a tool switch or explicit cancel resets to idle and
// discards any in-progress geometry.
type State string

// Interaction states.
const (
	StateIdle        State = "idle"
	StateDrawing     State = "drawing"
	StateSelecting   State = "selecting" // marquee drag
	StatePanning     State = "panning"
	StateMovingGroup State = "moving-group"
)
