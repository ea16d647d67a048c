package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/polydraw/polydraw/backend-go/internal/geom"
	"github.com/polydraw/polydraw/backend-go/internal/scene"
	"github.com/polydraw/polydraw/backend-go/internal/shape"
)

var (
	ErrUnknownTool  = errors.New("unknown tool")
	ErrUnknownInput = errors.New("unknown input kind")
)

// Editor owns the scene and the interaction state machine. It receives input
// events and toolbar changes from the host and answers render queries.
//
// An Editor is not safe for concurrent use; hosts deliver one event at a time.
type Editor struct {
	scene *scene.Scene
	state State

	// Toolbar state (host owns the widgets, editor owns the values)
	tool     Tool
	color    shape.Color
	rotation float64

	logger     *slog.Logger
	onColor    func(shape.Color)
	onRotation func(float64)
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger used for state transitions and ignored errors.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithColorSync registers a callback that receives the color of the shape,
// or selected vertex, whenever a selection is made.
func WithColorSync(fn func(shape.Color)) Option {
	return func(e *Editor) { e.onColor = fn }
}

// WithRotationSync registers a callback that receives the rotation of a
// newly selected shape, so the host can move its slider.
func WithRotationSync(fn func(float64)) Option {
	return func(e *Editor) { e.onRotation = fn }
}

// WithTool sets the initial tool. The default is ToolLine.
func WithTool(t Tool) Option {
	return func(e *Editor) { e.tool = t }
}

// New creates an editor with an empty scene in the idle state.
func New(opts ...Option) *Editor {
	e := &Editor{
		scene:  scene.New(),
		state:  &idleState{},
		tool:   ToolLine,
		color:  shape.Black,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tool == ToolErase {
		e.state = &eraseState{}
	}
	return e
}

func (e *Editor) setState(next State) {
	e.logger.Debug("state change", "from", e.state.Name(), "to", next.Name())
	e.state.OnBeforeChange(e)
	e.state = next
	e.state.OnAfterChange(e)
}

func (e *Editor) syncColor(d shape.Drawable) {
	colors := d.Colors()
	if len(colors) == 0 {
		return
	}
	c := colors[0]
	if v := d.SelectedVertex(); v >= 0 && v < len(colors) {
		c = colors[v]
	}
	e.color = c
	if e.onColor != nil {
		e.onColor(c)
	}
}

func (e *Editor) syncRotation(deg float64) {
	e.rotation = deg
	if e.onRotation != nil {
		e.onRotation(deg)
	}
}

// --- Commands (host → editor) ---

func (e *Editor) Click(p geom.Point)       { e.state.OnClick(e, p) }
func (e *Editor) MouseMove(p geom.Point)   { e.state.OnMouseMove(e, p) }
func (e *Editor) MouseDown(p geom.Point)   { e.state.OnMouseDown(e, p) }
func (e *Editor) MouseUp(p geom.Point)     { e.state.OnMouseUp(e, p) }
func (e *Editor) DoubleClick(p geom.Point) { e.state.OnDoubleClick(e, p) }
func (e *Editor) KeyDown(key string)       { e.state.OnKeyDown(e, key) }

// SetTool switches the active tool. A shape still under construction is
// discarded. Selecting the erase tool enters the erase state; any other tool
// returns to idle.
func (e *Editor) SetTool(t Tool) {
	if t == e.tool {
		return
	}
	e.tool = t
	if t == ToolErase {
		e.setState(&eraseState{})
		return
	}
	e.setState(&idleState{})
}

// SetColor sets the drawing color from a "#rrggbb" picker value and applies
// it to the current selection, if any.
func (e *Editor) SetColor(hex string) error {
	c, err := shape.ParseHexColor(hex)
	if err != nil {
		return fmt.Errorf("set color: %w", err)
	}
	e.color = c
	if s, ok := e.state.(*selectShapeState); ok {
		s.recolor(c)
	}
	return nil
}

// SetRotation sets the absolute rotation, in degrees, of the selected shape.
func (e *Editor) SetRotation(degrees float64) {
	e.rotation = degrees
	if s, ok := e.state.(*selectShapeState); ok {
		s.shape.SetRotation(degrees)
	}
}

// Clear removes every shape and returns to idle.
func (e *Editor) Clear() {
	e.setState(&idleState{})
	e.scene.Clear()
}

// Load replaces the scene with shapes, as when a document is opened.
func (e *Editor) Load(shapes []shape.Drawable) {
	e.setState(&idleState{})
	e.scene.Replace(shapes)
}

// --- Queries (host ← editor) ---

func (e *Editor) Tool() Tool          { return e.tool }
func (e *Editor) Color() shape.Color  { return e.color }
func (e *Editor) Rotation() float64   { return e.rotation }
func (e *Editor) StateName() string   { return e.state.Name() }
func (e *Editor) Scene() *scene.Scene { return e.scene }

// EditEnabled reports whether toolbar affordances should be enabled. It is
// false while a shape is under construction.
func (e *Editor) EditEnabled() bool { return e.state.EditEnabled() }

// Shapes returns the scene's shapes, back to front.
func (e *Editor) Shapes() []shape.Drawable { return e.scene.Shapes() }

// Selected returns the shape being edited and its scene index, or (nil, -1).
func (e *Editor) Selected() (shape.Drawable, int) {
	if s, ok := e.state.(*selectShapeState); ok {
		return s.shape, s.index
	}
	return nil, -1
}

// Status is a snapshot of the editor's toolbar-facing state.
type Status struct {
	Tool        Tool    `json:"tool"`
	State       string  `json:"state"`
	EditEnabled bool    `json:"editEnabled"`
	Color       string  `json:"color"`
	Rotation    float64 `json:"rotation"`
	Shapes      int     `json:"shapes"`
	Selected    int     `json:"selected"`
}

// Status returns the current toolbar-facing state.
func (e *Editor) Status() Status {
	_, idx := e.Selected()
	return Status{
		Tool:        e.tool,
		State:       e.state.Name(),
		EditEnabled: e.EditEnabled(),
		Color:       e.color.Hex(),
		Rotation:    e.rotation,
		Shapes:      e.scene.Len(),
		Selected:    idx,
	}
}
