package editor

import (
	"github.com/polydraw/polydraw/backend-go/internal/geom"
	"github.com/polydraw/polydraw/backend-go/internal/shape"
)

// State is one phase of the interaction state machine. The editor forwards
// every input event to the current state, which may mutate the scene and
// switch to another state through Editor.setState.
type State interface {
	Name() string
	// EditEnabled reports whether tool affordances may be used in this state.
	EditEnabled() bool

	OnClick(e *Editor, p geom.Point)
	OnMouseMove(e *Editor, p geom.Point)
	OnMouseDown(e *Editor, p geom.Point)
	OnMouseUp(e *Editor, p geom.Point)
	OnDoubleClick(e *Editor, p geom.Point)
	OnKeyDown(e *Editor, key string)

	// OnBeforeChange runs before the editor leaves the state.
	OnBeforeChange(e *Editor)
	// OnAfterChange runs once the editor has entered the state.
	OnAfterChange(e *Editor)
}

// State names reported by Editor.StateName.
const (
	StateIdle        = "idle"
	StateDrawing     = "drawing"
	StateSelectShape = "selectShape"
	StateErase       = "erase"
)

// noopState ignores every event. States embed it and override what they handle.
type noopState struct{}

func (noopState) EditEnabled() bool                 { return true }
func (noopState) OnClick(*Editor, geom.Point)       {}
func (noopState) OnMouseMove(*Editor, geom.Point)   {}
func (noopState) OnMouseDown(*Editor, geom.Point)   {}
func (noopState) OnMouseUp(*Editor, geom.Point)     {}
func (noopState) OnDoubleClick(*Editor, geom.Point) {}
func (noopState) OnKeyDown(*Editor, string)         {}
func (noopState) OnBeforeChange(*Editor)            {}
func (noopState) OnAfterChange(*Editor)             {}

// --- Idle ---

type idleState struct {
	noopState
}

func (*idleState) Name() string { return StateIdle }

func (*idleState) OnClick(e *Editor, p geom.Point) {
	switch {
	case e.tool.Draws():
		e.setState(&drawingState{shape: e.tool.newShape(p, e.color)})
	case e.tool == ToolSelect:
		if hit, idx := e.scene.FirstSelected(p); hit != nil {
			e.setState(newSelectShapeState(hit, idx))
		}
	case e.tool == ToolErase:
		_, idx := e.scene.FirstSelected(p)
		e.scene.RemoveAt(idx)
	}
}

// --- Drawing ---

// drawingState owns a shape under construction. The shape sits in the scene
// while it is drawn and is taken out again if the state is left before the
// construction completes.
type drawingState struct {
	noopState
	shape shape.Drawable
}

func (*drawingState) Name() string      { return StateDrawing }
func (*drawingState) EditEnabled() bool { return false }

func (s *drawingState) OnAfterChange(e *Editor) {
	s.shape.StartDrawing()
	e.scene.Add(s.shape)
}

func (s *drawingState) OnBeforeChange(e *Editor) {
	if s.shape.IsDrawing() {
		e.logger.Debug("abandoning shape under construction", "kind", s.shape.Kind())
		e.scene.Remove(s.shape)
	}
}

func (s *drawingState) OnMouseMove(_ *Editor, p geom.Point) {
	s.shape.MoveDrawing(p)
}

func (s *drawingState) OnClick(e *Editor, p geom.Point) {
	if s.shape.FinishDrawingMove(p) {
		s.finish(e)
	}
}

func (s *drawingState) OnKeyDown(e *Editor, key string) {
	switch key {
	case "Escape":
		e.setState(&idleState{})
	case "Enter":
		// Closes a polygon without clicking back inside it.
		if poly, ok := s.shape.(*shape.Polygon); ok && poly.Len() >= 3 {
			s.finish(e)
		}
	}
}

func (s *drawingState) finish(e *Editor) {
	s.shape.FinishDrawing()
	e.setState(&idleState{})
}

// --- Erase ---

type eraseState struct {
	noopState
}

func (*eraseState) Name() string { return StateErase }

func (*eraseState) OnClick(e *Editor, p geom.Point) {
	_, idx := e.scene.FirstSelected(p)
	e.scene.RemoveAt(idx)
}

func (*eraseState) OnMouseUp(e *Editor, _ geom.Point) {
	if e.tool != ToolErase {
		e.setState(&idleState{})
	}
}
