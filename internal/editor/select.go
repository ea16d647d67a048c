package editor

import (
	"github.com/polydraw/polydraw/backend-go/internal/geom"
	"github.com/polydraw/polydraw/backend-go/internal/shape"
)

// selectShapeState edits one shape: vertex drags, whole-shape moves,
// polygon vertex insert/delete, recolor and rotate.
type selectShapeState struct {
	noopState
	shape shape.Drawable
	index int

	// anchor is the pointer position at mouse down. Drags are measured
	// against it so intermediate move events never accumulate error.
	anchor  geom.Point
	pressed bool
	// moving is set while the whole shape follows the pointer; offset is
	// how far it has been moved so far.
	moving bool
	offset geom.Point
	// moved records any pointer travel since mouse down. A release after
	// travel is a drag and never changes the selection.
	moved bool
}

func newSelectShapeState(d shape.Drawable, index int) *selectShapeState {
	return &selectShapeState{shape: d, index: index}
}

func (*selectShapeState) Name() string { return StateSelectShape }

func (s *selectShapeState) OnAfterChange(e *Editor) {
	e.syncColor(s.shape)
	e.syncRotation(s.shape.RotationDegree())
}

func (s *selectShapeState) OnBeforeChange(*Editor) {
	if _, _, ok := s.shape.DraggedVertex(); ok {
		s.shape.DoneTranslateVertex()
		s.shape.ReleaseDraggedVertex()
	}
	s.shape.DeselectVertex()
}

func (s *selectShapeState) OnMouseDown(e *Editor, p geom.Point) {
	s.anchor = p
	s.pressed = true
	s.moved = false

	if idx, _ := s.shape.SelectedPoint(p); idx != -1 {
		s.shape.SelectVertex(idx)
		s.shape.DragVertex(idx)
		e.syncColor(s.shape)
		return
	}

	s.shape.DeselectVertex()
	if s.shape.IsSelected(p) {
		s.moving = true
		s.offset = geom.Point{}
	}
}

func (s *selectShapeState) OnMouseMove(_ *Editor, p geom.Point) {
	if !s.pressed {
		return
	}
	s.moved = s.moved || p != s.anchor
	translation := p.Sub(s.anchor)

	if _, before, ok := s.shape.DraggedVertex(); ok {
		s.shape.TranslateVertex(translation, before)
		return
	}

	if s.moving {
		s.shape.Translate(translation.Sub(s.offset))
		s.offset = translation
	}
}

func (s *selectShapeState) OnMouseUp(e *Editor, p geom.Point) {
	wasDrag := s.moved
	s.pressed = false
	s.moved = false
	s.moving = false
	s.offset = geom.Point{}

	if _, _, ok := s.shape.DraggedVertex(); ok {
		s.shape.DoneTranslateVertex()
		s.shape.ReleaseDraggedVertex()
		return
	}
	if wasDrag {
		return
	}

	hit, idx := e.scene.FirstSelected(p)
	switch {
	case hit == nil:
		e.setState(&idleState{})
	case hit != s.shape:
		e.setState(newSelectShapeState(hit, idx))
	}
}

func (s *selectShapeState) OnDoubleClick(e *Editor, p geom.Point) {
	poly, ok := s.shape.(*shape.Polygon)
	if !ok {
		return
	}

	if idx, _ := poly.SelectedPoint(p); idx != -1 {
		if err := poly.DeletePoint(idx); err != nil {
			e.logger.Warn("delete polygon vertex", "index", idx, "error", err)
		}
		return
	}
	if poly.IsSelected(p) {
		poly.SelectVertex(poly.InsertPoint(p))
	}
}

func (s *selectShapeState) OnKeyDown(e *Editor, key string) {
	switch key {
	case "Delete", "Backspace":
		e.scene.Remove(s.shape)
		e.setState(&idleState{})
	case "Escape":
		e.setState(&idleState{})
	}
}

// recolor applies c to the selected vertex, or to the whole shape when no
// vertex is selected.
func (s *selectShapeState) recolor(c shape.Color) {
	if v := s.shape.SelectedVertex(); v != -1 {
		s.shape.SetVertexColor(v, c)
		return
	}
	s.shape.SetColor(c)
}
