package editor

import (
	"fmt"

	"github.com/polydraw/polydraw/backend-go/internal/geom"
)

// InputKind names a raw pointer or keyboard event.
type InputKind string

const (
	InputClick       InputKind = "click"
	InputMouseMove   InputKind = "mousemove"
	InputMouseDown   InputKind = "mousedown"
	InputMouseUp     InputKind = "mouseup"
	InputDoubleClick InputKind = "dblclick"
	InputKeyDown     InputKind = "keydown"
)

// Input is a serialized input event, as sent by remote hosts.
// X and Y are canvas-local; Key is only set for keydown.
type Input struct {
	Kind InputKind `json:"kind"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	Key  string    `json:"key,omitempty"`
}

// Dispatch delivers in to the current state.
func (e *Editor) Dispatch(in Input) error {
	p := geom.Pt(in.X, in.Y)
	switch in.Kind {
	case InputClick:
		e.Click(p)
	case InputMouseMove:
		e.MouseMove(p)
	case InputMouseDown:
		e.MouseDown(p)
	case InputMouseUp:
		e.MouseUp(p)
	case InputDoubleClick:
		e.DoubleClick(p)
	case InputKeyDown:
		e.KeyDown(in.Key)
	default:
		return fmt.Errorf("dispatch %q: %w", in.Kind, ErrUnknownInput)
	}
	return nil
}
