package scene

import (
	"slices"

	"github.com/polydraw/polydraw/backend-go/internal/geom"
	"github.com/polydraw/polydraw/backend-go/internal/shape"
)

// Scene is the ordered list of shapes on the canvas.
// Insertion order is z-order: later shapes are drawn on top and hit-tested first.
// Shapes have no identity beyond their index.
type Scene struct {
	shapes []shape.Drawable
}

// New creates a scene holding shapes in the given order.
func New(shapes ...shape.Drawable) *Scene {
	return &Scene{shapes: slices.Clone(shapes)}
}

// Add appends d on top of the z-order.
func (s *Scene) Add(d shape.Drawable) {
	s.shapes = append(s.shapes, d)
}

// RemoveAt removes the shape at index. The -1 "no selection" sentinel, and
// any other index outside the scene, is a no-op.
func (s *Scene) RemoveAt(index int) {
	if index < 0 || index >= len(s.shapes) {
		return
	}
	s.shapes = slices.Delete(s.shapes, index, index+1)
}

// Remove removes d if it is in the scene.
func (s *Scene) Remove(d shape.Drawable) {
	s.RemoveAt(s.IndexOf(d))
}

// IndexOf returns the position of d, or -1.
func (s *Scene) IndexOf(d shape.Drawable) int {
	return slices.Index(s.shapes, d)
}

// FirstSelected returns the topmost shape hit by p and its index.
// It returns (nil, -1) when nothing is under p.
func (s *Scene) FirstSelected(p geom.Point) (shape.Drawable, int) {
	// Front to back = reverse order
	for i := len(s.shapes) - 1; i >= 0; i-- {
		if s.shapes[i].IsSelected(p) {
			return s.shapes[i], i
		}
	}
	return nil, -1
}

// At returns the shape at index, or nil.
func (s *Scene) At(index int) shape.Drawable {
	if index < 0 || index >= len(s.shapes) {
		return nil
	}
	return s.shapes[index]
}

// Last returns the topmost shape, or nil on an empty scene.
func (s *Scene) Last() shape.Drawable {
	return s.At(len(s.shapes) - 1)
}

func (s *Scene) Len() int { return len(s.shapes) }

// Shapes returns the shapes in painter's order (back to front). The returned
// slice is a copy; the shapes themselves are shared.
func (s *Scene) Shapes() []shape.Drawable {
	return slices.Clone(s.shapes)
}

// Clear removes every shape.
func (s *Scene) Clear() {
	s.shapes = nil
}

// Replace swaps the whole shape list, as when a document is loaded.
func (s *Scene) Replace(shapes []shape.Drawable) {
	s.shapes = slices.Clone(shapes)
}
