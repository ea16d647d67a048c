package shape

import (
	"github.com/polydraw/polydraw/backend-go/internal/geom"
)

// Rectangle corner handles, in the order Points returns them.
const (
	CornerTopLeft = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

// rectGeometry is an anchor plus signed width and height.
type rectGeometry struct {
	anchor geom.Point
	width  float64
	height float64
}

func (g rectGeometry) center() geom.Point {
	return geom.Point{X: g.anchor.X + g.width/2, Y: g.anchor.Y + g.height/2}
}

// corners returns the four corners rotated by degrees about the center.
func (g rectGeometry) corners(degrees float64) []geom.Point {
	a := g.anchor
	pts := []geom.Point{
		a,
		{X: a.X + g.width, Y: a.Y},
		{X: a.X + g.width, Y: a.Y + g.height},
		{X: a.X, Y: a.Y + g.height},
	}
	geom.RotatePoints(pts, geom.RotationFromDegrees(degrees), g.center())
	return pts
}

// normalized flips negative extents so width and height are non-negative.
func (g rectGeometry) normalized() rectGeometry {
	if g.width < 0 {
		g.anchor.X += g.width
		g.width = -g.width
	}
	if g.height < 0 {
		g.anchor.Y += g.height
		g.height = -g.height
	}
	return g
}

// Rectangle is an axis-aligned box rotated about its center. Unlike lines and
// polygons the rotation cannot be folded into anchor/width/height, so it is
// applied when the corners are derived.
//
// A vertex drag produces a pending geometry that Points and RotationPoint
// read until DoneTranslateVertex commits it.
type Rectangle struct {
	base
	geometry rectGeometry
	pending  *rectGeometry
	colors   []Color
}

// NewRectangle creates a rectangle anchored at p.
func NewRectangle(p geom.Point, width, height float64, c Color) *Rectangle {
	return &Rectangle{
		base:     newBase(),
		geometry: rectGeometry{anchor: p, width: width, height: height},
		colors:   uniform(c, 4),
	}
}

func (r *Rectangle) Kind() Kind { return KindRectangle }

// Anchor returns the committed anchor point.
func (r *Rectangle) Anchor() geom.Point { return r.geometry.anchor }

// Size returns the committed width and height. Both are non-negative once
// construction and any vertex edit have finished.
func (r *Rectangle) Size() (float64, float64) {
	return r.geometry.width, r.geometry.height
}

// HasPendingEdit reports whether a vertex drag is awaiting commit.
func (r *Rectangle) HasPendingEdit() bool { return r.pending != nil }

func (r *Rectangle) current() rectGeometry {
	if r.pending != nil {
		return *r.pending
	}
	return r.geometry
}

func (r *Rectangle) Points() []geom.Point {
	if r.pending != nil {
		return r.pending.corners(r.rotationDegree)
	}
	return r.cachedPoints(func() []geom.Point {
		return r.geometry.corners(r.rotationDegree)
	})
}

func (r *Rectangle) Handles() []geom.Point { return r.Points() }

func (r *Rectangle) RotationPoint() geom.Point { return r.current().center() }

func (r *Rectangle) Colors() []Color { return r.colors }

func (r *Rectangle) SetColor(c Color) { r.colors = uniform(c, 4) }

func (r *Rectangle) SetVertexColor(index int, c Color) { setVertexColor(r.colors, index, c) }

// SetColors replaces the per-corner colors. Extra entries are ignored.
func (r *Rectangle) SetColors(colors []Color) {
	for i := 0; i < len(colors) && i < len(r.colors); i++ {
		r.colors[i] = colors[i]
	}
}

func (r *Rectangle) IsSelected(p geom.Point) bool {
	return geom.IsPointInsideVertexes(p, r.Points(), 4)
}

func (r *Rectangle) Translate(delta geom.Point) {
	geom.TranslatePoint(&r.geometry.anchor, delta)
	if r.pending != nil {
		geom.TranslatePoint(&r.pending.anchor, delta)
	}
	r.ResetPoints()
}

func (r *Rectangle) SetRotation(degrees float64) {
	r.endRotation(degrees)
}

func (r *Rectangle) SelectedPoint(pos geom.Point) (int, geom.Point) {
	return hitHandle(r.Handles(), pos)
}

func (r *Rectangle) DragVertex(index int) { r.drag(index, r.Handles()) }

// TranslateVertex recomputes the pending rectangle with the corner opposite
// the dragged one held fixed. translation is in canvas space and is turned
// into the rectangle's unrotated frame first.
func (r *Rectangle) TranslateVertex(translation, _ geom.Point) {
	if r.draggedVertexIdx == -1 {
		return
	}

	d := geom.RotateVector(translation, geom.RotationFromDegrees(-r.rotationDegree))
	g := r.geometry

	switch r.draggedVertexIdx {
	case CornerTopLeft:
		g.anchor.X += d.X
		g.anchor.Y += d.Y
		g.width -= d.X
		g.height -= d.Y
	case CornerTopRight:
		g.anchor.Y += d.Y
		g.width += d.X
		g.height -= d.Y
	case CornerBottomRight:
		g.width += d.X
		g.height += d.Y
	case CornerBottomLeft:
		g.anchor.X += d.X
		g.width -= d.X
		g.height += d.Y
	default:
		return
	}

	r.pending = &g
}

// DoneTranslateVertex commits the pending geometry and normalizes negative
// extents.
func (r *Rectangle) DoneTranslateVertex() {
	if r.pending == nil {
		return
	}
	r.geometry = r.pending.normalized()
	r.pending = nil
	r.ResetPoints()
}

// MoveDrawing stretches the rectangle from its anchor to p. Width and height
// may go negative until the drawing is finished.
func (r *Rectangle) MoveDrawing(p geom.Point) {
	r.geometry.width = p.X - r.geometry.anchor.X
	r.geometry.height = p.Y - r.geometry.anchor.Y
	r.ResetPoints()
}

func (r *Rectangle) FinishDrawingMove(p geom.Point) bool {
	r.MoveDrawing(p)
	return true
}

func (r *Rectangle) FinishDrawing() {
	r.geometry = r.geometry.normalized()
	r.ResetPoints()
	r.finishDrawing()
}
