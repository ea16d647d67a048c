package shape

import (
	"math"

	"github.com/polydraw/polydraw/backend-go/internal/geom"
)

type squareGeometry struct {
	anchor geom.Point
	length float64
	negX   bool
	negY   bool
}

func (g squareGeometry) signs() (float64, float64) {
	sx, sy := 1.0, 1.0
	if g.negX {
		sx = -1
	}
	if g.negY {
		sy = -1
	}
	return sx, sy
}

func (g squareGeometry) center() geom.Point {
	sx, sy := g.signs()
	return geom.Point{X: g.anchor.X + sx*g.length/2, Y: g.anchor.Y + sy*g.length/2}
}

func (g squareGeometry) corners(degrees float64) []geom.Point {
	sx, sy := g.signs()
	dx, dy := sx*g.length, sy*g.length
	a := g.anchor
	pts := []geom.Point{
		a,
		{X: a.X + dx, Y: a.Y},
		{X: a.X + dx, Y: a.Y + dy},
		{X: a.X, Y: a.Y + dy},
	}
	geom.RotatePoints(pts, geom.RotationFromDegrees(degrees), g.center())
	return pts
}

// Square keeps a non-negative side length and records with negX/negY which
// quadrant, relative to the anchor, it extends into. Only the anchor is a
// handle: dragging it resizes the square.
type Square struct {
	base
	geometry squareGeometry
	pending  *squareGeometry
	colors   []Color
}

// NewSquare creates a square anchored at p extending towards +x,+y.
func NewSquare(p geom.Point, length float64, c Color) *Square {
	return &Square{
		base:     newBase(),
		geometry: squareGeometry{anchor: p, length: math.Abs(length)},
		colors:   uniform(c, 4),
	}
}

func (s *Square) Kind() Kind { return KindSquare }

func (s *Square) Anchor() geom.Point { return s.geometry.anchor }
func (s *Square) Length() float64    { return s.geometry.length }

// Quadrant returns the negX and negY flags.
func (s *Square) Quadrant() (bool, bool) { return s.geometry.negX, s.geometry.negY }

// SetQuadrant sets the direction the square extends from its anchor.
func (s *Square) SetQuadrant(negX, negY bool) {
	s.geometry.negX = negX
	s.geometry.negY = negY
	s.ResetPoints()
}

func (s *Square) HasPendingEdit() bool { return s.pending != nil }

func (s *Square) current() squareGeometry {
	if s.pending != nil {
		return *s.pending
	}
	return s.geometry
}

func (s *Square) Points() []geom.Point {
	if s.pending != nil {
		return s.pending.corners(s.rotationDegree)
	}
	return s.cachedPoints(func() []geom.Point {
		return s.geometry.corners(s.rotationDegree)
	})
}

// Handles exposes the anchor only.
func (s *Square) Handles() []geom.Point { return s.Points()[:1] }

func (s *Square) RotationPoint() geom.Point { return s.current().center() }

func (s *Square) Colors() []Color { return s.colors }

func (s *Square) SetColor(c Color) { s.colors = uniform(c, 4) }

func (s *Square) SetVertexColor(index int, c Color) { setVertexColor(s.colors, index, c) }

// SetColors replaces the per-corner colors. Extra entries are ignored.
func (s *Square) SetColors(colors []Color) {
	for i := 0; i < len(colors) && i < len(s.colors); i++ {
		s.colors[i] = colors[i]
	}
}

func (s *Square) IsSelected(p geom.Point) bool {
	return geom.IsPointInsideVertexes(p, s.Points(), 4)
}

func (s *Square) Translate(delta geom.Point) {
	geom.TranslatePoint(&s.geometry.anchor, delta)
	if s.pending != nil {
		geom.TranslatePoint(&s.pending.anchor, delta)
	}
	s.ResetPoints()
}

func (s *Square) SetRotation(degrees float64) {
	s.endRotation(degrees)
}

func (s *Square) SelectedPoint(pos geom.Point) (int, geom.Point) {
	return hitHandle(s.Handles(), pos)
}

func (s *Square) DragVertex(index int) { s.drag(index, s.Handles()) }

// TranslateVertex shifts the anchor by translation and shrinks the side by
// the horizontal component. A side that would go negative mirrors the square
// through the anchor instead.
func (s *Square) TranslateVertex(translation, _ geom.Point) {
	if s.draggedVertexIdx == -1 {
		return
	}

	d := geom.RotateVector(translation, geom.RotationFromDegrees(-s.rotationDegree))
	g := s.geometry
	sx, _ := g.signs()

	g.anchor.X += d.X
	g.anchor.Y += d.Y
	length := g.length - sx*d.X
	if length < 0 {
		g.negX = !g.negX
		g.negY = !g.negY
		length = -length
	}
	g.length = length

	s.pending = &g
}

func (s *Square) DoneTranslateVertex() {
	if s.pending == nil {
		return
	}
	s.geometry = *s.pending
	s.pending = nil
	s.ResetPoints()
}

// MoveDrawing sizes the square by the shorter of the two extents from the
// anchor to p, extending into p's quadrant.
func (s *Square) MoveDrawing(p geom.Point) {
	lx := p.X - s.geometry.anchor.X
	ly := p.Y - s.geometry.anchor.Y
	s.geometry.length = min(math.Abs(lx), math.Abs(ly))
	s.geometry.negX = lx < 0
	s.geometry.negY = ly < 0
	s.ResetPoints()
}

func (s *Square) FinishDrawingMove(p geom.Point) bool {
	s.MoveDrawing(p)
	return true
}

func (s *Square) FinishDrawing() { s.finishDrawing() }
