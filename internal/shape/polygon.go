package shape

import (
	"fmt"
	"slices"

	"github.com/polydraw/polydraw/backend-go/internal/geom"
)

// Vertex is a polygon corner together with its color.
type Vertex struct {
	Point geom.Point `json:"point"`
	Color Color      `json:"color"`
}

// VerticesOf pairs every point with the same color.
func VerticesOf(points []geom.Point, c Color) []Vertex {
	vs := make([]Vertex, len(points))
	for i, p := range points {
		vs[i] = Vertex{Point: p, Color: c}
	}
	return vs
}

// Polygon is an ordered vertex list kept as the convex hull of the points the
// user placed. Rotation is baked into the vertices, pivoting on the first one.
type Polygon struct {
	base
	vertices []Vertex
	// next is the pointer position previewed as the upcoming vertex while
	// the polygon is being drawn.
	next *geom.Point
}

// NewPolygon creates a polygon from vs. The slice is copied.
func NewPolygon(vs []Vertex) *Polygon {
	return &Polygon{
		base:     newBase(),
		vertices: slices.Clone(vs),
	}
}

func (p *Polygon) Kind() Kind { return KindPolygon }

// Vertices returns a copy of the vertex list.
func (p *Polygon) Vertices() []Vertex { return slices.Clone(p.vertices) }

func (p *Polygon) Len() int { return len(p.vertices) }

// Next returns the previewed next vertex while drawing.
func (p *Polygon) Next() (geom.Point, bool) {
	if p.next == nil {
		return geom.Point{}, false
	}
	return *p.next, true
}

func (p *Polygon) Points() []geom.Point {
	return p.cachedPoints(func() []geom.Point {
		pts := make([]geom.Point, len(p.vertices))
		for i, v := range p.vertices {
			pts[i] = v.Point
		}
		return pts
	})
}

func (p *Polygon) Handles() []geom.Point { return p.Points() }

func (p *Polygon) RotationPoint() geom.Point {
	if len(p.vertices) == 0 {
		return geom.Point{}
	}
	return p.vertices[0].Point
}

func (p *Polygon) Colors() []Color {
	colors := make([]Color, len(p.vertices))
	for i, v := range p.vertices {
		colors[i] = v.Color
	}
	return colors
}

func (p *Polygon) SetColor(c Color) {
	for i := range p.vertices {
		p.vertices[i].Color = c
	}
}

func (p *Polygon) SetVertexColor(index int, c Color) {
	if index < 0 || index >= len(p.vertices) {
		return
	}
	p.vertices[index].Color = c
}

func (p *Polygon) IsSelected(pt geom.Point) bool {
	return p.IsSelectedPrefix(pt, len(p.vertices))
}

// IsSelectedPrefix tests pt against the polygon closed over its first
// toLength vertices.
func (p *Polygon) IsSelectedPrefix(pt geom.Point, toLength int) bool {
	return geom.IsPointInsideVertexes(pt, p.Points(), toLength)
}

func (p *Polygon) Translate(delta geom.Point) {
	for i := range p.vertices {
		geom.TranslatePoint(&p.vertices[i].Point, delta)
	}
	if p.next != nil {
		geom.TranslatePoint(p.next, delta)
	}
	p.ResetPoints()
}

func (p *Polygon) SetRotation(degrees float64) {
	if rot, ok := p.beginRotation(degrees); ok {
		center := p.RotationPoint()
		for i := range p.vertices {
			geom.RotatePoint(&p.vertices[i].Point, rot, center)
		}
	}
	p.endRotation(degrees)
}

// AddPoint appends a vertex colored like the current last vertex.
func (p *Polygon) AddPoint(pt geom.Point) {
	c := Black
	if n := len(p.vertices); n > 0 {
		c = p.vertices[n-1].Color
	}
	p.vertices = append(p.vertices, Vertex{Point: pt, Color: c})
	p.ResetPoints()
}

// InsertPoint inserts pt after the start of the edge closest to it, taking
// that vertex's color, and returns the new vertex index. The hull is not
// recomputed, so an interior point survives until the next drag commit.
func (p *Polygon) InsertPoint(pt geom.Point) int {
	n := len(p.vertices)
	if n < 2 {
		p.AddPoint(pt)
		return len(p.vertices) - 1
	}

	best, bestDist := 0, -1.0
	for i := 0; i < n; i++ {
		d := segmentDistanceSquared(pt, p.vertices[i].Point, p.vertices[(i+1)%n].Point)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}

	v := Vertex{Point: pt, Color: p.vertices[best].Color}
	p.vertices = slices.Insert(p.vertices, best+1, v)
	p.ResetPoints()
	return best + 1
}

// DeletePoint removes the vertex at index and re-normalizes the hull. It is a
// no-op on a polygon with fewer than four vertices.
func (p *Polygon) DeletePoint(index int) error {
	if index < 0 || index >= len(p.vertices) {
		return fmt.Errorf("delete polygon vertex %d of %d: %w", index, len(p.vertices), ErrVertexOutOfRange)
	}
	if len(p.vertices) < 4 {
		return nil
	}

	p.vertices = slices.Delete(p.vertices, index, index+1)
	p.DeselectVertex()
	p.ReleaseDraggedVertex()
	p.UpdateConvexHull()
	return nil
}

// ChangePoint moves the first vertex located at from to the position to, then
// re-normalizes the hull. Unknown points are ignored.
func (p *Polygon) ChangePoint(from, to geom.Point) {
	idx := slices.IndexFunc(p.vertices, func(v Vertex) bool { return v.Point == from })
	if idx == -1 {
		return
	}
	p.vertices[idx].Point = to
	p.UpdateConvexHull()
}

// UpdateConvexHull replaces the vertex list with its convex hull when there
// are more than three vertices. Degenerate input leaves the list untouched.
// A selected vertex stays selected at its new position in the list.
func (p *Polygon) UpdateConvexHull() {
	if len(p.vertices) <= 3 {
		p.ResetPoints()
		return
	}

	order := geom.ConvexHullIndices(p.Points())
	if len(order) == 0 {
		return
	}

	selected := p.selectedVertexIdx
	hull := make([]Vertex, len(order))
	newSelected := -1
	for i, j := range order {
		hull[i] = p.vertices[j]
		if j == selected {
			newSelected = i
		}
	}
	p.vertices = hull
	p.selectedVertexIdx = newSelected
	p.ResetPoints()
}

func (p *Polygon) SelectedPoint(pos geom.Point) (int, geom.Point) {
	return hitHandle(p.Handles(), pos)
}

func (p *Polygon) DragVertex(index int) { p.drag(index, p.Handles()) }

// TranslateVertex moves the dragged vertex to beforeLoc+translation in place.
func (p *Polygon) TranslateVertex(translation, beforeLoc geom.Point) {
	if p.draggedVertexIdx == -1 || p.draggedVertexIdx >= len(p.vertices) {
		return
	}
	p.vertices[p.draggedVertexIdx].Point = beforeLoc.Add(translation)
	p.ResetPoints()
}

func (p *Polygon) DoneTranslateVertex() {
	p.UpdateConvexHull()
}

// MoveDrawing previews pt as the next vertex.
func (p *Polygon) MoveDrawing(pt geom.Point) {
	p.next = &pt
}

// FinishDrawingMove closes the polygon when pt lands inside it, otherwise pt
// becomes a new vertex and drawing continues.
func (p *Polygon) FinishDrawingMove(pt geom.Point) bool {
	if p.IsSelected(pt) {
		p.next = nil
		return true
	}
	p.AddPoint(pt)
	if len(p.vertices) > 3 {
		p.UpdateConvexHull()
	}
	return false
}

func (p *Polygon) FinishDrawing() {
	p.next = nil
	p.finishDrawing()
	p.UpdateConvexHull()
}

func segmentDistanceSquared(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.DistanceSquared(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = max(0, min(1, t))
	proj := geom.Point{X: a.X + t*ab.X, Y: a.Y + t*ab.Y}
	return p.DistanceSquared(proj)
}
