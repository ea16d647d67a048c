package shape

import (
	"math"

	"github.com/polydraw/polydraw/backend-go/internal/geom"
)

// Line is a segment between two points. Rotation is baked into the points.
type Line struct {
	base
	points [2]geom.Point
	colors []Color
	length float64
}

// NewLine creates a finished line from a to b.
func NewLine(a, b geom.Point, c Color) *Line {
	l := &Line{
		base:   newBase(),
		points: [2]geom.Point{a, b},
		colors: uniform(c, 2),
	}
	l.updateLength()
	return l
}

func (l *Line) Kind() Kind { return KindLine }

// Endpoints returns the two stored points.
func (l *Line) Endpoints() (geom.Point, geom.Point) {
	return l.points[0], l.points[1]
}

func (l *Line) Length() float64 { return l.length }

func (l *Line) Points() []geom.Point {
	return l.cachedPoints(func() []geom.Point {
		return []geom.Point{l.points[0], l.points[1]}
	})
}

func (l *Line) Handles() []geom.Point { return l.Points() }

func (l *Line) RotationPoint() geom.Point {
	return geom.Midpoint(l.points[0], l.points[1])
}

func (l *Line) Colors() []Color { return l.colors }

func (l *Line) SetColor(c Color) { l.colors = uniform(c, 2) }

func (l *Line) SetVertexColor(index int, c Color) { setVertexColor(l.colors, index, c) }

// SetColors replaces the per-endpoint colors. Extra entries are ignored.
func (l *Line) SetColors(colors []Color) {
	for i := 0; i < len(colors) && i < len(l.colors); i++ {
		l.colors[i] = colors[i]
	}
}

// IsSelected reports whether p is within LineTolerance of the segment. Points
// projecting beyond either endpoint never match, so the infinite extension of
// the line is not selectable.
func (l *Line) IsSelected(p geom.Point) bool {
	a, b := l.points[0], l.points[1]
	if l.length == 0 {
		return p.Distance(a) <= LineTolerance
	}

	da := p.Distance(a)
	db := p.Distance(b)
	if da == 0 || db == 0 {
		return true
	}

	// Law of cosines: an obtuse angle at an endpoint puts p past that end.
	cosA := (da*da + l.length*l.length - db*db) / (2 * da * l.length)
	cosB := (db*db + l.length*l.length - da*da) / (2 * db * l.length)
	if cosA < 0 || cosB < 0 {
		return false
	}

	dist := math.Abs((b.X-a.X)*(a.Y-p.Y)-(a.X-p.X)*(b.Y-a.Y)) / l.length
	return dist <= LineTolerance
}

func (l *Line) Translate(delta geom.Point) {
	geom.TranslatePoint(&l.points[0], delta)
	geom.TranslatePoint(&l.points[1], delta)
	l.ResetPoints()
}

func (l *Line) SetRotation(degrees float64) {
	if rot, ok := l.beginRotation(degrees); ok {
		center := l.RotationPoint()
		geom.RotatePoint(&l.points[0], rot, center)
		geom.RotatePoint(&l.points[1], rot, center)
	}
	l.endRotation(degrees)
}

func (l *Line) SelectedPoint(pos geom.Point) (int, geom.Point) {
	return hitHandle(l.Handles(), pos)
}

func (l *Line) DragVertex(index int) { l.drag(index, l.Handles()) }

// TranslateVertex moves the dragged endpoint to beforeLoc+translation.
func (l *Line) TranslateVertex(translation, beforeLoc geom.Point) {
	if l.draggedVertexIdx == -1 {
		return
	}
	l.points[l.draggedVertexIdx] = beforeLoc.Add(translation)
	l.updateLength()
	l.ResetPoints()
}

func (l *Line) DoneTranslateVertex() {}

func (l *Line) MoveDrawing(p geom.Point) {
	l.points[1] = p
	l.updateLength()
	l.ResetPoints()
}

// FinishDrawingMove places the second endpoint; a line is complete after it.
func (l *Line) FinishDrawingMove(p geom.Point) bool {
	l.MoveDrawing(p)
	return true
}

func (l *Line) FinishDrawing() { l.finishDrawing() }

func (l *Line) updateLength() {
	l.length = l.points[0].Distance(l.points[1])
}
