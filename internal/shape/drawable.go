package shape

import (
	"errors"

	"github.com/polydraw/polydraw/backend-go/internal/geom"
)

// Kind discriminates the closed set of shape variants.
type Kind string

const (
	KindLine      Kind = "line"
	KindRectangle Kind = "rectangle"
	KindSquare    Kind = "square"
	KindPolygon   Kind = "polygon"
)

const (
	// HandleSize is the side of the square hitbox around a vertex handle.
	HandleSize = 10.0
	// LineTolerance is how far from a line a click may land and still select it.
	LineTolerance = 5.0
)

// ErrVertexOutOfRange is returned when a caller addresses a vertex that does
// not exist. It signals misuse rather than a recoverable condition.
var ErrVertexOutOfRange = errors.New("vertex index out of range")

// Drawable is the contract shared by every shape variant.
//
// Slices returned by Points, Handles and Colors must not be modified by the
// caller; Points in particular may be the shape's memoized copy.
type Drawable interface {
	Kind() Kind

	// Points returns the derived vertices in their current rotated,
	// translated state.
	Points() []geom.Point
	// Handles returns the vertices the user may grab. For most shapes this is
	// Points; a square only exposes its anchor.
	Handles() []geom.Point
	RotationPoint() geom.Point
	// Rotation is the instantaneous rotation still to be applied by the
	// renderer. It is the identity whenever the shape is at rest.
	Rotation() geom.Rotation
	RotationDegree() float64
	Scale() float64
	// Colors returns one color per rendered vertex.
	Colors() []Color

	IsSelected(p geom.Point) bool
	Translate(delta geom.Point)
	SetRotation(degrees float64)
	// RestoreRotation records degrees as the applied rotation without
	// touching geometry. Documents store geometry with the rotation applied.
	RestoreRotation(degrees float64)
	SetColor(c Color)
	SetVertexColor(index int, c Color)

	SelectedPoint(pos geom.Point) (int, geom.Point)
	SelectVertex(index int)
	DeselectVertex()
	SelectedVertex() int
	DragVertex(index int)
	DraggedVertex() (int, geom.Point, bool)
	ReleaseDraggedVertex()
	TranslateVertex(translation, beforeLoc geom.Point)
	DoneTranslateVertex()

	MoveDrawing(p geom.Point)
	FinishDrawingMove(p geom.Point) bool
	FinishDrawing()
	StartDrawing()
	IsDrawing() bool

	ResetPoints()
}

// base carries the state common to all variants.
type base struct {
	rotation       geom.Rotation
	rotationDegree float64
	scale          float64

	pointsCache []geom.Point

	selectedVertexIdx int
	draggedVertexIdx  int
	draggedVertex     *geom.Point

	drawing bool
}

func newBase() base {
	return base{
		rotation:          geom.Identity,
		scale:             1,
		selectedVertexIdx: -1,
		draggedVertexIdx:  -1,
	}
}

func (b *base) cachedPoints(derive func() []geom.Point) []geom.Point {
	if b.pointsCache == nil {
		b.pointsCache = derive()
	}
	return b.pointsCache
}

// ResetPoints drops the memoized derived points.
func (b *base) ResetPoints() {
	b.pointsCache = nil
}

func (b *base) Rotation() geom.Rotation { return b.rotation }
func (b *base) RotationDegree() float64 { return b.rotationDegree }
func (b *base) Scale() float64          { return b.scale }
func (b *base) IsDrawing() bool         { return b.drawing }

// StartDrawing marks the shape as under interactive construction.
func (b *base) StartDrawing() { b.drawing = true }

func (b *base) RestoreRotation(degrees float64) {
	b.rotation = geom.Identity
	b.rotationDegree = degrees
	b.pointsCache = nil
}

// beginRotation computes the incremental rotation from the last applied
// angle to target and stores it as the instantaneous rotation.
func (b *base) beginRotation(target float64) (geom.Rotation, bool) {
	diff := target - b.rotationDegree
	if diff == 0 {
		return geom.Identity, false
	}
	b.rotation = geom.RotationFromDegrees(diff)
	return b.rotation, true
}

// endRotation resets the instantaneous rotation once it has been baked in.
func (b *base) endRotation(target float64) {
	b.rotation = geom.Identity
	b.rotationDegree = target
	b.pointsCache = nil
}

func (b *base) SelectVertex(index int) {
	if index < -1 {
		index = -1
	}
	b.selectedVertexIdx = index
}

func (b *base) DeselectVertex() {
	b.selectedVertexIdx = -1
}

func (b *base) SelectedVertex() int {
	return b.selectedVertexIdx
}

func (b *base) DraggedVertex() (int, geom.Point, bool) {
	if b.draggedVertexIdx == -1 || b.draggedVertex == nil {
		return -1, geom.Point{}, false
	}
	return b.draggedVertexIdx, *b.draggedVertex, true
}

func (b *base) ReleaseDraggedVertex() {
	b.draggedVertexIdx = -1
	b.draggedVertex = nil
}

// drag starts dragging handles[index], remembering where it started.
func (b *base) drag(index int, handles []geom.Point) {
	if index < 0 || index >= len(handles) {
		return
	}
	p := handles[index]
	b.draggedVertexIdx = index
	b.draggedVertex = &p
}

func (b *base) finishDrawing() {
	b.drawing = false
}

// hitHandle returns the first handle whose hitbox contains pos.
func hitHandle(handles []geom.Point, pos geom.Point) (int, geom.Point) {
	const half = HandleSize / 2
	for i, p := range handles {
		if pos.X >= p.X-half && pos.X <= p.X+half &&
			pos.Y >= p.Y-half && pos.Y <= p.Y+half {
			return i, p
		}
	}
	return -1, geom.Point{}
}

func setVertexColor(colors []Color, index int, c Color) {
	if index < 0 || index >= len(colors) {
		return
	}
	colors[index] = c
}
