package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polydraw/polydraw/backend-go/internal/geom"
)

var red = Color{255, 0, 0}

func assertPointsInDelta(t *testing.T, want, got []geom.Point) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-9, "point %d x", i)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-9, "point %d y", i)
	}
}

func TestColorHex(t *testing.T) {
	c, err := ParseHexColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, Color{255, 128, 0}, c)
	assert.Equal(t, "#ff8000", c.Hex())

	c, err = ParseHexColor("0a0b0c")
	require.NoError(t, err)
	assert.Equal(t, Color{10, 11, 12}, c)

	_, err = ParseHexColor("#fff")
	assert.Error(t, err)
	_, err = ParseHexColor("#gg0000")
	assert.Error(t, err)
}

func TestLineConstruction(t *testing.T) {
	l := NewLine(geom.Pt(0, 0), geom.Pt(0, 0), red)
	l.StartDrawing()
	require.True(t, l.IsDrawing())

	l.MoveDrawing(geom.Pt(10, 0))
	assert.True(t, l.FinishDrawingMove(geom.Pt(10, 0)))
	l.FinishDrawing()

	assert.False(t, l.IsDrawing())
	assert.True(t, l.IsSelected(geom.Pt(5, 0)))
	assert.True(t, l.IsSelected(geom.Pt(5, 4)))
	assert.False(t, l.IsSelected(geom.Pt(5, 50)))
	// beyond the endpoints, even when on the extended line
	assert.False(t, l.IsSelected(geom.Pt(20, 0)))
	assert.False(t, l.IsSelected(geom.Pt(-3, 0)))
	assert.Equal(t, 10.0, l.Length())
}

func TestLineZeroLengthHit(t *testing.T) {
	l := NewLine(geom.Pt(3, 3), geom.Pt(3, 3), red)
	assert.True(t, l.IsSelected(geom.Pt(5, 3)))
	assert.False(t, l.IsSelected(geom.Pt(30, 3)))
}

func TestLineRotationBakesIntoPoints(t *testing.T) {
	l := NewLine(geom.Pt(0, 0), geom.Pt(10, 0), red)

	l.SetRotation(90)
	assertPointsInDelta(t, []geom.Point{{X: 5, Y: -5}, {X: 5, Y: 5}}, l.Points())
	assert.Equal(t, 90.0, l.RotationDegree())
	assert.True(t, l.Rotation().IsIdentity())

	// absolute, not cumulative
	l.SetRotation(90)
	assertPointsInDelta(t, []geom.Point{{X: 5, Y: -5}, {X: 5, Y: 5}}, l.Points())

	l.SetRotation(0)
	assertPointsInDelta(t, []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, l.Points())
}

func TestLineVertexDrag(t *testing.T) {
	l := NewLine(geom.Pt(0, 0), geom.Pt(10, 0), red)

	idx, pt := l.SelectedPoint(geom.Pt(12, 3))
	require.Equal(t, 1, idx)
	assert.Equal(t, geom.Pt(10, 0), pt)

	l.DragVertex(idx)
	di, before, ok := l.DraggedVertex()
	require.True(t, ok)
	assert.Equal(t, 1, di)

	l.TranslateVertex(geom.Pt(0, 10), before)
	l.TranslateVertex(geom.Pt(5, 10), before)
	assert.Equal(t, []geom.Point{{X: 0, Y: 0}, {X: 15, Y: 10}}, l.Points())

	l.ReleaseDraggedVertex()
	_, _, ok = l.DraggedVertex()
	assert.False(t, ok)

	idx, _ = l.SelectedPoint(geom.Pt(50, 50))
	assert.Equal(t, -1, idx)
}

func TestPointsCacheInvalidation(t *testing.T) {
	l := NewLine(geom.Pt(0, 0), geom.Pt(10, 0), red)
	first := l.Points()
	assert.Equal(t, geom.Pt(0, 0), first[0])

	l.Translate(geom.Pt(1, 2))
	assert.Equal(t, []geom.Point{{X: 1, Y: 2}, {X: 11, Y: 2}}, l.Points())
}

func TestRectangleConstructionNormalizes(t *testing.T) {
	r := NewRectangle(geom.Pt(50, 50), 0, 0, red)
	r.StartDrawing()
	r.MoveDrawing(geom.Pt(30, 20))
	w, h := r.Size()
	assert.Equal(t, -20.0, w)
	assert.Equal(t, -30.0, h)

	assert.True(t, r.FinishDrawingMove(geom.Pt(30, 20)))
	r.FinishDrawing()

	w, h = r.Size()
	assert.Equal(t, geom.Pt(30, 20), r.Anchor())
	assert.Equal(t, 20.0, w)
	assert.Equal(t, 30.0, h)
	assert.True(t, r.IsSelected(geom.Pt(40, 40)))
	assert.False(t, r.IsSelected(geom.Pt(60, 40)))
}

func TestRectangleTopLeftDrag(t *testing.T) {
	r := NewRectangle(geom.Pt(0, 0), 10, 10, red)

	idx, _ := r.SelectedPoint(geom.Pt(1, 1))
	require.Equal(t, CornerTopLeft, idx)
	r.DragVertex(idx)
	_, before, _ := r.DraggedVertex()

	r.TranslateVertex(geom.Pt(5, 5), before)
	require.True(t, r.HasPendingEdit())
	// committed geometry untouched while the edit is pending
	assert.Equal(t, geom.Pt(0, 0), r.Anchor())
	assert.Equal(t, geom.Pt(5, 5), r.Points()[0])

	r.DoneTranslateVertex()
	r.ReleaseDraggedVertex()

	w, h := r.Size()
	assert.False(t, r.HasPendingEdit())
	assert.Equal(t, geom.Pt(5, 5), r.Anchor())
	assert.Equal(t, 5.0, w)
	assert.Equal(t, 5.0, h)
}

func TestRectangleCornerDrags(t *testing.T) {
	tests := []struct {
		name   string
		corner int
		delta  geom.Point
		anchor geom.Point
		w, h   float64
	}{
		{"top right grows", CornerTopRight, geom.Pt(5, -5), geom.Pt(0, -5), 15, 15},
		{"bottom right grows", CornerBottomRight, geom.Pt(3, 4), geom.Pt(0, 0), 13, 14},
		{"bottom left shrinks", CornerBottomLeft, geom.Pt(2, -2), geom.Pt(2, 0), 8, 8},
		{"top left crosses over", CornerTopLeft, geom.Pt(15, 12), geom.Pt(10, 10), 5, 2},
		{"bottom right crosses over", CornerBottomRight, geom.Pt(-30, -20), geom.Pt(-20, -10), 20, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRectangle(geom.Pt(0, 0), 10, 10, red)
			r.DragVertex(tt.corner)
			_, before, ok := r.DraggedVertex()
			require.True(t, ok)
			r.TranslateVertex(tt.delta, before)
			r.DoneTranslateVertex()

			w, h := r.Size()
			assert.Equal(t, tt.anchor, r.Anchor())
			assert.Equal(t, tt.w, w)
			assert.Equal(t, tt.h, h)
			assert.GreaterOrEqual(t, w, 0.0)
			assert.GreaterOrEqual(t, h, 0.0)
		})
	}
}

func TestRectangleNonNegativeAfterDragSequences(t *testing.T) {
	deltas := []geom.Point{{X: 25, Y: -3}, {X: -40, Y: 60}, {X: 7, Y: 7}, {X: -1, Y: -99}}
	r := NewRectangle(geom.Pt(10, 10), 20, 15, red)
	for i, d := range deltas {
		r.DragVertex(i % 4)
		_, before, _ := r.DraggedVertex()
		r.TranslateVertex(d, before)
		r.DoneTranslateVertex()
		r.ReleaseDraggedVertex()

		w, h := r.Size()
		assert.GreaterOrEqual(t, w, 0.0)
		assert.GreaterOrEqual(t, h, 0.0)
	}
}

func TestRectangleRotation(t *testing.T) {
	r := NewRectangle(geom.Pt(0, 0), 20, 10, red)
	r.SetRotation(90)

	assert.Equal(t, geom.Pt(10, 5), r.RotationPoint())
	assertPointsInDelta(t, []geom.Point{
		{X: 15, Y: -5}, {X: 15, Y: 15}, {X: 5, Y: 15}, {X: 5, Y: -5},
	}, r.Points())
	// hit test follows the rotated outline
	assert.True(t, r.IsSelected(geom.Pt(10, 13)))
	assert.False(t, r.IsSelected(geom.Pt(18, 5)))
}

func TestRectangleDragIgnoredWithoutVertex(t *testing.T) {
	r := NewRectangle(geom.Pt(0, 0), 10, 10, red)
	r.TranslateVertex(geom.Pt(5, 5), geom.Pt(0, 0))
	assert.False(t, r.HasPendingEdit())
	r.DoneTranslateVertex()
	assert.Equal(t, geom.Pt(0, 0), r.Anchor())
}

func TestSquareConstruction(t *testing.T) {
	s := NewSquare(geom.Pt(100, 100), 0, red)
	s.StartDrawing()
	s.MoveDrawing(geom.Pt(70, 140))
	assert.True(t, s.FinishDrawingMove(geom.Pt(70, 140)))
	s.FinishDrawing()

	negX, negY := s.Quadrant()
	assert.True(t, negX)
	assert.False(t, negY)
	assert.Equal(t, 30.0, s.Length())
	assertPointsInDelta(t, []geom.Point{
		{X: 100, Y: 100}, {X: 70, Y: 100}, {X: 70, Y: 130}, {X: 100, Y: 130},
	}, s.Points())
	assert.Equal(t, geom.Pt(85, 115), s.RotationPoint())
	assert.True(t, s.IsSelected(geom.Pt(80, 110)))
}

func TestSquareSingleHandle(t *testing.T) {
	s := NewSquare(geom.Pt(0, 0), 10, red)
	assert.Len(t, s.Handles(), 1)
	assert.Len(t, s.Points(), 4)

	idx, _ := s.SelectedPoint(geom.Pt(10, 10))
	assert.Equal(t, -1, idx)
	idx, _ = s.SelectedPoint(geom.Pt(1, -2))
	assert.Equal(t, 0, idx)
}

func TestSquareResize(t *testing.T) {
	s := NewSquare(geom.Pt(0, 0), 10, red)
	s.DragVertex(0)
	_, before, _ := s.DraggedVertex()

	s.TranslateVertex(geom.Pt(4, 4), before)
	require.True(t, s.HasPendingEdit())
	assert.Equal(t, 10.0, s.Length())

	s.DoneTranslateVertex()
	assert.Equal(t, geom.Pt(4, 4), s.Anchor())
	assert.Equal(t, 6.0, s.Length())
}

func TestSquareResizePastOppositeSideMirrors(t *testing.T) {
	s := NewSquare(geom.Pt(0, 0), 10, red)
	s.DragVertex(0)
	_, before, _ := s.DraggedVertex()
	s.TranslateVertex(geom.Pt(15, 0), before)
	s.DoneTranslateVertex()

	negX, negY := s.Quadrant()
	assert.True(t, negX)
	assert.True(t, negY)
	assert.Equal(t, 5.0, s.Length())
	// far side stays where it was
	assert.InDelta(t, 10.0, s.Points()[1].X, 1e-9)
}

func TestPolygonConvexHullDropsInterior(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 5, Y: 5}}
	p := NewPolygon(VerticesOf(pts, red))
	p.UpdateConvexHull()

	assert.ElementsMatch(t, pts[:4], p.Points())
	assert.NotContains(t, p.Points(), geom.Pt(5, 5))
	assert.Len(t, p.Colors(), 4)
}

func TestPolygonColorsFollowVertices(t *testing.T) {
	blue := Color{0, 0, 255}
	p := NewPolygon([]Vertex{
		{Point: geom.Pt(0, 0), Color: red},
		{Point: geom.Pt(5, 5), Color: Black},
		{Point: geom.Pt(10, 0), Color: blue},
		{Point: geom.Pt(10, 10), Color: White},
		{Point: geom.Pt(0, 10), Color: Yellow},
	})
	p.UpdateConvexHull()

	for _, v := range p.Vertices() {
		switch v.Point {
		case geom.Pt(0, 0):
			assert.Equal(t, red, v.Color)
		case geom.Pt(10, 0):
			assert.Equal(t, blue, v.Color)
		case geom.Pt(10, 10):
			assert.Equal(t, White, v.Color)
		case geom.Pt(0, 10):
			assert.Equal(t, Yellow, v.Color)
		default:
			t.Fatalf("unexpected vertex %v", v.Point)
		}
	}
}

func TestPolygonAddPointDuplicatesLastColor(t *testing.T) {
	p := NewPolygon([]Vertex{{Point: geom.Pt(0, 0), Color: red}})
	p.AddPoint(geom.Pt(3, 3))
	assert.Equal(t, []Color{red, red}, p.Colors())
}

func TestPolygonDeletePoint(t *testing.T) {
	square := VerticesOf([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, red)

	p := NewPolygon(square)
	require.NoError(t, p.DeletePoint(2))
	assert.Equal(t, 3, p.Len())
	assert.Len(t, p.Colors(), 3)
	assert.NotContains(t, p.Points(), geom.Pt(10, 10))

	// refuses to go below three vertices
	require.NoError(t, p.DeletePoint(0))
	assert.Equal(t, 3, p.Len())

	err := p.DeletePoint(3)
	assert.ErrorIs(t, err, ErrVertexOutOfRange)
	err = p.DeletePoint(-1)
	assert.ErrorIs(t, err, ErrVertexOutOfRange)
	assert.Equal(t, 3, p.Len())
}

func TestPolygonDrawing(t *testing.T) {
	p := NewPolygon([]Vertex{{Point: geom.Pt(0, 0), Color: red}})
	p.StartDrawing()

	p.MoveDrawing(geom.Pt(10, 0))
	next, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, geom.Pt(10, 0), next)

	assert.False(t, p.FinishDrawingMove(geom.Pt(10, 0)))
	assert.False(t, p.FinishDrawingMove(geom.Pt(10, 10)))
	assert.False(t, p.FinishDrawingMove(geom.Pt(0, 10)))
	assert.Equal(t, 4, p.Len())

	// clicking inside closes the loop
	assert.True(t, p.FinishDrawingMove(geom.Pt(4, 4)))
	p.FinishDrawing()

	assert.False(t, p.IsDrawing())
	_, ok = p.Next()
	assert.False(t, ok)
	assert.Equal(t, 4, p.Len())
}

func TestPolygonIsSelectedPrefix(t *testing.T) {
	p := NewPolygon(VerticesOf([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, red))
	assert.True(t, p.IsSelectedPrefix(geom.Pt(8, 2), 3))
	assert.False(t, p.IsSelectedPrefix(geom.Pt(2, 8), 3))
	assert.True(t, p.IsSelected(geom.Pt(2, 8)))
	assert.False(t, p.IsSelectedPrefix(geom.Pt(5, 1), 2))
}

func TestPolygonVertexDragCommitsHull(t *testing.T) {
	p := NewPolygon(VerticesOf([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, red))

	idx, _ := p.SelectedPoint(geom.Pt(10, 10))
	require.NotEqual(t, -1, idx)
	p.SelectVertex(idx)
	p.DragVertex(idx)
	_, before, _ := p.DraggedVertex()

	// drag the corner into the interior; the hull drops it on commit
	p.TranslateVertex(geom.Pt(-7, -7), before)
	assert.Contains(t, p.Points(), geom.Pt(3, 3))
	p.DoneTranslateVertex()
	p.ReleaseDraggedVertex()

	assert.Equal(t, 3, p.Len())
	assert.NotContains(t, p.Points(), geom.Pt(3, 3))
	assert.Len(t, p.Colors(), 3)
}

func TestPolygonHullKeepsSelection(t *testing.T) {
	p := NewPolygon(VerticesOf([]geom.Point{{X: 10, Y: 10}, {X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 20, Y: 5}}, red))
	p.SelectVertex(4)
	p.UpdateConvexHull()

	require.NotEqual(t, -1, p.SelectedVertex())
	assert.Equal(t, geom.Pt(20, 5), p.Points()[p.SelectedVertex()])
}

func TestPolygonInsertAndChangePoint(t *testing.T) {
	p := NewPolygon(VerticesOf([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, red))

	idx := p.InsertPoint(geom.Pt(5, 1))
	assert.Equal(t, 1, idx)
	assert.Equal(t, 5, p.Len())
	assert.Equal(t, geom.Pt(5, 1), p.Points()[1])

	p.ChangePoint(geom.Pt(5, 1), geom.Pt(5, -10))
	assert.Equal(t, 5, p.Len())
	assert.Contains(t, p.Points(), geom.Pt(5, -10))

	// unknown points are ignored
	p.ChangePoint(geom.Pt(99, 99), geom.Pt(0, 0))
	assert.Equal(t, 5, p.Len())
}

func TestPolygonRotationAboutFirstVertex(t *testing.T) {
	p := NewPolygon(VerticesOf([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, red))
	p.SetRotation(180)
	assertPointsInDelta(t, []geom.Point{{X: 0, Y: 0}, {X: -10, Y: 0}, {X: -10, Y: -10}}, p.Points())
	assert.Equal(t, 180.0, p.RotationDegree())
}

func TestDrawableVariants(t *testing.T) {
	shapes := []Drawable{
		NewLine(geom.Pt(0, 0), geom.Pt(1, 1), red),
		NewRectangle(geom.Pt(0, 0), 1, 1, red),
		NewSquare(geom.Pt(0, 0), 1, red),
		NewPolygon(VerticesOf([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, red)),
	}
	kinds := []Kind{KindLine, KindRectangle, KindSquare, KindPolygon}
	for i, d := range shapes {
		assert.Equal(t, kinds[i], d.Kind())
		assert.Len(t, d.Colors(), len(d.Points()))
		assert.Equal(t, 1.0, d.Scale())
		assert.Equal(t, -1, d.SelectedVertex())

		d.SetVertexColor(0, Black)
		assert.Equal(t, Black, d.Colors()[0])
		d.SetVertexColor(99, Black)
		d.SetColor(White)
		for _, c := range d.Colors() {
			assert.Equal(t, White, c)
		}
	}
}
