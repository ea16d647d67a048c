package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrientation(t *testing.T) {
	assert.Equal(t, Collinear, GetOrientation(Pt(0, 0), Pt(1, 1), Pt(2, 2)))
	assert.Equal(t, CounterClockwise, GetOrientation(Pt(0, 0), Pt(10, 0), Pt(10, 10)))
	assert.Equal(t, Clockwise, GetOrientation(Pt(0, 0), Pt(10, 10), Pt(10, 0)))
}

func TestConvexHullDropsInteriorPoint(t *testing.T) {
	in := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10), Pt(5, 5)}
	hull := ConvexHull(in)

	require.Len(t, hull, 4)
	assert.ElementsMatch(t, []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}, hull)
	assert.NotContains(t, hull, Pt(5, 5))
	// input untouched
	assert.Equal(t, Pt(5, 5), in[4])
}

func TestConvexHullDegenerate(t *testing.T) {
	assert.Empty(t, ConvexHull(nil))
	assert.Empty(t, ConvexHull([]Point{Pt(0, 0), Pt(1, 1)}))
	assert.Empty(t, ConvexHull([]Point{Pt(0, 0), Pt(1, 1), Pt(2, 2), Pt(3, 3)}))
}

func TestConvexHullCollinearEdgePoints(t *testing.T) {
	// (5,0) sits on the bottom edge and is discarded with the interior point.
	in := []Point{Pt(5, 0), Pt(10, 10), Pt(0, 0), Pt(10, 0), Pt(0, 10), Pt(4, 6)}
	hull := ConvexHull(in)
	assert.ElementsMatch(t, []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}, hull)
}

func TestConvexHullIndicesPivotFirstInInput(t *testing.T) {
	in := []Point{Pt(10, 10), Pt(0, 10), Pt(3, -2), Pt(10, 0)}
	idx := ConvexHullIndices(in)
	require.Len(t, idx, 4)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, idx)
	// popped order ends with the pivot
	assert.Equal(t, 2, idx[len(idx)-1])
}

func TestConvexHullOfConvexSet(t *testing.T) {
	// regular polygon, shuffled, plus interior points
	var extreme []Point
	for i := 0; i < 9; i++ {
		a := float64(i) * 2 * math.Pi / 9
		extreme = append(extreme, Pt(math.Round(100*math.Cos(a)), math.Round(100*math.Sin(a))))
	}
	in := []Point{extreme[4], extreme[0], Pt(1, 2), extreme[7], extreme[2], extreme[8],
		Pt(-20, 30), extreme[1], extreme[5], extreme[3], Pt(40, -10), extreme[6]}

	hull := ConvexHull(in)
	require.Len(t, hull, len(extreme))
	assert.ElementsMatch(t, extreme, hull)

	// consistent winding: every edge turns the same way
	for i := range hull {
		a, b, c := hull[i], hull[(i+1)%len(hull)], hull[(i+2)%len(hull)]
		assert.Equal(t, Clockwise, GetOrientation(a, b, c))
	}

	// every input point lies inside or on the hull
	for _, p := range in {
		for i := range hull {
			o := GetOrientation(hull[i], hull[(i+1)%len(hull)], p)
			assert.NotEqual(t, CounterClockwise, o, "point %v outside edge %d", p, i)
		}
	}
}
