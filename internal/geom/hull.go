package geom

import "slices"

// Orientation classifies an ordered triplet of points.
type Orientation int

const (
	Collinear        Orientation = 0
	Clockwise        Orientation = 1
	CounterClockwise Orientation = 2
)

// GetOrientation returns the orientation of the triplet (p, q, r) from the
// sign of (q-p)×(r-q).
func GetOrientation(p, q, r Point) Orientation {
	val := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
	switch {
	case val == 0:
		return Collinear
	case val > 0:
		return Clockwise
	default:
		return CounterClockwise
	}
}

// ConvexHull returns the convex hull of points using a Graham scan. The input
// slice is not modified. The result is empty when fewer than three points
// remain after collinear runs are collapsed.
func ConvexHull(points []Point) []Point {
	idx := ConvexHullIndices(points)
	if len(idx) == 0 {
		return nil
	}
	hull := make([]Point, len(idx))
	for i, j := range idx {
		hull[i] = points[j]
	}
	return hull
}

// ConvexHullIndices is ConvexHull but returns indexes into points, so callers
// holding data parallel to the points can reorder it alongside.
func ConvexHullIndices(points []Point) []int {
	n := len(points)
	if n < 3 {
		return nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	// Bottom-most point, leftmost on ties, becomes the pivot.
	lowest := 0
	for i := 1; i < n; i++ {
		p, l := points[i], points[lowest]
		if p.Y < l.Y || (p.Y == l.Y && p.X < l.X) {
			lowest = i
		}
	}
	order[0], order[lowest] = order[lowest], order[0]
	p0 := points[order[0]]

	// Ascending polar angle around p0; collinear points nearest first so the
	// farthest one closes each run.
	slices.SortStableFunc(order[1:], func(a, b int) int {
		pa, pb := points[a], points[b]
		switch GetOrientation(p0, pa, pb) {
		case Collinear:
			da, db := p0.DistanceSquared(pa), p0.DistanceSquared(pb)
			switch {
			case da < db:
				return -1
			case da > db:
				return 1
			}
			return 0
		case CounterClockwise:
			return -1
		default:
			return 1
		}
	})

	// Keep only the farthest point of every run sharing an angle with p0.
	m := 1
	for i := 1; i < n; i++ {
		for i < n-1 && GetOrientation(p0, points[order[i]], points[order[i+1]]) == Collinear {
			i++
		}
		order[m] = order[i]
		m++
	}
	if m < 3 {
		return nil
	}

	stack := []int{order[0], order[1], order[2]}
	for i := 3; i < m; i++ {
		next := points[order[i]]
		for len(stack) >= 2 {
			top := points[stack[len(stack)-1]]
			nextToTop := points[stack[len(stack)-2]]
			if GetOrientation(nextToTop, top, next) == CounterClockwise {
				break
			}
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, order[i])
	}

	slices.Reverse(stack)
	return stack
}
