package geom

// IsPointInsideVertexes reports whether point lies inside the closed polygon
// formed by the first toLength vertices (even-odd rule). The last edge wraps
// back to vertex 0. Fewer than three vertices never enclose anything.
//
// Horizontal edges never toggle the result, so a ray passing exactly through a
// vertex shared by two edges is counted once.
func IsPointInsideVertexes(point Point, vertices []Point, toLength int) bool {
	if toLength > len(vertices) {
		toLength = len(vertices)
	}
	if toLength < 3 {
		return false
	}

	inside := false
	x, y := point.X, point.Y
	p1x, p1y := vertices[0].X, vertices[0].Y
	for i := 0; i <= toLength; i++ {
		p2 := vertices[i%toLength]
		p2x, p2y := p2.X, p2.Y
		if y > min(p1y, p2y) && y <= max(p1y, p2y) && x <= max(p1x, p2x) && p1y != p2y {
			xinters := (y-p1y)*(p2x-p1x)/(p2y-p1y) + p1x
			if p1x == p2x || x <= xinters {
				inside = !inside
			}
		}
		p1x, p1y = p2x, p2y
	}
	return inside
}
