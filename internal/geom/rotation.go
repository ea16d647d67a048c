package geom

import "math"

// Rotation is a unit vector (sin θ, cos θ). It is the form the renderer
// consumes as a uniform, so shapes keep rotations in this shape as well.
type Rotation struct {
	Sin float64
	Cos float64
}

// Identity is the zero-angle rotation.
var Identity = Rotation{Sin: 0, Cos: 1}

// RotationFromDegrees builds the rotation vector for an angle in degrees.
func RotationFromDegrees(degrees float64) Rotation {
	rad := degrees * 2 * math.Pi / 360
	return Rotation{Sin: math.Sin(rad), Cos: math.Cos(rad)}
}

// IsIdentity reports whether r leaves points unchanged (within epsilon).
func (r Rotation) IsIdentity() bool {
	const eps = 1e-12
	return math.Abs(r.Sin) < eps && math.Abs(r.Cos-1) < eps
}

// Inverse returns the rotation by the opposite angle.
func (r Rotation) Inverse() Rotation {
	return Rotation{Sin: -r.Sin, Cos: r.Cos}
}

// ToSlice returns [sin, cos] for JSON serialization.
func (r Rotation) ToSlice() []float64 {
	return []float64{r.Sin, r.Cos}
}

// RotatePoint rotates p in place about center. r must be a unit vector.
func RotatePoint(p *Point, r Rotation, center Point) {
	dx := p.X - center.X
	dy := p.Y - center.Y
	p.X = center.X + dx*r.Cos - dy*r.Sin
	p.Y = center.Y + dx*r.Sin + dy*r.Cos
}

// RotatePoints rotates every point of pts in place about center.
func RotatePoints(pts []Point, r Rotation, center Point) {
	if r.IsIdentity() {
		return
	}
	for i := range pts {
		RotatePoint(&pts[i], r, center)
	}
}

// RotateVector rotates a displacement (no center) and returns the result.
func RotateVector(d Point, r Rotation) Point {
	RotatePoint(&d, r, Point{})
	return d
}
