package layout

import "math"

// Transform is a 2D placement transform. Application order is fixed by the
// stream formats: magnification, then mirror about the x axis, then rotation,
// then translation.
type Transform struct {
	Translation   Point
	Rotation      float64 // degrees, counterclockwise
	Mirror        bool    // reflect about the x axis before rotating
	Magnification float64 // uniform scale, 1.0 when unset
}

// Identity returns the no-op transform.
func Identity() Transform {
	return Transform{Magnification: 1}
}

// IsIdentity reports whether applying the transform leaves points unchanged.
func (t Transform) IsIdentity() bool {
	return t.Translation == Point{} && !t.Mirror &&
		normalizeAngle(t.Rotation) == 0 && t.mag() == 1
}

func (t Transform) mag() float64 {
	if t.Magnification == 0 {
		return 1
	}
	return t.Magnification
}

// Apply maps a point through the transform, rounding the result to the
// nearest database unit.
func (t Transform) Apply(p Point) Point {
	x := float64(p.X) * t.mag()
	y := float64(p.Y) * t.mag()
	if t.Mirror {
		y = -y
	}
	if a := normalizeAngle(t.Rotation); a != 0 {
		sin, cos := sincosDeg(a)
		x, y = x*cos-y*sin, x*sin+y*cos
	}
	return Point{
		X: int32(math.Round(x)) + t.Translation.X,
		Y: int32(math.Round(y)) + t.Translation.Y,
	}
}

// Compose returns the transform equivalent to applying inner first and then
// outer.
func Compose(outer, inner Transform) Transform {
	rot := inner.Rotation
	if outer.Mirror {
		rot = -rot
	}
	return Transform{
		Translation:   outer.Apply(inner.Translation),
		Rotation:      normalizeAngle(outer.Rotation + rot),
		Mirror:        outer.Mirror != inner.Mirror,
		Magnification: outer.mag() * inner.mag(),
	}
}

// normalizeAngle folds an angle into [0, 360).
func normalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// sincosDeg is exact for the rectilinear angles so that 90-degree placements
// stay on grid.
func sincosDeg(deg float64) (sin, cos float64) {
	switch deg {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	rad := deg * math.Pi / 180
	return math.Sin(rad), math.Cos(rad)
}
