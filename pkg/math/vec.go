// Package math provides the geometry helpers shared by the scatter brushes.
//
// Computation happens in float64 with mgl64 types; stored point attributes
// use mgl32 and are converted at the boundary with Vec3To32/Vec3To64.
package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

// Epsilon is the tolerance used for degenerate length checks.
const Epsilon = 1e-9

// Canonical axes.
var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// Vec3To32 narrows a computation vector to a stored attribute vector.
func Vec3To32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Vec3To64 widens a stored attribute vector.
func Vec3To64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

// SafeNormalize returns the unit vector of v and false when v has no length.
func SafeNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l < Epsilon || gomath.IsNaN(l) || gomath.IsInf(l, 0) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// Normalize returns a unit vector, or the zero vector for zero input.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	n, _ := SafeNormalize(v)
	return n
}

// Normalize2 is Normalize for 2D vectors.
func Normalize2(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l < Epsilon {
		return mgl64.Vec2{}
	}
	return v.Mul(1 / l)
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates linearly between a and b.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// LerpVec3 interpolates linearly between two vectors.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// MulComponents multiplies two vectors component-wise.
func MulComponents(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Perpendicular returns a unit vector orthogonal to v.
func Perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	ref := AxisX
	if gomath.Abs(v[0]) > 0.9 {
		ref = AxisY
	}
	return Normalize(v.Cross(ref))
}

// ProjectOnPlane removes the component of v along the plane normal n.
func ProjectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// Angle returns the unsigned angle between a and b in radians.
func Angle(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la < Epsilon || lb < Epsilon {
		return 0
	}
	return gomath.Acos(Clamp(a.Dot(b)/(la*lb), -1, 1))
}

// SignedAngle returns the angle from a to b, positive when a×b points along axis.
func SignedAngle(a, b, axis mgl64.Vec3) float64 {
	angle := Angle(a, b)
	if a.Cross(b).Dot(axis) < 0 {
		return -angle
	}
	return angle
}

// RotationBetween returns the shortest rotation taking direction a onto b.
// Opposite directions rotate half a turn around any perpendicular axis.
func RotationBetween(a, b mgl64.Vec3) mgl64.Quat {
	na, okA := SafeNormalize(a)
	nb, okB := SafeNormalize(b)
	if !okA || !okB {
		return mgl64.QuatIdent()
	}
	d := na.Dot(nb)
	if d > 1-1e-12 {
		return mgl64.QuatIdent()
	}
	if d < -1+1e-12 {
		return mgl64.QuatRotate(gomath.Pi, Perpendicular(na))
	}
	axis := na.Cross(nb)
	q := mgl64.Quat{W: 1 + d, V: axis}
	return q.Normalize()
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b mgl64.Vec3) float64 {
	return b.Sub(a).Len()
}

// Distance2D returns the Euclidean distance between two screen points.
func Distance2D(a, b mgl64.Vec2) float64 {
	return b.Sub(a).Len()
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if gomath.IsNaN(c) || gomath.IsInf(c, 0) {
			return false
		}
	}
	return true
}
