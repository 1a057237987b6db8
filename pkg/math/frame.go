package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// BasisToQuat builds the rotation whose columns are the given orthonormal axes.
func BasisToQuat(x, y, z mgl64.Vec3) mgl64.Quat {
	return Mat3ToQuat(mgl64.Mat3FromCols(x, y, z))
}

// Mat3ToQuat converts a rotation matrix to a unit quaternion (Shepperd's method).
func Mat3ToQuat(m mgl64.Mat3) mgl64.Quat {
	m00, m01, m02 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m10, m11, m12 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m20, m21, m22 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	var q mgl64.Quat
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 0.5 / gomath.Sqrt(trace+1)
		q = mgl64.Quat{W: 0.25 / s, V: mgl64.Vec3{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s}}
	case m00 > m11 && m00 > m22:
		s := 2 * gomath.Sqrt(1+m00-m11-m22)
		q = mgl64.Quat{W: (m21 - m12) / s, V: mgl64.Vec3{0.25 * s, (m01 + m10) / s, (m02 + m20) / s}}
	case m11 > m22:
		s := 2 * gomath.Sqrt(1+m11-m00-m22)
		q = mgl64.Quat{W: (m02 - m20) / s, V: mgl64.Vec3{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s}}
	default:
		s := 2 * gomath.Sqrt(1+m22-m00-m11)
		q = mgl64.Quat{W: (m10 - m01) / s, V: mgl64.Vec3{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s}}
	}
	return q.Normalize()
}

// Decompose splits an affine transform into translation, rotation and scale.
// A negative determinant is carried by the X scale.
func Decompose(m mgl64.Mat4) (loc mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) {
	loc = m.Col(3).Vec3()
	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	scale = mgl64.Vec3{c0.Len(), c1.Len(), c2.Len()}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}
	for i, s := range scale {
		if gomath.Abs(s) < Epsilon {
			scale[i] = Epsilon
		}
	}
	rm := mgl64.Mat3FromCols(c0.Mul(1/scale[0]), c1.Mul(1/scale[1]), c2.Mul(1/scale[2]))
	rot = Mat3ToQuat(rm)
	return loc, rot, scale
}

// Compose builds an affine transform from translation, rotation and scale.
func Compose(loc mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(loc[0], loc[1], loc[2]).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

// TransformPoint applies an affine transform to a point.
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDirection applies the linear part of m to a direction.
func TransformDirection(m mgl64.Mat4, d mgl64.Vec3) mgl64.Vec3 {
	return m.Mat3().Mul3x1(d)
}

// TransformNormal maps a normal through the inverse transpose of m and normalizes it.
func TransformNormal(m mgl64.Mat4, n mgl64.Vec3) mgl64.Vec3 {
	nm := m.Mat3().Inv().Transpose()
	return Normalize(nm.Mul3x1(n))
}

// AxisScale returns the length a unit vector along axis gets under m.
func AxisScale(m mgl64.Mat4, axis mgl64.Vec3) float64 {
	a, ok := SafeNormalize(axis)
	if !ok {
		return 1
	}
	return m.Mat3().Mul3x1(a).Len()
}

// RotationPart returns only the rotation of an affine transform.
func RotationPart(m mgl64.Mat4) mgl64.Quat {
	_, rot, _ := Decompose(m)
	return rot
}

// AllClose reports whether every element of a is within atol+rtol·|b| of
// the matching element of b.
func AllClose(a, b mgl64.Mat4, rtol, atol float64) bool {
	for i := range a {
		if gomath.Abs(a[i]-b[i]) > atol+rtol*gomath.Abs(b[i]) {
			return false
		}
	}
	return true
}
