package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// TriangleNormal returns the unit normal of abc (counter-clockwise winding).
func TriangleNormal(a, b, c mgl64.Vec3) mgl64.Vec3 {
	return Normalize(b.Sub(a).Cross(c.Sub(a)))
}

// TriangleArea returns the area of abc.
func TriangleArea(a, b, c mgl64.Vec3) float64 {
	return 0.5 * b.Sub(a).Cross(c.Sub(a)).Len()
}

// TriangleArea2D returns the signed area of a 2D triangle (positive when counter-clockwise).
func TriangleArea2D(a, b, c mgl64.Vec2) float64 {
	return 0.5 * ((b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1]))
}

// Barycentric returns the weights of a, b and c for point p in the triangle's plane.
func Barycentric(p, a, b, c mgl64.Vec3) mgl64.Vec3 {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	denom := d00*d11 - d01*d01
	if gomath.Abs(denom) < 1e-18 {
		return mgl64.Vec3{1, 0, 0}
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	return mgl64.Vec3{1 - v - w, v, w}
}

// ClosestPointOnTriangle returns the point of abc nearest to p
// (Ericson, Real-Time Collision Detection 5.1.5).
func ClosestPointOnTriangle(p, a, b, c mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// SampleTriangle maps two uniform numbers in [0,1) to a uniformly distributed
// point inside abc.
func SampleTriangle(a, b, c mgl64.Vec3, r1, r2 float64) mgl64.Vec3 {
	if r1+r2 > 1 {
		r1, r2 = 1-r1, 1-r2
	}
	return a.Add(b.Sub(a).Mul(r1)).Add(c.Sub(a).Mul(r2))
}
