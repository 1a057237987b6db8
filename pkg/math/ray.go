package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3 // Normalized direction
}

// NewRay creates a ray, normalizing the direction.
func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: Normalize(direction)}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectTriangle tests the ray against triangle abc from both sides
// (Möller–Trumbore). It returns the distance and the barycentric weights
// of b and c at the hit.
func (r Ray) IntersectTriangle(a, b, c mgl64.Vec3) (t, u, v float64, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if gomath.Abs(det) < 1e-14 {
		return 0, 0, 0, false // Ray parallel to triangle
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u = s.Dot(p) * inv
	if u < -1e-12 || u > 1+1e-12 {
		return 0, 0, 0, false
	}
	q := s.Cross(e1)
	v = r.Direction.Dot(q) * inv
	if v < -1e-12 || u+v > 1+1e-12 {
		return 0, 0, 0, false
	}
	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, 0, 0, false // Intersection behind ray origin
	}
	return t, u, v, true
}

// IntersectPlane intersects the ray with the plane through point with normal n.
func (r Ray) IntersectPlane(point, n mgl64.Vec3) (mgl64.Vec3, bool) {
	denom := r.Direction.Dot(n)
	if gomath.Abs(denom) < 1e-12 {
		return mgl64.Vec3{}, false // Ray parallel to plane
	}
	t := point.Sub(r.Origin).Dot(n) / denom
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	return r.At(t), true
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyAABB returns a box that any Extend call will replace.
func EmptyAABB() AABB {
	inf := gomath.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b mgl64.Vec3) AABB {
	box := EmptyAABB()
	box.Extend(a)
	box.Extend(b)
	return box
}

// Extend grows the box to contain p.
func (b *AABB) Extend(p mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = gomath.Min(b.Min[i], p[i])
		b.Max[i] = gomath.Max(b.Max[i], p[i])
	}
}

// Union grows the box to contain other.
func (b *AABB) Union(other AABB) {
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// Center returns the middle of the box.
func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// LongestAxis returns the index of the longest box extent.
func (b AABB) LongestAxis() int {
	d := b.Max.Sub(b.Min)
	if d[0] >= d[1] && d[0] >= d[2] {
		return 0
	}
	if d[1] >= d[2] {
		return 1
	}
	return 2
}

// DistanceSq returns the squared distance from p to the box (0 inside).
func (b AABB) DistanceSq(p mgl64.Vec3) float64 {
	var d float64
	for i := 0; i < 3; i++ {
		switch {
		case p[i] < b.Min[i]:
			d += (b.Min[i] - p[i]) * (b.Min[i] - p[i])
		case p[i] > b.Max[i]:
			d += (p[i] - b.Max[i]) * (p[i] - b.Max[i])
		}
	}
	return d
}

// IntersectRay tests ray intersection with the box using the slab method.
// Returns the entry distance (or exit distance if the origin is inside).
func (b AABB) IntersectRay(r Ray) (t float64, hit bool) {
	tmin := gomath.Inf(-1)
	tmax := gomath.Inf(1)
	for i := 0; i < 3; i++ {
		if r.Direction[i] != 0 {
			t1 := (b.Min[i] - r.Origin[i]) / r.Direction[i]
			t2 := (b.Max[i] - r.Origin[i]) / r.Direction[i]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			tmin = gomath.Max(tmin, t1)
			tmax = gomath.Min(tmax, t2)
		} else if r.Origin[i] < b.Min[i] || r.Origin[i] > b.Max[i] {
			return 0, false
		}
	}
	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
