package geom

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// PolygonArea returns the signed area (positive for counter-clockwise).
func PolygonArea(poly []mgl64.Vec2) float64 {
	var a float64
	for i := range poly {
		p, q := poly[i], poly[(i+1)%len(poly)]
		a += p[0]*q[1] - q[0]*p[1]
	}
	return a / 2
}

// PointInPolygon reports whether p lies inside poly (even-odd rule).
func PointInPolygon(p mgl64.Vec2, poly []mgl64.Vec2) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a[1] > p[1]) != (b[1] > p[1]) {
			x := (b[0]-a[0])*(p[1]-a[1])/(b[1]-a[1]) + a[0]
			if p[0] < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Bounds returns the bounding box of poly.
func Bounds(poly []mgl64.Vec2) (lo, hi mgl64.Vec2) {
	lo = mgl64.Vec2{gomath.Inf(1), gomath.Inf(1)}
	hi = mgl64.Vec2{gomath.Inf(-1), gomath.Inf(-1)}
	for _, p := range poly {
		lo = mgl64.Vec2{gomath.Min(lo[0], p[0]), gomath.Min(lo[1], p[1])}
		hi = mgl64.Vec2{gomath.Max(hi[0], p[0]), gomath.Max(hi[1], p[1])}
	}
	return lo, hi
}

// SimplifyPath drops consecutive points closer than minDist and a closing
// point equal to the first.
func SimplifyPath(path []mgl64.Vec2, minDist float64) []mgl64.Vec2 {
	var out []mgl64.Vec2
	for _, p := range path {
		if len(out) > 0 && p.Sub(out[len(out)-1]).Len() < minDist {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 3 && out[0].Sub(out[len(out)-1]).Len() < minDist {
		out = out[:len(out)-1]
	}
	return out
}

// EarClip tessellates a simple polygon into triangles indexing poly. Self
// intersecting input that runs out of ears is finished as a fan.
func EarClip(poly []mgl64.Vec2) [][3]int {
	n := len(poly)
	if n < 3 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if PolygonArea(poly) < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}

	var tris [][3]int
	for guard := 0; len(idx) > 3 && guard < 2*n*n; guard++ {
		clipped := false
		for k := range idx {
			a := idx[(k+len(idx)-1)%len(idx)]
			b := idx[k]
			c := idx[(k+1)%len(idx)]
			if !isEar(poly, idx, a, b, c) {
				continue
			}
			tris = append(tris, [3]int{a, b, c})
			idx = append(idx[:k], idx[k+1:]...)
			clipped = true
			break
		}
		if !clipped {
			break
		}
	}
	for k := 1; k+1 < len(idx); k++ {
		tris = append(tris, [3]int{idx[0], idx[k], idx[k+1]})
	}
	return tris
}

func isEar(poly []mgl64.Vec2, idx []int, a, b, c int) bool {
	pa, pb, pc := poly[a], poly[b], poly[c]
	if orient(pa, pb, pc) <= 0 {
		return false
	}
	for _, i := range idx {
		if i == a || i == b || i == c {
			continue
		}
		if inTriangle(poly[i], pa, pb, pc) {
			return false
		}
	}
	return true
}

func inTriangle(p, a, b, c mgl64.Vec2) bool {
	return orient(a, b, p) >= 0 && orient(b, c, p) >= 0 && orient(c, a, p) >= 0
}

// InTriangle2D reports whether p lies in the triangle abc of either winding.
func InTriangle2D(p, a, b, c mgl64.Vec2) bool {
	d1, d2, d3 := orient(a, b, p), orient(b, c, p), orient(c, a, p)
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}

// SegmentsIntersect reports whether segments ab and cd cross.
func SegmentsIntersect(a, b, c, d mgl64.Vec2) bool {
	o1, o2 := orient(a, b, c), orient(a, b, d)
	o3, o4 := orient(c, d, a), orient(c, d, b)
	return ((o1 > 0) != (o2 > 0)) && ((o3 > 0) != (o4 > 0))
}

// TriangleOverlapsPolygon reports whether triangle abc and poly share area:
// a corner of one inside the other, or crossing edges.
func TriangleOverlapsPolygon(a, b, c mgl64.Vec2, poly []mgl64.Vec2) bool {
	if PointInPolygon(a, poly) || PointInPolygon(b, poly) || PointInPolygon(c, poly) {
		return true
	}
	for _, p := range poly {
		if InTriangle2D(p, a, b, c) {
			return true
		}
	}
	tri := [3]mgl64.Vec2{a, b, c}
	for i := range poly {
		p, q := poly[i], poly[(i+1)%len(poly)]
		for k := 0; k < 3; k++ {
			if SegmentsIntersect(p, q, tri[k], tri[(k+1)%3]) {
				return true
			}
		}
	}
	return false
}

// ClipConvex returns the part of the convex polygon subject inside the
// convex polygon clip (Sutherland-Hodgman). Both may have either winding.
func ClipConvex(subject, clip []mgl64.Vec2) []mgl64.Vec2 {
	if len(subject) < 3 || len(clip) < 3 {
		return nil
	}
	sign := 1.0
	if PolygonArea(clip) < 0 {
		sign = -1
	}
	out := subject
	for i := range clip {
		a, b := clip[i], clip[(i+1)%len(clip)]
		in := out
		out = make([]mgl64.Vec2, 0, len(in)+2)
		for j := range in {
			p, q := in[j], in[(j+1)%len(in)]
			sp, sq := sign*orient(a, b, p), sign*orient(a, b, q)
			if sp >= 0 {
				out = append(out, p)
			}
			if (sp >= 0) != (sq >= 0) {
				out = append(out, p.Add(q.Sub(p).Mul(sp/(sp-sq))))
			}
		}
		if len(out) < 3 {
			return nil
		}
	}
	return out
}
