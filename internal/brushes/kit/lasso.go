package kit

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/geom"
	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/internal/view"
	"github.com/Faultbox/scatterbrush/internal/widget"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Lasso is a closed polygon in region pixels.
type Lasso struct {
	Poly []mgl64.Vec2
	// Tris tessellates Poly.
	Tris   [][3]int
	lo, hi mgl64.Vec2
}

// NewLasso closes a recorded pointer path. It reports false for paths that
// enclose no area.
func NewLasso(path []mgl64.Vec2) (*Lasso, bool) {
	poly := geom.SimplifyPath(path, 1)
	if len(poly) < 3 || gomath.Abs(geom.PolygonArea(poly)) < 1 {
		return nil, false
	}
	l := &Lasso{Poly: poly, Tris: geom.EarClip(poly)}
	l.lo, l.hi = geom.Bounds(poly)
	return l, true
}

// Area is the pixel area covered by the tessellation.
func (l *Lasso) Area() float64 {
	var a float64
	for _, t := range l.Tris {
		a += gomath.Abs(math.TriangleArea2D(l.Poly[t[0]], l.Poly[t[1]], l.Poly[t[2]]))
	}
	return a
}

// Contains reports whether a region point is inside the polygon.
func (l *Lasso) Contains(p mgl64.Vec2) bool {
	if p[0] < l.lo[0] || p[1] < l.lo[1] || p[0] > l.hi[0] || p[1] > l.hi[1] {
		return false
	}
	return geom.PointInPolygon(p, l.Poly)
}

// Overlaps reports whether a screen triangle touches the polygon.
func (l *Lasso) Overlaps(a, b, c mgl64.Vec2) bool {
	lo := mgl64.Vec2{gomath.Min(a[0], gomath.Min(b[0], c[0])), gomath.Min(a[1], gomath.Min(b[1], c[1]))}
	hi := mgl64.Vec2{gomath.Max(a[0], gomath.Max(b[0], c[0])), gomath.Max(a[1], gomath.Max(b[1], c[1]))}
	if hi[0] < l.lo[0] || hi[1] < l.lo[1] || lo[0] > l.hi[0] || lo[1] > l.hi[1] {
		return false
	}
	return geom.TriangleOverlapsPolygon(a, b, c, l.Poly)
}

// Coverage returns the fraction of the screen triangle abc inside the
// polygon, in [0, 1].
func (l *Lasso) Coverage(a, b, c mgl64.Vec2) float64 {
	area := gomath.Abs(math.TriangleArea2D(a, b, c))
	if area == 0 || !l.Overlaps(a, b, c) {
		return 0
	}
	tri := []mgl64.Vec2{a, b, c}
	var inside float64
	for _, t := range l.Tris {
		part := geom.ClipConvex(tri, []mgl64.Vec2{l.Poly[t[0]], l.Poly[t[1]], l.Poly[t[2]]})
		inside += gomath.Abs(geom.PolygonArea(part))
	}
	return math.Clamp(inside/area, 0, 1)
}

// Visible reports whether p is the first surface hit along the view ray
// through its pixel, within tol.
func Visible(v *view.View, c *surface.Cache, p mgl64.Vec3, tol float64) bool {
	px, ok := v.Project(p)
	if !ok {
		return false
	}
	r := v.Ray(px)
	h, ok := c.RayCast(r.Origin, r.Direction)
	if !ok {
		return true
	}
	return h.Distance >= p.Sub(r.Origin).Dot(r.Direction)-tol
}

// LassoWidgets draws the polygon recorded so far.
func LassoWidgets(path []mgl64.Vec2, theme widget.Theme, l *widget.Layers) {
	if len(path) < 2 {
		return
	}
	closed := append(append([]mgl64.Vec2(nil), path...), path[0])
	l.Add(widget.Line2D(closed, 2, theme.Default))
	l.Add(widget.Dot2D(path[0], 4, theme.Secondary))
}
