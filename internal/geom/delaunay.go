package geom

import (
	"errors"
	gomath "math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrDelaunayFailed is returned when the input cannot be triangulated.
var ErrDelaunayFailed = errors.New("geom: delaunay triangulation failed")

// Triangulation is a planar Delaunay triangulation with CCW triangles.
type Triangulation struct {
	Points    []mgl64.Vec2
	Triangles [][3]int
}

type dtri struct {
	v      [3]int
	cx, cy float64 // circumcenter
	r2     float64 // squared circumradius
}

func newDtri(pts []mgl64.Vec2, a, b, c int) dtri {
	pa, pb, pc := pts[a], pts[b], pts[c]
	// Keep counter-clockwise order.
	if orient(pa, pb, pc) < 0 {
		b, c = c, b
		pb, pc = pc, pb
	}
	d := 2 * (pa[0]*(pb[1]-pc[1]) + pb[0]*(pc[1]-pa[1]) + pc[0]*(pa[1]-pb[1]))
	t := dtri{v: [3]int{a, b, c}}
	if d == 0 {
		t.r2 = gomath.Inf(1)
		return t
	}
	a2 := pa[0]*pa[0] + pa[1]*pa[1]
	b2 := pb[0]*pb[0] + pb[1]*pb[1]
	c2 := pc[0]*pc[0] + pc[1]*pc[1]
	t.cx = (a2*(pb[1]-pc[1]) + b2*(pc[1]-pa[1]) + c2*(pa[1]-pb[1])) / d
	t.cy = (a2*(pc[0]-pb[0]) + b2*(pa[0]-pc[0]) + c2*(pb[0]-pa[0])) / d
	dx, dy := pa[0]-t.cx, pa[1]-t.cy
	t.r2 = dx*dx + dy*dy
	return t
}

func (t dtri) inCircumcircle(p mgl64.Vec2) bool {
	dx, dy := p[0]-t.cx, p[1]-t.cy
	return dx*dx+dy*dy < t.r2*(1+1e-12)
}

func orient(a, b, c mgl64.Vec2) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

type edge struct{ a, b int }

func (e edge) key() edge {
	if e.a > e.b {
		return edge{e.b, e.a}
	}
	return e
}

// Delaunay triangulates pts with the Bowyer-Watson algorithm. Duplicated
// coordinates should be separated first with SplitImpulse.
func Delaunay(pts []mgl64.Vec2) (*Triangulation, error) {
	n := len(pts)
	if n < 3 {
		return nil, ErrDelaunayFailed
	}
	minX, minY := gomath.Inf(1), gomath.Inf(1)
	maxX, maxY := gomath.Inf(-1), gomath.Inf(-1)
	for _, p := range pts {
		if gomath.IsNaN(p[0]) || gomath.IsNaN(p[1]) || gomath.IsInf(p[0], 0) || gomath.IsInf(p[1], 0) {
			return nil, ErrDelaunayFailed
		}
		minX, maxX = gomath.Min(minX, p[0]), gomath.Max(maxX, p[0])
		minY, maxY = gomath.Min(minY, p[1]), gomath.Max(maxY, p[1])
	}
	span := gomath.Max(maxX-minX, maxY-minY)
	if span == 0 {
		return nil, ErrDelaunayFailed
	}

	// Super triangle vertices live past the input.
	work := make([]mgl64.Vec2, n, n+3)
	copy(work, pts)
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	work = append(work,
		mgl64.Vec2{cx - 20*span, cy - 10*span},
		mgl64.Vec2{cx + 20*span, cy - 10*span},
		mgl64.Vec2{cx, cy + 20*span},
	)

	// Insert in spatial order to keep the bad-triangle search local.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		pi, pj := pts[order[i]], pts[order[j]]
		if pi[0] != pj[0] {
			return pi[0] < pj[0]
		}
		return pi[1] < pj[1]
	})

	tris := []dtri{newDtri(work, n, n+1, n+2)}
	for _, pi := range order {
		p := work[pi]
		boundary := make(map[edge]int)
		var edges []edge
		kept := tris[:0]
		var bad []dtri
		for _, t := range tris {
			if t.inCircumcircle(p) {
				bad = append(bad, t)
				continue
			}
			kept = append(kept, t)
		}
		for _, t := range bad {
			for k := 0; k < 3; k++ {
				e := edge{t.v[k], t.v[(k+1)%3]}
				if _, seen := boundary[e.key()]; !seen {
					edges = append(edges, e)
				}
				boundary[e.key()]++
			}
		}
		tris = kept
		for _, e := range edges {
			if boundary[e.key()] != 1 {
				continue
			}
			tris = append(tris, newDtri(work, e.a, e.b, pi))
		}
	}

	out := &Triangulation{Points: pts}
	for _, t := range tris {
		if t.v[0] >= n || t.v[1] >= n || t.v[2] >= n {
			continue
		}
		if orient(pts[t.v[0]], pts[t.v[1]], pts[t.v[2]]) <= 0 {
			continue
		}
		out.Triangles = append(out.Triangles, t.v)
	}
	if len(out.Triangles) == 0 {
		return nil, ErrDelaunayFailed
	}
	return out, nil
}

// Neighbors returns the 1-ring of every vertex.
func (t *Triangulation) Neighbors() [][]int {
	sets := make([]map[int]struct{}, len(t.Points))
	for _, tri := range t.Triangles {
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if sets[a] == nil {
				sets[a] = make(map[int]struct{})
			}
			if sets[b] == nil {
				sets[b] = make(map[int]struct{})
			}
			sets[a][b] = struct{}{}
			sets[b][a] = struct{}{}
		}
	}
	out := make([][]int, len(sets))
	for i, s := range sets {
		for j := range s {
			out[i] = append(out[i], j)
		}
		sort.Ints(out[i])
	}
	return out
}

// SplitImpulse separates points closer than eps by pushing every member of
// a cluster radially away from the cluster center, so no two inputs coincide.
// It returns a new slice and the number of displaced points.
func SplitImpulse(pts []mgl64.Vec2, eps float64) ([]mgl64.Vec2, int) {
	out := append([]mgl64.Vec2(nil), pts...)
	if len(pts) < 2 || eps <= 0 {
		return out, 0
	}
	idx := NewIndex2D(pts)
	visited := make([]bool, len(pts))
	moved := 0
	for i, p := range pts {
		if visited[i] {
			continue
		}
		group := idx.Within(mgl64.Vec3{p[0], p[1], 0}, eps)
		var members []int
		for _, j := range group {
			if !visited[j] {
				members = append(members, j)
			}
		}
		if len(members) < 2 {
			visited[i] = true
			continue
		}
		sort.Ints(members)
		var c mgl64.Vec2
		for _, j := range members {
			visited[j] = true
			c = c.Add(pts[j])
		}
		c = c.Mul(1 / float64(len(members)))
		step := 2 * gomath.Pi / float64(len(members))
		for k, j := range members {
			a := step * float64(k)
			out[j] = c.Add(mgl64.Vec2{gomath.Cos(a), gomath.Sin(a)}.Mul(eps))
			moved++
		}
	}
	return out, moved
}

// ConvexHull returns the hull vertex indices in counter-clockwise order
// (Andrew's monotone chain). Collinear points on edges are dropped.
func ConvexHull(pts []mgl64.Vec2) []int {
	n := len(pts)
	if n < 3 {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := pts[order[i]], pts[order[j]]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})
	hull := make([]int, 0, 2*n)
	for _, i := range order {
		for len(hull) >= 2 && orient(pts[hull[len(hull)-2]], pts[hull[len(hull)-1]], pts[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, i)
	}
	lower := len(hull) + 1
	for k := n - 2; k >= 0; k-- {
		i := order[k]
		for len(hull) >= lower && orient(pts[hull[len(hull)-2]], pts[hull[len(hull)-1]], pts[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, i)
	}
	return hull[:len(hull)-1]
}

// ExpandRing returns the hull polygon pushed outward from its centroid by
// the fraction expand of the hull size, at least minMargin.
func ExpandRing(pts []mgl64.Vec2, hull []int, expand, minMargin float64) []mgl64.Vec2 {
	if len(hull) == 0 {
		return nil
	}
	var c mgl64.Vec2
	maxR := 0.0
	for _, i := range hull {
		c = c.Add(pts[i])
	}
	c = c.Mul(1 / float64(len(hull)))
	for _, i := range hull {
		maxR = gomath.Max(maxR, pts[i].Sub(c).Len())
	}
	margin := gomath.Max(maxR*expand, minMargin)
	out := make([]mgl64.Vec2, len(hull))
	for k, i := range hull {
		d := pts[i].Sub(c)
		l := d.Len()
		if l == 0 {
			out[k] = pts[i]
			continue
		}
		out[k] = pts[i].Add(d.Mul(margin / l))
	}
	return out
}
