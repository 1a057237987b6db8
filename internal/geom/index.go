// Package geom collects the planar and spatial algorithms the brushes share:
// Delaunay triangulation, polygon tessellation, noise, weighted sampling and
// a kd-tree radius index.
package geom

import (
	gomath "math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// cloudPoint is a kd-tree entry remembering its position in the input.
type cloudPoint struct {
	r3.Vec
	idx int
}

func (p cloudPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(cloudPoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	case 2:
		return p.Z - q.Z
	}
	panic("unreachable")
}

func (p cloudPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance.
func (p cloudPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(cloudPoint)
	return r3.Norm2(r3.Sub(p.Vec, q.Vec))
}

type cloud []cloudPoint

func (c cloud) Index(i int) kdtree.Comparable { return c[i] }
func (c cloud) Len() int                      { return len(c) }
func (c cloud) Slice(start, end int) kdtree.Interface {
	return c[start:end]
}

func (c cloud) Pivot(d kdtree.Dim) int {
	return plane{Dim: d, cloud: c}.Pivot()
}

type plane struct {
	kdtree.Dim
	cloud
}

func (p plane) Less(i, j int) bool {
	return p.cloud[i].Compare(p.cloud[j], p.Dim) < 0
}

func (p plane) Swap(i, j int) { p.cloud[i], p.cloud[j] = p.cloud[j], p.cloud[i] }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.cloud = p.cloud[start:end]
	return p
}

func (p plane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Index answers radius and nearest queries over a point set.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// NewIndex builds an index over pts. Query results refer to positions in pts;
// inserted points continue the numbering.
func NewIndex(pts []mgl64.Vec3) *Index {
	c := make(cloud, len(pts))
	for i, p := range pts {
		c[i] = cloudPoint{Vec: toR3(p), idx: i}
	}
	x := &Index{n: len(pts)}
	if len(c) == 0 {
		x.tree = &kdtree.Tree{}
	} else {
		x.tree = kdtree.New(c, false)
	}
	return x
}

// NewIndex2D builds an index over planar points.
func NewIndex2D(pts []mgl64.Vec2) *Index {
	p3 := make([]mgl64.Vec3, len(pts))
	for i, p := range pts {
		p3[i] = mgl64.Vec3{p[0], p[1], 0}
	}
	return NewIndex(p3)
}

func toR3(p mgl64.Vec3) r3.Vec { return r3.Vec{X: p[0], Y: p[1], Z: p[2]} }

// Len returns the number of indexed points.
func (x *Index) Len() int { return x.n }

// Insert adds a point and returns its index.
func (x *Index) Insert(p mgl64.Vec3) int {
	i := x.n
	x.tree.Insert(cloudPoint{Vec: toR3(p), idx: i}, false)
	x.n++
	return i
}

// Within returns the indices of points within radius of p, nearest first.
func (x *Index) Within(p mgl64.Vec3, radius float64) []int {
	if x.n == 0 || radius < 0 {
		return nil
	}
	keep := kdtree.NewDistKeeper(radius * radius)
	x.tree.NearestSet(keep, cloudPoint{Vec: toR3(p), idx: -1})

	found := make([]kdtree.ComparableDist, 0, len(keep.Heap))
	for _, cd := range keep.Heap {
		// The keeper seeds its heap with a nil sentinel at the radius.
		if cd.Comparable == nil {
			continue
		}
		found = append(found, cd)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Dist < found[j].Dist })

	out := make([]int, len(found))
	for i, cd := range found {
		out[i] = cd.Comparable.(cloudPoint).idx
	}
	return out
}

// Any reports whether some point lies within radius of p.
func (x *Index) Any(p mgl64.Vec3, radius float64) bool {
	if x.n == 0 {
		return false
	}
	_, d2 := x.tree.Nearest(cloudPoint{Vec: toR3(p), idx: -1})
	return d2 <= radius*radius
}

// Nearest returns the closest point and its distance.
func (x *Index) Nearest(p mgl64.Vec3) (int, float64, bool) {
	if x.n == 0 {
		return -1, 0, false
	}
	c, d2 := x.tree.Nearest(cloudPoint{Vec: toR3(p), idx: -1})
	if c == nil {
		return -1, 0, false
	}
	return c.(cloudPoint).idx, gomath.Sqrt(d2), true
}
