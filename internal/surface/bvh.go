package surface

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/pkg/math"
)

const leafSize = 4

// bvhNode is a flattened tree node. Leaves have count > 0 and reference
// prims[start:start+count]; inner nodes reference their children.
type bvhNode struct {
	box         math.AABB
	left, right int32
	start       int32
	count       int32
}

type bvh struct {
	nodes []bvhNode
	prims []int32 // triangle indices in leaf order
}

type bvhPrim struct {
	box    math.AABB
	center mgl64.Vec3
	tri    int32
}

func buildBVH(co []mgl64.Vec3, tris [][3]int32) *bvh {
	b := &bvh{}
	if len(tris) == 0 {
		return b
	}
	prims := make([]bvhPrim, len(tris))
	for i, t := range tris {
		box := math.EmptyAABB()
		box.Extend(co[t[0]])
		box.Extend(co[t[1]])
		box.Extend(co[t[2]])
		prims[i] = bvhPrim{box: box, center: box.Center(), tri: int32(i)}
	}
	b.nodes = make([]bvhNode, 0, 2*len(tris)/leafSize+1)
	b.build(prims)
	b.prims = make([]int32, len(prims))
	for i, p := range prims {
		b.prims[i] = p.tri
	}
	return b
}

// build partitions prims in place and returns the node index.
func (b *bvh) build(prims []bvhPrim) int32 {
	return b.buildRange(prims, 0, int32(len(prims)))
}

func (b *bvh) buildRange(all []bvhPrim, start, end int32) int32 {
	prims := all[start:end]
	box := math.EmptyAABB()
	centers := math.EmptyAABB()
	for _, p := range prims {
		box.Union(p.box)
		centers.Extend(p.center)
	}

	idx := int32(len(b.nodes))
	b.nodes = append(b.nodes, bvhNode{box: box})
	if len(prims) <= leafSize {
		b.nodes[idx].start = start
		b.nodes[idx].count = int32(len(prims))
		return idx
	}

	axis := centers.LongestAxis()
	sort.Slice(prims, func(i, j int) bool {
		return prims[i].center[axis] < prims[j].center[axis]
	})
	mid := start + int32(len(prims))/2

	left := b.buildRange(all, start, mid)
	right := b.buildRange(all, mid, end)
	b.nodes[idx].left = left
	b.nodes[idx].right = right
	return idx
}

// rayCast returns the closest triangle hit along r.
func (b *bvh) rayCast(r math.Ray, hitTri func(tri int32) (float64, bool)) (int32, float64, bool) {
	if len(b.nodes) == 0 {
		return -1, 0, false
	}
	best := int32(-1)
	bestT := 0.0
	stack := []int32{0}
	for len(stack) > 0 {
		n := &b.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		t, ok := n.box.IntersectRay(r)
		if !ok || (best >= 0 && t > bestT && !inside(n.box, r.Origin)) {
			continue
		}

		if n.count > 0 {
			for _, tri := range b.prims[n.start : n.start+n.count] {
				if d, ok := hitTri(tri); ok && (best < 0 || d < bestT) {
					best, bestT = tri, d
				}
			}
			continue
		}
		stack = append(stack, n.left, n.right)
	}
	return best, bestT, best >= 0
}

// nearest returns the triangle closest to p within maxDistSq.
func (b *bvh) nearest(p mgl64.Vec3, maxDistSq float64, distTri func(tri int32) float64) (int32, float64, bool) {
	if len(b.nodes) == 0 {
		return -1, 0, false
	}
	best := int32(-1)
	bestD := maxDistSq
	stack := []int32{0}
	for len(stack) > 0 {
		n := &b.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if n.box.DistanceSq(p) > bestD {
			continue
		}
		if n.count > 0 {
			for _, tri := range b.prims[n.start : n.start+n.count] {
				if d := distTri(tri); d <= bestD {
					best, bestD = tri, d
				}
			}
			continue
		}
		// Visit the closer child first.
		l, r := n.left, n.right
		if b.nodes[l].box.DistanceSq(p) < b.nodes[r].box.DistanceSq(p) {
			l, r = r, l
		}
		stack = append(stack, l, r)
	}
	return best, bestD, best >= 0
}

// within calls fn for every triangle whose box is within radiusSq of p.
func (b *bvh) within(p mgl64.Vec3, radiusSq float64, fn func(tri int32)) {
	if len(b.nodes) == 0 {
		return
	}
	stack := []int32{0}
	for len(stack) > 0 {
		n := &b.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if n.box.DistanceSq(p) > radiusSq {
			continue
		}
		if n.count > 0 {
			for _, tri := range b.prims[n.start : n.start+n.count] {
				fn(tri)
			}
			continue
		}
		stack = append(stack, n.left, n.right)
	}
}

func inside(box math.AABB, p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < box.Min[i] || p[i] > box.Max[i] {
			return false
		}
	}
	return true
}
