package surface

import (
	"fmt"
	gomath "math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Hit is the result of a cache query.
type Hit struct {
	Location mgl64.Vec3
	Normal   mgl64.Vec3 // face normal of the hit triangle
	Triangle int
	Distance float64
}

// Cache is the merged world-space triangle buffer of every surface.
// It is read-only once built.
type Cache struct {
	VCo       []mgl64.Vec3
	VNormal   []mgl64.Vec3
	FVertices [][3]int32
	FNormal   []mgl64.Vec3
	FArea     []float64
	FSmooth   []bool
	VSurface  []int64
	FSurface  []int64

	surfaces map[int64]*Surface
	order    []int64
	bvh      *bvh
}

// Build triangulates every surface, moves it to world space and builds the BVH.
func Build(surfaces []*Surface) (*Cache, error) {
	if len(surfaces) == 0 {
		return nil, ErrNoSurfaces
	}

	c := &Cache{surfaces: make(map[int64]*Surface, len(surfaces))}
	for _, s := range surfaces {
		if s == nil || s.Mesh == nil {
			continue
		}
		if _, dup := c.surfaces[s.UUID]; dup {
			return nil, fmt.Errorf("surface: duplicate uuid %d", s.UUID)
		}
		if err := c.append(s); err != nil {
			return nil, err
		}
		c.surfaces[s.UUID] = s
		c.order = append(c.order, s.UUID)
	}
	if len(c.surfaces) == 0 {
		return nil, ErrNoSurfaces
	}

	c.bvh = buildBVH(c.VCo, c.FVertices)
	logger.Named("surface").Debug("cache built",
		zap.Int("surfaces", len(c.order)),
		zap.Int("vertices", len(c.VCo)),
		zap.Int("triangles", len(c.FVertices)))
	return c, nil
}

func (c *Cache) append(s *Surface) error {
	m := s.Mesh
	base := int32(len(c.VCo))
	nv := len(m.Vertices)

	for _, v := range m.Vertices {
		c.VCo = append(c.VCo, math.TransformPoint(s.Matrix, v))
		c.VSurface = append(c.VSurface, s.UUID)
	}

	firstTri := len(c.FVertices)
	for pi, poly := range m.Polygons {
		if len(poly) < 3 {
			continue
		}
		smooth := pi < len(m.Smooth) && m.Smooth[pi]
		for k := 1; k+1 < len(poly); k++ {
			tri := [3]int32{poly[0], poly[k], poly[k+1]}
			for _, vi := range tri {
				if vi < 0 || int(vi) >= nv {
					return fmt.Errorf("surface %d: polygon %d references vertex %d of %d", s.UUID, pi, vi, nv)
				}
			}
			a, b, cc := c.VCo[base+tri[0]], c.VCo[base+tri[1]], c.VCo[base+tri[2]]
			area := math.TriangleArea(a, b, cc)
			if gomath.IsNaN(area) || gomath.IsInf(area, 0) {
				area = 0
			}
			c.FVertices = append(c.FVertices, [3]int32{base + tri[0], base + tri[1], base + tri[2]})
			c.FNormal = append(c.FNormal, math.TriangleNormal(a, b, cc))
			c.FArea = append(c.FArea, area)
			c.FSmooth = append(c.FSmooth, smooth)
			c.FSurface = append(c.FSurface, s.UUID)
		}
	}

	normals := make([]mgl64.Vec3, nv)
	if len(m.Normals) == nv {
		for i, n := range m.Normals {
			normals[i] = math.TransformNormal(s.Matrix, n)
		}
	} else {
		for f := firstTri; f < len(c.FVertices); f++ {
			w := c.FNormal[f].Mul(c.FArea[f])
			for _, vi := range c.FVertices[f] {
				normals[vi-base] = normals[vi-base].Add(w)
			}
		}
		for i := range normals {
			normals[i] = math.Normalize(normals[i])
		}
	}
	c.VNormal = append(c.VNormal, normals...)
	return nil
}

// Surface returns the surface with the given uuid.
func (c *Cache) Surface(uuid int64) (*Surface, bool) {
	s, ok := c.surfaces[uuid]
	return s, ok
}

// Has reports whether uuid belongs to the cached surface set.
func (c *Cache) Has(uuid int64) bool {
	_, ok := c.surfaces[uuid]
	return ok
}

// UUIDs returns the surface uuids in build order.
func (c *Cache) UUIDs() []int64 {
	return append([]int64(nil), c.order...)
}

// Matrix returns the world matrix of a surface.
func (c *Cache) Matrix(uuid int64) (mgl64.Mat4, bool) {
	s, ok := c.surfaces[uuid]
	if !ok {
		return mgl64.Ident4(), false
	}
	return s.Matrix, true
}

// NumTriangles returns the number of cached triangles.
func (c *Cache) NumTriangles() int { return len(c.FVertices) }

// Triangle returns the world-space corners of triangle i.
func (c *Cache) Triangle(i int) (a, b, cc mgl64.Vec3) {
	t := c.FVertices[i]
	return c.VCo[t[0]], c.VCo[t[1]], c.VCo[t[2]]
}

// SurfaceOf returns the uuid of the surface triangle i came from.
func (c *Cache) SurfaceOf(tri int) int64 {
	return c.FSurface[tri]
}

// TotalArea sums the sanitized triangle areas.
func (c *Cache) TotalArea() float64 {
	var a float64
	for _, v := range c.FArea {
		a += v
	}
	return a
}

// RayCast returns the first triangle hit along the ray from origin in direction.
func (c *Cache) RayCast(origin, direction mgl64.Vec3) (Hit, bool) {
	dir, ok := math.SafeNormalize(direction)
	if !ok {
		return Hit{}, false
	}
	r := math.Ray{Origin: origin, Direction: dir}
	tri, t, ok := c.bvh.rayCast(r, func(tri int32) (float64, bool) {
		a, b, cc := c.Triangle(int(tri))
		d, _, _, hit := r.IntersectTriangle(a, b, cc)
		return d, hit
	})
	if !ok {
		return Hit{}, false
	}
	return Hit{Location: r.At(t), Normal: c.FNormal[tri], Triangle: int(tri), Distance: t}, true
}

// FindNearest returns the closest surface location to p. A maxDist <= 0 means
// no limit.
func (c *Cache) FindNearest(p mgl64.Vec3, maxDist float64) (Hit, bool) {
	limit := gomath.Inf(1)
	if maxDist > 0 {
		limit = maxDist * maxDist
	}
	tri, d2, ok := c.bvh.nearest(p, limit, func(tri int32) float64 {
		a, b, cc := c.Triangle(int(tri))
		return math.ClosestPointOnTriangle(p, a, b, cc).Sub(p).LenSqr()
	})
	if !ok {
		return Hit{}, false
	}
	a, b, cc := c.Triangle(int(tri))
	loc := math.ClosestPointOnTriangle(p, a, b, cc)
	return Hit{Location: loc, Normal: c.FNormal[tri], Triangle: int(tri), Distance: gomath.Sqrt(d2)}, true
}

// FindNearestRange returns one hit per triangle within radius of p, closest first.
func (c *Cache) FindNearestRange(p mgl64.Vec3, radius float64) []Hit {
	var hits []Hit
	r2 := radius * radius
	c.bvh.within(p, r2, func(tri int32) {
		a, b, cc := c.Triangle(int(tri))
		loc := math.ClosestPointOnTriangle(p, a, b, cc)
		if d2 := loc.Sub(p).LenSqr(); d2 <= r2 {
			hits = append(hits, Hit{Location: loc, Normal: c.FNormal[tri], Triangle: int(tri), Distance: gomath.Sqrt(d2)})
		}
	})
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// SmoothNormal returns the shading normal at a hit: the barycentric blend of
// vertex normals for smooth faces, the face normal otherwise.
func (c *Cache) SmoothNormal(h Hit) mgl64.Vec3 {
	return c.NormalAt(h.Triangle, h.Location)
}

// NormalAt is SmoothNormal for an explicit triangle and location.
func (c *Cache) NormalAt(tri int, loc mgl64.Vec3) mgl64.Vec3 {
	if tri < 0 || tri >= len(c.FVertices) {
		return math.AxisZ
	}
	if !c.FSmooth[tri] {
		return c.FNormal[tri]
	}
	t := c.FVertices[tri]
	w := math.Barycentric(loc, c.VCo[t[0]], c.VCo[t[1]], c.VCo[t[2]])
	n := c.VNormal[t[0]].Mul(w[0]).Add(c.VNormal[t[1]].Mul(w[1])).Add(c.VNormal[t[2]].Mul(w[2]))
	if out, ok := math.SafeNormalize(n); ok {
		return out
	}
	return c.FNormal[tri]
}
