// Package surface merges the input surface meshes into one world-space
// triangle buffer with a BVH for ray-cast and nearest-point queries.
package surface

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrNoSurfaces is returned when a cache is requested for an empty surface set.
var ErrNoSurfaces = errors.New("surface: no surfaces")

// Mesh is the evaluated geometry of one surface in its local space.
type Mesh struct {
	Vertices []mgl64.Vec3
	// Normals holds per-vertex normals. When nil they are derived from
	// the area-weighted triangle normals.
	Normals []mgl64.Vec3
	// Polygons lists vertex indices per face; faces with more than three
	// corners are fan triangulated.
	Polygons [][]int32
	// Smooth flags per polygon; nil means flat shading everywhere.
	Smooth []bool
}

// Surface is an external mesh object the points are anchored to.
type Surface struct {
	UUID   int64
	Name   string
	Matrix mgl64.Mat4
	Mesh   *Mesh
}

// Plane returns a square two-triangle mesh of the given size centered at the
// origin in the XY plane, facing +Z.
func Plane(size float64) *Mesh {
	h := size / 2
	return &Mesh{
		Vertices: []mgl64.Vec3{{-h, -h, 0}, {h, -h, 0}, {h, h, 0}, {-h, h, 0}},
		Polygons: [][]int32{{0, 1, 2, 3}},
	}
}

// Grid returns a subdivided plane with n×n quads, useful for smooth shading.
func Grid(size float64, n int, smooth bool) *Mesh {
	if n < 1 {
		n = 1
	}
	m := &Mesh{}
	step := size / float64(n)
	h := size / 2
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			m.Vertices = append(m.Vertices, mgl64.Vec3{-h + float64(x)*step, -h + float64(y)*step, 0})
		}
	}
	row := int32(n + 1)
	for y := int32(0); y < int32(n); y++ {
		for x := int32(0); x < int32(n); x++ {
			i := y*row + x
			m.Polygons = append(m.Polygons, []int32{i, i + 1, i + row + 1, i + row})
			m.Smooth = append(m.Smooth, smooth)
		}
	}
	return m
}

// Source supplies the current surface set.
type Source interface {
	Surfaces() []*Surface
}
