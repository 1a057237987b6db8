package surface

import (
	"errors"
	gomath "math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scatterbrush/pkg/math"
)

func planeSurface(uuid int64, m mgl64.Mat4) *Surface {
	return &Surface{UUID: uuid, Name: "plane", Matrix: m, Mesh: Plane(2)}
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil)
	assert.True(t, errors.Is(err, ErrNoSurfaces))

	_, err = Build([]*Surface{{UUID: 1}})
	assert.True(t, errors.Is(err, ErrNoSurfaces))
}

func TestBuildRejectsBadIndices(t *testing.T) {
	s := &Surface{UUID: 1, Matrix: mgl64.Ident4(), Mesh: &Mesh{
		Vertices: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}},
		Polygons: [][]int32{{0, 1, 5}},
	}}
	_, err := Build([]*Surface{s})
	assert.Error(t, err)
}

func TestBuildMergesSurfaces(t *testing.T) {
	a := planeSurface(10, mgl64.Ident4())
	b := planeSurface(20, mgl64.Translate3D(5, 0, 1))
	c, err := Build([]*Surface{a, b})
	require.NoError(t, err)

	assert.Len(t, c.VCo, 8)
	assert.Equal(t, 4, c.NumTriangles())
	assert.Equal(t, []int64{10, 10, 20, 20}, c.FSurface)
	assert.Equal(t, int64(20), c.VSurface[7])
	assert.InDelta(t, 8, c.TotalArea(), 1e-12)
	assert.Equal(t, []int64{10, 20}, c.UUIDs())

	// Second surface is in world space.
	assert.InDelta(t, 1, c.VCo[4][2], 1e-12)
}

func TestBuildDuplicateUUID(t *testing.T) {
	_, err := Build([]*Surface{planeSurface(1, mgl64.Ident4()), planeSurface(1, mgl64.Ident4())})
	assert.Error(t, err)
}

func TestDegenerateAreaZeroed(t *testing.T) {
	inf := gomath.Inf(1)
	s := &Surface{UUID: 1, Matrix: mgl64.Ident4(), Mesh: &Mesh{
		Vertices: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {inf, 0, 0}},
		Polygons: [][]int32{{0, 1, 2}, {0, 3, 2}},
	}}
	c, err := Build([]*Surface{s})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.FArea[0], 1e-12)
	assert.Equal(t, 0.0, c.FArea[1])
}

func TestRayCast(t *testing.T) {
	a := planeSurface(1, mgl64.Ident4())
	b := planeSurface(2, mgl64.Translate3D(0, 0, 1))
	c, err := Build([]*Surface{a, b})
	require.NoError(t, err)

	h, ok := c.RayCast(mgl64.Vec3{0.2, 0.3, 5}, mgl64.Vec3{0, 0, -1})
	require.True(t, ok)
	assert.InDelta(t, 4, h.Distance, 1e-12)
	assert.Equal(t, int64(2), c.SurfaceOf(h.Triangle))

	h, ok = c.RayCast(mgl64.Vec3{0.2, 0.3, 0.5}, mgl64.Vec3{0, 0, -1})
	require.True(t, ok)
	assert.Equal(t, int64(1), c.SurfaceOf(h.Triangle))
	assert.InDelta(t, 0, h.Location[2], 1e-12)
	assert.InDelta(t, 1, h.Normal[2], 1e-12)

	_, ok = c.RayCast(mgl64.Vec3{5, 5, 5}, mgl64.Vec3{0, 0, -1})
	assert.False(t, ok)

	_, ok = c.RayCast(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{})
	assert.False(t, ok)
}

func TestFindNearest(t *testing.T) {
	c, err := Build([]*Surface{planeSurface(1, mgl64.Ident4())})
	require.NoError(t, err)

	h, ok := c.FindNearest(mgl64.Vec3{0.5, 0.5, 2}, 0)
	require.True(t, ok)
	assert.InDelta(t, 2, h.Distance, 1e-12)
	assert.InDelta(t, 0.5, h.Location[0], 1e-12)

	_, ok = c.FindNearest(mgl64.Vec3{0.5, 0.5, 2}, 1)
	assert.False(t, ok)

	// Outside the plane: clamps to the edge.
	h, ok = c.FindNearest(mgl64.Vec3{3, 0, 0}, 0)
	require.True(t, ok)
	assert.InDelta(t, 1, h.Location[0], 1e-12)
}

func TestFindNearestRange(t *testing.T) {
	c, err := Build([]*Surface{{UUID: 1, Matrix: mgl64.Ident4(), Mesh: Grid(4, 4, false)}})
	require.NoError(t, err)

	hits := c.FindNearestRange(mgl64.Vec3{0.5, 0.5, 0.1}, 0.2)
	require.NotEmpty(t, hits)
	for i, h := range hits {
		assert.LessOrEqual(t, h.Distance, 0.2)
		if i > 0 {
			assert.GreaterOrEqual(t, h.Distance, hits[i-1].Distance)
		}
	}
	assert.Empty(t, c.FindNearestRange(mgl64.Vec3{0, 0, 5}, 1))
}

func TestBVHMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	m := Grid(10, 12, false)
	for i := range m.Vertices {
		m.Vertices[i][2] = rng.Float64() * 0.5
	}
	c, err := Build([]*Surface{{UUID: 7, Matrix: mgl64.Ident4(), Mesh: m}})
	require.NoError(t, err)

	for k := 0; k < 50; k++ {
		p := mgl64.Vec3{rng.Float64()*12 - 6, rng.Float64()*12 - 6, rng.Float64()*4 - 1}

		best := gomath.Inf(1)
		for i := 0; i < c.NumTriangles(); i++ {
			a, b, cc := c.Triangle(i)
			best = gomath.Min(best, math.ClosestPointOnTriangle(p, a, b, cc).Sub(p).Len())
		}
		h, ok := c.FindNearest(p, 0)
		require.True(t, ok)
		assert.InDelta(t, best, h.Distance, 1e-9)

		r := math.Ray{Origin: mgl64.Vec3{p[0], p[1], 5}, Direction: mgl64.Vec3{0, 0, -1}}
		bestT := gomath.Inf(1)
		for i := 0; i < c.NumTriangles(); i++ {
			a, b, cc := c.Triangle(i)
			if d, _, _, hit := r.IntersectTriangle(a, b, cc); hit {
				bestT = gomath.Min(bestT, d)
			}
		}
		rh, ok := c.RayCast(r.Origin, r.Direction)
		assert.Equal(t, !gomath.IsInf(bestT, 1), ok)
		if ok {
			assert.InDelta(t, bestT, rh.Distance, 1e-9)
		}
	}
}

func TestSmoothNormal(t *testing.T) {
	m := &Mesh{
		Vertices: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:  []mgl64.Vec3{{-1, 0, 1}, {1, 0, 1}, {0, 0, 1}},
		Polygons: [][]int32{{0, 1, 2}},
		Smooth:   []bool{true},
	}
	c, err := Build([]*Surface{{UUID: 1, Matrix: mgl64.Ident4(), Mesh: m}})
	require.NoError(t, err)

	h, ok := c.RayCast(mgl64.Vec3{0.5, 0, 1}, mgl64.Vec3{0, 0, -1})
	require.True(t, ok)
	n := c.SmoothNormal(h)
	// Halfway between vertex 0 and 1: normals cancel in X.
	assert.InDelta(t, 0, n[0], 1e-9)
	assert.InDelta(t, 1, n[2], 1e-9)

	m.Smooth = []bool{false}
	c, err = Build([]*Surface{{UUID: 1, Matrix: mgl64.Ident4(), Mesh: m}})
	require.NoError(t, err)
	h, _ = c.RayCast(mgl64.Vec3{0.9, 0.05, 1}, mgl64.Vec3{0, 0, -1})
	assert.Equal(t, c.FNormal[0], c.SmoothNormal(h))
}

type staticSource []*Surface

func (s staticSource) Surfaces() []*Surface { return s }

func TestProviderLazy(t *testing.T) {
	p := NewProvider(staticSource{planeSurface(1, mgl64.Ident4())})
	assert.False(t, p.Valid())

	c1, err := p.Get()
	require.NoError(t, err)
	c2, _ := p.Get()
	assert.Same(t, c1, c2)

	p.Reinit()
	c3, err := p.Get()
	require.NoError(t, err)
	assert.NotSame(t, c1, c3)

	p.Free()
	assert.False(t, p.Valid())

	_, err = NewProvider(staticSource{}).Get()
	assert.ErrorIs(t, err, ErrNoSurfaces)
}
