package selection

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/view"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

type surfaceMap map[int64]mgl64.Mat4

func (m surfaceMap) Has(uuid int64) bool {
	_, ok := m[uuid]
	return ok
}

func (m surfaceMap) Matrix(uuid int64) (mgl64.Mat4, bool) {
	mat, ok := m[uuid]
	return mat, ok
}

// gridStore lays out 21×21 points at 0.1 spacing around the origin. Every
// seventh point belongs to a surface that does not exist.
func gridStore() *points.Store {
	s := points.NewStore(&points.Target{}, surfaceMap{1: mgl64.Ident4()})
	var rows []points.Row
	for y := -10; y <= 10; y++ {
		for x := -10; x <= 10; x++ {
			uuid := int64(1)
			if len(rows)%7 == 3 {
				uuid = 9
			}
			rows = append(rows, points.Row{
				Co:          mgl64.Vec3{float64(x) * 0.1, float64(y) * 0.1, 0},
				Normal:      math.AxisZ,
				SurfaceUUID: uuid,
			})
		}
	}
	ids := make([]int32, len(rows))
	for i := range ids {
		ids[i] = int32(i)
	}
	s.Append(rows, ids)
	return s
}

func bruteForce(s *points.Store, center mgl64.Vec3, radius float64) []int {
	var out []int
	for _, r := range s.Rows() {
		co := math.Vec3To64(s.T.Co[r])
		if co.Sub(center).Len() <= radius {
			out = append(out, r)
		}
	}
	return out
}

func checkBounds(t *testing.T, r *Result, radius float64) {
	t.Helper()
	require.Len(t, r.Masked, r.Len())
	require.Len(t, r.Weights, r.Len())
	require.Len(t, r.World, r.Len())
	require.Len(t, r.Local, r.Len())
	for i := range r.Rows {
		assert.LessOrEqual(t, r.Distances[i], radius)
		assert.GreaterOrEqual(t, r.Weights[i], 0.0)
		assert.LessOrEqual(t, r.Weights[i], 1.0)
		assert.InDelta(t, r.Distances[i]/radius, r.DistancesNormalized[i], 1e-12)
		assert.True(t, r.Mask.Test(uint(r.Rows[i])))
	}
	assert.Equal(t, uint(r.Len()), r.Mask.Count())
}

func TestWeight(t *testing.T) {
	tests := []struct {
		d, radius, falloff, want float64
	}{
		{0, 1, 0.5, 1},
		{0.5, 1, 0.5, 1},
		{0.75, 1, 0.5, 0.5},
		{1, 1, 0.5, 0},
		{0.3, 1, 0, 0.7},
		{0.9, 1, 1, 1},   // no ring
		{0.2, 0, 0.5, 1}, // zero radius
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Weight(tt.d, tt.radius, tt.falloff), 1e-12, "%+v", tt)
	}
}

func TestWeights3D(t *testing.T) {
	s := gridStore()
	center := mgl64.Vec3{0.05, 0, 0}
	r, err := SelectWeights3D(s, center, Params{Radius: 0.45, Falloff: 0.5})
	require.NoError(t, err)

	assert.Equal(t, bruteForce(s, center, 0.45), r.Rows)
	checkBounds(t, r, 0.45)
	for i, row := range r.Rows {
		assert.False(t, s.T.OrphanMask[row])
		if r.Distances[i] <= 0.225 {
			assert.Equal(t, 1.0, r.Weights[i])
		}
		assert.InDelta(t, 0, r.World[i].Sub(r.Local[i]).Len(), 1e-6)
	}
}

func TestIndices3DFullFalloff(t *testing.T) {
	s := gridStore()
	r, err := SelectIndices3D(s, mgl64.Vec3{}, Params{Radius: 0.45, Falloff: 1, Affect: 0.3})
	require.NoError(t, err)
	assert.Equal(t, bruteForce(s, mgl64.Vec3{}, 0.45), r.Rows)
	for _, w := range r.Weights {
		assert.Equal(t, 1.0, w)
	}
}

func TestIndices3DAffect(t *testing.T) {
	s := gridStore()
	core := bruteForce(s, mgl64.Vec3{}, 0.2)
	all := bruteForce(s, mgl64.Vec3{}, 0.8)

	r, err := SelectIndices3D(s, mgl64.Vec3{}, Params{Radius: 0.8, Falloff: 0.25, Affect: 0})
	require.NoError(t, err)
	assert.Equal(t, core, r.Rows)

	r, err = SelectIndices3D(s, mgl64.Vec3{}, Params{Radius: 0.8, Falloff: 0.25, Affect: 0.5, Rng: rand.New(rand.NewPCG(3, 4))})
	require.NoError(t, err)
	checkBounds(t, r, 0.8)
	assert.Subset(t, r.Rows, core)
	assert.Subset(t, all, r.Rows)
	ring := len(all) - len(core)
	assert.GreaterOrEqual(t, r.Len(), len(core)+ring/2)
	assert.Less(t, r.Len(), len(all))

	// Tiny affect still draws one.
	r, err = SelectIndices3D(s, mgl64.Vec3{}, Params{Radius: 0.8, Falloff: 0.25, Affect: 1e-6, Rng: rand.New(rand.NewPCG(1, 1))})
	require.NoError(t, err)
	assert.Greater(t, r.Len(), len(core))
}

func TestIndices3DDeterministic(t *testing.T) {
	s := gridStore()
	p := func() Params {
		return Params{Radius: 0.8, Falloff: 0.1, Affect: 0.4, Rng: rand.New(rand.NewPCG(5, 6))}
	}
	a, err := SelectIndices3D(s, mgl64.Vec3{}, p())
	require.NoError(t, err)
	b, err := SelectIndices3D(s, mgl64.Vec3{}, p())
	require.NoError(t, err)
	assert.Equal(t, a.Rows, b.Rows)
}

func TestZeroRadius(t *testing.T) {
	s := gridStore()
	r, err := SelectWeights3D(s, mgl64.Vec3{}, Params{Radius: 0})
	require.NoError(t, err)
	assert.True(t, r.Empty())
	assert.Equal(t, uint(0), r.Mask.Count())
}

func TestSelect2DMatchesTopDown(t *testing.T) {
	s := gridStore()
	// 0.0125 world units per pixel; 36px is 0.45.
	v := view.NewOrtho(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 10, 800, 800, 0.1, 100)
	center, ok := v.Project(mgl64.Vec3{})
	require.True(t, ok)

	r2, err := SelectWeights2D(s, v, center, Params{Radius: 36, Falloff: 1})
	require.NoError(t, err)
	checkBounds(t, r2, 36)
	assert.Equal(t, bruteForce(s, mgl64.Vec3{}, 0.45), r2.Rows)

	r2, err = SelectIndices2D(s, v, center, Params{Radius: 36, Falloff: 1, Affect: 1})
	require.NoError(t, err)
	assert.Equal(t, bruteForce(s, mgl64.Vec3{}, 0.45), r2.Rows)
}

func TestSelectDispatch(t *testing.T) {
	s := gridStore()
	r, err := Select(None, s, nil, mgl64.Vec3{}, mgl64.Vec2{}, Params{Radius: 1})
	require.NoError(t, err)
	assert.True(t, r.Empty())

	r, err = Select(Weights3D, s, nil, mgl64.Vec3{}, mgl64.Vec2{}, Params{Radius: 0.15, Falloff: 1})
	require.NoError(t, err)
	assert.Equal(t, bruteForce(s, mgl64.Vec3{}, 0.15), r.Rows)
	assert.True(t, Indices2D.Is2D())
	assert.False(t, Weights3D.Is2D())
	assert.Equal(t, "WEIGHTS_2D", Weights2D.String())
}

func TestSortByDistance(t *testing.T) {
	s := gridStore()
	r, err := SelectWeights3D(s, mgl64.Vec3{0.31, 0.12, 0}, Params{Radius: 0.5, Falloff: 0})
	require.NoError(t, err)
	rows := append([]int(nil), r.Rows...)
	r.SortByDistance()
	assert.ElementsMatch(t, rows, r.Rows)
	for i := 1; i < r.Len(); i++ {
		assert.LessOrEqual(t, r.Distances[i-1], r.Distances[i])
		assert.Equal(t, r.Rows[i], s.ToRow(r.Masked[i]))
	}
	checkBounds(t, r, 0.5)
}

func TestSelectAll(t *testing.T) {
	s := gridStore()
	r, err := SelectAll(s)
	require.NoError(t, err)
	assert.Equal(t, s.ActiveLen(), r.Len())
	assert.Equal(t, s.Rows(), r.Rows)
	for i, row := range r.Rows {
		assert.False(t, s.T.OrphanMask[row])
		assert.Equal(t, 1.0, r.Weights[i])
	}
	assert.True(t, SelectNone(s).Empty())
}
