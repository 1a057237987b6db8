package tracker

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/internal/view"
)

// 800px over 10 world units, origin at region (400, 400).
func fixture(t *testing.T, size float64) (*view.View, *surface.Cache) {
	t.Helper()
	v := view.NewOrtho(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 10, 800, 800, 0.1, 100)
	c, err := surface.Build([]*surface.Surface{{UUID: 7, Matrix: mgl64.Ident4(), Mesh: surface.Plane(size)}})
	require.NoError(t, err)
	return v, c
}

func move(x, y int) input.Event {
	return input.Event{Type: input.MouseMove, MouseRegionX: x, MouseRegionY: y}
}

func testConfig() config.TrackerConfig {
	return config.TrackerConfig{DirectionMin2D: 5, DirectionMin3D: 0.05, InterpolationSamples: 3, PathLength: 4}
}

func TestUpdateOnSurface(t *testing.T) {
	v, c := fixture(t, 20)
	tr := New(testConfig())
	tr.Update(move(480, 400), v, c)

	require.True(t, tr.OnSurface)
	loc, n, err := tr.Location()
	require.NoError(t, err)
	assert.InDelta(t, 1, loc[0], 1e-6)
	assert.InDelta(t, 0, loc[1], 1e-6)
	assert.InDelta(t, 1, n[2], 1e-9)
	assert.Equal(t, int64(7), tr.SurfaceUUID)
	assert.Equal(t, mgl64.Ident4(), tr.SurfaceMatrix)
}

func TestUpdateOffSurface(t *testing.T) {
	v, c := fixture(t, 4)
	tr := New(testConfig())
	tr.Update(move(400, 400), v, c)
	require.True(t, tr.OnSurface)

	tr.Update(move(0, 0), v, c)
	assert.False(t, tr.OnSurface)
	_, _, err := tr.Location()
	assert.True(t, errors.Is(err, ErrPointerOffSurface))
	assert.Empty(t, tr.Path3D)
	assert.Equal(t, mgl64.Vec2{0, 0}, tr.Pos2D)
}

func TestDirectionThreshold(t *testing.T) {
	v, c := fixture(t, 20)
	tr := New(testConfig())
	tr.Update(move(400, 400), v, c)
	tr.Update(move(402, 400), v, c)
	assert.Equal(t, mgl64.Vec2{}, tr.Dir2D, "below threshold")

	tr.Update(move(406, 400), v, c)
	assert.InDelta(t, 1, tr.Dir2D[0], 1e-9)
	assert.InDelta(t, 0, tr.Dir2D[1], 1e-9)

	// 6px is 0.075 world units, above the 3D threshold.
	assert.InDelta(t, 1, tr.Dir3D[0], 1e-6)
}

func TestInterpolatedDirection(t *testing.T) {
	tr := New(testConfig())
	tr.Update(move(0, 0), nil, nil)
	tr.Update(move(10, 0), nil, nil)
	tr.Update(move(10, 10), nil, nil)

	// Newer sample weighs twice the older one.
	want := mgl64.Vec2{1, 2}.Normalize()
	assert.InDelta(t, want[0], tr.DirInterp2D[0], 1e-9)
	assert.InDelta(t, want[1], tr.DirInterp2D[1], 1e-9)
	assert.Equal(t, mgl64.Vec2{0, 1}, tr.Dir2D)
}

func TestPathBounded(t *testing.T) {
	tr := New(testConfig())
	for i := 0; i < 10; i++ {
		tr.Update(move(i, 0), nil, nil)
	}
	require.Len(t, tr.Path2D, 4)
	assert.Equal(t, mgl64.Vec2{6, 0}, tr.Path2D[0])
	assert.Equal(t, mgl64.Vec2{9, 0}, tr.Path2D[3])
	assert.False(t, tr.OnSurface)
}

func TestResetStroke(t *testing.T) {
	tr := New(testConfig())
	tr.Update(move(0, 0), nil, nil)
	tr.Update(move(20, 0), nil, nil)
	require.NotEqual(t, mgl64.Vec2{}, tr.Dir2D)

	tr.ResetStroke()
	assert.Equal(t, mgl64.Vec2{}, tr.Dir2D)
	assert.Empty(t, tr.Path2D)

	// First sample after a reset only anchors.
	tr.Update(move(100, 0), nil, nil)
	assert.Equal(t, mgl64.Vec2{}, tr.Dir2D)
}

func TestLasso(t *testing.T) {
	tr := New(testConfig())
	tr.Update(move(0, 0), nil, nil)
	tr.BeginLasso()
	tr.Update(input.Event{Type: input.InbetweenMouseMove, MouseRegionX: 1, MouseRegionY: 0}, nil, nil)
	tr.Update(move(1, 1), nil, nil)
	assert.Len(t, tr.Lasso(), 3)

	poly := tr.EndLasso()
	assert.Equal(t, []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}}, poly)
	assert.Empty(t, tr.Lasso())

	tr.Update(move(5, 5), nil, nil)
	assert.Empty(t, tr.Lasso())
}

func TestPressure(t *testing.T) {
	tr := New(testConfig())
	tr.Update(input.Event{Type: input.MouseMove, IsTablet: true, Pressure: 0.25}, nil, nil)
	assert.InDelta(t, 0.25, tr.Pressure, 1e-12)
	tr.Update(move(0, 0), nil, nil)
	assert.InDelta(t, 1, tr.Pressure, 1e-12)
}
