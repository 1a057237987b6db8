package erase_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/erase"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/host/headless"
)

func newDriver(t *testing.T, tool string, center mgl64.Vec3, size float64) *headless.Driver {
	t.Helper()
	reg := brush.NewRegistry()
	reg.Register(erase.NewEraser)
	reg.Register(erase.NewDilute)
	reg.Register(erase.NewLassoEraser)
	h := headless.New(headless.TopDown(center, size, 800), headless.PlaneSurface(1, 40, mgl64.Ident4()))
	d := headless.NewDriver(h, reg, nil)
	require.NoError(t, d.Start(tool))
	return d
}

func world(d *headless.Driver) []mgl64.Vec3 {
	tg := d.Target()
	out := make([]mgl64.Vec3, tg.Len())
	for i, c := range tg.Co {
		out[i] = mgl64.Vec3{float64(c[0]), float64(c[1]), float64(c[2])}
	}
	return out
}

func TestEraser3D(t *testing.T) {
	d := newDriver(t, "eraser", mgl64.Vec3{}, 10)
	_, err := d.Seed(1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{3, 0, 0})
	require.NoError(t, err)
	d.Props("eraser").SetFloat("falloff", 1)

	d.Click(mgl64.Vec3{0, 0, 0})

	left := world(d)
	require.Len(t, left, 1)
	assert.InDelta(t, 3, left[0][0], 1e-5)
	assert.Equal(t, "Eraser", d.Undo.Last())
}

func TestEraserEmptySelection(t *testing.T) {
	d := newDriver(t, "eraser", mgl64.Vec3{}, 10)
	_, err := d.Seed(1, mgl64.Vec3{3, 3, 0})
	require.NoError(t, err)

	d.Click(mgl64.Vec3{-3, -3, 0})
	assert.Equal(t, 1, d.Target().Len())
}

func TestEraser2DMatchesScreenQuery(t *testing.T) {
	// 32 px per unit: the four grid neighbours of the pointer sit at 32 px,
	// the diagonals at 45 px.
	d := newDriver(t, "eraser", mgl64.Vec3{4.5, 4.5, 0}, 25)
	var grid []mgl64.Vec3
	for y := range 10 {
		for x := range 10 {
			grid = append(grid, mgl64.Vec3{float64(x), float64(y), 0})
		}
	}
	_, err := d.Seed(1, grid...)
	require.NoError(t, err)
	g := d.Props("eraser")
	require.NoError(t, g.SetEnum("mode", "2D"))
	g.SetFloat("radius_2d", 40)
	g.SetFloat("falloff", 1)
	g.SetFloat("affect", 1)

	at := mgl64.Vec3{5, 5, 0}
	px, py := d.Pixel(at)
	pointer := mgl64.Vec2{float64(px), float64(py)}
	want := map[mgl64.Vec3]bool{}
	for _, p := range grid {
		s, ok := d.Viewport.V.Project(p)
		if ok && s.Sub(pointer).Len() <= 40 {
			want[p] = true
		}
	}
	require.Len(t, want, 5)

	d.Click(at)

	left := world(d)
	assert.Len(t, left, 100-len(want))
	for _, p := range left {
		rounded := mgl64.Vec3{float64(int(p[0] + 0.5)), float64(int(p[1] + 0.5)), 0}
		assert.False(t, want[rounded], "%v should have been erased", p)
	}
}

func TestEraserModeSwitchRebuildsGestures(t *testing.T) {
	d := newDriver(t, "eraser", mgl64.Vec3{}, 10)
	b := d.Runtime.Active().Brush()

	defs := b.Gestures()
	assert.Equal(t, "radius", defs[gesture.Primary].Property)
	assert.Equal(t, "mode", defs[gesture.Quaternary].Property)

	require.NoError(t, d.Props("eraser").SetEnum("mode", "2D"))
	defs = b.Gestures()
	assert.Equal(t, "radius_2d", defs[gesture.Primary].Property)
	assert.Equal(t, "mode", defs[gesture.Quaternary].Property)
	assert.True(t, b.Common().Selection.Is2D())
}

func TestDiluteFixedPoint(t *testing.T) {
	d := newDriver(t, "dilute", mgl64.Vec3{}, 10)
	var pts []mgl64.Vec3
	for y := -2; y <= 2; y++ {
		for x := -2; x <= 2; x++ {
			pts = append(pts, mgl64.Vec3{float64(x) * 0.1, float64(y) * 0.1, 0})
		}
	}
	_, err := d.Seed(1, pts...)
	require.NoError(t, err)
	g := d.Props("dilute")
	g.SetFloat("minimal_distance", 0.25)
	g.SetFloat("falloff", 1)

	d.Click(mgl64.Vec3{0, 0, 0})

	left := world(d)
	require.Less(t, len(left), len(pts))
	assert.Contains(t, left, mgl64.Vec3{0, 0, 0})
	for i := range left {
		for j := i + 1; j < len(left); j++ {
			assert.Greater(t, left[i].Sub(left[j]).Len(), 0.25)
		}
	}

	d.Click(mgl64.Vec3{0, 0, 0})
	assert.Len(t, world(d), len(left))
}

func TestThin(t *testing.T) {
	pts := []mgl64.Vec3{{0, 0, 0}, {0.1, 0, 0}, {0.2, 0, 0}, {0.4, 0, 0}}
	assert.Equal(t, []int{1, 2}, erase.Thin(pts, 0.25))
	assert.Empty(t, erase.Thin(pts, 0))
}

func TestLassoEraser(t *testing.T) {
	d := newDriver(t, "lasso_eraser", mgl64.Vec3{}, 10)
	_, err := d.Seed(1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.5, 0}, mgl64.Vec3{3, 3, 0})
	require.NoError(t, err)

	corners := []mgl64.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	d.Send(d.PressAt(corners[0]))
	for _, c := range corners[1:] {
		d.Send(d.MoveAt(c))
	}
	d.Send(d.ReleaseAt(corners[0]))

	left := world(d)
	require.Len(t, left, 1)
	assert.InDelta(t, 3, left[0][0], 1e-5)
}
