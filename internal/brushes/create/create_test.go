package create_test

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/create"
	"github.com/Faultbox/scatterbrush/internal/host/headless"
	"github.com/Faultbox/scatterbrush/internal/input"
)

func newDriver(t *testing.T, tool string) *headless.Driver {
	t.Helper()
	reg := brush.NewRegistry()
	for _, f := range []brush.Factory{
		create.NewDot, create.NewPath, create.NewChain, create.NewLine,
		create.NewSpatter, create.NewSpray, create.NewSprayAligned,
		create.NewLassoFill, create.NewClone,
	} {
		reg.Register(f)
	}
	h := headless.New(headless.TopDown(mgl64.Vec3{}, 10, 800), headless.PlaneSurface(1, 20, mgl64.Ident4()))
	d := headless.NewDriver(h, reg, nil)
	require.NoError(t, d.Start(tool))
	return d
}

func near(t *testing.T, want mgl64.Vec3, got mgl32.Vec3, tol float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], float64(got[i]), tol, "component %d: want %v, got %v", i, want, got)
	}
}

func co(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func TestDotGlobalZ(t *testing.T) {
	d := newDriver(t, "dot")
	require.NoError(t, d.Props("dot").SetEnum("rotation_align", "GLOBAL_Z_AXIS"))

	assert.Equal(t, brush.Running, d.Click(mgl64.Vec3{0.2, 0.3, 0}))

	tg := d.Target()
	require.Equal(t, 1, tg.Len())
	near(t, mgl64.Vec3{0.2, 0.3, 0}, tg.Co[0], 1e-5)
	assert.Equal(t, int32(0), tg.ID[0])
	assert.Equal(t, int64(1), tg.SurfaceUUID[0])
	near(t, mgl64.Vec3{0, 0, 1}, tg.AlignZ[0], 1e-5)
	near(t, mgl64.Vec3{0, 1, 0}, tg.AlignY[0], 1e-5)
	near(t, mgl64.Vec3{1, 1, 1}, tg.Scale[0], 1e-5)
	assert.Equal(t, 1, d.Undo.Len())
	assert.Equal(t, "Dot", d.Undo.Last())
}

func TestDotDragMovesPoint(t *testing.T) {
	d := newDriver(t, "dot")
	d.Drag(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0.5, 0}, 4)

	tg := d.Target()
	require.Equal(t, 1, tg.Len())
	near(t, mgl64.Vec3{1, 0.5, 0}, tg.Co[0], 1e-5)
}

func TestDotWheel(t *testing.T) {
	d := newDriver(t, "dot")
	at := mgl64.Vec3{0, 0, 0}
	d.Send(d.PressAt(at))
	d.Wheel(at, true, 0)
	d.Wheel(at, true, input.ModCtrl)
	d.Send(d.ReleaseAt(at))

	tg := d.Target()
	require.Equal(t, 1, tg.Len())
	step := d.Props("dot").Float("wheel_rotation_step")
	assert.InDelta(t, step, float64(tg.RBase[0][2]), 1e-6)
	near(t, mgl64.Vec3{1.1, 1.1, 1.1}, tg.SBase[0], 1e-5)
	near(t, mgl64.Vec3{1.1, 1.1, 1.1}, tg.Scale[0], 1e-5)
}

func TestDotCtrlErases(t *testing.T) {
	d := newDriver(t, "dot")
	d.Click(mgl64.Vec3{0, 0, 0})
	d.Click(mgl64.Vec3{2, 0, 0})
	require.Equal(t, 2, d.Target().Len())

	d.CtrlClick(mgl64.Vec3{0.1, 0, 0})
	tg := d.Target()
	require.Equal(t, 1, tg.Len())
	near(t, mgl64.Vec3{2, 0, 0}, tg.Co[0], 1e-5)
}

func TestPathSpacing(t *testing.T) {
	d := newDriver(t, "path")
	d.Props("path").SetFloat("distance", 0.1)

	d.Drag(mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}, 20)

	tg := d.Target()
	require.GreaterOrEqual(t, tg.Len(), 20)
	require.LessOrEqual(t, tg.Len(), 21)
	for i := 1; i < tg.Len(); i++ {
		gap := co(tg.Co[i]).Sub(co(tg.Co[i-1])).Len()
		assert.InDelta(t, 0.1, gap, 1e-4, "gap %d", i)
	}
	assert.Equal(t, 1, d.Undo.Len())
}

func TestChainAlignsAlongStroke(t *testing.T) {
	d := newDriver(t, "chain")
	d.Drag(mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}, 8)

	tg := d.Target()
	require.GreaterOrEqual(t, tg.Len(), 8)
	for i := range tg.Len() {
		near(t, mgl64.Vec3{0, 0, 1}, tg.AlignZ[i], 1e-4)
		near(t, mgl64.Vec3{1, 0, 0}, tg.AlignY[i], 1e-4)
	}
}

func TestLineCount(t *testing.T) {
	d := newDriver(t, "line")
	d.Drag(mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}, 5)

	tg := d.Target()
	require.Equal(t, 9, tg.Len())
	near(t, mgl64.Vec3{-1, 0, 0}, tg.Co[0], 1e-4)
	near(t, mgl64.Vec3{1, 0, 0}, tg.Co[8], 1e-4)
}

func TestLineNothingUntilRelease(t *testing.T) {
	d := newDriver(t, "line")
	d.Send(d.PressAt(mgl64.Vec3{-1, 0, 0}), d.MoveAt(mgl64.Vec3{1, 0, 0}))
	assert.Equal(t, 0, d.Target().Len())
	d.Send(d.ReleaseAt(mgl64.Vec3{1, 0, 0}))
	assert.Equal(t, 9, d.Target().Len())
}

func TestSpatterOnTimer(t *testing.T) {
	d := newDriver(t, "spatter")
	d.Hold(mgl64.Vec3{0, 0, 0}, 350*time.Millisecond)

	tg := d.Target()
	require.Equal(t, 4, tg.Len())
	for i := range tg.Len() {
		assert.LessOrEqual(t, co(tg.Co[i]).Len(), 0.5+1e-4)
	}
	assert.Equal(t, 0, d.Timers.Len())
}

func TestSprayStaysInRadius(t *testing.T) {
	d := newDriver(t, "spray")
	d.Click(mgl64.Vec3{1, 1, 0})

	tg := d.Target()
	require.Equal(t, 10, tg.Len())
	for i := range tg.Len() {
		assert.LessOrEqual(t, co(tg.Co[i]).Sub(mgl64.Vec3{1, 1, 0}).Len(), 1+1e-4)
	}
}

func TestSprayMinimalDistance(t *testing.T) {
	d := newDriver(t, "spray")
	g := d.Props("spray")
	g.SetInt("num_dots", 200)
	g.SetFloat("minimal_distance", 0.3)
	g.SetBool("use_minimal_distance", true)

	d.Hold(mgl64.Vec3{0, 0, 0}, 300*time.Millisecond)

	tg := d.Target()
	require.NotZero(t, tg.Len())
	for i := range tg.Len() {
		for j := i + 1; j < tg.Len(); j++ {
			assert.GreaterOrEqual(t, co(tg.Co[i]).Sub(co(tg.Co[j])).Len(), 0.3-1e-4)
		}
	}
}

func TestSprayAlignedFollowsStroke(t *testing.T) {
	d := newDriver(t, "spray_aligned")
	d.Send(d.PressAt(mgl64.Vec3{-2, 0, 0}))
	for i := 1; i <= 10; i++ {
		d.Send(d.MoveAt(mgl64.Vec3{-2 + 0.2*float64(i), 0, 0}))
	}
	d.Timers.Fire()
	d.Send(d.ReleaseAt(mgl64.Vec3{0, 0, 0}))

	tg := d.Target()
	require.NotZero(t, tg.Len())
	// the press has no direction yet, so only later shots are aligned
	aligned := 0
	for i := range tg.Len() {
		if co(tg.AlignY[i]).ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-3) {
			aligned++
		}
	}
	assert.Positive(t, aligned)
}

func drawSquareLasso(d *headless.Driver, half float64) {
	corners := []mgl64.Vec3{{-half, -half, 0}, {half, -half, 0}, {half, half, 0}, {-half, half, 0}}
	d.Send(d.PressAt(corners[0]))
	for _, c := range corners[1:] {
		d.Send(d.MoveAt(c))
	}
	d.Send(d.ReleaseAt(corners[0]))
}

func TestLassoFill(t *testing.T) {
	d := newDriver(t, "lasso_fill")
	drawSquareLasso(d, 1)

	tg := d.Target()
	// density 10 over 4 square units
	assert.InDelta(t, 40, tg.Len(), 2)
	for i := range tg.Len() {
		p := tg.Co[i]
		assert.LessOrEqual(t, float64(p[0]), 1.02)
		assert.GreaterOrEqual(t, float64(p[0]), -1.02)
		assert.LessOrEqual(t, float64(p[1]), 1.02)
		assert.GreaterOrEqual(t, float64(p[1]), -1.02)
	}
}

func TestLassoFillDensity(t *testing.T) {
	// the plane is two large triangles, each about 1% covered by the lasso
	d := newDriver(t, "lasso_fill")
	d.Props("lasso_fill").SetFloat("density", 1000)
	drawSquareLasso(d, 1)

	tg := d.Target()
	assert.InDelta(t, 4000, tg.Len(), 200)

	var quadrants [4]int
	for i := range tg.Len() {
		q := 0
		if tg.Co[i][0] > 0 {
			q++
		}
		if tg.Co[i][1] > 0 {
			q += 2
		}
		quadrants[q]++
	}
	for q, n := range quadrants {
		assert.InDelta(t, tg.Len()/4, n, 150, "quadrant %d", q)
	}
}

func TestLassoFillMinWeight(t *testing.T) {
	d := newDriver(t, "lasso_fill")
	g := d.Props("lasso_fill")
	g.SetFloat("density", 200)
	g.SetFloat("min_weight", 1)
	drawSquareLasso(d, 1)

	assert.InDelta(t, 800, d.Target().Len(), 40)
}

func TestLassoFillSeeded(t *testing.T) {
	run := func() int {
		d := newDriver(t, "lasso_fill")
		d.Props("lasso_fill").SetBool("use_random_seed", false)
		d.Send(d.PressAt(mgl64.Vec3{0, -1, 0}), d.MoveAt(mgl64.Vec3{1, 1, 0}), d.MoveAt(mgl64.Vec3{-1, 1, 0}))
		d.Send(d.ReleaseAt(mgl64.Vec3{0, -1, 0}))
		return d.Target().Len()
	}
	assert.Equal(t, run(), run())
}

func TestLassoFillTooSmall(t *testing.T) {
	d := newDriver(t, "lasso_fill")
	d.Click(mgl64.Vec3{0, 0, 0})
	assert.Equal(t, 0, d.Target().Len())
}

func TestCloneSampleAndStamp(t *testing.T) {
	d := newDriver(t, "dot")
	d.Click(mgl64.Vec3{0, 0, 0})
	d.Click(mgl64.Vec3{0.5, 0, 0})
	require.NoError(t, d.Start("clone"))

	d.CtrlClick(mgl64.Vec3{0, 0, 0})
	assert.Contains(t, d.UI.Hints, "Sampled 2 points")

	d.Click(mgl64.Vec3{3, 3, 0})
	tg := d.Target()
	require.Equal(t, 4, tg.Len())
	stamped := []mgl64.Vec3{co(tg.Co[2]), co(tg.Co[3])}
	if stamped[0][0] > stamped[1][0] {
		stamped[0], stamped[1] = stamped[1], stamped[0]
	}
	assert.True(t, stamped[0].ApproxEqualThreshold(mgl64.Vec3{3, 3, 0}, 1e-4), "%v", stamped[0])
	assert.True(t, stamped[1].ApproxEqualThreshold(mgl64.Vec3{3.5, 3, 0}, 1e-4), "%v", stamped[1])
	for _, i := range []int{2, 3} {
		near(t, mgl64.Vec3{0, 0, 1}, tg.AlignZ[i], 1e-4)
		near(t, mgl64.Vec3{0, 1, 0}, tg.AlignY[i], 1e-4)
	}
}

func TestCloneScaleDelta(t *testing.T) {
	d := newDriver(t, "dot")
	d.Click(mgl64.Vec3{0, 0, 0})
	require.NoError(t, d.Start("clone"))
	assert.False(t, d.Props("clone").SetVec3("scale_delta", mgl64.Vec3{0.5, 0.5, 0.5}))

	d.CtrlClick(mgl64.Vec3{0, 0, 0})
	d.Click(mgl64.Vec3{2, 0, 0})

	tg := d.Target()
	require.Equal(t, 2, tg.Len())
	near(t, mgl64.Vec3{1.5, 1.5, 1.5}, tg.SBase[1], 1e-5)
}

func TestCloneWithoutSample(t *testing.T) {
	d := newDriver(t, "clone")
	d.Click(mgl64.Vec3{0, 0, 0})
	assert.Equal(t, 0, d.Target().Len())
	assert.Contains(t, d.UI.Hints, "Ctrl+click to sample points first")

	d.CtrlClick(mgl64.Vec3{0, 0, 0})
	assert.Contains(t, d.UI.Hints, "Nothing to sample")
}
