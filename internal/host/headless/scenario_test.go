package headless_test

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scatterbrush/internal/brushes"
	"github.com/Faultbox/scatterbrush/internal/geom"
	"github.com/Faultbox/scatterbrush/internal/host/headless"
	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/regen"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

func run(t *testing.T, script string) (*headless.Driver, *headless.Report) {
	t.Helper()
	s, err := headless.ParseScript([]byte(script))
	require.NoError(t, err)
	d := headless.NewDriver(s.Host(), brushes.NewRegistry(), nil)
	rep, err := d.Run(s.Steps)
	require.NoError(t, err)
	return d, rep
}

func near(t *testing.T, want mgl64.Vec3, got mgl32.Vec3, tol float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], float64(got[i]), tol, "component %d: want %v, got %v", i, want, got)
	}
}

func TestScenarioDotRoundTrip(t *testing.T) {
	d, rep := run(t, `
surfaces: [{uuid: 4, size: 1}]
steps:
  - tool: dot
  - props:
      scale_default: [1, 1, 1]
      scale_random_factor: [0, 0, 0]
      rotation_align: GLOBAL_Z_AXIS
      rotation_up: GLOBAL_Y_AXIS
      rotation_base: [0, 0, 0]
      rotation_random: [0, 0, 0]
  - click: [0.2, 0.3, 0]
`)
	assert.Equal(t, 1, rep.Points)
	assert.Equal(t, "dot", rep.Tool)
	tg := d.Target()
	near(t, mgl64.Vec3{0.2, 0.3, 0}, tg.Co[0], 1e-5)
	near(t, mgl64.Vec3{0, 0, 1}, tg.Normal[0], 1e-6)
	near(t, mgl64.Vec3{0, 0, 1}, tg.AlignZ[0], 1e-6)
	near(t, mgl64.Vec3{0, 1, 0}, tg.AlignY[0], 1e-6)
	near(t, mgl64.Vec3{1, 1, 1}, tg.Scale[0], 1e-6)
	assert.Equal(t, int32(0), tg.ID[0])
	assert.Equal(t, int64(4), tg.SurfaceUUID[0])
	assert.False(t, tg.OrphanMask[0])
	assert.Equal(t, []string{"Dot"}, rep.Undo)
}

func TestScenarioPathSpacing(t *testing.T) {
	d, rep := run(t, `
steps:
  - tool: path
  - props: {distance: 0.1, divergence_distance: 0}
  - drag: {from: [0, 0, 0], to: [1, 0, 0], steps: 40}
`)
	require.GreaterOrEqual(t, rep.Points, 10)
	tg := d.Target()
	for i := range tg.Len() {
		assert.InDelta(t, 0, float64(tg.Co[i][2]), 1e-6)
		if i > 0 {
			a, b := math.Vec3To64(tg.Co[i-1]), math.Vec3To64(tg.Co[i])
			assert.InDelta(t, 0.1, mgl64.Vec2{b[0] - a[0], b[1] - a[1]}.Len(), 1e-3)
		}
	}
}

func TestScenarioEraser2D(t *testing.T) {
	var grid [][3]float64
	for y := range 10 {
		for x := range 10 {
			grid = append(grid, [3]float64{float64(x), float64(y), 0})
		}
	}
	s := &headless.Script{
		View:     headless.ScriptView{Center: [3]float64{4.5, 4.5, 0}, Size: 25, Pixels: 800},
		Surfaces: []headless.ScriptPlane{{UUID: 1, Size: 40}},
		Steps: []headless.Step{
			{Tool: "eraser"},
			{Props: map[string]any{"mode": "2D", "radius_2d": 40.0, "falloff": 1.0, "affect": 1.0}},
			{Seed: &headless.SeedStep{UUID: 1, Points: grid}},
			{Click: &[3]float64{5, 5, 0}},
		},
	}
	h := s.Host()
	px, py := h.Pixel(mgl64.Vec3{5, 5, 0})
	pointer := mgl64.Vec2{float64(px), float64(py)}
	removed := 0
	for _, p := range grid {
		if q, ok := h.Viewport.V.Project(mgl64.Vec3{p[0], p[1], p[2]}); ok && q.Sub(pointer).Len() <= 40 {
			removed++
		}
	}

	rep, err := headless.NewDriver(h, brushes.NewRegistry(), nil).Run(s.Steps)
	require.NoError(t, err)
	assert.Equal(t, 100-removed, rep.Points)
	assert.Positive(t, removed)
}

func TestScenarioRelaxKeepsBoundary(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 5))
	pts := make([][3]float64, 100)
	xy := make([]mgl64.Vec2, 100)
	for i := range pts {
		pts[i] = [3]float64{rng.Float64()*6 - 3, rng.Float64()*6 - 3, 0}
		xy[i] = mgl64.Vec2{pts[i][0], pts[i][1]}
	}
	s := &headless.Script{
		View:     headless.ScriptView{Size: 10, Pixels: 800},
		Surfaces: []headless.ScriptPlane{{UUID: 1, Size: 20}},
		Steps: []headless.Step{
			{Tool: "relax"},
			{Props: map[string]any{"strength": 1.0, "falloff": 0.0, "affect": 1.0, "radius": 20.0, "passes": 1}},
			{Seed: &headless.SeedStep{UUID: 1, Points: pts}},
			{Click: &[3]float64{0, 0, 0}},
		},
	}
	d := headless.NewDriver(s.Host(), brushes.NewRegistry(), nil)
	_, err := d.Run(s.Steps)
	require.NoError(t, err)

	tg := d.Target()
	require.Equal(t, 100, tg.Len())
	hull := geom.ConvexHull(xy)
	for _, i := range hull {
		near(t, mgl64.Vec3{xy[i][0], xy[i][1], 0}, tg.Co[i], 1e-5)
	}
	after := make([]mgl64.Vec2, tg.Len())
	for i := range after {
		after[i] = mgl64.Vec2{float64(tg.Co[i][0]), float64(tg.Co[i][1])}
	}
	assert.ElementsMatch(t, hull, geom.ConvexHull(after))
}

func TestScenarioRegenerationIsIdempotent(t *testing.T) {
	d, _ := run(t, `
steps:
  - tool: spin
`)
	rng := rand.New(rand.NewPCG(1, 2))
	world := make([]mgl64.Vec3, 1000)
	for i := range world {
		world[i] = mgl64.Vec3{rng.Float64()*8 - 4, rng.Float64()*8 - 4, 0}
	}
	rows, err := d.Seed(1, world...)
	require.NoError(t, err)

	s := d.Runtime.Active().Context().Store
	tg := s.T
	for _, r := range rows {
		tg.RAlign[r] = points.Align(rng.IntN(4))
		tg.RUp[r] = points.Up(rng.IntN(3))
		tg.RAlignVector[r] = math.Vec3To32(regen.UnitVector(rng))
		tg.RUpVector[r] = math.Vec3To32(regen.UnitVector(rng))
		tg.RBase[r] = math.Vec3To32(regen.Draw(rng).Mul(6))
		tg.RRandom[r] = math.Vec3To32(regen.Draw(rng))
		tg.SBase[r] = math.Vec3To32(regen.Draw(rng).Add(mgl64.Vec3{0.5, 0.5, 0.5}))
		tg.SRandomType[r] = points.ScaleRandom(rng.IntN(2))
	}
	require.NoError(t, regen.All(s, rows))
	rotation := slices.Clone(tg.Rotation)
	alignZ, alignY := slices.Clone(tg.AlignZ), slices.Clone(tg.AlignY)
	scale := slices.Clone(tg.Scale)

	require.NoError(t, regen.All(s, rows))
	assert.Equal(t, rotation, tg.Rotation)
	assert.Equal(t, alignZ, tg.AlignZ)
	assert.Equal(t, alignY, tg.AlignY)
	assert.Equal(t, scale, tg.Scale)

	for _, r := range rows {
		q := math.EulerToQuat(math.Vec3To64(tg.Rotation[r]))
		near(t, q.Rotate(math.AxisZ), tg.AlignZ[r], 1e-5)
		near(t, q.Rotate(math.AxisY), tg.AlignY[r], 1e-5)
	}
}

func TestScenarioHeaper(t *testing.T) {
	d, rep := run(t, `
surfaces: [{uuid: 3, size: 20}]
instances: [{name: cube, half_extent: [0.1, 0.1, 0.1]}]
steps:
  - tool: heaper
  - props: {max_alive: 1, drop_height: 2}
  - click: [0, 0, 0]
  - wait: 3s
  - finish: true
`)
	require.Equal(t, 1, rep.Points)
	assert.Empty(t, rep.Tool)
	tg := d.Target()
	assert.InDelta(t, 0, float64(tg.Co[0][2]), 1e-5)
	assert.Equal(t, int64(3), tg.SurfaceUUID[0])
	assert.Equal(t, points.AlignCustom, tg.RAlign[0])
	assert.Equal(t, points.UpCustom, tg.RUp[0])
	near(t, mgl64.Vec3{0, 0, 1}, tg.AlignZ[0], 1e-4)
	assert.Empty(t, d.Simulator.Bodies())
	assert.False(t, d.Simulator.Collection)
}

func TestReplayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
steps:
  - tool: spray
  - props: {num_dots: 5, radius: 0.5}
  - click: [0, 0, 0]
  - key: ESC
`), 0o644))

	s, err := headless.LoadScript(path)
	require.NoError(t, err)
	rep, err := headless.Replay(s, brushes.NewRegistry(), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, rep.Points)
	assert.Equal(t, []string{"Spray"}, rep.Undo)
	assert.Empty(t, rep.Tool)
	assert.Equal(t, "RUNNING_MODAL", rep.Results[0])
}

func TestReplayRejectsUnknownProp(t *testing.T) {
	s, err := headless.ParseScript([]byte(`
steps:
  - tool: dot
  - props: {no_such_thing: 1}
`))
	require.NoError(t, err)
	_, err = headless.Replay(s, brushes.NewRegistry(), nil)
	assert.ErrorContains(t, err, "step 2")
}
