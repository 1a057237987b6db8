// Package heaper implements the physics-fed placement tool. Every click
// drops a rigid body onto the surfaces; bodies that come to rest are frozen
// and turned into points when the tool exits.
package heaper

import (
	"errors"
	"fmt"
	gomath "math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/regen"
	"github.com/Faultbox/scatterbrush/internal/widget"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// ErrNoSimulator is returned when the host has no rigid-body world.
var ErrNoSimulator = errors.New("heaper: host has no rigid-body world")

// allcloseRtol is the relative tolerance of the rest test.
const allcloseRtol = 1e-5

type body struct {
	name     string
	instance int
	start    int
	spawn    mgl64.Mat4
	last     mgl64.Mat4
}

// Heaper drops simulated objects and keeps the ones that settle.
type Heaper struct {
	brush.Base
	sim    brush.Simulator
	timer  brush.TimerHandle
	alive  []*body
	frozen []*body
	spawns int
}

// NewHeaper creates the heaper tool.
func NewHeaper() brush.Brush {
	b := &Heaper{}
	b.Spec = kit.Info("heaper", brush.CategorySpecial,
		"LMB: drop an object",
		"Esc: keep the objects at rest and exit")
	b.NoUndo = true
	b.Definitions = gesture.Definitions{
		gesture.Primary:   kit.Length("drop_height", "Drop Height"),
		gesture.Secondary: kit.Count("max_alive", "Max Alive"),
		gesture.Tertiary:  kit.Toggle("random_rotation", "Random Rotation"),
	}
	return b
}

func (b *Heaper) Invoke(ctx *brush.Context) error {
	sim := ctx.Host.Simulator
	if sim == nil {
		return ErrNoSimulator
	}
	if sim.InstanceCount() == 0 {
		return fmt.Errorf("heaper: no instance objects to drop: %w", brush.ErrEmptyData)
	}
	if err := sim.Install(ctx.Host.Scene.Surfaces()); err != nil {
		return err
	}
	b.sim = sim
	b.alive, b.frozen, b.spawns = nil, nil, 0

	ctx.Host.Undo.Clear()
	ctx.Host.Undo.SetRedoEnabled(false)

	fps := max(ctx.Config.Heaper.FPS, 1)
	b.timer = ctx.Every(time.Second/time.Duration(fps), b.frame)
	ctx.Log.Debug("heaper started", zap.Int("fps", fps), zap.Int("instances", sim.InstanceCount()))
	return nil
}

func (b *Heaper) ActionBegin(ctx *brush.Context) error {
	if b.sim == nil || !ctx.Tracker.OnSurface {
		return nil
	}
	g := ctx.Props
	if len(b.alive) >= g.Int("max_alive") {
		ctx.Hint("Too many objects in flight")
		return nil
	}
	loc, n, err := ctx.Location()
	if err != nil {
		return err
	}
	if len(b.alive) == 0 {
		b.sim.Start()
	}

	rng := ctx.Rng
	rot := mgl64.QuatIdent()
	if g.Bool("random_rotation") {
		rot = mgl64.QuatRotate(rng.Float64()*2*gomath.Pi, regen.UnitVector(rng))
	}
	st := ctx.Settings()
	u := rng.Float64()
	var scale mgl64.Vec3
	for k := range scale {
		scale[k] = st.ScaleDefault[k] * (1 - st.ScaleRandomFactor[k]*u)
	}
	m := math.Compose(loc.Add(n.Mul(g.Float("drop_height"))), rot, scale)

	bd := &body{
		name:     fmt.Sprintf("heaper.%03d", b.spawns),
		instance: rng.IntN(b.sim.InstanceCount()),
		start:    b.sim.Frame(),
		spawn:    m,
		last:     m,
	}
	if err := b.sim.Spawn(bd.name, bd.instance, m); err != nil {
		return err
	}
	b.spawns++
	b.alive = append(b.alive, bd)
	ctx.Log.Debug("heaper spawned", zap.String("name", bd.name), zap.Int("alive", len(b.alive)))
	return nil
}

// frame advances the world one step and sorts the bodies that came to rest
// or outlived frames_alive.
func (b *Heaper) frame(ctx *brush.Context) error {
	if len(b.alive) == 0 {
		return nil
	}
	b.sim.Step()
	atol := ctx.Config.Heaper.AllcloseAtol
	limit := ctx.Props.Int("frames_alive")
	now := b.sim.Frame()

	keep := b.alive[:0]
	for _, bd := range b.alive {
		m, ok := b.sim.Matrix(bd.name)
		if !ok {
			continue
		}
		moved := !math.AllClose(m, bd.spawn, allcloseRtol, atol)
		if moved && math.AllClose(m, bd.last, allcloseRtol, atol) {
			b.sim.SetPassive(bd.name)
			bd.last = m
			b.frozen = append(b.frozen, bd)
			ctx.Log.Debug("heaper frozen", zap.String("name", bd.name), zap.Int("frame", now))
			continue
		}
		if now-bd.start > limit {
			b.sim.Remove(bd.name)
			ctx.Log.Debug("heaper expired", zap.String("name", bd.name))
			continue
		}
		bd.last = m
		keep = append(keep, bd)
	}
	b.alive = keep
	return nil
}

func (b *Heaper) Teardown(ctx *brush.Context) error {
	if b.sim == nil {
		return nil
	}
	ctx.StopTimer(b.timer)
	defer func() {
		b.sim.Teardown()
		b.sim = nil
		b.alive, b.frozen = nil, nil
		ctx.Host.Undo.SetRedoEnabled(true)
	}()
	if len(b.frozen) == 0 {
		return nil
	}
	n, err := b.commit(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		ctx.Host.Undo.Push(b.Spec.Label)
	}
	return nil
}

// commit turns the frozen bodies into points and returns how many were
// kept.
func (b *Heaper) commit(ctx *brush.Context) (int, error) {
	s := ctx.Store
	var snaps []kit.Snap
	var z, y, scales []mgl64.Vec3
	var src []*body
	for _, bd := range b.frozen {
		_, rot, scale := math.Decompose(bd.last)
		bz, by := rot.Rotate(math.AxisZ), rot.Rotate(math.AxisY)
		loc := bd.last.Col(3).Vec3()
		sn, ok := kit.Cast(ctx.Cache, loc, bz.Mul(-1))
		if !ok {
			if sn, ok = kit.Nearest(ctx.Cache, loc); !ok {
				continue
			}
		}
		snaps = append(snaps, sn)
		z = append(z, bz)
		y = append(y, by)
		scales = append(scales, scale)
		src = append(src, bd)
	}
	if len(snaps) == 0 {
		return 0, nil
	}

	world := make([]mgl64.Vec3, len(snaps))
	normals := make([]mgl64.Vec3, len(snaps))
	uuids := make([]int64, len(snaps))
	for i, sn := range snaps {
		world[i], normals[i], uuids[i] = sn.Location, sn.Normal, sn.UUID
	}
	local, err := s.PointsToLocal(world, uuids)
	if err != nil {
		return 0, err
	}
	localN, err := s.NormalsToLocal(normals, uuids)
	if err != nil {
		return 0, err
	}

	st := ctx.Settings()
	rows := make([]points.Row, len(snaps))
	for i := range rows {
		m, err := s.Matrix(uuids[i])
		if err != nil {
			return 0, err
		}
		_, _, surf := math.Decompose(m)
		r := st.Row(local[i], localN[i], uuids[i], ctx.Rng)
		r.Index = int32(src[i].instance)
		r.SBase = mgl64.Vec3{scales[i][0] / surf[0], scales[i][1] / surf[1], scales[i][2] / surf[2]}
		r.SRandom = mgl64.Vec3{1, 1, 1}
		rows[i] = r
	}
	added := s.Append(rows, regen.GenID(s.T.ID, len(rows)))
	regen.CustomFrame(s.T, added, z, y)
	if err := ctx.Regenerate(added); err != nil {
		return 0, err
	}

	unmatched := b.match(ctx, added, world)
	for _, bd := range b.frozen {
		b.sim.Remove(bd.name)
	}
	if len(unmatched) > 0 {
		s.RemoveRows(unmatched)
		ctx.Log.Warn("heaper objects not matched", zap.Int("unmatched", len(unmatched)), zap.Int("frozen", len(b.frozen)))
		ctx.Hint(fmt.Sprintf("%d objects could not be matched", len(unmatched)))
	}
	ctx.Host.Scene.MeshUpdated()
	return len(added) - len(unmatched), nil
}

// match evaluates the instances and returns the rows whose expected world
// location has no instance within the match epsilon.
func (b *Heaper) match(ctx *brush.Context, rows []int, want []mgl64.Vec3) []int {
	ev := ctx.Host.Evaluator
	if ev == nil {
		return nil
	}
	mats := ev.Instances(ctx.Store.T, ctx.Host.Scene.Surfaces())
	eps := ctx.Config.Heaper.MatchEpsilon
	var out []int
	for i, r := range rows {
		found := false
		for _, m := range mats {
			if m.Col(3).Vec3().Sub(want[i]).Len() <= eps {
				found = true
				break
			}
		}
		if !found {
			out = append(out, r)
		}
	}
	return out
}

func (b *Heaper) Widgets(ctx *brush.Context, l *widget.Layers) {
	t := ctx.Tracker
	if !t.OnSurface {
		brush.DefaultWidgets(ctx, b.Selection, l)
		return
	}
	top := t.Pos3D.Add(t.Normal.Mul(ctx.Props.Float("drop_height")))
	l.Add(widget.Line3D([]mgl64.Vec3{t.Pos3D, top}, 1, ctx.Theme.Secondary))
	l.Add(widget.Dot3D(top, 5, ctx.Theme.Default))
	l.Add(widget.Tooltip2D(t.Pos2D.Add(mgl64.Vec2{16, -16}),
		[]string{fmt.Sprintf("Alive: %d", len(b.alive)), fmt.Sprintf("Frozen: %d", len(b.frozen))}, ctx.Theme.Default))
}
