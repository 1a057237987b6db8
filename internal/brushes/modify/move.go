package modify

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/selection"
	"github.com/Faultbox/scatterbrush/internal/widget"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Move picks up the points under the brush and carries them with the
// pointer, turning them with the surface as it goes.
type Move struct {
	brush.Base

	rows   []int
	rel    []mgl64.Vec3
	normal mgl64.Vec3
}

// NewMove creates the move tool.
func NewMove() brush.Brush {
	b := &Move{}
	b.Spec = kit.Info("move", brush.CategoryModify,
		"LMB drag: carry points",
		"Wheel while held: rotate, Ctrl+Wheel: scale")
	b.Selection = selection.Indices3D
	b.Definitions = kit.RadiusOnly()
	return b
}

func (b *Move) ActionBegin(ctx *brush.Context) error {
	b.rows, b.rel = nil, nil
	loc, n, err := ctx.Location()
	if err != nil {
		return err
	}
	sel, err := ctx.Select(b.Selection)
	if err != nil || sel.Empty() {
		return err
	}
	b.rows = sel.Rows
	b.normal = n
	b.rel = make([]mgl64.Vec3, sel.Len())
	for i, p := range sel.World {
		b.rel[i] = math.ProjectOnPlane(p.Sub(loc), n)
	}
	return nil
}

func (b *Move) ActionUpdate(ctx *brush.Context) error {
	if len(b.rows) == 0 || !ctx.Tracker.OnSurface {
		return nil
	}
	_, n, _ := ctx.Location()
	q := math.RotationBetween(b.normal, n)
	b.normal = n
	return b.carry(ctx, q)
}

// carry turns the picked-up offsets by q and places them around the pointer.
func (b *Move) carry(ctx *brush.Context, q mgl64.Quat) error {
	loc, _, err := ctx.Location()
	if err != nil {
		return err
	}
	world := make([]mgl64.Vec3, len(b.rel))
	for i := range b.rel {
		b.rel[i] = q.Rotate(b.rel[i])
		world[i] = loc.Add(b.rel[i])
	}
	if err := kit.Reproject(ctx.Store, ctx.Cache, b.rows, world, updateUUID(ctx)); err != nil {
		return err
	}
	if ctx.Props.Bool("use_align_surface") {
		return kit.RotateFrames(ctx.Store, b.rows, func(int) mgl64.Quat { return q })
	}
	return ctx.Regenerate(b.rows)
}

// Wheel spins the carried points around the pointer, or spreads them with
// ctrl.
func (b *Move) Wheel(ctx *brush.Context, steps int) error {
	if len(b.rows) == 0 || !ctx.Tracker.OnSurface {
		return nil
	}
	g := ctx.Props
	if ctx.Ctrl() {
		f := 1 + float64(steps)*g.Float("wheel_scale_step")
		if f <= 0 {
			return nil
		}
		for i := range b.rel {
			b.rel[i] = b.rel[i].Mul(f)
		}
		return b.carry(ctx, mgl64.QuatIdent())
	}
	return b.carry(ctx, mgl64.QuatRotate(float64(steps)*g.Float("wheel_rotation_step"), b.normal))
}

func (b *Move) ActionFinish(*brush.Context) error {
	b.rows, b.rel = nil, nil
	return nil
}

func (b *Move) Widgets(ctx *brush.Context, l *widget.Layers) {
	b.Base.Widgets(ctx, l)
	if len(b.rows) > 0 && ctx.Tracker.OnSurface {
		for _, r := range b.rel {
			l.Add(widget.Dot3D(ctx.Tracker.Pos3D.Add(r), 2, ctx.Theme.Secondary))
		}
	}
}

// FreeMove drags points by the pointer motion, weighted by the falloff.
type FreeMove struct {
	brush.Base

	sel *selection.Result
}

// NewFreeMove creates the free move tool.
func NewFreeMove() brush.Brush {
	b := &FreeMove{}
	b.Spec = kit.Info("free_move", brush.CategoryModify, "LMB drag: drag points with falloff")
	b.Selection = selection.Weights3D
	b.Definitions = kit.RadiusOnly()
	return b
}

func (b *FreeMove) ActionBegin(ctx *brush.Context) error {
	b.sel = nil
	if !ctx.Tracker.OnSurface {
		return nil
	}
	sel, err := ctx.Select(b.Selection)
	if err != nil || sel.Empty() {
		return err
	}
	b.sel = sel
	return nil
}

func (b *FreeMove) ActionUpdate(ctx *brush.Context) error {
	if b.sel == nil || !ctx.Tracker.OnSurface {
		return nil
	}
	t := ctx.Tracker
	delta := t.Pos3D.Sub(t.Prev3D)
	if delta.Len() < math.Epsilon {
		return nil
	}
	for i := range b.sel.World {
		b.sel.World[i] = b.sel.World[i].Add(delta.Mul(b.sel.Weights[i]))
	}
	if err := kit.Reproject(ctx.Store, ctx.Cache, b.sel.Rows, b.sel.World, updateUUID(ctx)); err != nil {
		return err
	}
	if ctx.Props.Bool("use_align_surface") {
		return ctx.Regenerate(b.sel.Rows)
	}
	return nil
}

func (b *FreeMove) ActionFinish(ctx *brush.Context) error {
	if b.sel != nil {
		defer func() { b.sel = nil }()
		return ctx.Regenerate(b.sel.Rows)
	}
	return nil
}

// DropDown lets the points under a screen circle fall onto the surface
// below them.
type DropDown struct {
	modifier
}

// NewDropDown creates the drop down tool.
func NewDropDown() brush.Brush {
	b := &DropDown{}
	b.Spec = kit.Info("drop_down", brush.CategoryModify, "LMB: drop points onto the surface below")
	b.Selection = selection.Indices2D
	b.Definitions = gesture.Definitions{
		gesture.Primary:   kit.Radius2D(),
		gesture.Secondary: kit.Toggle("use_up_surface", "Use Surface Above"),
		gesture.Tertiary:  kit.Toggle("use_ground_plane", "Use Ground Plane"),
	}
	b.apply = b.drop
	return b
}

func (b *DropDown) drop(ctx *brush.Context, sel *selection.Result) error {
	g := ctx.Props
	update := updateUUID(ctx)
	var rows []int
	var snaps []kit.Snap
	var ground []int
	for i, p := range sel.World {
		below := p.Sub(math.AxisZ.Mul(1e-5))
		sn, ok := kit.Cast(ctx.Cache, below, math.AxisZ.Mul(-1))
		if !ok && g.Bool("use_up_surface") {
			sn, ok = kit.Cast(ctx.Cache, p.Add(math.AxisZ.Mul(1e-5)), math.AxisZ)
		}
		if ok {
			rows = append(rows, sel.Rows[i])
			snaps = append(snaps, sn)
			continue
		}
		if g.Bool("use_ground_plane") {
			ground = append(ground, i)
		}
	}
	if len(rows) > 0 {
		if err := kit.Place(ctx.Store, rows, snaps, update); err != nil {
			return err
		}
	}
	if len(ground) > 0 {
		h := g.Float("ground_height")
		gr := make([]int, len(ground))
		world := make([]mgl64.Vec3, len(ground))
		up := make([]mgl64.Vec3, len(ground))
		for k, i := range ground {
			gr[k] = sel.Rows[i]
			world[k] = mgl64.Vec3{sel.World[i][0], sel.World[i][1], h}
			up[k] = math.AxisZ
		}
		if err := ctx.Store.SetWorldCo(gr, world); err != nil {
			return err
		}
		if err := ctx.Store.SetWorldNormal(gr, up); err != nil {
			return err
		}
	}
	return ctx.Regenerate(sel.Rows)
}
