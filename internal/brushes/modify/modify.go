// Package modify implements the tools that change existing points: moving,
// relaxing, pushing, spinning, combing and rewriting their instance
// attributes.
package modify

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/selection"
)

// modifier is embedded by every modify tool. Each press and each update
// selects under the pointer and hands a non-empty selection to apply.
type modifier struct {
	brush.Base
	apply func(ctx *brush.Context, sel *selection.Result) error
}

func (m *modifier) ActionBegin(ctx *brush.Context) error  { return m.run(ctx) }
func (m *modifier) ActionUpdate(ctx *brush.Context) error { return m.run(ctx) }

func (m *modifier) run(ctx *brush.Context) error {
	if !m.Selection.Is2D() && !ctx.Tracker.OnSurface {
		return nil
	}
	sel, err := ctx.Select(m.Selection)
	if err != nil {
		return err
	}
	if sel.Empty() {
		return nil
	}
	return m.apply(ctx, sel)
}

// strength is the tool strength scaled by pen pressure.
func strength(ctx *brush.Context) float64 {
	s := 1.0
	if ctx.Props.Has("strength") {
		s = ctx.Props.Float("strength")
	}
	return s * ctx.Pressure
}

// updateUUID reports whether moved points adopt the surface they land on.
func updateUUID(ctx *brush.Context) bool {
	g := ctx.Props
	return !g.Has("use_update_uuid") || g.Bool("use_update_uuid")
}

// tangentDir is the interpolated pointer direction flattened onto the
// surface under the pointer.
func tangentDir(ctx *brush.Context) (mgl64.Vec3, bool) {
	t := ctx.Tracker
	d := t.DirInterp3D.Sub(t.Normal.Mul(t.DirInterp3D.Dot(t.Normal)))
	l := d.Len()
	if l < 1e-9 {
		return mgl64.Vec3{}, false
	}
	return d.Mul(1 / l), true
}

// translate moves the selection by per-point offsets and snaps the result
// back onto the surface.
func translate(ctx *brush.Context, sel *selection.Result, offset func(i int) mgl64.Vec3) error {
	world := make([]mgl64.Vec3, sel.Len())
	for i, p := range sel.World {
		world[i] = p.Add(offset(i))
	}
	if err := kit.Reproject(ctx.Store, ctx.Cache, sel.Rows, world, updateUUID(ctx)); err != nil {
		return err
	}
	return ctx.Regenerate(sel.Rows)
}
