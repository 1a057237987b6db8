package modify

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/geom"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/selection"
	"github.com/Faultbox/scatterbrush/internal/widget"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Relax evens out point spacing: every selected point moves toward the
// average of its Delaunay neighbours in the XY plane. Points on the convex
// hull stay where they are.
type Relax struct {
	modifier
	// failed latches after a triangulation failure until the next press.
	failed bool
}

// NewRelax creates the relax tool.
func NewRelax() brush.Brush {
	b := &Relax{}
	b.Spec = kit.Info("relax", brush.CategoryModify, "LMB drag: even out point spacing")
	b.Dispatch = brush.DispatchBoth
	b.Selection = selection.Weights3D
	b.Definitions = kit.RadiusStrength("strength")
	b.Definitions[gesture.Quaternary] = kit.Count("passes", "Passes")
	b.apply = b.relax
	return b
}

func (b *Relax) ActionBegin(ctx *brush.Context) error {
	if ctx.Config.Relax.ClearLatchOnPress {
		b.failed = false
	}
	return b.run(ctx)
}

func (b *Relax) relax(ctx *brush.Context, sel *selection.Result) error {
	if b.failed {
		return nil
	}
	s := ctx.Store
	all := s.Rows()
	if len(all) < 3 {
		return fmt.Errorf("relax needs 3 points, have %d: %w", len(all), brush.ErrEmptyData)
	}
	world, err := s.WorldCo(all)
	if err != nil {
		return err
	}
	cfg := ctx.Config.Relax

	xy := make([]mgl64.Vec2, len(world))
	for i, p := range world {
		xy[i] = mgl64.Vec2{p[0], p[1]}
	}
	xy, split := geom.SplitImpulse(xy, cfg.SplitImpulseEpsilon)
	hull := geom.ConvexHull(xy)
	ring := geom.ExpandRing(xy, hull, cfg.HullExpand, ctx.Props.Float("radius"))
	tri, err := geom.Delaunay(append(append([]mgl64.Vec2(nil), xy...), ring...))
	if err != nil {
		b.failed = true
		ctx.Log.Warn("relax triangulation failed", zap.Int("points", len(xy)), zap.Error(err))
		return err
	}
	neighbors := tri.Neighbors()

	pinned := make([]bool, len(tri.Points))
	for _, i := range hull {
		pinned[i] = true
	}
	for i := len(xy); i < len(pinned); i++ {
		pinned[i] = true
	}
	hullPoly := make([]mgl64.Vec2, len(hull))
	for k, i := range hull {
		hullPoly[k] = xy[i]
	}

	pos := append([]mgl64.Vec2(nil), tri.Points...)
	factor := strength(ctx)
	passes := max(ctx.Props.Int("passes"), 1)
	for range passes {
		next := append([]mgl64.Vec2(nil), pos...)
		for k, m := range sel.Masked {
			if pinned[m] || len(neighbors[m]) == 0 {
				continue
			}
			var avg mgl64.Vec2
			for _, j := range neighbors[m] {
				avg = avg.Add(pos[j])
			}
			avg = avg.Mul(1 / float64(len(neighbors[m])))
			p := pos[m].Add(avg.Sub(pos[m]).Mul(factor * sel.Weights[k]))
			if geom.PointInPolygon(p, hullPoly) {
				next[m] = p
			}
		}
		pos = next
	}

	useNormal := ctx.Props.Bool("use_normal")
	var rows []int
	var snaps []kit.Snap
	normals, err := s.WorldNormal(sel.Rows)
	if err != nil {
		return err
	}
	for k, m := range sel.Masked {
		if pinned[m] {
			continue
		}
		old := world[m]
		p := mgl64.Vec3{pos[m][0], pos[m][1], old[2]}
		sn, ok := kit.Drop(ctx.Cache, p, math.AxisZ)
		if !ok {
			continue
		}
		if !useNormal {
			sn.Normal = normals[k]
		}
		rows = append(rows, sel.Rows[k])
		snaps = append(snaps, sn)
	}
	ctx.Log.Debug("relax", zap.Int("moved", len(rows)), zap.Int("split", split), zap.Int("passes", passes))
	if len(rows) == 0 {
		return nil
	}
	if err := kit.Place(s, rows, snaps, updateUUID(ctx)); err != nil {
		return err
	}
	return ctx.Regenerate(rows)
}

func (b *Relax) Widgets(ctx *brush.Context, l *widget.Layers) {
	b.Base.Widgets(ctx, l)
	if b.failed {
		l.Add(widget.Tooltip2D(ctx.Tracker.Pos2D.Add(mgl64.Vec2{16, -16}),
			[]string{"Triangulation failed", "Press again to retry"}, ctx.Theme.Negative))
	}
}
