package erase

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/geom"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/selection"
)

// Dilute thins the points under the brush until no two are closer than
// minimal_distance. Points nearer the pointer win.
type Dilute struct {
	brush.Base
}

// NewDilute creates the dilute tool.
func NewDilute() brush.Brush {
	b := &Dilute{}
	b.Spec = kit.Info("dilute", brush.CategoryErase, "LMB drag: thin points to the minimal distance")
	b.Dispatch = brush.DispatchBoth
	b.Selection = selection.Indices3D
	b.Definitions = kit.RadiusOnly()
	b.Definitions[gesture.Quaternary] = kit.Length("minimal_distance", "Distance")
	return b
}

func (b *Dilute) ActionBegin(ctx *brush.Context) error  { return b.dilute(ctx) }
func (b *Dilute) ActionUpdate(ctx *brush.Context) error { return b.dilute(ctx) }

func (b *Dilute) dilute(ctx *brush.Context) error {
	if !ctx.Tracker.OnSurface {
		return nil
	}
	sel, err := ctx.Select(b.Selection)
	if err != nil || sel.Len() < 2 {
		return err
	}
	sel.SortByDistance()
	drop := Thin(sel.World, ctx.Props.Float("minimal_distance"))
	if len(drop) == 0 {
		return nil
	}
	rows := make([]int, len(drop))
	for i, k := range drop {
		rows[i] = sel.Rows[k]
	}
	n := ctx.Store.RemoveRows(rows)
	ctx.Log.Debug("diluted", zap.Int("selected", sel.Len()), zap.Int("removed", n))
	return nil
}

// Thin walks pts in order and returns the indices of every point that lies
// within dist of an earlier kept point.
func Thin(pts []mgl64.Vec3, dist float64) []int {
	if dist <= 0 {
		return nil
	}
	idx := geom.NewIndex(pts)
	gone := make([]bool, len(pts))
	var out []int
	for i, p := range pts {
		if gone[i] {
			continue
		}
		for _, j := range idx.Within(p, dist) {
			if j != i && !gone[j] {
				gone[j] = true
				out = append(out, j)
			}
		}
	}
	return out
}
