package modify

import (
	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/regen"
	"github.com/Faultbox/scatterbrush/internal/selection"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// ScaleSet rewrites the scale settings of points with the tool's instance
// settings and clears their grow/shrink changes.
type ScaleSet struct {
	modifier
}

// NewScaleSet creates the scale set tool.
func NewScaleSet() brush.Brush {
	b := &ScaleSet{}
	b.Spec = kit.Info("scale_set", brush.CategoryModify, "LMB drag: apply scale settings")
	b.Selection = selection.Indices3D
	b.Definitions = kit.RadiusOnly()
	b.Definitions[gesture.Quaternary] = kit.Toggle("use_reseed", "Reseed")
	b.apply = b.set
	return b
}

func (b *ScaleSet) set(ctx *brush.Context, sel *selection.Result) error {
	ctx.Settings().ApplyScale(ctx.Store.T, sel.Rows, ctx.Props.Bool("use_reseed"), ctx.Rng)
	regen.Scale(ctx.Store.T, sel.Rows)
	return nil
}

// GrowShrink adds to the scale of points every step. Ctrl shrinks.
type GrowShrink struct {
	modifier
}

// NewGrowShrink creates the grow/shrink tool.
func NewGrowShrink() brush.Brush {
	b := &GrowShrink{}
	b.Spec = kit.Info("grow_shrink", brush.CategoryModify, "LMB hold: grow points", "Ctrl+LMB: shrink points")
	b.Dispatch = brush.DispatchBoth
	b.Selection = selection.Weights3D
	b.Definitions = kit.RadiusOnly()
	b.Definitions[gesture.Quaternary] = kit.Toggle("use_limits", "Limits")
	b.apply = b.grow
	return b
}

func (b *GrowShrink) grow(ctx *brush.Context, sel *selection.Result) error {
	g := ctx.Props
	t := ctx.Store.T
	change := math.Vec3To32(g.Vec3("change"))
	if ctx.Ctrl() {
		change = change.Mul(-1)
	}
	random := g.Bool("use_random")
	lo, hi := float32(g.Float("random_min")), float32(g.Float("random_max"))
	limits := g.Bool("use_limits")
	limMin, limMax := math.Vec3To32(g.Vec3("limit_min")), math.Vec3To32(g.Vec3("limit_max"))
	pressure := float32(ctx.Pressure)

	for i, r := range sel.Rows {
		d := change.Mul(float32(sel.Weights[i]) * pressure)
		if random {
			k := t.SChangeRandom[r]
			for c := range d {
				d[c] *= lo + k[c]*(hi-lo)
			}
		}
		next := t.SChange[r].Add(d)
		if limits {
			// the limits bound the resulting scale, not the change itself
			base := t.Scale[r].Sub(t.SChange[r])
			next = kit.ClampScale(base.Add(next), limMin, limMax).Sub(base)
		}
		t.SChange[r] = next
	}
	regen.Scale(t, sel.Rows)
	return nil
}

// ObjectSet assigns the tool's instance index to points.
type ObjectSet struct {
	modifier
}

// NewObjectSet creates the object set tool.
func NewObjectSet() brush.Brush {
	b := &ObjectSet{}
	b.Spec = kit.Info("object_set", brush.CategoryModify, "LMB drag: set the instance of points")
	b.Selection = selection.Indices3D
	b.Definitions = kit.RadiusOnly()
	b.Definitions[gesture.Quaternary] = kit.Count("instance_index", "Instance")
	b.apply = b.set
	return b
}

func (b *ObjectSet) set(ctx *brush.Context, sel *selection.Result) error {
	idx := int32(ctx.Props.Int("instance_index"))
	t := ctx.Store.T
	changed := false
	for _, r := range sel.Rows {
		if t.Index[r] != idx {
			t.Index[r] = idx
			changed = true
		}
	}
	if changed {
		ctx.Host.Scene.MeshUpdated()
	}
	return nil
}
