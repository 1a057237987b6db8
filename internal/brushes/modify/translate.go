package modify

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/geom"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/selection"
	"github.com/Faultbox/scatterbrush/internal/widget"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// pushRate is the share of the radius a full-strength stroke moves a point
// per step.
const pushRate = 0.1

// Attract pulls points toward the pointer. Ctrl pushes them away.
type Attract struct {
	modifier
}

// NewAttract creates the attract tool.
func NewAttract() brush.Brush {
	b := &Attract{}
	b.Spec = kit.Info("attract", brush.CategoryModify, "LMB hold: pull points in", "Ctrl+LMB: push points out")
	b.Dispatch = brush.DispatchBoth
	b.Selection = selection.Weights3D
	b.Definitions = kit.RadiusStrength("strength")
	b.apply = b.attract
	return b
}

func (b *Attract) attract(ctx *brush.Context, sel *selection.Result) error {
	loc := ctx.Tracker.Pos3D
	f := strength(ctx)
	if ctx.Ctrl() {
		f = -f
	}
	return translate(ctx, sel, func(i int) mgl64.Vec3 {
		return loc.Sub(sel.World[i]).Mul(math.Clamp(f*sel.Weights[i], -1, 1))
	})
}

func (b *Attract) Widgets(ctx *brush.Context, l *widget.Layers) {
	b.Base.Widgets(ctx, l)
	if ctx.Tracker.OnSurface && ctx.Ctrl() {
		t := ctx.Tracker
		l.Add(widget.Circle3D(t.Pos3D, t.Normal, ctx.Props.Float("radius")*0.5, 1, ctx.Theme.Negative))
	}
}

// Push shoves points along the stroke direction. With flatten, or ctrl,
// points ahead of the pointer hold still so the stroke piles them into a
// front instead of sweeping them along.
type Push struct {
	modifier
}

// NewPush creates the push tool.
func NewPush() brush.Brush {
	b := &Push{}
	b.Spec = kit.Info("push", brush.CategoryModify, "LMB drag: push points along the stroke", "Ctrl: flatten")
	b.Dispatch = brush.DispatchBoth
	b.Selection = selection.Weights3D
	b.Definitions = kit.RadiusStrength("strength")
	b.Definitions[gesture.Quaternary] = kit.Toggle("use_flatten", "Flatten")
	b.apply = b.push
	return b
}

func (b *Push) push(ctx *brush.Context, sel *selection.Result) error {
	dir, ok := tangentDir(ctx)
	if !ok {
		return nil
	}
	loc := ctx.Tracker.Pos3D
	flatten := ctx.Props.Bool("use_flatten") || ctx.Ctrl()
	step := pushRate * ctx.Props.Float("radius") * strength(ctx)
	return translate(ctx, sel, func(i int) mgl64.Vec3 {
		if flatten && sel.World[i].Sub(loc).Dot(dir) > 0 {
			return mgl64.Vec3{}
		}
		return dir.Mul(step * sel.Weights[i])
	})
}

// Split parts points to both sides of the stroke. Ctrl gathers them onto
// the stroke line.
type Split struct {
	modifier
}

// NewSplit creates the split tool.
func NewSplit() brush.Brush {
	b := &Split{}
	b.Spec = kit.Info("split", brush.CategoryModify, "LMB drag: part points along the stroke", "Ctrl+LMB drag: gather them")
	b.Dispatch = brush.DispatchBoth
	b.Selection = selection.Weights3D
	b.Definitions = kit.RadiusStrength("strength")
	b.apply = b.split
	return b
}

func (b *Split) split(ctx *brush.Context, sel *selection.Result) error {
	dir, ok := tangentDir(ctx)
	if !ok {
		return nil
	}
	t := ctx.Tracker
	side := math.Normalize(t.Normal.Cross(dir))
	step := pushRate * ctx.Props.Float("radius") * strength(ctx)
	if ctx.Ctrl() {
		step = -step
	}
	return translate(ctx, sel, func(i int) mgl64.Vec3 {
		d := sel.World[i].Sub(t.Pos3D).Dot(side)
		s := 1.0
		if d < 0 {
			s = -1
		}
		off := step * sel.Weights[i]
		if step < 0 {
			// gathering stops on the line
			off = gomath.Max(off, -gomath.Abs(d))
		}
		return side.Mul(s * off)
	})
}

// Turbulence drifts points along per-point directions that wander with a
// noise field, giving an organic scatter.
type Turbulence struct {
	modifier
	noise *geom.Perlin
}

// NewTurbulence creates the turbulence tool.
func NewTurbulence() brush.Brush {
	b := &Turbulence{}
	b.Spec = kit.Info("turbulence", brush.CategoryModify, "LMB hold: stir points")
	b.Dispatch = brush.DispatchBoth
	b.Selection = selection.Weights3D
	b.Definitions = kit.RadiusStrength("noise_strength")
	b.Definitions[gesture.Quaternary] = kit.Length("factor", "Step")
	b.apply = b.stir
	return b
}

func (b *Turbulence) Invoke(ctx *brush.Context) error {
	b.noise = geom.NewPerlin(uint64(ctx.Props.Int("seed")))
	return nil
}

// noiseOffset decorrelates the noise lookups of neighbouring points.
func noiseOffset(id int32) mgl64.Vec3 {
	f := float64(id)
	return mgl64.Vec3{f * 17.31, f * 3.97, f * 11.13}
}

func (b *Turbulence) stir(ctx *brush.Context, sel *selection.Result) error {
	g := ctx.Props
	t := ctx.Store.T
	normals, err := ctx.Store.WorldNormal(sel.Rows)
	if err != nil {
		return err
	}
	scale := g.Float("noise_scale")
	amount := g.Float("noise_strength")
	step := g.Float("factor")
	return translate(ctx, sel, func(i int) mgl64.Vec3 {
		r := sel.Rows[i]
		n := normals[i]
		v := math.Vec3To64(t.ZRandom[r])
		v = v.Add(b.noise.Vector(sel.World[i].Mul(scale).Add(noiseOffset(t.ID[r]))).Mul(amount))
		v = math.ProjectOnPlane(v, n)
		u, ok := math.SafeNormalize(v)
		if !ok {
			u = math.Normalize(math.Perpendicular(n))
		}
		t.ZRandom[r] = math.Vec3To32(u)
		return u.Mul(step * sel.Weights[i])
	})
}
