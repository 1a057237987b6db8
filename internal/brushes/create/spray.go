package create

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

// tangents returns two unit vectors spanning the plane perpendicular to n.
func tangents(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	t1 := math.Normalize(math.Perpendicular(n))
	return t1, n.Cross(t1)
}

// Spatter drops one point per timer tick somewhere around the pointer.
type Spatter struct {
	creator
}

// NewSpatter creates the spatter tool.
func NewSpatter() brush.Brush {
	b := &Spatter{}
	b.Spec = kit.Info("spatter", brush.CategoryCreate, "LMB hold: drop points around the pointer")
	b.Dispatch = brush.DispatchTimer
	b.Definitions = gesture.Definitions{
		gesture.Primary:   kit.Length("divergence_distance", "Divergence"),
		gesture.Secondary: kit.Factor("interval", "Interval"),
	}
	return b
}

func (b *Spatter) ActionBegin(ctx *brush.Context) error  { return b.drop(ctx) }
func (b *Spatter) ActionUpdate(ctx *brush.Context) error { return b.drop(ctx) }

func (b *Spatter) drop(ctx *brush.Context) error {
	at, err := pointer(ctx)
	if err != nil {
		return err
	}
	if r := ctx.Props.Float("divergence_distance"); r > 0 {
		t1, t2 := tangents(at.Normal)
		rr := r * gomath.Sqrt(ctx.Rng.Float64())
		a := ctx.Rng.Float64() * 2 * gomath.Pi
		p := at.Location.Add(t1.Mul(rr * gomath.Cos(a))).Add(t2.Mul(rr * gomath.Sin(a)))
		s, ok := kit.Drop(ctx.Cache, p, at.Normal)
		if !ok {
			if s, ok = kit.Nearest(ctx.Cache, p); !ok {
				return nil
			}
		}
		at = s
	}
	_, err = b.store(ctx, []kit.Snap{at})
	return err
}

func (b *Spatter) Widgets(ctx *brush.Context, l *widget.Layers) {
	t := ctx.Tracker
	if !t.OnSurface {
		b.Base.Widgets(ctx, l)
		return
	}
	l.Add(widget.Dot3D(t.Pos3D, 4, ctx.Theme.Default))
	if r := ctx.Props.Float("divergence_distance"); r > 0 {
		l.Add(widget.Circle3D(t.Pos3D, t.Normal, r, 1, ctx.Theme.Secondary))
	}
}

// Spray shoots rays from a nozzle above the pointer and places a point
// wherever one lands. The aligned variant turns every point's Y axis along
// the stroke.
type Spray struct {
	creator
	aligned bool
}

func sprayGestures() gesture.Definitions {
	return gesture.Definitions{
		gesture.Primary:    kit.Radius3D(),
		gesture.Secondary:  kit.Count("num_dots", "Dots"),
		gesture.Tertiary:   kit.Length("jet", "Jet"),
		gesture.Quaternary: kit.Length("minimal_distance", "Minimal Distance"),
	}
}

// NewSpray creates the spray tool.
func NewSpray() brush.Brush {
	b := &Spray{}
	b.Spec = kit.Info("spray", brush.CategoryCreate, "LMB hold: spray points")
	b.Dispatch = brush.DispatchTimer
	b.Selection = selection.Weights3D
	b.Definitions = sprayGestures()
	return b
}

// NewSprayAligned creates the spray tool that aligns points to the stroke.
func NewSprayAligned() brush.Brush {
	b := &Spray{aligned: true}
	b.Spec = kit.Info("spray_aligned", brush.CategoryCreate, "LMB drag: spray points facing along the stroke")
	b.Dispatch = brush.DispatchTimer
	b.Selection = selection.Weights3D
	b.Definitions = sprayGestures()
	b.after = b.alignToStroke
	return b
}

func (b *Spray) ActionBegin(ctx *brush.Context) error  { return b.spray(ctx) }
func (b *Spray) ActionUpdate(ctx *brush.Context) error { return b.spray(ctx) }

func (b *Spray) alignToStroke(ctx *brush.Context, rows []int, _ []kit.Snap) error {
	dir := ctx.Tracker.DirInterp3D
	if dir == (mgl64.Vec3{}) {
		return nil
	}
	dirs := make([]mgl64.Vec3, len(rows))
	for i := range dirs {
		dirs[i] = dir
	}
	return alignY(ctx, rows, dirs)
}

// spray casts num_dots rays from the nozzle at jet above the pointer.
func (b *Spray) spray(ctx *brush.Context) error {
	at, err := pointer(ctx)
	if err != nil {
		return err
	}
	g := ctx.Props
	radius := g.Float("radius")
	jet := gomath.Max(g.Float("jet"), 1e-4)
	reach := g.Float("reach")
	uniform := g.Bool("uniform")

	n := at.Normal
	t1, t2 := tangents(n)
	origin := at.Location.Add(n.Mul(jet))
	cosMax := gomath.Cos(gomath.Atan2(radius, jet))
	limit := gomath.Hypot(jet, radius) + reach

	rng := ctx.Rng
	var snaps []kit.Snap
	for i := 0; i < g.Int("num_dots"); i++ {
		phi := rng.Float64() * 2 * gomath.Pi
		var dir mgl64.Vec3
		if uniform {
			r := radius * gomath.Sqrt(rng.Float64())
			target := at.Location.Add(t1.Mul(r * gomath.Cos(phi))).Add(t2.Mul(r * gomath.Sin(phi)))
			dir = target.Sub(origin)
		} else {
			cosT := 1 - rng.Float64()*(1-cosMax)
			sinT := gomath.Sqrt(gomath.Max(0, 1-cosT*cosT))
			side := t1.Mul(gomath.Cos(phi)).Add(t2.Mul(gomath.Sin(phi)))
			dir = n.Mul(-cosT).Add(side.Mul(sinT))
		}
		s, ok := kit.Cast(ctx.Cache, origin, dir)
		if !ok || s.Location.Sub(origin).Len() > limit {
			continue
		}
		snaps = append(snaps, s)
	}
	if g.Bool("use_minimal_distance") {
		if snaps, err = b.thin(ctx, at, snaps); err != nil {
			return err
		}
	}
	_, err = b.store(ctx, snaps)
	return err
}

// thin drops new points closer than minimal_distance to an existing point
// or to a new point kept before them.
func (b *Spray) thin(ctx *brush.Context, at kit.Snap, snaps []kit.Snap) ([]kit.Snap, error) {
	g := ctx.Props
	minDist := g.Float("minimal_distance")
	if minDist <= 0 || len(snaps) == 0 {
		return snaps, nil
	}
	reach := g.Float("radius") + g.Float("reach") + minDist
	near, err := ctx.SelectWith(selection.Indices3D, selection.Params{Radius: reach, Falloff: 1, Affect: 1})
	if err != nil {
		return nil, err
	}
	idx := geom.NewIndex(near.World)
	kept := snaps[:0]
	for _, s := range snaps {
		if idx.Any(s.Location, minDist) {
			continue
		}
		idx.Insert(s.Location)
		kept = append(kept, s)
	}
	return kept, nil
}

func (b *Spray) Widgets(ctx *brush.Context, l *widget.Layers) {
	t := ctx.Tracker
	if !t.OnSurface {
		b.Base.Widgets(ctx, l)
		return
	}
	g := ctx.Props
	r := g.Float("radius")
	apex := t.Pos3D.Add(t.Normal.Mul(g.Float("jet")))
	l.Add(widget.Circle3D(t.Pos3D, t.Normal, r, 2, ctx.Theme.Default))
	l.Add(widget.Cone3D(apex, t.Pos3D, r, ctx.Theme.Secondary.Alpha(0.3)))
}
