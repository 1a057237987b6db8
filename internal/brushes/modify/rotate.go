package modify

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/regen"
	"github.com/Faultbox/scatterbrush/internal/selection"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// axes returns the rotation axis of every selected point for the "axis"
// property: the surface normal, the surface Z, world Z or the point's own Z.
func axes(ctx *brush.Context, sel *selection.Result) ([]mgl64.Vec3, error) {
	s := ctx.Store
	out := make([]mgl64.Vec3, sel.Len())
	switch mode := ctx.Props.Enum("axis"); mode {
	case "SURFACE_NORMAL":
		n, err := s.WorldNormal(sel.Rows)
		if err != nil {
			return nil, err
		}
		for i := range n {
			out[i] = math.Normalize(n[i])
		}
	case "LOCAL_Z_AXIS":
		for i, r := range sel.Rows {
			m, err := s.Matrix(s.T.SurfaceUUID[r])
			if err != nil {
				return nil, err
			}
			out[i] = math.RotationPart(m).Rotate(math.AxisZ)
		}
	case "GLOBAL_Z_AXIS":
		for i := range out {
			out[i] = math.AxisZ
		}
	case "PARTICLE_Z":
		z, _, err := kit.WorldFrame(s, sel.Rows)
		if err != nil {
			return nil, err
		}
		copy(out, z)
	default:
		return nil, fmt.Errorf("modify: unknown axis %q", mode)
	}
	return out, nil
}

// Spin turns points around an axis. Ctrl turns the other way.
type Spin struct {
	modifier
}

// NewSpin creates the spin tool.
func NewSpin() brush.Brush {
	b := &Spin{}
	b.Spec = kit.Info("spin", brush.CategoryModify, "LMB hold: spin points", "Ctrl+LMB: spin backwards")
	b.Dispatch = brush.DispatchBoth
	b.Selection = selection.Weights3D
	b.Definitions = kit.RadiusOnly()
	b.Definitions[gesture.Secondary] = kit.Angle("angle", "Angle")
	b.Definitions[gesture.Quaternary] = kit.Choice("axis", "Axis")
	b.apply = b.spin
	return b
}

func (b *Spin) spin(ctx *brush.Context, sel *selection.Result) error {
	ax, err := axes(ctx, sel)
	if err != nil {
		return err
	}
	angle := ctx.Props.Float("angle") * ctx.Pressure
	if ctx.Ctrl() {
		angle = -angle
	}
	return kit.RotateFrames(ctx.Store, sel.Rows, func(i int) mgl64.Quat {
		return mgl64.QuatRotate(angle*sel.Weights[i], ax[i])
	})
}

// Comb turns every point's Y axis toward the stroke direction, around the
// chosen axis.
type Comb struct {
	modifier
}

// NewComb creates the comb tool.
func NewComb() brush.Brush {
	b := &Comb{}
	b.Spec = kit.Info("comb", brush.CategoryModify, "LMB drag: comb points along the stroke")
	b.Dispatch = brush.DispatchBoth
	b.Selection = selection.Weights3D
	b.Definitions = kit.RadiusStrength("strength")
	b.Definitions[gesture.Quaternary] = kit.Choice("axis", "Axis")
	b.apply = b.comb
	return b
}

func (b *Comb) comb(ctx *brush.Context, sel *selection.Result) error {
	dir := ctx.Tracker.DirInterp3D
	if dir.Len() < math.Epsilon {
		return nil
	}
	ax, err := axes(ctx, sel)
	if err != nil {
		return err
	}
	_, y, err := kit.WorldFrame(ctx.Store, sel.Rows)
	if err != nil {
		return err
	}
	f := strength(ctx)
	return kit.RotateFrames(ctx.Store, sel.Rows, func(i int) mgl64.Quat {
		a := math.ProjectOnPlane(y[i], ax[i])
		d := math.ProjectOnPlane(dir, ax[i])
		angle := math.SignedAngle(a, d, ax[i])
		return mgl64.QuatRotate(angle*math.Clamp(f*sel.Weights[i], 0, 1), ax[i])
	})
}

// ZAlign tilts points toward the direction the pointer moves across the
// screen.
type ZAlign struct {
	modifier
}

// NewZAlign creates the Z align tool.
func NewZAlign() brush.Brush {
	b := &ZAlign{}
	b.Spec = kit.Info("z_align", brush.CategoryModify, "LMB drag: tilt points toward the stroke")
	b.Dispatch = brush.DispatchBoth
	b.Selection = selection.Weights2D
	b.Definitions = gesture.Definitions{
		gesture.Primary:   kit.Radius2D(),
		gesture.Secondary: kit.Factor2D("strength", "Strength"),
		gesture.Tertiary:  kit.Factor2D("falloff", "Falloff"),
	}
	b.apply = b.align
	return b
}

func (b *ZAlign) align(ctx *brush.Context, sel *selection.Result) error {
	t := ctx.Tracker
	if t.DirInterp2D.Len() < math.Epsilon {
		return nil
	}
	z, _, err := kit.WorldFrame(ctx.Store, sel.Rows)
	if err != nil {
		return err
	}
	normals, err := ctx.Store.WorldNormal(sel.Rows)
	if err != nil {
		return err
	}
	v := ctx.View
	tip := t.Pos2D.Add(t.DirInterp2D.Mul(ctx.Props.Float("radius_2d")))
	f := strength(ctx)
	targets := make([]mgl64.Quat, sel.Len())
	for i, p := range sel.World {
		a, okA := v.Ray(t.Pos2D).IntersectPlane(p, normals[i])
		c, okC := v.Ray(tip).IntersectPlane(p, normals[i])
		d, ok := math.SafeNormalize(c.Sub(a))
		if !okA || !okC || !ok {
			targets[i] = mgl64.QuatIdent()
			continue
		}
		full := math.RotationBetween(z[i], d)
		targets[i] = mgl64.QuatSlerp(mgl64.QuatIdent(), full, math.Clamp(f*sel.Weights[i], 0, 1))
	}
	return kit.RotateFrames(ctx.Store, sel.Rows, func(i int) mgl64.Quat { return targets[i] })
}

// RotationSet rewrites the rotation settings of points with the tool's
// instance settings.
type RotationSet struct {
	modifier
}

// NewRotationSet creates the rotation set tool.
func NewRotationSet() brush.Brush {
	b := &RotationSet{}
	b.Spec = kit.Info("rotation_set", brush.CategoryModify, "LMB drag: apply rotation settings")
	b.Selection = selection.Indices3D
	b.Definitions = kit.RadiusOnly()
	b.Definitions[gesture.Quaternary] = kit.Toggle("use_reseed", "Reseed")
	b.apply = b.set
	return b
}

func (b *RotationSet) set(ctx *brush.Context, sel *selection.Result) error {
	ctx.Settings().ApplyRotation(ctx.Store.T, sel.Rows, ctx.Props.Bool("use_reseed"), ctx.Rng)
	return regen.Rotation(ctx.Store, sel.Rows)
}

// RandomRotation gives points a fresh random rotation within the tool's
// range.
type RandomRotation struct {
	modifier
}

// NewRandomRotation creates the random rotation tool.
func NewRandomRotation() brush.Brush {
	b := &RandomRotation{}
	b.Spec = kit.Info("random_rotation", brush.CategoryModify, "LMB drag: randomize rotation")
	b.Selection = selection.Indices3D
	b.Definitions = kit.RadiusOnly()
	b.apply = b.randomize
	return b
}

func (b *RandomRotation) randomize(ctx *brush.Context, sel *selection.Result) error {
	t := ctx.Store.T
	rr := math.Vec3To32(ctx.Props.Vec3("rotation_random"))
	for _, r := range sel.Rows {
		t.RRandom[r] = rr
	}
	regen.ReseedRotation(t, sel.Rows, ctx.Rng)
	return regen.Rotation(ctx.Store, sel.Rows)
}
