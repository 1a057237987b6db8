package create

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/regen"
	"github.com/Faultbox/scatterbrush/internal/selection"
	"github.com/Faultbox/scatterbrush/internal/widget"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// cloneKey is the tool cache slot the sample lives in, so it survives
// switching tools within a session.
const cloneKey = "clone"

// CloneSample is a patch of points recorded relative to the surface frame
// at the sampling location.
type CloneSample struct {
	Offsets []mgl64.Vec3
	// Z and Y are the world axes of every point in the sample frame.
	Z, Y []mgl64.Vec3
	Rows []points.Row
}

// Len returns the number of sampled points.
func (s CloneSample) Len() int { return len(s.Rows) }

// Clone copies a patch of points. Ctrl-click samples the points under the
// brush, click stamps the sample at the pointer.
type Clone struct {
	creator
}

// NewClone creates the clone tool.
func NewClone() brush.Brush {
	b := &Clone{}
	b.Spec = kit.Info("clone", brush.CategoryCreate,
		"Ctrl+LMB: sample points under the brush",
		"LMB: stamp the sample")
	b.Selection = selection.Weights3D
	b.Definitions = gesture.Definitions{
		gesture.Primary:   kit.Radius3D(),
		gesture.Secondary: kit.Toggle("use_align_surface", "Align to Surface"),
	}
	return b
}

// frame is the orientation the sample is recorded in at a surface location.
func frame(n mgl64.Vec3, alignSurface bool) mgl64.Quat {
	if !alignSurface {
		return mgl64.QuatIdent()
	}
	return regen.AlignFrame(n, math.AxisY)
}

func (b *Clone) ActionBegin(ctx *brush.Context) error {
	if ctx.Ctrl() {
		return b.sample(ctx)
	}
	return b.stamp(ctx)
}

func (b *Clone) sample(ctx *brush.Context) error {
	at, err := pointer(ctx)
	if err != nil {
		return err
	}
	sel, err := ctx.SelectWith(selection.Indices3D, selection.Params{Radius: ctx.Props.Float("radius"), Falloff: 1, Affect: 1})
	if err != nil {
		return err
	}
	if sel.Empty() {
		ctx.Session.ClearCache(cloneKey)
		ctx.Hint("Nothing to sample")
		return nil
	}
	z, y, err := kit.WorldFrame(ctx.Store, sel.Rows)
	if err != nil {
		return err
	}
	inv := frame(at.Normal, ctx.Props.Bool("use_align_surface")).Inverse()
	s := CloneSample{
		Offsets: make([]mgl64.Vec3, sel.Len()),
		Z:       make([]mgl64.Vec3, sel.Len()),
		Y:       make([]mgl64.Vec3, sel.Len()),
		Rows:    make([]points.Row, sel.Len()),
	}
	for i, r := range sel.Rows {
		s.Offsets[i] = inv.Rotate(sel.World[i].Sub(at.Location))
		s.Z[i] = inv.Rotate(z[i])
		s.Y[i] = inv.Rotate(y[i])
		s.Rows[i] = ctx.Store.T.Row(r)
	}
	ctx.Log.Debug("clone sampled", zap.Int("points", s.Len()))
	ctx.Hint(fmt.Sprintf("Sampled %d points", s.Len()))
	return brush.SaveCache(ctx.Session, cloneKey, s)
}

func (b *Clone) stamp(ctx *brush.Context) error {
	s, ok, err := brush.LoadCache[CloneSample](ctx.Session, cloneKey)
	if err != nil {
		return err
	}
	if !ok || s.Len() == 0 {
		ctx.Hint("Ctrl+click to sample points first")
		return nil
	}
	at, err := pointer(ctx)
	if err != nil {
		return err
	}
	g := ctx.Props
	delta := math.EulerToQuat(g.Vec3("rotation_delta"))
	q := frame(at.Normal, g.Bool("use_align_surface")).Mul(delta)

	var snaps []kit.Snap
	var src []int
	for i, off := range s.Offsets {
		sn, ok := kit.Nearest(ctx.Cache, at.Location.Add(q.Rotate(off)))
		if !ok {
			continue
		}
		snaps = append(snaps, sn)
		src = append(src, i)
	}
	b.before = func(_ *brush.Context, rows []points.Row, _ []kit.Snap) []points.Row {
		scale := g.Vec3("scale_delta")
		for k, i := range src {
			r := s.Rows[i]
			r.Co, r.Normal, r.SurfaceUUID = rows[k].Co, rows[k].Normal, rows[k].SurfaceUUID
			r.ZOriginal = rows[k].Normal
			r.SBase = r.SBase.Add(scale)
			rows[k] = r
		}
		return rows
	}
	b.after = func(ctx *brush.Context, rows []int, _ []kit.Snap) error {
		z := make([]mgl64.Vec3, len(rows))
		y := make([]mgl64.Vec3, len(rows))
		for k, i := range src {
			z[k] = q.Rotate(s.Z[i])
			y[k] = q.Rotate(s.Y[i])
		}
		regen.CustomFrame(ctx.Store.T, rows, z, y)
		return ctx.Regenerate(rows)
	}
	defer func() { b.before, b.after = nil, nil }()
	_, err = b.store(ctx, snaps)
	return err
}

func (b *Clone) Widgets(ctx *brush.Context, l *widget.Layers) {
	b.Base.Widgets(ctx, l)
	t := ctx.Tracker
	if !t.OnSurface {
		return
	}
	s, ok, err := brush.LoadCache[CloneSample](ctx.Session, cloneKey)
	if err != nil || !ok {
		return
	}
	q := frame(t.Normal, ctx.Props.Bool("use_align_surface")).Mul(math.EulerToQuat(ctx.Props.Vec3("rotation_delta")))
	for _, off := range s.Offsets {
		l.Add(widget.Dot3D(t.Pos3D.Add(q.Rotate(off)), 2, ctx.Theme.Secondary))
	}
}
