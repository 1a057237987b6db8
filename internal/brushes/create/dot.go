package create

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/selection"
	"github.com/Faultbox/scatterbrush/internal/widget"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Dot places one point per press. Dragging moves the point, the wheel
// turns or scales it, and ctrl-drag erases instead.
type Dot struct {
	creator
	row     int
	erasing bool
}

// NewDot creates the dot tool.
func NewDot() brush.Brush {
	b := &Dot{row: -1}
	b.Spec = kit.Info("dot", brush.CategoryCreate,
		"LMB: place a point, drag to move it",
		"Wheel while held: rotate, Ctrl+Wheel: scale",
		"Ctrl+LMB: erase")
	b.Definitions = gesture.Definitions{
		gesture.Primary:   kit.Length("erase_radius", "Erase Radius"),
		gesture.Secondary: kit.Angle("wheel_rotation_step", "Rotation Step"),
	}
	return b
}

func (b *Dot) ActionBegin(ctx *brush.Context) error {
	b.row = -1
	b.erasing = ctx.Ctrl()
	if b.erasing {
		return b.erase(ctx)
	}
	at, err := pointer(ctx)
	if err != nil {
		return err
	}
	rows, err := b.store(ctx, []kit.Snap{at})
	if err != nil {
		return err
	}
	if len(rows) == 1 {
		b.row = rows[0]
	}
	return nil
}

func (b *Dot) ActionUpdate(ctx *brush.Context) error {
	if b.erasing {
		return b.erase(ctx)
	}
	if b.row < 0 || !ctx.Tracker.OnSurface {
		return nil
	}
	at, err := pointer(ctx)
	if err != nil {
		return err
	}
	rows := []int{b.row}
	if err := kit.Place(ctx.Store, rows, []kit.Snap{at}, true); err != nil {
		return err
	}
	return ctx.Regenerate(rows)
}

func (b *Dot) ActionFinish(*brush.Context) error {
	b.row = -1
	b.erasing = false
	return nil
}

// Wheel turns the held point around its normal, or scales it with ctrl.
func (b *Dot) Wheel(ctx *brush.Context, steps int) error {
	if b.row < 0 {
		return nil
	}
	t := ctx.Store.T
	g := ctx.Props
	if ctx.Ctrl() {
		f := float32(1 + float64(steps)*g.Float("wheel_scale_step"))
		if f <= 0 {
			return nil
		}
		t.SBase[b.row] = t.SBase[b.row].Mul(f)
	} else {
		rb := t.RBase[b.row]
		rb[2] += float32(float64(steps) * g.Float("wheel_rotation_step"))
		t.RBase[b.row] = rb
	}
	return ctx.Regenerate([]int{b.row})
}

func (b *Dot) erase(ctx *brush.Context) error {
	if !ctx.Tracker.OnSurface {
		return nil
	}
	r := ctx.Props.Float("erase_radius")
	sel, err := ctx.SelectWith(selection.Indices3D, selection.Params{Radius: r, Falloff: 1, Affect: 1, Rng: ctx.Rng})
	if err != nil || sel.Empty() {
		return err
	}
	ctx.Store.RemoveRows(sel.Rows)
	return nil
}

func (b *Dot) Widgets(ctx *brush.Context, l *widget.Layers) {
	t := ctx.Tracker
	if !t.OnSurface {
		brush.DefaultWidgets(ctx, selection.None, l)
		return
	}
	if ctx.Ctrl() || b.erasing {
		l.Add(widget.Circle3D(t.Pos3D, t.Normal, ctx.Props.Float("erase_radius"), 2, ctx.Theme.Negative))
		return
	}
	l.Add(widget.Dot3D(t.Pos3D, 4, ctx.Theme.Default))
	tip := t.Pos3D.Add(math.Normalize(t.Normal).Mul(ctx.View.PixelSize(t.Pos3D) * 40))
	l.Add(widget.Line3D([]mgl64.Vec3{t.Pos3D, tip}, 1, ctx.Theme.Secondary))
}
