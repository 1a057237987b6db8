package create

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/regen"
	"github.com/Faultbox/scatterbrush/internal/widget"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// maxStrokeSteps bounds the points one pointer event may lay down.
const maxStrokeSteps = 10000

// Stroke lays points along the pointer path at a fixed spacing. As a chain
// every point's Y axis follows the direction to the next point.
type Stroke struct {
	creator
	chain bool

	drawing bool
	last    mgl64.Vec3
	prev    int
	prevLoc mgl64.Vec3
}

func strokeGestures() gesture.Definitions {
	return gesture.Definitions{
		gesture.Primary:   kit.Length("distance", "Distance"),
		gesture.Secondary: kit.Length("divergence_distance", "Divergence"),
		gesture.Tertiary:  kit.Toggle("use_align_y_to_stroke", "Align Y to Stroke"),
	}
}

// NewPath creates the path tool.
func NewPath() brush.Brush {
	b := &Stroke{prev: -1}
	b.Spec = kit.Info("path", brush.CategoryCreate, "LMB drag: draw points along the stroke")
	b.Definitions = strokeGestures()
	return b
}

// NewChain creates the chain tool.
func NewChain() brush.Brush {
	b := &Stroke{chain: true, prev: -1}
	b.Spec = kit.Info("chain", brush.CategoryCreate, "LMB drag: draw a chain of points facing along the stroke")
	b.Definitions = strokeGestures()
	delete(b.Definitions, gesture.Tertiary)
	return b
}

func (b *Stroke) aligns(ctx *brush.Context) bool {
	g := ctx.Props
	return b.chain || (g.Has("use_align_y_to_stroke") && g.Bool("use_align_y_to_stroke"))
}

func (b *Stroke) ActionBegin(ctx *brush.Context) error {
	b.prev = -1
	at, err := pointer(ctx)
	if err != nil {
		return err
	}
	rows, err := b.store(ctx, []kit.Snap{at})
	if err != nil {
		return err
	}
	b.last, b.drawing = at.Location, true
	if len(rows) == 1 {
		b.prev, b.prevLoc = rows[0], at.Location
	}
	return nil
}

func (b *Stroke) ActionUpdate(ctx *brush.Context) error {
	if !b.drawing || !ctx.Tracker.OnSurface {
		return nil
	}
	cur := ctx.Tracker.Pos3D
	g := ctx.Props
	spacing := g.Float("distance")
	div := g.Float("divergence_distance")
	for step := 0; step < maxStrokeSteps; step++ {
		d := cur.Sub(b.last)
		dist := d.Len()
		if dist < spacing || dist < math.Epsilon {
			break
		}
		dir := d.Mul(1 / dist)
		on, ok := kit.Nearest(ctx.Cache, b.last.Add(dir.Mul(spacing)))
		if !ok {
			break
		}
		b.last = on.Location
		at := on
		if div > 0 {
			perp := math.Normalize(on.Normal.Cross(dir))
			off := perp.Mul((ctx.Rng.Float64()*2 - 1) * div)
			if s, ok := kit.Nearest(ctx.Cache, on.Location.Add(off)); ok {
				at = s
			}
		}
		if err := b.place(ctx, at, dir); err != nil {
			return err
		}
	}
	return nil
}

// place stores one stroke point and realigns the one before it.
func (b *Stroke) place(ctx *brush.Context, at kit.Snap, dir mgl64.Vec3) error {
	rows, err := b.store(ctx, []kit.Snap{at})
	if err != nil || len(rows) == 0 {
		return err
	}
	if b.aligns(ctx) {
		if b.chain && b.prev >= 0 {
			dir = at.Location.Sub(b.prevLoc)
		}
		if b.prev >= 0 {
			rows = append(rows, b.prev)
		}
		if err := alignY(ctx, rows, []mgl64.Vec3{dir, dir}[:len(rows)]); err != nil {
			return err
		}
	}
	b.prev, b.prevLoc = rows[0], at.Location
	return nil
}

func (b *Stroke) ActionFinish(*brush.Context) error {
	b.prev = -1
	b.drawing = false
	return nil
}

// Line places points between the press location and the release location.
type Line struct {
	creator
	start, end kit.Snap
	drawing    bool
}

// NewLine creates the line tool.
func NewLine() brush.Brush {
	b := &Line{}
	b.Spec = kit.Info("line", brush.CategoryCreate, "LMB drag: draw a line of points")
	b.Definitions = strokeGestures()
	return b
}

func (b *Line) ActionBegin(ctx *brush.Context) error {
	at, err := pointer(ctx)
	if err != nil {
		return err
	}
	b.start, b.end, b.drawing = at, at, true
	return nil
}

func (b *Line) ActionUpdate(ctx *brush.Context) error {
	if !b.drawing || !ctx.Tracker.OnSurface {
		return nil
	}
	at, err := pointer(ctx)
	if err != nil {
		return err
	}
	b.end = at
	return nil
}

func (b *Line) ActionFinish(ctx *brush.Context) error {
	if !b.drawing {
		return nil
	}
	b.drawing = false
	snaps, dir := b.layout(ctx)
	rows, err := b.store(ctx, snaps)
	if err != nil {
		return err
	}
	if g := ctx.Props; g.Has("use_align_y_to_stroke") && g.Bool("use_align_y_to_stroke") {
		dirs := make([]mgl64.Vec3, len(rows))
		for i := range dirs {
			dirs[i] = dir
		}
		return alignY(ctx, rows, dirs)
	}
	return nil
}

// layout spaces points along the line and drops each onto the surface.
func (b *Line) layout(ctx *brush.Context) ([]kit.Snap, mgl64.Vec3) {
	g := ctx.Props
	spacing := g.Float("distance")
	div := g.Float("divergence_distance")
	rng := regen.NewRand(uint64(g.Int("seed")))

	d := b.end.Location.Sub(b.start.Location)
	length := d.Len()
	dir, ok := math.SafeNormalize(d)
	if !ok {
		return []kit.Snap{b.start}, mgl64.Vec3{}
	}
	up := math.Normalize(b.start.Normal.Add(b.end.Normal))
	if up == (mgl64.Vec3{}) {
		up = b.start.Normal
	}
	perp := math.Normalize(up.Cross(dir))

	n := int(gomath.Floor(length/spacing+1e-9)) + 1
	n = min(n, maxStrokeSteps)
	snaps := make([]kit.Snap, 0, n)
	for i := 0; i < n; i++ {
		p := b.start.Location.Add(dir.Mul(float64(i) * spacing))
		if div > 0 {
			p = p.Add(perp.Mul((rng.Float64()*2 - 1) * div))
		}
		if s, ok := kit.Drop(ctx.Cache, p, up); ok {
			snaps = append(snaps, s)
		}
	}
	return snaps, dir
}

func (b *Line) Widgets(ctx *brush.Context, l *widget.Layers) {
	if !b.drawing {
		b.Base.Widgets(ctx, l)
		return
	}
	theme := ctx.Theme
	l.Add(widget.Line3D([]mgl64.Vec3{b.start.Location, b.end.Location}, 2, theme.Default))
	l.Add(widget.Dot3D(b.start.Location, 5, theme.Secondary))
	l.Add(widget.Dot3D(b.end.Location, 5, theme.Secondary))
	spacing := ctx.Props.Float("distance")
	if length := b.end.Location.Sub(b.start.Location).Len(); spacing > 0 && length/spacing < 500 {
		dir := math.Normalize(b.end.Location.Sub(b.start.Location))
		for s := 0.0; s <= length; s += spacing {
			l.Add(widget.Dot3D(b.start.Location.Add(dir.Mul(s)), 2, theme.Default))
		}
	}
}
