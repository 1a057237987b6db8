package create

import (
	gomath "math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/regen"
	"github.com/Faultbox/scatterbrush/internal/widget"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

const (
	// maxLassoSamples bounds the points one fill may place.
	maxLassoSamples = 200000
	// maxOversample caps ceil(1/min_weight).
	maxOversample = 50
	// lassoSlack bounds the candidates at this multiple of the expected draws.
	lassoSlack = 4
)

// LassoFill scatters points with a fixed density over the surface area
// enclosed by a drawn lasso.
type LassoFill struct {
	creator
	drawing bool
}

// NewLassoFill creates the lasso fill tool.
func NewLassoFill() brush.Brush {
	b := &LassoFill{}
	b.Spec = kit.Info("lasso_fill", brush.CategoryCreate,
		"LMB drag: draw a lasso, release to fill it")
	b.HighPrecision = true
	b.Definitions = gesture.Definitions{
		gesture.Primary:   {Property: "density", Change: 1, ChangePixels: 10, ChangeWheel: 1, Format: "Density: %.1f", Widget: gesture.Density3D},
		gesture.Secondary: kit.Toggle("omit_backfacing", "Omit Backfacing"),
	}
	return b
}

func (b *LassoFill) ActionBegin(ctx *brush.Context) error {
	ctx.Tracker.BeginLasso()
	b.drawing = true
	return nil
}

func (b *LassoFill) ActionFinish(ctx *brush.Context) error {
	b.drawing = false
	lasso, ok := kit.NewLasso(ctx.Tracker.EndLasso())
	if !ok {
		return nil
	}
	snaps := fill(ctx, lasso)
	_, err := b.store(ctx, snaps)
	return err
}

// fill samples surface locations inside lasso. Candidates are drawn per
// triangle in proportion to its area times its clamped lasso coverage and
// thinned back to a uniform density, so the result approaches density
// points per unit of covered area.
func fill(ctx *brush.Context, lasso *kit.Lasso) []kit.Snap {
	c := ctx.Cache
	v := ctx.View
	g := ctx.Props
	minWeight := g.Float("min_weight")

	var tris []int
	var weights, cumulative []float64
	covered, total := 0.0, 0.0
	for i := 0; i < c.NumTriangles(); i++ {
		if c.FArea[i] <= 0 {
			continue
		}
		a, bb, cc := c.Triangle(i)
		pa, okA := v.Project(a)
		pb, okB := v.Project(bb)
		pc, okC := v.Project(cc)
		if !okA || !okB || !okC {
			continue
		}
		f := lasso.Coverage(pa, pb, pc)
		if f <= 0 {
			continue
		}
		w := gomath.Max(f, minWeight)
		covered += c.FArea[i] * f
		total += c.FArea[i] * w
		tris = append(tris, i)
		weights = append(weights, w)
		cumulative = append(cumulative, total)
	}
	if covered <= 0 {
		return nil
	}

	rng := ctx.Rng
	if !g.Bool("use_random_seed") {
		rng = regen.NewRand(uint64(g.Int("seed")))
	}
	density := g.Float("density")
	n := int(gomath.Round(density * covered))
	if n > maxLassoSamples {
		ctx.Log.Warn("lasso fill capped", zap.Int("requested", n), zap.Int("placed", maxLassoSamples))
		n = maxLassoSamples
	}
	oversample := min(int(gomath.Ceil(1/minWeight)), maxOversample)
	draws := min(int(gomath.Ceil(density*total*float64(oversample)*lassoSlack)), maxLassoSamples*maxOversample)

	type hit struct {
		p   mgl64.Vec3
		tri int
	}
	inside := make([]hit, 0, n)
	for d := 0; d < draws && len(inside) < n; d++ {
		k := min(sort.SearchFloat64s(cumulative, rng.Float64()*total), len(tris)-1)
		i := tris[k]
		a, bb, cc := c.Triangle(i)
		p := math.SampleTriangle(a, bb, cc, rng.Float64(), rng.Float64())
		if rng.Float64()*weights[k] > minWeight {
			continue
		}
		px, ok := v.Project(p)
		if !ok || !lasso.Contains(px) {
			continue
		}
		inside = append(inside, hit{p, i})
	}

	omit := g.Bool("omit_backfacing")
	tol := g.Float("backfacing_tolerance")
	out := make([]kit.Snap, 0, len(inside))
	for _, h := range inside {
		if omit && !kit.Visible(v, c, h.p, tol) {
			continue
		}
		out = append(out, kit.Snap{Location: h.p, Normal: c.NormalAt(h.tri, h.p), UUID: c.SurfaceOf(h.tri)})
	}
	ctx.Log.Debug("lasso fill",
		zap.Int("triangles", len(tris)),
		zap.Float64("covered", covered),
		zap.Int("requested", n),
		zap.Int("placed", len(out)),
	)
	return out
}

func (b *LassoFill) Widgets(ctx *brush.Context, l *widget.Layers) {
	if b.drawing {
		kit.LassoWidgets(ctx.Tracker.Lasso(), ctx.Theme, l)
		return
	}
	l.Add(widget.Dot2D(ctx.Tracker.Pos2D, 3, ctx.Theme.Default))
}
