package erase

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/widget"
)

// LassoEraser removes every point inside a drawn lasso.
type LassoEraser struct {
	brush.Base
	drawing bool
}

// NewLassoEraser creates the lasso eraser tool.
func NewLassoEraser() brush.Brush {
	b := &LassoEraser{}
	b.Spec = kit.Info("lasso_eraser", brush.CategoryErase,
		"LMB drag: draw a lasso, release to erase inside it")
	b.HighPrecision = true
	b.Definitions = gesture.Definitions{
		gesture.Primary: kit.Toggle("omit_backfacing", "Omit Backfacing"),
	}
	return b
}

func (b *LassoEraser) ActionBegin(ctx *brush.Context) error {
	ctx.Tracker.BeginLasso()
	b.drawing = true
	return nil
}

func (b *LassoEraser) ActionFinish(ctx *brush.Context) error {
	b.drawing = false
	lasso, ok := kit.NewLasso(ctx.Tracker.EndLasso())
	if !ok {
		return nil
	}
	s := ctx.Store
	rows := s.Rows()
	world, err := s.WorldCo(rows)
	if err != nil {
		return err
	}
	omit := ctx.Props.Bool("omit_backfacing")
	tol := ctx.Props.Float("backfacing_tolerance")
	var del []int
	for i, p := range world {
		px, ok := ctx.View.Project(p)
		if !ok || !lasso.Contains(px) {
			continue
		}
		if omit && !kit.Visible(ctx.View, ctx.Cache, p, tol) {
			continue
		}
		del = append(del, rows[i])
	}
	n := s.RemoveRows(del)
	ctx.Log.Debug("lasso erase", zap.Int("inside", len(del)), zap.Int("removed", n))
	return nil
}

func (b *LassoEraser) Widgets(ctx *brush.Context, l *widget.Layers) {
	if b.drawing {
		kit.LassoWidgets(ctx.Tracker.Lasso(), ctx.Theme, l)
		return
	}
	l.Add(widget.Dot2D(ctx.Tracker.Pos2D, 3, ctx.Theme.Negative))
}
