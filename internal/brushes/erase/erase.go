// Package erase implements the tools that remove points.
package erase

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/props"
	"github.com/Faultbox/scatterbrush/internal/selection"
)

// Eraser removes the points under the brush. Its "mode" property switches
// between a world radius and a screen radius; the selection kernel and the
// gesture table follow the mode.
type Eraser struct {
	brush.Base
	props *props.Group
	mode  string
}

// NewEraser creates the eraser tool.
func NewEraser() brush.Brush {
	b := &Eraser{}
	b.Spec = kit.Info("eraser", brush.CategoryErase, "LMB drag: erase points")
	b.Dispatch = brush.DispatchBoth
	b.sync("3D")
	return b
}

// sync rebuilds the selection kernel and gesture table for mode.
func (b *Eraser) sync(mode string) {
	if mode == b.mode {
		return
	}
	b.mode = mode
	if mode == "2D" {
		b.Selection = selection.Indices2D
		b.Definitions = gesture.Definitions{
			gesture.Primary:   kit.Radius2D(),
			gesture.Secondary: kit.Factor2D("falloff", "Falloff"),
			gesture.Tertiary:  kit.Factor2D("affect", "Affect"),
		}
	} else {
		b.Selection = selection.Indices3D
		b.Definitions = kit.RadiusOnly()
	}
	b.Definitions[gesture.Quaternary] = kit.Choice("mode", "Mode")
}

// Gestures implements brush.Brush. The table is rebuilt whenever the mode
// property changed since the last call.
func (b *Eraser) Gestures() gesture.Definitions {
	if b.props != nil {
		b.sync(b.props.Enum("mode"))
	}
	return b.Definitions
}

func (b *Eraser) Invoke(ctx *brush.Context) error {
	b.props = ctx.Props
	b.sync(ctx.Props.Enum("mode"))
	return nil
}

func (b *Eraser) ActionBegin(ctx *brush.Context) error {
	b.sync(ctx.Props.Enum("mode"))
	return b.erase(ctx)
}

func (b *Eraser) ActionUpdate(ctx *brush.Context) error { return b.erase(ctx) }

func (b *Eraser) erase(ctx *brush.Context) error {
	if !b.Selection.Is2D() && !ctx.Tracker.OnSurface {
		return nil
	}
	sel, err := ctx.Select(b.Selection)
	if err != nil || sel.Empty() {
		return err
	}
	n := ctx.Store.RemoveRows(sel.Rows)
	ctx.Log.Debug("erased", zap.String("mode", b.mode), zap.Int("points", n))
	return nil
}
