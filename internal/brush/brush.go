// Package brush is the modal runtime every scatter tool runs in: the Brush
// contract, the shared per-tool state, the event driver and the session
// bookkeeping that restores the host when a tool exits.
package brush

import (
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/selection"
	"github.com/Faultbox/scatterbrush/internal/widget"
)

// Category groups tools in the host UI.
type Category string

const (
	CategoryCreate  Category = "CREATE"
	CategoryModify  Category = "MODIFY"
	CategoryErase   Category = "ERASE"
	CategorySpecial Category = "SPECIAL"
)

// Dispatch selects what drives action updates.
type Dispatch int

const (
	DispatchMouseMove Dispatch = iota
	DispatchTimer
	DispatchBoth
)

func (d Dispatch) String() string {
	switch d {
	case DispatchTimer:
		return "TIMER"
	case DispatchBoth:
		return "BOTH"
	default:
		return "MOUSEMOVE"
	}
}

func (d Dispatch) usesTimer() bool { return d != DispatchMouseMove }
func (d Dispatch) usesMove() bool  { return d != DispatchTimer }

// Info is what the host UI shows for a tool.
type Info struct {
	ID       string
	Category Category
	Label    string
	Icon     string
	Infobox  []string
}

// Brush is one tool. Embed *Base or Base to get no-op defaults and
// override what the tool needs.
type Brush interface {
	Info() Info
	Common() *Base
	Gestures() gesture.Definitions

	// Invoke runs once when the tool is activated.
	Invoke(ctx *Context) error
	ActionBegin(ctx *Context) error
	ActionUpdate(ctx *Context) error
	ActionFinish(ctx *Context) error
	// ModifiersChanged runs when a modifier key goes down or up.
	ModifiersChanged(ctx *Context)
	// Widgets appends the idle cursor overlay.
	Widgets(ctx *Context, l *widget.Layers)
	// Teardown runs once when the tool exits normally.
	Teardown(ctx *Context) error
}

// Wheeler is implemented by tools that use the wheel while a stroke is held.
// steps is +1 per wheel-up notch and -1 per wheel-down notch.
type Wheeler interface {
	Wheel(ctx *Context, steps int) error
}

// Base is the state shared by every tool.
type Base struct {
	Spec     Info
	Dispatch Dispatch
	// HighPrecision routes inbetween pointer samples to the action.
	HighPrecision bool
	Selection     selection.Type
	Definitions   gesture.Definitions
	// NoUndo skips the per-stroke undo push.
	NoUndo bool
}

func (b *Base) Info() Info                    { return b.Spec }
func (b *Base) Common() *Base                 { return b }
func (b *Base) Gestures() gesture.Definitions { return b.Definitions }
func (b *Base) Invoke(*Context) error         { return nil }
func (b *Base) ActionBegin(*Context) error    { return nil }
func (b *Base) ActionUpdate(*Context) error   { return nil }
func (b *Base) ActionFinish(*Context) error   { return nil }
func (b *Base) ModifiersChanged(*Context)     {}
func (b *Base) Teardown(*Context) error       { return nil }

// Widgets draws the brush circle at the pointer, or a no-entry mark when a
// 3D tool is off-surface.
func (b *Base) Widgets(ctx *Context, l *widget.Layers) {
	DefaultWidgets(ctx, b.Selection, l)
}

// DefaultWidgets draws the radius and falloff circles for sel.
func DefaultWidgets(ctx *Context, sel selection.Type, l *widget.Layers) {
	t := ctx.Tracker
	theme := ctx.Theme
	g := ctx.Props
	if sel.Is2D() {
		if !g.Has("radius_2d") {
			return
		}
		r := g.Float("radius_2d")
		l.Add(widget.Circle2D(t.Pos2D, r, 2, theme.Default))
		if g.Has("falloff") && g.Float("falloff") < 1 {
			l.Add(widget.Circle2D(t.Pos2D, r*g.Float("falloff"), 1, theme.Secondary))
		}
		return
	}
	if !t.OnSurface {
		l.Add(widget.NoEntry2D(t.Pos2D, 12, theme.Negative))
		return
	}
	if sel == selection.None || !g.Has("radius") {
		l.Add(widget.Dot3D(t.Pos3D, 4, theme.Default))
		return
	}
	r := g.Float("radius")
	l.Add(widget.Circle3D(t.Pos3D, t.Normal, r, 2, theme.Default))
	if g.Has("falloff") && g.Float("falloff") < 1 {
		l.Add(widget.Circle3D(t.Pos3D, t.Normal, r*g.Float("falloff"), 1, theme.Secondary))
	}
}
