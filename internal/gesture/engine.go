package gesture

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/internal/props"
	"github.com/Faultbox/scatterbrush/internal/view"
)

var (
	// ErrSpaceMismatch is returned when a 3D gesture starts off-surface.
	ErrSpaceMismatch = errors.New("gesture: pointer context does not match gesture space")
	// ErrUnknownProperty is returned for definitions naming a missing property.
	ErrUnknownProperty = errors.New("gesture: unknown property")
)

// Undoer records finished gestures.
type Undoer interface {
	Push(message string)
}

// Pointer is the pointer state the engine reads.
type Pointer struct {
	Region    mgl64.Vec2
	OnSurface bool
	Location  mgl64.Vec3
	Normal    mgl64.Vec3
}

// Status is the outcome of handling one event.
type Status int

const (
	Running Status = iota
	Finished
	Cancelled
)

// active is the state of a running gesture; the engine is idle when nil.
type active struct {
	slot    Slot
	def     Definition
	group   *props.Group
	prop    *props.Prop
	initial *props.Prop // snapshot
	start   Pointer
	current Pointer
	trigger input.Type
	// world units per pixel at the start location, 0 off-surface
	pixelSize float64
	wheel     int
	view      *view.View
}

// Engine runs at most one gesture at a time.
type Engine struct {
	undo  Undoer
	state *active
	log   *zap.Logger
}

// NewEngine creates an idle engine.
func NewEngine(undo Undoer) *Engine {
	return &Engine{undo: undo, log: logger.Named("gesture")}
}

// Active reports whether a gesture is running.
func (e *Engine) Active() bool { return e.state != nil }

// Slot returns the running gesture's slot.
func (e *Engine) Slot() (Slot, bool) {
	if e.state == nil {
		return 0, false
	}
	return e.state.slot, true
}

// Begin starts a gesture. trigger is the event type whose release ends it
// (input.NoType to end only on click). FUNCTION_CALL definitions run their
// call and return without entering the gesture.
func (e *Engine) Begin(slot Slot, def Definition, g *props.Group, ptr Pointer, v *view.View, trigger input.Type) error {
	if def.Widget == FunctionCall {
		if def.Call == nil {
			return nil
		}
		return def.Call()
	}
	if def.Widget.Space().NeedsSurface() && !ptr.OnSurface {
		return fmt.Errorf("%w: %s needs %s", ErrSpaceMismatch, def.Property, def.Widget.Space())
	}
	if !g.Has(def.Property) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownProperty, g.Tool, def.Property)
	}
	p := g.Get(def.Property)
	snap := *p
	st := &active{
		slot:    slot,
		def:     def,
		group:   g,
		prop:    p,
		initial: &snap,
		start:   ptr,
		current: ptr,
		trigger: trigger,
		view:    v,
	}
	if ptr.OnSurface && v != nil {
		st.pixelSize = v.PixelSize(ptr.Location)
	}
	e.state = st
	e.log.Debug("begin", logger.Tool(g.Tool), zap.String("property", def.Property), zap.Stringer("slot", slot))
	return nil
}

// Update applies pointer travel since Begin plus wheel steps.
func (e *Engine) Update(ptr Pointer, wheelSteps int) {
	st := e.state
	if st == nil {
		return
	}
	st.current = ptr
	st.wheel += wheelSteps
	if e.apply() && wheelSteps != 0 {
		// Clamped: keep the limit but drop the steps so reversing the
		// wheel responds at once.
		st.wheel -= wheelSteps
	}
}

// apply writes the value for the current travel and wheel and reports
// whether the property clamped it.
func (e *Engine) apply() bool {
	st := e.state
	def := st.def
	travel := st.current.Region[0] - st.start.Region[0]

	var steps float64
	if def.ChangePixels > 0 {
		steps = travel / def.ChangePixels * def.Change
	}
	steps += float64(st.wheel) * def.ChangeWheel

	name := def.Property
	g := st.group
	switch st.prop.Kind {
	case props.Float:
		v := st.initial.Float
		switch {
		case def.Exponential:
			v *= gomath.Pow(2, steps)
		case def.Widget.isLength() && st.pixelSize > 0:
			v += travel*st.pixelSize + float64(st.wheel)*def.ChangeWheel
		default:
			v += steps
		}
		return g.SetFloat(name, v)
	case props.Int:
		return g.SetInt(name, st.initial.Int+int(gomath.Round(steps)))
	case props.Bool:
		n := int(gomath.Trunc(steps))
		g.SetBool(name, st.initial.Bool != (n%2 != 0))
	case props.Enum:
		st.prop.Enum = st.initial.Enum
		g.Step(name, int(gomath.Trunc(steps)))
	case props.Vec3:
		return g.SetVec3(name, st.initial.Vec.Add(mgl64.Vec3{steps, steps, steps}))
	}
	return false
}

// Finish keeps the current value and records it for undo.
func (e *Engine) Finish() {
	st := e.state
	if st == nil {
		return
	}
	e.state = nil
	label := st.def.Label(st.prop.Value())
	if e.undo != nil {
		e.undo.Push(label)
	}
	e.log.Debug("finish", logger.Tool(st.group.Tool), zap.String("value", label))
}

// Cancel restores the value from Begin.
func (e *Engine) Cancel() {
	st := e.state
	if st == nil {
		return
	}
	e.state = nil
	*st.prop = *st.initial
	e.log.Debug("cancel", logger.Tool(st.group.Tool), zap.String("property", st.def.Property))
}

// Handle routes one event while a gesture is active. Clicks, Return and
// releasing the trigger key finish; right click and Esc cancel.
func (e *Engine) Handle(ev input.Event, ptr Pointer) Status {
	st := e.state
	if st == nil {
		return Finished
	}
	switch {
	case ev.IsPress(input.Esc), ev.IsPress(input.RightMouse):
		e.Cancel()
		return Cancelled
	case ev.IsPress(input.LeftMouse), ev.IsPress(input.Return):
		e.Finish()
		return Finished
	case st.trigger != input.NoType && ev.IsRelease(st.trigger):
		e.Finish()
		return Finished
	case ev.Type == input.WheelUpMouse:
		e.Update(ptr, 1)
	case ev.Type == input.WheelDownMouse:
		e.Update(ptr, -1)
	case ev.IsMove():
		e.Update(ptr, 0)
	}
	return Running
}

// Value returns the running gesture's current value.
func (e *Engine) Value() (any, bool) {
	if e.state == nil {
		return nil, false
	}
	return e.state.prop.Value(), true
}
