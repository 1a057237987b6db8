package brush

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/geom"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/tracker"
	"github.com/Faultbox/scatterbrush/internal/widget"
)

// Result tells the host what happened to an event.
type Result int

const (
	// Running means the tool consumed the event and stays active.
	Running Result = iota
	// PassThrough means the host should handle the event as if no tool ran.
	PassThrough
	// Finished means the tool exited normally.
	Finished
	// Cancelled means the tool was aborted or torn down after a failure.
	Cancelled
)

func (r Result) String() string {
	switch r {
	case PassThrough:
		return "PASS_THROUGH"
	case Finished:
		return "FINISHED"
	case Cancelled:
		return "CANCELLED"
	default:
		return "RUNNING_MODAL"
	}
}

// SafeHostTool is the host tool selected after a panic.
const SafeHostTool = "builtin.select_box"

// FallbackTool is remembered as the last-used brush after a panic.
const FallbackTool = "dot"

// Operator drives one tool through its session.
type Operator struct {
	rt    *Runtime
	brush Brush
	base  *Base
	ctx   *Context

	gestures *gesture.Engine
	layers   widget.Layers

	stroking   bool
	navigating bool
	strokeTmr  TimerHandle
	hasTimer   bool
	timers     []TimerHandle
	last       input.Event

	next  string
	done  bool
	scope *Scope
	log   *zap.Logger
}

func newOperator(rt *Runtime, b Brush) *Operator {
	o := &Operator{
		rt:       rt,
		brush:    b,
		base:     b.Common(),
		gestures: gesture.NewEngine(rt.Host.Undo),
		log:      logger.Named("brush").With(logger.Tool(b.Info().ID)),
	}
	return o
}

// ID returns the tool id.
func (o *Operator) ID() string { return o.base.Spec.ID }

// Brush returns the tool.
func (o *Operator) Brush() Brush { return o.brush }

// Context returns the tool's context.
func (o *Operator) Context() *Context { return o.ctx }

// Stroking reports whether a press is being held.
func (o *Operator) Stroking() bool { return o.stroking }

// Layers returns the widgets drawn on the last event.
func (o *Operator) Layers() widget.Layers { return o.layers }

// Next returns the tool id this operator handed off to.
func (o *Operator) Next() string { return o.next }

// Done reports whether the operator has exited.
func (o *Operator) Done() bool { return o.done }

// Invoke activates the tool. A failure inside the tool tears it down and
// returns the error.
func (o *Operator) Invoke() (err error) {
	h := o.rt.Host
	if err := PollErr(h); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			o.Panic(r)
			err = fmt.Errorf("invoke %s: %v", o.ID(), r)
		}
	}()

	o.rt.Session.Begin(h.UI)
	o.scope = NewScope(o.cleanup)
	o.rt.Toolbox.Set(o)

	if err := o.refresh(); err != nil {
		o.Panic(err)
		return err
	}
	if h.UI != nil {
		h.UI.Configure(o.ID())
		h.UI.SetActiveTool(o.ID())
		h.UI.SetCursor(CursorPaint)
		h.UI.SetInfobox(o.base.Spec.Infobox)
	}
	if err := o.brush.Invoke(o.ctx); err != nil {
		if !Recoverable(err) {
			o.Panic(err)
			return err
		}
		o.hint(err)
	}
	o.log.Info("activated", zap.Int("points", o.ctx.Store.ActiveLen()))
	o.redraw()
	return nil
}

// refresh rebuilds everything the context caches from the scene. It runs on
// invoke and after undo or redo.
func (o *Operator) refresh() error {
	h := o.rt.Host
	t, ok := h.Scene.Target()
	if !ok {
		return ErrNoTarget
	}
	cache, err := o.rt.Surfaces.Get()
	if err != nil {
		return fmt.Errorf("surface cache: %w", err)
	}
	g := h.Scene.Props(o.ID())
	if g == nil {
		return fmt.Errorf("%w: no properties for %q", ErrUnknownTool, o.ID())
	}
	if o.ctx == nil {
		o.ctx = &Context{
			Host:    h,
			Tracker: tracker.New(o.rt.Config.Tracker),
			Session: o.rt.Session,
			Theme:   o.rt.Theme,
			Rng:     o.rt.Rng,
			Log:     o.log,
			Config:  o.rt.Config,
			op:      o,
		}
	}
	o.ctx.Store = points.NewStore(t, cache)
	o.ctx.Cache = cache
	o.ctx.Props = g
	o.ctx.View = h.Viewport.View()
	return nil
}

// Modal handles one host event.
func (o *Operator) Modal(ev input.Event) (res Result) {
	if o.done {
		return Cancelled
	}
	defer func() {
		if r := recover(); r != nil {
			o.Panic(r)
			res = Cancelled
		}
	}()
	h := o.rt.Host
	o.ctx.Event = ev
	o.ctx.FromTimer = false
	o.ctx.View = h.Viewport.View()

	if o.gestures.Active() {
		if ev.IsMove() {
			o.ctx.Tracker.Update(ev, o.ctx.View, o.ctx.Cache)
		}
		st := o.gestures.Handle(ev, o.pointer())
		if st != gesture.Running {
			o.log.Debug("gesture ended", zap.Int("status", int(st)))
		}
		o.redraw()
		return Running
	}

	if ev.IsPress(input.Esc) {
		o.Abort()
		return Cancelled
	}

	if ev.IsPress(input.KeyZ) && ev.Ctrl && !ev.IsRepeat && !o.stroking {
		if ev.Shift {
			h.Undo.Redo()
		} else {
			h.Undo.Undo()
		}
		if err := o.refresh(); err != nil {
			panic(err)
		}
		o.redraw()
		return Running
	}

	if h.UI != nil && !o.stroking {
		if active := h.UI.ActiveTool(); active != o.ID() && o.rt.Registry.Has(active) {
			o.handoff(active)
			return Finished
		}
	}

	if area := h.Viewport.AreaAt(ev.MouseX, ev.MouseY); area != AreaViewport && !o.stroking {
		o.layers.Clear()
		if h.Renderer != nil {
			h.Renderer.Clear()
		}
		if area == AreaOutside {
			return Running
		}
		return PassThrough
	}

	if ev.Type == input.InbetweenMouseMove && !o.base.HighPrecision {
		return Running
	}
	if ev.IsMove() || ev.Type.IsMouseButton() {
		o.ctx.Tracker.Update(ev, o.ctx.View, o.ctx.Cache)
		o.last = ev
	}

	if h.Navigator != nil && !o.stroking {
		if h.Navigator.Consume(ev) {
			o.navigating = true
			o.redraw()
			return PassThrough
		}
		if o.navigating && ev.Type != input.Timer {
			o.navigating = false
		}
	}

	if ev.Type.IsModifierKey() {
		o.brush.ModifiersChanged(o.ctx)
		o.redraw()
		return Running
	}

	if !o.stroking && !ev.IsRepeat {
		if m := o.rt.Keymap.Check(ev); m != nil {
			if m.Gesture {
				o.beginGesture(m.Slot, ev.Type)
				o.redraw()
				return Running
			}
			if m.Tool != o.ID() && o.rt.Registry.Has(m.Tool) {
				o.handoff(m.Tool)
				return Finished
			}
		}
	}

	switch {
	case ev.IsPress(input.LeftMouse):
		o.actionBegin(ev)
	case ev.IsMove():
		if o.stroking && o.base.Dispatch.usesMove() {
			o.actionUpdate(ev)
		}
	case ev.IsRelease(input.LeftMouse):
		if o.stroking {
			o.actionFinish(ev)
		}
	case ev.Type.IsWheel() && o.stroking:
		if w, ok := o.brush.(Wheeler); ok {
			steps := 1
			if ev.Type == input.WheelDownMouse {
				steps = -1
			}
			o.check(w.Wheel(o.ctx, steps))
		}
	}
	if o.done {
		return Cancelled
	}
	o.redraw()
	return Running
}

func (o *Operator) capture(ev input.Event) {
	o.ctx.Pressure = ev.EffectivePressure()
	o.ctx.Tilt = ev.Tilt
	o.ctx.Tracker.Pressure = o.ctx.Pressure
	o.ctx.Tracker.Tilt = ev.Tilt
}

func (o *Operator) actionBegin(ev input.Event) {
	o.capture(ev)
	o.ctx.Tracker.ResetStroke()
	o.stroking = true
	o.check(o.brush.ActionBegin(o.ctx))
	if o.done {
		return
	}
	if o.base.Dispatch.usesTimer() {
		o.strokeTmr = o.rt.Host.Timers.Add(o.interval(), o.tick)
		o.hasTimer = true
	}
}

func (o *Operator) actionUpdate(ev input.Event) {
	o.capture(ev)
	o.check(o.brush.ActionUpdate(o.ctx))
}

func (o *Operator) actionFinish(ev input.Event) {
	o.capture(ev)
	o.stopStrokeTimer()
	o.stroking = false
	ok := o.check(o.brush.ActionFinish(o.ctx))
	if ok && !o.base.NoUndo {
		o.rt.Host.Undo.Push(o.base.Spec.Label)
	}
}

func (o *Operator) stopStrokeTimer() {
	if o.hasTimer {
		o.rt.Host.Timers.Remove(o.strokeTmr)
		o.hasTimer = false
	}
}

func (o *Operator) interval() time.Duration {
	sec := 0.1
	if g := o.ctx.Props; g.Has("interval") {
		sec = g.Float("interval")
	}
	return time.Duration(sec * float64(time.Second))
}

// tick is the stroke timer callback.
func (o *Operator) tick() {
	if err := o.guard(func() error {
		if !o.stroking {
			return nil
		}
		if g := o.ctx.Props; g.Has("draw_on_timer") && !g.Bool("draw_on_timer") {
			return nil
		}
		return o.brush.ActionUpdate(o.ctx)
	}); err != nil {
		o.log.Debug("timer skipped", zap.Error(err))
	}
}

// guard runs fn as a timer callback: it refuses to run for an inactive tool
// and turns failures into a panic teardown instead of raising to the host.
func (o *Operator) guard(fn func() error) (err error) {
	if o.done || !o.rt.Toolbox.Is(o) {
		return ErrTimerInvalid
	}
	defer func() {
		if r := recover(); r != nil {
			o.Panic(r)
			err = fmt.Errorf("timer: %v", r)
		}
	}()
	ev := o.last
	ev.Type = input.Timer
	ev.Value = input.Nothing
	o.ctx.Event = ev
	o.ctx.FromTimer = true
	defer func() { o.ctx.FromTimer = false }()
	if !o.check(fn()) {
		return nil
	}
	o.redraw()
	return nil
}

// every registers a repeating timer that lives until the tool exits.
func (o *Operator) every(d time.Duration, fn func(*Context) error) TimerHandle {
	var h TimerHandle
	h = o.rt.Host.Timers.Add(d, func() {
		if err := o.guard(func() error { return fn(o.ctx) }); errors.Is(err, ErrTimerInvalid) {
			o.rt.Host.Timers.Remove(h)
		}
	})
	o.timers = append(o.timers, h)
	return h
}

// check turns a kernel error into a hint or a panic teardown. It reports
// whether the call succeeded.
func (o *Operator) check(err error) bool {
	if err == nil {
		return true
	}
	if Recoverable(err) {
		o.hint(err)
		return false
	}
	o.Panic(err)
	return false
}

func (o *Operator) hint(err error) {
	o.log.Debug("recoverable", zap.Error(err))
	if errors.Is(err, geom.ErrDelaunayFailed) {
		o.log.Warn("delaunay failed", zap.Error(err))
	}
	if msg := hintFor(err); msg != "" {
		o.ctx.Hint(msg)
	}
}

func (o *Operator) pointer() gesture.Pointer {
	t := o.ctx.Tracker
	return gesture.Pointer{
		Region:    t.Pos2D,
		OnSurface: t.OnSurface,
		Location:  t.Pos3D,
		Normal:    t.Normal,
	}
}

func (o *Operator) beginGesture(slot gesture.Slot, trigger input.Type) {
	def, ok := o.brush.Gestures()[slot]
	if !ok {
		return
	}
	err := o.gestures.Begin(slot, def, o.ctx.Props, o.pointer(), o.ctx.View, trigger)
	switch {
	case err == nil:
	case errors.Is(err, gesture.ErrSpaceMismatch):
		o.ctx.Hint("Pointer must be over a surface")
	case errors.Is(err, gesture.ErrUnknownProperty):
		o.log.Warn("gesture skipped", zap.Error(err))
	default:
		o.check(err)
	}
}

func (o *Operator) redraw() {
	if o.done {
		return
	}
	o.layers.Clear()
	if o.gestures.Active() {
		o.layers = o.gestures.Widgets(o.ctx.Theme)
	} else {
		o.brush.Widgets(o.ctx, &o.layers)
	}
	h := o.rt.Host
	if h.Renderer != nil {
		h.Renderer.Draw(o.layers)
	}
	h.Viewport.Redraw()
}

// handoff exits this tool so the runtime can start id in the same session.
func (o *Operator) handoff(id string) {
	o.next = id
	o.exit(true)
}

// Finish exits the tool normally and ends the session.
func (o *Operator) Finish() {
	o.exit(false)
}

// Abort ends a running stroke and exits.
func (o *Operator) Abort() {
	if o.gestures.Active() {
		o.gestures.Cancel()
	}
	if o.stroking {
		o.actionFinish(o.last)
	}
	if !o.done {
		o.exit(false)
	}
}

func (o *Operator) exit(keepSession bool) {
	if o.done {
		return
	}
	o.stopStrokeTimer()
	if err := o.brush.Teardown(o.ctx); err != nil {
		if !Recoverable(err) {
			o.Panic(err)
			return
		}
		o.hint(err)
	}
	o.scope.Close()
	h := o.rt.Host
	if !keepSession {
		o.rt.Session.End(h.UI)
		o.rt.Surfaces.Free()
		if h.UI != nil {
			h.UI.SetActiveTool(o.rt.Session.SavedTool)
		}
	}
	o.log.Info("finished", zap.Bool("handoff", keepSession))
}

// cleanup releases what every exit path releases. It runs once.
func (o *Operator) cleanup() {
	o.done = true
	h := o.rt.Host
	for _, t := range o.timers {
		h.Timers.Remove(t)
	}
	o.timers = nil
	o.layers.Clear()
	if h.Renderer != nil {
		h.Renderer.Clear()
	}
	if h.UI != nil {
		h.UI.RestoreCursor()
		h.UI.ClearStatus()
		h.UI.SetInfobox(nil)
		h.UI.Restore()
	}
	o.rt.Toolbox.Reset(o)
}

// Panic tears the tool down after an unexpected failure. Every step runs
// even if an earlier one fails.
func (o *Operator) Panic(cause any) {
	if o.done {
		return
	}
	o.log.Error("panic", zap.Any("cause", cause), zap.ByteString("stack", debug.Stack()))
	h := o.rt.Host
	steps := []func(){
		o.stopStrokeTimer,
		func() { o.gestures.Cancel() },
		func() {
			if o.scope == nil {
				o.scope = NewScope(o.cleanup)
			}
			o.scope.Close()
		},
		o.rt.Surfaces.Free,
		func() { h.Undo.Push("Deinitialize") },
		func() { o.rt.Session.End(h.UI) },
		func() {
			if h.UI != nil {
				h.UI.SetActiveTool(SafeHostTool)
			}
		},
	}
	for _, step := range steps {
		safely(o.log, step)
	}
	o.stroking = false
	o.done = true
	o.rt.Fallback = FallbackTool
}

func safely(log *zap.Logger, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("teardown step failed", zap.Any("cause", r))
		}
	}()
	fn()
}
