package brush_test

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/gesture"
	"github.com/Faultbox/scatterbrush/internal/host/headless"
	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/keymap"
	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/props"
	"github.com/Faultbox/scatterbrush/internal/regen"
)

const testPresets = `
tools:
  spy:
    props:
      strength: {type: float, default: 0.5, min: 0, max: 1, subtype: factor}
      interval: {type: float, default: 0.1, min: 0.01}
  other:
    props:
      strength: {type: float, default: 0.5, min: 0, max: 1}
`

type spyBrush struct {
	brush.Base
	invokes, begins, updates, finishes, teardowns, mods int
	fromTimer                                         int

	beginErr      error
	panicOnUpdate bool
	onInvoke      func(*brush.Context) error
}

func newSpy(id string) *spyBrush {
	p := &spyBrush{}
	p.Spec = brush.Info{ID: id, Category: brush.CategoryModify, Label: "Spy", Infobox: []string{"LMB: spy"}}
	p.Definitions = gesture.Definitions{
		gesture.Primary: {Property: "strength", Change: 0.1, ChangePixels: 100, Format: "Strength: %.2f", Widget: gesture.Strength2D},
	}
	return p
}

func (p *spyBrush) Invoke(ctx *brush.Context) error {
	p.invokes++
	if p.onInvoke != nil {
		return p.onInvoke(ctx)
	}
	return nil
}

func (p *spyBrush) ActionBegin(*brush.Context) error {
	p.begins++
	return p.beginErr
}

func (p *spyBrush) ActionUpdate(ctx *brush.Context) error {
	if p.panicOnUpdate {
		panic("boom")
	}
	p.updates++
	if ctx.FromTimer {
		p.fromTimer++
	}
	return nil
}

func (p *spyBrush) ActionFinish(ctx *brush.Context) error {
	p.finishes++
	row := points.Row{Co: mgl64.Vec3{0, 0, 0}, Normal: mgl64.Vec3{0, 0, 1}, SurfaceUUID: 1}
	ctx.Store.Append([]points.Row{row}, regen.GenID(ctx.Store.T.ID, 1))
	return nil
}

func (p *spyBrush) ModifiersChanged(*brush.Context) { p.mods++ }

func (p *spyBrush) Teardown(*brush.Context) error {
	p.teardowns++
	return nil
}

type fixture struct {
	host *headless.Host
	rt   *brush.Runtime
	spy  *spyBrush
}

func setup(t *testing.T) *fixture {
	t.Helper()
	v := headless.TopDown(mgl64.Vec3{}, 10, 800)
	h := headless.New(v, headless.PlaneSurface(1, 20, mgl64.Ident4()))
	p, err := props.Parse([]byte(testPresets))
	require.NoError(t, err)
	h.Scene.SetPresets(p)

	pr := newSpy("spy")
	reg := brush.NewRegistry()
	reg.Register(func() brush.Brush { return pr })
	reg.Register(func() brush.Brush { return newSpy("other") })

	km := keymap.Defaults()
	km.Tools["other"] = keymap.MustParse("ctrl+alt+K")
	rt := brush.NewRuntime(h.Bind(), reg, km, nil)
	return &fixture{host: h, rt: rt, spy: pr}
}

func (f *fixture) activate(t *testing.T) *brush.Operator {
	t.Helper()
	op, err := f.rt.Activate("spy")
	require.NoError(t, err)
	return op
}

func (f *fixture) stroke(t *testing.T) {
	t.Helper()
	assert.Equal(t, brush.Running, f.rt.Dispatch(headless.Press(400, 400)))
	assert.Equal(t, brush.Running, f.rt.Dispatch(headless.Move(420, 400)))
	assert.Equal(t, brush.Running, f.rt.Dispatch(headless.Release(420, 400)))
}

func TestInvokeConfiguresHost(t *testing.T) {
	f := setup(t)
	f.host.UI.Selected = []string{"Plane"}
	op := f.activate(t)

	assert.Equal(t, 1, f.spy.invokes)
	assert.Same(t, op, f.rt.Active())
	assert.Equal(t, "spy", f.host.UI.Tool)
	assert.Equal(t, "spy", f.host.UI.Configured)
	assert.Equal(t, brush.CursorPaint, f.host.UI.Cursor)
	assert.Equal(t, []string{"LMB: spy"}, f.host.UI.Infobox)
	assert.True(t, f.rt.Session.Active)
	assert.Equal(t, "builtin.select", f.rt.Session.SavedTool)
	assert.True(t, f.rt.Surfaces.Valid())
}

func TestPoll(t *testing.T) {
	f := setup(t)
	h := f.host.Bind()
	assert.True(t, brush.Poll(h))

	f.host.Scene.Missing = true
	assert.ErrorIs(t, brush.PollErr(h), brush.ErrSurfacesMissing)
	f.host.Scene.Missing = false

	f.host.Scene.SetSurfaces()
	assert.ErrorIs(t, brush.PollErr(h), brush.ErrSurfacesMissing)

	f.host.Scene.SetTarget(nil)
	assert.ErrorIs(t, brush.PollErr(h), brush.ErrNoTarget)
	_, err := f.rt.Activate("spy")
	assert.ErrorIs(t, err, brush.ErrNoTarget)
	assert.Nil(t, f.rt.Active())
}

func TestActivateUnknown(t *testing.T) {
	f := setup(t)
	_, err := f.rt.Activate("sprey")
	require.ErrorIs(t, err, brush.ErrUnknownTool)
	assert.Contains(t, err.Error(), `"spray"`)
}

func TestStrokePushesUndoOnce(t *testing.T) {
	f := setup(t)
	f.activate(t)
	f.stroke(t)

	assert.Equal(t, 1, f.spy.begins)
	assert.Equal(t, 1, f.spy.updates)
	assert.Equal(t, 1, f.spy.finishes)
	assert.Equal(t, []string{"Spy"}, f.host.Undo.Messages)

	tgt, _ := f.host.Scene.Target()
	assert.Equal(t, 1, tgt.Len())
}

func TestNoUndo(t *testing.T) {
	f := setup(t)
	f.spy.NoUndo = true
	f.activate(t)
	f.stroke(t)
	assert.Empty(t, f.host.Undo.Messages)
}

func TestInbetweenNeedsHighPrecision(t *testing.T) {
	f := setup(t)
	f.activate(t)
	inbetween := headless.Move(410, 400)
	inbetween.Type = input.InbetweenMouseMove

	f.rt.Dispatch(headless.Press(400, 400))
	f.rt.Dispatch(inbetween)
	assert.Equal(t, 0, f.spy.updates)

	f.spy.HighPrecision = true
	f.rt.Dispatch(inbetween)
	assert.Equal(t, 1, f.spy.updates)
}

func TestTimerDispatch(t *testing.T) {
	f := setup(t)
	f.spy.Dispatch = brush.DispatchTimer
	f.activate(t)

	f.rt.Dispatch(headless.Press(400, 400))
	assert.Equal(t, 1, f.host.Timers.Len())

	f.rt.Dispatch(headless.Move(410, 400))
	assert.Equal(t, 0, f.spy.updates, "timer tools ignore moves")

	f.host.Timers.Advance(350 * time.Millisecond)
	assert.Equal(t, 3, f.spy.updates)
	assert.Equal(t, 3, f.spy.fromTimer)

	f.rt.Dispatch(headless.Release(410, 400))
	assert.Equal(t, 0, f.host.Timers.Len())
	f.host.Timers.Advance(time.Second)
	assert.Equal(t, 3, f.spy.updates)
}

func TestEveryStopsWithTool(t *testing.T) {
	f := setup(t)
	ticks := 0
	f.spy.onInvoke = func(ctx *brush.Context) error {
		ctx.Every(100*time.Millisecond, func(*brush.Context) error {
			ticks++
			return nil
		})
		return nil
	}
	f.activate(t)
	f.host.Timers.Advance(250 * time.Millisecond)
	assert.Equal(t, 2, ticks)

	f.rt.Stop()
	assert.Equal(t, 0, f.host.Timers.Len())
	assert.Equal(t, 1, f.spy.teardowns)
}

func TestEscapeRestoresHost(t *testing.T) {
	f := setup(t)
	f.host.UI.Selected = []string{"Plane"}
	f.activate(t)
	f.host.UI.Selected = nil

	assert.Equal(t, brush.Cancelled, f.rt.Dispatch(headless.Key(input.Esc, 0)))
	assert.Nil(t, f.rt.Active())
	assert.Equal(t, 1, f.spy.teardowns)
	assert.Equal(t, "builtin.select", f.host.UI.Tool)
	assert.Equal(t, brush.CursorDefault, f.host.UI.Cursor)
	assert.Equal(t, []string{"Plane"}, f.host.UI.Selected)
	assert.Empty(t, f.host.UI.Configured)
	assert.False(t, f.rt.Session.Active)
	assert.False(t, f.rt.Surfaces.Valid())
}

func TestEscapeDuringStrokeFinishesIt(t *testing.T) {
	f := setup(t)
	f.activate(t)
	f.rt.Dispatch(headless.Press(400, 400))
	f.rt.Dispatch(headless.Key(input.Esc, 0))
	assert.Equal(t, 1, f.spy.finishes)
	assert.Equal(t, []string{"Spy"}, f.host.Undo.Messages)
}

func TestAreaFiltering(t *testing.T) {
	f := setup(t)
	f.host.Viewport.Regions = []headless.Region{
		{Area: brush.AreaHeader, Min: [2]int{0, 780}, Max: [2]int{800, 800}},
	}
	f.activate(t)

	assert.Equal(t, brush.PassThrough, f.rt.Dispatch(headless.Press(10, 790)))
	assert.Equal(t, brush.Running, f.rt.Dispatch(headless.Press(-5, 10)))
	assert.Equal(t, 0, f.spy.begins)
	assert.True(t, f.host.Renderer.Last.Empty())

	// A stroke started in the viewport keeps running over the header.
	f.rt.Dispatch(headless.Press(400, 400))
	assert.Equal(t, brush.Running, f.rt.Dispatch(headless.Move(10, 790)))
	assert.Equal(t, 1, f.spy.updates)
}

func TestNavigationPassThrough(t *testing.T) {
	f := setup(t)
	f.activate(t)
	mmb := headless.Press(400, 400)
	mmb.Type = input.MiddleMouse

	assert.Equal(t, brush.PassThrough, f.rt.Dispatch(mmb))
	assert.Equal(t, brush.PassThrough, f.rt.Dispatch(headless.Move(420, 400)))
	assert.Equal(t, 0, f.spy.updates)
	assert.Equal(t, 2, f.host.Navigator.Consumed)
}

func TestModifierHook(t *testing.T) {
	f := setup(t)
	f.activate(t)
	f.rt.Dispatch(headless.Key(input.LeftCtrl, input.ModCtrl))
	f.rt.Dispatch(headless.KeyUp(input.LeftCtrl, 0))
	assert.Equal(t, 2, f.spy.mods)
}

func TestGestureMode(t *testing.T) {
	f := setup(t)
	f.activate(t)
	f.rt.Dispatch(headless.Move(400, 400))

	f.rt.Dispatch(headless.Key(input.KeyF, 0))
	f.rt.Dispatch(headless.Move(500, 400))
	f.rt.Dispatch(headless.KeyUp(input.KeyF, 0))
	assert.Equal(t, 0, f.spy.begins)

	g := f.host.Scene.Props("spy")
	assert.InDelta(t, 0.6, g.Float("strength"), 1e-9)
	assert.Equal(t, []string{"Strength: 0.60"}, f.host.Undo.Messages)

	// Back to normal routing.
	f.stroke(t)
	assert.Equal(t, 1, f.spy.begins)
}

func TestUndoRefreshesTarget(t *testing.T) {
	f := setup(t)
	op := f.activate(t)
	f.stroke(t)
	f.stroke(t)
	tgt, _ := f.host.Scene.Target()
	require.Equal(t, 2, tgt.Len())

	f.rt.Dispatch(headless.Key(input.KeyZ, input.ModCtrl))
	tgt, _ = f.host.Scene.Target()
	assert.Equal(t, 1, tgt.Len())
	assert.Same(t, tgt, op.Context().Store.T)

	f.rt.Dispatch(headless.Key(input.KeyZ, input.ModCtrl|input.ModShift))
	tgt, _ = f.host.Scene.Target()
	assert.Equal(t, 2, tgt.Len())
	assert.Same(t, tgt, op.Context().Store.T)
}

func TestToolSwitchByShortcut(t *testing.T) {
	f := setup(t)
	f.activate(t)

	assert.Equal(t, brush.Running, f.rt.Dispatch(headless.Key(input.KeyK, input.ModCtrl|input.ModAlt)))
	require.NotNil(t, f.rt.Active())
	assert.Equal(t, "other", f.rt.Active().ID())
	assert.Equal(t, 1, f.spy.teardowns)
	assert.Equal(t, "other", f.host.UI.Tool)
	assert.True(t, f.rt.Session.Active, "handoff keeps the session")
	assert.Equal(t, "builtin.select", f.rt.Session.SavedTool)

	f.rt.Dispatch(headless.Key(input.Esc, 0))
	assert.Equal(t, "builtin.select", f.host.UI.Tool)
}

func TestToolSwitchObservedFromHost(t *testing.T) {
	f := setup(t)
	f.activate(t)
	f.host.UI.SetActiveTool("other")

	assert.Equal(t, brush.Running, f.rt.Dispatch(headless.Move(400, 400)))
	assert.Equal(t, "other", f.rt.Active().ID())
}

func TestShortcutStartsTool(t *testing.T) {
	f := setup(t)
	assert.Equal(t, brush.PassThrough, f.rt.Dispatch(headless.Move(400, 400)))
	assert.Equal(t, brush.Running, f.rt.Dispatch(headless.Key(input.KeyK, input.ModCtrl|input.ModAlt)))
	assert.Equal(t, "other", f.rt.Active().ID())
}

func TestRecoverableErrorHints(t *testing.T) {
	f := setup(t)
	f.spy.beginErr = brush.ErrEmptyData
	op := f.activate(t)

	assert.Equal(t, brush.Running, f.rt.Dispatch(headless.Press(400, 400)))
	assert.Contains(t, f.host.UI.Hints, "Not enough points")
	assert.True(t, op.Stroking())
	assert.Same(t, op, f.rt.Active())
}

func assertPanicked(t *testing.T, f *fixture) {
	t.Helper()
	assert.Nil(t, f.rt.Active())
	assert.Contains(t, f.host.Undo.Messages, "Deinitialize")
	assert.Equal(t, brush.SafeHostTool, f.host.UI.Tool)
	assert.Equal(t, brush.FallbackTool, f.rt.Fallback)
	assert.False(t, f.rt.Surfaces.Valid())
	assert.True(t, f.host.Renderer.Last.Empty())
	assert.Equal(t, brush.CursorDefault, f.host.UI.Cursor)
	assert.Equal(t, 0, f.host.Timers.Len())
}

func TestKernelErrorPanics(t *testing.T) {
	f := setup(t)
	f.spy.beginErr = errors.New("unexpected")
	f.spy.Dispatch = brush.DispatchBoth
	f.activate(t)

	assert.Equal(t, brush.Cancelled, f.rt.Dispatch(headless.Press(400, 400)))
	assertPanicked(t, f)
	assert.Equal(t, brush.PassThrough, f.rt.Dispatch(headless.Move(400, 400)))
}

func TestGoPanicIsContained(t *testing.T) {
	f := setup(t)
	f.spy.panicOnUpdate = true
	f.activate(t)

	f.rt.Dispatch(headless.Press(400, 400))
	assert.NotPanics(t, func() {
		assert.Equal(t, brush.Cancelled, f.rt.Dispatch(headless.Move(410, 400)))
	})
	assertPanicked(t, f)
}

func TestTimerPanicIsContained(t *testing.T) {
	f := setup(t)
	f.spy.panicOnUpdate = true
	f.spy.Dispatch = brush.DispatchTimer
	f.activate(t)

	f.rt.Dispatch(headless.Press(400, 400))
	assert.NotPanics(t, func() { f.host.Timers.Advance(time.Second) })
	assertPanicked(t, f)
}

func TestCursorWidgets(t *testing.T) {
	f := setup(t)
	f.activate(t)

	f.rt.Dispatch(headless.Move(400, 400))
	assert.NotEmpty(t, f.host.Renderer.Last.View)

	// Off the 20 unit plane: a no-entry mark in pixel space.
	f.host.Viewport.V = headless.TopDown(mgl64.Vec3{}, 100, 800)
	f.rt.Dispatch(headless.Move(5, 5))
	assert.Empty(t, f.host.Renderer.Last.View)
	assert.NotEmpty(t, f.host.Renderer.Last.Pixel)
}
