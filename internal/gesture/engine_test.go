package gesture

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/props"
	"github.com/Faultbox/scatterbrush/internal/view"
	"github.com/Faultbox/scatterbrush/internal/widget"
)

type undoLog []string

func (u *undoLog) Push(message string) { *u = append(*u, message) }

func group(t *testing.T, tool string) *props.Group {
	t.Helper()
	g, ok := props.Defaults().Group(tool)
	require.True(t, ok, tool)
	return g
}

func onSurface(x float64) Pointer {
	return Pointer{Region: mgl64.Vec2{x, 400}, OnSurface: true, Normal: mgl64.Vec3{0, 0, 1}}
}

func topDown() *view.View {
	return view.NewOrtho(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 10, 800, 800, 0.1, 100)
}

var strength = Definition{
	Property: "strength", Change: 0.1, ChangePixels: 10, ChangeWheel: 0.2,
	Format: "Strength: %.2f", Widget: Strength3D,
}

func TestDragFinish(t *testing.T) {
	var undo undoLog
	g := group(t, "relax")
	e := NewEngine(&undo)

	require.NoError(t, e.Begin(Primary, strength, g, onSurface(100), nil, input.NoType))
	require.True(t, e.Active())
	e.Update(onSurface(120), 0)
	assert.InDelta(t, 0.7, g.Float("strength"), 1e-12)

	// Travel is measured from the start, not accumulated.
	e.Update(onSurface(90), 0)
	assert.InDelta(t, 0.4, g.Float("strength"), 1e-12)

	e.Finish()
	assert.False(t, e.Active())
	assert.Equal(t, undoLog{"Strength: 0.40"}, undo)
}

func TestCancelRestores(t *testing.T) {
	var undo undoLog
	g := group(t, "relax")
	e := NewEngine(&undo)
	require.NoError(t, e.Begin(Primary, strength, g, onSurface(0), nil, input.NoType))
	e.Update(onSurface(30), 0)
	require.NotEqual(t, 0.5, g.Float("strength"))

	e.Cancel()
	assert.Equal(t, 0.5, g.Float("strength"))
	assert.Empty(t, undo)
}

func TestWheelFreezesOnClamp(t *testing.T) {
	g := group(t, "relax")
	e := NewEngine(nil)
	require.NoError(t, e.Begin(Primary, strength, g, onSurface(0), nil, input.NoType))

	for _, want := range []float64{0.7, 0.9, 1, 1} {
		e.Update(onSurface(0), 1)
		assert.InDelta(t, want, g.Float("strength"), 1e-12)
	}
	// One step back leaves the limit immediately.
	e.Update(onSurface(0), -1)
	assert.InDelta(t, 0.7, g.Float("strength"), 1e-12)
}

func TestRadiusUsesPixelSize(t *testing.T) {
	g := group(t, "spray")
	e := NewEngine(nil)
	def := Definition{Property: "radius", ChangeWheel: 0.1, Format: "Radius: %.2f", Widget: Radius3D}
	require.NoError(t, e.Begin(Secondary, def, g, onSurface(400), topDown(), input.NoType))

	// 0.0125 world units per pixel.
	e.Update(onSurface(480), 0)
	assert.InDelta(t, 2, g.Float("radius"), 1e-9)
	e.Update(onSurface(480), 1)
	assert.InDelta(t, 2.1, g.Float("radius"), 1e-9)
}

func TestExponential(t *testing.T) {
	g := group(t, "spray")
	e := NewEngine(nil)
	def := Definition{Property: "radius", Change: 1, ChangePixels: 100, Widget: Radius3D, Exponential: true}
	require.NoError(t, e.Begin(Primary, def, g, onSurface(0), topDown(), input.NoType))
	e.Update(onSurface(100), 0)
	assert.InDelta(t, 2, g.Float("radius"), 1e-12)
	e.Update(onSurface(-200), 0)
	assert.InDelta(t, 0.25, g.Float("radius"), 1e-12)
}

func TestDatatypes(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		g := group(t, "spray")
		e := NewEngine(nil)
		def := Definition{Property: "num_dots", Change: 1, ChangePixels: 10, Widget: Count3D}
		require.NoError(t, e.Begin(Primary, def, g, onSurface(0), nil, input.NoType))
		e.Update(onSurface(35), 0)
		assert.Equal(t, 14, g.Int("num_dots"))
	})
	t.Run("bool", func(t *testing.T) {
		g := group(t, "push")
		e := NewEngine(nil)
		def := Definition{Property: "use_flatten", Change: 1, ChangePixels: 50, Widget: Boolean2D}
		require.NoError(t, e.Begin(Primary, def, g, Pointer{}, nil, input.NoType))
		e.Update(Pointer{Region: mgl64.Vec2{60, 0}}, 0)
		assert.True(t, g.Bool("use_flatten"))
		e.Update(Pointer{Region: mgl64.Vec2{110, 0}}, 0)
		assert.False(t, g.Bool("use_flatten"))
		e.Update(Pointer{Region: mgl64.Vec2{-60, 0}}, 0)
		assert.True(t, g.Bool("use_flatten"))
	})
	t.Run("enum", func(t *testing.T) {
		g := group(t, "spin")
		e := NewEngine(nil)
		def := Definition{Property: "axis", Change: 1, ChangePixels: 40, ChangeWheel: 1, Widget: Enum3D}
		require.NoError(t, e.Begin(Primary, def, g, onSurface(0), nil, input.NoType))
		e.Update(onSurface(45), 0)
		assert.Equal(t, "SURFACE_NORMAL", g.Enum("axis"))
		e.Update(onSurface(45), 1)
		assert.Equal(t, "LOCAL_Z_AXIS", g.Enum("axis"))
		e.Cancel()
		assert.Equal(t, "PARTICLE_Z", g.Enum("axis"))
	})
	t.Run("vec3", func(t *testing.T) {
		g := group(t, "spray")
		e := NewEngine(nil)
		def := Definition{Property: "scale_default", ChangeWheel: 0.5, Widget: Scale3D, Format: "Scale: %.1f %.1f %.1f"}
		var undo undoLog
		e.undo = &undo
		require.NoError(t, e.Begin(Primary, def, g, onSurface(0), nil, input.NoType))
		e.Update(onSurface(0), -1)
		assert.Equal(t, mgl64.Vec3{0.5, 0.5, 0.5}, g.Vec3("scale_default"))
		e.Update(onSurface(0), -1)
		e.Update(onSurface(0), -1)
		assert.Equal(t, mgl64.Vec3{0, 0, 0}, g.Vec3("scale_default"))
		e.Finish()
		assert.Equal(t, undoLog{"Scale: 0.0 0.0 0.0"}, undo)
	})
}

func TestBeginErrors(t *testing.T) {
	g := group(t, "relax")
	e := NewEngine(nil)

	err := e.Begin(Primary, strength, g, Pointer{}, nil, input.NoType)
	assert.True(t, errors.Is(err, ErrSpaceMismatch))
	assert.False(t, e.Active())

	err = e.Begin(Primary, Definition{Property: "nope", Widget: Strength2D}, g, Pointer{}, nil, input.NoType)
	assert.True(t, errors.Is(err, ErrUnknownProperty))

	// 2D gestures start anywhere.
	def := Definition{Property: "strength", Change: 0.1, ChangePixels: 10, Widget: Strength2D}
	assert.NoError(t, e.Begin(Primary, def, g, Pointer{}, nil, input.NoType))
}

func TestFunctionCall(t *testing.T) {
	calls := 0
	e := NewEngine(nil)
	def := Definition{Widget: FunctionCall, Call: func() error { calls++; return nil }}
	require.NoError(t, e.Begin(Tertiary, def, group(t, "eraser"), Pointer{}, nil, input.NoType))
	assert.Equal(t, 1, calls)
	assert.False(t, e.Active())
}

func TestHandle(t *testing.T) {
	var undo undoLog
	g := group(t, "relax")
	e := NewEngine(&undo)
	require.NoError(t, e.Begin(Primary, strength, g, onSurface(0), nil, input.KeyF))

	assert.Equal(t, Running, e.Handle(input.Event{Type: input.MouseMove}, onSurface(10)))
	assert.InDelta(t, 0.6, g.Float("strength"), 1e-12)
	assert.Equal(t, Running, e.Handle(input.Event{Type: input.WheelDownMouse, Value: input.Press}, onSurface(10)))
	assert.InDelta(t, 0.4, g.Float("strength"), 1e-12)
	assert.Equal(t, Finished, e.Handle(input.Event{Type: input.KeyF, Value: input.Release}, onSurface(10)))
	assert.Len(t, undo, 1)

	require.NoError(t, e.Begin(Primary, strength, g, onSurface(0), nil, input.KeyF))
	e.Handle(input.Event{Type: input.MouseMove}, onSurface(50))
	assert.Equal(t, Cancelled, e.Handle(input.Event{Type: input.Esc, Value: input.Press}, onSurface(50)))
	assert.InDelta(t, 0.4, g.Float("strength"), 1e-12)
	assert.Len(t, undo, 1)
}

func TestWidgets(t *testing.T) {
	theme := widget.DefaultTheme()
	e := NewEngine(nil)
	idle := e.Widgets(theme)
	assert.True(t, idle.Empty())

	g := group(t, "spray")
	def := Definition{Property: "radius", Widget: Radius3D, Format: "Radius: %.2f"}
	require.NoError(t, e.Begin(Primary, def, g, onSurface(400), topDown(), input.NoType))
	e.Update(onSurface(480), 0)

	l := e.Widgets(theme)
	require.NotEmpty(t, l.View)
	assert.Equal(t, widget.FuncCircle, l.View[0].Func)
	assert.InDelta(t, 2, l.View[0].Radius, 1e-9)
	require.NotEmpty(t, l.Pixel)
	assert.Equal(t, []string{"Radius: 2.00"}, l.Pixel[0].Text)
}

func TestSpaces(t *testing.T) {
	assert.Equal(t, Space3D, Radius3D.Space())
	assert.Equal(t, Space25D, Radius25D.Space())
	assert.Equal(t, Space2D, Radius2D.Space())
	assert.Equal(t, Space2D, FunctionCall.Space())
	assert.True(t, Strength25D.Space().NeedsSurface())

	s, ok := ParseSlot("Tertiary")
	assert.True(t, ok)
	assert.Equal(t, Tertiary, s)
	_, ok = ParseSlot("fifth")
	assert.False(t, ok)
}
