package headless

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/internal/view"
)

// Host bundles the in-memory collaborators.
type Host struct {
	Scene     *Scene
	Undo      *Undo
	Timers    *Timers
	UI        *UI
	Viewport  *Viewport
	Renderer  *Recorder
	Navigator *Navigator
	Simulator *Simulator
	Evaluator Evaluator
}

// New creates a host around v and surfaces.
func New(v *view.View, surfaces ...*surface.Surface) *Host {
	scene := NewScene(surfaces...)
	return &Host{
		Scene:     scene,
		Undo:      NewUndo(scene),
		Timers:    NewTimers(),
		UI:        &UI{Tool: "builtin.select"},
		Viewport:  &Viewport{V: v},
		Renderer:  &Recorder{},
		Navigator: &Navigator{},
		Simulator: NewSimulator(),
	}
}

// TopDown returns an orthographic view looking down -Z at center, covering
// size world units over a square region of px pixels.
func TopDown(center mgl64.Vec3, size float64, px int) *view.View {
	eye := center.Add(mgl64.Vec3{0, 0, 50})
	return view.NewOrtho(eye, center, mgl64.Vec3{0, 1, 0}, size, px, px, 0.1, 200)
}

// PlaneSurface returns a flat square surface of the given size at m.
func PlaneSurface(uuid int64, size float64, m mgl64.Mat4) *surface.Surface {
	return &surface.Surface{UUID: uuid, Name: "plane", Matrix: m, Mesh: surface.Plane(size)}
}

// Bind returns the brush host view of h.
func (h *Host) Bind() *brush.Host {
	return &brush.Host{
		Scene:     h.Scene,
		Viewport:  h.Viewport,
		Undo:      h.Undo,
		Timers:    h.Timers,
		UI:        h.UI,
		Renderer:  h.Renderer,
		Navigator: h.Navigator,
		Simulator: h.Simulator,
		Evaluator: h.Evaluator,
	}
}

// Pixel returns the region pixel a world point projects to.
func (h *Host) Pixel(world mgl64.Vec3) (int, int) {
	p, _ := h.Viewport.V.Project(world)
	return int(gomath.Round(p[0])), int(gomath.Round(p[1]))
}

func pointerEvent(t input.Type, v input.Value, x, y int) input.Event {
	return input.Event{
		Type:         t,
		Value:        v,
		MouseX:       x,
		MouseY:       y,
		MouseRegionX: x,
		MouseRegionY: y,
		Pressure:     1,
	}
}

// Press returns a left press at a region pixel.
func Press(x, y int) input.Event { return pointerEvent(input.LeftMouse, input.Press, x, y) }

// Release returns a left release at a region pixel.
func Release(x, y int) input.Event { return pointerEvent(input.LeftMouse, input.Release, x, y) }

// Move returns a pointer move to a region pixel.
func Move(x, y int) input.Event { return pointerEvent(input.MouseMove, input.Nothing, x, y) }

// Key returns a key press with the given modifiers.
func Key(t input.Type, mods input.Mods) input.Event {
	return input.Event{
		Type:  t,
		Value: input.Press,
		Ctrl:  mods.Has(input.ModCtrl),
		Alt:   mods.Has(input.ModAlt),
		Shift: mods.Has(input.ModShift),
		OSKey: mods.Has(input.ModOS),
	}
}

// KeyUp returns a key release with the given modifiers.
func KeyUp(t input.Type, mods input.Mods) input.Event {
	ev := Key(t, mods)
	ev.Value = input.Release
	return ev
}

// PressAt, MoveAt and ReleaseAt address world positions.
func (h *Host) PressAt(world mgl64.Vec3) input.Event   { return Press(h.Pixel(world)) }
func (h *Host) MoveAt(world mgl64.Vec3) input.Event    { return Move(h.Pixel(world)) }
func (h *Host) ReleaseAt(world mgl64.Vec3) input.Event { return Release(h.Pixel(world)) }
