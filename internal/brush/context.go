package brush

import (
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/props"
	"github.com/Faultbox/scatterbrush/internal/regen"
	"github.com/Faultbox/scatterbrush/internal/selection"
	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/internal/tracker"
	"github.com/Faultbox/scatterbrush/internal/view"
	"github.com/Faultbox/scatterbrush/internal/widget"
)

// Context is what a tool sees during one call. The operator keeps one per
// session and refreshes it before every call.
type Context struct {
	Host    *Host
	Store   *points.Store
	Cache   *surface.Cache
	View    *view.View
	Props   *props.Group
	Tracker *tracker.Tracker
	Session *ToolSession
	Theme   widget.Theme
	Rng     *rand.Rand
	Log     *zap.Logger
	Config  *config.Config

	// Event is the event being handled; timer calls see the last pointer
	// event with Type set to input.Timer.
	Event     input.Event
	FromTimer bool
	// Pressure and Tilt are captured on press, move and release only.
	Pressure float64
	Tilt     [2]float64

	op *Operator
}

// Every registers a repeating callback that lives until the tool exits.
// It is skipped once the tool is no longer active.
func (c *Context) Every(d time.Duration, fn func(*Context) error) TimerHandle {
	return c.op.every(d, fn)
}

// StopTimer removes a callback registered with Every.
func (c *Context) StopTimer(h TimerHandle) {
	c.Host.Timers.Remove(h)
}

// Ctrl reports whether ctrl was held on the last event.
func (c *Context) Ctrl() bool { return c.Event.Ctrl }

// Shift reports whether shift was held on the last event.
func (c *Context) Shift() bool { return c.Event.Shift }

// Location returns the pointer location and smooth normal on the surface.
func (c *Context) Location() (mgl64.Vec3, mgl64.Vec3, error) {
	return c.Tracker.Location()
}

// Hint shows a non-fatal message in the host.
func (c *Context) Hint(text string) {
	if c.Host != nil && c.Host.UI != nil {
		c.Host.UI.Hint(text)
	}
	c.Log.Debug("hint", zap.String("text", text))
}

// SelectionParams reads radius, falloff and affect for kernel t.
func (c *Context) SelectionParams(t selection.Type) selection.Params {
	g := c.Props
	p := selection.Params{Falloff: 1, Affect: 1, Rng: c.Rng}
	radius := "radius"
	if t.Is2D() {
		radius = "radius_2d"
	}
	if g.Has(radius) {
		p.Radius = g.Float(radius)
	}
	if g.Has("falloff") {
		p.Falloff = g.Float("falloff")
	}
	if g.Has("affect") {
		p.Affect = g.Float("affect")
	}
	return p
}

// Select runs kernel t at the pointer with the tool's radius settings.
// 3D kernels return tracker.ErrPointerOffSurface off-surface.
func (c *Context) Select(t selection.Type) (*selection.Result, error) {
	return c.SelectWith(t, c.SelectionParams(t))
}

// SelectWith runs kernel t at the pointer with explicit parameters.
func (c *Context) SelectWith(t selection.Type, p selection.Params) (*selection.Result, error) {
	var loc mgl64.Vec3
	if !t.Is2D() && t != selection.None {
		l, _, err := c.Location()
		if err != nil {
			return nil, err
		}
		loc = l
	}
	return selection.Select(t, c.Store, c.View, loc, c.Tracker.Pos2D, p)
}

// Regenerate rebuilds rotation and scale of rows.
func (c *Context) Regenerate(rows []int) error {
	return regen.All(c.Store, rows)
}

// Settings reads the instance block of the tool's properties. Missing
// properties keep their defaults.
func (c *Context) Settings() regen.Settings {
	return SettingsFrom(c.Props)
}

// SettingsFrom reads regen settings from a property group.
func SettingsFrom(g *props.Group) regen.Settings {
	st := regen.DefaultSettings()
	if g.Has("rotation_align") {
		if a, ok := points.ParseAlign(g.Enum("rotation_align")); ok {
			st.RotationAlign = a
		}
	}
	if g.Has("rotation_up") {
		if u, ok := points.ParseUp(g.Enum("rotation_up")); ok {
			st.RotationUp = u
		}
	}
	vec := func(name string, dst *mgl64.Vec3) {
		if g.Has(name) {
			*dst = g.Vec3(name)
		}
	}
	vec("rotation_align_vector", &st.RotationAlignVector)
	vec("rotation_up_vector", &st.RotationUpVector)
	vec("rotation_base", &st.RotationBase)
	vec("rotation_random", &st.RotationRandom)
	vec("scale_default", &st.ScaleDefault)
	vec("scale_random_factor", &st.ScaleRandomFactor)
	if g.Has("scale_random_type") && g.Enum("scale_random_type") == "VECTORIAL" {
		st.ScaleRandomType = points.ScaleVectorial
	}
	if g.Has("instance_index") {
		st.InstanceIndex = int32(g.Int("instance_index"))
	}
	if g.Has("instance_random") && g.Bool("instance_random") && g.Has("instance_count") {
		st.InstanceCount = int32(g.Int("instance_count"))
	}
	return st
}
