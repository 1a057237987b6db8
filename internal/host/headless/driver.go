package headless

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/keymap"
	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/props"
	"github.com/Faultbox/scatterbrush/internal/regen"
)

// Driver feeds events to a brush runtime on a headless host, the way a
// window loop would.
type Driver struct {
	*Host
	Runtime *brush.Runtime
}

// NewDriver wires a runtime with the default keymap to h. A nil cfg uses
// config.Default.
func NewDriver(h *Host, reg *brush.Registry, cfg *config.Config) *Driver {
	return &Driver{Host: h, Runtime: brush.NewRuntime(h.Bind(), reg, keymap.Defaults(), cfg)}
}

// Start activates a tool.
func (d *Driver) Start(id string) error {
	_, err := d.Runtime.Activate(id)
	return err
}

// Props returns the property group of a tool.
func (d *Driver) Props(id string) *props.Group {
	return d.Scene.Props(id)
}

// Target returns the scene target.
func (d *Driver) Target() *points.Target {
	t, _ := d.Scene.Target()
	return t
}

// Send dispatches events in order and returns the last result.
func (d *Driver) Send(evs ...input.Event) brush.Result {
	res := brush.PassThrough
	for _, ev := range evs {
		res = d.Runtime.Dispatch(ev)
	}
	return res
}

// Click presses and releases at a world position.
func (d *Driver) Click(world mgl64.Vec3) brush.Result {
	return d.Send(d.PressAt(world), d.ReleaseAt(world))
}

// CtrlClick is Click with ctrl held.
func (d *Driver) CtrlClick(world mgl64.Vec3) brush.Result {
	press, release := d.PressAt(world), d.ReleaseAt(world)
	press.Ctrl, release.Ctrl = true, true
	return d.Send(press, release)
}

// Drag presses at from, moves to to in steps and releases there.
func (d *Driver) Drag(from, to mgl64.Vec3, steps int) brush.Result {
	d.Send(d.PressAt(from))
	for i := 1; i <= steps; i++ {
		d.Send(d.MoveAt(from.Add(to.Sub(from).Mul(float64(i) / float64(steps)))))
	}
	return d.Send(d.ReleaseAt(to))
}

// Hold presses at world, lets the timers run for dt and releases.
func (d *Driver) Hold(world mgl64.Vec3, dt time.Duration) brush.Result {
	d.Send(d.PressAt(world))
	d.Timers.Advance(dt)
	return d.Send(d.ReleaseAt(world))
}

// Finish exits the running tool normally.
func (d *Driver) Finish() {
	d.Runtime.Stop()
}

// Wheel sends one wheel notch at world with the given modifiers.
func (d *Driver) Wheel(world mgl64.Vec3, up bool, mods input.Mods) brush.Result {
	t := input.WheelDownMouse
	if up {
		t = input.WheelUpMouse
	}
	ev := Key(t, mods)
	ev.MouseRegionX, ev.MouseRegionY = d.Pixel(world)
	ev.MouseX, ev.MouseY = ev.MouseRegionX, ev.MouseRegionY
	return d.Send(ev)
}

// Seed appends upright points at world positions on surface uuid, as if
// they had been placed earlier, and returns their rows. A tool must be
// running.
func (d *Driver) Seed(uuid int64, world ...mgl64.Vec3) ([]int, error) {
	op := d.Runtime.Active()
	if op == nil {
		return nil, errors.New("headless: no running tool to seed through")
	}
	s := op.Context().Store
	uuids := make([]int64, len(world))
	up := make([]mgl64.Vec3, len(world))
	for i := range world {
		uuids[i] = uuid
		up[i] = mgl64.Vec3{0, 0, 1}
	}
	local, err := s.PointsToLocal(world, uuids)
	if err != nil {
		return nil, err
	}
	normals, err := s.NormalsToLocal(up, uuids)
	if err != nil {
		return nil, err
	}
	st := regen.DefaultSettings()
	rows := make([]points.Row, len(world))
	for i := range rows {
		rows[i] = st.Row(local[i], normals[i], uuid, d.Runtime.Rng)
	}
	added := s.Append(rows, regen.GenID(s.T.ID, len(rows)))
	return added, regen.All(s, added)
}
