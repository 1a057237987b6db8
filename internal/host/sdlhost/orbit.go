package sdlhost

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/view"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Orbit is a Z-up orbit camera driving a view. Middle drag rotates, shift
// middle drag pans and the plain wheel zooms.
type Orbit struct {
	Center   mgl64.Vec3
	Distance float64
	Pitch    float64 // radians above the XY plane
	Yaw      float64 // radians around Z

	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	DragSensitivity float64
	ZoomSensitivity float64

	FovDeg    float64
	ClipStart float64
	ClipEnd   float64

	dragging bool
	panning  bool
	lastX    int
	lastY    int
}

// NewOrbit creates an orbit camera looking at the origin from above.
func NewOrbit(fovDeg, clipStart, clipEnd float64) *Orbit {
	return &Orbit{
		Distance:        12,
		Pitch:           0.9,
		Yaw:             -0.6,
		MinDistance:     0.1,
		MaxDistance:     500,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovDeg:          fovDeg,
		ClipStart:       clipStart,
		ClipEnd:         clipEnd,
	}
}

// Eye returns the camera position.
func (o *Orbit) Eye() mgl64.Vec3 {
	cp := gomath.Cos(o.Pitch)
	off := mgl64.Vec3{
		cp * gomath.Sin(o.Yaw),
		-cp * gomath.Cos(o.Yaw),
		gomath.Sin(o.Pitch),
	}
	return o.Center.Add(off.Mul(o.Distance))
}

// Apply writes the camera matrices into v.
func (o *Orbit) Apply(v *view.View) {
	aspect := float64(v.Width) / gomath.Max(1, float64(v.Height))
	v.SetMatrices(
		mgl64.LookAtV(o.Eye(), o.Center, mgl64.Vec3{0, 0, 1}),
		mgl64.Perspective(mgl64.DegToRad(o.FovDeg), aspect, o.ClipStart, o.ClipEnd),
	)
}

// View creates a perspective view of the given size.
func (o *Orbit) View(width, height int) *view.View {
	return view.NewPerspective(o.Eye(), o.Center, mgl64.Vec3{0, 0, 1}, o.FovDeg, width, height, o.ClipStart, o.ClipEnd)
}

// Drag rotates the camera by a pointer delta in pixels.
func (o *Orbit) Drag(dx, dy float64) {
	o.Yaw -= dx * o.DragSensitivity
	o.Pitch = math.Clamp(o.Pitch-dy*o.DragSensitivity, o.MinPitch, o.MaxPitch)
}

// Pan moves the center in the view plane by a pointer delta in pixels.
func (o *Orbit) Pan(dx, dy float64) {
	speed := o.Distance * 0.002
	right := mgl64.Vec3{gomath.Cos(o.Yaw), gomath.Sin(o.Yaw), 0}
	fwd := o.Center.Sub(o.Eye()).Normalize()
	up := right.Cross(fwd)
	o.Center = o.Center.Sub(right.Mul(dx * speed)).Sub(up.Mul(dy * speed))
}

// Zoom moves the camera toward the center for positive steps.
func (o *Orbit) Zoom(steps float64) {
	o.Distance = math.Clamp(o.Distance-steps*o.Distance*o.ZoomSensitivity, o.MinDistance, o.MaxDistance)
}

// Consume implements brush.Navigator. Region Y grows upward, so dragging
// the pointer up tilts the camera down.
func (o *Orbit) Consume(ev input.Event) bool {
	switch {
	case ev.IsPress(input.MiddleMouse):
		o.dragging, o.panning = true, ev.Shift
		o.lastX, o.lastY = ev.MouseRegionX, ev.MouseRegionY
		return true
	case ev.IsRelease(input.MiddleMouse):
		o.dragging, o.panning = false, false
		return true
	case ev.IsMove() && o.dragging:
		dx := float64(ev.MouseRegionX - o.lastX)
		dy := float64(ev.MouseRegionY - o.lastY)
		o.lastX, o.lastY = ev.MouseRegionX, ev.MouseRegionY
		if o.panning {
			o.Pan(dx, dy)
		} else {
			o.Drag(dx, dy)
		}
		return true
	case ev.Type == input.WheelUpMouse && ev.Mods() == 0:
		o.Zoom(1)
		return true
	case ev.Type == input.WheelDownMouse && ev.Mods() == 0:
		o.Zoom(-1)
		return true
	}
	return false
}
