package sdlhost

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/scatterbrush/internal/input"
)

func TestOrbitEyeDistance(t *testing.T) {
	o := NewOrbit(50, 0.01, 1000)
	o.Center = mgl64.Vec3{1, 2, 3}
	assert.InDelta(t, o.Distance, o.Eye().Sub(o.Center).Len(), 1e-9)

	o.Pitch, o.Yaw = gomath.Pi/2-1e-9, 0
	assert.InDelta(t, 3+o.Distance, o.Eye()[2], 1e-6)
}

func TestOrbitApplyLooksAtCenter(t *testing.T) {
	o := NewOrbit(50, 0.01, 1000)
	v := o.View(640, 480)
	o.Center = mgl64.Vec3{2, -1, 0}
	o.Apply(v)

	p, ok := v.Project(o.Center)
	assert.True(t, ok)
	assert.InDelta(t, 320, p[0], 1e-6)
	assert.InDelta(t, 240, p[1], 1e-6)
}

func TestOrbitConsume(t *testing.T) {
	o := NewOrbit(50, 0.01, 1000)
	yaw, pitch, dist := o.Yaw, o.Pitch, o.Distance

	assert.False(t, o.Consume(input.Event{Type: input.MouseMove, MouseRegionX: 5}))
	assert.True(t, o.Consume(input.Event{Type: input.MiddleMouse, Value: input.Press, MouseRegionX: 100, MouseRegionY: 100}))
	assert.True(t, o.Consume(input.Event{Type: input.MouseMove, MouseRegionX: 140, MouseRegionY: 100}))
	assert.InDelta(t, yaw-40*o.DragSensitivity, o.Yaw, 1e-12)
	assert.Equal(t, pitch, o.Pitch)
	assert.True(t, o.Consume(input.Event{Type: input.MiddleMouse, Value: input.Release}))
	assert.False(t, o.Consume(input.Event{Type: input.MouseMove, MouseRegionX: 200}))

	assert.True(t, o.Consume(input.Event{Type: input.WheelUpMouse, Value: input.Press}))
	assert.Less(t, o.Distance, dist)
	assert.False(t, o.Consume(input.Event{Type: input.WheelUpMouse, Value: input.Press, Ctrl: true}))
}

func TestOrbitShiftDragPans(t *testing.T) {
	o := NewOrbit(50, 0.01, 1000)
	o.Yaw = 0
	o.Consume(input.Event{Type: input.MiddleMouse, Value: input.Press, Shift: true})
	o.Consume(input.Event{Type: input.MouseMove, MouseRegionX: 10})

	assert.Less(t, o.Center[0], 0.0)
	assert.InDelta(t, 0, o.Center[1], 1e-12)
	assert.InDelta(t, 0, o.Center[2], 1e-12)
}

func TestOrbitClamps(t *testing.T) {
	o := NewOrbit(50, 0.01, 1000)
	o.Drag(0, 1e6)
	assert.Equal(t, o.MinPitch, o.Pitch)
	for range 200 {
		o.Zoom(1)
	}
	assert.Equal(t, o.MinDistance, o.Distance)
}
