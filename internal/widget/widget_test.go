package widget

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestLayersSortBySpace(t *testing.T) {
	th := DefaultTheme()
	var l Layers
	assert.True(t, l.Empty())
	l.Add(
		Circle3D(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 1, 2, th.Default),
		Dot2D(mgl64.Vec2{10, 10}, 3, th.Secondary),
		Tooltip2D(mgl64.Vec2{5, 5}, []string{"Radius: 1.0"}, th.Text),
	)
	assert.Len(t, l.View, 1)
	assert.Len(t, l.Pixel, 2)
	l.Clear()
	assert.True(t, l.Empty())
}

func TestCirclePoints(t *testing.T) {
	center := mgl64.Vec3{1, 2, 3}
	n := mgl64.Vec3{1, 1, 0}
	pts := CirclePoints(center, n, 2, 16)
	assert.Len(t, pts, 17)
	for _, p := range pts {
		d := p.Sub(center)
		assert.InDelta(t, 2, d.Len(), 1e-9)
		assert.InDelta(t, 0, d.Dot(n), 1e-9)
	}
	assert.InDelta(t, 0, pts[0].Sub(pts[16]).Len(), 1e-9)
}

func TestColorAlpha(t *testing.T) {
	c := Color{1, 1, 1, 0.8}.Alpha(0.5)
	assert.InDelta(t, 0.4, float64(c[3]), 1e-6)
}
