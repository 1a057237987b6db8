package kit

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLassoCoverage(t *testing.T) {
	l, ok := NewLasso([]mgl64.Vec2{{0, 0}, {40, 0}, {40, 40}, {0, 40}})
	require.True(t, ok)

	assert.InDelta(t, 1, l.Coverage(mgl64.Vec2{10, 10}, mgl64.Vec2{20, 10}, mgl64.Vec2{10, 20}), 1e-9)
	assert.InDelta(t, 0.5, l.Coverage(mgl64.Vec2{-20, 0}, mgl64.Vec2{20, 0}, mgl64.Vec2{0, 20}), 1e-9)
	assert.Zero(t, l.Coverage(mgl64.Vec2{50, 50}, mgl64.Vec2{60, 50}, mgl64.Vec2{50, 60}))
	assert.Zero(t, l.Coverage(mgl64.Vec2{0, 0}, mgl64.Vec2{10, 10}, mgl64.Vec2{20, 20}))

	// A lasso inside one huge triangle covers its own share of it.
	big := [3]mgl64.Vec2{{-1000, -1000}, {3000, -1000}, {-1000, 3000}}
	assert.InDelta(t, 1600.0/8e6, l.Coverage(big[0], big[1], big[2]), 1e-12)
}

func TestLassoCoverageConcave(t *testing.T) {
	u := []mgl64.Vec2{{0, 0}, {30, 0}, {30, 30}, {20, 30}, {20, 10}, {10, 10}, {10, 30}, {0, 30}}
	l, ok := NewLasso(u)
	require.True(t, ok)
	assert.InDelta(t, 700, l.Area(), 1e-9)

	// The bounding box split in two: the covered share is the lasso area.
	lo, hi := mgl64.Vec2{0, 0}, mgl64.Vec2{30, 30}
	c1 := l.Coverage(lo, mgl64.Vec2{hi[0], lo[1]}, hi)
	c2 := l.Coverage(lo, hi, mgl64.Vec2{lo[0], hi[1]})
	assert.InDelta(t, 700.0/900, (c1+c2)/2, 1e-9)

	// The notch of the U is not covered.
	assert.Zero(t, l.Coverage(mgl64.Vec2{12, 15}, mgl64.Vec2{18, 15}, mgl64.Vec2{15, 25}))
}
