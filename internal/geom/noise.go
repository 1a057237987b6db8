package geom

import (
	gomath "math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Perlin is seeded improved Perlin noise in three dimensions.
type Perlin struct {
	perm [512]uint8
}

// NewPerlin creates a noise source with a shuffled permutation table.
func NewPerlin(seed uint64) *Perlin {
	p := &Perlin{}
	rng := rand.New(rand.NewPCG(seed, 0x5eed))
	table := rng.Perm(256)
	for i := 0; i < 512; i++ {
		p.perm[i] = uint8(table[i&255])
	}
	return p
}

func fade(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }

func grad(hash uint8, x, y, z float64) float64 {
	h := hash & 15
	u := y
	if h < 8 {
		u = x
	}
	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// Noise returns a value in about [-1, 1] at p.
func (n *Perlin) Noise(p mgl64.Vec3) float64 {
	fx, fy, fz := gomath.Floor(p[0]), gomath.Floor(p[1]), gomath.Floor(p[2])
	X, Y, Z := int(fx)&255, int(fy)&255, int(fz)&255
	x, y, z := p[0]-fx, p[1]-fy, p[2]-fz
	u, v, w := fade(x), fade(y), fade(z)

	pm := &n.perm
	A := int(pm[X]) + Y
	AA := int(pm[A]) + Z
	AB := int(pm[A+1]) + Z
	B := int(pm[X+1]) + Y
	BA := int(pm[B]) + Z
	BB := int(pm[B+1]) + Z

	lerp := func(t, a, b float64) float64 { return a + t*(b-a) }
	return lerp(w,
		lerp(v,
			lerp(u, grad(pm[AA], x, y, z), grad(pm[BA], x-1, y, z)),
			lerp(u, grad(pm[AB], x, y-1, z), grad(pm[BB], x-1, y-1, z))),
		lerp(v,
			lerp(u, grad(pm[AA+1], x, y, z-1), grad(pm[BA+1], x-1, y, z-1)),
			lerp(u, grad(pm[AB+1], x, y-1, z-1), grad(pm[BB+1], x-1, y-1, z-1))))
}

// Vector returns three decorrelated noise samples at p.
func (n *Perlin) Vector(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		n.Noise(p),
		n.Noise(p.Add(mgl64.Vec3{31.416, 47.853, 12.793})),
		n.Noise(p.Add(mgl64.Vec3{-71.3, 5.21, 93.7})),
	}
}
