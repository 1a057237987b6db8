package headless

import (
	"errors"
	"fmt"
	gomath "math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// ErrNotInstalled is returned when bodies are added before Install.
var ErrNotInstalled = errors.New("headless: rigid-body world not installed")

// Instance is an object bodies are copied from, described by its box.
type Instance struct {
	Name       string
	HalfExtent mgl64.Vec3
}

type body struct {
	instance int
	m        mgl64.Mat4
	vz       float64
	passive  bool
}

// Simulator drops boxes straight down onto the surfaces. A body that
// touches a surface settles upright on it, keeping its heading.
type Simulator struct {
	Instances []Instance
	Gravity   float64
	FPS       int

	// Installed and Collection report whether the world and the spawn
	// collection currently exist.
	Installed  bool
	Collection bool

	cache   *surface.Cache
	bodies  map[string]*body
	frame   int
	playing bool
}

// NewSimulator creates a world with the given instance pool.
func NewSimulator(instances ...Instance) *Simulator {
	return &Simulator{Instances: instances, Gravity: 9.81, FPS: 24}
}

// Install implements brush.Simulator.
func (s *Simulator) Install(surfaces []*surface.Surface) error {
	c, err := surface.Build(surfaces)
	if err != nil {
		return fmt.Errorf("install colliders: %w", err)
	}
	s.cache = c
	s.bodies = make(map[string]*body)
	s.Installed = true
	s.Collection = true
	return nil
}

// InstanceCount implements brush.Simulator.
func (s *Simulator) InstanceCount() int { return len(s.Instances) }

// Spawn implements brush.Simulator.
func (s *Simulator) Spawn(name string, instance int, m mgl64.Mat4) error {
	if !s.Installed {
		return ErrNotInstalled
	}
	if instance < 0 || instance >= len(s.Instances) {
		return fmt.Errorf("headless: instance %d out of range", instance)
	}
	s.bodies[name] = &body{instance: instance, m: m}
	return nil
}

// Matrix implements brush.Simulator.
func (s *Simulator) Matrix(name string) (mgl64.Mat4, bool) {
	b, ok := s.bodies[name]
	if !ok {
		return mgl64.Mat4{}, false
	}
	return b.m, true
}

// SetPassive implements brush.Simulator.
func (s *Simulator) SetPassive(name string) {
	if b, ok := s.bodies[name]; ok {
		b.passive = true
	}
}

// Remove implements brush.Simulator.
func (s *Simulator) Remove(name string) { delete(s.bodies, name) }

// Bodies returns the names of every body in the world.
func (s *Simulator) Bodies() []string {
	names := make([]string, 0, len(s.bodies))
	for n := range s.bodies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Start implements brush.Simulator.
func (s *Simulator) Start() {
	s.playing = true
	s.frame = 1
}

// Frame implements brush.Simulator.
func (s *Simulator) Frame() int { return s.frame }

// Step implements brush.Simulator.
func (s *Simulator) Step() {
	if !s.playing {
		return
	}
	s.frame++
	dt := 1 / float64(max(s.FPS, 1))
	for _, name := range s.Bodies() {
		b := s.bodies[name]
		if b.passive {
			continue
		}
		s.advance(b, dt)
	}
}

func (s *Simulator) advance(b *body, dt float64) {
	loc, rot, scale := math.Decompose(b.m)
	half := s.Instances[b.instance].HalfExtent[2] * scale[2]

	b.vz -= s.Gravity * dt
	next := loc.Add(mgl64.Vec3{0, 0, b.vz * dt})

	hit, ok := s.cache.RayCast(loc.Add(mgl64.Vec3{0, 0, half}), mgl64.Vec3{0, 0, -1})
	if ok && next[2]-half <= hit.Location[2] {
		n := hit.Normal
		if n[2] < 0 {
			n = n.Mul(-1)
		}
		x := rot.Rotate(math.AxisX)
		heading := gomath.Atan2(x[1], x[0])
		upright := math.RotationBetween(math.AxisZ, n).Mul(mgl64.QuatRotate(heading, math.AxisZ))
		next = hit.Location.Add(n.Mul(half))
		rot = upright.Normalize()
		b.vz = 0
	}
	b.m = math.Compose(next, rot, scale)
}

// Teardown implements brush.Simulator.
func (s *Simulator) Teardown() {
	s.bodies = nil
	s.cache = nil
	s.playing = false
	s.frame = 0
	s.Installed = false
	s.Collection = false
}
