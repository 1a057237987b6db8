// Package headless is an in-memory host for the brush runtime: a scene, an
// undo log, manually driven timers, a region layout, a navigator, a small
// rigid-body world and an instance evaluator. Tests and the replay tool run
// tools through it without a window.
package headless

import (
	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/props"
	"github.com/Faultbox/scatterbrush/internal/surface"
)

// Scene holds the target, the surfaces and the per-tool property groups.
type Scene struct {
	target    *points.Target
	hasTarget bool
	surfaces  []*surface.Surface
	// Missing simulates a surface that was deleted from the host.
	Missing bool

	presets *props.Presets
	groups  map[string]*props.Group

	MeshUpdates int
}

// NewScene creates a scene with an empty target and the embedded presets.
func NewScene(surfaces ...*surface.Surface) *Scene {
	return &Scene{
		target:    &points.Target{},
		hasTarget: true,
		surfaces:  surfaces,
		presets:   props.Defaults(),
		groups:    make(map[string]*props.Group),
	}
}

// Target implements brush.Scene.
func (s *Scene) Target() (*points.Target, bool) {
	return s.target, s.hasTarget
}

// SetTarget replaces the target; nil removes it.
func (s *Scene) SetTarget(t *points.Target) {
	s.target = t
	s.hasTarget = t != nil
}

// Surfaces implements brush.Scene and surface.Source.
func (s *Scene) Surfaces() []*surface.Surface { return s.surfaces }

// SetSurfaces replaces the surface set.
func (s *Scene) SetSurfaces(surfaces ...*surface.Surface) { s.surfaces = surfaces }

// SurfacesComplete implements brush.Scene.
func (s *Scene) SurfacesComplete() bool { return !s.Missing }

// SetPresets replaces the presets and drops every group built so far.
func (s *Scene) SetPresets(p *props.Presets) {
	s.presets = p
	s.groups = make(map[string]*props.Group)
}

// Props implements brush.Scene. Groups are created from the presets on
// first use and live as long as the scene.
func (s *Scene) Props(tool string) *props.Group {
	if g, ok := s.groups[tool]; ok {
		return g
	}
	g, ok := s.presets.Group(tool)
	if !ok {
		return nil
	}
	s.groups[tool] = g
	return g
}

// MeshUpdated implements brush.Scene.
func (s *Scene) MeshUpdated() { s.MeshUpdates++ }
