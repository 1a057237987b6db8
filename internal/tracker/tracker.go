// Package tracker turns pointer events into the 2D and 3D pointer state the
// brushes read: positions, stroke directions, path history and the surface
// under the cursor.
package tracker

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/input"
	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/internal/view"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// ErrPointerOffSurface is returned when the pointer does not project onto
// any surface.
var ErrPointerOffSurface = errors.New("tracker: pointer is off surface")

// Tracker holds the pointer state of one tool.
type Tracker struct {
	cfg config.TrackerConfig

	// 2D state in region pixels.
	Pos2D          mgl64.Vec2
	Prev2D         mgl64.Vec2
	Dir2D          mgl64.Vec2
	DirInterp2D    mgl64.Vec2
	Path2D         []mgl64.Vec2
	anchor2D       mgl64.Vec2
	hasAnchor2D    bool
	dirSamples2D   []mgl64.Vec2
	inbetween      []mgl64.Vec2
	recordingLasso bool

	// 3D state, valid while OnSurface.
	OnSurface    bool
	Pos3D        mgl64.Vec3
	Prev3D       mgl64.Vec3
	Normal       mgl64.Vec3 // interpolated shading normal
	FaceNormal   mgl64.Vec3
	Triangle     int
	Dir3D        mgl64.Vec3
	DirInterp3D  mgl64.Vec3
	Path3D       []mgl64.Vec3
	anchor3D     mgl64.Vec3
	hasAnchor3D  bool
	dirSamples3D []mgl64.Vec3

	// Active surface under the pointer.
	SurfaceUUID   int64
	SurfaceMatrix mgl64.Mat4

	Pressure float64
	Tilt     [2]float64
}

// New creates a tracker with the given thresholds.
func New(cfg config.TrackerConfig) *Tracker {
	if cfg.InterpolationSamples < 1 {
		cfg.InterpolationSamples = 1
	}
	if cfg.PathLength < 2 {
		cfg.PathLength = 2
	}
	return &Tracker{cfg: cfg, SurfaceMatrix: mgl64.Ident4(), Pressure: 1}
}

// Region returns the region coordinate of an event.
func Region(ev input.Event) mgl64.Vec2 {
	return mgl64.Vec2{float64(ev.MouseRegionX), float64(ev.MouseRegionY)}
}

// Update consumes a pointer event. The 3D state is resolved by casting the
// view ray through the cache; a miss leaves OnSurface false.
func (t *Tracker) Update(ev input.Event, v *view.View, c *surface.Cache) {
	p := Region(ev)
	t.Pressure = ev.EffectivePressure()
	t.Tilt = ev.Tilt
	t.update2D(p)
	if t.recordingLasso {
		t.inbetween = append(t.inbetween, p)
	}
	if v == nil || c == nil {
		t.offSurface()
		return
	}
	r := v.Ray(p)
	hit, ok := c.RayCast(r.Origin, r.Direction)
	if !ok {
		t.offSurface()
		return
	}
	t.update3D(hit, c)
}

// UpdateAt places the pointer directly on a known surface hit. Used by timer
// callbacks and scripted input.
func (t *Tracker) UpdateAt(region mgl64.Vec2, hit surface.Hit, c *surface.Cache) {
	t.update2D(region)
	t.update3D(hit, c)
}

func (t *Tracker) update2D(p mgl64.Vec2) {
	t.Prev2D = t.Pos2D
	t.Pos2D = p
	t.Path2D = pushBounded(t.Path2D, p, t.cfg.PathLength)

	if !t.hasAnchor2D {
		t.anchor2D, t.hasAnchor2D = p, true
		return
	}
	d := p.Sub(t.anchor2D)
	if d.Len() < t.cfg.DirectionMin2D {
		return
	}
	t.Dir2D = math.Normalize2(d)
	t.anchor2D = p
	t.dirSamples2D = pushBounded(t.dirSamples2D, t.Dir2D, t.cfg.InterpolationSamples)
	t.DirInterp2D = math.Normalize2(weightedMean2(t.dirSamples2D))
}

func (t *Tracker) update3D(hit surface.Hit, c *surface.Cache) {
	wasOn := t.OnSurface
	t.OnSurface = true
	if wasOn {
		t.Prev3D = t.Pos3D
	} else {
		t.Prev3D = hit.Location
	}
	t.Pos3D = hit.Location
	t.FaceNormal = hit.Normal
	t.Normal = c.SmoothNormal(hit)
	t.Triangle = hit.Triangle
	t.SurfaceUUID = c.SurfaceOf(hit.Triangle)
	if m, ok := c.Matrix(t.SurfaceUUID); ok {
		t.SurfaceMatrix = m
	}
	t.Path3D = pushBounded(t.Path3D, hit.Location, t.cfg.PathLength)

	if !t.hasAnchor3D {
		t.anchor3D, t.hasAnchor3D = hit.Location, true
		return
	}
	d := hit.Location.Sub(t.anchor3D)
	if d.Len() < t.cfg.DirectionMin3D {
		return
	}
	t.Dir3D = math.Normalize(d)
	t.anchor3D = hit.Location
	t.dirSamples3D = pushBounded(t.dirSamples3D, t.Dir3D, t.cfg.InterpolationSamples)
	t.DirInterp3D = math.Normalize(weightedMean3(t.dirSamples3D))
}

func (t *Tracker) offSurface() {
	t.OnSurface = false
	t.hasAnchor3D = false
	t.dirSamples3D = t.dirSamples3D[:0]
	t.Path3D = t.Path3D[:0]
	t.DirInterp3D = mgl64.Vec3{}
}

// Location returns the 3D pointer position and normal.
func (t *Tracker) Location() (mgl64.Vec3, mgl64.Vec3, error) {
	if !t.OnSurface {
		return mgl64.Vec3{}, mgl64.Vec3{}, ErrPointerOffSurface
	}
	return t.Pos3D, t.Normal, nil
}

// ResetStroke clears direction history at the start of a stroke.
func (t *Tracker) ResetStroke() {
	t.hasAnchor2D = false
	t.hasAnchor3D = false
	t.dirSamples2D = t.dirSamples2D[:0]
	t.dirSamples3D = t.dirSamples3D[:0]
	t.Dir2D, t.DirInterp2D = mgl64.Vec2{}, mgl64.Vec2{}
	t.Dir3D, t.DirInterp3D = mgl64.Vec3{}, mgl64.Vec3{}
	t.Path2D = t.Path2D[:0]
	t.Path3D = t.Path3D[:0]
}

// BeginLasso starts recording every position, inbetween samples included.
func (t *Tracker) BeginLasso() {
	t.recordingLasso = true
	t.inbetween = append(t.inbetween[:0], t.Pos2D)
}

// EndLasso stops recording and returns the polygon.
func (t *Tracker) EndLasso() []mgl64.Vec2 {
	t.recordingLasso = false
	out := append([]mgl64.Vec2(nil), t.inbetween...)
	t.inbetween = t.inbetween[:0]
	return out
}

// Lasso returns the polygon recorded so far.
func (t *Tracker) Lasso() []mgl64.Vec2 { return t.inbetween }

func pushBounded[T any](s []T, v T, limit int) []T {
	s = append(s, v)
	if len(s) > limit {
		copy(s, s[len(s)-limit:])
		s = s[:limit]
	}
	return s
}

// Newest samples weigh most, decaying linearly to 1 for the oldest.
func weightedMean2(s []mgl64.Vec2) mgl64.Vec2 {
	var sum mgl64.Vec2
	for i, d := range s {
		sum = sum.Add(d.Mul(float64(i + 1)))
	}
	return sum
}

func weightedMean3(s []mgl64.Vec3) mgl64.Vec3 {
	var sum mgl64.Vec3
	for i, d := range s {
		sum = sum.Add(d.Mul(float64(i + 1)))
	}
	return sum
}
