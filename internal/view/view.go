// Package view provides region <-> world projection for a 3D viewport.
//
// Region coordinates are pixels relative to the viewport region with the
// origin at the bottom-left corner, matching mgl64.Project.
package view

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/pkg/math"
)

// View is a camera snapshot for one event dispatch.
type View struct {
	Width       int
	Height      int
	ViewMatrix  mgl64.Mat4
	Projection  mgl64.Mat4
	Perspective bool

	invViewProj mgl64.Mat4
}

// NewPerspective creates a perspective view looking from eye at target.
func NewPerspective(eye, target, up mgl64.Vec3, fovDeg float64, width, height int, near, far float64) *View {
	aspect := float64(width) / float64(gomath.Max(1, float64(height)))
	v := &View{
		Width:       width,
		Height:      height,
		ViewMatrix:  mgl64.LookAtV(eye, target, up),
		Projection:  mgl64.Perspective(mgl64.DegToRad(fovDeg), aspect, near, far),
		Perspective: true,
	}
	v.update()
	return v
}

// NewOrtho creates an orthographic view looking from eye at target. scale is
// the world size of the vertical region extent.
func NewOrtho(eye, target, up mgl64.Vec3, scale float64, width, height int, near, far float64) *View {
	aspect := float64(width) / gomath.Max(1, float64(height))
	hh := scale / 2
	hw := hh * aspect
	v := &View{
		Width:      width,
		Height:     height,
		ViewMatrix: mgl64.LookAtV(eye, target, up),
		Projection: mgl64.Ortho(-hw, hw, -hh, hh, near, far),
	}
	v.update()
	return v
}

// SetMatrices replaces the camera matrices, e.g. after navigation.
func (v *View) SetMatrices(viewMatrix, projection mgl64.Mat4) {
	v.ViewMatrix = viewMatrix
	v.Projection = projection
	v.update()
}

// Resize updates the region size.
func (v *View) Resize(width, height int) {
	v.Width = width
	v.Height = height
}

func (v *View) update() {
	v.invViewProj = v.Projection.Mul4(v.ViewMatrix).Inv()
}

// Eye returns the camera position in world space.
func (v *View) Eye() mgl64.Vec3 {
	return math.TransformPoint(v.ViewMatrix.Inv(), mgl64.Vec3{})
}

// Forward returns the unit view direction in world space.
func (v *View) Forward() mgl64.Vec3 {
	return math.Normalize(math.TransformDirection(v.ViewMatrix.Inv(), mgl64.Vec3{0, 0, -1}))
}

// Contains reports whether a region coordinate lies inside the region.
func (v *View) Contains(p mgl64.Vec2) bool {
	return p[0] >= 0 && p[1] >= 0 && p[0] < float64(v.Width) && p[1] < float64(v.Height)
}

// Project converts a world location to region coordinates.
// It returns false for locations behind a perspective camera.
func (v *View) Project(world mgl64.Vec3) (mgl64.Vec2, bool) {
	clip := v.Projection.Mul4(v.ViewMatrix).Mul4x1(world.Vec4(1))
	if v.Perspective && clip[3] <= 0 {
		return mgl64.Vec2{}, false
	}
	win := mgl64.Project(world, v.ViewMatrix, v.Projection, 0, 0, v.Width, v.Height)
	return mgl64.Vec2{win[0], win[1]}, true
}

// ProjectAll projects many locations at once. ok[i] is false when location i
// is behind the camera; its coordinate is then left at zero.
func (v *View) ProjectAll(world []mgl64.Vec3) (screen []mgl64.Vec2, ok []bool) {
	screen = make([]mgl64.Vec2, len(world))
	ok = make([]bool, len(world))
	for i, w := range world {
		screen[i], ok[i] = v.Project(w)
	}
	return screen, ok
}

// Ray returns the world-space ray through a region coordinate.
// The origin lies on the near clip plane.
func (v *View) Ray(region mgl64.Vec2) math.Ray {
	near := v.unproject(mgl64.Vec3{region[0], region[1], 0})
	far := v.unproject(mgl64.Vec3{region[0], region[1], 1})
	return math.NewRay(near, far.Sub(near))
}

// Unproject returns the world location under a region coordinate at the depth
// of depthRef (on the plane through depthRef facing the camera).
func (v *View) Unproject(region mgl64.Vec2, depthRef mgl64.Vec3) mgl64.Vec3 {
	r := v.Ray(region)
	fwd := v.Forward()
	if p, ok := r.IntersectPlane(depthRef, fwd); ok {
		return p
	}
	// depthRef behind the near plane: fall back to the ray origin depth
	return r.Origin
}

// PixelSize returns the world length of one pixel at the depth of location.
func (v *View) PixelSize(location mgl64.Vec3) float64 {
	p, ok := v.Project(location)
	if !ok {
		return 0
	}
	a := v.Unproject(p, location)
	b := v.Unproject(p.Add(mgl64.Vec2{1, 0}), location)
	return b.Sub(a).Len()
}

func (v *View) unproject(win mgl64.Vec3) mgl64.Vec3 {
	// Same math as mgl64.UnProject, kept inline so the cached inverse is used
	// and singular matrices degrade to the origin instead of erroring.
	ndc := mgl64.Vec4{
		2*win[0]/float64(gomath.Max(1, float64(v.Width))) - 1,
		2*win[1]/float64(gomath.Max(1, float64(v.Height))) - 1,
		2*win[2] - 1,
		1,
	}
	obj := v.invViewProj.Mul4x1(ndc)
	if obj[3] == 0 {
		return mgl64.Vec3{}
	}
	return obj.Vec3().Mul(1 / obj[3])
}
