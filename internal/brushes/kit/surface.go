package kit

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Snap is a location placed on a surface.
type Snap struct {
	Location mgl64.Vec3
	Normal   mgl64.Vec3
	UUID     int64
}

func snapOf(c *surface.Cache, h surface.Hit) Snap {
	return Snap{Location: h.Location, Normal: c.SmoothNormal(h), UUID: c.SurfaceOf(h.Triangle)}
}

// Nearest snaps p to the closest surface location.
func Nearest(c *surface.Cache, p mgl64.Vec3) (Snap, bool) {
	h, ok := c.FindNearest(p, 0)
	if !ok {
		return Snap{}, false
	}
	return snapOf(c, h), true
}

// Cast follows the ray from origin along dir and snaps the first hit.
func Cast(c *surface.Cache, origin, dir mgl64.Vec3) (Snap, bool) {
	h, ok := c.RayCast(origin, dir)
	if !ok {
		return Snap{}, false
	}
	return snapOf(c, h), true
}

// castLift keeps a point lying exactly on a face from missing it.
const castLift = 1e-5

// Drop casts from p along -dir, then along +dir.
func Drop(c *surface.Cache, p, dir mgl64.Vec3) (Snap, bool) {
	d, ok := math.SafeNormalize(dir)
	if !ok {
		return Snap{}, false
	}
	if s, ok := Cast(c, p.Add(d.Mul(castLift)), d.Mul(-1)); ok {
		return s, true
	}
	return Cast(c, p.Sub(d.Mul(castLift)), d)
}

// Place writes world positions and normals to rows. With updateUUID the
// rows are first moved to the surface each snap landed on.
func Place(s *points.Store, rows []int, snaps []Snap, updateUUID bool) error {
	if updateUUID {
		for i, r := range rows {
			s.T.SurfaceUUID[r] = snaps[i].UUID
		}
	}
	world := make([]mgl64.Vec3, len(snaps))
	normals := make([]mgl64.Vec3, len(snaps))
	for i, sn := range snaps {
		world[i] = sn.Location
		normals[i] = sn.Normal
	}
	if err := s.SetWorldCo(rows, world); err != nil {
		return err
	}
	return s.SetWorldNormal(rows, normals)
}

// Reproject snaps moved world positions back onto the surface and stores
// them. Rows whose position finds no surface keep their old state.
func Reproject(s *points.Store, c *surface.Cache, rows []int, world []mgl64.Vec3, updateUUID bool) error {
	var keep []int
	var snaps []Snap
	for i, r := range rows {
		sn, ok := Nearest(c, world[i])
		if !ok {
			continue
		}
		keep = append(keep, r)
		snaps = append(snaps, sn)
	}
	if len(keep) == 0 {
		return nil
	}
	return Place(s, keep, snaps, updateUUID)
}
