package kit

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/regen"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// unit32 normalizes a stored axis, falling back to def for a zero vector.
func unit32(v mgl32.Vec3, def mgl64.Vec3) mgl64.Vec3 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l < 1e-12 || math32.IsNaN(l) {
		return def
	}
	return math.Vec3To64(v.Mul(1 / l))
}

// WorldFrame returns the world Z and Y axes of rows.
func WorldFrame(s *points.Store, rows []int) (z, y []mgl64.Vec3, err error) {
	z = make([]mgl64.Vec3, len(rows))
	y = make([]mgl64.Vec3, len(rows))
	rots := make(map[int64]mgl64.Quat)
	for i, r := range rows {
		uuid := s.T.SurfaceUUID[r]
		q, ok := rots[uuid]
		if !ok {
			m, err := s.Matrix(uuid)
			if err != nil {
				return nil, nil, err
			}
			q = math.RotationPart(m)
			rots[uuid] = q
		}
		z[i] = q.Rotate(unit32(s.T.AlignZ[r], math.AxisZ))
		y[i] = q.Rotate(unit32(s.T.AlignY[r], math.AxisY))
	}
	return z, y, nil
}

// RotateFrames applies a per-row world rotation to the current frames of
// rows and stores the result as a custom frame.
func RotateFrames(s *points.Store, rows []int, rot func(i int) mgl64.Quat) error {
	z, y, err := WorldFrame(s, rows)
	if err != nil {
		return err
	}
	for i := range rows {
		q := rot(i)
		z[i] = q.Rotate(z[i])
		y[i] = q.Rotate(y[i])
	}
	regen.CustomFrame(s.T, rows, z, y)
	return regen.Rotation(s, rows)
}

// ClampScale limits every component of v to [lo, hi].
func ClampScale(v, lo, hi mgl32.Vec3) mgl32.Vec3 {
	var out mgl32.Vec3
	for k := 0; k < 3; k++ {
		out[k] = math32.Min(math32.Max(v[k], lo[k]), hi[k])
	}
	return out
}
