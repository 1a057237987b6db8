package headless

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Evaluator builds instance matrices the way the downstream instancer does:
// the surface matrix times the point's local transform.
type Evaluator struct{}

// Instances implements brush.Evaluator. Rows of missing surfaces are skipped.
func (Evaluator) Instances(t *points.Target, surfaces []*surface.Surface) []mgl64.Mat4 {
	mats := make(map[int64]mgl64.Mat4, len(surfaces))
	for _, s := range surfaces {
		mats[s.UUID] = s.Matrix
	}
	out := make([]mgl64.Mat4, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		m, ok := mats[t.SurfaceUUID[i]]
		if !ok {
			continue
		}
		rot := math.EulerToQuat(math.Vec3To64(t.Rotation[i]))
		local := math.Compose(math.Vec3To64(t.Co[i]), rot, math.Vec3To64(t.Scale[i]))
		out = append(out, m.Mul4(local))
	}
	return out
}
