// Package create implements the tools that add points: single dots, strokes,
// sprays, lasso fills and the clone stamp.
package create

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes/kit"
	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/regen"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// creator is embedded by every create tool. It turns surface locations into
// point rows, writes them and regenerates their derived attributes.
type creator struct {
	brush.Base
	// before may edit or drop rows before they are written. Returning an
	// empty slice vetoes the write.
	before func(ctx *brush.Context, rows []points.Row, snaps []kit.Snap) []points.Row
	// after runs on the rows just written.
	after func(ctx *brush.Context, rows []int, snaps []kit.Snap) error
}

// store writes one point per snap and returns the new rows.
func (c *creator) store(ctx *brush.Context, snaps []kit.Snap) ([]int, error) {
	if len(snaps) == 0 {
		return nil, nil
	}
	world := make([]mgl64.Vec3, len(snaps))
	normals := make([]mgl64.Vec3, len(snaps))
	uuids := make([]int64, len(snaps))
	for i, s := range snaps {
		world[i] = s.Location
		normals[i] = s.Normal
		uuids[i] = s.UUID
	}
	s := ctx.Store
	local, err := s.PointsToLocal(world, uuids)
	if err != nil {
		return nil, err
	}
	localN, err := s.NormalsToLocal(normals, uuids)
	if err != nil {
		return nil, err
	}

	st := ctx.Settings()
	rows := make([]points.Row, len(snaps))
	for i := range snaps {
		rows[i] = st.Row(local[i], localN[i], uuids[i], ctx.Rng)
	}
	if c.before != nil {
		if rows = c.before(ctx, rows, snaps); len(rows) == 0 {
			return nil, nil
		}
	}

	added := s.Append(rows, regen.GenID(s.T.ID, len(rows)))
	if err := ctx.Regenerate(added); err != nil {
		return nil, err
	}
	if c.after != nil {
		if err := c.after(ctx, added, snaps); err != nil {
			return nil, err
		}
	}
	ctx.Log.Debug("stored", zap.Int("points", len(added)))
	return added, nil
}

// pointer returns the surface location under the pointer.
func pointer(ctx *brush.Context) (kit.Snap, error) {
	loc, n, err := ctx.Location()
	if err != nil {
		return kit.Snap{}, err
	}
	return kit.Snap{Location: loc, Normal: n, UUID: ctx.Tracker.SurfaceUUID}, nil
}

// alignY points the Y axis of rows along dirs. Zero directions keep the
// row's settings.
func alignY(ctx *brush.Context, rows []int, dirs []mgl64.Vec3) error {
	t := ctx.Store.T
	var changed []int
	for i, r := range rows {
		d, ok := math.SafeNormalize(dirs[i])
		if !ok {
			continue
		}
		t.RUp[r] = points.UpCustom
		t.RUpVector[r] = math.Vec3To32(d)
		changed = append(changed, r)
	}
	if len(changed) == 0 {
		return nil
	}
	return regen.Rotation(ctx.Store, changed)
}
