// Package regen rebuilds the derived point attributes (rotation, axes,
// scale) from the recorded private attributes.
//
// Both pipelines are pure per row: running them twice on any row set
// yields identical columns.
package regen

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

type surfaceFrame struct {
	rot mgl64.Quat
	inv mgl64.Quat
	m   mgl64.Mat4
}

// Rotation regenerates rotation, align_z and align_y for rows.
func Rotation(s *points.Store, rows []int) error {
	t := s.T
	frames := make(map[int64]surfaceFrame)
	for _, r := range rows {
		uuid := t.SurfaceUUID[r]
		f, ok := frames[uuid]
		if !ok {
			m, err := s.Matrix(uuid)
			if err != nil {
				return err
			}
			rot := math.RotationPart(m)
			f = surfaceFrame{rot: rot, inv: rot.Inverse(), m: m}
			frames[uuid] = f
		}

		q := rotationOf(t, r, f)
		t.Rotation[r] = math.Vec3To32(math.QuatToEuler(q))
		t.AlignZ[r] = math.Vec3To32(q.Rotate(math.AxisZ))
		t.AlignY[r] = math.Vec3To32(q.Rotate(math.AxisY))
	}
	return nil
}

// rotationOf returns the local-space orientation of row r.
// Rotations apply in the order base, random, align, surface inverse.
func rotationOf(t *points.Target, r int, f surfaceFrame) mgl64.Quat {
	var n mgl64.Vec3
	switch t.RAlign[r] {
	case points.AlignLocalZ:
		n = f.rot.Rotate(math.AxisZ)
	case points.AlignGlobalZ:
		n = math.AxisZ
	case points.AlignCustom:
		n = math.Vec3To64(t.RAlignVector[r])
	default:
		n = math.TransformNormal(f.m, math.Vec3To64(t.Normal[r]))
	}
	n, ok := math.SafeNormalize(n)
	if !ok {
		n = math.AxisZ
	}

	var yRef mgl64.Vec3
	switch t.RUp[r] {
	case points.UpLocalY:
		yRef = f.rot.Rotate(math.AxisY)
	case points.UpCustom:
		yRef = math.Vec3To64(t.RUpVector[r])
	default:
		yRef = math.AxisY
	}

	qAlign := AlignFrame(n, yRef)
	rnd := math.MulComponents(math.Vec3To64(t.RRandom[r]), math.Vec3To64(t.RRandomRandom[r]))
	qRand := math.EulerToQuat(rnd)
	qBase := math.EulerToQuat(math.Vec3To64(t.RBase[r]))

	return f.inv.Mul(qAlign).Mul(qRand).Mul(qBase).Normalize()
}

// AlignFrame returns the rotation whose Z axis is n and whose Y axis lies in
// the plane of n and yRef. A yRef parallel to n falls back to global Y, then
// global X.
func AlignFrame(n, yRef mgl64.Vec3) mgl64.Quat {
	var x mgl64.Vec3
	ok := false
	for _, ref := range [...]mgl64.Vec3{yRef, math.AxisY, math.AxisX} {
		if x, ok = math.SafeNormalize(ref.Cross(n)); ok {
			break
		}
	}
	if !ok {
		return mgl64.QuatIdent()
	}
	y := n.Cross(x)
	return math.BasisToQuat(x, y, n)
}

// Scale regenerates the scale column for rows.
func Scale(t *points.Target, rows []int) {
	for _, r := range rows {
		base := math.Vec3To64(t.SBase[r])
		rnd := math.Vec3To64(t.SRandom[r])
		draw := math.Vec3To64(t.SRandomRandom[r])

		var s mgl64.Vec3
		switch t.SRandomType[r] {
		case points.ScaleVectorial:
			for k := 0; k < 3; k++ {
				s[k] = base[k] * (rnd[k] + (1-rnd[k])*draw[k])
			}
		default:
			u := draw[0]
			for k := 0; k < 3; k++ {
				s[k] = base[k]*(1-u) + base[k]*rnd[k]*u
			}
		}
		t.Scale[r] = math.Vec3To32(s.Add(math.Vec3To64(t.SChange[r])))
	}
}

// All regenerates rotation and scale.
func All(s *points.Store, rows []int) error {
	if err := Rotation(s, rows); err != nil {
		return err
	}
	Scale(s.T, rows)
	return nil
}

// GenID returns n new ids strictly greater than every id in existing,
// starting at 0 for an empty table.
func GenID(existing []int32, n int) []int32 {
	next := int32(0)
	for _, id := range existing {
		if id >= next {
			next = id + 1
		}
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = next + int32(i)
	}
	return out
}
