package regen

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Settings are the brush-level instance defaults recorded on new points.
type Settings struct {
	RotationAlign       points.Align
	RotationAlignVector mgl64.Vec3
	RotationUp          points.Up
	RotationUpVector    mgl64.Vec3
	RotationBase        mgl64.Vec3
	RotationRandom      mgl64.Vec3

	ScaleDefault      mgl64.Vec3
	ScaleRandomFactor mgl64.Vec3
	ScaleRandomType   points.ScaleRandom

	// InstanceIndex is used when InstanceCount is 0; otherwise the index
	// is drawn uniformly from [0, InstanceCount).
	InstanceIndex int32
	InstanceCount int32
}

// DefaultSettings returns upright, unit-scale, surface-aligned settings.
func DefaultSettings() Settings {
	return Settings{
		RotationAlign: points.AlignSurface,
		RotationUp:    points.UpGlobalY,
		ScaleDefault:  mgl64.Vec3{1, 1, 1},
	}
}

// NewRand returns the generator used for frozen random draws.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Draw returns three uniform numbers in [0,1).
func Draw(rng *rand.Rand) mgl64.Vec3 {
	return mgl64.Vec3{rng.Float64(), rng.Float64(), rng.Float64()}
}

// UnitVector returns a uniformly distributed unit vector.
func UnitVector(rng *rand.Rand) mgl64.Vec3 {
	for {
		v := mgl64.Vec3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}
		if l := v.Len(); l > 1e-3 && l <= 1 {
			return v.Mul(1 / l)
		}
	}
}

// Row builds a new point row in local space with fresh random draws.
// The stored random scale factor is the lower bound of the scale range,
// so a user factor of 0 keeps the base scale.
func (st Settings) Row(co, normal mgl64.Vec3, uuid int64, rng *rand.Rand) points.Row {
	idx := st.InstanceIndex
	if st.InstanceCount > 0 {
		idx = rng.Int32N(st.InstanceCount)
	}
	sr := mgl64.Vec3{1, 1, 1}.Sub(st.ScaleRandomFactor)
	return points.Row{
		Co:            co,
		Normal:        normal,
		SurfaceUUID:   uuid,
		Index:         idx,
		RAlign:        st.RotationAlign,
		RAlignVector:  st.RotationAlignVector,
		RUp:           st.RotationUp,
		RUpVector:     st.RotationUpVector,
		RBase:         st.RotationBase,
		RRandom:       st.RotationRandom,
		RRandomRandom: Draw(rng),
		SBase:         st.ScaleDefault,
		SRandom:       sr,
		SRandomRandom: Draw(rng),
		SRandomType:   st.ScaleRandomType,
		SChangeRandom: Draw(rng),
		ZOriginal:     normal,
		ZRandom:       UnitVector(rng),
	}
}

// ApplyRotation overwrites the rotation settings of rows, optionally reseeding the
// random draws.
func (st Settings) ApplyRotation(t *points.Target, rows []int, reseed bool, rng *rand.Rand) {
	f := math.Vec3To32
	for _, r := range rows {
		t.RAlign[r] = st.RotationAlign
		t.RAlignVector[r] = f(st.RotationAlignVector)
		t.RUp[r] = st.RotationUp
		t.RUpVector[r] = f(st.RotationUpVector)
		t.RBase[r] = f(st.RotationBase)
		t.RRandom[r] = f(st.RotationRandom)
		if reseed {
			t.RRandomRandom[r] = f(Draw(rng))
		}
	}
}

// ApplyScale overwrites the scale settings of rows and clears grow/shrink
// deltas, optionally reseeding the random draws.
func (st Settings) ApplyScale(t *points.Target, rows []int, reseed bool, rng *rand.Rand) {
	f := math.Vec3To32
	sr := f(mgl64.Vec3{1, 1, 1}.Sub(st.ScaleRandomFactor))
	for _, r := range rows {
		t.SBase[r] = f(st.ScaleDefault)
		t.SRandom[r] = sr
		t.SRandomType[r] = st.ScaleRandomType
		t.SChange[r] = [3]float32{}
		if reseed {
			t.SRandomRandom[r] = f(Draw(rng))
		}
	}
}

// ReseedRotation draws new random rotation values for rows.
func ReseedRotation(t *points.Target, rows []int, rng *rand.Rand) {
	for _, r := range rows {
		t.RRandomRandom[r] = math.Vec3To32(Draw(rng))
	}
}

// CustomFrame stores the given world axes as custom alignment on rows, so
// the next Rotation run reproduces that frame.
func CustomFrame(t *points.Target, rows []int, z, y []mgl64.Vec3) {
	for i, r := range rows {
		t.RAlign[r] = points.AlignCustom
		t.RAlignVector[r] = math.Vec3To32(z[i])
		t.RUp[r] = points.UpCustom
		t.RUpVector[r] = math.Vec3To32(y[i])
		t.RBase[r] = [3]float32{}
		t.RRandom[r] = [3]float32{}
	}
}
