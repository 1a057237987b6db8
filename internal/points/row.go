package points

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"

	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Row holds every stored attribute of one point. Derived attributes
// (rotation, axes, scale) are filled by the regenerator after append.
type Row struct {
	Co          mgl64.Vec3 // local space
	Normal      mgl64.Vec3 // local space
	SurfaceUUID int64
	Index       int32

	RAlign        Align
	RAlignVector  mgl64.Vec3
	RUp           Up
	RUpVector     mgl64.Vec3
	RBase         mgl64.Vec3
	RRandom       mgl64.Vec3
	RRandomRandom mgl64.Vec3

	SBase         mgl64.Vec3
	SRandom       mgl64.Vec3
	SRandomRandom mgl64.Vec3
	SRandomType   ScaleRandom
	SChange       mgl64.Vec3
	SChangeRandom mgl64.Vec3

	ZOriginal mgl64.Vec3
	ZRandom   mgl64.Vec3
}

// Row reads row i back from the table.
func (t *Target) Row(i int) Row {
	v := math.Vec3To64
	return Row{
		Co:            v(t.Co[i]),
		Normal:        v(t.Normal[i]),
		SurfaceUUID:   t.SurfaceUUID[i],
		Index:         t.Index[i],
		RAlign:        t.RAlign[i],
		RAlignVector:  v(t.RAlignVector[i]),
		RUp:           t.RUp[i],
		RUpVector:     v(t.RUpVector[i]),
		RBase:         v(t.RBase[i]),
		RRandom:       v(t.RRandom[i]),
		RRandomRandom: v(t.RRandomRandom[i]),
		SBase:         v(t.SBase[i]),
		SRandom:       v(t.SRandom[i]),
		SRandomRandom: v(t.SRandomRandom[i]),
		SRandomType:   t.SRandomType[i],
		SChange:       v(t.SChange[i]),
		SChangeRandom: v(t.SChangeRandom[i]),
		ZOriginal:     v(t.ZOriginal[i]),
		ZRandom:       v(t.ZRandom[i]),
	}
}

// SetRow writes r into row i. Derived attributes and id are left alone.
func (t *Target) SetRow(i int, r Row) {
	f := math.Vec3To32
	t.Co[i] = f(r.Co)
	t.Normal[i] = f(r.Normal)
	t.SurfaceUUID[i] = r.SurfaceUUID
	t.Index[i] = r.Index
	t.RAlign[i] = r.RAlign
	t.RAlignVector[i] = f(r.RAlignVector)
	t.RUp[i] = r.RUp
	t.RUpVector[i] = f(r.RUpVector)
	t.RBase[i] = f(r.RBase)
	t.RRandom[i] = f(r.RRandom)
	t.RRandomRandom[i] = f(r.RRandomRandom)
	t.SBase[i] = f(r.SBase)
	t.SRandom[i] = f(r.SRandom)
	t.SRandomRandom[i] = f(r.SRandomRandom)
	t.SRandomType[i] = r.SRandomType
	t.SChange[i] = f(r.SChange)
	t.SChangeRandom[i] = f(r.SChangeRandom)
	t.ZOriginal[i] = f(r.ZOriginal)
	t.ZRandom[i] = f(r.ZRandom)
}

// Clone returns a deep copy of the table.
func (t *Target) Clone() *Target {
	out := &Target{}
	if err := copier.CopyWithOption(out, t, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds, which cannot happen for
		// identical types.
		panic(err)
	}
	return out
}
