// Package points holds the scatter point attribute table and the masked,
// space-converting accessors every brush goes through.
package points

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/go-gl/mathgl/mgl32"
)

// Align selects the source of a point's Z axis.
type Align int32

const (
	AlignSurface Align = iota
	AlignLocalZ
	AlignGlobalZ
	AlignCustom
)

// Up selects the source of a point's Y reference axis.
type Up int32

const (
	UpGlobalY Up = iota
	UpLocalY
	UpCustom
)

// ScaleRandom selects how random scale draws are applied.
type ScaleRandom int32

const (
	ScaleUniform ScaleRandom = iota
	ScaleVectorial
)

var alignNames = map[Align]string{
	AlignSurface: "SURFACE_NORMAL",
	AlignLocalZ:  "LOCAL_Z_AXIS",
	AlignGlobalZ: "GLOBAL_Z_AXIS",
	AlignCustom:  "CUSTOM",
}

var upNames = map[Up]string{
	UpGlobalY: "GLOBAL_Y_AXIS",
	UpLocalY:  "LOCAL_Y_AXIS",
	UpCustom:  "CUSTOM",
}

func (a Align) String() string { return alignNames[a] }
func (u Up) String() string    { return upNames[u] }

// ParseAlign parses an Align name, returning false for unknown names.
func ParseAlign(s string) (Align, bool) {
	for k, v := range alignNames {
		if v == s {
			return k, true
		}
	}
	return AlignSurface, false
}

// ParseUp parses an Up name, returning false for unknown names.
func ParseUp(s string) (Up, bool) {
	for k, v := range upNames {
		if v == s {
			return k, true
		}
	}
	return UpGlobalY, false
}

// Target is the point cloud attribute table, one slice per attribute.
// Positions and normals are stored in the owning surface's local space.
type Target struct {
	Co       []mgl32.Vec3
	Normal   []mgl32.Vec3
	Rotation []mgl32.Vec3
	AlignZ   []mgl32.Vec3
	AlignY   []mgl32.Vec3
	Scale    []mgl32.Vec3
	Index    []int32
	ID       []int32
	// SurfaceUUID is widened to 64 bits to hold the full surface identifier.
	SurfaceUUID []int64
	OrphanMask  []bool

	RAlign        []Align
	RAlignVector  []mgl32.Vec3
	RUp           []Up
	RUpVector     []mgl32.Vec3
	RBase         []mgl32.Vec3
	RRandom       []mgl32.Vec3
	RRandomRandom []mgl32.Vec3

	SBase         []mgl32.Vec3
	SRandom       []mgl32.Vec3
	SRandomRandom []mgl32.Vec3
	SRandomType   []ScaleRandom
	SChange       []mgl32.Vec3
	SChangeRandom []mgl32.Vec3

	ZOriginal []mgl32.Vec3
	ZRandom   []mgl32.Vec3
}

// Len returns the number of rows.
func (t *Target) Len() int { return len(t.Co) }

type column interface {
	grow(n int)
	compact(del *bitset.BitSet)
	length() int
}

type col[T any] struct{ s *[]T }

func (c col[T]) grow(n int) {
	*c.s = append(*c.s, make([]T, n)...)
}

func (c col[T]) compact(del *bitset.BitSet) {
	s := *c.s
	w := 0
	for i := range s {
		if del.Test(uint(i)) {
			continue
		}
		s[w] = s[i]
		w++
	}
	var zero T
	for i := w; i < len(s); i++ {
		s[i] = zero
	}
	*c.s = s[:w]
}

func (c col[T]) length() int { return len(*c.s) }

func (t *Target) columns() []column {
	return []column{
		col[mgl32.Vec3]{&t.Co}, col[mgl32.Vec3]{&t.Normal}, col[mgl32.Vec3]{&t.Rotation},
		col[mgl32.Vec3]{&t.AlignZ}, col[mgl32.Vec3]{&t.AlignY}, col[mgl32.Vec3]{&t.Scale},
		col[int32]{&t.Index}, col[int32]{&t.ID}, col[int64]{&t.SurfaceUUID}, col[bool]{&t.OrphanMask},
		col[Align]{&t.RAlign}, col[mgl32.Vec3]{&t.RAlignVector},
		col[Up]{&t.RUp}, col[mgl32.Vec3]{&t.RUpVector},
		col[mgl32.Vec3]{&t.RBase}, col[mgl32.Vec3]{&t.RRandom}, col[mgl32.Vec3]{&t.RRandomRandom},
		col[mgl32.Vec3]{&t.SBase}, col[mgl32.Vec3]{&t.SRandom}, col[mgl32.Vec3]{&t.SRandomRandom},
		col[ScaleRandom]{&t.SRandomType}, col[mgl32.Vec3]{&t.SChange}, col[mgl32.Vec3]{&t.SChangeRandom},
		col[mgl32.Vec3]{&t.ZOriginal}, col[mgl32.Vec3]{&t.ZRandom},
	}
}

// Grow appends n zero rows to every column and returns the first new row.
func (t *Target) Grow(n int) int {
	first := t.Len()
	for _, c := range t.columns() {
		c.grow(n)
	}
	return first
}

// Delete removes every row whose bit is set.
func (t *Target) Delete(del *bitset.BitSet) {
	for _, c := range t.columns() {
		c.compact(del)
	}
}

// Coherent reports whether every column has the same length.
func (t *Target) Coherent() bool {
	n := t.Len()
	for _, c := range t.columns() {
		if c.length() != n {
			return false
		}
	}
	return true
}

// MaxID returns the largest id, or -1 for an empty table.
func (t *Target) MaxID() int32 {
	m := int32(-1)
	for _, id := range t.ID {
		if id > m {
			m = id
		}
	}
	return m
}
