// Package selection picks the points a brush action works on: a 3D radius
// around the pointer or a 2D radius in region pixels, with a falloff ring
// that is either sampled (indices) or weighted (weights).
package selection

import (
	gomath "math"
	"math/rand/v2"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scatterbrush/internal/geom"
	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/view"
)

// Type names the kernel a brush selects with.
type Type int

const (
	None Type = iota
	Indices3D
	Weights3D
	Indices2D
	Weights2D
)

var typeNames = [...]string{"NONE", "INDICES_3D", "WEIGHTS_3D", "INDICES_2D", "WEIGHTS_2D"}

func (t Type) String() string { return typeNames[t] }

// Is2D reports whether distances are measured in region pixels.
func (t Type) Is2D() bool { return t == Indices2D || t == Weights2D }

// Params are the brush settings a kernel reads.
type Params struct {
	Radius  float64 // world units in 3D, pixels in 2D
	Falloff float64 // fraction of Radius with full weight
	Affect  float64 // share of the falloff ring picked by index kernels
	Rng     *rand.Rand
}

// Result is a selection over the active rows of a store. All slices are
// parallel and ordered by row.
type Result struct {
	Mask                *bitset.BitSet // by table row
	Masked              []int
	Rows                []int
	Distances           []float64
	DistancesNormalized []float64
	Weights             []float64
	Local               []mgl64.Vec3
	World               []mgl64.Vec3
}

// Len returns the number of selected points.
func (r *Result) Len() int { return len(r.Rows) }

// Empty reports whether nothing was selected.
func (r *Result) Empty() bool { return len(r.Rows) == 0 }

// SortByDistance reorders the result nearest first. Ties keep row order.
func (r *Result) SortByDistance() {
	order := make([]int, len(r.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return r.Distances[order[a]] < r.Distances[order[b]] })
	r.Masked = permute(r.Masked, order)
	r.Rows = permute(r.Rows, order)
	r.Distances = permute(r.Distances, order)
	r.DistancesNormalized = permute(r.DistancesNormalized, order)
	r.Weights = permute(r.Weights, order)
	r.Local = permute(r.Local, order)
	r.World = permute(r.World, order)
}

func permute[T any](s []T, order []int) []T {
	if len(s) == 0 {
		return s
	}
	out := make([]T, len(order))
	for i, o := range order {
		out[i] = s[o]
	}
	return out
}

// Weight is the falloff weight of distance d: 1 inside falloff·radius,
// decaying linearly to 0 at radius.
func Weight(d, radius, falloff float64) float64 {
	inner := falloff * radius
	span := radius - inner
	if d <= inner || span <= 0 {
		return 1
	}
	w := 1 - (d-inner)/span
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// candidate is an active row inside the radius.
type candidate struct {
	masked int
	dist   float64
	world  mgl64.Vec3
}

// Select dispatches on t. v is only read by the 2D kernels and pointer2D
// only by them; pointer3D only by the 3D kernels.
func Select(t Type, s *points.Store, v *view.View, pointer3D mgl64.Vec3, pointer2D mgl64.Vec2, p Params) (*Result, error) {
	switch t {
	case Indices3D:
		return SelectIndices3D(s, pointer3D, p)
	case Weights3D:
		return SelectWeights3D(s, pointer3D, p)
	case Indices2D:
		return SelectIndices2D(s, v, pointer2D, p)
	case Weights2D:
		return SelectWeights2D(s, v, pointer2D, p)
	default:
		return SelectNone(s), nil
	}
}

func within3D(s *points.Store, center mgl64.Vec3, radius float64) ([]candidate, error) {
	rows := s.Rows()
	world, err := s.WorldCo(rows)
	if err != nil {
		return nil, err
	}
	var out []candidate
	for i, w := range world {
		if d := w.Sub(center).Len(); d <= radius {
			out = append(out, candidate{masked: i, dist: d, world: w})
		}
	}
	return out, nil
}

func within2D(s *points.Store, v *view.View, center mgl64.Vec2, radius float64) ([]candidate, error) {
	rows := s.Rows()
	world, err := s.WorldCo(rows)
	if err != nil {
		return nil, err
	}
	var out []candidate
	for i, w := range world {
		p, ok := v.Project(w)
		if !ok {
			continue
		}
		if d := p.Sub(center).Len(); d <= radius {
			out = append(out, candidate{masked: i, dist: d, world: w})
		}
	}
	return out, nil
}

// SelectWeights3D returns every point within radius of center with its
// falloff weight.
func SelectWeights3D(s *points.Store, center mgl64.Vec3, p Params) (*Result, error) {
	if p.Radius <= 0 {
		return SelectNone(s), nil
	}
	c, err := within3D(s, center, p.Radius)
	if err != nil {
		return nil, err
	}
	return assemble(s, c, p), nil
}

// SelectWeights2D is SelectWeights3D over projected pixel distances.
func SelectWeights2D(s *points.Store, v *view.View, center mgl64.Vec2, p Params) (*Result, error) {
	if p.Radius <= 0 {
		return SelectNone(s), nil
	}
	c, err := within2D(s, v, center, p.Radius)
	if err != nil {
		return nil, err
	}
	return assemble(s, c, p), nil
}

// SelectIndices3D keeps every point inside the falloff disc and samples the
// ring by weight.
func SelectIndices3D(s *points.Store, center mgl64.Vec3, p Params) (*Result, error) {
	if p.Radius <= 0 {
		return SelectNone(s), nil
	}
	c, err := within3D(s, center, p.Radius)
	if err != nil {
		return nil, err
	}
	return assemble(s, sample(c, p), p), nil
}

// SelectIndices2D is SelectIndices3D over projected pixel distances.
func SelectIndices2D(s *points.Store, v *view.View, center mgl64.Vec2, p Params) (*Result, error) {
	if p.Radius <= 0 {
		return SelectNone(s), nil
	}
	c, err := within2D(s, v, center, p.Radius)
	if err != nil {
		return nil, err
	}
	return assemble(s, sample(c, p), p), nil
}

// sample thins the falloff ring. Ring size n gives floor(n·affect) weighted
// draws, at least one when affect is positive. Points just outside the
// falloff disc that were not drawn get a second chance that fades over a
// band a quarter of the ring wide.
func sample(c []candidate, p Params) []candidate {
	inner := p.Falloff * p.Radius
	if p.Radius-inner <= 0 {
		return c
	}
	rng := p.Rng
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}

	var core, ring []candidate
	for _, x := range c {
		if x.dist <= inner {
			core = append(core, x)
		} else {
			ring = append(ring, x)
		}
	}
	if len(ring) == 0 || p.Affect <= 0 {
		return core
	}

	weights := make([]float64, len(ring))
	for i, x := range ring {
		weights[i] = Weight(x.dist, p.Radius, p.Falloff)
	}
	k := int(gomath.Floor(float64(len(ring)) * p.Affect))
	if k < 1 {
		k = 1
	}
	picked := make([]bool, len(ring))
	for _, i := range geom.WeightedSample(weights, k, rng) {
		picked[i] = true
	}

	band := 0.25 * (p.Radius - inner)
	for i, x := range ring {
		if picked[i] || x.dist > inner+band {
			continue
		}
		chance := weights[i] * p.Affect * (1 - (x.dist-inner)/band)
		if rng.Float64() < chance {
			picked[i] = true
		}
	}

	out := core
	for i, x := range ring {
		if picked[i] {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].masked < out[b].masked })
	return out
}

func assemble(s *points.Store, c []candidate, p Params) *Result {
	r := &Result{
		Mask:                bitset.New(uint(s.Len())),
		Masked:              make([]int, len(c)),
		Rows:                make([]int, len(c)),
		Distances:           make([]float64, len(c)),
		DistancesNormalized: make([]float64, len(c)),
		Weights:             make([]float64, len(c)),
		World:               make([]mgl64.Vec3, len(c)),
	}
	for i, x := range c {
		row := s.ToRow(x.masked)
		r.Mask.Set(uint(row))
		r.Masked[i] = x.masked
		r.Rows[i] = row
		r.Distances[i] = x.dist
		r.DistancesNormalized[i] = x.dist / p.Radius
		r.Weights[i] = Weight(x.dist, p.Radius, p.Falloff)
		r.World[i] = x.world
	}
	r.Local = s.Vec(s.T.Co, r.Rows)
	return r
}

// SelectAll selects every active point with unit weight.
func SelectAll(s *points.Store) (*Result, error) {
	rows := s.Rows()
	world, err := s.WorldCo(rows)
	if err != nil {
		return nil, err
	}
	r := &Result{
		Mask:                s.Active(),
		Masked:              make([]int, len(rows)),
		Rows:                rows,
		Distances:           make([]float64, len(rows)),
		DistancesNormalized: make([]float64, len(rows)),
		Weights:             make([]float64, len(rows)),
		Local:               s.Vec(s.T.Co, rows),
		World:               world,
	}
	for i := range rows {
		r.Masked[i] = i
		r.Weights[i] = 1
	}
	return r, nil
}

// SelectNone returns an empty selection.
func SelectNone(s *points.Store) *Result {
	return &Result{Mask: bitset.New(uint(s.Len()))}
}
