package geom

import (
	gomath "math"
	"math/rand/v2"
	"sort"
)

// WeightedSample draws k distinct indices with probability proportional to
// weights (Efraimidis-Spirakis). Non-positive weights are never drawn.
func WeightedSample(weights []float64, k int, rng *rand.Rand) []int {
	type keyed struct {
		key float64
		i   int
	}
	var keys []keyed
	for i, w := range weights {
		if w <= 0 || gomath.IsNaN(w) {
			continue
		}
		u := rng.Float64()
		for u == 0 {
			u = rng.Float64()
		}
		keys = append(keys, keyed{key: gomath.Log(u) / w, i: i})
	}
	if k > len(keys) {
		k = len(keys)
	}
	if k <= 0 {
		return nil
	}
	sort.Slice(keys, func(a, b int) bool { return keys[a].key > keys[b].key })
	out := make([]int, k)
	for j := range out {
		out[j] = keys[j].i
	}
	sort.Ints(out)
	return out
}

// WeightedChoice picks one index proportional to weights, or -1 when no
// weight is positive.
func WeightedChoice(weights []float64, rng *rand.Rand) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	r := rng.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		r -= w
		if r < 0 {
			return i
		}
	}
	return last
}
