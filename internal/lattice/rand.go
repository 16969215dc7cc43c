package lattice

import "math"

// Source supplies the randomness used by the engine. It is satisfied by
// *rand.Rand from math/rand/v2 and by fixed-value stubs in tests; the
// engine never touches process-global random state.
type Source interface {
	Float64() float64
}

func uniform(src Source, low, high float64) float64 {
	return low + (high-low)*src.Float64()
}

func intN(src Source, n int) int {
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// sampleDirichlet draws a flat Dirichlet(1,...,1) sample: n unit-rate
// exponentials normalized to sum 1. Strictly positive weights.
func sampleDirichlet(src Source, n int) []float64 {
	weights := make([]float64, n)
	total := 0.0
	for i := range weights {
		u := src.Float64()
		if u < 1e-12 {
			u = 1e-12
		}
		weights[i] = -math.Log(u)
		total += weights[i]
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}
