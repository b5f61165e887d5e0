package engine

import (
	"math"
	"sort"
)

// mean returns the arithmetic mean of xs, or 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// percentile returns the p-th percentile (0-100) of a sorted slice using
// linear interpolation between closest ranks: rank = p/100 * (n-1).
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// median returns the interpolated 50th percentile of xs.
func median(xs []float64) float64 {
	return percentile(sortedCopy(xs), 50)
}

// trimmedMean returns the mean of the values of xs that fall inside the
// inclusive [p10, p90] range. Both percentile bounds are computed over the
// full set before any value is discarded; the trim is a single pass, never
// recomputed over the trimmed subset. With very few distinct values the
// interpolated bounds can exclude everything (two distinct values put both
// outside [p10, p90]); the trim then degrades to the plain mean so the
// result stays inside [min, max].
func trimmedMean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := sortedCopy(xs)
	lo := percentile(sorted, 10)
	hi := percentile(sorted, 90)

	var sum float64
	var count int
	for _, x := range xs {
		if x >= lo && x <= hi {
			sum += x
			count++
		}
	}
	if count == 0 {
		return mean(xs)
	}
	return sum / float64(count)
}

func sortedCopy(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	sort.Float64s(out)
	return out
}
