package analysis

import "sort"

// Quantile returns the p-quantile (0 <= p <= 1) of values using linear
// interpolation between ranks: the rank position is h = (n-1)*p and the
// result interpolates between the surrounding order statistics.
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	h := float64(len(sorted)-1) * p
	lo := int(h)
	frac := h - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
