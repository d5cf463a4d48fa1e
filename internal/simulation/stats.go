package simulation

import (
	"math"
	"slices"
)

// Stats summarizes an integer sample
type Stats struct {
	Mean   float64 `json:"mean"`
	Var    float64 `json:"variance"`
	StdDev float64 `json:"stddev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

// calcStats computes population mean and variance plus interpolated percentiles
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}

	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	return Stats{
		Mean:   mean,
		Var:    variance,
		StdDev: math.Sqrt(variance),
		Min:    sorted[0],
		Max:    sorted[n-1],
		P50:    percentile(sorted, 0.50),
		P90:    percentile(sorted, 0.90),
		P99:    percentile(sorted, 0.99),
	}
}

// percentile interpolates linearly between the closest ranks of a sorted sample
func percentile(sorted []int, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case n == 1 || p <= 0:
		return float64(sorted[0])
	case p >= 1:
		return float64(sorted[n-1])
	}

	pos := p * float64(n-1)
	i := int(math.Floor(pos))
	f := pos - float64(i)
	if i+1 >= n {
		return float64(sorted[i])
	}
	return float64(sorted[i])*(1-f) + float64(sorted[i+1])*f
}
