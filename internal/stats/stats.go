// Package stats reduces raw benchmark timings to an outlier-trimmed mean and
// standard deviation.
//
// The trimming bounds come from the sorted sample at indices floor(n/4) and
// ceil(3n/4), widened by 1.5 times their distance. These are not rank-based
// quartiles; results depend on this exact formula and it must not be replaced
// by a textbook IQR.
package stats

import (
	"errors"
	"math"
	"sort"
)

// ErrNoSamples is returned when there is nothing to reduce.
var ErrNoSamples = errors.New("no samples to reduce")

// Stats is the reduced form of a set of samples. Mean and Std are whole
// microseconds; Outliers is the whole percentage of samples that were trimmed.
type Stats struct {
	Mean     int64 `json:"mean_us"`
	Std      int64 `json:"std_us"`
	Outliers int64 `json:"outliers_pct"`
}

// Reduce trims outliers from samples, given in fractional milliseconds, and
// returns the mean, population standard deviation and outlier percentage of
// what is left. The input slice is not modified.
func Reduce(samples []float64) (Stats, error) {
	n := len(samples)
	if n == 0 {
		return Stats{}, ErrNoSamples
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	fq := float64(n) / 4
	top := int(math.Ceil(fq * 3))
	bot := int(math.Floor(fq))
	// ceil(3n/4) is out of range for n < 4.
	if top > n-1 {
		top = n - 1
	}

	margin := (sorted[top] - sorted[bot]) * 1.5
	upper := sorted[top] + margin
	lower := sorted[bot] - margin

	kept := make([]float64, 0, n)
	for _, v := range sorted {
		if v <= upper && v >= lower {
			kept = append(kept, v)
		}
	}
	k := float64(len(kept))

	var mean float64
	for _, v := range kept {
		mean += v
	}
	mean /= k

	var variance float64
	for _, v := range kept {
		variance += (v - mean) * (v - mean)
	}

	return Stats{
		Mean:     int64(jsRound(mean * 1000)),
		Std:      int64(jsRound(math.Sqrt(variance/k) * 1000)),
		Outliers: int64(jsRound(100 - (k * 100 / float64(n)))),
	}, nil
}

// jsRound rounds half-way cases towards positive infinity, like Math.round.
func jsRound(x float64) float64 {
	r := math.Round(x)
	if r-x == -0.5 {
		r++
	}
	return r
}
