package core

import (
	"math"
	"slices"

	"github.com/huangsam/heatwatch/schema"
)

// Describe computes the full descriptive statistics of every metric over the given readings.
// Readings marked unavailable are skipped.
func Describe(readings []schema.Reading) schema.Description {
	desc := make(schema.Description, len(schema.AllMetrics))
	for _, m := range schema.AllMetrics {
		values := make([]float64, 0, len(readings))
		for _, r := range readings {
			if r.Unavailable {
				continue
			}
			values = append(values, r.Value(m))
		}
		desc[m] = summarize(values)
	}
	return desc
}

// summarize returns the statistics of a sample. An empty sample yields a zero Summary,
// the standard deviation of fewer than two values is zero, and a statistic that overflows reads as zero.
func summarize(values []float64) schema.Summary {
	n := len(values)
	if n == 0 {
		return schema.Summary{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	// Running mean so large finite samples never overflow a plain sum.
	var mean, sq float64
	for i, v := range sorted {
		d := v - mean
		mean += d / float64(i+1)
		sq += d * (v - mean)
	}

	var std float64
	if n > 1 {
		std = math.Sqrt(sq / float64(n-1))
	}

	return schema.Summary{
		Count: float64(n),
		Mean:  finiteOrZero(mean),
		Std:   finiteOrZero(std),
		Min:   sorted[0],
		Q25:   finiteOrZero(quantile(sorted, 0.25)),
		Q50:   finiteOrZero(quantile(sorted, 0.50)),
		Q75:   finiteOrZero(quantile(sorted, 0.75)),
		Max:   sorted[n-1],
	}
}

// quantile returns the q-th quantile of sorted values using linear interpolation.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
