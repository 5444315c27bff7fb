// Package stats computes descriptive statistics over flow traces. The
// definitions intentionally mirror numpy's defaults, which produced the
// historical experiment reports: population standard deviation and
// linearly interpolated percentiles.
package stats

import (
	"MPTCPSpectra/internal/model"
	"math"
	"sort"
)

// Compute summarizes a single flow trace. The trace must contain at least
// one rate sample; the aggregator never hands over an empty trace.
func Compute(trace model.FlowTrace) model.FlowStatistics {
	rates := trace.Rates

	sum := 0.0
	min, max := rates[0], rates[0]
	for _, r := range rates {
		sum += r
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	mean := sum / float64(len(rates))

	variance := 0.0
	for _, r := range rates {
		d := r - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(rates)))

	cv := 0.0
	if mean > 0 {
		cv = std / mean * 100
	}

	sorted := append([]float64(nil), rates...)
	sort.Float64s(sorted)

	return model.FlowStatistics{
		FlowKey:              trace.Key,
		AvgThroughput:        mean,
		MinThroughput:        min,
		MaxThroughput:        max,
		MedianThroughput:     percentile(sorted, 50),
		StdThroughput:        std,
		FinalThroughput:      rates[len(rates)-1],
		CoefficientVariation: cv,
		Percentile95:         percentile(sorted, 95),
		Percentile5:          percentile(sorted, 5),
		Samples:              len(rates),
		Duration:             len(rates),
	}
}

// percentile returns the p-th percentile of an already sorted sample,
// interpolating linearly between the two nearest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// TotalAverage is the combined average throughput of an experiment, the
// sum of the per-flow means.
func TotalAverage(flowStats []model.FlowStatistics) float64 {
	total := 0.0
	for _, fs := range flowStats {
		total += fs.AvgThroughput
	}
	return total
}

// TotalPeak is the highest throughput any flow reached.
func TotalPeak(flowStats []model.FlowStatistics) float64 {
	peak := 0.0
	for _, fs := range flowStats {
		if fs.MaxThroughput > peak {
			peak = fs.MaxThroughput
		}
	}
	return peak
}
