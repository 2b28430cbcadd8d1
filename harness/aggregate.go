package harness

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Aggregate merges the per-replication results of one TrialConfig into a
// single statistically described result.
//
// Start and end are chronological min/max over the inputs, independent of
// submission order. Scalar metrics are averaged arithmetically across
// replications; raw sample series are concatenated, never averaged, so later
// analysis keeps the full statistical power. Descriptive statistics are then
// computed over each merged series.
//
// Returns a *AggregationError when results is empty: zero successful
// replications is a whole-attempt failure, never a partial success.
func Aggregate(cfg TrialConfig, results []*RawTrialResult) (*AggregatedResult, error) {
	if len(results) == 0 {
		return nil, &AggregationError{Config: cfg.Name}
	}

	agg := &AggregatedResult{
		Config:       cfg,
		Replications: len(results),
		Started:      results[0].Started,
		Ended:        results[0].Ended,
		Metrics:      make(map[string]float64),
		Samples:      make(map[string][]float64),
		Stats:        make(map[string]DescriptiveStats),
	}

	counts := make(map[string]int)
	for _, r := range results {
		if r.Started.Before(agg.Started) {
			agg.Started = r.Started
		}
		if r.Ended.After(agg.Ended) {
			agg.Ended = r.Ended
		}
		for name, v := range r.Metrics {
			agg.Metrics[name] += v
			counts[name]++
		}
		for name, series := range r.Samples {
			agg.Samples[name] = append(agg.Samples[name], series...)
		}
	}
	for name, n := range counts {
		agg.Metrics[name] /= float64(n)
	}
	for name, merged := range agg.Samples {
		agg.Stats[name] = Describe(merged)
	}
	return agg, nil
}

// Describe computes descriptive statistics over one merged sample series.
// The standard deviation uses the population formula (divide by N) and the
// 95% confidence half-width is 1.96 * stddev / sqrt(N). The coefficient of
// variation is nil when the mean is zero.
func Describe(samples []float64) DescriptiveStats {
	n := len(samples)
	if n == 0 {
		return DescriptiveStats{}
	}

	d := DescriptiveStats{
		N:      n,
		Mean:   stat.Mean(samples, nil),
		StdDev: stat.PopStdDev(samples, nil),
		Min:    floats.Min(samples),
		Max:    floats.Max(samples),
	}
	d.CI95 = 1.96 * d.StdDev / math.Sqrt(float64(n))
	d.Median = median(samples)
	if d.Mean != 0 {
		cv := d.StdDev / d.Mean
		d.CV = &cv
	}
	return d
}

// median returns the sorted-array midpoint, averaging the two central
// elements for even N. gonum's empirical quantile takes the lower of the two,
// so the midpoint rule is computed directly.
func median(samples []float64) float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
