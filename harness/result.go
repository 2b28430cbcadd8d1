package harness

import "time"

// Canonical metric names reported by trial runners. Runners may report
// additional metrics; the aggregator treats all names uniformly.
const (
	MetricCPUUtilization = "cpu_utilization"
	MetricMemUtilization = "mem_utilization"
	MetricPowerWatts     = "power_watts"
	MetricSLAViolations  = "sla_violations"
	MetricResponseTimeMs = "response_time_ms"
	MetricThroughputRPS  = "throughput_rps"
)

// RawTrialResult is the output of one replication run. It is discarded after
// aggregation.
type RawTrialResult struct {
	Replication int
	Started     time.Time
	Ended       time.Time

	Metrics map[string]float64   // scalar performance metrics
	Samples map[string][]float64 // named raw sample series per metric
}

// DescriptiveStats summarizes one metric's merged raw samples across all
// replications of a configuration.
type DescriptiveStats struct {
	N      int
	Mean   float64
	StdDev float64 // population formula (divide by N)
	CI95   float64 // 95% confidence half-width, 1.96 * stddev / sqrt(N)
	Median float64
	Min    float64
	Max    float64
	CV     *float64 // coefficient of variation; nil when mean is zero
}

// ResourceUsage summarizes host resource samples collected while a trial ran.
type ResourceUsage struct {
	Samples int
	AvgCPU  float64
	MaxCPU  float64
	AvgMem  float64
	MaxMem  float64
}

// AggregatedResult is the merged output of all replications of one
// TrialConfig: scalar metrics averaged, raw samples concatenated (never
// averaged), descriptive statistics computed over the merged samples.
type AggregatedResult struct {
	Config       TrialConfig
	Replications int
	Started      time.Time // earliest replication start
	Ended        time.Time // latest replication end

	Metrics map[string]float64          // scalar means across replications
	Samples map[string][]float64        // concatenated raw samples
	Stats   map[string]DescriptiveStats // per-metric descriptive statistics
	Usage   ResourceUsage               // host resource usage over the whole trial
}

// TrialOutcome is the terminal state of one TrialConfig within a batch:
// either a successful aggregated result or the error that exhausted retries.
type TrialOutcome struct {
	Config   string
	Success  bool
	Attempts int
	Result   *AggregatedResult // nil on failure
	Err      error             // nil on success
}

// BatchResult is the immutable summary of one batch run.
type BatchResult struct {
	Total      int
	Successful int
	Failed     int
	Outcomes   map[string]TrialOutcome // config name -> terminal outcome
	Started    time.Time
	Ended      time.Time
}

// SuccessRate returns the percentage of successfully completed trials.
func (b *BatchResult) SuccessRate() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Successful) * 100 / float64(b.Total)
}

// Duration returns the wall-clock duration of the batch run.
func (b *BatchResult) Duration() time.Duration {
	return b.Ended.Sub(b.Started)
}
