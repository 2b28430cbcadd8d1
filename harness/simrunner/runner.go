// Package simrunner provides a built-in synthetic datacenter workload runner.
//
// It stands in for a full cloud simulation engine: each replication walks a
// fixed number of scheduling intervals, drawing host utilization, power and
// cloudlet response times from the replication's derived seed. Identical
// seeds produce bit-for-bit identical results, which is what the harness's
// reproducibility contract requires of any Runner.
package simrunner

import (
	"context"
	"math/rand"
	"time"

	"github.com/cloudsim-bench/cloudsim-bench/harness"
)

// Config shapes the synthetic workload.
type Config struct {
	Hosts             int           // simulated hosts (default 10)
	CloudletsPerStep  int           // requests dispatched per interval (default 50)
	Steps             int           // scheduling intervals per replication (default 100)
	StepDelay         time.Duration // wall-clock pacing per interval (0 = none)
	SLAResponseTarget float64       // response-time SLA threshold in ms (default 200)
	IdlePowerWatts    float64       // per-host idle draw (default 100)
	PeakPowerWatts    float64       // per-host peak draw (default 250)
}

func (c Config) withDefaults() Config {
	if c.Hosts < 1 {
		c.Hosts = 10
	}
	if c.CloudletsPerStep < 1 {
		c.CloudletsPerStep = 50
	}
	if c.Steps < 1 {
		c.Steps = 100
	}
	if c.SLAResponseTarget == 0 {
		c.SLAResponseTarget = 200
	}
	if c.IdlePowerWatts == 0 {
		c.IdlePowerWatts = 100
	}
	if c.PeakPowerWatts == 0 {
		c.PeakPowerWatts = 250
	}
	return c
}

// Runner implements harness.Runner with a deterministic synthetic workload.
type Runner struct {
	cfg Config
}

// New creates a runner; zero-value fields of cfg fall back to defaults.
func New(cfg Config) *Runner {
	return &Runner{cfg: cfg.withDefaults()}
}

// Run simulates one replication. Cancellation is checked between scheduling
// intervals, so an expired deadline stops the walk at the next interval
// boundary.
func (r *Runner) Run(ctx context.Context, cfg harness.ReplicationConfig) (*harness.RawTrialResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	started := time.Now()

	var (
		cpuSamples   = make([]float64, 0, r.cfg.Steps)
		memSamples   = make([]float64, 0, r.cfg.Steps)
		powerSamples = make([]float64, 0, r.cfg.Steps)
		respSamples  = make([]float64, 0, r.cfg.Steps*r.cfg.CloudletsPerStep)
		violations   float64
	)

	for step := 0; step < r.cfg.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Utilization follows a slow sinusoid-free random walk clamped to
		// [5, 100]; power scales linearly between idle and peak draw.
		cpu := clamp(55+rng.NormFloat64()*20, 5, 100)
		mem := clamp(45+rng.NormFloat64()*15, 5, 100)
		power := r.cfg.IdlePowerWatts + cpu/100*(r.cfg.PeakPowerWatts-r.cfg.IdlePowerWatts)
		cpuSamples = append(cpuSamples, cpu)
		memSamples = append(memSamples, mem)
		powerSamples = append(powerSamples, power*float64(r.cfg.Hosts))

		for i := 0; i < r.cfg.CloudletsPerStep; i++ {
			// Response time degrades superlinearly with utilization.
			resp := 20 + cpu*cpu/80 + rng.ExpFloat64()*30
			respSamples = append(respSamples, resp)
			if resp > r.cfg.SLAResponseTarget {
				violations++
			}
		}

		if r.cfg.StepDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.cfg.StepDelay):
			}
		}
	}

	ended := time.Now()
	elapsed := ended.Sub(started).Seconds()
	throughput := float64(len(respSamples))
	if elapsed > 0 {
		throughput = float64(len(respSamples)) / elapsed
	}

	return &harness.RawTrialResult{
		Replication: cfg.Replication,
		Started:     started,
		Ended:       ended,
		Metrics: map[string]float64{
			harness.MetricCPUUtilization: mean(cpuSamples),
			harness.MetricMemUtilization: mean(memSamples),
			harness.MetricPowerWatts:     mean(powerSamples),
			harness.MetricSLAViolations:  violations,
			harness.MetricResponseTimeMs: mean(respSamples),
			harness.MetricThroughputRPS:  throughput,
		},
		Samples: map[string][]float64{
			harness.MetricCPUUtilization: cpuSamples,
			harness.MetricMemUtilization: memSamples,
			harness.MetricPowerWatts:     powerSamples,
			harness.MetricResponseTimeMs: respSamples,
		},
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
