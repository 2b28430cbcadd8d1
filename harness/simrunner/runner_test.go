package simrunner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudsim-bench/cloudsim-bench/harness"
)

func testCfg(seed int64) harness.ReplicationConfig {
	return harness.TrialConfig{
		Name:         "synthetic",
		Replications: 1,
		Seed:         seed,
		Timeout:      time.Minute,
	}.ForReplication(0)
}

func TestRun_SameSeed_IdenticalResults(t *testing.T) {
	runner := New(Config{Steps: 20, CloudletsPerStep: 5})

	first, err := runner.Run(context.Background(), testCfg(42))
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), testCfg(42))
	require.NoError(t, err)

	assert.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, first.Samples, second.Samples)
}

func TestRun_DifferentSeeds_DifferentResults(t *testing.T) {
	runner := New(Config{Steps: 20, CloudletsPerStep: 5})

	first, err := runner.Run(context.Background(), testCfg(1))
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), testCfg(2))
	require.NoError(t, err)

	assert.NotEqual(t, first.Metrics[harness.MetricResponseTimeMs],
		second.Metrics[harness.MetricResponseTimeMs])
}

func TestRun_SampleSeriesLengths(t *testing.T) {
	runner := New(Config{Steps: 30, CloudletsPerStep: 4})

	res, err := runner.Run(context.Background(), testCfg(7))
	require.NoError(t, err)

	assert.Len(t, res.Samples[harness.MetricCPUUtilization], 30)
	assert.Len(t, res.Samples[harness.MetricPowerWatts], 30)
	assert.Len(t, res.Samples[harness.MetricResponseTimeMs], 30*4)
}

func TestRun_MetricsWithinPhysicalBounds(t *testing.T) {
	runner := New(Config{Steps: 50, CloudletsPerStep: 10})

	res, err := runner.Run(context.Background(), testCfg(99))
	require.NoError(t, err)

	cpu := res.Metrics[harness.MetricCPUUtilization]
	assert.GreaterOrEqual(t, cpu, 5.0)
	assert.LessOrEqual(t, cpu, 100.0)
	assert.Greater(t, res.Metrics[harness.MetricPowerWatts], 0.0)
	assert.GreaterOrEqual(t, res.Metrics[harness.MetricSLAViolations], 0.0)
	assert.False(t, res.Started.After(res.Ended))
}

func TestRun_CancelledContext_StopsBetweenIntervals(t *testing.T) {
	runner := New(Config{Steps: 1000, StepDelay: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, testCfg(1))
	assert.ErrorIs(t, err, context.Canceled)
}
