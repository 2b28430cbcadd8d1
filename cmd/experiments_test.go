package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExperimentsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiments.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadExperiments_ResolvesDefaults(t *testing.T) {
	path := writeExperimentsFile(t, `
results_dir: out/results
defaults:
  replications: 5
  seed: 42
  timeout_seconds: 120
  sampling_interval_ms: 500
experiments:
  - name: pso-baseline
  - name: aco-tuned
    replications: 10
    seed: 7
    timeout_seconds: 30
`)

	configs, resultsDir, err := LoadExperiments(path)
	require.NoError(t, err)
	assert.Equal(t, "out/results", resultsDir)
	require.Len(t, configs, 2)

	base := configs[0]
	assert.Equal(t, "pso-baseline", base.Name)
	assert.Equal(t, 5, base.Replications)
	assert.Equal(t, int64(42), base.Seed)
	assert.Equal(t, 2*time.Minute, base.Timeout)
	assert.Equal(t, 500*time.Millisecond, base.SamplingInterval)

	tuned := configs[1]
	assert.Equal(t, 10, tuned.Replications)
	assert.Equal(t, int64(7), tuned.Seed)
	assert.Equal(t, 30*time.Second, tuned.Timeout)
	// sampling interval still comes from defaults
	assert.Equal(t, 500*time.Millisecond, tuned.SamplingInterval)
}

func TestLoadExperiments_MissingFile(t *testing.T) {
	_, _, err := LoadExperiments(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadExperiments_NoExperiments(t *testing.T) {
	path := writeExperimentsFile(t, "results_dir: out\n")
	_, _, err := LoadExperiments(path)
	assert.ErrorContains(t, err, "no experiments defined")
}

func TestLoadExperiments_MalformedYAML(t *testing.T) {
	path := writeExperimentsFile(t, "experiments: [unclosed")
	_, _, err := LoadExperiments(path)
	assert.Error(t, err)
}
