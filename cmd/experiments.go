package cmd

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cloudsim-bench/cloudsim-bench/harness"
)

// Define struct for YAML
type ExperimentsFile struct {
	ResultsDir  string           `yaml:"results_dir"`
	Defaults    ExperimentSpec   `yaml:"defaults"`
	Experiments []ExperimentSpec `yaml:"experiments"`
}

type ExperimentSpec struct {
	Name               string `yaml:"name"`
	Replications       int    `yaml:"replications"`
	Seed               int64  `yaml:"seed"`
	TimeoutSeconds     int    `yaml:"timeout_seconds"`
	SamplingIntervalMs int    `yaml:"sampling_interval_ms"`
}

// LoadExperiments reads the experiments YAML file and resolves each entry
// against the file's defaults block, returning the trial configs and the
// results directory named in the file.
func LoadExperiments(path string) ([]harness.TrialConfig, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}

	var file ExperimentsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(file.Experiments) == 0 {
		return nil, "", fmt.Errorf("%s: no experiments defined", path)
	}

	configs := make([]harness.TrialConfig, 0, len(file.Experiments))
	for _, spec := range file.Experiments {
		resolved := spec.withDefaults(file.Defaults)
		configs = append(configs, harness.TrialConfig{
			Name:             resolved.Name,
			Replications:     resolved.Replications,
			Seed:             resolved.Seed,
			Timeout:          time.Duration(resolved.TimeoutSeconds) * time.Second,
			SamplingInterval: time.Duration(resolved.SamplingIntervalMs) * time.Millisecond,
		})
	}
	return configs, file.ResultsDir, nil
}

// withDefaults fills zero-valued fields from the file's defaults block.
// Name is never defaulted; every experiment names itself.
func (s ExperimentSpec) withDefaults(d ExperimentSpec) ExperimentSpec {
	if s.Replications == 0 {
		s.Replications = d.Replications
	}
	if s.Seed == 0 {
		s.Seed = d.Seed
	}
	if s.TimeoutSeconds == 0 {
		s.TimeoutSeconds = d.TimeoutSeconds
	}
	if s.SamplingIntervalMs == 0 {
		s.SamplingIntervalMs = d.SamplingIntervalMs
	}
	return s
}
