package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cloudsim-bench/cloudsim-bench/harness"
	"github.com/cloudsim-bench/cloudsim-bench/harness/hoststats"
	"github.com/cloudsim-bench/cloudsim-bench/harness/simrunner"
)

var (
	// Batch-level CLI flags
	logLevel      string        // Log verbosity level
	experimentsFP string        // Path to the experiments YAML file
	mode          string        // Scheduling mode: parallel or sequential
	workers       int           // Worker pool size in parallel mode (0 = NumCPU)
	maxAttempts   int           // Retry budget per config
	retryDelay    time.Duration // Fixed delay between retry attempts
	trialPause    time.Duration // Inter-trial pause in sequential mode
	progressEvery time.Duration // Progress log period
	stopOnFailure bool          // Sequential mode: halt after first failure
	resultsDir    string        // Directory for the failure report
	noSampling    bool          // Disable host resource sampling

	// Built-in workload flags
	simHosts     int           // Simulated hosts per replication
	simCloudlets int           // Cloudlets dispatched per scheduling interval
	simSteps     int           // Scheduling intervals per replication
	simStepDelay time.Duration // Wall-clock pacing per interval
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cloudsim-bench",
	Short: "Batch runner for cloud-simulation experiments",
}

// runCmd executes the experiment batch described by the experiments file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the experiment batch",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		configs, fileResultsDir, err := LoadExperiments(experimentsFP)
		if err != nil {
			logrus.Fatalf("Loading experiments file: %v", err)
		}
		if resultsDir == "" {
			resultsDir = fileResultsDir
		}

		runner := simrunner.New(simrunner.Config{
			Hosts:            simHosts,
			CloudletsPerStep: simCloudlets,
			Steps:            simSteps,
			StepDelay:        simStepDelay,
		})
		var probe harness.ResourceProbe
		if !noSampling {
			probe = hoststats.New()
		}

		scheduler := harness.NewBatchScheduler(runner, probe, harness.SchedulerConfig{
			Mode:             harness.Mode(mode),
			Workers:          workers,
			MaxAttempts:      maxAttempts,
			RetryDelay:       retryDelay,
			TrialPause:       trialPause,
			ProgressInterval: progressEvery,
			StopOnFailure:    stopOnFailure,
			ResultsDir:       resultsDir,
		})

		result, err := scheduler.Run(context.Background(), configs)
		if err != nil {
			logrus.Fatalf("Batch aborted: %v", err)
		}
		logSummary(result)
		if result.Failed > 0 {
			os.Exit(1)
		}
	},
}

// validateCmd parses and validates the experiments file without running anything
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the experiments file and exit",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		configs, _, err := LoadExperiments(experimentsFP)
		if err != nil {
			logrus.Fatalf("Loading experiments file: %v", err)
		}
		for _, cfg := range configs {
			if err := cfg.Validate(); err != nil {
				logrus.Fatalf("Validation failed: %v", err)
			}
		}
		logrus.Infof("%d experiment config(s) valid", len(configs))
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func logSummary(result *harness.BatchResult) {
	for name, out := range result.Outcomes {
		if out.Success {
			agg := out.Result
			logrus.Infof("  %s: ok (reps=%d, cpu=%.1f%%, power=%.0fW, sla-violations=%.0f, resp=%.1fms)",
				name, agg.Replications,
				agg.Metrics[harness.MetricCPUUtilization],
				agg.Metrics[harness.MetricPowerWatts],
				agg.Metrics[harness.MetricSLAViolations],
				agg.Metrics[harness.MetricResponseTimeMs])
		} else {
			logrus.Infof("  %s: FAILED after %d attempt(s): %v", name, out.Attempts, out.Err)
		}
	}
	logrus.Infof("success rate: %.1f%% (%d/%d)", result.SuccessRate(), result.Successful, result.Total)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	for _, c := range []*cobra.Command{runCmd, validateCmd} {
		c.Flags().StringVar(&experimentsFP, "experiments", "experiments.yaml", "Path to the experiments YAML file")
		c.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	}

	// Scheduling configs
	runCmd.Flags().StringVar(&mode, "mode", "parallel", "Scheduling mode (parallel, sequential)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size in parallel mode (0 = number of CPUs)")
	runCmd.Flags().IntVar(&maxAttempts, "max-attempts", 3, "Retry budget per experiment config")
	runCmd.Flags().DurationVar(&retryDelay, "retry-delay", 5*time.Second, "Fixed delay between retry attempts")
	runCmd.Flags().DurationVar(&trialPause, "trial-pause", time.Second, "Inter-trial pause in sequential mode")
	runCmd.Flags().DurationVar(&progressEvery, "progress-every", 10*time.Second, "Progress log period")
	runCmd.Flags().BoolVar(&stopOnFailure, "stop-on-failure", false, "Sequential mode: halt after the first failed config")
	runCmd.Flags().StringVar(&resultsDir, "results-dir", "", "Directory for the failure report (overrides the experiments file)")
	runCmd.Flags().BoolVar(&noSampling, "no-sampling", false, "Disable host resource sampling")

	// Built-in synthetic workload configs
	runCmd.Flags().IntVar(&simHosts, "sim-hosts", 10, "Simulated hosts per replication")
	runCmd.Flags().IntVar(&simCloudlets, "sim-cloudlets", 50, "Cloudlets dispatched per scheduling interval")
	runCmd.Flags().IntVar(&simSteps, "sim-steps", 100, "Scheduling intervals per replication")
	runCmd.Flags().DurationVar(&simStepDelay, "sim-step-delay", 0, "Wall-clock pacing per scheduling interval")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
