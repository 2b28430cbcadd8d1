package harness

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Mode selects how the scheduler dispatches trial configs.
type Mode string

const (
	// ModeParallel dispatches each config to a bounded worker pool.
	ModeParallel Mode = "parallel"
	// ModeSequential runs configs one at a time in submission order.
	ModeSequential Mode = "sequential"
)

// SchedulerConfig groups batch-level knobs. Zero values fall back to the
// defaults listed per field.
type SchedulerConfig struct {
	Mode             Mode          // default ModeParallel
	Workers          int           // parallel pool size, default runtime.NumCPU()
	MaxAttempts      int           // retry budget per config, default 3
	RetryDelay       time.Duration // fixed delay between attempts, default 5s
	TrialPause       time.Duration // sequential inter-trial pause, default 1s
	ProgressInterval time.Duration // progress log period, default 10s
	SamplerStopWait  time.Duration // bounded wait for sampler teardown, default 2s
	StopOnFailure    bool          // sequential mode only: halt after first failure
	ResultsDir       string        // failure report destination ("" = no report)
}

func (c SchedulerConfig) withDefaults() SchedulerConfig {
	if c.Mode == "" {
		c.Mode = ModeParallel
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 3
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = 5 * time.Second
	}
	if c.TrialPause == 0 {
		c.TrialPause = time.Second
	}
	if c.ProgressInterval == 0 {
		c.ProgressInterval = 10 * time.Second
	}
	if c.SamplerStopWait == 0 {
		c.SamplerStopWait = 2 * time.Second
	}
	return c
}

// BatchScheduler runs a set of TrialConfigs to completion and produces a
// BatchResult. Per-trial failures are recorded as Failure outcomes, never
// propagated; the batch always completes unless validation or batch
// infrastructure fails before any work starts.
type BatchScheduler struct {
	runner Runner
	probe  ResourceProbe // nil disables resource sampling
	cfg    SchedulerConfig
}

// NewBatchScheduler creates a scheduler over the given trial runner. probe
// may be nil to disable per-trial resource sampling.
func NewBatchScheduler(runner Runner, probe ResourceProbe, cfg SchedulerConfig) *BatchScheduler {
	return &BatchScheduler{runner: runner, probe: probe, cfg: cfg.withDefaults()}
}

// Run executes the batch. Validation errors and results-directory creation
// errors abort the submission; every other failure lands in the outcome map.
func (s *BatchScheduler) Run(ctx context.Context, configs []TrialConfig) (*BatchResult, error) {
	if err := validateBatch(configs); err != nil {
		return nil, err
	}
	if s.cfg.ResultsDir != "" {
		if err := os.MkdirAll(s.cfg.ResultsDir, 0o755); err != nil {
			return nil, &BatchError{Op: "creating results dir", Err: err}
		}
	}

	tracker := NewProgressTracker(len(configs))
	stopProgress := make(chan struct{})
	var progressDone sync.WaitGroup
	progressDone.Add(1)
	go func() {
		defer progressDone.Done()
		ticker := time.NewTicker(s.cfg.ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopProgress:
				return
			case <-ticker.C:
				logProgress(tracker.Snapshot())
			}
		}
	}()

	started := time.Now()
	logrus.Infof("starting batch of %d configs (mode=%s, workers=%d)",
		len(configs), s.cfg.Mode, s.cfg.Workers)

	outcomes := make(map[string]TrialOutcome, len(configs))
	var mu sync.Mutex
	record := func(out TrialOutcome) {
		// Each trial owns a disjoint key, so one mutex around the map is all
		// the coordination concurrent completions need.
		mu.Lock()
		outcomes[out.Config] = out
		mu.Unlock()
		if out.Success {
			tracker.RecordSuccess()
			logrus.Infof("config %q succeeded after %d attempt(s)", out.Config, out.Attempts)
		} else {
			tracker.RecordFailure()
			logrus.Errorf("config %q failed after %d attempt(s): %v", out.Config, out.Attempts, out.Err)
		}
	}

	if s.cfg.Mode == ModeSequential {
		s.runSequential(ctx, configs, record)
	} else {
		s.runParallel(ctx, configs, record)
	}

	close(stopProgress)
	progressDone.Wait()
	logProgress(tracker.Snapshot())

	result := &BatchResult{
		Total:    len(configs),
		Outcomes: outcomes,
		Started:  started,
		Ended:    time.Now(),
	}
	for _, out := range outcomes {
		if out.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}
	logrus.Infof("batch finished: %d/%d succeeded (%.1f%%) in %s",
		result.Successful, result.Total, result.SuccessRate(), result.Duration().Round(time.Millisecond))

	if result.Failed > 0 && s.cfg.ResultsDir != "" {
		if path, err := WriteFailureReport(s.cfg.ResultsDir, result); err != nil {
			logrus.Warnf("writing failure report: %v", err)
		} else {
			logrus.Infof("failure report written to %s", path)
		}
	}
	return result, nil
}

// runParallel submits every config to a bounded worker pool before joining.
// Already-dispatched units cannot be stopped early; a failing unit is
// converted into a Failure outcome rather than aborting the pool.
func (s *BatchScheduler) runParallel(ctx context.Context, configs []TrialConfig, record func(TrialOutcome)) {
	sem := make(chan struct{}, s.cfg.Workers)
	var wg sync.WaitGroup
	for _, cfg := range configs {
		wg.Add(1)
		sem <- struct{}{}
		go func(cfg TrialConfig) {
			defer wg.Done()
			defer func() { <-sem }()
			record(s.runTrial(ctx, cfg))
		}(cfg)
	}
	wg.Wait()
}

// runSequential runs configs in submission order with a fixed inter-trial
// pause. With StopOnFailure set, the loop halts once any failure has been
// recorded, leaving the remaining configs unrun.
func (s *BatchScheduler) runSequential(ctx context.Context, configs []TrialConfig, record func(TrialOutcome)) {
	for i, cfg := range configs {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.cfg.TrialPause):
			}
		}
		out := s.runTrial(ctx, cfg)
		record(out)
		if s.cfg.StopOnFailure && !out.Success {
			logrus.Warnf("stop-on-failure: halting batch, %d config(s) left unrun", len(configs)-i-1)
			return
		}
	}
}

// runTrial drives one config to its terminal outcome: start the per-trial
// sampler, run the retry controller, tear the sampler down on every exit
// path, attach usage on success.
func (s *BatchScheduler) runTrial(ctx context.Context, cfg TrialConfig) TrialOutcome {
	var session *SamplingSession
	if s.probe != nil && cfg.SamplingInterval > 0 {
		session = NewResourceSampler(s.probe, cfg.SamplingInterval).Start()
		defer session.Stop(s.cfg.SamplerStopWait)
	}

	rc := &RetryController{Runner: s.runner, MaxAttempts: s.cfg.MaxAttempts, Delay: s.cfg.RetryDelay}
	agg, attempts, err := rc.Run(ctx, cfg)
	if err != nil {
		return TrialOutcome{Config: cfg.Name, Attempts: attempts, Err: err}
	}
	if session != nil {
		agg.Usage = session.Stop(s.cfg.SamplerStopWait)
	}
	return TrialOutcome{Config: cfg.Name, Success: true, Attempts: attempts, Result: agg}
}

// validateBatch fails fast on the first malformed or duplicate config.
func validateBatch(configs []TrialConfig) error {
	seen := make(map[string]struct{}, len(configs))
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if _, dup := seen[cfg.Name]; dup {
			return &ValidationError{Config: cfg.Name, Field: "Name", Reason: "duplicate config name in batch"}
		}
		seen[cfg.Name] = struct{}{}
	}
	return nil
}

func logProgress(s ProgressSnapshot) {
	logrus.Infof("progress: %.1f%% (%d ok, %d failed of %d) elapsed=%s eta=%s",
		s.Percent, s.Completed, s.Failed, s.Total,
		s.Elapsed.Round(time.Second), s.ETA.Round(time.Second))
}
