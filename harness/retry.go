package harness

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryController runs all replications of one TrialConfig and aggregates
// them, retrying up to MaxAttempts times with a fixed delay between attempts.
//
// Replications that already succeeded are memoized across attempts: a later
// attempt only re-runs the indices that failed, so one flaky replication at
// the end of an otherwise successful set does not discard the finished work.
// Each re-run replication keeps its derived seed, so retried indices replay
// the same simulation inputs.
type RetryController struct {
	Runner      Runner
	MaxAttempts int
	Delay       time.Duration
}

// Run executes the replication set to a terminal outcome. It returns the
// aggregated result and the number of attempts used, or a
// *RetryExhaustedError wrapping the last failure once the budget is spent.
// A config is retried serially by its own controller and never re-entered,
// so at most one execution is in flight per trial at any time.
func (r *RetryController) Run(ctx context.Context, cfg TrialConfig) (*AggregatedResult, int, error) {
	succeeded := make([]*RawTrialResult, cfg.Replications)
	attempts := 0
	var lastErr error

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		attempts = attempt
		lastErr = nil

		for rep := 0; rep < cfg.Replications; rep++ {
			if succeeded[rep] != nil {
				continue
			}
			res, err := RunWithDeadline(ctx, r.Runner, cfg.ForReplication(rep))
			if err != nil {
				lastErr = err
				logrus.Warnf("config %q attempt %d/%d: replication %d failed: %v",
					cfg.Name, attempt, r.MaxAttempts, rep, err)
				if ctx.Err() != nil {
					return nil, attempts, &RetryExhaustedError{Attempts: attempts, Err: err}
				}
				continue
			}
			succeeded[rep] = res
		}

		if lastErr == nil {
			agg, err := Aggregate(cfg, succeeded)
			if err != nil {
				lastErr = err
			} else {
				return agg, attempts, nil
			}
		}

		if attempt < r.MaxAttempts {
			logrus.Infof("config %q: retrying failed replications in %s (attempt %d/%d done)",
				cfg.Name, r.Delay, attempt, r.MaxAttempts)
			select {
			case <-ctx.Done():
				return nil, attempts, &RetryExhaustedError{Attempts: attempts, Err: ctx.Err()}
			case <-time.After(r.Delay):
			}
		}
	}

	return nil, attempts, &RetryExhaustedError{Attempts: attempts, Err: lastErr}
}
