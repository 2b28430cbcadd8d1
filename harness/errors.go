package harness

import (
	"fmt"
	"time"
)

// ValidationError reports a malformed TrialConfig. It is detected before any
// work starts and aborts the whole batch submission.
type ValidationError struct {
	Config string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %q: field %s: %s", e.Config, e.Field, e.Reason)
}

// TimeoutError reports a replication that exceeded its deadline. Cancellation
// of the in-flight task is cooperative; the task may still be winding down
// when this error is returned.
type TimeoutError struct {
	Replication int
	Timeout     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("replication %d exceeded deadline of %s", e.Replication, e.Timeout)
}

// SimulationError wraps an error raised inside the trial runner before the
// deadline elapsed.
type SimulationError struct {
	Replication int
	Err         error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("replication %d failed: %v", e.Replication, e.Err)
}

func (e *SimulationError) Unwrap() error { return e.Err }

// AggregationError reports an aggregation attempt over zero successful
// replications. The retry controller treats it as a whole-attempt failure.
type AggregationError struct {
	Config string
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("config %q: no successful replications to aggregate", e.Config)
}

// BatchError wraps a batch-level infrastructure failure (for example, the
// results directory could not be created) that aborted the run before any
// trial work started.
type BatchError struct {
	Op  string
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %s: %v", e.Op, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// RetryExhaustedError wraps the last per-attempt error after the attempt
// budget is spent. It is recorded as the trial's terminal failure.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }
