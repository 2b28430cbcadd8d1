package harness

import (
	"sync/atomic"
	"time"
)

// ProgressTracker counts completed and failed trials with lock-free atomic
// counters. Readers may observe a slightly stale snapshot but counts never
// decrease and completed+failed never exceeds the total, since each trial
// records exactly one outcome.
type ProgressTracker struct {
	total      int64
	start      time.Time
	completed  atomic.Int64
	failed     atomic.Int64
	lastUpdate atomic.Int64 // unix nanos of the most recent record call
}

// ProgressSnapshot is a point-in-time view of batch progress.
type ProgressSnapshot struct {
	Total      int64
	Completed  int64
	Failed     int64
	Percent    float64
	Elapsed    time.Duration
	ETA        time.Duration // zero until at least one trial has finished
	LastUpdate time.Time
}

// NewProgressTracker creates a tracker for a batch of total trials, with
// elapsed time measured from now.
func NewProgressTracker(total int) *ProgressTracker {
	t := &ProgressTracker{total: int64(total), start: time.Now()}
	t.lastUpdate.Store(t.start.UnixNano())
	return t
}

// RecordSuccess counts one successfully completed trial.
func (t *ProgressTracker) RecordSuccess() {
	t.completed.Add(1)
	t.lastUpdate.Store(time.Now().UnixNano())
}

// RecordFailure counts one terminally failed trial.
func (t *ProgressTracker) RecordFailure() {
	t.failed.Add(1)
	t.lastUpdate.Store(time.Now().UnixNano())
}

// Snapshot returns current progress. ETA extrapolates the observed per-trial
// rate over the remaining trials and is zero while nothing has finished.
func (t *ProgressTracker) Snapshot() ProgressSnapshot {
	completed := t.completed.Load()
	failed := t.failed.Load()
	processed := completed + failed
	elapsed := time.Since(t.start)

	s := ProgressSnapshot{
		Total:      t.total,
		Completed:  completed,
		Failed:     failed,
		Elapsed:    elapsed,
		LastUpdate: time.Unix(0, t.lastUpdate.Load()),
	}
	if t.total > 0 {
		s.Percent = float64(processed) * 100 / float64(t.total)
	}
	if processed > 0 {
		remaining := t.total - processed
		s.ETA = time.Duration(int64(elapsed) / processed * remaining)
	}
	return s
}
