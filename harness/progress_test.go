package harness

import (
	"sync"
	"testing"
)

func TestProgressTracker_Snapshot_NothingProcessed_ZeroETA(t *testing.T) {
	// GIVEN a tracker for 10 trials with no outcomes recorded
	tracker := NewProgressTracker(10)

	// WHEN Snapshot() is called
	s := tracker.Snapshot()

	// THEN percent and ETA are zero
	if s.Percent != 0 {
		t.Errorf("Percent: got %v, want 0", s.Percent)
	}
	if s.ETA != 0 {
		t.Errorf("ETA: got %v, want 0", s.ETA)
	}
	if s.Total != 10 {
		t.Errorf("Total: got %d, want 10", s.Total)
	}
}

func TestProgressTracker_Record_UpdatesCountsAndPercent(t *testing.T) {
	// GIVEN a tracker for 4 trials
	tracker := NewProgressTracker(4)

	// WHEN 2 successes and 1 failure are recorded
	tracker.RecordSuccess()
	tracker.RecordSuccess()
	tracker.RecordFailure()

	// THEN the snapshot reflects 3 of 4 processed
	s := tracker.Snapshot()
	if s.Completed != 2 || s.Failed != 1 {
		t.Errorf("counts: got completed=%d failed=%d, want 2/1", s.Completed, s.Failed)
	}
	if s.Percent != 75 {
		t.Errorf("Percent: got %v, want 75", s.Percent)
	}
	if s.ETA <= 0 {
		t.Errorf("ETA: got %v, want > 0 with one trial remaining", s.ETA)
	}
}

func TestProgressTracker_ConcurrentRecords_SumExactly(t *testing.T) {
	// GIVEN a tracker for 200 trials
	tracker := NewProgressTracker(200)

	// WHEN 100 successes and 100 failures are recorded from 20 goroutines
	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				tracker.RecordSuccess()
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				tracker.RecordFailure()
			}
		}()
	}
	wg.Wait()

	// THEN no increment is lost and processed never exceeds total
	s := tracker.Snapshot()
	if s.Completed != 100 || s.Failed != 100 {
		t.Errorf("counts: got completed=%d failed=%d, want 100/100", s.Completed, s.Failed)
	}
	if s.Completed+s.Failed > s.Total {
		t.Errorf("processed %d exceeds total %d", s.Completed+s.Failed, s.Total)
	}
}
