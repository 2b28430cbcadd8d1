package harness

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// fakeProbe returns scripted readings and counts polls.
type fakeProbe struct {
	cpu, mem float64
	err      error
	polls    atomic.Int64
}

func (p *fakeProbe) CPUPercent() (float64, error) {
	p.polls.Add(1)
	return p.cpu, p.err
}

func (p *fakeProbe) MemoryPercent() (float64, error) {
	return p.mem, p.err
}

func TestSamplingSession_CollectsAndAggregates(t *testing.T) {
	// GIVEN a sampler polling a constant probe every 2ms
	probe := &fakeProbe{cpu: 80, mem: 40}
	sess := NewResourceSampler(probe, 2*time.Millisecond).Start()

	// WHEN it runs for a while and is stopped
	time.Sleep(30 * time.Millisecond)
	usage := sess.Stop(time.Second)

	// THEN multiple samples were collected and avg == max == the constant
	if usage.Samples < 2 {
		t.Fatalf("samples: got %d, want >= 2", usage.Samples)
	}
	if usage.AvgCPU != 80 || usage.MaxCPU != 80 {
		t.Errorf("cpu aggregates: got avg=%v max=%v, want 80/80", usage.AvgCPU, usage.MaxCPU)
	}
	if usage.AvgMem != 40 || usage.MaxMem != 40 {
		t.Errorf("mem aggregates: got avg=%v max=%v, want 40/40", usage.AvgMem, usage.MaxMem)
	}
}

func TestSamplingSession_StopInterruptsSleepImmediately(t *testing.T) {
	// GIVEN a sampler whose interval is far longer than any test budget
	probe := &fakeProbe{cpu: 10, mem: 10}
	sess := NewResourceSampler(probe, time.Hour).Start()
	time.Sleep(5 * time.Millisecond)

	// WHEN stopped with a short bounded wait
	start := time.Now()
	usage := sess.Stop(500 * time.Millisecond)
	elapsed := time.Since(start)

	// THEN the stop signal interrupts the sleep rather than waiting out the
	// interval, and the first sample taken before the sleep is not lost
	if elapsed > 400*time.Millisecond {
		t.Fatalf("Stop blocked for %v; stop signal did not interrupt the sleep", elapsed)
	}
	if usage.Samples != 1 {
		t.Errorf("samples: got %d, want exactly 1", usage.Samples)
	}
}

func TestSamplingSession_StopIsIdempotent(t *testing.T) {
	probe := &fakeProbe{cpu: 50, mem: 50}
	sess := NewResourceSampler(probe, time.Millisecond).Start()
	time.Sleep(10 * time.Millisecond)

	first := sess.Stop(time.Second)
	second := sess.Stop(time.Second)
	if first != second {
		t.Errorf("repeated Stop returned different usage: %+v vs %+v", first, second)
	}
}

func TestSamplingSession_ProbeErrors_SamplesSkipped(t *testing.T) {
	// GIVEN a probe that always fails
	probe := &fakeProbe{err: errors.New("probe unavailable")}
	sess := NewResourceSampler(probe, time.Millisecond).Start()
	time.Sleep(10 * time.Millisecond)

	// WHEN stopped
	usage := sess.Stop(time.Second)

	// THEN the loop kept polling but recorded nothing
	if probe.polls.Load() < 2 {
		t.Errorf("polls: got %d, want >= 2", probe.polls.Load())
	}
	if usage.Samples != 0 {
		t.Errorf("samples: got %d, want 0", usage.Samples)
	}
	if usage != (ResourceUsage{}) {
		t.Errorf("usage: got %+v, want zero value", usage)
	}
}
