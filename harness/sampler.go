package harness

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ResourceProbe provides instantaneous host resource readings on demand.
// Implementations live outside the core (see harness/hoststats).
type ResourceProbe interface {
	// CPUPercent returns current host CPU utilization in [0, 100].
	CPUPercent() (float64, error)
	// MemoryPercent returns current host memory utilization in [0, 100].
	MemoryPercent() (float64, error)
}

// ResourceSampler polls a ResourceProbe at a fixed interval while a trial
// runs. One sampler session is started per trial, not per replication.
type ResourceSampler struct {
	probe    ResourceProbe
	interval time.Duration
}

// NewResourceSampler creates a sampler polling probe every interval.
func NewResourceSampler(probe ResourceProbe, interval time.Duration) *ResourceSampler {
	return &ResourceSampler{probe: probe, interval: interval}
}

// SamplingSession is one running sampling loop. Stop is idempotent.
type SamplingSession struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	mu  sync.Mutex
	cpu []float64
	mem []float64
}

// Start launches the sampling goroutine and returns its session handle.
func (s *ResourceSampler) Start() *SamplingSession {
	sess := &SamplingSession{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.run(sess)
	return sess
}

func (s *ResourceSampler) run(sess *SamplingSession) {
	defer close(sess.done)
	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	for {
		sess.sample(s.probe)
		// The stop signal interrupts the sleep directly, so the final
		// sample batch is complete rather than racily truncated.
		select {
		case <-sess.stop:
			return
		case <-timer.C:
			timer.Reset(s.interval)
		}
	}
}

func (sess *SamplingSession) sample(probe ResourceProbe) {
	cpu, err := probe.CPUPercent()
	if err != nil {
		logrus.Debugf("cpu probe failed, skipping sample: %v", err)
		return
	}
	mem, err := probe.MemoryPercent()
	if err != nil {
		logrus.Debugf("memory probe failed, skipping sample: %v", err)
		return
	}
	sess.mu.Lock()
	sess.cpu = append(sess.cpu, cpu)
	sess.mem = append(sess.mem, mem)
	sess.mu.Unlock()
}

// Stop signals the loop to exit, waits up to wait for it, and returns the
// aggregated usage. If the wait elapses (a probe read still in flight) the
// returned usage is a best-effort snapshot of the samples collected so far.
func (sess *SamplingSession) Stop(wait time.Duration) ResourceUsage {
	sess.stopOnce.Do(func() { close(sess.stop) })
	select {
	case <-sess.done:
	case <-time.After(wait):
		logrus.Warnf("resource sampler did not stop within %s, reporting partial usage", wait)
	}
	return sess.usage()
}

func (sess *SamplingSession) usage() ResourceUsage {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	u := ResourceUsage{Samples: len(sess.cpu)}
	if len(sess.cpu) > 0 {
		u.AvgCPU = stat.Mean(sess.cpu, nil)
		u.MaxCPU = floats.Max(sess.cpu)
	}
	if len(sess.mem) > 0 {
		u.AvgMem = stat.Mean(sess.mem, nil)
		u.MaxMem = floats.Max(sess.mem)
	}
	return u
}
