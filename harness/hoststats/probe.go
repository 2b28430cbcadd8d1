// Package hoststats implements harness.ResourceProbe over gopsutil, reading
// host-wide CPU and memory utilization.
package hoststats

import (
	"errors"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Probe reads instantaneous host resource utilization. The zero value is
// ready to use.
type Probe struct{}

// New returns a host probe.
func New() *Probe { return &Probe{} }

// CPUPercent returns host-wide CPU utilization since the previous call,
// in [0, 100].
func (p *Probe) CPUPercent() (float64, error) {
	pcts, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, errors.New("no cpu utilization readings available")
	}
	return pcts[0], nil
}

// MemoryPercent returns host memory utilization in [0, 100].
func (p *Probe) MemoryPercent() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}
