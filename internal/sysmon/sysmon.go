// Package sysmon provides host-wide CPU, memory, and load sampling for the
// fleet status header.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of host resource usage. A fleet saturating
// its cores is the expected steady state; the header shows how close the
// host is to that.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	Load1      float64 // 1-minute load average, 0 when unsupported
	NumCPU     int     // logical CPU count, 0 when unknown
}

// Sample collects one host-wide snapshot. CPU uses interval=0 (delta since
// the previous call). Each field stays zero when its collector fails; the
// header renders whatever is available.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	if avg, err := load.Avg(); err == nil && avg != nil {
		s.Load1 = avg.Load1
	}
	if n, err := cpu.Counts(true); err == nil {
		s.NumCPU = n
	}
	return s
}
