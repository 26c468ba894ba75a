// Package sysmon describes the host a benchmark runs on: logical CPUs,
// SIMD features, and system-wide CPU and memory load at sampling time.
package sysmon

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	TotalMem   uint64  // bytes
}

// Host describes the machine running the benchmark.
type Host struct {
	OS         string
	Arch       string
	NumCPU     int
	GOMAXPROCS int
	ModelName  string
	Features   []string
	Stats      Stats
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.TotalMem = vmem.Total
	}
	return s
}

// Describe gathers the host description. Fields that cannot be read are left
// at their zero value.
func Describe() Host {
	h := Host{
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		Features:   Features(),
		Stats:      Sample(),
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.ModelName = strings.TrimSpace(infos[0].ModelName)
	}
	return h
}

// Features lists the vector extensions relevant to tight summation loops.
func Features() []string {
	var f []string
	switch runtime.GOARCH {
	case "amd64", "386":
		if xcpu.X86.HasSSE41 {
			f = append(f, "sse4.1")
		}
		if xcpu.X86.HasAVX2 {
			f = append(f, "avx2")
		}
		if xcpu.X86.HasAVX512F {
			f = append(f, "avx512f")
		}
	case "arm64":
		if xcpu.ARM64.HasASIMD {
			f = append(f, "asimd")
		}
		if xcpu.ARM64.HasSVE {
			f = append(f, "sve")
		}
	}
	return f
}
