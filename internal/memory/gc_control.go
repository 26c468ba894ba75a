// Package memory controls the garbage collector around timed sections, so
// that a collection triggered by unrelated allocations does not land inside
// one measurement and skew the comparison.
package memory

import (
	"math"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// GCMode controls the garbage collector behavior during timing.
type GCMode string

const (
	GCModeAuto     GCMode = "auto"
	GCModeDisabled GCMode = "disabled"
	GCModeOff      GCMode = "off"
)

// GCAutoThreshold is the minimum dataset length for auto GC control to activate.
const GCAutoThreshold = 1_000_000

// ParseGCMode validates a mode name.
func ParseGCMode(s string) (GCMode, bool) {
	switch m := GCMode(s); m {
	case GCModeAuto, GCModeDisabled, GCModeOff:
		return m, true
	}
	return "", false
}

// GCController suspends the collector between Begin and End. In "disabled"
// mode it always does; in "auto" mode only for datasets of at least
// GCAutoThreshold elements; in "off" mode never.
type GCController struct {
	mode              GCMode
	originalGCPercent int
	active            bool
	logger            zerolog.Logger
	startStats        runtime.MemStats
	endStats          runtime.MemStats
}

// GCStats holds GC statistics for the controlled section.
type GCStats struct {
	TotalAlloc uint64
	NumGC      uint32
}

// NewGCController creates a GC controller for the given mode and dataset length.
func NewGCController(mode GCMode, n int) *GCController {
	gc := &GCController{mode: mode, logger: zerolog.Nop()}
	switch mode {
	case GCModeDisabled:
		gc.active = true
	case GCModeAuto:
		gc.active = n >= GCAutoThreshold
	}
	return gc
}

// SetLogger configures the logger for GC control events.
func (gc *GCController) SetLogger(l zerolog.Logger) {
	gc.logger = l
}

// Active reports whether Begin will suspend the collector.
func (gc *GCController) Active() bool { return gc.active }

// Begin collects once, then disables GC if the controller is active.
func (gc *GCController) Begin() {
	if !gc.active {
		return
	}
	runtime.GC()
	runtime.ReadMemStats(&gc.startStats)
	gc.originalGCPercent = debug.SetGCPercent(-1)
	// Soft memory limit as OOM safety net while the collector is off.
	if limit := int64(float64(gc.startStats.Sys) * 3); limit > 0 {
		debug.SetMemoryLimit(limit)
	}
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", gc.startStats.HeapAlloc).
		Msg("gc disabled")
}

// End restores the original GC settings.
func (gc *GCController) End() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.endStats)
	debug.SetGCPercent(gc.originalGCPercent)
	debug.SetMemoryLimit(math.MaxInt64)
}

// Stats returns GC statistics delta between Begin and End. It is zero for an
// inactive controller.
func (gc *GCController) Stats() GCStats {
	return GCStats{
		TotalAlloc: gc.endStats.TotalAlloc - gc.startStats.TotalAlloc,
		NumGC:      gc.endStats.NumGC - gc.startStats.NumGC,
	}
}
