package memory

import (
	"runtime/debug"
	"testing"
)

func TestParseGCMode(t *testing.T) {
	tests := []struct {
		in   string
		want GCMode
		ok   bool
	}{
		{"auto", GCModeAuto, true},
		{"disabled", GCModeDisabled, true},
		{"off", GCModeOff, true},
		{"aggressive", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseGCMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseGCMode(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewGCController_Activation(t *testing.T) {
	tests := []struct {
		name string
		mode GCMode
		n    int
		want bool
	}{
		{"auto below threshold", GCModeAuto, GCAutoThreshold - 1, false},
		{"auto at threshold", GCModeAuto, GCAutoThreshold, true},
		{"disabled always", GCModeDisabled, 10, true},
		{"off never", GCModeOff, 10 * GCAutoThreshold, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewGCController(tt.mode, tt.n).Active(); got != tt.want {
				t.Errorf("Active() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGCController_RestoresPercent must not run in parallel: it changes the
// process-wide GC setting.
func TestGCController_RestoresPercent(t *testing.T) {
	original := debug.SetGCPercent(100)
	defer debug.SetGCPercent(original)

	gc := NewGCController(GCModeDisabled, 0)
	gc.Begin()
	if pct := debug.SetGCPercent(-1); pct != -1 {
		t.Errorf("GC percent during section = %d, want -1", pct)
	}
	gc.End()

	if pct := debug.SetGCPercent(100); pct != 100 {
		t.Errorf("GC percent after End = %d, want 100", pct)
	}
}

var allocSink [][]byte

func TestGCController_Stats(t *testing.T) {
	original := debug.SetGCPercent(100)
	defer debug.SetGCPercent(original)

	gc := NewGCController(GCModeDisabled, 0)
	gc.Begin()
	for i := 0; i < 64; i++ {
		allocSink = append(allocSink, make([]byte, 64<<10))
	}
	gc.End()
	allocSink = nil

	st := gc.Stats()
	if st.TotalAlloc < 64*64<<10 {
		t.Errorf("TotalAlloc = %d, want at least %d", st.TotalAlloc, 64*64<<10)
	}
	if st.NumGC != 0 {
		t.Errorf("NumGC = %d, want 0 while the collector is suspended", st.NumGC)
	}
}

func TestGCController_InactiveStatsZero(t *testing.T) {
	gc := NewGCController(GCModeOff, GCAutoThreshold)
	gc.Begin()
	gc.End()
	if st := gc.Stats(); st != (GCStats{}) {
		t.Errorf("Stats() = %+v, want zero for inactive controller", st)
	}
}
