package orchestration

// State is a step of the benchmark lifecycle.
type State int

const (
	StateIdle State = iota
	StateDataReady
	StateSequentialDone
	StateParallelSweep
	StateReported
	StateFailed
)

var stateNames = [...]string{
	StateIdle:           "idle",
	StateDataReady:      "data-ready",
	StateSequentialDone: "sequential-done",
	StateParallelSweep:  "parallel-sweep",
	StateReported:       "reported",
	StateFailed:         "failed",
}

// String returns the state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateReported || s == StateFailed
}
