package metrics

import "testing"

var sink []int32

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	snap := NewMemoryCollector().Snapshot()

	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

func TestMemorySnapshot_AllocatedSince(t *testing.T) {
	mc := NewMemoryCollector()
	before := mc.Snapshot()

	sink = make([]int32, 1<<20)

	after := mc.Snapshot()
	if got := after.AllocatedSince(before); got < DatasetBytes(len(sink)) {
		t.Errorf("AllocatedSince = %d, want at least %d", got, DatasetBytes(len(sink)))
	}
	if got := before.AllocatedSince(after); got != 0 {
		t.Errorf("reversed AllocatedSince = %d, want 0", got)
	}
}

func TestDatasetBytes(t *testing.T) {
	t.Parallel()
	if got := DatasetBytes(1_000_000); got != 4_000_000 {
		t.Errorf("DatasetBytes(1e6) = %d, want 4000000", got)
	}
}
