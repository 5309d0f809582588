package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestHistogramBucketsStayCumulative(t *testing.T) {
	h := newHistogram([]float64{1, 5, 10})
	h.Observe(0.5)
	h.Observe(3)
	h.Observe(3)
	h.Observe(7)
	h.Observe(50)

	snap := h.Snapshot()
	if snap.count != 5 {
		t.Fatalf("expected count 5, got %d", snap.count)
	}
	// Observe fills only the first matching bucket; writeHistogram
	// accumulates the le series, so no bucket may exceed +Inf.
	want := []uint64{1, 2, 1}
	for i, c := range snap.counts {
		if c != want[i] {
			t.Fatalf("bucket %d: expected %d, got %d", i, want[i], c)
		}
	}

	var buf bytes.Buffer
	writeHistogram(&buf, "test", "test histogram", snap)
	out := buf.String()
	for _, line := range []string{
		`test_bucket{le="1"} 1`,
		`test_bucket{le="5"} 3`,
		`test_bucket{le="10"} 4`,
		`test_bucket{le="+Inf"} 5`,
		"test_count 5",
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("expected rendered output to contain %q, got:\n%s", line, out)
		}
	}
}

func TestObserveRequestDurationClampsNegative(t *testing.T) {
	before := requestDuration.Snapshot()
	ObserveRequestDurationMs(-3)
	after := requestDuration.Snapshot()
	if after.count != before.count+1 {
		t.Fatalf("expected count to advance by 1, got %d -> %d", before.count, after.count)
	}
	if after.sum != before.sum {
		t.Fatalf("expected negative value clamped to 0, sum moved %v -> %v", before.sum, after.sum)
	}
}
