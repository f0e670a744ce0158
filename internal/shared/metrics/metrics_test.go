package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected bucket counts: %v", snap.counts)
	}
}

func TestRenderIncludesRecommendationOutcomes(t *testing.T) {
	ObserveRecommendation("matched", 20*time.Microsecond)
	ObserveRecommendation("no_rule_matched", 3*time.Microsecond)

	out := Render()
	for _, want := range []string{
		`recommendations_total{outcome="matched"}`,
		`recommendations_total{outcome="no_rule_matched"}`,
		`recommendation_duration_us_bucket{le="+Inf"}`,
		"# TYPE pump_toggles_total counter",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
