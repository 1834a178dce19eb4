package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(AuditAppendsTotal)
	AuditAppendsTotal.Inc()
	if got := testutil.ToFloat64(AuditAppendsTotal); got != before+1 {
		t.Fatalf("expected %v, got %v", before+1, got)
	}
}

func TestLabeledCounters(t *testing.T) {
	approve := DecisionsTotal.WithLabelValues("approve")
	before := testutil.ToFloat64(approve)
	approve.Inc()
	if got := testutil.ToFloat64(approve); got != before+1 {
		t.Fatalf("expected %v, got %v", before+1, got)
	}

	clamp := GuardrailClampsTotal.WithLabelValues("MIN_ABSOLUTE_PRICE")
	clamp.Inc()
	if testutil.ToFloat64(clamp) < 1 {
		t.Fatalf("labeled clamp counter did not record")
	}
}
