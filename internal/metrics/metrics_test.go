package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRouteCountsByCategory(t *testing.T) {
	before := testutil.ToFloat64(routesTotal.WithLabelValues("support"))
	ObserveRoute("support", 15*time.Millisecond)
	after := testutil.ToFloat64(routesTotal.WithLabelValues("support"))

	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestKnowledgeOutcome(t *testing.T) {
	before := testutil.ToFloat64(knowledgeOutcomes.WithLabelValues(OutcomeError))
	KnowledgeOutcome(OutcomeError)
	if got := testutil.ToFloat64(knowledgeOutcomes.WithLabelValues(OutcomeError)); got-before != 1 {
		t.Fatalf("expected error outcome to grow by 1, got %v", got-before)
	}
}
