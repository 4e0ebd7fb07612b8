package observability

import (
	"testing"
	"time"

	"jobmatch-assistant/internal/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestObserveTurnCountsByState tests that turns are counted under their final state
func TestObserveTurnCountsByState(t *testing.T) {
	before := testutil.ToFloat64(TurnsTotal.WithLabelValues(string(domain.TurnStateClarifying)))

	ObserveTurn(domain.TurnStateClarifying, 10*time.Millisecond, 0)

	after := testutil.ToFloat64(TurnsTotal.WithLabelValues(string(domain.TurnStateClarifying)))
	if after != before+1 {
		t.Errorf("expected clarifying count to grow by 1, got %v -> %v", before, after)
	}
}

// TestObserveTurnEmptyStateCountsAsFailed tests that a missing state is recorded as failed
func TestObserveTurnEmptyStateCountsAsFailed(t *testing.T) {
	before := testutil.ToFloat64(TurnsTotal.WithLabelValues(string(domain.TurnStateFailed)))

	ObserveTurn("", time.Millisecond, 3)

	after := testutil.ToFloat64(TurnsTotal.WithLabelValues(string(domain.TurnStateFailed)))
	if after != before+1 {
		t.Errorf("expected failed count to grow by 1, got %v -> %v", before, after)
	}
}
