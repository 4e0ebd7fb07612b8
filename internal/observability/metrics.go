package observability

import (
	"time"

	"jobmatch-assistant/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts finished turns labelled by their final state
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatch_turns_total",
			Help: "Total number of processed turns by final state",
		},
		[]string{"state"},
	)

	// TurnDuration observes wall time of one turn, from parse to reply
	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobmatch_turn_duration_seconds",
			Help:    "Duration of turn processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// MatchesReturned observes result size of turns that reached the done state
	MatchesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobmatch_matches_returned",
			Help:    "Number of matches returned by turns that reached matching",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		},
	)

	// IntentFallbacks counts parser failures, labelled by the parser that failed
	IntentFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatch_intent_fallbacks_total",
			Help: "Total number of intent parser failures that fell through to the next parser",
		},
		[]string{"parser"},
	)
)

// ObserveTurn records the outcome of one turn
func ObserveTurn(state domain.TurnState, elapsed time.Duration, matches int) {
	if state == "" {
		state = domain.TurnStateFailed
	}
	TurnsTotal.WithLabelValues(string(state)).Inc()
	TurnDuration.Observe(elapsed.Seconds())
	if state == domain.TurnStateDone {
		MatchesReturned.Observe(float64(matches))
	}
}
