package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewTransitionsTotal returns a Prometheus counter vector for delivery state
// transitions, labelled by the state entered.
func NewTransitionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_transitions_total",
		Help: "Total number of successful delivery state transitions",
	}, []string{"state"})
}

// NewTransitionConflictsTotal returns a Prometheus counter for lost races on
// delivery state changes.
func NewTransitionConflictsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_transition_conflicts_total",
		Help: "Total number of delivery state transitions lost to a concurrent writer",
	})
}

// NewProviderRetriesTotal returns a Prometheus counter for retry attempts
// against the distance provider.
func NewProviderRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "distance_provider_retries_total",
		Help: "Total number of retry attempts against the distance provider",
	})
}

// NewMatchingDegradedTotal returns a Prometheus counter for matching
// candidates that could not be route-ranked.
func NewMatchingDegradedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matching_degraded_candidates_total",
		Help: "Total number of matching candidates ranked last due to provider failures",
	})
}

// NewBroadcastMessagesTotal returns a Prometheus counter vector for broadcast
// messages, labelled by outcome.
func NewBroadcastMessagesTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "broadcast_messages_total",
		Help: "Total number of broadcast messages by outcome",
	}, []string{"outcome"})
}

// NewRateLimitExceededTotal returns a Prometheus counter for requests rejected
// by rate limiting.
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}
