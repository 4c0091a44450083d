package app

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"poslito/internal/metrics"
)

// Metrics bundles the service-level collectors so dig can hand them out as a
// single dependency.
type Metrics struct {
	Transitions       *prometheus.CounterVec
	Conflicts         prometheus.Counter
	ProviderRetries   prometheus.Counter
	MatchingDegraded  prometheus.Counter
	BroadcastMessages *prometheus.CounterVec
	RateLimited       prometheus.Counter
}

// NewMetrics builds and registers the service collectors. Re-registration
// reuses the existing collector so container rebuilds in tests do not panic.
func NewMetrics() *Metrics {
	return &Metrics{
		Transitions:       registerVec(metrics.NewTransitionsTotal()),
		Conflicts:         registerCounter(metrics.NewTransitionConflictsTotal()),
		ProviderRetries:   registerCounter(metrics.NewProviderRetriesTotal()),
		MatchingDegraded:  registerCounter(metrics.NewMatchingDegradedTotal()),
		BroadcastMessages: registerVec(metrics.NewBroadcastMessagesTotal()),
		RateLimited:       registerCounter(metrics.NewRateLimitExceededTotal()),
	}
}

func registerCounter(c prometheus.Counter) prometheus.Counter {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Counter)
		}
		panic(err)
	}
	return c
}

func registerVec(v *prometheus.CounterVec) *prometheus.CounterVec {
	if err := prometheus.Register(v); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		panic(err)
	}
	return v
}
