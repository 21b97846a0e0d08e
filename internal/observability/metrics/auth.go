package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels used across the auth operation counters.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid_input"
	OutcomeConflict = "conflict"
	OutcomeDenied   = "denied"
	OutcomeError    = "error"
)

var (
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_registrations_total",
			Help: "Total number of registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_logins_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	LogoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_logouts_total",
			Help: "Total number of logout attempts by outcome",
		},
		[]string{"outcome"},
	)

	AuthOperationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "identity_auth_operation_duration_seconds",
			Help:    "Duration of auth service operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
