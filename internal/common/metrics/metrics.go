// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of relayed submissions by outcome",
		},
		[]string{"outcome"},
	)

	RelayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_relay_duration_seconds",
			Help:    "Duration of the outbound delivery in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"destination"},
	)

	RelayInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "intake_relay_in_flight",
			Help: "Number of deliveries currently awaiting the destination",
		},
		[]string{"destination"},
	)

	FormValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_form_validation_failures_total",
			Help: "Total number of form submissions blocked by validation",
		},
		[]string{"reason"},
	)

	IDReservationFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_id_reservation_fallbacks_total",
			Help: "Application ids issued locally because the shared store was unavailable",
		},
	)
)
