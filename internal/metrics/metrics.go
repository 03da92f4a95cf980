// Package metrics exposes the engine's prometheus instruments.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "saloniq",
			Name:      "booking_operations_total",
			Help:      "Count of booking commit operations by operation and result.",
		},
		[]string{"operation", "result"},
	)

	slotConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "saloniq",
			Name:      "slot_conflicts_total",
			Help:      "Count of rejected placements by conflict kind.",
		},
		[]string{"kind"},
	)

	availabilityDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "saloniq",
			Name:      "availability_query_seconds",
			Help:      "Latency of availability queries.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"shape"}, // "day" or "bulk"
	)

	eventPublishes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "saloniq",
			Name:      "event_publishes_total",
			Help:      "Count of post-commit booking event publishes by result.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingOps, slotConflicts, availabilityDuration, eventPublishes)
	})
}

// IncBookingOp counts one allocator/coordinator commit attempt.
func IncBookingOp(operation, result string) {
	bookingOps.WithLabelValues(operation, result).Inc()
}

// IncSlotConflict counts one rejected placement.
func IncSlotConflict(kind string) {
	slotConflicts.WithLabelValues(kind).Inc()
}

// ObserveAvailability records the latency of one availability query.
func ObserveAvailability(shape string, seconds float64) {
	availabilityDuration.WithLabelValues(shape).Observe(seconds)
}

// IncEventPublish counts one notification publish attempt.
func IncEventPublish(result string) {
	eventPublishes.WithLabelValues(result).Inc()
}
