package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingSweepMetrics counts lifecycle transitions applied by the daily sweep.
type BookingSweepMetrics struct {
	promoted  prometheus.Counter
	completed prometheus.Counter
}

// NewBookingSweepMetrics registers the sweep counters on the provided registerer.
func NewBookingSweepMetrics(reg prometheus.Registerer) *BookingSweepMetrics {
	if reg == nil {
		return &BookingSweepMetrics{}
	}
	promoted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookings_promoted_total",
		Help: "Bookings moved from confirmed to in_progress by the daily sweep.",
	})
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookings_completed_total",
		Help: "Bookings moved from in_progress to completed by the daily sweep.",
	})
	reg.MustRegister(promoted, completed)
	return &BookingSweepMetrics{promoted: promoted, completed: completed}
}

// Observe adds one sweep's transition counts.
func (m *BookingSweepMetrics) Observe(promoted, completed int) {
	if m == nil || m.promoted == nil {
		return
	}
	m.promoted.Add(float64(promoted))
	m.completed.Add(float64(completed))
}
