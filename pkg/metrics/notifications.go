package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

// NotificationMetrics counts outbound messages by channel and outcome.
type NotificationMetrics struct {
	sends *prometheus.CounterVec
}

func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	sends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_sends_total",
		Help: "Outbound notification attempts by channel and outcome.",
	}, []string{"channel", "outcome"})
	reg.MustRegister(sends)
	return &NotificationMetrics{sends: sends}
}

// IncSend records one delivery attempt.
func (m *NotificationMetrics) IncSend(channel, outcome string) {
	if m == nil || m.sends == nil {
		return
	}
	m.sends.WithLabelValues(normalizeLabel(channel), normalizeLabel(outcome)).Inc()
}
