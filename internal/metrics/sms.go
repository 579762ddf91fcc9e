package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SMS holds the send outcome collectors.
type SMS struct {
	sends    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewSMS creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func NewSMS(reg prometheus.Registerer) *SMS {
	m := &SMS{
		sends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sms_send_total",
				Help: "Total number of SMS send attempts, labeled by outcome.",
			},
			[]string{"outcome"}, // 'ok', 'configuration', 'provider', 'unexpected'
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sms_send_duration_seconds",
				Help:    "Duration of SMS provider calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.sends, m.duration)
	}
	return m
}

// ObserveSend records one send attempt.
func (m *SMS) ObserveSend(outcome string, d time.Duration) {
	outcome = norm(outcome)
	m.sends.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

// Sends exposes the counter, mainly for tests.
func (m *SMS) Sends() *prometheus.CounterVec { return m.sends }

func norm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return s
}
