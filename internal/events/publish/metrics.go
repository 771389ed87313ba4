package publish

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"kitahub/internal/events"
)

// Metrics tracks integration event publishing.
type Metrics struct {
	Published *prometheus.CounterVec
	Failed    *prometheus.CounterVec
}

// NewMetrics creates and registers publishing metrics. Call once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		Published: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kitahub_integration_events_published_total",
			Help: "Integration events published, by source context, type and criticality",
		}, []string{"source_context", "event_type", "critical"}),
		Failed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kitahub_integration_events_publish_failures_total",
			Help: "Integration event publishes that failed at the transport",
		}, []string{"source_context", "event_type"}),
	}
}

func (m *Metrics) observePublish(event events.IntegrationEvent, err error) {
	if err != nil {
		m.Failed.WithLabelValues(string(event.Source), string(event.Type)).Inc()
		return
	}
	m.Published.WithLabelValues(
		string(event.Source),
		string(event.Type),
		strconv.FormatBool(event.Critical()),
	).Inc()
}
