package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the family context.
type Metrics struct {
	ChildrenRegistered prometheus.Counter
	ChildrenAnonymized prometheus.Counter
}

// New creates and registers the metrics. Call once per process.
func New() *Metrics {
	return &Metrics{
		ChildrenRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kitahub_children_registered_total",
			Help: "Total number of children registered",
		}),
		ChildrenAnonymized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kitahub_children_anonymized_total",
			Help: "Total number of child records anonymized",
		}),
	}
}
