// Package prommetrics exports engine metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c, _ := prommetrics.New(reg)
//	eng, _ := tensoralg.New(f, tensoralg.WithMetricsCollector(c))
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/tensoralg"
	"github.com/hupe1980/tensoralg/index"
)

const namespace = "tensoralg"

// Collector implements tensoralg.MetricsCollector with Prometheus vectors.
type Collector struct {
	opLatency  *prometheus.HistogramVec
	operations *prometheus.CounterVec
	components prometheus.Counter
}

var _ tensoralg.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers it on reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of engine operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total engine operations",
		}, []string{"op", "status"}),
		components: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "components_evaluated_total",
			Help:      "Total result components produced by combinations",
		}),
	}

	for _, col := range []prometheus.Collector{c.opLatency, c.operations, c.components} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.operations.WithLabelValues(op, s).Inc()
}

// RecordCombination implements tensoralg.MetricsCollector.
func (c *Collector) RecordCombination(kind index.Kind, components int, d time.Duration, err error) {
	c.observe(kind.String(), d, err)
	c.components.Add(float64(components))
}

// RecordRaiseLower implements tensoralg.MetricsCollector.
func (c *Collector) RecordRaiseLower(op string, d time.Duration, err error) {
	c.observe(op, d, err)
}

// RecordSnapshot implements tensoralg.MetricsCollector.
func (c *Collector) RecordSnapshot(op string, d time.Duration, err error) {
	c.observe(op, d, err)
}
