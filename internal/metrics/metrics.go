// Package metrics records forward-pass activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "neurograph"

const (
	ResultSuccess    = "success"
	ResultStructural = "structural_error"
	ResultCanceled   = "canceled"
)

// Collector groups the engine metrics. A nil *Collector is valid and records
// nothing.
type Collector struct {
	// PassesTotal counts forward passes by result.
	PassesTotal *prometheus.CounterVec
	// PassDurationSeconds observes wall time of completed passes.
	PassDurationSeconds prometheus.Histogram
	// NeuronsEvaluatedTotal counts CalculateOutput invocations.
	NeuronsEvaluatedTotal prometheus.Counter
	// LastPassLevels is the dependency depth of the last successful pass.
	LastPassLevels prometheus.Gauge
}

// NewCollector builds the collector and registers it with reg. A nil reg
// leaves the metrics unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		PassesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "passes_total",
			Help:      "Forward passes by result.",
		}, []string{"result"}),
		PassDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "pass_duration_seconds",
			Help:      "Duration of successful forward passes.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		NeuronsEvaluatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "neurons_evaluated_total",
			Help:      "Neuron output computations across all passes.",
		}),
		LastPassLevels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "last_pass_levels",
			Help:      "Dependency levels in the most recent successful pass.",
		}),
	}
	if reg == nil {
		return c, nil
	}
	for _, collector := range []prometheus.Collector{c.PassesTotal, c.PassDurationSeconds, c.NeuronsEvaluatedTotal, c.LastPassLevels} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) RecordPass(neurons, levels int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.PassesTotal.WithLabelValues(ResultSuccess).Inc()
	c.PassDurationSeconds.Observe(elapsed.Seconds())
	c.NeuronsEvaluatedTotal.Add(float64(neurons))
	c.LastPassLevels.Set(float64(levels))
}

func (c *Collector) RecordFailure(result string) {
	if c == nil {
		return
	}
	c.PassesTotal.WithLabelValues(result).Inc()
}
