// Package metrics instruments rule evaluation with Prometheus metrics.
package metrics

import (
	"time"

	"github.com/ezachrisen/verdict"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeMatch   = "match"
	outcomeNoMatch = "no_match"
)

// Collector holds the evaluation metrics for a set of named rules.
type Collector struct {
	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "verdict",
			Name:      "evaluations_total",
			Help:      "Number of rule evaluations, by rule and outcome.",
		}, []string{"rule", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "verdict",
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent evaluating a rule against one subject.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}, []string{"rule"}),
	}
	for _, m := range []prometheus.Collector{c.evaluations, c.duration} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Instrument returns a function that evaluates the rule and records the outcome and
// duration under the rule name.
func Instrument[S any](c *Collector, name string, e verdict.Expr[S]) func(S) bool {
	evaluations := map[bool]prometheus.Counter{
		true:  c.evaluations.WithLabelValues(name, outcomeMatch),
		false: c.evaluations.WithLabelValues(name, outcomeNoMatch),
	}
	duration := c.duration.WithLabelValues(name)
	return func(s S) bool {
		start := time.Now()
		ok := verdict.Evaluate(e, s)
		duration.Observe(time.Since(start).Seconds())
		evaluations[ok].Inc()
		return ok
	}
}
