// Package metrics exposes check outcomes as Prometheus metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/newtron-network/ifcheck/pkg/compare"
)

const namespace = "ifcheck"

// Result label values.
const (
	ResultPass = "pass"
	ResultDiff = "diff"
)

// Collector holds the check metrics on its own registry so a run can be
// written out as a node_exporter textfile without process metrics.
type Collector struct {
	registry *prometheus.Registry

	checks      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastRunDiff *prometheus.GaugeVec
}

// NewCollector creates a collector with a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		checks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checks_total",
				Help:      "Interface checks evaluated, by filter and result",
			},
			[]string{"filter", "result"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "check_duration_seconds",
				Help:      "Time to evaluate one interface check",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8), // 10µs to ~160ms
			},
			[]string{"filter"},
		),
		lastRunDiff: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_diff",
				Help:      "1 if the last run of a host found a divergence, 0 otherwise",
			},
			[]string{"host"},
		),
	}
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveCheck records one evaluated check.
func (c *Collector) ObserveCheck(filter string, v compare.Verdict, d time.Duration) {
	c.checks.WithLabelValues(filter, resultLabel(v)).Inc()
	c.duration.WithLabelValues(filter).Observe(d.Seconds())
}

// ObserveRun records the overall outcome of a run against host.
func (c *Collector) ObserveRun(host string, diff bool) {
	value := 0.0
	if diff {
		value = 1
	}
	c.lastRunDiff.WithLabelValues(host).Set(value)
}

// WriteTextfile writes the metrics in text exposition format to path,
// atomically, for the node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}

func resultLabel(v compare.Verdict) string {
	if v.Diff {
		return ResultDiff
	}
	return ResultPass
}
