// Package metrics exposes terminator state as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vinayprograms/terminus/terminator"
)

const namespace = "terminus"

// Collector samples a terminator for Prometheus. Gauges read the live
// state at scrape time; outcome counters are fed through OnOutcome.
type Collector struct {
	terminator *terminator.Terminator
	registry   *prometheus.Registry

	handlersRegistered prometheus.GaugeFunc
	reservationBytes   prometheus.GaugeFunc
	ready              prometheus.GaugeFunc
	state              prometheus.GaugeFunc

	outcomes        *prometheus.CounterVec
	handlerDuration prometheus.Histogram
}

// New builds a collector for the given terminator on its own registry,
// so several terminators can be instrumented in one process.
func New(t *terminator.Terminator) *Collector {
	c := &Collector{
		terminator: t,
		registry:   prometheus.NewRegistry(),
	}

	c.handlersRegistered = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "handlers_registered",
		Help:      "Number of registered shutdown handlers",
	}, func() float64 { return float64(t.Len()) })

	c.reservationBytes = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reservation_bytes",
		Help:      "Memory held in reserve for the shutdown pass",
	}, func() float64 { return float64(t.ReservedBytes()) })

	c.ready = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ready",
		Help:      "Whether the terminator is armed (1) or not (0)",
	}, func() float64 {
		if t.IsReady() {
			return 1
		}
		return 0
	})

	c.state = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "state",
		Help:      "Terminator lifecycle state (0 uninitialized, 1 ready, 2 completed)",
	}, func() float64 { return float64(t.State()) })

	c.outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "handler_outcomes_total",
		Help:      "Total handler outcomes by result",
	}, []string{"result"})

	c.handlerDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "handler_duration_seconds",
		Help:      "Shutdown handler execution time in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	c.registry.MustRegister(
		c.handlersRegistered,
		c.reservationBytes,
		c.ready,
		c.state,
		c.outcomes,
		c.handlerDuration,
	)

	return c
}

// OnOutcome records one handler outcome. Wire it into
// terminator.Config.OnOutcome.
func (c *Collector) OnOutcome(o terminator.Outcome) {
	c.outcomes.WithLabelValues(outcomeResult(o)).Inc()
	c.handlerDuration.Observe(o.Duration.Seconds())
}

func outcomeResult(o terminator.Outcome) string {
	switch {
	case o.Panicked:
		return "panicked"
	case o.Err != nil:
		return "failed"
	default:
		return "ok"
	}
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving the metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
