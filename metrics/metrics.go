// Package metrics exposes Prometheus instrumentation for an ace2
// connection: connection lifecycle, call latency, and change-of-state
// throughput. All metrics use the ace2_ prefix.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector tracks ace2-specific Prometheus metrics. The Record* methods
// are nil-safe: a nil *Collector (or one obtained from NewNoop) is a
// valid no-op sink for them. The exported fields are not reachable
// through a nil *Collector.
type Collector struct {
	ConnectionsOpened prometheus.Counter
	ConnectionsClosed prometheus.Counter

	CallsTotal    *prometheus.CounterVec
	CallDuration  *prometheus.HistogramVec
	CallTimeouts  *prometheus.CounterVec
	PanelErrors   *prometheus.CounterVec

	ChangeEventsTotal *prometheus.CounterVec

	ArmAttempts *prometheus.CounterVec
}

// New creates ace2 metrics registered against reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ConnectionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ace2_connections_opened_total",
			Help: "Total connections successfully established and authenticated.",
		}),
		ConnectionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ace2_connections_closed_total",
			Help: "Total connections torn down, for any reason.",
		}),
		CallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ace2_calls_total",
			Help: "Total request/response calls by template name and outcome.",
		}, []string{"template", "outcome"}),
		CallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ace2_call_duration_seconds",
			Help:    "Call round-trip latency by template name.",
			Buckets: prometheus.DefBuckets,
		}, []string{"template"}),
		CallTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ace2_call_timeouts_total",
			Help: "Total calls that exceeded the call timeout, by template name.",
		}, []string{"template"}),
		PanelErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ace2_panel_errors_total",
			Help: "Total 0xF0 panel-reported error responses, by template name.",
		}, []string{"template"}),
		ChangeEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ace2_change_events_total",
			Help: "Total change-of-state events emitted, by entity kind.",
		}, []string{"kind"}),
		ArmAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ace2_arm_attempts_total",
			Help: "Total arm attempts by area-set type and outcome.",
		}, []string{"set_type", "outcome"}),
	}

	reg.MustRegister(
		c.ConnectionsOpened,
		c.ConnectionsClosed,
		c.CallsTotal,
		c.CallDuration,
		c.CallTimeouts,
		c.PanelErrors,
		c.ChangeEventsTotal,
		c.ArmAttempts,
	)
	return c
}

// NewNoop returns a Collector backed by an isolated registry, for callers
// (tests, or a CLI invocation with metrics disabled) that want working
// Inc/Observe calls without wiring a real exporter.
func NewNoop() *Collector {
	return New(prometheus.NewRegistry())
}

// RecordCall records one completed call.
func (c *Collector) RecordCall(template, outcome string, durationSeconds float64) {
	if c == nil {
		return
	}
	c.CallsTotal.WithLabelValues(template, outcome).Inc()
	c.CallDuration.WithLabelValues(template).Observe(durationSeconds)
}

// RecordTimeout records a call that exceeded its deadline.
func (c *Collector) RecordTimeout(template string) {
	if c == nil {
		return
	}
	c.CallTimeouts.WithLabelValues(template).Inc()
}

// RecordPanelError records a 0xF0 response.
func (c *Collector) RecordPanelError(template string) {
	if c == nil {
		return
	}
	c.PanelErrors.WithLabelValues(template).Inc()
}

// RecordChangeEvent records one emitted change-of-state event.
func (c *Collector) RecordChangeEvent(kind string) {
	if c == nil {
		return
	}
	c.ChangeEventsTotal.WithLabelValues(kind).Inc()
}

// RecordArmAttempt records the terminal outcome of one arm operation.
func (c *Collector) RecordArmAttempt(setType, outcome string) {
	if c == nil {
		return
	}
	c.ArmAttempts.WithLabelValues(setType, outcome).Inc()
}
