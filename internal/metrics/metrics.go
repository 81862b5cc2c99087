// Package metrics exposes Prometheus collectors for property sheet activity:
// context loads, configuration commands, visibility flips and value
// replacements.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/propsheet/internal/notify"
	"github.com/dshills/propsheet/internal/property"
)

const namespace = "propsheet"

// Load results used as label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	loads             *prometheus.CounterVec
	loadDuration      *prometheus.HistogramVec
	commands          *prometheus.CounterVec
	visibilityFlips   prometheus.Counter
	valueReplacements prometheus.Counter
	properties        prometheus.Gauge
	visible           prometheus.Gauge
}

// Option configures Metrics.
type Option func(*options)

type options struct {
	runtime bool
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(o *options) {
		o.runtime = true
	}
}

// New creates the collectors on a private registry.
func New(opts ...Option) *Metrics {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "context_loads_total",
			Help:      "Property context loads by kind and result.",
		}, []string{"kind", "result"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "context_load_duration_seconds",
			Help:      "Time to decode a catalog and build its property context.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"kind"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "configuration_commands_total",
			Help:      "Configuration commands executed, by command caption.",
		}, []string{"command"}),
		visibilityFlips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visibility_flips_total",
			Help:      "Times a property's visibility changed.",
		}),
		valueReplacements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "value_replacements_total",
			Help:      "Times a property's value set was replaced.",
		}),
		properties: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "properties",
			Help:      "Properties in the instrumented context.",
		}),
		visible: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "visible_properties",
			Help:      "Visible properties in the instrumented context.",
		}),
	}

	m.registry.MustRegister(
		m.loads,
		m.loadDuration,
		m.commands,
		m.visibilityFlips,
		m.valueReplacements,
		m.properties,
		m.visible,
	)
	if o.runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveLoad records a context load. It satisfies session.Recorder.
func (m *Metrics) ObserveLoad(kind string, d time.Duration, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.loads.WithLabelValues(kind, result).Inc()
	m.loadDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveCommand records an executed configuration command.
func (m *Metrics) ObserveCommand(caption string) {
	m.commands.WithLabelValues(caption).Inc()
}

// Instrument tracks ctx: property counts, visibility flips and value
// replacements. The returned function detaches the observers.
func (m *Metrics) Instrument(ctx *property.Context) func() {
	props := ctx.Properties()
	m.properties.Set(float64(len(props)))
	m.visible.Set(float64(len(ctx.VisibleProperties())))

	subs := make([]*notify.Subscription, 0, 2*len(props))
	for _, p := range props {
		subs = append(subs,
			p.Changes().SubscribeField(property.FieldIsVisible, m.onVisibilityChanged),
			p.Changes().SubscribeField(property.FieldValues, m.onValuesReplaced),
		)
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}

func (m *Metrics) onVisibilityChanged(c notify.Change) {
	m.visibilityFlips.Inc()
	if now, ok := c.NewValue.(bool); ok {
		if now {
			m.visible.Inc()
		} else {
			m.visible.Dec()
		}
	}
}

func (m *Metrics) onValuesReplaced(notify.Change) {
	m.valueReplacements.Inc()
}
