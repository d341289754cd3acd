package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Echo-Logic-Interactive/typedict/pkg/config"
	"github.com/Echo-Logic-Interactive/typedict/pkg/diag"
	"github.com/Echo-Logic-Interactive/typedict/pkg/validator"
)

// Collector exposes validation activity as Prometheus metrics. It satisfies
// validator.Metrics, so wiring it in is one option on the validator:
//
//	collector := metrics.NewCollector(&cfg.Metrics, nil)
//	v := validator.New(validator.WithMetrics(collector))
//
// Metrics exposed:
//   - validations_total{schema, mode, result}: record validations run
//   - violations_total{kind}: diagnostics reported, by kind
//   - validation_duration_seconds{schema}: validation latency
//   - registered_schemas: schemas currently in the registry
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	validationsTotal   *prometheus.CounterVec
	violationsTotal    *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	registeredSchemas  prometheus.Gauge
}

// NewCollector creates a metrics collector registered against the given
// Prometheus registry. If registry is nil, a fresh registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "typedict"
	}
	if len(cfg.DurationBuckets) == 0 {
		// Validation is in-memory; latencies run from microseconds for a
		// flat record to low milliseconds for deep nesting.
		cfg.DurationBuckets = []float64{
			0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1,
		}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validations_total",
				Help:      "Total record validations, by schema, mode and result.",
			},
			[]string{"schema", "mode", "result"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "violations_total",
				Help:      "Total validation diagnostics reported, by kind.",
			},
			[]string{"kind"},
		),

		validationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_duration_seconds",
				Help:      "Time spent validating a record against its schema.",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"schema"},
		),

		registeredSchemas: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "registered_schemas",
				Help:      "Number of schemas currently registered.",
			},
		),
	}

	registry.MustRegister(
		c.validationsTotal,
		c.violationsTotal,
		c.validationDuration,
		c.registeredSchemas,
	)

	return c
}

// ObserveValidation records one record validation.
func (c *Collector) ObserveValidation(schemaName string, mode validator.Mode, valid bool, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	result := "valid"
	if !valid {
		result = "invalid"
	}

	c.validationsTotal.WithLabelValues(schemaName, string(mode), result).Inc()
	c.validationDuration.WithLabelValues(schemaName).Observe(duration.Seconds())
}

// ObserveViolation records one reported diagnostic.
func (c *Collector) ObserveViolation(kind diag.Kind) {
	if !c.config.Enabled {
		return
	}
	c.violationsTotal.WithLabelValues(string(kind)).Inc()
}

// SetRegisteredSchemas updates the registered schema count gauge.
func (c *Collector) SetRegisteredSchemas(n int) {
	if !c.config.Enabled {
		return
	}
	c.registeredSchemas.Set(float64(n))
}

// Registry returns the Prometheus registry, for exposing via an HTTP
// handler or scraping in tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
