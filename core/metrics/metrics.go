package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls metrics export.
type Config struct {
	// Textfile, when set, receives the CLI metrics in the node exporter textfile format
	// after every command.
	Textfile string `mapstructure:"textfile" default:""`
}

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the collectors of one process on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	requests   *prometheus.CounterVec
	keys       *prometheus.GaugeVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biblib",
			Name:      "operations_total",
			Help:      "Workspace operations by name and result.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "biblib",
			Name:      "operation_duration_seconds",
			Help:      "Duration of workspace operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biblib",
			Name:      "http_requests_total",
			Help:      "Report API requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		keys: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "biblib",
			Name:      "store_keys",
			Help:      "Keys held by each store at the last load.",
		}, []string{"store"}),
	}
	reg.MustRegister(m.operations, m.duration, m.requests, m.keys, collectors.NewGoCollector())
	return m
}

// Observe records one finished operation.
func (m *Metrics) Observe(operation string, start time.Time, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.operations.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// SetStoreKeys records the key count of a store.
func (m *Metrics) SetStoreKeys(store string, n int) {
	m.keys.WithLabelValues(store).Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

// Middleware counts requests by their matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.requests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()
		return err
	}
}

// WriteTextfile dumps the registry to path for a textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
