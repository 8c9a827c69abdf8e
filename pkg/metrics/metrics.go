package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	ActionsLogged  *prometheus.CounterVec
	TasksScheduled prometheus.Counter
	TasksCompleted prometheus.Counter
	Exports        *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "larsbees", Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "larsbees", Name: "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ActionsLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "larsbees", Name: "hive_actions_logged_total",
			Help: "Hive actions written, by kind.",
		}, []string{"kind"}),
		TasksScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "larsbees", Name: "scheduled_tasks_created_total",
			Help: "Scheduled tasks created, including recurrences.",
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "larsbees", Name: "scheduled_tasks_completed_total",
			Help: "Scheduled tasks completed.",
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "larsbees", Name: "exports_total",
			Help: "Exports served, by entity and format.",
		}, []string{"entity", "format"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.ActionsLogged, m.TasksScheduled, m.TasksCompleted, m.Exports,
	)
	return m
}

// Middleware records request count and latency keyed by the route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.requests.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			m.latency.WithLabelValues(route, c.Request().Method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

// The helpers below accept a nil receiver so services can run without metrics.

func (m *Metrics) ActionLogged(kind string) {
	if m != nil {
		m.ActionsLogged.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) TaskScheduled(n int) {
	if m != nil {
		m.TasksScheduled.Add(float64(n))
	}
}

func (m *Metrics) TaskCompleted() {
	if m != nil {
		m.TasksCompleted.Inc()
	}
}

func (m *Metrics) Exported(entity, format string) {
	if m != nil {
		m.Exports.WithLabelValues(entity, format).Inc()
	}
}
