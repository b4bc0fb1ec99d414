// Package metrics registra los colectores Prometheus de la API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry colectores propios de la aplicación.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clicheria",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de peticiones HTTP atendidas.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clicheria",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	wizardSubmits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clicheria",
			Subsystem: "wizard",
			Name:      "submits_total",
			Help:      "Envíos del asistente por modo y resultado.",
		},
		[]string{"mode", "result"},
	)

	ordersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clicheria",
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Órdenes de servicio creadas por producto.",
		},
		[]string{"product"},
	)

	alertRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clicheria",
			Subsystem: "alerts",
			Name:      "runs_total",
			Help:      "Ejecuciones del programador de alertas.",
		},
		[]string{"success"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		wizardSubmits,
		ordersCreated,
		alertRuns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler expone los colectores registrados.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware mide peticiones por ruta registrada (no por path crudo, para
// no disparar la cardinalidad con ids).
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "/metrics" {
			return err
		}
		httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// RecordSubmit registra un envío del asistente.
func RecordSubmit(mode string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	wizardSubmits.WithLabelValues(mode, result).Inc()
}

// RecordOrderCreated registra una orden creada.
func RecordOrderCreated(product string) {
	ordersCreated.WithLabelValues(product).Inc()
}

// RecordAlertRun registra una pasada del programador de alertas.
func RecordAlertRun(success bool) {
	alertRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
}
