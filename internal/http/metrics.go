package httpx

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeOK         = "ok"
	outcomeInvalid    = "invalid"
	outcomeArithmetic = "arithmetic"
	outcomeError      = "error"
)

// Metrics keeps its own registry so several routers can live in one process.
type Metrics struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	durations    prometheus.Histogram
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ratecalc",
		Name:      "calculations_total",
		Help:      "Rate calculations by outcome.",
	}, []string{"outcome"})
	durations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ratecalc",
		Name:      "calculation_duration_seconds",
		Help:      "Time spent computing a rate.",
		Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
	})
	registry.MustRegister(calculations, durations)
	return &Metrics{
		registry:     registry,
		calculations: calculations,
		durations:    durations,
	}
}

func (m *Metrics) Observe(outcome string, took time.Duration) {
	m.calculations.WithLabelValues(outcome).Inc()
	m.durations.Observe(took.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
