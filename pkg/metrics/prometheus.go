package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal    *prometheus.CounterVec
	signalsTotal *prometheus.CounterVec
	gapsTotal    *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastClose    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gfquant_pipeline_runs_total",
				Help: "Total number of pipeline runs",
			},
			[]string{"trigger", "result"},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gfquant_signals_total",
				Help: "Total number of signals emitted",
			},
			[]string{"symbol", "horizon", "decision"},
		),
		gapsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gfquant_alignment_gaps_total",
				Help: "Total number of bars with no feature row for a horizon",
			},
			[]string{"symbol", "horizon"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gfquant_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastClose: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gfquant_last_close",
				Help: "Last observed close price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gfquant_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRun records a completed pipeline run.
func (r *Recorder) RecordRun(trigger, result string) {
	r.runsTotal.WithLabelValues(trigger, result).Inc()
}

// RecordSignal records an emitted signal.
func (r *Recorder) RecordSignal(symbol, horizon, decision string) {
	r.signalsTotal.WithLabelValues(symbol, horizon, decision).Inc()
}

// RecordGap records an alignment gap.
func (r *Recorder) RecordGap(symbol, horizon string) {
	r.gapsTotal.WithLabelValues(symbol, horizon).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastClose records the last close price for a symbol.
func (r *Recorder) RecordLastClose(symbol string, price float64) {
	r.lastClose.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
