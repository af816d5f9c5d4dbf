package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "corebench"

// Recorder exports invocation metrics through a private Prometheus registry.
// It is safe for concurrent use.
type Recorder struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	iterations  prometheus.Counter
	rate        *prometheus.GaugeVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "invocations_total",
				Help:      "Workload invocations by benchmark and status.",
			},
			[]string{"benchmark", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "invocation_duration_seconds",
				Help:      "Elapsed time of successful workload invocations.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
			},
			[]string{"benchmark"},
		),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "iterations_total",
			Help:      "Completed suite iterations.",
		}),
		rate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "benchmark_rate",
				Help:      "Calls per second summed over workers in the last iteration.",
			},
			[]string{"benchmark"},
		),
	}
	r.registry.MustRegister(r.invocations, r.duration, r.iterations, r.rate)
	return r
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveOutcome records one invocation.
func (r *Recorder) ObserveOutcome(o Outcome) {
	status := "ok"
	switch {
	case o.Failed():
		status = "error"
	case o.Verdict == VerdictFail:
		status = "fail"
	}
	r.invocations.WithLabelValues(o.Benchmark, status).Inc()
	if !o.Failed() {
		r.duration.WithLabelValues(o.Benchmark).Observe(o.Elapsed.Seconds())
	}
}

// ObserveFold records the aggregate of one benchmark in one iteration.
func (r *Recorder) ObserveFold(name string, f Fold) {
	r.rate.WithLabelValues(name).Set(f.Rate)
}

// ObserveIteration counts a completed iteration.
func (r *Recorder) ObserveIteration() {
	r.iterations.Inc()
}

// WriteTextfile writes the current metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
