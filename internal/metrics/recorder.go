// Package metrics exposes benchmark measurements as Prometheus collectors and
// samples Go runtime memory usage.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "parsum"

// Recorder collects benchmark measurements on a private registry, so several
// recorders can coexist (one per run, one per test).
type Recorder struct {
	registry          *prometheus.Registry
	datasetSize       prometheus.Gauge
	datasetBytes      prometheus.Gauge
	sequentialSeconds prometheus.Gauge
	trialSeconds      *prometheus.GaugeVec
	speedup           *prometheus.GaugeVec
	efficiency        *prometheus.GaugeVec
	mismatches        *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its collectors registered, plus the
// standard Go runtime collector.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		datasetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "dataset_elements",
			Help: "Number of integers in the loaded dataset.",
		}),
		datasetBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "dataset_allocated_bytes",
			Help: "Bytes allocated while loading the dataset.",
		}),
		sequentialSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "sequential_seconds",
			Help: "Wall-clock time of the sequential sum.",
		}),
		trialSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "parallel_seconds",
			Help: "Wall-clock time of the parallel sum per worker count.",
		}, []string{"workers"}),
		speedup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "speedup_ratio",
			Help: "Sequential time divided by parallel time.",
		}, []string{"workers"}),
		efficiency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "efficiency_ratio",
			Help: "Speedup divided by worker count.",
		}, []string{"workers"}),
		mismatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "integrity_mismatches_total",
			Help: "Parallel totals that disagreed with the sequential total.",
		}, []string{"workers"}),
	}
	r.registry.MustRegister(
		r.datasetSize, r.datasetBytes, r.sequentialSeconds,
		r.trialSeconds, r.speedup, r.efficiency, r.mismatches,
		collectors.NewGoCollector(),
	)
	return r
}

// ObserveDataset records the size and load allocation of the dataset.
func (r *Recorder) ObserveDataset(elements int, allocated uint64) {
	r.datasetSize.Set(float64(elements))
	r.datasetBytes.Set(float64(allocated))
}

// ObserveSequential records the sequential baseline duration.
func (r *Recorder) ObserveSequential(d time.Duration) {
	r.sequentialSeconds.Set(d.Seconds())
}

// ObserveTrial records one parallel trial.
func (r *Recorder) ObserveTrial(workers int, d time.Duration, speedup, efficiency float64) {
	label := strconv.Itoa(workers)
	r.trialSeconds.WithLabelValues(label).Set(d.Seconds())
	r.speedup.WithLabelValues(label).Set(speedup)
	r.efficiency.WithLabelValues(label).Set(efficiency)
}

// ObserveMismatch counts an integrity failure.
func (r *Recorder) ObserveMismatch(workers int) {
	r.mismatches.WithLabelValues(strconv.Itoa(workers)).Inc()
}

// Gatherer returns the registry backing this recorder.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }

// WriteTextfile writes the recorded metrics to path in the text format read
// by the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
