package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the weatherlog metrics only; a batch run dumps it to a
// textfile instead of serving it.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	DaysSimulated = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "weatherlog_days_simulated_total",
			Help: "Total daily logs simulated",
		},
	)

	ReadingsGenerated = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "weatherlog_readings_generated_total",
			Help: "Total hourly readings generated",
		},
	)

	LogAppends = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherlog_log_appends_total",
			Help: "Daily logs offered to the log collection",
		},
		[]string{"status"},
	)

	FileWrites = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherlog_file_writes_total",
			Help: "Output writes by kind (daily, system, summary, archive, chart)",
		},
		[]string{"kind", "status"},
	)

	HourlyTemperature = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weatherlog_hourly_temperature_celsius",
			Help:    "Simulated hourly temperatures",
			Buckets: prometheus.LinearBuckets(10, 2, 10),
		},
	)

	RunDuration = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "weatherlog_run_duration_seconds",
			Help: "Wall time of the last run",
		},
	)
)

// Status label values.
const (
	StatusStored   = "stored"
	StatusRejected = "rejected"
	StatusOK       = "ok"
	StatusError    = "error"
)

// RecordWrite counts one output write of kind.
func RecordWrite(kind string, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	FileWrites.WithLabelValues(kind, status).Inc()
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
