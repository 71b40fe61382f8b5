package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage labels for OutputErrors.
const (
	StageOpen   = "open"
	StageWrite  = "write"
	StageClose  = "close"
	StageMirror = "mirror"
)

type Metrics struct {
	RecordsWritten    prometheus.Counter
	RecordsMirrored   prometheus.Counter
	OutputErrors      *prometheus.CounterVec
	GenerationSeconds prometheus.Histogram
	OutputBytes       prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RecordsWritten: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "datasim_records_written_total",
			Help: "Total number of records written to the dataset file.",
		}),
		RecordsMirrored: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "datasim_records_mirrored_total",
			Help: "Total number of records copied into the database mirror.",
		}),
		OutputErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "datasim_output_errors_total",
			Help: "Total number of failures while producing the dataset.",
		}, []string{"stage"}),
		GenerationSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "datasim_generation_duration_seconds",
			Help:    "Duration of writing the dataset file.",
			Buckets: prometheus.DefBuckets,
		}),
		OutputBytes: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "datasim_output_bytes",
			Help: "Size of the last dataset file written.",
		}),
	}
}

// WriteTextfile dumps everything gathered by g into path using the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}
