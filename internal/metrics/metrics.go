// Package metrics exposes pipeline throughput as Prometheus metrics,
// following the promauto usage in Chapter13/prom_http/main.go of the
// teacher this package was adapted from.
package metrics

import (
	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records per-stage throughput counters and buffer occupancy
// gauges. The zero value is not usable; construct with NewRecorder.
type Recorder struct {
	processed *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	bufferLen *prometheus.GaugeVec
}

// NewRecorder registers and returns a Recorder against the default
// Prometheus registry.
func NewRecorder() *Recorder {
	return &Recorder{
		processed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "textpipe_stage_items_processed_total",
			Help: "Total number of items successfully transformed and forwarded by a stage.",
		}, []string{"stage"}),
		dropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "textpipe_stage_items_dropped_total",
			Help: "Total number of items a stage's transform failed on and dropped.",
		}, []string{"stage"}),
		bufferLen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "textpipe_buffer_occupancy",
			Help: "Most recently observed number of items enqueued in an inter-stage buffer.",
		}, []string{"buffer"}),
	}
}

// IncProcessed records one successfully processed item for stage.
func (r *Recorder) IncProcessed(stage string) {
	if r == nil {
		return
	}
	r.processed.WithLabelValues(stage).Inc()
}

// IncDropped records one item dropped by stage's transform.
func (r *Recorder) IncDropped(stage string) {
	if r == nil {
		return
	}
	r.dropped.WithLabelValues(stage).Inc()
}

// SetBufferLen records the current occupancy of the named buffer.
func (r *Recorder) SetBufferLen(buffer string, n int) {
	if r == nil {
		return
	}
	r.bufferLen.WithLabelValues(buffer).Set(float64(n))
}

// Processed returns the current processed count for stage, for diagnostics
// and tests.
func (r *Recorder) Processed(stage string) float64 {
	return readCounter(r.processed.WithLabelValues(stage))
}

// Dropped returns the current dropped count for stage, for diagnostics and
// tests.
func (r *Recorder) Dropped(stage string) float64 {
	return readCounter(r.dropped.WithLabelValues(stage))
}

func readCounter(c prometheus.Counter) float64 {
	var m dto.Metric
	_ = c.Write(&m)
	return m.GetCounter().GetValue()
}
