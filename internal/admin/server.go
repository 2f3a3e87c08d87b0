// Package admin serves pipeline diagnostics over HTTP: a health probe, a
// JSON snapshot of per-stage throughput, and the Prometheus scrape
// endpoint. Routing follows the gorilla/mux style used throughout the
// teacher's later chapters for small ancillary HTTP surfaces.
package admin

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/textpipe/textpipe/internal/metrics"
)

// StageStats is the shape returned by GET /stages.
type StageStats struct {
	Name      string  `json:"name"`
	Processed float64 `json:"processed"`
	Dropped   float64 `json:"dropped"`
}

// Server exposes pipeline diagnostics. It is safe to construct before the
// pipeline has finished starting: Healthz only reports true once Ready is
// called.
type Server struct {
	stages  []string
	metrics *metrics.Recorder
	ready   int32
}

// NewServer returns a Server reporting on the given stage names using
// recorder (which may be nil, in which case /stages reports zero counts).
func NewServer(stages []string, recorder *metrics.Recorder) *Server {
	return &Server{stages: stages, metrics: recorder}
}

// Ready marks the server healthy. Call once the pipeline has started.
// Safe to call concurrently with handleHealthz, which runs on its own
// per-request goroutine (same atomic-flag pattern as the teacher's
// step counters in Chapter08/bspgraph/graph.go).
func (s *Server) Ready() { atomic.StoreInt32(&s.ready, 1) }

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/stages", s.handleStages).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	if atomic.LoadInt32(&s.ready) == 0 {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStages(w http.ResponseWriter, _ *http.Request) {
	stats := make([]StageStats, 0, len(s.stages))
	for _, name := range s.stages {
		st := StageStats{Name: name}
		if s.metrics != nil {
			st.Processed = s.metrics.Processed(name)
			st.Dropped = s.metrics.Dropped(name)
		}
		stats = append(stats, st)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}
