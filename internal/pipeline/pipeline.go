// Package pipeline implements the assembler from spec.md §4.4: it builds
// the chain of N+1 buffers and N stages, starts the endpoint stages, and
// coordinates the forward-propagating shutdown protocol through to every
// goroutine joining.
package pipeline

import (
	"errors"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/textpipe/textpipe/internal/buffer"
	"github.com/textpipe/textpipe/internal/endpoint"
	"github.com/textpipe/textpipe/internal/metrics"
	"github.com/textpipe/textpipe/internal/stage"
)

// ErrNoStages is returned by Build when called with zero stage factories.
// Spec.md §6: "at least one stage is required".
var ErrNoStages = errors.New("pipeline: at least one stage is required")

// Option customizes a Pipeline built by Build.
type Option func(*Pipeline)

// WithLogger overrides the default logger, logrus.StandardLogger().
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithTracer overrides the default opentracing.NoopTracer, propagated to
// every stage worker.
func WithTracer(tracer opentracing.Tracer) Option {
	return func(p *Pipeline) { p.tracer = tracer }
}

// WithMetrics attaches a metrics.Recorder, propagated to every stage
// worker. A nil Recorder (the default) disables metrics.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(p *Pipeline) { p.metrics = recorder }
}

// WithClock overrides the default clock.WallClock used to pace the
// periodic throughput log line.
func WithClock(clk clock.Clock) Option {
	return func(p *Pipeline) { p.clock = clk }
}

// WithStatsInterval sets how often the periodic throughput log line is
// emitted. Zero disables it.
func WithStatsInterval(d time.Duration) Option {
	return func(p *Pipeline) { p.statsInterval = d }
}

// Pipeline is the assembled chain: N+1 buffers and N stage workers, plus
// (once Start is called) the reader and writer endpoint stages.
type Pipeline struct {
	buffers []*buffer.Buffer
	workers []*stage.Worker
	names   []string

	logger  logrus.FieldLogger
	tracer  opentracing.Tracer
	metrics *metrics.Recorder
	clock   clock.Clock

	statsInterval time.Duration
	statsDone     chan struct{}

	reader *endpoint.Reader
	writer *endpoint.Writer
}

// Build allocates len(factories)+1 buffers of the given capacity and
// instantiates a running worker for each factory, wiring stage i's input to
// buffer i and its output to buffer i+1. On any factory failure it rolls
// back every buffer and worker already constructed before returning the
// error (spec.md §4.4, "Failure paths during assembly").
func Build(factories []stage.Factory, capacity int, opts ...Option) (*Pipeline, error) {
	if len(factories) == 0 {
		return nil, ErrNoStages
	}

	p := &Pipeline{
		logger:        logrus.StandardLogger(),
		tracer:        opentracing.NoopTracer{},
		clock:         clock.WallClock,
		statsInterval: 0,
	}
	for _, opt := range opts {
		opt(p)
	}

	buffers := make([]*buffer.Buffer, len(factories)+1)
	for i := range buffers {
		buffers[i] = buffer.New(capacity)
	}

	workers := make([]*stage.Worker, 0, len(factories))
	names := make([]string, 0, len(factories))
	for i, f := range factories {
		p.logger.WithField("stage", f.Name()).Info("starting stage")

		w, err := f.New(buffers[i], buffers[i+1],
			stage.WithLogger(p.logger),
			stage.WithTracer(p.tracer),
			stage.WithMetrics(p.metrics),
		)
		if err != nil {
			rbErr := rollback(buffers, workers)
			if rbErr != nil {
				return nil, multierror.Append(err, rbErr)
			}
			return nil, err
		}
		workers = append(workers, w)
		names = append(names, f.Name())
	}

	p.buffers = buffers
	p.workers = workers
	p.names = names
	return p, nil
}

// rollback closes every already-constructed buffer (unblocking any worker
// parked on one) and joins every already-started worker. Buffer.Close and
// Worker.Wait have no failure mode today, but the multierror-shaped return
// keeps this symmetric with the rest of the rollback-on-failure convention
// used across the codebase (see internal/tracer.Pool.Close).
func rollback(buffers []*buffer.Buffer, workers []*stage.Worker) error {
	for _, b := range buffers {
		b.Close()
	}
	for _, w := range workers {
		w.Wait()
	}
	return nil
}

// Start wires src as the input reader (feeding buffer 0) and dst as the
// output writer (draining the last buffer), and starts both.
func (p *Pipeline) Start(src io.Reader, dst io.Writer) {
	p.reader = endpoint.NewReader(src, p.buffers[0], p.logger)
	p.writer = endpoint.NewWriter(dst, p.buffers[len(p.buffers)-1], p.logger)
	p.reader.Start()
	p.writer.Start()

	if p.statsInterval > 0 {
		p.statsDone = make(chan struct{})
		go p.statsLoop()
	}
}

// Stop requests early termination by closing buffer 0 from the outside,
// exactly as spec.md §4.3 describes for external cancellation: "External
// stop is also implemented by closing the worker's input buffer from
// outside, which cleanly unblocks any parked pop." The close then
// propagates forward through the existing shutdown protocol.
func (p *Pipeline) Stop() {
	p.buffers[0].Close()
}

// Wait blocks until the reader, every stage worker (in order), and the
// writer have all exited, then returns. No work remains in any buffer once
// Wait returns (spec.md §4.4 step 4-5).
func (p *Pipeline) Wait() {
	p.reader.Wait()
	for _, w := range p.workers {
		w.Wait()
	}
	p.writer.Wait()
	if p.statsDone != nil {
		close(p.statsDone)
	}
}

// Stages returns the ordered stage names this pipeline was built with.
func (p *Pipeline) Stages() []string {
	return append([]string(nil), p.names...)
}

// Metrics returns the Recorder this pipeline was built with, or nil.
func (p *Pipeline) Metrics() *metrics.Recorder {
	return p.metrics
}

func (p *Pipeline) statsLoop() {
	for {
		select {
		case <-p.clock.After(p.statsInterval):
			p.logStats()
		case <-p.statsDone:
			return
		}
	}
}

func (p *Pipeline) logStats() {
	fields := logrus.Fields{}
	for i, name := range p.names {
		fields[name+"_buffer_len"] = p.buffers[i].Len()
		if p.metrics != nil {
			fields[name+"_processed"] = p.metrics.Processed(name)
			fields[name+"_dropped"] = p.metrics.Dropped(name)
		}
	}
	p.logger.WithFields(fields).Info("pipeline throughput snapshot")
}
