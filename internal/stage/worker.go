// Package stage implements the stage worker contract from spec.md §4.3: one
// goroutine per stage, driving a Transform between an input and an output
// buffer, and carrying the shutdown-propagation obligation ("close output
// on input-end").
package stage

import (
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/textpipe/textpipe/internal/buffer"
	"github.com/textpipe/textpipe/internal/item"
	"github.com/textpipe/textpipe/internal/metrics"
	"github.com/textpipe/textpipe/internal/transform"
)

// Worker drives one pipeline stage: pop from Input, apply Transform, push
// to Output, repeat; close Output once Input signals end-of-stream.
type Worker struct {
	name      string
	transform transform.Transform
	input     *buffer.Buffer
	output    *buffer.Buffer
	logger    logrus.FieldLogger
	tracer    opentracing.Tracer
	metrics   *metrics.Recorder

	done chan struct{}
}

// Option customizes a Worker constructed by New.
type Option func(*Worker)

// WithLogger overrides the default logger, logrus.StandardLogger().
func WithLogger(logger logrus.FieldLogger) Option {
	return func(w *Worker) { w.logger = logger }
}

// WithTracer overrides the default opentracing.NoopTracer.
func WithTracer(tracer opentracing.Tracer) Option {
	return func(w *Worker) { w.tracer = tracer }
}

// WithMetrics attaches a Recorder. A nil Recorder (the default) disables
// metrics recording.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(w *Worker) { w.metrics = recorder }
}

// New returns an Idle Worker bound to input and output. Call Start to spawn
// its goroutine.
func New(name string, tr transform.Transform, input, output *buffer.Buffer, opts ...Option) *Worker {
	w := &Worker{
		name:      name,
		transform: tr,
		input:     input,
		output:    output,
		logger:    logrus.StandardLogger(),
		tracer:    opentracing.NoopTracer{},
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name returns the stage's transform name.
func (w *Worker) Name() string { return w.name }

// Start transitions the worker from Idle to Running by spawning its
// goroutine. Start must be called at most once.
func (w *Worker) Start() {
	go w.run()
}

// Wait blocks until the worker has reached Terminated (its goroutine has
// exited). Safe to call multiple times and from multiple goroutines.
func (w *Worker) Wait() {
	<-w.done
}

// run implements the Running/Draining states of spec.md §4.3's state
// machine. It always closes its output before returning, regardless of how
// it got there, satisfying the shutdown-propagation obligation.
func (w *Worker) run() {
	defer close(w.done)
	defer w.output.Close()

	for {
		it, res := w.input.Pop()
		if res == buffer.End {
			return
		}

		span, ctx := opentracing.StartSpanFromContextWithTracer(it.Ctx, w.tracer, "stage:"+w.name)
		span.SetTag("item.id", it.ID.String())
		span.SetTag("item.len", len(it.Data))

		out, err := w.transform.Apply(it.Data)
		if err != nil {
			span.SetTag("error", true)
			span.Finish()
			w.metrics.IncDropped(w.name)
			w.logger.WithFields(logrus.Fields{
				"stage": w.name,
				"item":  it.ID,
				"err":   err,
			}).Warn("transform failed, dropping item")
			continue
		}
		span.Finish()

		outItem := &item.Item{ID: it.ID, Data: out, Ctx: ctx}
		w.metrics.IncProcessed(w.name)

		if pushRes := w.output.Push(outItem); pushRes == buffer.Closed {
			// Nothing more this worker can do: whoever closed our
			// output has no further use for it. There is no
			// upstream-facing close in this design (see
			// SPEC_FULL.md §D.1) so we simply stop pulling from
			// input and exit; the output Close in the deferred
			// call above is a no-op since it is already closed.
			return
		}
	}
}
