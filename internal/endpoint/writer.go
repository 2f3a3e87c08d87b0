package endpoint

import (
	"bufio"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/textpipe/textpipe/internal/buffer"
)

// Writer pops items from Input and writes each, followed by a newline, to
// dst, flushing after every line. It exits once Input signals end-of-stream.
type Writer struct {
	dst    io.Writer
	in     *buffer.Buffer
	logger logrus.FieldLogger
	done   chan struct{}
}

// NewWriter returns an Idle Writer. Call Start to begin writing.
func NewWriter(dst io.Writer, in *buffer.Buffer, logger logrus.FieldLogger) *Writer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Writer{dst: dst, in: in, logger: logger, done: make(chan struct{})}
}

// Start spawns the writer's goroutine.
func (w *Writer) Start() {
	go w.run()
}

// Wait blocks until the writer has exited.
func (w *Writer) Wait() {
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)

	bw := bufio.NewWriter(w.dst)
	for {
		it, res := w.in.Pop()
		if res == buffer.End {
			return
		}
		if _, err := bw.Write(it.Data); err != nil {
			w.logger.WithField("err", err).Error("output writer: write failed")
			return
		}
		if err := bw.WriteByte('\n'); err != nil {
			w.logger.WithField("err", err).Error("output writer: write failed")
			return
		}
		if err := bw.Flush(); err != nil {
			w.logger.WithField("err", err).Error("output writer: flush failed")
			return
		}
	}
}
