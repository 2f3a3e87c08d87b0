// Package endpoint implements the two fixed endpoint stages from spec.md
// §4.5: a line reader feeding buffer zero, and a line writer draining the
// last buffer.
package endpoint

import (
	"bufio"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/textpipe/textpipe/internal/buffer"
	"github.com/textpipe/textpipe/internal/item"
)

// Sentinel is the literal line that terminates input without itself being
// processed.
const Sentinel = "<END>"

// Reader reads lines from src and pushes them to Output, stopping at the
// Sentinel line or source EOF. Either way it closes Output before exiting,
// the same shutdown-propagation obligation every stage carries.
type Reader struct {
	src    io.Reader
	out    *buffer.Buffer
	logger logrus.FieldLogger
	done   chan struct{}
}

// NewReader returns an Idle Reader. Call Start to begin reading.
func NewReader(src io.Reader, out *buffer.Buffer, logger logrus.FieldLogger) *Reader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Reader{src: src, out: out, logger: logger, done: make(chan struct{})}
}

// Start spawns the reader's goroutine.
func (r *Reader) Start() {
	go r.run()
}

// Wait blocks until the reader has exited.
func (r *Reader) Wait() {
	<-r.done
}

func (r *Reader) run() {
	defer close(r.done)
	defer r.out.Close()

	scanner := bufio.NewScanner(r.src)
	// Lines are kilobyte-scale per spec.md §3; allow generously larger
	// ones without silently truncating.
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := scanner.Bytes()
		if string(line) == Sentinel {
			return
		}

		data := make([]byte, len(line))
		copy(data, line)

		if res := r.out.Push(item.New(data)); res == buffer.Closed {
			// Downstream has no further use for input; nothing
			// more for the reader to do.
			return
		}
	}
	if err := scanner.Err(); err != nil {
		r.logger.WithField("err", err).Error("input reader: error reading standard input")
	}
}
