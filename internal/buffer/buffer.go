// Package buffer implements the bounded, thread-safe FIFO that connects
// pipeline stages: the core described in spec.md §3 and §4.2.
package buffer

import (
	"github.com/textpipe/textpipe/internal/item"
	"github.com/textpipe/textpipe/internal/monitor"
)

// PushResult is the outcome of a Push call.
type PushResult int

const (
	// Ok indicates the item was enqueued; ownership transferred to the
	// buffer.
	Ok PushResult = iota
	// Closed indicates the buffer was (or became) closed before the item
	// could be enqueued. The item was not enqueued and remains owned by
	// the caller, who is responsible for releasing it.
	Closed
)

// PopResult is the outcome of a Pop call.
type PopResult int

const (
	// Item indicates an item was dequeued; ownership transferred to the
	// caller.
	Item PopResult = iota
	// End indicates the buffer is closed and drained: no more items will
	// ever be available.
	End
)

// Buffer is a bounded FIFO of capacity C holding *item.Item values. It
// supports one-shot shutdown (Close) that lets already-enqueued items drain
// before signalling end-of-stream, per spec.md §4.2.
//
// A ring (fixed slot array with head/tail indices) is the natural
// implementation; that is what's used here.
type Buffer struct {
	mon      *monitor.Monitor
	notFull  *monitor.Cond
	notEmpty *monitor.Cond
	slots    []*item.Item
	head     int // index of the oldest item
	size     int // number of occupied slots
	closed   bool
}

// New returns an empty, open Buffer of the given strictly positive capacity.
// A non-positive capacity is a programmer error and panics.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		panic("buffer: capacity must be > 0")
	}
	b := &Buffer{
		slots: make([]*item.Item, capacity),
	}
	b.mon = monitor.New()
	b.notFull = b.mon.NewCond()
	b.notEmpty = b.mon.NewCond()
	return b
}

// Capacity returns C, the fixed slot count the buffer was constructed with.
func (b *Buffer) Capacity() int {
	return len(b.slots)
}

// Push enqueues it at the tail of the buffer, blocking while the buffer is
// full and open. If the buffer is already closed, or becomes closed while
// the caller is blocked, Push returns Closed without enqueuing; the caller
// keeps ownership of it and must release it itself.
func (b *Buffer) Push(it *item.Item) PushResult {
	b.mon.Enter()
	defer b.mon.Exit()

	if b.closed {
		return Closed
	}
	for b.size == len(b.slots) && !b.closed {
		b.notFull.Wait()
	}
	if b.closed {
		return Closed
	}

	tail := (b.head + b.size) % len(b.slots)
	b.slots[tail] = it
	b.size++
	b.notEmpty.Signal()
	return Ok
}

// Pop dequeues the head item, blocking while the buffer is empty and open.
// Once the buffer is closed, Pop continues to drain and deliver any items
// enqueued before closure in FIFO order; only once the buffer is both
// closed and empty does Pop return End.
func (b *Buffer) Pop() (*item.Item, PopResult) {
	b.mon.Enter()
	defer b.mon.Exit()

	for b.size == 0 && !b.closed {
		b.notEmpty.Wait()
	}
	if b.size == 0 {
		// closed && empty
		return nil, End
	}

	it := b.slots[b.head]
	b.slots[b.head] = nil
	b.head = (b.head + 1) % len(b.slots)
	b.size--
	b.notFull.Signal()
	return it, Item
}

// Close transitions the buffer from open to closed. Idempotent: calling
// Close more than once has no additional effect. Close does not drain the
// buffer; items already enqueued remain available to subsequent Pop calls.
func (b *Buffer) Close() {
	b.mon.Enter()
	defer b.mon.Exit()

	if b.closed {
		return
	}
	b.closed = true
	// A broadcast, not a signal, is required here: any number of
	// producers and consumers may be parked on either condition, and all
	// of them must learn of the closure.
	b.notFull.Broadcast()
	b.notEmpty.Broadcast()
}

// Len returns the current number of enqueued items. Intended for metrics
// and tests; the value may be stale the instant it is returned.
func (b *Buffer) Len() int {
	b.mon.Enter()
	defer b.mon.Exit()
	return b.size
}

// Closed reports whether Close has been called. Intended for metrics and
// tests; like Len, the value may be stale the instant it is returned.
func (b *Buffer) Closed() bool {
	b.mon.Enter()
	defer b.mon.Exit()
	return b.closed
}
