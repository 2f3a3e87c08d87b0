// Package item defines the payload type that travels through a textpipe
// pipeline: one owned line of bytes, correlated by a UUID and carrying a
// tracing context so stages can attach spans without a second data path.
package item

import (
	"context"

	"github.com/google/uuid"
)

// Item is one owned byte string flowing through the pipeline, corresponding
// to one input line. It is produced at exactly one place, owned by exactly
// one party at any moment, and consumed exactly once.
type Item struct {
	// ID correlates an item across logs and trace spans. It plays no part
	// in FIFO ordering or equality and is never interpreted by a transform.
	ID uuid.UUID
	// Data is the line's bytes, without a line terminator.
	Data []byte
	// Ctx carries this item's trace span (if tracing is enabled) from
	// stage to stage. It is never used for cancellation.
	Ctx context.Context
}

// New returns an Item wrapping data, with a freshly minted correlation ID
// and a background tracing context.
func New(data []byte) *Item {
	return &Item{
		ID:   uuid.New(),
		Data: data,
		Ctx:  context.Background(),
	}
}

// Clone returns a deep copy of it, safe to hand to a second, independent
// consumer (the pipeline proper never calls it and never shares an Item
// after it has been popped).
func (it *Item) Clone() *Item {
	data := make([]byte, len(it.Data))
	copy(data, it.Data)
	return &Item{ID: it.ID, Data: data, Ctx: it.Ctx}
}
