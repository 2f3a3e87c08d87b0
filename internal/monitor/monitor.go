// Package monitor provides a thin mutual-exclusion and condition-signalling
// abstraction on top of sync.Mutex/sync.Cond, insulating callers (chiefly
// internal/buffer) from the platform-level threading primitives.
package monitor

import "sync"

// Monitor guards a critical section and hands out condition variables that
// share its lock. All mutation of state protected by a Monitor must happen
// between Enter and Exit.
type Monitor struct {
	mu sync.Mutex
}

// New returns a ready-to-use Monitor.
func New() *Monitor {
	return new(Monitor)
}

// Enter acquires exclusive access to the section.
func (m *Monitor) Enter() {
	m.mu.Lock()
}

// Exit releases exclusive access to the section. Callers must ensure Exit
// runs on every exit path, including error paths (typically via defer).
func (m *Monitor) Exit() {
	m.mu.Unlock()
}

// NewCond returns a new condition variable bound to this Monitor's lock. A
// Monitor normally hands out one Cond per wake condition it needs to expose
// (e.g. Buffer's "not-full" and "not-empty").
func (m *Monitor) NewCond() *Cond {
	return &Cond{cond: sync.NewCond(&m.mu)}
}

// Cond is a condition variable associated with a Monitor. It must only be
// waited on, signalled, or broadcast while the owning Monitor's section is
// held.
type Cond struct {
	cond *sync.Cond
}

// Wait atomically releases the Monitor's section, suspends the calling
// goroutine until Signal or Broadcast is called, and reacquires the section
// before returning. Spurious wakeups are permitted: callers must always
// re-check their predicate in a loop.
func (c *Cond) Wait() {
	c.cond.Wait()
}

// Signal wakes at most one goroutine waiting on c. A no-op if none are
// waiting.
func (c *Cond) Signal() {
	c.cond.Signal()
}

// Broadcast wakes every goroutine waiting on c.
func (c *Cond) Broadcast() {
	c.cond.Broadcast()
}
