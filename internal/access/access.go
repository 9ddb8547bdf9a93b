// Package access defines the records and capability through which array
// accesses are observed.
//
// An [Observer] is handed to an instrumented array and is called
// synchronously, on the accessing goroutine, before every read or write
// becomes visible. The core never depends on a concrete observer: the event
// channel, counters and recorders in this module are all just Observers.
package access

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Op distinguishes reads from writes.
type Op uint8

const (
	// OpRead is an element read.
	OpRead Op = iota
	// OpWrite is an element write, including a blank (clearing) write.
	OpWrite
)

// String returns "read" or "write".
func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Value is an element that may be absent.
type Value[T any] struct {
	V     T
	Valid bool
}

// Some returns a present value.
func Some[T any](v T) Value[T] {
	return Value[T]{V: v, Valid: true}
}

// Blank returns an absent value.
func Blank[T any]() Value[T] {
	return Value[T]{}
}

// String renders the value, or "_" when blank.
func (v Value[T]) String() string {
	if !v.Valid {
		return "_"
	}
	return fmt.Sprint(v.V)
}

// Event is an immutable record of one access. Seq is assigned by the
// channel producer in emission order, starting at 1.
type Event struct {
	Seq   uint64
	Op    Op
	Index int
	Value Value[int]
}

// IsWrite reports whether the event describes a write.
func (e Event) IsWrite() bool {
	return e.Op == OpWrite
}

// String renders the event for logs and test failures.
func (e Event) String() string {
	return fmt.Sprintf("#%d %s[%d]=%s", e.Seq, e.Op, e.Index, e.Value)
}

// Observer receives access notifications. Implementations must not block
// indefinitely: a blocked observer stalls the sort.
type Observer[T any] interface {
	Access(op Op, index int, value Value[T])
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc[T any] func(op Op, index int, value Value[T])

// Access calls f.
func (f ObserverFunc[T]) Access(op Op, index int, value Value[T]) {
	f(op, index, value)
}

// Multi fans each notification out to several observers, in order.
type Multi[T any] struct {
	observers []Observer[T]
}

// NewMulti creates a Multi that forwards to all non-nil observers.
func NewMulti[T any](observers ...Observer[T]) *Multi[T] {
	filtered := make([]Observer[T], 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &Multi[T]{observers: filtered}
}

func (m *Multi[T]) Access(op Op, index int, value Value[T]) {
	for _, obs := range m.observers {
		obs.Access(op, index, value)
	}
}

// Counter tallies reads and writes. Counts may be read from any goroutine
// while the producer is still running.
type Counter[T any] struct {
	reads  atomic.Uint64
	writes atomic.Uint64
}

func (c *Counter[T]) Access(op Op, _ int, _ Value[T]) {
	if op == OpWrite {
		c.writes.Add(1)
		return
	}
	c.reads.Add(1)
}

// Reads returns the number of reads observed so far.
func (c *Counter[T]) Reads() uint64 { return c.reads.Load() }

// Writes returns the number of writes observed so far.
func (c *Counter[T]) Writes() uint64 { return c.writes.Load() }

// Access is one recorded notification.
type Access[T any] struct {
	Op    Op
	Index int
	Value Value[T]
}

// Recorder keeps every notification it receives. It is safe for concurrent
// use, though a single producer is the expected caller.
type Recorder[T any] struct {
	mu       sync.Mutex
	accesses []Access[T]
}

func (r *Recorder[T]) Access(op Op, index int, value Value[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accesses = append(r.accesses, Access[T]{Op: op, Index: index, Value: value})
}

// Accesses returns a copy of the recorded notifications.
func (r *Recorder[T]) Accesses() []Access[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Access[T], len(r.accesses))
	copy(out, r.accesses)
	return out
}

// Count returns how many notifications of the given op were recorded.
func (r *Recorder[T]) Count(op Op) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.accesses {
		if a.Op == op {
			n++
		}
	}
	return n
}

// Reset drops everything recorded so far.
func (r *Recorder[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accesses = nil
}
