// Package channel relays access events from the goroutine running a sort to
// a consumer that polls on its own schedule.
//
// A Channel has exactly one producer, obtained with Claim, and one consumer
// calling Drain or Poll. The producer paces itself with a fixed delay before
// every event so the consumer can watch the sort unfold, then appends under
// an exclusive-access gate. The consumer takes the gate, copies and clears the
// buffer and releases it. Concatenating every drained batch reproduces the
// producer's emission order exactly: nothing is dropped, duplicated or
// reordered, whatever the drain timing.
//
// # Completion
//
// The producer signals the end of its work with Producer.Close, passing the
// error that stopped it, if any. Close is ordered after every append, so the
// Poll that reports Final carries the last events of the run.
//
//	ch := channel.New(channel.Config{Delay: 2 * time.Millisecond})
//	prod, _ := ch.Claim()
//	go func() {
//	    err := radix.Sort(array.New(values, prod), 10)
//	    prod.Close(err)
//	}()
//	for {
//	    batch := ch.Poll()
//	    render(batch.Events)
//	    if batch.Final {
//	        break
//	    }
//	    time.Sleep(frame)
//	}
package channel

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Iron-Ham/sortscope/internal/access"
	"github.com/Iron-Ham/sortscope/internal/errors"
)

// Config configures a Channel.
type Config struct {
	Delay           time.Duration // Pause before every emitted event (0 = unpaced)
	Strategy        Strategy      // Gate strategy (default: mutex)
	SpinBackoff     time.Duration // Sleep between spin checks (default: 50µs)
	InitialCapacity int           // Initial buffer capacity (default: 1024)
}

// Channel is a single-producer/single-consumer event buffer.
type Channel struct {
	gate gate
	buf  []access.Event

	// Guarded by gate.
	closed   bool
	err      error
	reported bool

	delay   time.Duration
	sleep   func(time.Duration)
	claimed atomic.Bool
	done    chan struct{}

	emitted  atomic.Uint64
	drained  atomic.Uint64
	drains   atomic.Uint64
	rejected atomic.Uint64
}

// New creates a Channel.
func New(cfg Config) *Channel {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyMutex
	}
	if cfg.SpinBackoff <= 0 {
		cfg.SpinBackoff = 50 * time.Microsecond
	}
	if cfg.InitialCapacity <= 0 {
		cfg.InitialCapacity = 1024
	}

	return &Channel{
		gate:  newGate(cfg.Strategy, cfg.SpinBackoff),
		buf:   make([]access.Event, 0, cfg.InitialCapacity),
		delay: cfg.Delay,
		sleep: time.Sleep,
		done:  make(chan struct{}),
	}
}

// Claim returns the channel's producer. It succeeds once; any further
// call fails with ErrProducerClaimed.
func (c *Channel) Claim() (*Producer, error) {
	if !c.claimed.CompareAndSwap(false, true) {
		return nil, errors.ErrProducerClaimed
	}
	return &Producer{ch: c}, nil
}

// Drain returns every event appended since the previous drain, in emission
// order, and empties the buffer.
func (c *Channel) Drain() []access.Event {
	return c.Poll().Events
}

// Batch is the result of one Poll.
type Batch struct {
	Events []access.Event
	// Final is set on the first poll that observes the producer's Close.
	// No event follows a final batch.
	Final bool
	// Err is the producer's failure, reported with the final batch.
	Err error
}

// Poll drains the buffer and reports whether the producer has finished.
func (c *Channel) Poll() Batch {
	c.gate.acquire()
	var events []access.Event
	if len(c.buf) > 0 {
		events = make([]access.Event, len(c.buf))
		copy(events, c.buf)
		c.buf = c.buf[:0]
	}
	final := c.closed && !c.reported
	if final {
		c.reported = true
	}
	err := c.err
	c.gate.release()

	c.drains.Add(1)
	c.drained.Add(uint64(len(events)))

	b := Batch{Events: events, Final: final}
	if final {
		b.Err = err
	}
	return b
}

// Done is closed once the producer has closed.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Err returns the error the producer closed with, if it has closed.
func (c *Channel) Err() error {
	c.gate.acquire()
	defer c.gate.release()
	return c.err
}

// Stats is a point-in-time view of channel traffic.
type Stats struct {
	Emitted   uint64 // Events appended by the producer
	Drained   uint64 // Events handed to the consumer
	Drains    uint64 // Poll/Drain calls
	Pending   uint64 // Emitted but not yet drained
	Rejected  uint64 // Events offered after Close
	Contended uint64 // Gate acquisitions that had to wait
}

// Stats returns traffic counters. Safe to call from either side.
func (c *Channel) Stats() Stats {
	emitted := c.emitted.Load()
	drained := c.drained.Load()
	s := Stats{
		Emitted:   emitted,
		Drained:   drained,
		Drains:    c.drains.Load(),
		Rejected:  c.rejected.Load(),
		Contended: c.gate.contended(),
	}
	if emitted > drained {
		s.Pending = emitted - drained
	}
	return s
}

// Producer is the single writing side of a Channel. It implements
// access.Observer[int], so it can be handed straight to an instrumented array.
type Producer struct {
	ch        *Channel
	seq       uint64
	closeOnce sync.Once
}

// Access paces, then appends one event. Events offered after Close are
// counted as rejected and discarded.
func (p *Producer) Access(op access.Op, index int, value access.Value[int]) {
	c := p.ch
	if c.delay > 0 {
		c.sleep(c.delay)
	}

	c.gate.acquire()
	if c.closed {
		c.gate.release()
		c.rejected.Add(1)
		return
	}
	p.seq++
	c.buf = append(c.buf, access.Event{Seq: p.seq, Op: op, Index: index, Value: value})
	c.emitted.Add(1)
	c.gate.release()
}

// Close marks the producer finished, with err describing a failure. Only
// the first call has an effect.
func (p *Producer) Close(err error) {
	p.closeOnce.Do(func() {
		c := p.ch
		c.gate.acquire()
		c.closed = true
		c.err = err
		c.gate.release()
		close(c.done)
	})
}
