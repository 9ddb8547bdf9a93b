// Package radix implements a variable-radix LSD (least significant digit)
// radix sort that touches its input only through an instrumented array.
//
// The engine never compares two elements. It scans once for the maximum,
// derives the number of significant digits d in the chosen radix, then for
// each digit place counts digits, distributes the elements into exactly
// sized buckets in their current order and writes the buckets back. Because
// each distribution is stable, after place p the array is ordered by its low
// p digits, and after place d it is fully sorted.
//
// For n elements and no all-zero digit column, a sort performs n*(1+2d)
// reads and n*d writes, all observable through the array's observer.
package radix

import (
	"github.com/Iron-Ham/sortscope/internal/array"
	"github.com/Iron-Ham/sortscope/internal/errors"
	"github.com/Iron-Ham/sortscope/internal/event"
	"github.com/Iron-Ham/sortscope/internal/logging"
)

// MinRadix is the smallest radix the engine accepts.
const MinRadix = 2

// Engine sorts arrays of non-negative integers in a fixed radix.
type Engine struct {
	radix  int
	bus    *event.Bus
	logger *logging.Logger

	last Stats
}

// Option configures an Engine.
type Option func(*Engine)

// WithBus publishes sort lifecycle events on bus.
func WithBus(bus *event.Bus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithLogger logs pass-level detail at DEBUG.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine. It fails with ErrInvalidRadix when radix < 2.
func New(radix int, opts ...Option) (*Engine, error) {
	if radix < MinRadix {
		return nil, errors.NewRadixError(radix)
	}
	e := &Engine{radix: radix}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NopLogger()
	}
	return e, nil
}

// Sort sorts a in ascending order using the given radix.
func Sort(a *array.Array[int], radix int, opts ...Option) error {
	e, err := New(radix, opts...)
	if err != nil {
		return err
	}
	return e.Sort(a)
}

// Radix returns the engine's radix.
func (e *Engine) Radix() int {
	return e.radix
}

// Stats describes the most recent Sort call.
type Stats struct {
	N             int
	Radix         int
	Max           int
	Digits        int  // significant digit count of Max
	Passes        int  // places whose buckets were written back
	SkippedPasses int  // places whose digits were all zero
	EarlyExit     bool // the loop stopped without a digit left to sort
}

// LastRun returns statistics for the most recent Sort call.
func (e *Engine) LastRun() Stats {
	return e.last
}

// Digits returns the number of digit places needed to write maxValue in the
// given radix. Digits(0, r) is 1.
func Digits(maxValue, radix int) int {
	d := 1
	for rest := maxValue / radix; rest >= 1; rest /= radix {
		d++
	}
	return d
}

// Sort sorts a in ascending order. Every element must be present and
// non-negative; the first offending element found by the max scan fails
// the sort with ErrInvalidInput before any write happens.
func (e *Engine) Sort(a *array.Array[int]) (err error) {
	n := a.Len()
	e.last = Stats{N: n, Radix: e.radix}
	e.publish(event.NewSortStartedEvent(n, e.radix))
	defer func() {
		if err != nil {
			e.publish(event.NewSortFailedEvent(err))
			e.logger.Warn("sort failed", "error", err.Error())
			return
		}
		e.publish(event.NewSortCompletedEvent(e.last.Digits, e.last.Passes, e.last.SkippedPasses, e.last.EarlyExit))
	}()

	maxValue, err := e.scanMax(a)
	if err != nil {
		return err
	}
	d := Digits(maxValue, e.radix)
	e.last.Max, e.last.Digits = maxValue, d
	e.logger.Debug("max scan complete", "length", n, "max", maxValue, "digits", d)

	sizes := make([]int, bucketCount(maxValue, e.radix))
	reduction := 1 // radix^(place-1)
	for place := 1; place <= d; place++ {
		e.publish(event.NewPassStartedEvent(place, d, maxValue))

		clear(sizes)
		higher := false
		for i := 0; i < n; i++ {
			v, err := a.Get(i)
			if err != nil {
				return err
			}
			sizes[(v/reduction)%e.radix]++
			if v/reduction >= e.radix {
				higher = true
			}
		}

		if sizes[0] == n {
			if !higher {
				// No element has a digit at this place or above.
				e.last.EarlyExit = true
				e.logger.Debug("no significant digits remain", "place", place)
				break
			}
			// A zero column: distributing it would reproduce the current order.
			e.last.SkippedPasses++
			e.logger.Debug("skipping all-zero digit column", "place", place)
		} else {
			if err := e.distribute(a, sizes, reduction); err != nil {
				return err
			}
			e.last.Passes++
			e.logger.Debug("pass complete", "place", place, "buckets", nonEmpty(sizes))
		}

		if place < d {
			reduction *= e.radix
		}
	}

	return nil
}

// scanMax reads every element once in ascending order and returns the
// largest. An empty array has max 0.
func (e *Engine) scanMax(a *array.Array[int]) (int, error) {
	maxValue := 0
	for i := 0; i < a.Len(); i++ {
		v, err := a.Lookup(i)
		if err != nil {
			return 0, err
		}
		if !v.Valid {
			return 0, errors.NewInputError(i, 0, "blank element")
		}
		if v.V < 0 {
			return 0, errors.NewInputError(i, v.V, "negative value")
		}
		if v.V > maxValue {
			maxValue = v.V
		}
	}
	return maxValue, nil
}

// distribute stably moves every element into its digit bucket and writes
// the buckets back in digit order.
func (e *Engine) distribute(a *array.Array[int], sizes []int, reduction int) error {
	buckets := make([][]int, len(sizes))
	for digit, size := range sizes {
		buckets[digit] = make([]int, size)
	}
	cursors := make([]int, len(sizes))

	for i := 0; i < a.Len(); i++ {
		v, err := a.Get(i)
		if err != nil {
			return err
		}
		digit := (v / reduction) % e.radix
		buckets[digit][cursors[digit]] = v
		cursors[digit]++
	}

	pos := 0
	for _, bucket := range buckets {
		for _, v := range bucket {
			if err := a.Set(pos, v); err != nil {
				return err
			}
			pos++
		}
	}
	return nil
}

func (e *Engine) publish(ev event.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

// bucketCount is the number of digit values that can occur: a digit never
// exceeds maxValue, so a radix above maxValue+1 needs only maxValue+1 buckets.
func bucketCount(maxValue, radix int) int {
	if maxValue < radix {
		return maxValue + 1
	}
	return radix
}

func nonEmpty(sizes []int) int {
	n := 0
	for _, s := range sizes {
		if s > 0 {
			n++
		}
	}
	return n
}
