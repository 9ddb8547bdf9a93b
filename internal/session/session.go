// Package session wires one visualized sort run together: an instrumented
// array whose observer is a channel producer, the radix engine running on a
// background task, and the consumer-facing channel.
//
// A Session runs exactly once:
//
//	sess, err := session.New(values, session.Config{Radix: 10})
//	if err != nil { ... }
//	if err := sess.Start(); err != nil { ... }
//	for {
//	    batch := sess.Channel().Poll()
//	    ...
//	    if batch.Final { break }
//	}
package session

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/sortscope/internal/access"
	"github.com/Iron-Ham/sortscope/internal/array"
	"github.com/Iron-Ham/sortscope/internal/channel"
	"github.com/Iron-Ham/sortscope/internal/errors"
	"github.com/Iron-Ham/sortscope/internal/event"
	"github.com/Iron-Ham/sortscope/internal/logging"
	"github.com/Iron-Ham/sortscope/internal/radix"
	"github.com/Iron-Ham/sortscope/internal/task"
)

// Config holds the parameters of a run.
type Config struct {
	Radix   int
	Channel channel.Config
}

// Session is one sort run.
type Session struct {
	id      string
	cfg     Config
	initial []int

	arr     *array.Array[int]
	ch      *channel.Channel
	prod    *channel.Producer
	counter access.Counter[int]
	engine  *radix.Engine
	bus     *event.Bus
	sub     string // progress subscription, dropped when the run finishes
	logger  *logging.Logger

	started atomic.Bool
	task    *task.Task
	startAt time.Time

	place  atomic.Int64
	digits atomic.Int64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's logger. The run ID is attached to it.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithBus publishes the engine's lifecycle events on bus instead of a
// private one.
func WithBus(bus *event.Bus) Option {
	return func(s *Session) {
		s.bus = bus
	}
}

// WithID overrides the generated run ID.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// New prepares a run over a copy of values. It fails with ErrInvalidRadix
// before anything is allocated for the run when cfg.Radix < 2.
func New(values []int, cfg Config, opts ...Option) (*Session, error) {
	s := &Session{
		id:      uuid.New().String(),
		cfg:     cfg,
		initial: slices.Clone(values),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NopLogger()
	}
	s.logger = s.logger.WithRun(s.id)
	if s.bus == nil {
		s.bus = event.NewBus()
		logger := s.logger
		s.bus.OnPanic(func(eventType string, recovered any, stack []byte) {
			logger.Error("event handler panicked", "event", eventType, "panic", fmt.Sprint(recovered), "stack", string(stack))
		})
	}

	engine, err := radix.New(cfg.Radix, radix.WithBus(s.bus), radix.WithLogger(s.logger.WithPhase("sort")))
	if err != nil {
		return nil, err
	}
	s.engine = engine

	s.ch = channel.New(cfg.Channel)
	s.prod, err = s.ch.Claim()
	if err != nil {
		return nil, err
	}

	s.sub = s.bus.SubscribeAll(s.track)

	s.arr = array.New(slices.Clone(values), access.NewMulti[int](s.prod, &s.counter))
	return s, nil
}

// track follows the engine's lifecycle events to keep Progress current.
func (s *Session) track(e event.Event) {
	switch e := e.(type) {
	case event.SortStartedEvent:
		s.place.Store(0)
	case event.PassStartedEvent:
		s.digits.Store(int64(e.Digits))
		s.place.Store(int64(e.Place))
	case event.SortCompletedEvent:
		s.digits.Store(int64(e.Digits))
	}
}

// Start launches the sort on a background task. It fails with
// ErrAlreadyStarted on a second call.
func (s *Session) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.ErrAlreadyStarted
	}
	s.startAt = time.Now()
	s.logger.Info("sort started",
		"length", len(s.initial),
		"radix", s.cfg.Radix,
		"delay", s.cfg.Channel.Delay.String(),
		"strategy", string(s.cfg.Channel.Strategy),
	)

	s.task = task.Go(func() error {
		return s.engine.Sort(s.arr)
	},
		task.WithRunID(s.id),
		task.WithOnDone(s.finish),
	)
	return nil
}

func (s *Session) finish(err error) {
	s.bus.Unsubscribe(s.sub)
	s.prod.Close(err)
	reads, writes := s.Counts()
	args := []any{
		"reads", reads,
		"writes", writes,
		"elapsed", time.Since(s.startAt).String(),
	}
	if err != nil {
		s.logger.Error("sort failed", append(args, "error", err.Error())...)
		return
	}
	stats := s.engine.LastRun()
	s.logger.Info("sort finished", append(args,
		"digits", stats.Digits,
		"passes", stats.Passes,
		"skipped_passes", stats.SkippedPasses,
	)...)
}

// Wait blocks until the sort finishes or ctx is done and returns the sort's
// error.
func (s *Session) Wait(ctx context.Context) error {
	if !s.started.Load() {
		return errors.ErrNotStarted
	}
	return s.task.Wait(ctx)
}

// Done is closed once the producer has closed the channel.
func (s *Session) Done() <-chan struct{} {
	return s.ch.Done()
}

// ID returns the run ID.
func (s *Session) ID() string { return s.id }

// Config returns the run's configuration.
func (s *Session) Config() Config { return s.cfg }

// Initial returns a copy of the values the run started from.
func (s *Session) Initial() []int { return slices.Clone(s.initial) }

// Channel returns the consumer side of the run.
func (s *Session) Channel() *channel.Channel { return s.ch }

// Bus returns the bus the engine publishes on.
func (s *Session) Bus() *event.Bus { return s.bus }

// Counts returns the reads and writes the array has seen so far.
func (s *Session) Counts() (reads, writes uint64) {
	return s.counter.Reads(), s.counter.Writes()
}

// Progress is the engine's position in the digit loop.
type Progress struct {
	Place  int // place currently being processed, 0 before the first pass
	Digits int // total digit places, 0 until the max scan is done
}

// Progress reports which digit place the engine is on. Safe to call from
// the consumer while the sort runs.
func (s *Session) Progress() Progress {
	return Progress{
		Place:  int(s.place.Load()),
		Digits: int(s.digits.Load()),
	}
}

// Result waits for the run to finish and returns the final array and the
// sort's error.
func (s *Session) Result(ctx context.Context) ([]int, error) {
	if err := s.Wait(ctx); err != nil && (errors.Is(err, errors.ErrNotStarted) || ctx.Err() != nil) {
		return nil, err
	}
	snap := s.arr.Snapshot()
	out := make([]int, len(snap))
	for i, v := range snap {
		out[i] = v.V
	}
	return out, s.task.Err()
}

// Stats returns the engine's statistics. They are complete once Done is
// closed.
func (s *Session) Stats() radix.Stats {
	select {
	case <-s.Done():
		return s.engine.LastRun()
	default:
		return radix.Stats{}
	}
}
