// Package event provides a pub-sub event bus carrying sort lifecycle
// notifications between sortscope components.
//
// The bus is unrelated to the per-access event stream: access events travel
// through the channel package at the sort's own pace, while this bus carries
// a handful of coarse milestones (a sort started, a digit pass began, the sort
// finished or failed) to interested components such as the session's progress
// tracker and the logger.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Types
//
//   - [SortStartedEvent] ("sort.started"): the engine validated its radix and began the max scan
//   - [PassStartedEvent] ("sort.pass"): a digit place is about to be processed
//   - [SortCompletedEvent] ("sort.completed"): the array is sorted
//   - [SortFailedEvent] ("sort.failed"): the engine stopped with an error
//
// # Thread Safety
//
// The [Bus] is safe for concurrent use. Handlers run synchronously on the
// publishing goroutine, which for sort events is the producer, so handlers
// must be quick. A panicking handler is recovered and does not prevent the
// remaining handlers from running.
//
// # Basic Usage
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypePassStarted, func(e event.Event) {
//	    pass := e.(event.PassStartedEvent)
//	    fmt.Printf("place %d of %d\n", pass.Place, pass.Digits)
//	})
//	engine, _ := radix.New(10, radix.WithBus(bus))
package event
