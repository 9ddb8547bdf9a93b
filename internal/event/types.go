package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns the "category.action" identifier of the event.
	EventType() string
	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeSortStarted   = "sort.started"
	TypePassStarted   = "sort.pass"
	TypeSortCompleted = "sort.completed"
	TypeSortFailed    = "sort.failed"
)

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// SortStartedEvent is emitted once the radix is validated, before any access.
type SortStartedEvent struct {
	baseEvent
	Length int
	Radix  int
}

// NewSortStartedEvent creates a SortStartedEvent.
func NewSortStartedEvent(length, radix int) SortStartedEvent {
	return SortStartedEvent{
		baseEvent: newBaseEvent(TypeSortStarted),
		Length:    length,
		Radix:     radix,
	}
}

// PassStartedEvent is emitted before the counting reads of a digit place.
type PassStartedEvent struct {
	baseEvent
	Place  int // 1 = least significant
	Digits int // significant digit count of the maximum
	Max    int
}

// NewPassStartedEvent creates a PassStartedEvent.
func NewPassStartedEvent(place, digits, max int) PassStartedEvent {
	return PassStartedEvent{
		baseEvent: newBaseEvent(TypePassStarted),
		Place:     place,
		Digits:    digits,
		Max:       max,
	}
}

// SortCompletedEvent is emitted when the array is sorted.
type SortCompletedEvent struct {
	baseEvent
	Digits        int
	Passes        int  // places whose redistribution ran
	SkippedPasses int  // places whose redistribution was an identity
	EarlyExit     bool // the pass loop stopped before place Digits
}

// NewSortCompletedEvent creates a SortCompletedEvent.
func NewSortCompletedEvent(digits, passes, skipped int, earlyExit bool) SortCompletedEvent {
	return SortCompletedEvent{
		baseEvent:     newBaseEvent(TypeSortCompleted),
		Digits:        digits,
		Passes:        passes,
		SkippedPasses: skipped,
		EarlyExit:     earlyExit,
	}
}

// SortFailedEvent is emitted when the engine stops with an error.
type SortFailedEvent struct {
	baseEvent
	Err error
}

// NewSortFailedEvent creates a SortFailedEvent.
func NewSortFailedEvent(err error) SortFailedEvent {
	return SortFailedEvent{
		baseEvent: newBaseEvent(TypeSortFailed),
		Err:       err,
	}
}
