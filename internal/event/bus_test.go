package event

import (
	"errors"
	"sync"
	"testing"
)

func TestBus_PublishToTypeThenWildcard(t *testing.T) {
	bus := NewBus()

	var calls []string
	bus.SubscribeAll(func(e Event) {
		calls = append(calls, "all:"+e.EventType())
	})
	bus.Subscribe(TypePassStarted, func(e Event) {
		pass := e.(PassStartedEvent)
		if pass.Place != 2 || pass.Digits != 3 {
			t.Errorf("Unexpected pass event: %+v", pass)
		}
		calls = append(calls, "pass")
	})
	bus.Subscribe(TypeSortCompleted, func(e Event) {
		t.Error("completed handler should not see a pass event")
	})

	bus.Publish(NewPassStartedEvent(2, 3, 802))

	if len(calls) != 2 || calls[0] != "pass" || calls[1] != "all:sort.pass" {
		t.Errorf("Expected [pass all:sort.pass], got %v", calls)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	calls := make(map[string]int)
	id1 := bus.Subscribe(TypeSortStarted, func(e Event) {
		calls["handler1"]++
	})
	bus.Subscribe(TypeSortStarted, func(e Event) {
		calls["handler2"]++
	})

	if !bus.Unsubscribe(id1) {
		t.Error("Unsubscribe should return true when subscription exists")
	}
	if bus.Unsubscribe(id1) {
		t.Error("Unsubscribe should return false the second time")
	}

	bus.Publish(NewSortStartedEvent(8, 10))

	if calls["handler1"] != 0 {
		t.Error("handler1 should not be called after unsubscribing")
	}
	if calls["handler2"] != 1 {
		t.Error("handler2 should still be called")
	}
	if bus.SubscriptionCount() != 1 {
		t.Errorf("Expected 1 subscription, got %d", bus.SubscriptionCount())
	}
}

func TestBus_HandlerPanicRecovery(t *testing.T) {
	bus := NewBus()

	var recovered []any
	bus.OnPanic(func(eventType string, r any, stack []byte) {
		if eventType != TypeSortFailed {
			t.Errorf("panic reported for %q, want %q", eventType, TypeSortFailed)
		}
		if len(stack) == 0 {
			t.Error("expected a stack trace")
		}
		recovered = append(recovered, r)
	})

	calls := 0
	bus.Subscribe(TypeSortFailed, func(e Event) {
		calls++
		panic("handler panic")
	})
	bus.Subscribe(TypeSortFailed, func(e Event) {
		calls++
		if !errors.Is(e.(SortFailedEvent).Err, errBoom) {
			t.Error("failed event lost its error")
		}
	})

	bus.Publish(NewSortFailedEvent(errBoom))

	if calls != 2 {
		t.Errorf("Expected both handlers to be called despite panic, got %d calls", calls)
	}
	if len(recovered) != 1 || recovered[0] != "handler panic" {
		t.Errorf("recovered = %v", recovered)
	}
}

var errBoom = errors.New("boom")

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	calls := 0
	bus.Subscribe(TypePassStarted, func(e Event) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Go(func() {
			bus.Publish(NewPassStartedEvent(i, 100, 0))
		})
	}
	wg.Wait()

	if calls != 100 {
		t.Errorf("Expected 100 calls, got %d", calls)
	}
}

func TestBus_ConcurrentSubscribeUnsubscribe(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			id := bus.Subscribe(TypeSortStarted, func(e Event) {})
			bus.Unsubscribe(id)
		})
	}
	wg.Wait()

	if bus.SubscriptionCount() != 0 {
		t.Errorf("Expected 0 subscriptions after concurrent add/remove, got %d", bus.SubscriptionCount())
	}
}

func TestBus_UniqueIDs(t *testing.T) {
	bus := NewBus()

	ids := make(map[string]bool)
	for range 100 {
		id := bus.Subscribe(TypeSortStarted, func(e Event) {})
		if ids[id] {
			t.Errorf("Duplicate subscription ID: %s", id)
		}
		ids[id] = true
	}
}

func TestSortCompletedEvent(t *testing.T) {
	e := NewSortCompletedEvent(3, 2, 1, false)
	if e.EventType() != TypeSortCompleted {
		t.Errorf("EventType() = %q", e.EventType())
	}
	if e.Timestamp().IsZero() {
		t.Error("Timestamp() should be set")
	}
	if e.Passes != 2 || e.SkippedPasses != 1 || e.EarlyExit {
		t.Errorf("Unexpected fields: %+v", e)
	}
}
