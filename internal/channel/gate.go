package channel

import (
	"sync"
	"sync/atomic"
	"time"
)

// Strategy selects how the exclusive-access flag is waited on.
type Strategy string

const (
	// StrategyMutex blocks on a sync.Mutex.
	StrategyMutex Strategy = "mutex"
	// StrategySpin polls an atomic flag, sleeping SpinBackoff between checks.
	// Only reasonable with exactly one producer and one consumer.
	StrategySpin Strategy = "spin"
)

// ValidStrategies returns the accepted strategy names.
func ValidStrategies() []string {
	return []string{string(StrategyMutex), string(StrategySpin)}
}

// gate is the exclusive-access flag guarding the buffer.
type gate interface {
	acquire()
	release()
	// contended reports how many times acquire had to wait.
	contended() uint64
}

type mutexGate struct {
	mu    sync.Mutex
	waits atomic.Uint64
}

func (g *mutexGate) acquire() {
	if g.mu.TryLock() {
		return
	}
	g.waits.Add(1)
	g.mu.Lock()
}

func (g *mutexGate) release()          { g.mu.Unlock() }
func (g *mutexGate) contended() uint64 { return g.waits.Load() }

type spinGate struct {
	held    atomic.Bool
	backoff time.Duration
	waits   atomic.Uint64
}

func (g *spinGate) acquire() {
	if g.held.CompareAndSwap(false, true) {
		return
	}
	g.waits.Add(1)
	for !g.held.CompareAndSwap(false, true) {
		time.Sleep(g.backoff)
	}
}

func (g *spinGate) release()          { g.held.Store(false) }
func (g *spinGate) contended() uint64 { return g.waits.Load() }

func newGate(s Strategy, backoff time.Duration) gate {
	if s == StrategySpin {
		return &spinGate{backoff: backoff}
	}
	return &mutexGate{}
}
