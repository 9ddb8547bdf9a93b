// Package replay rebuilds an instrumented array on the consumer side from
// the access events drained off a channel.
package replay

import (
	"slices"

	"github.com/Iron-Ham/sortscope/internal/access"
)

// Mirror is the consumer's copy of the producer's array. It is not safe for
// concurrent use; the consumer owns it.
type Mirror struct {
	values  []access.Value[int]
	reads   uint64
	writes  uint64
	lastSeq uint64
	gaps    uint64
	touched map[int]access.Op
}

// New creates a Mirror starting from the values the producer's array was
// created with.
func New(initial []int) *Mirror {
	values := make([]access.Value[int], len(initial))
	for i, v := range initial {
		values[i] = access.Some(v)
	}
	return &Mirror{
		values:  values,
		touched: make(map[int]access.Op),
	}
}

// Apply replays one drained batch. Writes update the mirrored element,
// reads only count. The touched set is replaced by the indexes of this
// batch; a write to an index hides an earlier read of it.
//
// The mirror grows to cover any written index but never shrinks: events
// carry no array length, so a shorter SetAll shows up as blank trailing
// elements. An event with a negative index cannot come from an array and is
// counted as a gap.
func (m *Mirror) Apply(events []access.Event) {
	clear(m.touched)
	for _, e := range events {
		if e.Seq != m.lastSeq+1 {
			m.gaps++
		}
		m.lastSeq = e.Seq

		if e.Index < 0 {
			m.gaps++
			continue
		}
		if e.IsWrite() {
			m.writes++
			if e.Index >= len(m.values) {
				m.values = append(m.values, make([]access.Value[int], e.Index+1-len(m.values))...)
			}
			m.values[e.Index] = e.Value
			m.touched[e.Index] = access.OpWrite
			continue
		}
		m.reads++
		if _, ok := m.touched[e.Index]; !ok {
			m.touched[e.Index] = access.OpRead
		}
	}
}

// Touched returns the op last seen for each index in the most recent batch.
func (m *Mirror) Touched() map[int]access.Op {
	out := make(map[int]access.Op, len(m.touched))
	for i, op := range m.touched {
		out[i] = op
	}
	return out
}

// TouchedIndexes returns the indexes touched by the most recent batch in
// ascending order.
func (m *Mirror) TouchedIndexes() []int {
	out := make([]int, 0, len(m.touched))
	for i := range m.touched {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// Gaps counts events whose sequence number did not follow the previous one
// and events with a negative index. Anything but 0 means the channel lost,
// duplicated, reordered or corrupted events.
func (m *Mirror) Gaps() uint64 { return m.gaps }

// LastSeq is the sequence number of the last applied event.
func (m *Mirror) LastSeq() uint64 { return m.lastSeq }

// Reads is the number of read events applied.
func (m *Mirror) Reads() uint64 { return m.reads }

// Writes is the number of write events applied.
func (m *Mirror) Writes() uint64 { return m.writes }

// Len is the mirrored array length.
func (m *Mirror) Len() int { return len(m.values) }

// Values returns a copy of the mirrored elements.
func (m *Mirror) Values() []access.Value[int] {
	return slices.Clone(m.values)
}

// Ints returns the mirrored elements with blanks as 0.
func (m *Mirror) Ints() []int {
	out := make([]int, len(m.values))
	for i, v := range m.values {
		out[i] = v.V
	}
	return out
}

// Max returns the largest mirrored value, or 0 for an empty mirror.
func (m *Mirror) Max() int {
	maxValue := 0
	for _, v := range m.values {
		if v.Valid && v.V > maxValue {
			maxValue = v.V
		}
	}
	return maxValue
}
