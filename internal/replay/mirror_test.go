package replay

import (
	"slices"
	"testing"

	"github.com/Iron-Ham/sortscope/internal/access"
	"github.com/Iron-Ham/sortscope/internal/array"
	"github.com/Iron-Ham/sortscope/internal/channel"
	"github.com/Iron-Ham/sortscope/internal/radix"
)

func TestMirror_ApplyWritesAndCounts(t *testing.T) {
	m := New([]int{3, 1, 2})

	m.Apply([]access.Event{
		{Seq: 1, Op: access.OpRead, Index: 0, Value: access.Some(3)},
		{Seq: 2, Op: access.OpWrite, Index: 0, Value: access.Some(1)},
		{Seq: 3, Op: access.OpRead, Index: 2, Value: access.Some(2)},
		{Seq: 4, Op: access.OpWrite, Index: 1, Value: access.Blank[int]()},
	})

	if m.Reads() != 2 || m.Writes() != 2 {
		t.Errorf("reads/writes = %d/%d, want 2/2", m.Reads(), m.Writes())
	}
	got := m.Values()
	if got[0] != access.Some(1) || got[1].Valid || got[2] != access.Some(2) {
		t.Errorf("Values() = %v", got)
	}
	if m.Gaps() != 0 || m.LastSeq() != 4 {
		t.Errorf("Gaps/LastSeq = %d/%d, want 0/4", m.Gaps(), m.LastSeq())
	}
}

func TestMirror_TouchedIsPerBatch(t *testing.T) {
	m := New([]int{5, 6, 7})

	m.Apply([]access.Event{
		{Seq: 1, Op: access.OpRead, Index: 1, Value: access.Some(6)},
		{Seq: 2, Op: access.OpWrite, Index: 1, Value: access.Some(9)},
		{Seq: 3, Op: access.OpRead, Index: 2, Value: access.Some(7)},
		{Seq: 4, Op: access.OpRead, Index: 1, Value: access.Some(9)},
	})

	touched := m.Touched()
	if touched[1] != access.OpWrite {
		t.Errorf("index 1 = %v, want write", touched[1])
	}
	if touched[2] != access.OpRead {
		t.Errorf("index 2 = %v, want read", touched[2])
	}
	if !slices.Equal(m.TouchedIndexes(), []int{1, 2}) {
		t.Errorf("TouchedIndexes() = %v", m.TouchedIndexes())
	}

	m.Apply(nil)
	if len(m.Touched()) != 0 {
		t.Errorf("empty batch should clear touched, got %v", m.Touched())
	}
}

func TestMirror_DetectsGaps(t *testing.T) {
	m := New([]int{0})
	m.Apply([]access.Event{{Seq: 1, Index: 0}, {Seq: 3, Index: 0}})
	m.Apply([]access.Event{{Seq: 3, Index: 0}})

	if m.Gaps() != 2 {
		t.Errorf("Gaps() = %d, want 2", m.Gaps())
	}
}

func TestMirror_GrowsOnWriteBeyondLength(t *testing.T) {
	m := New(nil)
	m.Apply([]access.Event{{Seq: 1, Op: access.OpWrite, Index: 2, Value: access.Some(4)}})

	if m.Len() != 3 || !slices.Equal(m.Ints(), []int{0, 0, 4}) {
		t.Errorf("Ints() = %v", m.Ints())
	}
	if m.Max() != 4 {
		t.Errorf("Max() = %d, want 4", m.Max())
	}
}

func TestMirror_NegativeIndexCountsAsGap(t *testing.T) {
	m := New([]int{1, 2})
	m.Apply([]access.Event{
		{Seq: 1, Op: access.OpWrite, Index: -1, Value: access.Some(9)},
		{Seq: 2, Op: access.OpRead, Index: -3, Value: access.Some(9)},
	})

	if m.Gaps() != 2 {
		t.Errorf("Gaps() = %d, want 2", m.Gaps())
	}
	if m.Reads() != 0 || m.Writes() != 0 {
		t.Errorf("reads/writes = %d/%d, want 0/0", m.Reads(), m.Writes())
	}
	if !slices.Equal(m.Ints(), []int{1, 2}) {
		t.Errorf("Ints() = %v, want [1 2]", m.Ints())
	}
}

func TestMirror_ShorterSetAllLeavesBlankTail(t *testing.T) {
	ch := channel.New(channel.Config{})
	prod, err := ch.Claim()
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	a := array.New([]int{5, 6, 7, 8}, prod)
	m := New([]int{5, 6, 7, 8})

	a.SetAll([]int{1, 2})
	m.Apply(ch.Drain())

	got := m.Values()
	if len(got) != 4 {
		t.Fatalf("Len() = %d, want 4", len(got))
	}
	if got[0] != access.Some(1) || got[1] != access.Some(2) || got[2].Valid || got[3].Valid {
		t.Errorf("Values() = %v, want [1 2 blank blank]", got)
	}
}

func TestMirror_FollowsSortThroughChannel(t *testing.T) {
	input := []int{170, 45, 75, 90, 802, 24, 2, 66}
	ch := channel.New(channel.Config{InitialCapacity: 4})
	prod, err := ch.Claim()
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}

	go func() {
		prod.Close(radix.Sort(array.New(slices.Clone(input), prod), 10))
	}()

	m := New(input)
	for {
		b := ch.Poll()
		m.Apply(b.Events)
		if b.Final {
			if b.Err != nil {
				t.Fatalf("sort failed: %v", b.Err)
			}
			break
		}
	}

	want := []int{2, 24, 45, 66, 75, 90, 170, 802}
	if !slices.Equal(m.Ints(), want) {
		t.Errorf("mirror = %v, want %v", m.Ints(), want)
	}
	if m.Gaps() != 0 {
		t.Errorf("Gaps() = %d, want 0", m.Gaps())
	}
	if m.Reads() != 56 || m.Writes() != 24 {
		t.Errorf("reads/writes = %d/%d, want 56/24", m.Reads(), m.Writes())
	}
}
