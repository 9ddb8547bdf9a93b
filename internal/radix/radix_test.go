package radix

import (
	"bytes"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/Iron-Ham/sortscope/internal/access"
	"github.com/Iron-Ham/sortscope/internal/array"
	"github.com/Iron-Ham/sortscope/internal/errors"
	"github.com/Iron-Ham/sortscope/internal/event"
	"github.com/Iron-Ham/sortscope/internal/logging"
)

func sorted(t *testing.T, a *array.Array[int]) []int {
	t.Helper()
	snap := a.Snapshot()
	out := make([]int, len(snap))
	for i, v := range snap {
		if !v.Valid {
			t.Fatalf("element %d is blank after sorting", i)
		}
		out[i] = v.V
	}
	return out
}

func TestDigits(t *testing.T) {
	tests := []struct {
		max, radix, want int
	}{
		{0, 10, 1},
		{5, 10, 1},
		{9, 10, 1},
		{10, 10, 2},
		{802, 10, 3},
		{999, 10, 3},
		{1000, 10, 4},
		{1, 2, 1},
		{2, 2, 2},
		{255, 2, 8},
		{256, 16, 3},
		{5, 1000, 1},
	}

	for _, tt := range tests {
		if got := Digits(tt.max, tt.radix); got != tt.want {
			t.Errorf("Digits(%d, %d) = %d, want %d", tt.max, tt.radix, got, tt.want)
		}
	}
}

func TestSort_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		input      []int
		radix      int
		want       []int
		wantDigits int
	}{
		{
			name:       "classic example",
			input:      []int{170, 45, 75, 90, 802, 24, 2, 66},
			radix:      10,
			want:       []int{2, 24, 45, 66, 75, 90, 170, 802},
			wantDigits: 3,
		},
		{
			name:       "empty",
			input:      []int{},
			radix:      10,
			want:       []int{},
			wantDigits: 1,
		},
		{
			name:       "all equal",
			input:      []int{5, 5, 5, 5},
			radix:      10,
			want:       []int{5, 5, 5, 5},
			wantDigits: 1,
		},
		{
			name:       "binary radix",
			input:      []int{6, 3, 7, 0, 1},
			radix:      2,
			want:       []int{0, 1, 3, 6, 7},
			wantDigits: 3,
		},
		{
			name:       "zero column in the middle",
			input:      []int{100, 5},
			radix:      10,
			want:       []int{5, 100},
			wantDigits: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := array.New(tt.input, nil)
			e, err := New(tt.radix)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			if err := e.Sort(a); err != nil {
				t.Fatalf("Sort failed: %v", err)
			}
			if got := sorted(t, a); !slices.Equal(got, tt.want) {
				t.Errorf("Sort() = %v, want %v", got, tt.want)
			}
			if got := e.LastRun().Digits; got != tt.wantDigits {
				t.Errorf("Digits = %d, want %d", got, tt.wantDigits)
			}
		})
	}
}

func TestSort_EmptyArrayPerformsNoAccess(t *testing.T) {
	rec := &access.Recorder[int]{}
	a := array.New([]int{}, rec)

	e, _ := New(10)
	if err := e.Sort(a); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	if n := len(rec.Accesses()); n != 0 {
		t.Errorf("Expected no accesses on an empty array, got %d", n)
	}
	if !e.LastRun().EarlyExit {
		t.Error("empty array should end the pass loop early")
	}
}

func TestSort_AllEqualProcessesOnePlace(t *testing.T) {
	var counter access.Counter[int]
	a := array.New([]int{5, 5, 5, 5}, &counter)

	e, _ := New(10)
	if err := e.Sort(a); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}

	stats := e.LastRun()
	if stats.Passes != 1 {
		t.Errorf("Passes = %d, want 1", stats.Passes)
	}
	// n (max scan) + 2n (one place) reads, n writes.
	if counter.Reads() != 12 || counter.Writes() != 4 {
		t.Errorf("reads/writes = %d/%d, want 12/4", counter.Reads(), counter.Writes())
	}
}

func TestSort_AllZeroStopsAfterCounting(t *testing.T) {
	var counter access.Counter[int]
	a := array.New([]int{0, 0, 0}, &counter)

	e, _ := New(10)
	if err := e.Sort(a); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	if !e.LastRun().EarlyExit || e.LastRun().Passes != 0 {
		t.Errorf("LastRun() = %+v, want early exit with no passes", e.LastRun())
	}
	if counter.Reads() != 6 || counter.Writes() != 0 {
		t.Errorf("reads/writes = %d/%d, want 6/0", counter.Reads(), counter.Writes())
	}
}

func TestSort_AccessAccounting(t *testing.T) {
	var counter access.Counter[int]
	input := []int{170, 45, 75, 90, 802, 24, 2, 66}
	a := array.New(input, &counter)

	if err := Sort(a, 10); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}

	n, d := uint64(len(input)), uint64(3)
	if counter.Reads() != n*(1+2*d) {
		t.Errorf("reads = %d, want %d", counter.Reads(), n*(1+2*d))
	}
	if counter.Writes() != n*d {
		t.Errorf("writes = %d, want %d", counter.Writes(), n*d)
	}
}

func TestSort_ZeroColumnSkipsRedistribution(t *testing.T) {
	var counter access.Counter[int]
	a := array.New([]int{100, 5}, &counter)

	e, _ := New(10)
	if err := e.Sort(a); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}

	stats := e.LastRun()
	if stats.Passes != 2 || stats.SkippedPasses != 1 || stats.EarlyExit {
		t.Errorf("LastRun() = %+v, want 2 passes and 1 skipped", stats)
	}
	// scan 2 + place1 4 + place2 2 (count only) + place3 4.
	if counter.Reads() != 12 || counter.Writes() != 4 {
		t.Errorf("reads/writes = %d/%d, want 12/4", counter.Reads(), counter.Writes())
	}
}

func TestSort_AccessOrder(t *testing.T) {
	rec := &access.Recorder[int]{}
	a := array.New([]int{3, 1, 2}, rec)

	if err := Sort(a, 10); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}

	var pattern strings.Builder
	for _, acc := range rec.Accesses() {
		if acc.Op == access.OpRead {
			pattern.WriteByte('r')
		} else {
			pattern.WriteByte('w')
		}
	}
	// Max scan, counting reads, distribution reads, write-back.
	if got, want := pattern.String(), "rrrrrrrrrwww"; got != want {
		t.Errorf("access pattern = %s, want %s", got, want)
	}

	accesses := rec.Accesses()
	for i := 0; i < 3; i++ {
		w := accesses[9+i]
		if w.Index != i || w.Value.V != i+1 {
			t.Errorf("write %d = %+v, want index %d value %d", i, w, i, i+1)
		}
	}
}

func TestSort_PassesAreStable(t *testing.T) {
	input := []int{170, 45, 75, 90, 802, 24, 2, 66}
	wantAfter := map[int][]int{
		1: {170, 90, 802, 2, 24, 45, 75, 66},
		2: {802, 2, 24, 45, 66, 170, 75, 90},
	}

	a := array.New(input, nil)
	bus := event.NewBus()
	var checked []int
	bus.Subscribe(event.TypePassStarted, func(e event.Event) {
		place := e.(event.PassStartedEvent).Place
		if want, ok := wantAfter[place-1]; ok {
			if got := sorted(t, a); !slices.Equal(got, want) {
				t.Errorf("after place %d: %v, want %v", place-1, got, want)
			}
			checked = append(checked, place-1)
		}
	})

	if err := Sort(a, 10, WithBus(bus)); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	if len(checked) != 2 {
		t.Errorf("checked places %v, want [1 2]", checked)
	}
}

func TestSort_RandomInputs(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	radices := []int{2, 3, 7, 10, 16, 256, 1000}

	for trial := 0; trial < 200; trial++ {
		radix := radices[trial%len(radices)]
		n := rng.IntN(120)
		maxValue := 1 + rng.IntN(100000)

		input := make([]int, n)
		for i := range input {
			input[i] = rng.IntN(maxValue)
		}
		want := slices.Clone(input)
		slices.Sort(want)

		a := array.New(input, nil)
		if err := Sort(a, radix); err != nil {
			t.Fatalf("trial %d: Sort failed: %v", trial, err)
		}
		if got := sorted(t, a); !slices.Equal(got, want) {
			t.Fatalf("trial %d (radix %d): got %v, want %v", trial, radix, got, want)
		}
	}
}

func TestSort_RadixLargerThanValues(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		radix int
	}{
		{"huge radix on small values", []int{3, 1, 2}, 1 << 40},
		{"huge radix on zeros", []int{0, 0}, 1 << 40},
		{"radix one above max", []int{7, 0, 4, 7, 1}, 8},
		{"max int radix", []int{3, 1 << 20, 5}, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &access.Counter[int]{}
			a := array.New(tt.input, counter)

			e, err := New(tt.radix)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if err := e.Sort(a); err != nil {
				t.Fatalf("Sort failed: %v", err)
			}

			want := slices.Clone(tt.input)
			slices.Sort(want)
			if got := sorted(t, a); !slices.Equal(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
			if d := e.LastRun().Digits; d != 1 {
				t.Errorf("Digits = %d, want 1", d)
			}
		})
	}
}

func TestBucketCount(t *testing.T) {
	tests := []struct {
		max, radix, want int
	}{
		{0, 10, 1},
		{9, 10, 10},
		{802, 10, 10},
		{3, 1 << 40, 4},
		{math.MaxInt, 16, 16},
	}
	for _, tt := range tests {
		if got := bucketCount(tt.max, tt.radix); got != tt.want {
			t.Errorf("bucketCount(%d, %d) = %d, want %d", tt.max, tt.radix, got, tt.want)
		}
	}
}

func TestSort_InvalidRadix(t *testing.T) {
	for _, radix := range []int{1, 0, -4} {
		rec := &access.Recorder[int]{}
		a := array.New([]int{3, 1, 2}, rec)

		err := Sort(a, radix)
		if !errors.Is(err, errors.ErrInvalidRadix) {
			t.Errorf("radix %d: error = %v, want ErrInvalidRadix", radix, err)
		}
		if n := len(rec.Accesses()); n != 0 {
			t.Errorf("radix %d: %d accesses happened before failing", radix, n)
		}
	}

	if _, err := New(1); !errors.Is(err, errors.ErrInvalidRadix) {
		t.Errorf("New(1) error = %v, want ErrInvalidRadix", err)
	}
}

func TestSort_NegativeValueRejectedBeforeWrites(t *testing.T) {
	rec := &access.Recorder[int]{}
	a := array.New([]int{3, -1, 2}, rec)

	err := Sort(a, 10)

	var inputErr *errors.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("error = %v, want InputError", err)
	}
	if inputErr.Index != 1 || inputErr.Value != -1 {
		t.Errorf("InputError = %+v, want index 1 value -1", inputErr)
	}
	if rec.Count(access.OpWrite) != 0 {
		t.Error("no write may happen before input validation fails")
	}
	if snap := a.Snapshot(); snap[0].V != 3 || snap[1].V != -1 || snap[2].V != 2 {
		t.Errorf("array mutated: %v", snap)
	}
}

func TestSort_BlankElementRejected(t *testing.T) {
	a := array.New([]int{1, 2}, nil)
	a.Blank()

	if err := Sort(a, 10); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestSort_PublishesLifecycle(t *testing.T) {
	bus := event.NewBus()
	var types []string
	bus.SubscribeAll(func(e event.Event) {
		types = append(types, e.EventType())
	})

	if err := Sort(array.New([]int{12, 3}, nil), 10, WithBus(bus)); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	want := []string{event.TypeSortStarted, event.TypePassStarted, event.TypePassStarted, event.TypeSortCompleted}
	if !slices.Equal(types, want) {
		t.Errorf("events = %v, want %v", types, want)
	}

	types = nil
	_ = Sort(array.New([]int{-1}, nil), 10, WithBus(bus))
	if !slices.Equal(types, []string{event.TypeSortStarted, event.TypeSortFailed}) {
		t.Errorf("failure events = %v", types)
	}
}

func TestSort_LogsPassesAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, logging.LevelDebug)

	if err := Sort(array.New([]int{9, 81}, nil), 3, WithLogger(logger)); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	if !strings.Contains(buf.String(), "max scan complete") || !strings.Contains(buf.String(), "pass complete") {
		t.Errorf("expected pass logging, got:\n%s", buf.String())
	}
}
