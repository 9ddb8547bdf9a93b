// Package array provides an instrumented, fixed-length sequence whose every
// element access is reported to an access.Observer before it takes effect.
//
// The wrapper is a faithful instrumentation layer rather than a cache: reads
// notify with the value being returned, writes notify with the value about to
// be stored, and bulk operations notify once per index in ascending order.
// Notifications run synchronously on the caller's goroutine.
//
// An Array is owned by a single producer goroutine and is not safe for
// concurrent use.
package array

import (
	"github.com/Iron-Ham/sortscope/internal/access"
	"github.com/Iron-Ham/sortscope/internal/errors"
)

// Array is an instrumented sequence of optionally absent elements.
type Array[T any] struct {
	values   []access.Value[T]
	observer access.Observer[T]
}

// New creates an Array holding a copy of values, all present. A nil observer
// disables notifications.
func New[T any](values []T, observer access.Observer[T]) *Array[T] {
	a := &Array[T]{observer: observer}
	a.values = wrap(values)
	return a
}

func wrap[T any](values []T) []access.Value[T] {
	out := make([]access.Value[T], len(values))
	for i, v := range values {
		out[i] = access.Some(v)
	}
	return out
}

// Len returns the current length.
func (a *Array[T]) Len() int {
	return len(a.values)
}

func (a *Array[T]) notify(op access.Op, index int, value access.Value[T]) {
	if a.observer != nil {
		a.observer.Access(op, index, value)
	}
}

func (a *Array[T]) check(op string, index int) error {
	if index < 0 || index >= len(a.values) {
		return errors.NewIndexError(op, index, len(a.values))
	}
	return nil
}

// Lookup returns the element at index, which may be blank.
func (a *Array[T]) Lookup(index int) (access.Value[T], error) {
	if err := a.check("get", index); err != nil {
		return access.Value[T]{}, err
	}
	v := a.values[index]
	a.notify(access.OpRead, index, v)
	return v, nil
}

// Get returns the element at index. A blank element reads as the zero value;
// use Lookup to tell the two apart.
func (a *Array[T]) Get(index int) (T, error) {
	v, err := a.Lookup(index)
	return v.V, err
}

// Set stores value at index.
func (a *Array[T]) Set(index int, value T) error {
	if err := a.check("set", index); err != nil {
		return err
	}
	v := access.Some(value)
	a.notify(access.OpWrite, index, v)
	a.values[index] = v
	return nil
}

// GetAll reads every element in ascending index order and returns a copy.
// Each notification carries the value as it is at that moment.
func (a *Array[T]) GetAll() []access.Value[T] {
	out := make([]access.Value[T], len(a.values))
	for i := range a.values {
		v := a.values[i]
		a.notify(access.OpRead, i, v)
		out[i] = v
	}
	return out
}

// Values is GetAll with blanks flattened to the zero value.
func (a *Array[T]) Values() []T {
	all := a.GetAll()
	out := make([]T, len(all))
	for i, v := range all {
		out[i] = v.V
	}
	return out
}

// SetAll replaces the whole sequence. One write is notified per existing
// index; indexes beyond len(values) are notified as blank. The length then
// becomes len(values).
func (a *Array[T]) SetAll(values []T) {
	for i := range a.values {
		if i < len(values) {
			a.notify(access.OpWrite, i, access.Some(values[i]))
		} else {
			a.notify(access.OpWrite, i, access.Blank[T]())
		}
	}
	a.values = wrap(values)
}

// Blank clears every element, notifying a blank write per index.
func (a *Array[T]) Blank() {
	for i := range a.values {
		a.notify(access.OpWrite, i, access.Blank[T]())
		a.values[i] = access.Blank[T]()
	}
}

// Snapshot returns a copy of the elements without notifying. It exists for
// the owner to inspect the result once the producer is done; algorithms
// must not use it.
func (a *Array[T]) Snapshot() []access.Value[T] {
	out := make([]access.Value[T], len(a.values))
	copy(out, a.values)
	return out
}
