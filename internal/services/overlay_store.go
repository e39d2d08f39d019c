package services

import "maps"

// OverlayStore is an immutable sparse mapping from absolute day-index to a
// per-day value. Presence of a key means the value was set explicitly (an
// explicitly empty list included); absence means the day is unset and reads
// fall back to a seed.
//
// Every write returns a new store. A store handed to a reader never changes.
type OverlayStore[T any] struct {
	entries map[int]T
	clone   func(T) T
}

// NewOverlayStore builds a store from explicit entries.
// clone deep-copies values on the way in and out; nil means values are
// copied by assignment.
func NewOverlayStore[T any](entries map[int]T, clone func(T) T) OverlayStore[T] {
	s := OverlayStore[T]{entries: make(map[int]T, len(entries)), clone: clone}
	for k, v := range entries {
		s.entries[k] = s.copyValue(v)
	}
	return s
}

func (s OverlayStore[T]) copyValue(v T) T {
	if s.clone == nil {
		return v
	}
	return s.clone(v)
}

// Lookup returns the explicit entry for dayIndex, if any.
func (s OverlayStore[T]) Lookup(dayIndex int) (T, bool) {
	v, ok := s.entries[dayIndex]
	if !ok {
		var zero T
		return zero, false
	}
	return s.copyValue(v), true
}

// Get returns the explicit entry for dayIndex or, when the day is unset,
// the value computed by seed. seed is only called for unset days.
func (s OverlayStore[T]) Get(dayIndex int, seed func() T) T {
	if v, ok := s.Lookup(dayIndex); ok {
		return v
	}
	if seed == nil {
		var zero T
		return zero
	}
	return seed()
}

// Set creates or replaces exactly one entry.
func (s OverlayStore[T]) Set(dayIndex int, v T) OverlayStore[T] {
	out := s.copyMap(len(s.entries) + 1)
	out.entries[dayIndex] = s.copyValue(v)
	return out
}

// SetRange stores v on every day in [start, end).
func (s OverlayStore[T]) SetRange(start, end int, v T) OverlayStore[T] {
	if end <= start {
		return s
	}
	out := s.copyMap(len(s.entries) + end - start)
	for d := start; d < end; d++ {
		out.entries[d] = s.copyValue(v)
	}
	return out
}

// Clear returns dayIndex to the unset state.
func (s OverlayStore[T]) Clear(dayIndex int) OverlayStore[T] {
	if _, ok := s.entries[dayIndex]; !ok {
		return s
	}
	out := s.copyMap(len(s.entries))
	delete(out.entries, dayIndex)
	return out
}

// ShiftRange re-keys every entry with dayIndex >= fromIndex by delta.
// Entries below fromIndex keep their key. With a negative delta the caller
// must drop the vacated range first; an entry landing on a kept key is
// overwritten by the shifted one.
func (s OverlayStore[T]) ShiftRange(fromIndex, delta int) OverlayStore[T] {
	if delta == 0 {
		return s
	}

	out := OverlayStore[T]{entries: make(map[int]T, len(s.entries)), clone: s.clone}
	for k, v := range s.entries {
		if k < fromIndex {
			if _, taken := out.entries[k]; !taken {
				out.entries[k] = v
			}
			continue
		}
		out.entries[k+delta] = v
	}
	return out
}

// DropRange removes every entry with start <= dayIndex < end.
func (s OverlayStore[T]) DropRange(start, end int) OverlayStore[T] {
	if end <= start {
		return s
	}

	out := OverlayStore[T]{entries: make(map[int]T, len(s.entries)), clone: s.clone}
	for k, v := range s.entries {
		if k >= start && k < end {
			continue
		}
		out.entries[k] = v
	}
	return out
}

// BulkReplace returns a store holding exactly entries.
func (s OverlayStore[T]) BulkReplace(entries map[int]T) OverlayStore[T] {
	return NewOverlayStore(entries, s.clone)
}

// Entries returns a copy of the explicit entries.
func (s OverlayStore[T]) Entries() map[int]T {
	out := make(map[int]T, len(s.entries))
	for k, v := range s.entries {
		out[k] = s.copyValue(v)
	}
	return out
}

// Keys returns the explicit day-indices in no particular order.
func (s OverlayStore[T]) Keys() []int {
	keys := make([]int, 0, len(s.entries))
	for k := range maps.Keys(s.entries) {
		keys = append(keys, k)
	}
	return keys
}

func (s OverlayStore[T]) Len() int { return len(s.entries) }

func (s OverlayStore[T]) copyMap(capacity int) OverlayStore[T] {
	out := OverlayStore[T]{entries: make(map[int]T, capacity), clone: s.clone}
	maps.Copy(out.entries, s.entries)
	return out
}

func cloneItems(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
