// Package viewstate holds the observable state the UI renders from. Each
// holder owns independent slots (collections, selection, loading flag,
// error message) and keeps them consistent with the remote store across
// create, update and delete operations.
package viewstate

import "sync"

// Slot is a mutex-guarded observable cell. Observers receive the current
// value on subscription and every subsequent Set, conflated so that a slow
// observer always sees the latest value. Same-value re-emissions are
// delivered; observers must tolerate them.
type Slot[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[int]chan T
	next  int
}

// NewSlot creates a slot holding the initial value.
func NewSlot[T any](initial T) *Slot[T] {
	return &Slot[T]{value: initial, subs: make(map[int]chan T)}
}

// Get returns the current value.
func (s *Slot[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores a new value and notifies all subscribers.
func (s *Slot[T]) Set(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	for _, ch := range s.subs {
		// Conflate: drop the undelivered value, keep the latest
		select {
		case <-ch:
		default:
		}
		ch <- value
	}
}

// Subscribe registers an observer. The returned channel immediately
// carries the current value; the function unsubscribes and closes it.
func (s *Slot[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan T, 1)
	ch <- s.value
	id := s.next
	s.next++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

// generation guards a slot against superseded in-flight requests: a load
// claims the slot with begin and may only write its result through commit,
// which refuses when a newer load has claimed the slot since.
type generation struct {
	mu sync.Mutex
	n  uint64
}

func (g *generation) begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.n
}

func (g *generation) commit(token uint64, apply func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token != g.n {
		return false
	}
	apply()
	return true
}
