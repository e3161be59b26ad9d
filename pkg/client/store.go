package client

import "sync"

// Store holds a value and notifies subscribers synchronously, in
// subscription order, after every Set.
type Store[T any] struct {
	mu     sync.Mutex
	val    T
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{val: initial}
}

func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.val
}

func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.val = v
	subs := append([]subscriber[T](nil), s.subs...)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn(v)
	}
}

// Update replaces the value with fn(current) and notifies subscribers.
func (s *Store[T]) Update(fn func(T) T) {
	s.mu.Lock()
	v := fn(s.val)
	s.val = v
	subs := append([]subscriber[T](nil), s.subs...)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn(v)
	}
}

// Subscribe registers fn and returns a func that removes it. fn is not
// called with the current value.
func (s *Store[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// View is the read-only side of a store.
type View[T any] interface {
	Get() T
	Subscribe(func(T)) (cancel func())
}

// Derive returns a read-only view holding fn(src) that is recomputed on
// every source update.
func Derive[S, T any](src View[S], fn func(S) T) View[T] {
	out := NewStore(fn(src.Get()))
	src.Subscribe(func(v S) { out.Set(fn(v)) })
	return out
}
