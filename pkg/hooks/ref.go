package hooks

import "sync"

// Ref holds a mutable reference to a value. The box's identity never
// changes across renders of the owning instance, and writes to it
// never trigger a re-render.
//
// Ref[T] is safe for concurrent access.
type Ref[T any] struct {
	mu    sync.RWMutex
	value T
	isSet bool
}

// UseRef declares a ref slot and returns its box. The initial value is
// adopted at slot allocation only.
func UseRef[T any](s *Session, initial T) *Ref[T] {
	sl, _, fresh := s.next(KindRef)
	if fresh {
		sl.ref = &Ref[T]{value: initial}
	}
	return sl.ref.(*Ref[T])
}

// Current returns the boxed value.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set replaces the boxed value. No re-render is requested.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
	r.isSet = true
}

// IsSet returns true once Set has been called.
func (r *Ref[T]) IsSet() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isSet
}

// Clear resets the box to its zero value.
func (r *Ref[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.value = zero
	r.isSet = false
}
