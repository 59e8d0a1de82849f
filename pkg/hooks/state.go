package hooks

// State is the stable write handle for a state slot. Its identity
// never changes across renders of the owning instance, so it is safe
// to capture in effect bodies and event handlers.
type State[T any] struct {
	inst *Instance
	idx  int
}

// UseState declares a state slot holding a value of type T, returning
// the current value and the slot's write handle. The initial value is
// adopted on the first render only.
func UseState[T any](s *Session, initial T) (T, *State[T]) {
	return useState(s, func() T { return initial })
}

// UseStateLazy is UseState with a lazy initializer. The initializer
// runs exactly once, at slot allocation, never on subsequent renders.
func UseStateLazy[T any](s *Session, init func() T) (T, *State[T]) {
	return useState(s, init)
}

func useState[T any](s *Session, init func() T) (T, *State[T]) {
	sl, idx, fresh := s.next(KindState)
	if fresh {
		sl.value = init()
		sl.handle = &State[T]{inst: s.inst, idx: idx}
	}
	return sl.value.(T), sl.handle.(*State[T])
}

// Set replaces the slot value and requests a re-render of the owning
// instance. A write that is shallow-identical to the current value
// bails out: nothing is written and no render is requested. A write
// observed during the instance's own render session is buffered and
// applied when the session ends, producing at most one follow-up pass.
func (st *State[T]) Set(v T) {
	st.write(func(T) T { return v })
}

// Update atomically reads and replaces the slot value. The same
// bail-out and buffering rules as Set apply.
func (st *State[T]) Update(fn func(T) T) {
	st.write(fn)
}

// Peek returns the current slot value without any render bookkeeping.
func (st *State[T]) Peek() T {
	i := st.inst
	i.mu.Lock()
	defer i.mu.Unlock()
	sl := i.slots[st.idx]
	if sl.pending {
		return sl.pendingValue.(T)
	}
	return sl.value.(T)
}

func (st *State[T]) write(fn func(T) T) {
	i := st.inst
	if i.unmounted.Load() {
		return
	}

	i.mu.Lock()
	sl := i.slots[st.idx]

	cur := sl.value.(T)
	if sl.pending {
		cur = sl.pendingValue.(T)
	}
	next := fn(cur)

	if i.rendering {
		sl.pendingValue = next
		sl.pending = true
		i.mu.Unlock()
		return
	}

	if sameValue(sl.value, next) {
		i.mu.Unlock()
		return
	}
	sl.value = next
	i.mu.Unlock()

	i.requestRender()
}
