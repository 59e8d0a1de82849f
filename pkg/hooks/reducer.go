package hooks

// Dispatch applies an action to a reducer slot. It is stable across
// renders of the owning instance.
//
// Dispatch returns a *ReducerError when the transition function
// panics; the slot value is left unchanged in that case. A transition
// producing a value shallow-identical to the current one bails out:
// the slot is not written and no re-render is requested.
type Dispatch[A any] func(action A) error

// UseReducer declares a reducer slot: a value of type S advanced by a
// pure transition function applied to dispatched actions. The
// transition passed on the latest render is the one dispatches use.
func UseReducer[S, A any](s *Session, reducer func(S, A) S, initial S) (S, Dispatch[A]) {
	return useReducer(s, reducer, func() S { return initial })
}

// UseReducerLazy is UseReducer with a lazy initializer, invoked exactly
// once at slot allocation with the given argument.
func UseReducerLazy[S, A, I any](s *Session, reducer func(S, A) S, arg I, init func(I) S) (S, Dispatch[A]) {
	return useReducer(s, reducer, func() S { return init(arg) })
}

func useReducer[S, A any](s *Session, reducer func(S, A) S, init func() S) (S, Dispatch[A]) {
	sl, idx, fresh := s.next(KindReducer)
	inst := s.inst
	if fresh {
		sl.value = init()
		var d Dispatch[A] = func(action A) error {
			return dispatch[S, A](inst, idx, action)
		}
		sl.handle = d
	}
	// Adopt the latest transition closure so dispatches observe
	// whatever the most recent render captured.
	sl.reducer = reducer
	return sl.value.(S), sl.handle.(Dispatch[A])
}

// dispatch runs one reducer transition outside the instance lock (the
// transition is pure and may be arbitrarily slow), then applies the
// result under the same write rules as State.Set.
func dispatch[S, A any](i *Instance, idx int, action A) error {
	if i.unmounted.Load() {
		return ErrUnmounted
	}

	i.mu.Lock()
	sl := i.slots[idx]
	transition := sl.reducer.(func(S, A) S)
	cur := sl.value.(S)
	if sl.pending {
		cur = sl.pendingValue.(S)
	}
	i.mu.Unlock()

	next, err := runTransition(transition, cur, action, i.id, idx)
	if err != nil {
		i.reportError(idx, err)
		return err
	}

	if sameValue(cur, next) {
		return nil
	}

	i.mu.Lock()
	if i.rendering {
		sl.pendingValue = next
		sl.pending = true
		i.mu.Unlock()
		return nil
	}
	sl.value = next
	i.mu.Unlock()

	i.requestRender()
	return nil
}

// runTransition isolates the transition call so a panic aborts only
// this dispatch, never the caller.
func runTransition[S, A any](fn func(S, A) S, cur S, action A, inst uint64, idx int) (next S, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ReducerError{Instance: inst, Index: idx, Value: r}
		}
	}()
	return fn(cur, action), nil
}
