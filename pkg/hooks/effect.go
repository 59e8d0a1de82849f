package hooks

// UseEffect declares a passive effect: its body runs after paint, on
// the host's asynchronous turn, whenever deps changed since the
// previous render (or on every render when deps is nil). The body may
// return a Cleanup, which runs before the body's next invocation and
// once at unmount.
func UseEffect(s *Session, body func() Cleanup, deps Deps) {
	useEffect(s, KindEffect, PhasePassive, body, deps)
}

// UseLayoutEffect declares a layout effect: its body runs
// synchronously after commit, before paint. Layout effects block
// paint, so bodies must stay short.
func UseLayoutEffect(s *Session, body func() Cleanup, deps Deps) {
	useEffect(s, KindLayoutEffect, PhaseLayout, body, deps)
}

func useEffect(s *Session, kind Kind, phase Phase, body func() Cleanup, deps Deps) {
	sl, idx, fresh := s.next(kind)
	sl.phase = phase

	changed, mismatch := depsChanged(sl.deps, deps)
	if mismatch {
		s.inst.reportError(idx, &DepsLengthError{
			Instance: s.inst.id,
			Index:    idx,
			PrevLen:  len(sl.deps),
			NextLen:  len(deps),
		})
	}

	// Always adopt the body from the latest render so a run observes
	// the values that render closed over.
	sl.body = body
	sl.deps = deps

	if (fresh || changed) && sl.estate == EffectIdle {
		sl.estate = EffectScheduled
	}
}

// RunEffect executes one scheduled effect slot: the previous run's
// cleanup first, then the body, storing the body's cleanup handle for
// the next run. It returns the isolated failure, if any; a cleanup
// panic skips the body for this run.
//
// Slots that are not scheduled (already run, or canceled by unmount)
// are ignored, so queue entries that went stale are harmless.
func (i *Instance) RunEffect(idx int) error {
	if i.unmounted.Load() {
		return nil
	}

	i.mu.Lock()
	if idx < 0 || idx >= len(i.slots) {
		i.mu.Unlock()
		return nil
	}
	sl := i.slots[idx]
	if (sl.kind != KindEffect && sl.kind != KindLayoutEffect) || sl.estate != EffectScheduled {
		i.mu.Unlock()
		return nil
	}
	body := sl.body
	prev := sl.cleanup
	sl.cleanup = nil
	if prev != nil {
		sl.estate = EffectCleaning
	}
	i.mu.Unlock()

	if prev != nil {
		if err := runCleanup(prev, i.id, idx); err != nil {
			i.mu.Lock()
			if sl.estate == EffectCleaning {
				sl.estate = EffectIdle
			}
			i.mu.Unlock()
			return err
		}
	}

	i.mu.Lock()
	if sl.estate == EffectDestroyed {
		// Unmounted between cleanup and run.
		i.mu.Unlock()
		return nil
	}
	sl.estate = EffectRunning
	i.mu.Unlock()

	next, err := runEffectBody(body, i.id, idx)

	i.mu.Lock()
	destroyed := sl.estate == EffectDestroyed
	if !destroyed {
		sl.estate = EffectIdle
		if err == nil {
			sl.cleanup = next
		}
	}
	i.mu.Unlock()

	if destroyed && err == nil && next != nil {
		// The instance unmounted while the body ran; release the
		// fresh cleanup immediately so it runs exactly once.
		if cerr := runCleanup(next, i.id, idx); cerr != nil {
			return cerr
		}
	}
	return err
}

// runEffectBody isolates the body call so a panic aborts only this
// effect, never the drain.
func runEffectBody(body func() Cleanup, inst uint64, idx int) (cl Cleanup, err error) {
	defer func() {
		if r := recover(); r != nil {
			cl, err = nil, &EffectRunError{Instance: inst, Index: idx, Value: r}
		}
	}()
	return body(), nil
}

// runCleanup isolates a cleanup call the same way.
func runCleanup(cl Cleanup, inst uint64, idx int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EffectCleanupError{Instance: inst, Index: idx, Value: r}
		}
	}()
	cl()
	return nil
}
