package hooks

// Session is the handle for one render pass of an instance. All slot
// operations take the session explicitly; there is no hidden "current
// component" state. A session is only valid on the goroutine that
// began it and only until End is called.
type Session struct {
	inst *Instance
	done bool

	// gid is the goroutine that began the session, recorded only in
	// DebugMode to validate single-goroutine use.
	gid uint64
}

// EffectBatch lists the effect slots whose dependencies changed during
// a render pass, in slot-declaration order, split by phase. The
// embedding runtime appends these to its layout and passive queues
// after commit.
type EffectBatch struct {
	Layout  []int
	Passive []int
}

// Empty returns true if no effects were scheduled.
func (b EffectBatch) Empty() bool {
	return len(b.Layout) == 0 && len(b.Passive) == 0
}

// BeginRender opens a render session for the instance: the slot cursor
// resets to zero and writes to this instance's own slots are buffered
// until End. Callers are expected to pair it with End; RunRender does
// both and handles slot order panics.
func BeginRender(i *Instance) *Session {
	i.mu.Lock()
	i.cursor = 0
	i.rendering = true
	i.mu.Unlock()

	s := &Session{inst: i}
	if DebugMode {
		s.gid = goroutineID()
	}
	return s
}

// Instance returns the instance this session renders.
func (s *Session) Instance() *Instance {
	return s.inst
}

// next returns the slot at the current cursor, allocating a fresh slot
// of the given kind on the first render of that position, then
// advances the cursor. A kind mismatch or an extra slot beyond the
// recorded count panics with *SlotOrderError; RunRender converts that
// into an error at the render boundary.
func (s *Session) next(kind Kind) (sl *slot, idx int, fresh bool) {
	if DebugMode && s.gid != 0 && goroutineID() != s.gid {
		panic("hooks: session used from a goroutine other than the one that began it")
	}

	i := s.inst
	i.mu.Lock()

	idx = i.cursor
	if idx < len(i.slots) {
		sl = i.slots[idx]
		if sl.kind != kind {
			i.failed = true
			i.mu.Unlock()
			panic(&SlotOrderError{Instance: i.id, Index: idx, Want: sl.kind, Got: kind})
		}
		i.cursor++
		i.mu.Unlock()
		return sl, idx, false
	}

	if i.slotCount >= 0 {
		i.failed = true
		i.mu.Unlock()
		panic(&SlotOrderError{Instance: i.id, Index: idx, WantCount: i.slotCount, GotCount: idx + 1})
	}

	sl = &slot{kind: kind}
	i.slots = append(i.slots, sl)
	i.cursor++
	i.mu.Unlock()
	return sl, idx, true
}

// End closes the session. After the first render it asserts that the
// final cursor matches the slot count recorded by the first pass; a
// shortfall means slot calls were skipped this render and is fatal.
// On success it applies writes buffered during the session, issues at
// most one follow-up render request, and returns the effects whose
// dependencies changed.
func (s *Session) End() (EffectBatch, error) {
	i := s.inst
	i.mu.Lock()

	if s.done {
		i.mu.Unlock()
		return EffectBatch{}, nil
	}
	s.done = true
	i.rendering = false

	if i.failed {
		i.mu.Unlock()
		return EffectBatch{}, ErrInstanceFailed
	}

	if i.slotCount < 0 {
		i.slotCount = i.cursor
	} else if i.cursor != i.slotCount {
		err := &SlotOrderError{Instance: i.id, WantCount: i.slotCount, GotCount: i.cursor}
		i.failed = true
		i.mu.Unlock()
		return EffectBatch{}, err
	}

	i.renders++

	var batch EffectBatch
	needFollowUp := false
	for idx, sl := range i.slots {
		switch sl.kind {
		case KindEffect:
			if sl.estate == EffectScheduled {
				batch.Passive = append(batch.Passive, idx)
			}
		case KindLayoutEffect:
			if sl.estate == EffectScheduled {
				batch.Layout = append(batch.Layout, idx)
			}
		case KindState, KindReducer:
			if sl.pending {
				sl.pending = false
				if !sameValue(sl.value, sl.pendingValue) {
					sl.value = sl.pendingValue
					needFollowUp = true
				}
				sl.pendingValue = nil
			}
		}
	}
	i.mu.Unlock()

	if needFollowUp {
		i.requestRender()
	}
	return batch, nil
}

// abort closes a session that panicked mid-render.
func (s *Session) abort() {
	i := s.inst
	i.mu.Lock()
	s.done = true
	i.rendering = false
	i.failed = true
	i.mu.Unlock()
}

// RunRender performs one complete render session: BeginRender, the
// render function, then End. Slot order violations raised inside fn
// are caught at this boundary and returned as errors; any other panic
// propagates unchanged.
//
// An instance that previously failed a render refuses further passes
// with ErrInstanceFailed, and an unmounted instance with ErrUnmounted.
func RunRender(i *Instance, fn func(*Session)) (batch EffectBatch, err error) {
	if i.IsUnmounted() {
		return EffectBatch{}, ErrUnmounted
	}
	i.mu.Lock()
	failed := i.failed
	i.mu.Unlock()
	if failed {
		return EffectBatch{}, ErrInstanceFailed
	}

	s := BeginRender(i)
	defer func() {
		if r := recover(); r != nil {
			if soe, ok := r.(*SlotOrderError); ok {
				s.abort()
				batch, err = EffectBatch{}, soe
				return
			}
			panic(r)
		}
		batch, err = s.End()
	}()

	fn(s)
	return
}
