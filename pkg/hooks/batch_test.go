package hooks

import "testing"

func TestBatchCoalescesWritesPerInstance(t *testing.T) {
	inst, sched, _ := newTestInstance()

	var first, last *State[string]
	var age *State[int]
	mustRender(t, inst, func(s *Session) {
		_, first = UseState(s, "")
		_, last = UseState(s, "")
		_, age = UseState(s, 0)
	})
	sched.reset()

	Batch(func() {
		first.Set("John")
		last.Set("Doe")
		age.Set(30)
	})

	if sched.count() != 1 {
		t.Errorf("render requests = %d, want 1", sched.count())
	}
	if first.Peek() != "John" || last.Peek() != "Doe" || age.Peek() != 30 {
		t.Errorf("writes not applied: %q %q %d", first.Peek(), last.Peek(), age.Peek())
	}
}

func TestBatchSeparatesInstances(t *testing.T) {
	a, sched, sink := newTestInstance()
	b := NewInstance(nil, sched, sink)

	var sa, sb *State[int]
	mustRender(t, a, func(s *Session) { _, sa = UseState(s, 0) })
	mustRender(t, b, func(s *Session) { _, sb = UseState(s, 0) })
	sched.reset()

	Batch(func() {
		sa.Set(1)
		sb.Set(1)
		sa.Set(2)
	})

	if sched.count() != 2 {
		t.Fatalf("render requests = %d, want 2 (one per instance)", sched.count())
	}
	if sched.requests[0] != a || sched.requests[1] != b {
		t.Error("requests not in first-write order")
	}
}

func TestBatchNesting(t *testing.T) {
	inst, sched, _ := newTestInstance()

	var st *State[int]
	mustRender(t, inst, func(s *Session) { _, st = UseState(s, 0) })
	sched.reset()

	Batch(func() {
		st.Set(1)
		Batch(func() {
			st.Set(2)
		})
		// Inner completion must not dispatch early.
		if sched.count() != 0 {
			t.Error("nested batch dispatched before outermost completed")
		}
		st.Set(3)
	})

	if sched.count() != 1 {
		t.Errorf("render requests = %d, want 1", sched.count())
	}
	if st.Peek() != 3 {
		t.Errorf("value = %d, want 3", st.Peek())
	}
}

func TestBatchSkipsUnmounted(t *testing.T) {
	inst, sched, _ := newTestInstance()

	var st *State[int]
	mustRender(t, inst, func(s *Session) { _, st = UseState(s, 0) })
	sched.reset()

	Batch(func() {
		st.Set(1)
		inst.Unmount()
	})

	if sched.count() != 0 {
		t.Errorf("render requests = %d, want 0 for unmounted instance", sched.count())
	}
}

func TestBatchEmpty(t *testing.T) {
	_, sched, _ := newTestInstance()
	Batch(func() {})
	if sched.count() != 0 {
		t.Errorf("render requests = %d, want 0", sched.count())
	}
}
