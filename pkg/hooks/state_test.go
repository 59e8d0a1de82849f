package hooks

import "testing"

func TestUseStateInitialValue(t *testing.T) {
	inst, _, _ := newTestInstance()

	var got int
	mustRender(t, inst, func(s *Session) {
		got, _ = UseState(s, 42)
	})

	if got != 42 {
		t.Errorf("initial value = %d, want 42", got)
	}
}

func TestUseStateLazyInitRunsOnce(t *testing.T) {
	inst, _, _ := newTestInstance()

	inits := 0
	render := func(s *Session) {
		UseStateLazy(s, func() int {
			inits++
			return 7
		})
	}

	for n := 0; n < 5; n++ {
		mustRender(t, inst, render)
	}

	if inits != 1 {
		t.Errorf("initializer ran %d times, want 1", inits)
	}
}

func TestUseStateSetRequestsRender(t *testing.T) {
	inst, sched, _ := newTestInstance()

	var handle *State[int]
	mustRender(t, inst, func(s *Session) {
		_, handle = UseState(s, 0)
	})

	handle.Set(1)

	if sched.count() != 1 {
		t.Fatalf("render requests = %d, want 1", sched.count())
	}

	var got int
	mustRender(t, inst, func(s *Session) {
		got, _ = UseState(s, 0)
	})
	if got != 1 {
		t.Errorf("value after Set = %d, want 1", got)
	}
}

func TestUseStateSetSameValueBailsOut(t *testing.T) {
	inst, sched, _ := newTestInstance()

	var handle *State[int]
	mustRender(t, inst, func(s *Session) {
		_, handle = UseState(s, 5)
	})

	handle.Set(5)
	handle.Set(5)

	if sched.count() != 0 {
		t.Errorf("render requests = %d, want 0 (bail-out)", sched.count())
	}
}

func TestUseStateHandleIdentityStable(t *testing.T) {
	inst, _, _ := newTestInstance()

	var handles []*State[int]
	render := func(s *Session) {
		_, h := UseState(s, 0)
		handles = append(handles, h)
	}

	mustRender(t, inst, render)
	mustRender(t, inst, render)
	mustRender(t, inst, render)

	if handles[0] != handles[1] || handles[1] != handles[2] {
		t.Error("state handle identity should be preserved across renders")
	}
}

func TestUseStateWriteDuringRenderBuffered(t *testing.T) {
	inst, sched, _ := newTestInstance()

	first := true
	var seen []int
	render := func(s *Session) {
		n, setN := UseState(s, 0)
		seen = append(seen, n)
		if first {
			first = false
			// A write observed during the session must not apply
			// mid-render and must produce exactly one follow-up.
			setN.Set(10)
			again, _ := probeStateSlot(s)
			if again != 0 {
				t.Errorf("value changed mid-render: %d", again)
			}
		}
	}

	mustRender(t, inst, func(s *Session) {
		render(s)
	})

	if sched.count() != 1 {
		t.Fatalf("follow-up requests = %d, want 1", sched.count())
	}

	mustRender(t, inst, func(s *Session) {
		render(s)
	})

	if seen[0] != 0 || seen[1] != 10 {
		t.Errorf("observed values = %v, want [0 10]", seen)
	}
}

// probeStateSlot peeks at slot 0's committed value without advancing
// the slot cursor.
func probeStateSlot(s *Session) (int, bool) {
	i := s.inst
	i.mu.Lock()
	defer i.mu.Unlock()
	sl := i.slots[0]
	return sl.value.(int), sl.pending
}

func TestUseStateUpdateComposesWithPending(t *testing.T) {
	inst, sched, _ := newTestInstance()

	mustRender(t, inst, func(s *Session) {
		_, setN := UseState(s, 0)
		setN.Update(func(n int) int { return n + 1 })
		setN.Update(func(n int) int { return n + 1 })
		setN.Update(func(n int) int { return n + 1 })
	})

	// Three buffered writes, one follow-up request.
	if sched.count() != 1 {
		t.Fatalf("follow-up requests = %d, want 1", sched.count())
	}

	var got int
	mustRender(t, inst, func(s *Session) {
		got, _ = UseState(s, 0)
	})
	if got != 3 {
		t.Errorf("composed value = %d, want 3", got)
	}
}

func TestUseStateSetAfterUnmountIgnored(t *testing.T) {
	inst, sched, _ := newTestInstance()

	var handle *State[int]
	mustRender(t, inst, func(s *Session) {
		_, handle = UseState(s, 0)
	})

	inst.Unmount()
	handle.Set(99)

	if sched.count() != 0 {
		t.Errorf("render requests after unmount = %d, want 0", sched.count())
	}
}

func TestUseStatePeek(t *testing.T) {
	inst, _, _ := newTestInstance()

	var handle *State[string]
	mustRender(t, inst, func(s *Session) {
		_, handle = UseState(s, "a")
	})

	handle.Set("b")
	if got := handle.Peek(); got != "b" {
		t.Errorf("Peek() = %q, want %q", got, "b")
	}
}
