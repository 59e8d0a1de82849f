package hooktest_test

import (
	"testing"

	"github.com/tetherui/tether/pkg/hooks"
	"github.com/tetherui/tether/pkg/hooktest"
	"github.com/tetherui/tether/pkg/runtime"
)

func TestManualHostDedupsRequests(t *testing.T) {
	var st *hooks.State[int]
	h := hooktest.New(runtime.RenderFunc(func(s *hooks.Session) runtime.RenderResult {
		_, st = hooks.UseState(s, 0)
		return nil
	}))
	h.Cycle(t)

	st.Set(1)
	st.Set(2)
	if h.Host.PendingRenders() != 1 {
		t.Errorf("pending renders = %d, want 1 (per-instance dedup)", h.Host.PendingRenders())
	}

	reqs := h.Host.TakeRenderRequests()
	if len(reqs) != 1 || reqs[0] != h.Root {
		t.Fatalf("requests = %v, want just the root", reqs)
	}
	if h.Host.PendingRenders() != 0 {
		t.Error("take must clear pending requests")
	}
}

func TestFlushPassiveRunsChainedDrains(t *testing.T) {
	host := &hooktest.ManualHost{}

	calls := 0
	host.SchedulePassive(func() {
		calls++
		host.SchedulePassive(func() { calls++ })
	})

	if drains := host.FlushPassive(); drains != 2 {
		t.Errorf("drains = %d, want 2 (flush follows rescheduling)", drains)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if host.PendingPassive() != 0 {
		t.Error("flush must leave no pending drains")
	}
}

func TestSinkRecorderCollectsAndResets(t *testing.T) {
	var dispatch hooks.Dispatch[int]
	h := hooktest.New(runtime.RenderFunc(func(s *hooks.Session) runtime.RenderResult {
		_, dispatch = hooks.UseReducer(s, func(int, int) int { panic("boom") }, 0)
		return nil
	}))
	h.Cycle(t)

	dispatch(1)
	reports := h.Sink.Reports()
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	if reports[0].Instance != h.Root.ID() || reports[0].Slot != 0 {
		t.Errorf("report = %+v, want root instance slot 0", reports[0])
	}

	h.Sink.Reset()
	if len(h.Sink.Reports()) != 0 {
		t.Error("reset must clear reports")
	}
}

func TestSettleCountsFrames(t *testing.T) {
	var st *hooks.State[int]
	h := hooktest.New(runtime.RenderFunc(func(s *hooks.Session) runtime.RenderResult {
		v, handle := hooks.UseState(s, 0)
		st = handle
		return v
	}))
	h.Cycle(t)

	st.Set(1)
	if frames := h.Settle(t, 3); frames != 1 {
		t.Errorf("frames = %d, want 1", frames)
	}
	if st.Peek() != 1 {
		t.Errorf("value = %d, want 1", st.Peek())
	}
}
