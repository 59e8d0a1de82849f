package runtime

import "github.com/tetherui/tether/pkg/hooks"

// Host is the concurrency substrate the runtime delegates scheduling
// to. The embedder decides when a requested render pass actually runs
// and what "after paint" means for passive effects.
type Host interface {
	// RequestRender is invoked whenever an instance needs a new render
	// pass (state write, reducer dispatch, buffered mid-render write).
	// Requests for the same instance may arrive faster than renders
	// happen; the host is expected to coalesce.
	RequestRender(inst *hooks.Instance)

	// SchedulePassive schedules a passive-phase drain on the host's
	// idle or asynchronous turn. The drain must not run before
	// SchedulePassive returns.
	SchedulePassive(drain func())
}

// AsyncHost is the default Host: render requests are forwarded to a
// callback and passive drains run on a fresh goroutine. Embedders with
// a real frame loop should bring their own Host instead.
type AsyncHost struct {
	// OnRenderRequest receives re-render requests. Nil drops them.
	OnRenderRequest func(inst *hooks.Instance)
}

// RequestRender implements Host.
func (h *AsyncHost) RequestRender(inst *hooks.Instance) {
	if h.OnRenderRequest != nil {
		h.OnRenderRequest(inst)
	}
}

// SchedulePassive implements Host.
func (h *AsyncHost) SchedulePassive(drain func()) {
	go drain()
}
