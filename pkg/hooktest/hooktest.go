// Package hooktest provides deterministic testing helpers for hook
// components: a manually stepped Host, an error-collecting sink, and a
// Harness that drives render/commit/paint cycles synchronously.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := hooktest.New(runtime.RenderFunc(Counter))
//	    h.Cycle(t) // render + commit + paint + passive drain
//	    h.Cycle(t)
//	    if got := h.Host.TakeRenderRequests(); len(got) != 0 {
//	        t.Errorf("unexpected render requests: %d", len(got))
//	    }
//	}
//
// Nothing in hooktest spawns goroutines: passive drains queue on the
// ManualHost and run only when FlushPassive is called, so tests
// observe every intermediate state of the effect queues.
package hooktest

import (
	"sync"
	"testing"

	"github.com/tetherui/tether/pkg/hooks"
	"github.com/tetherui/tether/pkg/runtime"
)

// ManualHost is a runtime.Host driven explicitly by the test. Render
// requests accumulate (deduplicated per instance) until taken; passive
// drains queue until flushed.
type ManualHost struct {
	mu       sync.Mutex
	requests []*hooks.Instance
	passive  []func()
}

var _ runtime.Host = (*ManualHost)(nil)

// RequestRender implements runtime.Host.
func (h *ManualHost) RequestRender(inst *hooks.Instance) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.requests {
		if r.ID() == inst.ID() {
			return
		}
	}
	h.requests = append(h.requests, inst)
}

// SchedulePassive implements runtime.Host.
func (h *ManualHost) SchedulePassive(drain func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.passive = append(h.passive, drain)
}

// TakeRenderRequests returns and clears the pending render requests.
func (h *ManualHost) TakeRenderRequests() []*hooks.Instance {
	h.mu.Lock()
	defer h.mu.Unlock()
	reqs := h.requests
	h.requests = nil
	return reqs
}

// PendingRenders returns the number of pending render requests.
func (h *ManualHost) PendingRenders() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.requests)
}

// FlushPassive runs every scheduled passive drain, including drains
// scheduled by the drains themselves, until none remain. Returns the
// number of drains run.
func (h *ManualHost) FlushPassive() int {
	total := 0
	for {
		h.mu.Lock()
		drains := h.passive
		h.passive = nil
		h.mu.Unlock()

		if len(drains) == 0 {
			return total
		}
		for _, d := range drains {
			d()
			total++
		}
	}
}

// PendingPassive returns the number of scheduled, not-yet-run drains.
func (h *ManualHost) PendingPassive() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.passive)
}

// Report is one error delivered to the sink.
type Report struct {
	Instance uint64
	Slot     int
	Err      error
}

// SinkRecorder is a hooks.ErrorSink that collects reports.
type SinkRecorder struct {
	mu      sync.Mutex
	reports []Report
}

var _ hooks.ErrorSink = (*SinkRecorder)(nil)

// ReportError implements hooks.ErrorSink.
func (s *SinkRecorder) ReportError(inst *hooks.Instance, slot int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, Report{Instance: inst.ID(), Slot: slot, Err: err})
}

// Reports returns a snapshot of collected reports.
func (s *SinkRecorder) Reports() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// Reset clears collected reports.
func (s *SinkRecorder) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = nil
}

// Harness wires a Runtime to a ManualHost and SinkRecorder and mounts
// one root component.
type Harness struct {
	RT   *runtime.Runtime
	Host *ManualHost
	Sink *SinkRecorder
	Root *hooks.Instance
}

// New builds a harness and mounts the component. Extra runtime options
// are appended after the harness's own host and sink wiring.
func New(c runtime.Component, opts ...runtime.Option) *Harness {
	host := &ManualHost{}
	sink := &SinkRecorder{}
	all := append([]runtime.Option{
		runtime.WithHost(host),
		runtime.WithErrorSink(sink),
	}, opts...)

	rt := runtime.New(all...)
	return &Harness{
		RT:   rt,
		Host: host,
		Sink: sink,
		Root: rt.Mount(c),
	}
}

// Render runs one render pass of the root, failing the test on error.
func (h *Harness) Render(t *testing.T) runtime.RenderResult {
	t.Helper()
	res, err := h.RT.Render(h.Root)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return res
}

// RenderErr runs one render pass and returns its error.
func (h *Harness) RenderErr() (runtime.RenderResult, error) {
	return h.RT.Render(h.Root)
}

// Cycle performs one full frame: render, commit (layout drain), paint
// and a synchronous passive drain.
func (h *Harness) Cycle(t *testing.T) runtime.RenderResult {
	t.Helper()
	res := h.Render(t)
	h.RT.Commit()
	h.RT.Paint()
	h.Host.FlushPassive()
	return res
}

// Settle runs Cycle repeatedly while render requests are pending, up
// to max frames, and returns the number of frames run. It fails the
// test if requests are still pending after max frames (a render loop).
func (h *Harness) Settle(t *testing.T, max int) int {
	t.Helper()
	frames := 0
	for h.Host.PendingRenders() > 0 {
		if frames >= max {
			t.Fatalf("still %d pending render requests after %d frames",
				h.Host.PendingRenders(), frames)
		}
		h.Host.TakeRenderRequests()
		h.Cycle(t)
		frames++
	}
	return frames
}
