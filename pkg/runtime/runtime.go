package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tetherui/tether/pkg/hooks"
)

// RenderResult is whatever the render function produces for the
// reconciler to commit. The runtime treats it as opaque.
type RenderResult any

// Component is a renderable unit: a stateless render function whose
// state lives entirely in the instance's slots.
type Component interface {
	Render(s *hooks.Session) RenderResult
}

// RenderFunc wraps a plain function as a Component.
type RenderFunc func(s *hooks.Session) RenderResult

// Render calls the wrapped function.
func (f RenderFunc) Render(s *hooks.Session) RenderResult {
	return f(s)
}

// Runtime owns the mounted instances, the two effect queues, and the
// observability surface. It implements hooks.Scheduler and
// hooks.ErrorSink for the instances it creates.
type Runtime struct {
	host     Host
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	sink     hooks.ErrorSink
	recorder *Recorder

	// passiveBudget caps effect runs per passive drain; 0 = unlimited.
	passiveBudget int

	mu               sync.Mutex
	components       map[uint64]Component
	layoutQ          []queuedEffect
	passiveQ         []queuedEffect
	passiveScheduled bool

	counters counters
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithHost sets the scheduling substrate.
func WithHost(h Host) Option {
	return func(rt *Runtime) { rt.host = h }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) { rt.logger = l }
}

// WithErrorSink sets the error-boundary sink that receives reducer,
// effect and dependency-diagnostic failures.
func WithErrorSink(s hooks.ErrorSink) Option {
	return func(rt *Runtime) { rt.sink = s }
}

// WithMetrics attaches a Prometheus metrics set.
func WithMetrics(m *Metrics) Option {
	return func(rt *Runtime) { rt.metrics = m }
}

// WithRecorder attaches an event recorder (see package devtools).
func WithRecorder(r *Recorder) Option {
	return func(rt *Runtime) { rt.recorder = r }
}

// WithTracerName sets the OpenTelemetry tracer name (default "tether").
func WithTracerName(name string) Option {
	return func(rt *Runtime) { rt.tracer = otel.Tracer(name) }
}

// WithPassiveBudget caps the number of passive effects executed per
// drain. Leftover effects stay queued and a follow-up drain is
// scheduled; the overflow is reported as ErrBudgetExceeded.
func WithPassiveBudget(n int) Option {
	return func(rt *Runtime) { rt.passiveBudget = n }
}

// New creates a Runtime. Without options it uses an AsyncHost that
// drops render requests, the default slog logger, and no metrics or
// recorder.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		host:       &AsyncHost{},
		logger:     slog.Default().With("component", "runtime"),
		tracer:     otel.Tracer(defaultTracerName),
		components: make(map[uint64]Component),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// Recorder returns the attached event recorder, or nil.
func (rt *Runtime) Recorder() *Recorder {
	return rt.recorder
}

// Mount creates and registers a root instance for the component. The
// first render pass is not run here; the reconciler calls Render when
// it is ready to commit.
func (rt *Runtime) Mount(c Component) *hooks.Instance {
	return rt.MountChild(c, nil)
}

// MountChild creates and registers an instance owned by parent.
// Unmounting the parent unmounts it.
func (rt *Runtime) MountChild(c Component, parent *hooks.Instance) *hooks.Instance {
	inst := hooks.NewInstance(parent, rt, rt)

	rt.mu.Lock()
	rt.components[inst.ID()] = c
	rt.mu.Unlock()

	rt.counters.mounted.Add(1)
	rt.counters.active.Add(1)
	if rt.metrics != nil {
		rt.metrics.activeInstances.Inc()
	}
	rt.record(Event{Type: EventMount, Instance: inst.ID()})
	rt.logger.Debug("instance mounted", "instance", inst.ID())
	return inst
}

// Render runs one render session for the instance and, on success,
// appends the effects whose dependencies changed to the layout and
// passive queues. The queues drain on the next Commit / Paint pair.
//
// A slot order violation aborts the pass, marks the instance failed,
// and is returned; it is fatal for this instance.
func (rt *Runtime) Render(inst *hooks.Instance) (RenderResult, error) {
	rt.mu.Lock()
	comp := rt.components[inst.ID()]
	rt.mu.Unlock()
	if comp == nil {
		return nil, fmt.Errorf("runtime: render of unknown instance %d", inst.ID())
	}

	span := rt.startSpan("tether.render",
		attribute.Int64("instance.id", int64(inst.ID())))
	defer span.End()

	start := time.Now()
	var res RenderResult
	batch, err := hooks.RunRender(inst, func(s *hooks.Session) {
		res = comp.Render(s)
	})
	elapsed := time.Since(start)

	if rt.metrics != nil {
		rt.metrics.renderDuration.Observe(elapsed.Seconds())
	}

	if err != nil {
		rt.counters.renderErrors.Add(1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		var soe *hooks.SlotOrderError
		if errors.As(err, &soe) {
			if rt.metrics != nil {
				rt.metrics.slotOrderViolations.Inc()
			}
			rt.logger.Error("slot order violation", "instance", inst.ID(), "error", err)
		} else {
			rt.logger.Error("render failed", "instance", inst.ID(), "error", err)
		}
		rt.record(Event{Type: EventRenderError, Instance: inst.ID(), Slot: -1, Error: err.Error()})
		return nil, err
	}

	rt.counters.renders.Add(1)
	if rt.metrics != nil {
		rt.metrics.rendersTotal.Inc()
	}
	span.SetAttributes(
		attribute.Int("effects.layout", len(batch.Layout)),
		attribute.Int("effects.passive", len(batch.Passive)),
	)

	rt.mu.Lock()
	for _, idx := range batch.Layout {
		rt.layoutQ = append(rt.layoutQ, queuedEffect{inst: inst, slot: idx})
	}
	for _, idx := range batch.Passive {
		rt.passiveQ = append(rt.passiveQ, queuedEffect{inst: inst, slot: idx})
	}
	rt.mu.Unlock()

	rt.record(Event{Type: EventRender, Instance: inst.ID(), Slot: -1,
		DurationUS: elapsed.Microseconds()})
	return res, nil
}

// Unmount destroys an instance and its children. Queued effects for
// the whole subtree are removed from both queues best-effort; stored
// cleanup handles still run exactly once via hooks.Instance.Unmount.
//
// Counters only account for instances still registered, so repeated
// calls (or unmounting a child first and then its parent) never drive
// the active gauge negative.
func (rt *Runtime) Unmount(inst *hooks.Instance) {
	ids := make(map[uint64]bool)
	collectTree(inst, ids)

	rt.mu.Lock()
	removed := int64(0)
	for id := range ids {
		if _, ok := rt.components[id]; ok {
			delete(rt.components, id)
			removed++
		}
	}
	if removed > 0 {
		rt.layoutQ = removeQueued(rt.layoutQ, ids)
		rt.passiveQ = removeQueued(rt.passiveQ, ids)
	}
	rt.mu.Unlock()

	inst.Unmount()

	if removed == 0 {
		return
	}
	rt.counters.unmounted.Add(removed)
	rt.counters.active.Add(-removed)
	if rt.metrics != nil {
		rt.metrics.activeInstances.Sub(float64(removed))
	}
	rt.record(Event{Type: EventUnmount, Instance: inst.ID(), Slot: -1})
	rt.logger.Debug("instance unmounted", "instance", inst.ID(), "subtree", removed)
}

// collectTree gathers the IDs of an instance and all descendants.
func collectTree(inst *hooks.Instance, ids map[uint64]bool) {
	ids[inst.ID()] = true
	for _, child := range inst.Children() {
		collectTree(child, ids)
	}
}

// RequestRender implements hooks.Scheduler. Requests pass through to
// the host, which owns coalescing and timing.
func (rt *Runtime) RequestRender(inst *hooks.Instance) {
	rt.counters.renderRequests.Add(1)
	if rt.metrics != nil {
		rt.metrics.renderRequests.Inc()
	}
	rt.record(Event{Type: EventRenderRequest, Instance: inst.ID(), Slot: -1})
	rt.host.RequestRender(inst)
}

// ReportError implements hooks.ErrorSink: classify, count, record, log,
// then forward to the embedder's sink if one is configured.
func (rt *Runtime) ReportError(inst *hooks.Instance, slot int, err error) {
	var (
		re  *hooks.ReducerError
		ee  *hooks.EffectRunError
		ce  *hooks.EffectCleanupError
		de  *hooks.DepsLengthError
		typ EventType
	)
	switch {
	case errors.As(err, &re):
		typ = EventReducerError
		rt.counters.reducerErrors.Add(1)
		if rt.metrics != nil {
			rt.metrics.reducerErrors.Inc()
		}
	case errors.As(err, &ee):
		typ = EventEffectError
		rt.counters.effectErrors.Add(1)
		if rt.metrics != nil {
			rt.metrics.effectErrors.WithLabelValues("run").Inc()
		}
	case errors.As(err, &ce):
		typ = EventEffectError
		rt.counters.effectErrors.Add(1)
		if rt.metrics != nil {
			rt.metrics.effectErrors.WithLabelValues("cleanup").Inc()
		}
	case errors.As(err, &de):
		typ = EventDepsMismatch
		if rt.metrics != nil {
			rt.metrics.depsMismatches.Inc()
		}
	default:
		typ = EventEffectError
	}

	rt.record(Event{Type: typ, Instance: inst.ID(), Slot: slot, Error: err.Error()})
	rt.logger.Error("instance error", "instance", inst.ID(), "slot", slot, "error", err)

	if rt.sink != nil {
		rt.sink.ReportError(inst, slot, err)
	}
}

// record emits an event to the recorder, if one is attached.
func (rt *Runtime) record(e Event) {
	if rt.recorder != nil {
		rt.recorder.Record(e)
	}
}
