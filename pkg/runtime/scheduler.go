package runtime

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tetherui/tether/pkg/hooks"
)

// ErrBudgetExceeded is reported when a passive drain hits the
// configured effect budget. The remaining effects are not lost; they
// stay queued and run on the follow-up drain. The error exists so
// embedders can spot effect storms (effects that keep scheduling more
// work every drain).
var ErrBudgetExceeded = errors.New("runtime: passive effect budget exceeded for this drain")

// queuedEffect is one pending entry in a phase queue.
type queuedEffect struct {
	inst *hooks.Instance
	slot int
}

// removeQueued drops entries belonging to the given instances,
// preserving FIFO order of the rest.
func removeQueued(q []queuedEffect, ids map[uint64]bool) []queuedEffect {
	out := q[:0]
	for _, qe := range q {
		if !ids[qe.inst.ID()] {
			out = append(out, qe)
		}
	}
	return out
}

// Commit is the reconciler's notification that the render result has
// been applied to the UI but is not yet visible. It drains the layout
// queue synchronously and completely, in slot-declaration order:
// nothing should paint until Commit returns.
func (rt *Runtime) Commit() {
	rt.mu.Lock()
	q := rt.layoutQ
	rt.layoutQ = nil
	rt.mu.Unlock()

	if len(q) == 0 {
		return
	}

	span := rt.startSpan("tether.effects.layout",
		attribute.Int("queue.length", len(q)))
	defer span.End()

	for _, qe := range q {
		rt.runQueued(qe, hooks.PhaseLayout)
	}
}

// Paint is the reconciler's notification that the committed UI is now
// visible. It schedules one passive drain on the host's asynchronous
// turn; it never blocks.
func (rt *Runtime) Paint() {
	rt.mu.Lock()
	if len(rt.passiveQ) == 0 || rt.passiveScheduled {
		rt.mu.Unlock()
		return
	}
	rt.passiveScheduled = true
	rt.mu.Unlock()

	rt.host.SchedulePassive(rt.drainPassive)
}

// drainPassive runs queued passive effects in FIFO order. With a
// budget configured, at most that many effects run per drain; the
// leftovers stay queued and another drain is scheduled immediately.
func (rt *Runtime) drainPassive() {
	rt.mu.Lock()
	rt.passiveScheduled = false
	q := rt.passiveQ
	over := false
	if rt.passiveBudget > 0 && len(q) > rt.passiveBudget {
		rest := make([]queuedEffect, len(q)-rt.passiveBudget)
		copy(rest, q[rt.passiveBudget:])
		rt.passiveQ = rest
		q = q[:rt.passiveBudget]
		over = true
	} else {
		rt.passiveQ = nil
	}
	rt.mu.Unlock()

	if len(q) == 0 {
		return
	}

	span := rt.startSpan("tether.effects.passive",
		attribute.Int("queue.length", len(q)))
	for _, qe := range q {
		rt.runQueued(qe, hooks.PhasePassive)
	}
	span.End()

	if over {
		rt.logger.Warn("passive effect budget exceeded",
			"budget", rt.passiveBudget, "error", ErrBudgetExceeded)
		rt.record(Event{Type: EventBudgetExceeded, Slot: -1, Error: ErrBudgetExceeded.Error()})

		rt.mu.Lock()
		reschedule := len(rt.passiveQ) > 0 && !rt.passiveScheduled
		if reschedule {
			rt.passiveScheduled = true
		}
		rt.mu.Unlock()
		if reschedule {
			rt.host.SchedulePassive(rt.drainPassive)
		}
	}
}

// runQueued executes one queue entry, isolating its failure: an error
// goes to the sink and the drain moves on.
func (rt *Runtime) runQueued(qe queuedEffect, phase hooks.Phase) {
	err := qe.inst.RunEffect(qe.slot)

	switch phase {
	case hooks.PhaseLayout:
		rt.counters.layoutRuns.Add(1)
	case hooks.PhasePassive:
		rt.counters.passiveRuns.Add(1)
	}
	if rt.metrics != nil {
		rt.metrics.effectRuns.WithLabelValues(phase.String()).Inc()
	}
	rt.record(Event{Type: EventEffectRun, Instance: qe.inst.ID(), Slot: qe.slot,
		Phase: phase.String()})

	if err != nil {
		rt.ReportError(qe.inst, qe.slot, err)
	}
}
