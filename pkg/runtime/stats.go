package runtime

import (
	"sync/atomic"
	"time"
)

// counters are the runtime's internal atomic counters, kept separate
// from Prometheus so Stats works without a metrics registry.
type counters struct {
	active         atomic.Int64
	mounted        atomic.Int64
	unmounted      atomic.Int64
	renders        atomic.Int64
	renderErrors   atomic.Int64
	renderRequests atomic.Int64
	layoutRuns     atomic.Int64
	passiveRuns    atomic.Int64
	effectErrors   atomic.Int64
	reducerErrors  atomic.Int64
}

// Stats is a point-in-time snapshot of runtime activity.
type Stats struct {
	ActiveInstances int64
	MountedTotal    int64
	UnmountedTotal  int64

	Renders        int64
	RenderErrors   int64
	RenderRequests int64

	LayoutRuns  int64
	PassiveRuns int64

	EffectErrors  int64
	ReducerErrors int64

	CollectedAt time.Time
}

// Stats returns a snapshot of the runtime's counters.
func (rt *Runtime) Stats() Stats {
	return Stats{
		ActiveInstances: rt.counters.active.Load(),
		MountedTotal:    rt.counters.mounted.Load(),
		UnmountedTotal:  rt.counters.unmounted.Load(),
		Renders:         rt.counters.renders.Load(),
		RenderErrors:    rt.counters.renderErrors.Load(),
		RenderRequests:  rt.counters.renderRequests.Load(),
		LayoutRuns:      rt.counters.layoutRuns.Load(),
		PassiveRuns:     rt.counters.passiveRuns.Load(),
		EffectErrors:    rt.counters.effectErrors.Load(),
		ReducerErrors:   rt.counters.reducerErrors.Load(),
		CollectedAt:     time.Now(),
	}
}
