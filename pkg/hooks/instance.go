package hooks

import (
	"sync"
	"sync/atomic"
)

// Scheduler is the external collaborator that decides when a requested
// render pass actually happens. State writes and reducer dispatches
// never render synchronously; they ask the scheduler for a future pass.
type Scheduler interface {
	// RequestRender asks for a render pass of the given instance.
	// Multiple requests before the pass runs may be coalesced.
	RequestRender(inst *Instance)
}

// ErrorSink receives value-level failures (reducer transitions, effect
// bodies, effect cleanups) and diagnostics, tagged with the offending
// instance and slot index. A slot index of -1 means the error is not
// tied to a single slot.
type ErrorSink interface {
	ReportError(inst *Instance, slot int, err error)
}

// Instance is the identity of one mounted occurrence of a render
// function. It exclusively owns an ordered list of slots; no slot is
// ever shared across instances.
//
// Instances form a hierarchy: unmounting a parent unmounts its
// children first, in reverse creation order.
type Instance struct {
	id uint64

	// parent is the parent instance, nil for roots.
	parent *Instance

	children   []*Instance
	childrenMu sync.Mutex

	// cleanups are manual cleanup functions registered via OnCleanup,
	// run at unmount in reverse registration order.
	cleanups   []func()
	cleanupsMu sync.Mutex

	scheduler Scheduler
	sink      ErrorSink

	// mu guards the slot list and render-session state below.
	mu        sync.Mutex
	slots     []*slot
	slotCount int  // recorded at the end of the first render, -1 before
	cursor    int  // next slot position during an active session
	rendering bool // a session is active
	failed    bool // a slot order violation was detected
	renders   uint64

	unmounted atomic.Bool
}

// NewInstance creates an instance owned by the given parent (nil for a
// root). The scheduler receives this instance's re-render requests; the
// sink receives its value-level errors. Either may be nil, in which
// case requests or reports are dropped.
func NewInstance(parent *Instance, scheduler Scheduler, sink ErrorSink) *Instance {
	inst := &Instance{
		id:        nextID(),
		parent:    parent,
		scheduler: scheduler,
		sink:      sink,
		slotCount: -1,
	}
	if parent != nil {
		parent.addChild(inst)
	}
	return inst
}

// ID returns the unique identifier for this instance.
func (i *Instance) ID() uint64 {
	return i.id
}

// Parent returns the parent instance, or nil for a root.
func (i *Instance) Parent() *Instance {
	return i.parent
}

// Children returns a snapshot of the instance's children in creation
// order.
func (i *Instance) Children() []*Instance {
	i.childrenMu.Lock()
	defer i.childrenMu.Unlock()
	out := make([]*Instance, len(i.children))
	copy(out, i.children)
	return out
}

// IsUnmounted returns true once Unmount has been called.
func (i *Instance) IsUnmounted() bool {
	return i.unmounted.Load()
}

// Renders returns the number of completed render sessions.
func (i *Instance) Renders() uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.renders
}

// SlotCount returns the number of slots recorded by the first render,
// or -1 before the first render completes.
func (i *Instance) SlotCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.slotCount
}

// OnCleanup registers a function to run when this instance unmounts.
// If the instance is already unmounted the function runs immediately.
func (i *Instance) OnCleanup(fn func()) {
	if i.unmounted.Load() {
		fn()
		return
	}
	i.cleanupsMu.Lock()
	defer i.cleanupsMu.Unlock()
	i.cleanups = append(i.cleanups, fn)
}

func (i *Instance) addChild(child *Instance) {
	i.childrenMu.Lock()
	defer i.childrenMu.Unlock()
	i.children = append(i.children, child)
}

func (i *Instance) removeChild(child *Instance) {
	i.childrenMu.Lock()
	defer i.childrenMu.Unlock()
	for n, c := range i.children {
		if c == child {
			i.children = append(i.children[:n], i.children[n+1:]...)
			return
		}
	}
}

// requestRender forwards a re-render request to the scheduler, unless
// a batch is active on this goroutine, in which case the request is
// queued and deduplicated until the outermost batch completes.
//
// Buffering of writes observed during this instance's own render
// session happens before this point (see State.Set and dispatch);
// requestRender is only reached for writes that applied immediately.
func (i *Instance) requestRender() {
	if i.unmounted.Load() {
		return
	}
	if queueBatchRender(i) {
		return
	}
	if i.scheduler != nil {
		i.scheduler.RequestRender(i)
	}
}

// reportError forwards a value-level error to the sink, if any.
func (i *Instance) reportError(slot int, err error) {
	if i.sink != nil {
		i.sink.ReportError(i, slot, err)
	}
}

// Unmount destroys the instance. Children unmount first, in reverse
// creation order. Every effect slot with a stored cleanup handle runs
// that cleanup exactly once; a panicking cleanup is reported to the
// sink and does not stop the others. Manual cleanups run last, in
// reverse registration order.
func (i *Instance) Unmount() {
	if i.unmounted.Swap(true) {
		return
	}

	if i.parent != nil {
		i.parent.removeChild(i)
	}

	i.childrenMu.Lock()
	children := make([]*Instance, len(i.children))
	copy(children, i.children)
	i.children = nil
	i.childrenMu.Unlock()

	for n := len(children) - 1; n >= 0; n-- {
		children[n].Unmount()
	}

	i.mu.Lock()
	slots := i.slots
	i.mu.Unlock()

	for idx, sl := range slots {
		if sl.kind != KindEffect && sl.kind != KindLayoutEffect {
			continue
		}
		if cl := sl.cleanup; cl != nil {
			sl.cleanup = nil
			sl.estate = EffectCleaning
			if err := runCleanup(cl, i.id, idx); err != nil {
				i.reportError(idx, err)
			}
		}
		sl.estate = EffectDestroyed
	}

	i.cleanupsMu.Lock()
	cleanups := i.cleanups
	i.cleanups = nil
	i.cleanupsMu.Unlock()

	for n := len(cleanups) - 1; n >= 0; n-- {
		cleanups[n]()
	}
}
