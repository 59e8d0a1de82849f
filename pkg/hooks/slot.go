package hooks

// Kind identifies the variant of a slot. The kind of each call
// position is fixed on the first render; a different kind at the same
// position on a later render is a slot order violation.
type Kind uint8

const (
	KindState Kind = iota + 1
	KindReducer
	KindMemo
	KindCallback
	KindRef
	KindEffect
	KindLayoutEffect
)

// String returns a human-readable name for the slot kind.
func (k Kind) String() string {
	switch k {
	case KindState:
		return "State"
	case KindReducer:
		return "Reducer"
	case KindMemo:
		return "Memo"
	case KindCallback:
		return "Callback"
	case KindRef:
		return "Ref"
	case KindEffect:
		return "Effect"
	case KindLayoutEffect:
		return "LayoutEffect"
	default:
		return "Unknown"
	}
}

// EffectState is the lifecycle state of an effect slot.
type EffectState uint8

const (
	// EffectIdle: the effect is not queued and not running.
	EffectIdle EffectState = iota

	// EffectScheduled: dependencies changed during a render; the effect
	// is waiting in a phase queue.
	EffectScheduled

	// EffectCleaning: the previous run's cleanup is executing.
	EffectCleaning

	// EffectRunning: the effect body is executing.
	EffectRunning

	// EffectDestroyed: the owning instance unmounted; the slot will
	// never run again.
	EffectDestroyed
)

// Phase distinguishes the two effect queues.
type Phase uint8

const (
	// PhaseLayout effects drain synchronously after commit, before paint.
	PhaseLayout Phase = iota + 1

	// PhasePassive effects drain asynchronously after paint.
	PhasePassive
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseLayout:
		return "layout"
	case PhasePassive:
		return "passive"
	default:
		return "unknown"
	}
}

// Cleanup is a function returned by an effect body to release whatever
// the body acquired. It runs before the effect's next invocation and
// once at unmount.
type Cleanup func()

// slot is one persistent state cell, indexed by call order within the
// owning instance. It is a tagged variant: kind decides which fields
// are live.
type slot struct {
	kind Kind

	// State and Reducer slots.
	value        any
	reducer      any // typed func(S, A) S, refreshed every render
	handle       any // stable *State[T] or Dispatch[A], allocated once
	pendingValue any
	pending      bool

	// Memo and Callback slots.
	memo  any
	valid bool

	// Dependency list recorded by the previous render
	// (memo, callback and effect slots).
	deps Deps

	// Effect slots.
	phase   Phase
	body    func() Cleanup
	cleanup Cleanup
	estate  EffectState

	// Ref slots: the boxed reference, allocated once.
	ref any
}
