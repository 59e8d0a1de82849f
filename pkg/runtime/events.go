package runtime

import (
	"sync"
	"time"
)

// EventType classifies recorder events.
type EventType string

const (
	EventMount          EventType = "mount"
	EventUnmount        EventType = "unmount"
	EventRender         EventType = "render"
	EventRenderError    EventType = "render_error"
	EventRenderRequest  EventType = "render_request"
	EventEffectRun      EventType = "effect_run"
	EventEffectError    EventType = "effect_error"
	EventReducerError   EventType = "reducer_error"
	EventDepsMismatch   EventType = "deps_mismatch"
	EventBudgetExceeded EventType = "budget_exceeded"
)

// Event is one entry in the runtime's activity stream. Slot is -1 when
// the event is not tied to a single slot.
type Event struct {
	Seq        uint64    `json:"seq"`
	Time       time.Time `json:"time"`
	Type       EventType `json:"type"`
	Instance   uint64    `json:"instance,omitempty"`
	Slot       int       `json:"slot"`
	Phase      string    `json:"phase,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationUS int64     `json:"duration_us,omitempty"`
}

// Recorder is a thread-safe ring buffer of recent runtime events with
// fan-out to live subscribers. The ring overwrites oldest entries when
// full, keeping a sliding window for the devtools inspector; slow
// subscribers lose events rather than stalling the runtime.
type Recorder struct {
	mu       sync.Mutex
	entries  []Event
	head     int // next write position (circular)
	count    int
	capacity int
	seq      uint64

	subs    map[uint64]chan Event
	nextSub uint64
}

// NewRecorder creates a recorder keeping the last capacity events.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 256
	}
	return &Recorder{
		entries:  make([]Event, capacity),
		capacity: capacity,
		subs:     make(map[uint64]chan Event),
	}
}

// Record stamps and stores an event, then fans it out to subscribers.
// Subscriber channels that are full drop the event.
func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	r.seq++
	e.Seq = r.seq
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	r.entries[r.head] = e
	r.head = (r.head + 1) % r.capacity
	if r.count < r.capacity {
		r.count++
	}

	for _, ch := range r.subs {
		select {
		case ch <- e:
		default:
		}
	}
	r.mu.Unlock()
}

// Recent returns the buffered events, oldest first.
func (r *Recorder) Recent() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, 0, r.count)
	start := r.head - r.count
	if start < 0 {
		start += r.capacity
	}
	for n := 0; n < r.count; n++ {
		out = append(out, r.entries[(start+n)%r.capacity])
	}
	return out
}

// Subscribe registers a live event channel with the given buffer size.
// The returned cancel function unregisters and closes it.
func (r *Recorder) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Event, buffer)

	r.mu.Lock()
	r.nextSub++
	id := r.nextSub
	r.subs[id] = ch
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}
