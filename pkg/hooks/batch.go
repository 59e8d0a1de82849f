package hooks

import (
	"runtime"
	"sync"
)

// batchContext holds the batching state for one goroutine. Batches are
// goroutine-scoped: writes performed on other goroutines during a
// Batch call are not grouped with it.
type batchContext struct {
	// depth tracks nested Batch calls. When > 0, re-render requests
	// queue instead of reaching the scheduler immediately.
	depth int

	// pending accumulates instances to request when the outermost
	// batch completes. Deduplicated by instance ID before dispatch.
	pending []*Instance
}

// batchContexts stores per-goroutine batch contexts.
var batchContexts sync.Map

// goroutineID returns a unique identifier for the current goroutine,
// parsed from the runtime stack header ("goroutine <id> ...").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func getBatchContext() *batchContext {
	gid := goroutineID()
	if ctx, ok := batchContexts.Load(gid); ok {
		return ctx.(*batchContext)
	}
	ctx := &batchContext{}
	batchContexts.Store(gid, ctx)
	return ctx
}

// queueBatchRender queues a re-render request if a batch is active on
// this goroutine. Returns false when no batch is active and the
// request should go straight to the scheduler.
func queueBatchRender(i *Instance) bool {
	ctx := getBatchContext()
	if ctx.depth == 0 {
		return false
	}
	ctx.pending = append(ctx.pending, i)
	return true
}

// Batch groups state writes and reducer dispatches performed inside fn
// into a single re-render request per touched instance. Requests are
// collected, deduplicated by instance ID, and issued when the
// outermost batch completes.
//
// Batches can be nested; only the outermost completion dispatches.
//
//	hooks.Batch(func() {
//	    first.Set("John")
//	    last.Set("Doe")
//	    age.Set(30)
//	})
//	// one render request for the owning instance
func Batch(fn func()) {
	ctx := getBatchContext()
	ctx.depth++

	defer func() {
		ctx.depth--
		if ctx.depth == 0 {
			flushBatch(ctx)
		}
	}()

	fn()
}

// flushBatch dispatches queued requests, one per unique instance, in
// first-queued order.
func flushBatch(ctx *batchContext) {
	pending := ctx.pending
	ctx.pending = nil
	if len(pending) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(pending))
	for _, inst := range pending {
		if seen[inst.id] {
			continue
		}
		seen[inst.id] = true
		if inst.unmounted.Load() {
			continue
		}
		if inst.scheduler != nil {
			inst.scheduler.RequestRender(inst)
		}
	}
}
