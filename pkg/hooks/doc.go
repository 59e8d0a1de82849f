// Package hooks implements a per-component hook state runtime: ordered
// state slots with stable call-position identity, dependency-gated
// memoization, reducer-based state transitions, and two-phase effect
// cells (layout and passive).
//
// The package owns slot bookkeeping only. Deciding when a render pass
// happens, committing the result, and draining effect queues is the job
// of an embedding runtime (see package runtime in this module), which
// plugs in through the Scheduler and ErrorSink interfaces.
//
// State lives on an Instance, one per mounted occurrence of a render
// function. Slot access goes through an explicit *Session handle rather
// than hidden goroutine-local state:
//
//	func Counter(s *hooks.Session) runtime.RenderResult {
//	    count, setCount := hooks.UseState(s, 0)
//	    double := hooks.UseMemo(s, func() int { return count * 2 }, hooks.DepsOf(count))
//	    hooks.UseEffect(s, func() hooks.Cleanup {
//	        log.Println("count is now", count)
//	        return nil
//	    }, hooks.DepsOf(count))
//	    _ = double
//	    _ = setCount
//	    return nil
//	}
//
// Slot calls must happen in the same order on every render of an
// instance. A call pattern that varies between renders (hooks inside
// conditionals or variable loops) is a fatal usage error and aborts
// that instance's render with a *SlotOrderError.
package hooks
