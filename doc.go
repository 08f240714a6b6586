// Package hotpath is an in-process performance telemetry engine.
//
// Instrumented call sites submit timing or allocation measurements that
// are aggregated off the critical path by a dedicated goroutine. When
// the session ends, per-label statistics (calls, average, requested
// percentiles, total and percent-of-total) are rendered as a table or
// JSON payload.
//
// A typical session:
//
//	func main() {
//	    session := hotpath.Start("main", hotpath.WithPercentiles(50, 95, 99))
//	    defer session.Stop()
//
//	    for i := 0; i < 1000; i++ {
//	        step()
//	    }
//	}
//
//	func step() {
//	    defer hotpath.Measure("step")()
//	    // work
//	}
//
// Submitting a measurement never blocks: when the internal buffer is
// full the event is dropped and the loss is reported at the end of the
// session. Exactly one session may be active per process; starting a
// second one panics.
//
// # Allocation tracking
//
// With one of the allocation modes active, Measure pushes a scope
// marker and the OnAlloc/OnDealloc hooks attribute allocator activity
// to the innermost scope. Attribution is only correct when all
// instrumented work runs on a single goroutine pinned to one OS
// thread; see the alloctrack package documentation for the full
// precondition.
package hotpath
