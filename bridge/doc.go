// Package bridge moves work and results across the boundary between the
// worker pool and the owning loop.
//
// # Scheduling
//
// Schedule ferries one task through a strictly linear state machine:
// Input -> Executing -> Output -> consumed. The execute stage runs on a
// pool goroutine with no environment access; the complete stage runs on
// the owning loop with the output:
//
//	bridge.Schedule(env, 5,
//	    func(n int) int { return n * 2 },
//	    func(env *host.Env, out int) {
//	        // owning loop, out == 10
//	    })
//
// Cancellation before execution starts is the only cancellation there
// is: the complete trampoline still runs (releasing the work handle)
// but the user callback is skipped. A running task always finishes.
//
// # Channels
//
// Channel sends closures to the owning loop from any goroutine - the
// general-purpose counterpart to Schedule for code that already has a
// result and only needs environment access. Closures arriving after
// teardown are dropped.
package bridge
