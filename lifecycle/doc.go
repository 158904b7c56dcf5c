// Package lifecycle manages per-instance shared state and the
// deferred release of owning-loop-confined resources.
//
// # Instance Data
//
// Each runtime instance gets one InstanceData record, created lazily on
// first access from the owning loop and stored in the instance's opaque
// data slot:
//
//	data := lifecycle.Get(env)    // lazy init
//	id := lifecycle.ID(env)       // process-unique instance identifier
//	ch := lifecycle.Channel(env)  // referenced clone of the shared channel
//
// No locking guards the lazy init: holding an environment already proves
// serialized access.
//
// # Deferred Release
//
// Resources confined to the owning loop (object references, pending
// promises) sometimes see their last owner on another goroutine. The
// drop queue carries the release request back:
//
//	lifecycle.EnqueueRelease(lifecycle.DropQueue(env), lifecycle.DropRef(ref))
//
// The queue is unreferenced by default, so its mere existence never
// keeps an idle instance alive. Requests delivered after teardown are
// silently skipped: the environment's own reclamation already covered
// them, and calling back into a torn-down environment is not attempted.
// No ordering holds across distinct requests, and none is needed - each
// is independent and enqueued exactly once.
//
// # Roots
//
// Root packages the common case: a handle to an environment object that
// may roam across goroutines and picks the right release path when
// dropped.
package lifecycle
