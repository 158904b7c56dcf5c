// Package host implements the host collaborator layer of the extension
// runtime: one owning dispatch loop per instance, a worker pool for
// blocking or CPU-bound work, and the threadsafe callback-delivery
// primitive connecting the two.
//
// # Threading Model
//
// Each Instance has exactly one owning loop goroutine. Every callback the
// loop runs receives a *Env; holding that value is the proof of
// serialized access to environment state (the object graph, the
// instance-data slot, guest modules). Pool goroutines never receive an
// environment and must not touch environment state.
//
//	inst := host.NewInstance(host.Options{PoolWorkers: 4})
//	inst.Run(func(env *host.Env) {
//	    // owning loop: environment access is safe here
//	})
//
// # Callback Delivery
//
// ThreadsafeFunction is the one structure shared across goroutines. Any
// goroutine may Call it; each call is delivered exactly once, on the
// loop, in no guaranteed order relative to other calls. Deliveries that
// land after Instance.Close observe a nil environment and must no-op on
// anything environment-bound.
//
// # Async Work
//
// AsyncWork carries one unit of pool work: execute runs on a pool
// goroutine, complete runs later on the loop with StatusOk, or with
// StatusCancelled if the work was cancelled before it started. Once
// execute begins the work always runs to completion; there is no
// mid-flight cancellation.
//
// # Liveness
//
// Instance.Wait returns once nothing keeps the instance alive: referenced
// threadsafe functions and queued async work each hold a keep-alive.
// Unreferenced threadsafe functions (Unref) still deliver calls but do
// not block Wait - the deferred-release queue relies on this so an idle
// queue never prevents shutdown.
package host
