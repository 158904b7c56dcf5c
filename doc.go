// Package extensionhost provides the concurrency core for native
// extension runtimes: a cross-goroutine task scheduler, a deferred
// resource release queue, and a per-instance data registry.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	extension-host/      Root package documentation
//	├── host/            Owning loop, instance, environment, threadsafe
//	│                    callback delivery, async work and worker pool
//	├── bridge/          Typed task scheduling between pool and loop,
//	│                    plus the cross-goroutine Channel
//	├── lifecycle/       Per-instance data, deferred release queue, and
//	│                    cross-thread object roots
//	├── guest/           wazero-backed guest modules confined to the loop
//	├── resource/        Reference-counted object graph
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Create an instance and schedule work off the owning loop:
//
//	inst := host.NewInstance(host.Options{PoolWorkers: 4})
//	defer inst.Close(ctx)
//
//	inst.Run(func(env *host.Env) {
//	    bridge.Schedule(env, 21,
//	        func(n int) int { return n * 2 },
//	        func(env *host.Env, out int) {
//	            fmt.Println(out) // 42, delivered back on the loop
//	        })
//	})
//
// # Thread Safety
//
// All environment state is confined to the owning loop: an *Env is only
// ever handed to callbacks the loop runs, and holding one is the proof
// of serialized access. ThreadsafeFunction, Channel, and Root are the
// sanctioned ways to reach the loop from other goroutines; everything
// else in host and guest assumes loop confinement.
//
// # Teardown
//
// Closing an instance drains the worker pool, then tears down the
// environment. Deliveries that race past teardown still run, but with a
// nil environment so they can release their payloads without touching
// instance state.
package extensionhost
