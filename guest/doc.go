// Package guest loads and runs WebAssembly guest modules on top of the
// host runtime.
//
// # Confinement
//
// A wazero module instance is not safe for concurrent use, so every
// operation on a Module requires a live *host.Env: the environment is
// only ever handed out on the owning loop, which serializes all guest
// access for free. Code holding a Module on another goroutine schedules
// onto the loop first:
//
//	inst.Run(func(env *host.Env) {
//		results, err := mod.Call(env, "add", 2, 3)
//		...
//	})
//
// # Ownership
//
// A Module can be registered in the environment's object graph with
// Register, after which it participates in the same reference counting
// and deferred release as any other environment object. When the last
// reference drops, or the graph is closed at teardown, the module's
// runtime is closed with it.
package guest
