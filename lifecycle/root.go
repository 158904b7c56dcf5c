package lifecycle

import (
	"sync/atomic"

	"github.com/wippyai/extension-host/errors"
	"github.com/wippyai/extension-host/host"
	"github.com/wippyai/extension-host/resource"
)

// Root is a cross-thread handle to an environment object. It can move
// freely between goroutines; the reference it holds is given back either
// directly on the owning loop (Unroot) or from anywhere through the
// instance's deferred-release queue (Drop).
type Root struct {
	ref     *host.Ref
	queue   *host.ThreadsafeFunction[DropData]
	dropped atomic.Bool
}

// NewRoot takes a counted reference to an object, producing a handle
// that may leave the owning loop.
func NewRoot(env *host.Env, handle resource.Handle) *Root {
	queue := DropQueue(env)
	if err := queue.Acquire(); err != nil {
		panic(errors.Contract(errors.PhaseInit, "drop queue released while instance alive"))
	}
	return &Root{
		ref:   env.Retain(handle),
		queue: queue,
	}
}

// Clone takes another reference to the same object. Must be called on
// the owning loop.
func (r *Root) Clone(env *host.Env) *Root {
	if r.dropped.Load() {
		panic(errors.Contract(errors.PhaseRelease, "clone of dropped root"))
	}
	return NewRoot(env, r.ref.Handle())
}

// Value resolves the rooted object. Must be called on the owning loop.
func (r *Root) Value(env *host.Env) (any, bool) {
	if r.dropped.Load() {
		return nil, false
	}
	return r.ref.Value(env)
}

// Unroot gives the reference back directly. Must be called on the owning
// loop; cheaper than Drop since no queue round-trip is needed.
func (r *Root) Unroot(env *host.Env) {
	if !r.dropped.CompareAndSwap(false, true) {
		panic(errors.Contract(errors.PhaseRelease, "root dropped twice"))
	}
	r.ref.Unref(env)
	r.queue.Release()
}

// Drop gives the reference back through the deferred-release queue. Safe
// from any goroutine. If the environment is torn down before delivery,
// the release is silently skipped.
func (r *Root) Drop() {
	if !r.dropped.CompareAndSwap(false, true) {
		panic(errors.Contract(errors.PhaseRelease, "root dropped twice"))
	}
	// Call cannot fail while this root holds an owner on the queue
	EnqueueRelease(r.queue, DropRef(r.ref))
	r.queue.Release()
}
