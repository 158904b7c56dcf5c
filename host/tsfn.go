package host

import (
	"sync"

	"github.com/wippyai/extension-host/errors"
)

// ThreadsafeFunction lets any goroutine schedule an invocation of cb on
// the owning loop, exactly once per Call, serialized with all other loop
// activity. Deliveries that land after instance teardown receive a nil
// environment.
//
// Two independent counters govern it: an ownership count (Acquire /
// Release) controlling when the function is destroyed, and a keep-alive
// flag (Ref / Unref) controlling whether its existence keeps Instance.Wait
// from returning. A new function starts with one owner, referenced.
type ThreadsafeFunction[T any] struct {
	inst *Instance
	cb   func(env *Env, data T)

	mu         sync.Mutex
	owners     int
	referenced bool
	released   bool
}

// NewThreadsafeFunction creates a threadsafe function bound to the
// environment's instance. Must be called on the owning loop.
func NewThreadsafeFunction[T any](env *Env, cb func(env *Env, data T)) *ThreadsafeFunction[T] {
	if env == nil {
		panic(errors.Contract(errors.PhaseDispatch, "threadsafe function created without environment"))
	}
	f := &ThreadsafeFunction[T]{
		inst:       env.inst,
		cb:         cb,
		owners:     1,
		referenced: true,
	}
	f.inst.registerTsfn()
	f.inst.live.add(1)
	return f
}

// Call schedules one invocation of the callback with data. Safe from any
// goroutine. The invocation is delivered even if the instance is torn
// down first, in which case the callback observes a nil environment.
func (f *ThreadsafeFunction[T]) Call(data T) error {
	f.mu.Lock()
	if f.released {
		f.mu.Unlock()
		return errors.Released(errors.PhaseDispatch, "threadsafe function")
	}
	f.mu.Unlock()

	if !f.inst.loop.post(func(env *Env) { f.cb(env, data) }) {
		return errors.Released(errors.PhaseDispatch, "owning loop stopped")
	}
	return nil
}

// Acquire adds an owner. Each Acquire must be paired with a Release.
func (f *ThreadsafeFunction[T]) Acquire() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.released {
		return errors.Released(errors.PhaseDispatch, "threadsafe function")
	}
	f.owners++
	return nil
}

// Release drops an owner. When the last owner releases, the function is
// destroyed: further Calls fail and, if still referenced, the keep-alive
// is dropped.
func (f *ThreadsafeFunction[T]) Release() {
	f.mu.Lock()
	if f.released {
		f.mu.Unlock()
		panic(errors.Contract(errors.PhaseDispatch, "threadsafe function released twice"))
	}
	f.owners--
	if f.owners > 0 {
		f.mu.Unlock()
		return
	}
	f.released = true
	wasReferenced := f.referenced
	f.referenced = false
	f.mu.Unlock()

	if wasReferenced {
		f.inst.live.add(-1)
	}
	f.inst.unregisterTsfn()
}

// Ref marks the function as keeping the instance alive. Must be called on
// the owning loop.
func (f *ThreadsafeFunction[T]) Ref(env *Env) {
	if env == nil {
		panic(errors.Contract(errors.PhaseDispatch, "ref of threadsafe function without environment"))
	}
	f.mu.Lock()
	if f.released || f.referenced {
		f.mu.Unlock()
		return
	}
	f.referenced = true
	f.mu.Unlock()
	f.inst.live.add(1)
}

// Unref marks the function as not keeping the instance alive. Must be
// called on the owning loop. An unreferenced function still delivers
// every Call.
func (f *ThreadsafeFunction[T]) Unref(env *Env) {
	if env == nil {
		panic(errors.Contract(errors.PhaseDispatch, "unref of threadsafe function without environment"))
	}
	f.mu.Lock()
	if f.released || !f.referenced {
		f.mu.Unlock()
		return
	}
	f.referenced = false
	f.mu.Unlock()
	f.inst.live.add(-1)
}
