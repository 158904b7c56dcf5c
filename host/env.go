package host

import (
	"github.com/wippyai/extension-host/errors"
	"github.com/wippyai/extension-host/resource"
)

// Env grants access to an instance's environment state. Values of this
// type are only ever handed to callbacks running on the owning loop; a
// nil *Env means the callback was delivered after teardown and must not
// touch environment state.
//
// Holding an *Env is the proof of serialized access. Nothing stops a
// callback from smuggling it to another goroutine, but doing so breaks
// the confinement contract and the behavior is undefined.
type Env struct {
	inst *Instance
}

// Instance returns the instance this environment belongs to.
func (e *Env) Instance() *Instance {
	return e.inst
}

// InstanceData returns the opaque per-instance data slot, or nil if unset.
func (e *Env) InstanceData() any {
	return e.inst.data
}

// SetInstanceData installs a value into the per-instance data slot.
func (e *Env) SetInstanceData(data any) {
	e.inst.data = data
}

// Objects returns the environment's object graph.
func (e *Env) Objects() *resource.Graph {
	return e.inst.objects
}

// Retain increments the reference count of an environment object and
// returns a Ref token for it.
func (e *Env) Retain(handle resource.Handle) *Ref {
	if _, ok := e.inst.objects.Ref(handle); !ok {
		panic(errors.Contract(errors.PhaseDispatch, "retain of invalid handle %d", handle))
	}
	return &Ref{handle: handle}
}

// NewObject inserts a value into the object graph (reference count 1) and
// returns a Ref holding that reference.
func (e *Env) NewObject(typeID uint32, value any) *Ref {
	handle := e.inst.objects.Insert(typeID, value)
	if handle == 0 {
		panic(errors.Contract(errors.PhaseDispatch, "object graph rejected insert"))
	}
	return &Ref{handle: handle}
}

// CreateDeferred creates a pending promise owned by this environment.
func (e *Env) CreateDeferred() *Deferred {
	return &Deferred{
		inst: e.inst,
		done: make(chan Outcome, 1),
	}
}
