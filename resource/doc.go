// Package resource provides the reference-counted object graph backing a
// runtime instance's environment.
//
// Objects are opaque handles representing environment-side values. References
// to an object are counted: an object stays live while its count is positive
// and runs its destructor when the count reaches zero.
//
// # Object Graph
//
// The Graph maps integer handles to Go values:
//
//	graph := resource.NewGraph()
//
//	// Insert a value (reference count 1), get a handle
//	handle := graph.Insert(typeID, myValue)
//
//	// Retain and release
//	graph.Ref(handle)
//	released, _ := graph.Unref(handle)
//
// # Type Safety
//
// Handles are typed - each object type gets a unique type ID:
//
//	const GuestModuleTypeID = 1
//
//	value, ok := graph.GetTyped(handle, GuestModuleTypeID)
//
// # Observers
//
// Register observers to track object lifecycle events:
//
//	graph.Subscribe(myObserver) // EventCreated, EventRetained,
//	                            // EventReleased, EventDropped
//
// # Threading
//
// The graph itself is internally synchronized, but the intended usage is
// serialized access from a runtime instance's owning loop. Cross-thread
// release requests must not call Unref directly; they are routed through
// the instance's deferred-release queue so the destructor runs on the
// owning loop.
package resource
