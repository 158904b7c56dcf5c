package resource

// Handle is an opaque reference to an object in a graph.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for object lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventRetained
	EventReleased
	EventDropped
)

// Event represents an object lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Type   EventType
}

// Observer receives notifications about object lifecycle events.
type Observer interface {
	OnObjectEvent(Event)
}

// Backend provides the underlying storage mechanism for objects.
type Backend interface {
	// Create stores a value with an initial reference count of 1
	// and returns a handle.
	Create(typeID uint32, value any) (Handle, error)

	// Get retrieves a value by handle.
	Get(handle Handle) (any, bool)

	// Ref increments the reference count, returning the new count.
	Ref(handle Handle) (uint32, bool)

	// Unref decrements the reference count, returning the new count.
	// When the count reaches zero the object is removed and its value
	// is returned so the caller can run its destructor.
	Unref(handle Handle) (uint32, any, bool)

	// Drop removes an object unconditionally and returns (value, true)
	// if the destructor should be called.
	Drop(handle Handle) (any, bool)

	// Close releases all objects held by the backend.
	Close() error
}

// Dropper is optionally implemented by object values that need cleanup.
type Dropper interface {
	Drop()
}
