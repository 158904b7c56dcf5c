package resource

import (
	"sync"
)

// Graph implements a reference-counted object graph using a LocalBackend
// for storage.
type Graph struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewGraph creates a new object graph with a LocalBackend.
func NewGraph() *Graph {
	return &Graph{
		backend: NewLocalBackend(),
	}
}

// Insert adds a value with reference count 1 and returns its handle.
func (g *Graph) Insert(typeID uint32, value any) Handle {
	g.closeMu.RLock()
	if g.closed {
		g.closeMu.RUnlock()
		return 0
	}
	g.closeMu.RUnlock()

	handle, err := g.backend.Create(typeID, value)
	if err != nil {
		return 0
	}

	g.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})

	return handle
}

// Get retrieves a value by handle.
func (g *Graph) Get(handle Handle) (any, bool) {
	return g.backend.Get(handle)
}

// GetTyped retrieves a value only if it matches the expected type.
func (g *Graph) GetTyped(handle Handle, typeID uint32) (any, bool) {
	actualTypeID, ok := g.backend.TypeID(handle)
	if !ok || actualTypeID != typeID {
		return nil, false
	}
	return g.backend.Get(handle)
}

// Ref increments the reference count and returns the new count.
func (g *Graph) Ref(handle Handle) (uint32, bool) {
	count, ok := g.backend.Ref(handle)
	if !ok {
		return 0, false
	}

	typeID, _ := g.backend.TypeID(handle)
	g.notify(Event{
		Type:   EventRetained,
		Handle: handle,
		TypeID: typeID,
	})

	return count, true
}

// Unref decrements the reference count. When the count reaches zero the
// object is removed, its Dropper (if any) runs, and released is true.
func (g *Graph) Unref(handle Handle) (released bool, ok bool) {
	typeID, _ := g.backend.TypeID(handle)
	count, value, ok := g.backend.Unref(handle)
	if !ok {
		return false, false
	}

	if count > 0 {
		g.notify(Event{
			Type:   EventReleased,
			Handle: handle,
			TypeID: typeID,
		})
		return false, true
	}

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	g.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})

	return true, true
}

// RefCount returns the current reference count for a handle.
func (g *Graph) RefCount(handle Handle) (uint32, bool) {
	return g.backend.RefCount(handle)
}

// Remove drops an object unconditionally and returns (value, true) if found.
func (g *Graph) Remove(handle Handle) (any, bool) {
	typeID, _ := g.backend.TypeID(handle)
	value, ok := g.backend.Drop(handle)
	if !ok {
		return nil, false
	}

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	g.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})

	return value, true
}

// Subscribe adds an observer for lifecycle events.
func (g *Graph) Subscribe(o Observer) {
	g.obsMu.Lock()
	defer g.obsMu.Unlock()
	g.observers = append(g.observers, o)
}

// Unsubscribe removes an observer.
func (g *Graph) Unsubscribe(o Observer) {
	g.obsMu.Lock()
	defer g.obsMu.Unlock()
	for i, obs := range g.observers {
		if obs == o {
			g.observers = append(g.observers[:i], g.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live objects.
func (g *Graph) Len() int {
	return g.backend.Len()
}

// Clear drops all objects.
func (g *Graph) Clear() {
	// Collect handles first to avoid holding lock during Remove
	var handles []Handle
	g.backend.Each(func(h Handle, typeID uint32, value any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		g.Remove(h)
	}
}

// Close releases all objects and stops accepting operations.
func (g *Graph) Close() error {
	g.closeMu.Lock()
	g.closed = true
	g.closeMu.Unlock()

	return g.backend.Close()
}

func (g *Graph) notify(e Event) {
	g.obsMu.RLock()
	defer g.obsMu.RUnlock()
	for _, o := range g.observers {
		o.OnObjectEvent(e)
	}
}
