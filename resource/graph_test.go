package resource

import (
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnObjectEvent(e Event) {
	o.events = append(o.events, e)
}

type testDropper struct {
	dropped int
}

func (d *testDropper) Drop() {
	d.dropped++
}

func TestGraph_Basic(t *testing.T) {
	graph := NewGraph()

	// Insert
	h := graph.Insert(1, "test")
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	// Get
	val, ok := graph.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	// GetTyped with correct type
	_, ok = graph.GetTyped(h, 1)
	if !ok {
		t.Fatal("GetTyped with correct type failed")
	}

	// GetTyped with wrong type
	_, ok = graph.GetTyped(h, 2)
	if ok {
		t.Fatal("GetTyped with wrong type should fail")
	}

	// Initial refcount is 1
	count, ok := graph.RefCount(h)
	if !ok || count != 1 {
		t.Fatalf("Expected refcount 1, got %d", count)
	}
}

func TestGraph_RefUnref(t *testing.T) {
	graph := NewGraph()
	d := &testDropper{}

	h := graph.Insert(1, d)

	// Ref raises count to 2
	count, ok := graph.Ref(h)
	if !ok || count != 2 {
		t.Fatalf("Expected refcount 2, got %d", count)
	}

	// First Unref keeps the object alive
	released, ok := graph.Unref(h)
	if !ok {
		t.Fatal("Unref failed")
	}
	if released {
		t.Fatal("Object should survive first Unref")
	}
	if d.dropped != 0 {
		t.Fatal("Dropper should not have run yet")
	}

	// Second Unref drops it
	released, ok = graph.Unref(h)
	if !ok {
		t.Fatal("Unref failed")
	}
	if !released {
		t.Fatal("Object should be released at zero")
	}
	if d.dropped != 1 {
		t.Fatalf("Expected 1 drop, got %d", d.dropped)
	}

	// Handle is now invalid
	if _, ok := graph.Get(h); ok {
		t.Fatal("Get should fail after release")
	}
	if _, ok := graph.Unref(h); ok {
		t.Fatal("Unref should fail after release")
	}
	if graph.Len() != 0 {
		t.Fatalf("Expected Len() == 0, got %d", graph.Len())
	}
}

func TestGraph_HandleReuse(t *testing.T) {
	graph := NewGraph()

	h1 := graph.Insert(1, "a")
	graph.Unref(h1)

	// Freed handle slot is reused
	h2 := graph.Insert(1, "b")
	if h2 != h1 {
		t.Fatalf("Expected handle reuse (%d), got %d", h1, h2)
	}

	val, ok := graph.Get(h2)
	if !ok || val != "b" {
		t.Fatalf("Expected 'b', got %v", val)
	}
}

func TestGraph_Observer(t *testing.T) {
	graph := NewGraph()
	obs := &testObserver{}
	graph.Subscribe(obs)

	h := graph.Insert(1, "x")
	graph.Ref(h)
	graph.Unref(h)
	graph.Unref(h)

	want := []EventType{EventCreated, EventRetained, EventReleased, EventDropped}
	if len(obs.events) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(obs.events))
	}
	for i, e := range obs.events {
		if e.Type != want[i] {
			t.Errorf("Event %d: expected type %d, got %d", i, want[i], e.Type)
		}
		if e.Handle != h {
			t.Errorf("Event %d: expected handle %d, got %d", i, h, e.Handle)
		}
	}

	graph.Unsubscribe(obs)
	graph.Insert(1, "y")
	if len(obs.events) != len(want) {
		t.Fatal("Unsubscribed observer should not receive events")
	}
}

func TestGraph_Close(t *testing.T) {
	graph := NewGraph()
	d := &testDropper{}
	graph.Insert(1, d)

	if err := graph.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if d.dropped != 1 {
		t.Fatal("Close should run destructors")
	}

	// Insert after close is rejected
	if h := graph.Insert(1, "z"); h != 0 {
		t.Fatal("Insert after Close should return 0")
	}
}

func TestGraph_Clear(t *testing.T) {
	graph := NewGraph()
	d1, d2 := &testDropper{}, &testDropper{}
	graph.Insert(1, d1)
	graph.Insert(1, d2)

	graph.Clear()
	if graph.Len() != 0 {
		t.Fatalf("Expected empty graph, got %d", graph.Len())
	}
	if d1.dropped != 1 || d2.dropped != 1 {
		t.Fatal("Clear should run destructors")
	}
}
