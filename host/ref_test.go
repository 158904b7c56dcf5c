package host

import (
	"testing"
)

func TestRef_RetainUnref(t *testing.T) {
	inst := newTestInstance(t)

	inst.RunSync(func(env *Env) {
		ref := env.NewObject(1, "obj")
		if _, ok := ref.Value(env); !ok {
			t.Fatal("Expected value for live reference")
		}

		extra := env.Retain(ref.Handle())
		if count, _ := env.Objects().RefCount(ref.Handle()); count != 2 {
			t.Fatalf("Expected refcount 2, got %d", count)
		}

		extra.Unref(env)
		if count, _ := env.Objects().RefCount(ref.Handle()); count != 1 {
			t.Fatalf("Expected refcount 1, got %d", count)
		}

		ref.Unref(env)
		if _, ok := env.Objects().Get(ref.Handle()); ok {
			t.Fatal("Object should be gone after last Unref")
		}
	})
}

func TestRef_Clone(t *testing.T) {
	inst := newTestInstance(t)

	inst.RunSync(func(env *Env) {
		ref := env.NewObject(1, "obj")
		clone := ref.Clone(env)

		ref.Unref(env)
		if _, ok := clone.Value(env); !ok {
			t.Fatal("Clone should keep the object alive")
		}
		clone.Unref(env)
		if _, ok := env.Objects().Get(clone.Handle()); ok {
			t.Fatal("Object should be gone")
		}
	})
}

func TestRef_UnrefTwicePanics(t *testing.T) {
	inst := newTestInstance(t)

	inst.RunSync(func(env *Env) {
		ref := env.NewObject(1, "obj")
		ref.Unref(env)

		defer func() {
			if recover() == nil {
				t.Error("Expected panic on second Unref of the same token")
			}
		}()
		ref.Unref(env)
	})
}

func TestDeferred_Resolve(t *testing.T) {
	inst := newTestInstance(t)

	var d *Deferred
	inst.RunSync(func(env *Env) {
		d = env.CreateDeferred()
		d.Resolve(env, 42)
	})

	o := <-d.Done()
	if o.Err != nil || o.Abandoned {
		t.Fatalf("Unexpected outcome: %+v", o)
	}
	if o.Value != 42 {
		t.Fatalf("Expected 42, got %v", o.Value)
	}
	if !d.Settled() {
		t.Fatal("Expected Settled")
	}
}

func TestDeferred_Abandon(t *testing.T) {
	inst := newTestInstance(t)

	var d *Deferred
	inst.RunSync(func(env *Env) {
		d = env.CreateDeferred()
		d.Abandon(env)
	})

	o := <-d.Done()
	if !o.Abandoned {
		t.Fatal("Expected abandoned outcome")
	}
	if o.Err == nil {
		t.Fatal("Expected error in abandoned outcome")
	}
}

func TestDeferred_SettleTwicePanics(t *testing.T) {
	inst := newTestInstance(t)

	inst.RunSync(func(env *Env) {
		d := env.CreateDeferred()
		d.Resolve(env, 1)

		defer func() {
			if recover() == nil {
				t.Error("Expected panic on second settle")
			}
		}()
		d.Reject(env, nil)
	})
}
