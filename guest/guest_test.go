package guest

import (
	"context"
	"testing"

	"github.com/wippyai/extension-host/errors"
	"github.com/wippyai/extension-host/host"
)

// Minimal wasm module exporting add(i32, i32) -> i32.
var addWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // magic + version
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f, // type (i32,i32)->i32
	0x03, 0x02, 0x01, 0x00, // function section
	0x07, 0x07, 0x01, 0x03, 0x61, 0x64, 0x64, 0x00, 0x00, // export "add"
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b, // code
}

func newTestInstance(t *testing.T) *host.Instance {
	t.Helper()
	inst := host.NewInstance(host.Options{PoolWorkers: 2})
	t.Cleanup(func() {
		inst.Close(context.Background())
	})
	return inst
}

func TestAttach_CompileAndCall(t *testing.T) {
	inst := newTestInstance(t)

	inst.RunSync(func(env *host.Env) {
		mod, err := Attach(env, addWasm, nil)
		if err != nil {
			t.Fatalf("Attach failed: %v", err)
		}
		defer mod.Close(env)

		results, err := mod.Call(env, "add", 2, 3)
		if err != nil {
			t.Fatalf("Call failed: %v", err)
		}
		if len(results) != 1 || results[0] != 5 {
			t.Fatalf("Expected [5], got %v", results)
		}
	})
}

func TestAttach_EmptyBytes(t *testing.T) {
	inst := newTestInstance(t)

	inst.RunSync(func(env *host.Env) {
		_, err := Attach(env, nil, nil)
		if err == nil {
			t.Fatal("Expected error for empty module bytes")
		}
	})
}

func TestAttach_InvalidBytes(t *testing.T) {
	inst := newTestInstance(t)

	inst.RunSync(func(env *host.Env) {
		_, err := Attach(env, []byte{0xde, 0xad, 0xbe, 0xef}, nil)
		if err == nil {
			t.Fatal("Expected compile error for garbage bytes")
		}
	})
}

func TestCall_UnknownExport(t *testing.T) {
	inst := newTestInstance(t)

	inst.RunSync(func(env *host.Env) {
		mod, err := Attach(env, addWasm, &Config{Name: "math"})
		if err != nil {
			t.Fatalf("Attach failed: %v", err)
		}
		defer mod.Close(env)

		_, err = mod.Call(env, "subtract", 5, 2)
		if err == nil {
			t.Fatal("Expected not found error")
		}
		if e, ok := err.(*errors.Error); !ok || e.Kind != errors.KindNotFound {
			t.Fatalf("Expected not_found kind, got %v", err)
		}
	})
}

func TestCall_AfterClose(t *testing.T) {
	inst := newTestInstance(t)

	inst.RunSync(func(env *host.Env) {
		mod, err := Attach(env, addWasm, nil)
		if err != nil {
			t.Fatalf("Attach failed: %v", err)
		}
		if err := mod.Close(env); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		// Second close is a no-op
		if err := mod.Close(env); err != nil {
			t.Fatalf("Second Close failed: %v", err)
		}

		if _, err := mod.Call(env, "add", 1, 1); err == nil {
			t.Fatal("Expected error calling a closed module")
		}
	})
}

func TestRegister_DropClosesModule(t *testing.T) {
	inst := newTestInstance(t)

	inst.RunSync(func(env *host.Env) {
		mod, err := Attach(env, addWasm, nil)
		if err != nil {
			t.Fatalf("Attach failed: %v", err)
		}
		ref := mod.Register(env)

		// Dropping the last reference tears down the module through the
		// object graph
		ref.Unref(env)
		if _, err := mod.Call(env, "add", 1, 1); err == nil {
			t.Fatal("Expected module closed after last reference dropped")
		}
	})
}
