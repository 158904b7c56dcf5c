package guest

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/extension-host/errors"
	"github.com/wippyai/extension-host/host"
	"github.com/wippyai/extension-host/resource"
)

// TypeID for guest modules registered in the environment object graph.
const ModuleTypeID uint32 = 0x6d6f64 // "mod"

// Config holds configuration for guest module loading.
type Config struct {
	// Name is the instantiated module name. Defaults to "guest".
	Name string

	// MemoryLimitPages sets the maximum memory in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// Module is a wazero-backed guest module owned by one runtime instance.
// wazero instances are not safe for concurrent use, which is exactly the
// confinement discipline the owning loop provides: every method takes a
// live *host.Env as proof the caller is on the loop.
type Module struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	mod      api.Module
	closed   bool
}

// Attach compiles and instantiates a wasm module for the environment's
// instance. Must be called on the owning loop.
func Attach(env *host.Env, wasmBytes []byte, cfg *Config) (*Module, error) {
	if env == nil {
		return nil, errors.TornDown(errors.PhaseGuest, "attach guest module")
	}
	if len(wasmBytes) == 0 {
		return nil, errors.InvalidInput(errors.PhaseGuest, "empty module bytes")
	}

	name := "guest"
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil {
		if cfg.Name != "" {
			name = cfg.Name
		}
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
	}

	ctx := context.Background()
	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	compiled, err := runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		runtime.Close(ctx)
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindInvalidInput, err, "compile module")
	}

	mod, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		runtime.Close(ctx)
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindInvalidInput, err, "instantiate module")
	}

	host.Logger().Debug("guest module attached",
		zap.String("name", name),
		zap.Int("size", len(wasmBytes)))

	return &Module{
		runtime:  runtime,
		compiled: compiled,
		mod:      mod,
	}, nil
}

// Call invokes an exported function. Must be called on the owning loop.
func (m *Module) Call(env *host.Env, name string, args ...uint64) ([]uint64, error) {
	if env == nil {
		return nil, errors.TornDown(errors.PhaseGuest, "guest call")
	}
	if m.closed {
		return nil, errors.Released(errors.PhaseGuest, "guest module")
	}

	fn := m.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseGuest, []string{"exports"}, "function "+name)
	}

	results, err := fn.Call(context.Background(), args...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindInvalidInput, err, "call "+name)
	}
	return results, nil
}

// Close releases the module and its runtime. Must be called on the
// owning loop; closing twice is harmless.
func (m *Module) Close(env *host.Env) error {
	if env == nil {
		return errors.TornDown(errors.PhaseGuest, "guest close")
	}
	return m.close()
}

func (m *Module) close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return m.runtime.Close(context.Background())
}

// Drop implements resource.Dropper so a registered module is torn down
// with the object graph.
func (m *Module) Drop() {
	if err := m.close(); err != nil {
		host.Logger().Warn("guest module close failed", zap.Error(err))
	}
}

// Register inserts the module into the environment's object graph,
// returning a reference. A cross-goroutine owner can then hand the
// module back through the deferred-release queue like any other
// environment object.
func (m *Module) Register(env *host.Env) *host.Ref {
	if env == nil {
		panic(errors.Contract(errors.PhaseGuest, "register guest module without environment"))
	}
	return env.NewObject(ModuleTypeID, m)
}

var _ resource.Dropper = (*Module)(nil)
