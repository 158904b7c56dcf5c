package host

import (
	"github.com/wippyai/extension-host/errors"
	"github.com/wippyai/extension-host/resource"
)

// Ref is a token for one counted reference into the environment's object
// graph. It must be unreferenced in the same environment that created it;
// when the last owner lives on another goroutine, the token travels
// through the instance's deferred-release queue instead of calling Unref
// directly.
type Ref struct {
	handle resource.Handle
	spent  bool
}

// Handle returns the object handle this reference points at.
func (r *Ref) Handle() resource.Handle {
	return r.handle
}

// Unref gives up this reference. Must be called on the owning loop with a
// live environment; using a token twice is a contract violation.
func (r *Ref) Unref(env *Env) {
	if env == nil {
		panic(errors.Contract(errors.PhaseRelease, "unref without environment"))
	}
	if r.spent {
		panic(errors.Contract(errors.PhaseRelease, "reference token used twice"))
	}
	r.spent = true
	env.inst.objects.Unref(r.handle)
}

// Value resolves the referenced object. Must be called on the owning loop.
func (r *Ref) Value(env *Env) (any, bool) {
	if env == nil || r.spent {
		return nil, false
	}
	return env.inst.objects.Get(r.handle)
}

// Clone takes an additional reference to the same object, returning a new
// independent token. Must be called on the owning loop.
func (r *Ref) Clone(env *Env) *Ref {
	if env == nil {
		panic(errors.Contract(errors.PhaseRelease, "clone without environment"))
	}
	if r.spent {
		panic(errors.Contract(errors.PhaseRelease, "clone of spent reference token"))
	}
	return env.Retain(r.handle)
}
