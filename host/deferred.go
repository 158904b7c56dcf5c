package host

import (
	"sync/atomic"

	"github.com/wippyai/extension-host/errors"
)

// Outcome is the settled result of a Deferred.
type Outcome struct {
	Value     any
	Err       error
	Abandoned bool
}

// Deferred is a pending promise confined to the owning loop. It settles
// exactly once: Resolve, Reject, or Abandon. A Deferred whose last owner
// drops it unsettled from another goroutine is abandoned through the
// instance's deferred-release queue.
type Deferred struct {
	inst    *Instance
	settled atomic.Bool
	done    chan Outcome
}

// Resolve settles the promise with a value. Must be called on the owning
// loop; settling twice is a contract violation.
func (d *Deferred) Resolve(env *Env, value any) {
	d.settle(env, Outcome{Value: value})
}

// Reject settles the promise with an error. Must be called on the owning
// loop; settling twice is a contract violation.
func (d *Deferred) Reject(env *Env, err error) {
	d.settle(env, Outcome{Err: err})
}

// Abandon settles the promise as dropped-without-settling. Invoked by the
// deferred-release queue when the last owner discarded the promise.
func (d *Deferred) Abandon(env *Env) {
	d.settle(env, Outcome{
		Err:       errors.New(errors.PhaseRelease, errors.KindReleased).Detail("deferred settled by abandonment").Build(),
		Abandoned: true,
	})
}

// Settled reports whether the promise has been settled.
func (d *Deferred) Settled() bool {
	return d.settled.Load()
}

// Done returns a channel receiving the single settlement outcome.
func (d *Deferred) Done() <-chan Outcome {
	return d.done
}

func (d *Deferred) settle(env *Env, o Outcome) {
	if env == nil {
		panic(errors.Contract(errors.PhaseComplete, "deferred settled without environment"))
	}
	if !d.settled.CompareAndSwap(false, true) {
		panic(errors.Contract(errors.PhaseComplete, "deferred settled twice"))
	}
	d.done <- o
}
