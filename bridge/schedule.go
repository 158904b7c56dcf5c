package bridge

import (
	"github.com/wippyai/extension-host/errors"
	"github.com/wippyai/extension-host/host"
)

// Schedule submits input to the worker pool and marshals the result back
// to the owning loop. Must be called on the owning loop.
//
// execute runs on a pool goroutine and must not touch environment state;
// complete runs later on the owning loop with the output. input and both
// functions must be safe to move to another goroutine: no environment
// handles, no state shared with the caller.
//
// Scheduling never blocks. The only failure is the host rejecting
// submission, which is surfaced as a fatal condition after the work
// handle has been reclaimed; callers treat scheduling as infallible.
func Schedule[T, O any](env *host.Env, input T, execute func(input T) O, complete func(env *host.Env, output O)) {
	if env == nil {
		panic(errors.Contract(errors.PhaseSchedule, "schedule without environment"))
	}

	t := &task[T, O]{
		state:    stateInput,
		input:    input,
		execute:  execute,
		complete: complete,
	}
	t.work = env.CreateAsyncWork("bridge_task", t.runExecute, t.runComplete)

	if err := t.work.Queue(); err != nil {
		// Reclaim the handle before surfacing, so a rejected submission
		// leaks nothing
		t.work.Release()
		panic(errors.Rejected(errors.PhaseSchedule, err, "queue task on worker pool"))
	}
}
