package host

import (
	"sync/atomic"

	"github.com/wippyai/extension-host/errors"
)

// WorkStatus is the completion status delivered to an async work's
// complete callback.
type WorkStatus int32

const (
	StatusOk WorkStatus = iota
	StatusCancelled
)

func (s WorkStatus) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusCancelled:
		return "cancelled"
	default:
		return "invalid"
	}
}

const (
	workCreated int32 = iota
	workQueued
	workRunning
	workDone
	workCancelled
)

// AsyncWork is the host-side work handle: one execute callback that runs
// on a pool goroutine and one complete callback that runs afterwards on
// the owning loop. A work is queued at most once and completes exactly
// once (with StatusCancelled if it was cancelled before starting).
type AsyncWork struct {
	inst     *Instance
	tag      string
	execute  func()
	complete func(env *Env, status WorkStatus)

	state    atomic.Int32
	queued   atomic.Bool
	released atomic.Bool
}

// CreateAsyncWork registers a new work handle with the instance. Must be
// called on the owning loop. The execute callback must not touch
// environment state; the complete callback receives the environment and
// the completion status.
func (e *Env) CreateAsyncWork(tag string, execute func(), complete func(env *Env, status WorkStatus)) *AsyncWork {
	if e == nil {
		panic(errors.Contract(errors.PhaseSchedule, "async work created without environment"))
	}
	return &AsyncWork{
		inst:     e.inst,
		tag:      tag,
		execute:  execute,
		complete: complete,
	}
}

// Queue submits the work to the pool. Fails if the pool has shut down;
// the caller still owns the handle and must Release it.
func (w *AsyncWork) Queue() error {
	if !w.state.CompareAndSwap(workCreated, workQueued) {
		panic(errors.Contract(errors.PhaseSchedule, "async work %q queued twice", w.tag))
	}
	if err := w.inst.pool.submit(w); err != nil {
		w.state.Store(workCreated)
		return err
	}
	w.queued.Store(true)
	w.inst.live.add(1)
	return nil
}

// Cancel cancels the work if it has not started executing. On success the
// complete callback is still delivered, with StatusCancelled. Returns
// false if the work is already running or done.
func (w *AsyncWork) Cancel() bool {
	if !w.state.CompareAndSwap(workQueued, workCancelled) {
		return false
	}
	w.postComplete(StatusCancelled)
	return true
}

// Release frees the work handle. The single reclamation point is the
// complete callback; releasing twice is a contract violation.
func (w *AsyncWork) Release() {
	if !w.released.CompareAndSwap(false, true) {
		panic(errors.Contract(errors.PhaseComplete, "async work %q released twice", w.tag))
	}
	if w.queued.Load() {
		w.inst.live.add(-1)
	}
}

// run executes the work on a pool goroutine. Called by the pool; skips
// silently if the work was cancelled first.
func (w *AsyncWork) run() {
	if !w.state.CompareAndSwap(workQueued, workRunning) {
		return
	}
	w.execute()
	w.state.Store(workDone)
	w.postComplete(StatusOk)
}

func (w *AsyncWork) postComplete(status WorkStatus) {
	w.inst.loop.post(func(env *Env) {
		w.complete(env, status)
	})
}
