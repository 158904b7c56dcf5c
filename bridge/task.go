package bridge

import (
	"github.com/wippyai/extension-host/errors"
	"github.com/wippyai/extension-host/host"
)

type taskState int32

const (
	// Initial input waiting to be passed to execute
	stateInput taskState = iota
	// Transient state while execute is running
	stateExecuting
	// Output of execute waiting to be passed to complete
	stateOutput
	// Moved-from sentinel after the output has been consumed
	stateConsumed
)

// task carries one scheduled unit of work between its execute and
// complete stages. It is owned by exactly one actor at a time: the
// scheduler until submission, a pool goroutine during execute, the
// owning loop during complete. The loop's internal synchronization
// orders each handoff.
type task[T, O any] struct {
	state    taskState
	input    T
	output   O
	execute  func(input T) O
	complete func(env *host.Env, output O)
	work     *host.AsyncWork
}

// takeExecuteInput returns the input, replacing stateInput with
// stateExecuting. Any other state yields nothing.
func (t *task[T, O]) takeExecuteInput() (T, bool) {
	var zero T
	if t.state != stateInput {
		return zero, false
	}
	t.state = stateExecuting
	input := t.input
	t.input = zero
	return input, true
}

// intoOutput consumes the record, yielding the output only if execute
// stored one (the cancelled path never does).
func (t *task[T, O]) intoOutput() (O, bool) {
	var zero O
	if t.state != stateOutput {
		return zero, false
	}
	t.state = stateConsumed
	output := t.output
	t.output = zero
	return output, true
}

// runExecute is the pool-side trampoline. It must not touch environment
// state; it only moves the record from input to output.
func (t *task[T, O]) runExecute() {
	input, ok := t.takeExecuteInput()
	if !ok {
		panic(errors.Contract(errors.PhaseExecute, "task input taken more than once"))
	}
	output := t.execute(input)

	t.output = output
	t.state = stateOutput
}

// runComplete is the loop-side trampoline and the single reclamation
// point for the record and its work handle, reached on every outcome.
func (t *task[T, O]) runComplete(env *host.Env, status host.WorkStatus) {
	t.work.Release()

	switch status {
	case host.StatusOk:
		output, ok := t.intoOutput()
		if !ok {
			panic(errors.Contract(errors.PhaseComplete, "task completed ok without output"))
		}
		t.complete(env, output)
	case host.StatusCancelled:
		// No output was produced and none is delivered
	default:
		panic(errors.Contract(errors.PhaseComplete, "unexpected completion status %d", status))
	}
}
