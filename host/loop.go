package host

import (
	"sync"
)

// Loop is the owning dispatch loop of an instance. One goroutine per loop
// runs every posted callback in submission order; all environment access
// happens inside those callbacks.
type Loop struct {
	inst     *Instance
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []func(*Env)
	stopping bool
	stopped  bool
	done     chan struct{}

	// torn is owned by the loop goroutine. Once set, callbacks are
	// delivered with a nil environment.
	torn bool
}

func newLoop(inst *Instance) *Loop {
	l := &Loop{
		inst: inst,
		done: make(chan struct{}),
	}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// post enqueues fn for exactly-once invocation on the loop goroutine.
// Returns false if the loop has fully stopped.
func (l *Loop) post(fn func(*Env)) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.cond.Signal()
	return true
}

// requestStop asks the loop to exit once its queue drains.
func (l *Loop) requestStop() {
	l.mu.Lock()
	l.stopping = true
	l.mu.Unlock()
	l.cond.Broadcast()
}

// Done is closed when the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run() {
	env := &Env{inst: l.inst}
	for {
		batch := l.takeBatch()
		if batch == nil {
			close(l.done)
			return
		}
		for _, fn := range batch {
			cur := env
			if l.torn {
				cur = nil
			}
			fn(cur)
		}
	}
}

// takeBatch blocks until work is queued, returning nil once the loop
// should exit (stop requested and queue drained).
func (l *Loop) takeBatch() []func(*Env) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for len(l.queue) == 0 && !l.stopping {
		l.cond.Wait()
	}
	if len(l.queue) == 0 {
		l.stopped = true
		return nil
	}

	batch := l.queue
	l.queue = nil
	return batch
}

// tearDown marks the environment as gone. Must run on the loop goroutine.
func (l *Loop) tearDown() {
	l.torn = true
}
