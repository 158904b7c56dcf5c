package host

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/extension-host/errors"
	"github.com/wippyai/extension-host/resource"
)

// Options configures a runtime instance.
type Options struct {
	// PoolWorkers is the number of worker goroutines executing async work.
	// Defaults to 4.
	PoolWorkers int
}

// Instance is one loaded copy of the extension runtime: an owning dispatch
// loop, a worker pool, the environment object graph, and an opaque
// per-instance data slot.
type Instance struct {
	loop    *Loop
	pool    *WorkPool
	objects *resource.Graph
	live    *liveness

	// data is the opaque instance-data slot. Access is confined to the
	// owning loop; no lock is needed under that discipline.
	data any

	tsfns  atomic.Int64
	torn   atomic.Bool
	closed atomic.Bool
}

// NewInstance creates an instance and starts its loop and worker pool.
func NewInstance(opts Options) *Instance {
	workers := opts.PoolWorkers
	if workers <= 0 {
		workers = 4
	}

	inst := &Instance{
		objects: resource.NewGraph(),
		live:    newLiveness(),
	}
	inst.loop = newLoop(inst)
	inst.pool = newWorkPool(inst, workers)

	go inst.loop.run()
	inst.pool.start()

	Logger().Debug("instance started", zap.Int("pool_workers", workers))
	return inst
}

// Run schedules fn onto the owning loop. It is the raw entry point used
// to obtain an environment from outside any callback; the callback
// observes a nil environment if the instance was torn down first.
func (i *Instance) Run(fn func(*Env)) bool {
	return i.loop.post(fn)
}

// RunSync schedules fn onto the owning loop and waits for it to finish.
func (i *Instance) RunSync(fn func(*Env)) bool {
	done := make(chan struct{})
	ok := i.loop.post(func(env *Env) {
		defer close(done)
		fn(env)
	})
	if !ok {
		return false
	}
	<-done
	return true
}

// Wait blocks until nothing keeps the instance alive: no referenced
// threadsafe functions and no outstanding async work.
func (i *Instance) Wait() {
	i.live.wait()
}

// Close tears down the environment. Queued-but-unstarted async work is
// cancelled, running work is allowed to finish and complete, the object
// graph is destroyed on the loop, and every later threadsafe delivery
// observes a nil environment. The loop itself keeps running until all
// threadsafe functions are released.
func (i *Instance) Close(ctx context.Context) error {
	if !i.closed.CompareAndSwap(false, true) {
		return nil
	}

	// Drain the pool first so every completion is delivered with a live
	// environment.
	i.pool.close()

	barrier := make(chan struct{})
	i.loop.post(func(env *Env) {
		i.objects.Close()
		i.loop.tearDown()
		i.torn.Store(true)
		close(barrier)
	})

	select {
	case <-barrier:
	case <-ctx.Done():
		return ctx.Err()
	}

	i.maybeStopLoop()
	Logger().Debug("instance torn down")
	return nil
}

// TornDown reports whether the environment has been destroyed.
func (i *Instance) TornDown() bool {
	return i.torn.Load()
}

func (i *Instance) registerTsfn() {
	i.tsfns.Add(1)
}

func (i *Instance) unregisterTsfn() {
	if i.tsfns.Add(-1) < 0 {
		panic(errors.Contract(errors.PhaseDispatch, "threadsafe function released more times than created"))
	}
	i.maybeStopLoop()
}

// maybeStopLoop lets the loop goroutine exit once the environment is gone
// and no threadsafe function can deliver into it anymore.
func (i *Instance) maybeStopLoop() {
	if i.torn.Load() && i.tsfns.Load() == 0 {
		i.loop.requestStop()
	}
}

// liveness tracks the keep-alive count of an instance: referenced
// threadsafe functions and queued async work. Wait returns whenever the
// count is zero.
type liveness struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

func newLiveness() *liveness {
	l := &liveness{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *liveness) add(n int) {
	l.mu.Lock()
	l.count += n
	if l.count < 0 {
		l.mu.Unlock()
		panic(errors.Contract(errors.PhaseDispatch, "liveness count below zero"))
	}
	broadcast := l.count == 0
	l.mu.Unlock()
	if broadcast {
		l.cond.Broadcast()
	}
}

func (l *liveness) wait() {
	l.mu.Lock()
	for l.count > 0 {
		l.cond.Wait()
	}
	l.mu.Unlock()
}
