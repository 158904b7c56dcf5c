package host

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/extension-host/errors"
)

// WorkPool executes async work on a fixed set of worker goroutines. No
// ordering is guaranteed across distinct works.
type WorkPool struct {
	inst    *Instance
	workers int

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*AsyncWork
	closed bool
	wg     sync.WaitGroup
}

func newWorkPool(inst *Instance, workers int) *WorkPool {
	p := &WorkPool{
		inst:    inst,
		workers: workers,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func (p *WorkPool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// submit enqueues a work for execution. Fails once the pool is closed.
func (p *WorkPool) submit(w *AsyncWork) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return errors.Rejected(errors.PhaseSchedule, nil, "work pool closed")
	}
	p.queue = append(p.queue, w)
	p.mu.Unlock()
	p.cond.Signal()
	return nil
}

// close stops accepting work, cancels everything still queued, and waits
// for running work to finish. All completions have been posted to the
// loop by the time close returns.
func (p *WorkPool) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	pending := p.queue
	p.queue = nil
	p.mu.Unlock()
	p.cond.Broadcast()

	for _, w := range pending {
		if w.Cancel() {
			Logger().Debug("cancelled queued work at pool close", zap.String("tag", w.tag))
		}
	}

	p.wg.Wait()
}

func (p *WorkPool) worker(id int) {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		w := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		// run is a no-op for works cancelled after being dequeued
		w.run()
	}
}
