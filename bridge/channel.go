package bridge

import (
	"sync"

	"github.com/wippyai/extension-host/errors"
	"github.com/wippyai/extension-host/host"
)

// channelState is shared by every clone of a Channel. It tracks how many
// clones currently hold a keep-alive so the underlying threadsafe
// function is referenced exactly while at least one does.
type channelState struct {
	tsfn *host.ThreadsafeFunction[func(*host.Env)]
	mu   sync.Mutex
	refs int
}

func (s *channelState) ref(env *host.Env) {
	s.mu.Lock()
	s.refs++
	first := s.refs == 1
	s.mu.Unlock()
	if first {
		s.tsfn.Ref(env)
	}
}

func (s *channelState) unref(env *host.Env) {
	s.mu.Lock()
	s.refs--
	last := s.refs == 0
	s.mu.Unlock()
	if last {
		s.tsfn.Unref(env)
	}
}

// Channel schedules closures onto the owning loop from any goroutine.
// Clones share one delivery primitive; each clone independently decides
// whether it keeps the instance alive.
type Channel struct {
	state  *channelState
	hasRef bool
}

// NewChannel creates a channel for the environment's instance. New
// channels start referenced. Must be called on the owning loop.
func NewChannel(env *host.Env) *Channel {
	state := &channelState{refs: 1}
	state.tsfn = host.NewThreadsafeFunction(env, func(env *host.Env, fn func(*host.Env)) {
		// Closures landing after teardown are dropped: there is no
		// environment left to hand them
		if env == nil {
			return
		}
		fn(env)
	})
	return &Channel{state: state, hasRef: true}
}

// Send schedules fn to run on the owning loop. Safe from any goroutine.
// The closure is silently dropped if the environment is torn down before
// delivery.
func (c *Channel) Send(fn func(env *host.Env)) error {
	return c.state.tsfn.Call(fn)
}

// Ref makes this clone keep the instance alive. Must be called on the
// owning loop.
func (c *Channel) Ref(env *host.Env) {
	if c.hasRef {
		return
	}
	c.hasRef = true
	c.state.ref(env)
}

// Unref stops this clone from keeping the instance alive. Sends still
// deliver. Must be called on the owning loop.
func (c *Channel) Unref(env *host.Env) {
	if !c.hasRef {
		return
	}
	c.hasRef = false
	c.state.unref(env)
}

// Clone returns an unreferenced clone sharing this channel's delivery
// primitive. Must be called on the owning loop.
func (c *Channel) Clone(env *host.Env) *Channel {
	if err := c.state.tsfn.Acquire(); err != nil {
		panic(errors.Contract(errors.PhaseDispatch, "clone of released channel"))
	}
	return &Channel{state: c.state}
}

// Release drops this clone's ownership, giving up its keep-alive first.
// Must be called on the owning loop. The delivery primitive is destroyed
// when the last clone releases.
func (c *Channel) Release(env *host.Env) {
	if c.hasRef {
		c.Unref(env)
	}
	c.state.tsfn.Release()
}
