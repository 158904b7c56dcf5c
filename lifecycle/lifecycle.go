package lifecycle

import (
	"sync/atomic"

	"github.com/wippyai/extension-host/bridge"
	"github.com/wippyai/extension-host/errors"
	"github.com/wippyai/extension-host/host"
)

// InstanceID uniquely identifies an instance of the extension runtime
// within the process.
//
// Since InstanceData is created lazily, the order of IDs may not reflect
// the order that instances were created.
type InstanceID uint64

var nextID atomic.Uint64

func nextInstanceID() InstanceID {
	return InstanceID(nextID.Add(1) - 1)
}

// InstanceData holds the shared singletons of one runtime instance: its
// identifier, the deferred-release queue, and the shared channel handed
// out by Channel.
type InstanceData struct {
	id            InstanceID
	dropQueue     *host.ThreadsafeFunction[DropData]
	sharedChannel *bridge.Channel
}

// Get returns the data associated with the environment's instance,
// lazily initializing it if necessary. Must be called on the owning
// loop; that exclusivity is what makes the unlocked lazy init safe.
func Get(env *host.Env) *InstanceData {
	if env == nil {
		panic(errors.Contract(errors.PhaseInit, "instance data access without environment"))
	}

	if data, ok := env.InstanceData().(*InstanceData); ok {
		return data
	}

	// Both singletons start unreferenced so an idle instance can shut
	// down normally; any pending enqueue keeps them alive until drained.
	dropQueue := host.NewThreadsafeFunction(env, releaseDropData)
	dropQueue.Unref(env)

	sharedChannel := bridge.NewChannel(env)
	sharedChannel.Unref(env)

	data := &InstanceData{
		id:            nextInstanceID(),
		dropQueue:     dropQueue,
		sharedChannel: sharedChannel,
	}
	env.SetInstanceData(data)
	return data
}

// ID returns the unique identifier for the environment's instance.
func ID(env *host.Env) InstanceID {
	return Get(env).id
}

// DropQueue returns the instance's deferred-release queue.
func DropQueue(env *host.Env) *host.ThreadsafeFunction[DropData] {
	return Get(env).dropQueue
}

// Channel clones the shared channel and references it, since new
// channels should start referenced but the shared one is unreferenced.
func Channel(env *host.Env) *bridge.Channel {
	ch := Get(env).sharedChannel.Clone(env)
	ch.Ref(env)
	return ch
}
