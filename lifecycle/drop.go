package lifecycle

import (
	"github.com/wippyai/extension-host/host"
)

// DropData is an owning-loop-confined resource whose release was
// requested from some other goroutine. The set of variants is closed:
// a counted reference into the object graph, or a pending promise that
// must be marked abandoned.
type DropData interface {
	release(env *host.Env)
}

type dropRef struct {
	ref *host.Ref
}

// DropRef wraps a reference token for deferred release.
func DropRef(ref *host.Ref) DropData {
	return dropRef{ref: ref}
}

func (d dropRef) release(env *host.Env) {
	d.ref.Unref(env)
}

type dropDeferred struct {
	deferred *host.Deferred
}

// DropDeferred wraps an unsettled promise for deferred abandonment.
func DropDeferred(deferred *host.Deferred) DropData {
	return dropDeferred{deferred: deferred}
}

func (d dropDeferred) release(env *host.Env) {
	d.deferred.Abandon(env)
}

// releaseDropData releases one resource on the owning loop. A nil
// environment means delivery happened after teardown; the environment's
// own reclamation already covered the resource, so nothing is done.
func releaseDropData(env *host.Env, data DropData) {
	if env == nil {
		return
	}
	data.release(env)
}

// EnqueueRelease requests that a resource be released on the owning
// loop. Safe from any goroutine; each resource must be enqueued exactly
// once, at the point its last reference is dropped.
func EnqueueRelease(queue *host.ThreadsafeFunction[DropData], data DropData) error {
	return queue.Call(data)
}
