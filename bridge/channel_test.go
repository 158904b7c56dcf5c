package bridge

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/wippyai/extension-host/host"
)

func TestChannel_Send(t *testing.T) {
	inst := newTestInstance(t)

	var ch *Channel
	inst.RunSync(func(env *host.Env) {
		ch = NewChannel(env)
	})

	got := make(chan int, 1)
	if err := ch.Send(func(env *host.Env) {
		got <- 42
	}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case v := <-got:
		if v != 42 {
			t.Fatalf("Expected 42, got %d", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Closure never ran")
	}

	inst.RunSync(func(env *host.Env) { ch.Release(env) })
}

func TestChannel_SendFromManyGoroutines(t *testing.T) {
	inst := newTestInstance(t)

	var ch *Channel
	counter := 0
	inst.RunSync(func(env *host.Env) {
		ch = NewChannel(env)
	})

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch.Send(func(*host.Env) { counter++ })
		}()
	}
	wg.Wait()

	inst.RunSync(func(*host.Env) {})
	inst.RunSync(func(env *host.Env) {
		if counter != n {
			t.Errorf("Expected %d closures, got %d", n, counter)
		}
		ch.Release(env)
	})
}

func TestChannel_SendAfterTeardownDropped(t *testing.T) {
	inst := host.NewInstance(host.Options{})

	var ch *Channel
	inst.RunSync(func(env *host.Env) {
		ch = NewChannel(env)
		ch.Unref(env)
	})
	if err := inst.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	ran := make(chan struct{}, 1)
	if err := ch.Send(func(*host.Env) {
		ran <- struct{}{}
	}); err != nil {
		t.Fatalf("Send after teardown failed: %v", err)
	}

	select {
	case <-ran:
		t.Fatal("Closure must be dropped after teardown")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestChannel_CloneSharesDelivery(t *testing.T) {
	inst := newTestInstance(t)

	var ch, clone *Channel
	inst.RunSync(func(env *host.Env) {
		ch = NewChannel(env)
		clone = ch.Clone(env)
	})

	got := make(chan struct{}, 1)
	if err := clone.Send(func(*host.Env) { got <- struct{}{} }); err != nil {
		t.Fatalf("Send on clone failed: %v", err)
	}
	<-got

	// Releasing the original keeps the clone usable
	inst.RunSync(func(env *host.Env) { ch.Release(env) })
	if err := clone.Send(func(*host.Env) { got <- struct{}{} }); err != nil {
		t.Fatalf("Send on surviving clone failed: %v", err)
	}
	<-got

	inst.RunSync(func(env *host.Env) { clone.Release(env) })
	if err := clone.Send(func(*host.Env) {}); err == nil {
		t.Fatal("Expected Send after last release to fail")
	}
}

func TestChannel_RefCountsAcrossClones(t *testing.T) {
	inst := newTestInstance(t)

	var ch, clone *Channel
	inst.RunSync(func(env *host.Env) {
		ch = NewChannel(env)
		clone = ch.Clone(env)
		clone.Ref(env)
		// Both clones referenced; dropping one keep-alive must not
		// unreference the shared primitive
		ch.Unref(env)
	})

	waited := make(chan struct{})
	go func() {
		inst.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		t.Fatal("Wait returned while a clone is still referenced")
	case <-time.After(50 * time.Millisecond):
	}

	inst.RunSync(func(env *host.Env) { clone.Unref(env) })
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after last Unref")
	}

	inst.RunSync(func(env *host.Env) {
		ch.Release(env)
		clone.Release(env)
	})
}
