package resilience

import (
	"fmt"
	"sync"
)

// Group collapses concurrent loads of the same key into one call. A panic in
// fn is turned into an error for every waiter.
type Group[T any] struct {
	mu    sync.Mutex
	calls map[string]*flight[T]
}

type flight[T any] struct {
	done chan struct{}
	val  T
	err  error
	dups int
}

// Do returns the result of fn for key and whether it was shared with
// another caller.
func (g *Group[T]) Do(key string, fn func() (T, error)) (T, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flight[T])
	}
	if f, ok := g.calls[key]; ok {
		f.dups++
		g.mu.Unlock()
		<-f.done
		return f.val, f.err, true
	}
	f := &flight[T]{done: make(chan struct{})}
	g.calls[key] = f
	g.mu.Unlock()

	g.run(key, f, fn)
	return f.val, f.err, f.dups > 0
}

func (g *Group[T]) run(key string, f *flight[T], fn func() (T, error)) {
	defer func() {
		if r := recover(); r != nil {
			f.err = fmt.Errorf("load %q panicked: %v", key, r)
		}
		g.mu.Lock()
		if g.calls[key] == f {
			delete(g.calls, key)
		}
		g.mu.Unlock()
		close(f.done)
	}()
	f.val, f.err = fn()
}

// Forget drops an in-flight key so the next caller starts a fresh load.
func (g *Group[T]) Forget(key string) {
	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
}
