// Package lockx provides a per-key mutex. Holders of different keys never
// block each other; holders of the same key run one at a time.
package lockx

import (
	"context"
	"sync"
)

type entry struct {
	ch   chan struct{}
	refs int
}

// Keyed serializes work per comparable key. The zero value is ready to use.
// Idle keys are dropped, so the map only holds keys that are locked or awaited.
type Keyed[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*entry
}

func (k *Keyed[K]) acquire(key K) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.entries == nil {
		k.entries = make(map[K]*entry)
	}
	e, ok := k.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	return e
}

func (k *Keyed[K]) release(key K, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}

// Lock waits until key is free or ctx ends. On success the returned func
// must be called exactly once to release the key.
func (k *Keyed[K]) Lock(ctx context.Context, key K) (func(), error) {
	e := k.acquire(key)

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			k.release(key, e)
		})
	}, nil
}

// Len returns the number of keys currently held or awaited.
func (k *Keyed[K]) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
