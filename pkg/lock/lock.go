// Package lock serializes work that must not run twice at once, either inside
// one process or across replicas sharing a Redis.
package lock

import (
	"context"
	"errors"
	"sync"
)

var ErrNotHeld = errors.New("lock not held")

// Locker hands out exclusive access to a key. Acquire blocks until the key is
// free or ctx is done. The returned release func is safe to call more than once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
	Close() error
}

// LocalLocker is an in-process Locker. Each key is a one-slot channel.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}

func (l *LocalLocker) Close() error {
	return nil
}
