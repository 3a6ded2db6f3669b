// Package lock provides keyed mutual exclusion, in process or across processes through Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrNotObtained is returned when a lock could not be taken before the context ended.
var ErrNotObtained = errors.New("lock not obtained")

type Lock interface {
	Release(ctx context.Context) error
}

type Locker interface {
	// Acquire blocks until key is held or ctx is done.
	Acquire(ctx context.Context, key string) (Lock, error)
}

// AcquireAll takes every key in sorted order, skipping duplicates, so that two callers
// locking overlapping sets cannot deadlock. On failure nothing stays held.
func AcquireAll(ctx context.Context, l Locker, keys ...string) (Lock, error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	held := make(multiLock, 0, len(sorted))

	for _, k := range sorted {
		lk, err := l.Acquire(ctx, k)
		if err != nil {
			_ = held.Release(context.WithoutCancel(ctx))
			return nil, fmt.Errorf("acquiring %s: %w", k, err)
		}

		held = append(held, lk)
	}

	return held, nil
}

type multiLock []Lock

func (m multiLock) Release(ctx context.Context) error {
	var errs []error

	for i := len(m) - 1; i >= 0; i-- {
		if err := m[i].Release(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Local is a Locker for a single process.
type Local struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{slots: make(map[string]*slot)}
}

func (l *Local) Acquire(ctx context.Context, key string) (Lock, error) {
	l.mu.Lock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}

	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return &localLock{owner: l, key: key, slot: s}, nil
	case <-ctx.Done():
		l.unref(key, s)
		return nil, fmt.Errorf("%w: %w", ErrNotObtained, ctx.Err())
	}
}

func (l *Local) unref(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

type localLock struct {
	owner *Local
	key   string
	slot  *slot
	once  sync.Once
}

func (ll *localLock) Release(context.Context) error {
	ll.once.Do(func() {
		<-ll.slot.ch
		ll.owner.unref(ll.key, ll.slot)
	})

	return nil
}
