package booking

import (
	"context"
	"sync"
	"time"
)

// sessionLocks hands out one exclusive lock per exam session so claims in
// different sessions never contend.  Locks are buffered channels used as
// binary semaphores; acquisition is bounded so a stuck claim cannot block
// other callers indefinitely.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[uint64]chan struct{}
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[uint64]chan struct{})}
}

func (s *sessionLocks) lock(id uint64) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	return ch
}

// acquire blocks until the session lock is free, the wait bound elapses or
// the context is cancelled.  On timeout it returns ErrBusy.
func (s *sessionLocks) acquire(ctx context.Context, id uint64, wait time.Duration) error {
	ch := s.lock(id)
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release frees the session lock.  It must only be called after a
// successful acquire.
func (s *sessionLocks) release(id uint64) {
	<-s.lock(id)
}
