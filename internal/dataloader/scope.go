package dataloader

import (
	"context"
	"sync"
)

// Scope owns the caches of every loader created on it.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	closers []func()
}

// NewScope derives the context batch functions run with from parent.
// Cancelling parent, or closing the scope, cancels running fetches.
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Close discards every cache. Waiters whose keys were not yet dispatched
// fail with ErrScopeClosed. Close is idempotent.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	for _, c := range closers {
		c()
	}
	s.cancel()
}

// Closed reports whether Close has run.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// register reports false when the scope is already closed.
func (s *Scope) register(closer func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closers = append(s.closers, closer)
	return true
}
