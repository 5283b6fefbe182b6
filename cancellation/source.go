// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cancellation

import (
	"context"
	"sync"
)

// ErrPendingCancelled is the cancellation cause reported when every
// pending request on a client is cancelled at once.
//
// ErrPendingCancelled matches context.Canceled under errors.Is.
var ErrPendingCancelled error = pendingCancelled{}

type pendingCancelled struct{}

func (pendingCancelled) Error() string {
	return "httpc/cancellation: pending requests cancelled"
}

func (pendingCancelled) Is(target error) bool {
	return target == context.Canceled
}

// A Source is a one-shot cancellation signal which notifies a set of
// observers when it is cancelled. The zero value is not usable; create
// a Source with NewSource.
//
// Source is safe for concurrent use by multiple goroutines.
type Source struct {
	mu        sync.Mutex
	done      chan struct{}
	err       error
	observers map[uint64]func(error)
	next      uint64
}

// NewSource returns a new, uncancelled Source.
func NewSource() *Source {
	return &Source{
		done:      make(chan struct{}),
		observers: make(map[uint64]func(error)),
	}
}

// Cancel cancels the source with the given cause and notifies every
// registered observer. A nil cause is replaced with context.Canceled.
//
// Only the first call has any effect; it returns true. Subsequent calls
// return false. Observers run on the calling goroutine after the
// source's internal lock is released, and the observer list is dropped
// so a cancelled source holds no references to its former observers.
func (s *Source) Cancel(cause error) bool {
	if cause == nil {
		cause = context.Canceled
	}

	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return false
	}
	s.err = cause
	close(s.done)
	observers := s.observers
	s.observers = nil
	s.mu.Unlock()

	for _, f := range observers {
		f(cause)
	}
	return true
}

// Observe registers f to be called with the cancellation cause when the
// source is cancelled. If the source is already cancelled, f is called
// immediately on the calling goroutine.
//
// The returned stop function unregisters f. It is safe to call stop
// more than once, and after the source is cancelled.
func (s *Source) Observe(f func(error)) (stop func()) {
	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		f(err)
		return func() {}
	}
	id := s.next
	s.next++
	s.observers[id] = f
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Done returns a channel that is closed when the source is cancelled.
func (s *Source) Done() <-chan struct{} {
	return s.done
}

// Err returns nil if the source has not been cancelled, and otherwise
// the cause it was cancelled with.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Source) observing() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}
