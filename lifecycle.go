// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpc

import "go.uber.org/atomic"

// lifecycle holds the one-way started and closed latches of a Client.
type lifecycle struct {
	started atomic.Bool
	closed  atomic.Bool
}

// markStarted latches the started flag, reporting whether this call
// was the one that set it.
func (l *lifecycle) markStarted() bool {
	return l.started.CompareAndSwap(false, true)
}

// markClosed latches the closed flag, reporting whether this call was
// the one that set it.
func (l *lifecycle) markClosed() bool {
	return l.closed.CompareAndSwap(false, true)
}

func (l *lifecycle) checkNotClosed(op string) error {
	if l.closed.Load() {
		return &Error{Kind: KindClosed, Op: op, Err: ErrClosed}
	}
	return nil
}

func (l *lifecycle) checkMutable(op string) error {
	if err := l.checkNotClosed(op); err != nil {
		return err
	}
	if l.started.Load() {
		return &Error{Kind: KindInvalidState, Op: op, Err: ErrStarted}
	}
	return nil
}
