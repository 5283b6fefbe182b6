// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cancellation

import (
	"context"
	"sync"
	"time"

	"github.com/gogama/httpc/timeout"
)

// A Derived is a cancellation context derived from a caller context, a
// pending-request Source, and an optional timeout. It is created by
// Compose and must be released by the caller exactly once, after the
// operation it governs completes.
type Derived struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	timer  *time.Timer
	stop   func()

	stopOnce    sync.Once
	releaseOnce sync.Once
}

// Compose derives a new context from parent that is additionally
// cancelled when pending is cancelled or, unless d is timeout.Infinite,
// when d elapses from the time of the call.
//
// The cause recorded on the derived context identifies which input
// fired: the parent's own error or cause if parent was cancelled,
// ErrPendingCancelled (or whatever cause pending was cancelled with) if
// pending fired first, and context.DeadlineExceeded if the timeout
// fired first.
//
// The timeout is scheduled with time.AfterFunc so that no goroutine is
// parked while waiting for it. Parameter pending may be nil.
func Compose(parent context.Context, pending *Source, d time.Duration) *Derived {
	ctx, cancel := context.WithCancelCause(parent)
	dv := &Derived{
		ctx:    ctx,
		cancel: cancel,
	}
	if pending != nil {
		dv.stop = pending.Observe(func(cause error) {
			cancel(cause)
		})
	}
	if !timeout.IsInfinite(d) {
		dv.timer = time.AfterFunc(d, func() {
			cancel(context.DeadlineExceeded)
		})
	}
	return dv
}

// Context returns the derived context.
func (d *Derived) Context() context.Context {
	return d.ctx
}

// Cancelled reports whether the derived context has been cancelled by
// any of its inputs.
func (d *Derived) Cancelled() bool {
	return d.ctx.Err() != nil
}

// Cause returns the cause the derived context was cancelled with, or
// nil if it has not been cancelled.
func (d *Derived) Cause() error {
	return context.Cause(d.ctx)
}

// Stop disconnects the derived context from the pending Source and
// stops the timeout timer, without cancelling the derived context.
// After Stop returns, neither input can cancel the derived context any
// more, although the parent still can.
//
// Stop is idempotent.
func (d *Derived) Stop() {
	d.stopOnce.Do(func() {
		if d.timer != nil {
			d.timer.Stop()
		}
		if d.stop != nil {
			d.stop()
		}
	})
}

// Release stops the derived context's inputs as Stop does and then
// cancels the derived context, releasing every resource associated
// with it. Release is idempotent.
func (d *Derived) Release() {
	d.releaseOnce.Do(func() {
		d.Stop()
		d.cancel(context.Canceled)
	})
}
