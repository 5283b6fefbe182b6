// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cancellation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gogama/httpc/timeout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	t.Run("caller cancel", testComposeCallerCancel)
	t.Run("pending cancel", testComposePendingCancel)
	t.Run("timeout", testComposeTimeout)
	t.Run("infinite timeout", testComposeInfinite)
	t.Run("stop", testComposeStop)
	t.Run("release", testComposeRelease)
}

func testComposeCallerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pending := NewSource()
	d := Compose(ctx, pending, time.Hour)
	defer d.Release()

	assert.False(t, d.Cancelled())
	assert.Nil(t, d.Cause())
	cancel()
	<-d.Context().Done()
	assert.True(t, d.Cancelled())
	assert.Equal(t, context.Canceled, d.Cause())
	assert.NoError(t, pending.Err(), "caller cancel must not reach the pending source")
}

func testComposePendingCancel(t *testing.T) {
	pending := NewSource()
	d := Compose(context.Background(), pending, timeout.Infinite)
	defer d.Release()

	pending.Cancel(ErrPendingCancelled)
	require.True(t, d.Cancelled())
	assert.Equal(t, ErrPendingCancelled, d.Cause())
	assert.True(t, errors.Is(d.Cause(), context.Canceled))
}

func testComposeTimeout(t *testing.T) {
	start := time.Now()
	d := Compose(context.Background(), NewSource(), 10*time.Millisecond)
	defer d.Release()

	select {
	case <-d.Context().Done():
	case <-time.After(5 * time.Second):
		t.Fatal("derived context never timed out")
	}
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, context.DeadlineExceeded, d.Cause())
}

func testComposeInfinite(t *testing.T) {
	d := Compose(context.Background(), nil, timeout.Infinite)
	defer d.Release()

	assert.Nil(t, d.timer)
	assert.Nil(t, d.stop)
	assert.False(t, d.Cancelled())
}

func testComposeStop(t *testing.T) {
	pending := NewSource()
	d := Compose(context.Background(), pending, 5*time.Millisecond)
	d.Stop()
	d.Stop()

	assert.Equal(t, 0, pending.observing())
	pending.Cancel(nil)
	time.Sleep(20 * time.Millisecond)
	assert.False(t, d.Cancelled(), "stopped inputs must not cancel the derived context")

	d.Release()
	assert.True(t, d.Cancelled())
}

func testComposeRelease(t *testing.T) {
	pending := NewSource()
	d := Compose(context.Background(), pending, time.Hour)
	require.Equal(t, 1, pending.observing())

	d.Release()
	d.Release()
	assert.Equal(t, 0, pending.observing())
	assert.True(t, d.Cancelled())
	assert.False(t, d.timer.Stop(), "timer must already be stopped")
}
