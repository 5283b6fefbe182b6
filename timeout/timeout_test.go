// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	assert.Equal(t, 100*time.Second, Default)
	assert.NoError(t, Validate(Default))
}

func TestValidate(t *testing.T) {
	valid := []time.Duration{Infinite, time.Nanosecond, time.Millisecond, time.Hour, Max}
	for _, d := range valid {
		assert.NoError(t, Validate(d), d.String())
	}
	invalid := []time.Duration{0, -2, -time.Second, Max + 1, time.Duration(1<<63 - 1)}
	for _, d := range invalid {
		assert.Error(t, Validate(d), d.String())
	}
}

func TestIsInfinite(t *testing.T) {
	assert.True(t, IsInfinite(Infinite))
	assert.False(t, IsInfinite(0))
	assert.False(t, IsInfinite(Default))
}
