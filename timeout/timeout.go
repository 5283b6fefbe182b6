// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"fmt"
	"math"
	"time"
)

const (
	// Default is the timeout a new client applies to every request
	// until a different value is set.
	Default = 100 * time.Second

	// Infinite is the sentinel timeout value meaning requests never
	// time out on account of the client. A caller context deadline
	// still applies.
	Infinite time.Duration = -1

	// Max is the largest finite timeout a client accepts.
	Max = time.Duration(math.MaxInt32) * time.Millisecond
)

// Validate returns an error if d is neither Infinite nor within the
// half-open range (0, Max].
func Validate(d time.Duration) error {
	if d == Infinite {
		return nil
	}
	if d <= 0 || d > Max {
		return fmt.Errorf("httpc/timeout: %v out of range (0, %v]", d, Max)
	}
	return nil
}

// IsInfinite reports whether d is the Infinite sentinel.
func IsInfinite(d time.Duration) bool {
	return d == Infinite
}
