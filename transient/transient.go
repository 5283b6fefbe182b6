// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"syscall"
)

// A Category is the category of a particular send failure, as
// reported by function Categorize.
//
// The category Not means the error fits none of the other categories,
// for example a TLS handshake failure or an unsuccessful status code.
type Category int

const (
	// Not indicates any error that is not otherwise categorized,
	// including a nil error.
	Not Category = iota
	// Timeout indicates the send was abandoned because a deadline
	// passed, either the client timeout or a caller context deadline.
	//
	// Function Categorize returns Timeout if the error or any of its
	// wrapped causes has a Timeout() function that reports true.
	Timeout
	// Cancelled indicates the send was abandoned because it was
	// cancelled without a deadline passing: the caller cancelled its
	// context, or all pending requests on the client were cancelled.
	//
	// Function Categorize returns Cancelled if the error is not a
	// Timeout and the error or any of its wrapped causes is
	// context.Canceled.
	Cancelled
	// ConnRefused indicates the remote host refused the connection, and
	// corresponds to the POSIX error code ECONNREFUSED.
	ConnRefused
	// ConnReset indicates the remote host returned an RST packet on a
	// previously active TCP connection, and corresponds to the POSIX
	// error code ECONNRESET.
	ConnReset
)

var categoryNames = []string{
	"not",
	"timeout",
	"cancelled",
	"conn_refused",
	"conn_reset",
}

// String returns a short lower-case name for the category, suitable
// for use as a log field or metric tag value.
func (cat Category) String() string {
	if cat < 0 || int(cat) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[cat]
}

// Categorize returns the category of the given error. A nil error
// produces the return value Not.
//
// Categorize looks at wrapped cause errors contained within err, not
// just err itself. It never consults a Temporary() function, as the
// semantics of Temporary() aren't entirely clear.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	if errors.Is(err, context.Canceled) {
		return Cancelled
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
