// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/httpc/transient"
	"github.com/google/uuid"
)

// An Execution represents the state of sending a single Request.
//
// When a request is sent, an Execution is created for it and passed to
// the event handlers installed on the client as the send progresses.
//
// Event handlers may set values on an Execution using its SetValue
// method and read them back using the Value method. However, they
// should treat the structure's exported field values as immutable and
// leave them unmodified. Limited exceptions to this rule include making
// reasonable changes to the HTTPRequest headers before it is sent (for
// example, to inject tracing or signing headers).
type Execution struct {
	// ID uniquely identifies this send for diagnostic purposes. It is
	// never the zero UUID.
	ID uuid.UUID

	// Request is the request being sent. It is never nil.
	Request *Request

	// HTTPRequest is the lower-level HTTP request handed to the
	// transport. It is set once the request has been prepared, that
	// is, once its URL is resolved and default headers merged.
	HTTPRequest *http.Request

	// Response is the HTTP response received. It is nil until the
	// transport returns a response, and nil after a failed send.
	Response *http.Response

	// Err is the error the send failed with, exactly as it is
	// returned to the caller. It is nil unless the send failed.
	Err error

	// RawErr is the error as originally raised by the transport or
	// while buffering, before any reclassification as a cancellation.
	// It equals Err unless Cancelled is true.
	RawErr error

	// Cancelled indicates whether the send failed while its derived
	// cancellation context was cancelled, whether by the caller, by
	// the client timeout, or by cancelling all pending requests.
	Cancelled bool

	// Start is the time the send started. It is assigned a non-zero
	// value when the request is dispatched and remains constant
	// thereafter.
	Start time.Time

	// End is the time the send ended. It contains the zero value until
	// the send ends.
	End time.Time

	data context.Context
}

// NewExecution returns an Execution for sending r, with a fresh ID.
func NewExecution(r *Request) *Execution {
	return &Execution{
		ID:      uuid.New(),
		Request: r,
	}
}

// StatusCode returns the status code of the HTTP response. If there is
// no HTTP response, 0 is returned.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the HTTP response headers. If there is no HTTP
// response, the nil header is returned.
//
// Note that a nil return value is always safe for read-only operations,
// since http.Header is a map type.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Method returns the HTTP method being sent, defaulting to GET.
func (e *Execution) Method() string {
	if e.Request == nil || e.Request.Method == "" {
		return "GET"
	}
	return e.Request.Method
}

// URL returns the string form of the request URL, which is the
// resolved absolute URL once the request has been prepared.
func (e *Execution) URL() string {
	if e.Request == nil || e.Request.URL == nil {
		return ""
	}
	return e.Request.URL.String()
}

// Duration returns the duration of the send.
//
// If the send has not yet started, the duration is zero. If it has
// ended, the duration returned is equal to End minus Start. Otherwise,
// it is equal to the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the send has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the send has ended. Once it has, there will
// be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// which indicates a timeout, either of the client timeout or of a
// caller context deadline.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// Category returns the transient category of Err.
func (e *Execution) Category() transient.Category {
	return transient.Categorize(e.Err)
}

// SetValue allows event handlers to store arbitrary data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue, namely it:
//
// • may not be nil;
//
// • must be comparable;
//
// • should not be of type string or any other built-in type to avoid
// collisions between different event handlers putting data into the
// same execution.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
