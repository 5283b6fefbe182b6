// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gogama/httpc/content"
)

// A Kind classifies the errors returned by Client.
type Kind int

const (
	// KindUnknown is the kind of any error not produced by this
	// package, notably a transport failure which was not caused by
	// cancellation. Such errors are returned unchanged.
	KindUnknown Kind = iota
	// KindClosed indicates an operation was attempted on a closed
	// client. The wrapped error is ErrClosed.
	KindClosed
	// KindInvalidState indicates an operation that is not valid in the
	// current state: changing client configuration after the first
	// send (wrapping ErrStarted), or sending a request a second time
	// (wrapping ErrAlreadySent).
	KindInvalidState
	// KindInvalidArgument indicates a nil request or context, or an
	// out-of-range or otherwise invalid configuration value.
	KindInvalidArgument
	// KindInvalidRequest indicates the request target could not be
	// determined, for example a relative URL on a client with no base
	// address.
	KindInvalidRequest
	// KindNoResponse indicates the transport returned neither a
	// response nor an error. The wrapped error is ErrNoResponse.
	KindNoResponse
	// KindContentTooLarge indicates the response body exceeded the
	// client's maximum response buffer size. The wrapped error is
	// content.ErrTooLarge.
	KindContentTooLarge
	// KindCancelled indicates the send failed while its context was
	// cancelled by the caller, by the client timeout, or by
	// Client.CancelPending. The wrapped error is the caller's context
	// error if the caller's context is done, otherwise the cause:
	// context.DeadlineExceeded for the client timeout or
	// cancellation.ErrPendingCancelled for CancelPending.
	KindCancelled
	// KindUnsuccessfulStatus indicates a GetString, GetBytes, or
	// GetStream call received a non-2XX status code.
	KindUnsuccessfulStatus
)

var kindNames = []string{
	"unknown",
	"closed",
	"invalid state",
	"invalid argument",
	"invalid request",
	"no response",
	"content too large",
	"cancelled",
	"unsuccessful status",
}

// String returns a short description of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

var (
	// ErrClosed is wrapped by every error of kind KindClosed.
	ErrClosed = errors.New("httpc: client closed")
	// ErrStarted is wrapped by a KindInvalidState error returned when
	// client configuration is changed after the first send.
	ErrStarted = errors.New("httpc: client has already started sending requests")
	// ErrAlreadySent is wrapped by a KindInvalidState error returned
	// when a request is sent more than once.
	ErrAlreadySent = errors.New("httpc: request already sent")
	// ErrNoResponse is wrapped by every error of kind KindNoResponse.
	ErrNoResponse = errors.New("httpc: transport returned no response")
	// ErrNoBaseAddress is wrapped by a KindInvalidRequest error
	// returned when a request with a relative or nil URL is sent by a
	// client with no base address.
	ErrNoBaseAddress = errors.New("httpc: request URL is not absolute and client has no base address")

	errNilRequest     = errors.New("httpc: nil request")
	errBadBaseAddress = errors.New("httpc: base address must be an absolute http or https URL")
	errBadBufferSize  = fmt.Errorf("httpc: buffer size must be in range (0, %d]", HardMaxResponseBufferSize)
	errNilContext     = errors.New("httpc: nil context")
)

// An Error is an error produced by Client or by one of the package
// functions. It records the kind of error as well as the operation and
// URL which caused it.
//
// Transport failures not caused by cancellation are not wrapped in an
// Error; they are returned exactly as the transport returned them.
type Error struct {
	// Kind classifies the error.
	Kind Kind
	// Op is the operation which failed: the HTTP method in the style of
	// url.Error (for example "Get" or "Post") or the name of the client
	// method.
	Op string
	// URL is the request URL, if known.
	URL string
	// StatusCode is the HTTP status code received, for errors of kind
	// KindUnsuccessfulStatus.
	StatusCode int
	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	var msg string
	if e.Kind == KindUnsuccessfulStatus {
		msg = fmt.Sprintf("httpc: unsuccessful status code %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
	} else if e.Err != nil {
		msg = e.Err.Error()
	} else {
		msg = "httpc: " + e.Kind.String()
	}

	switch {
	case e.Op != "" && e.URL != "":
		return fmt.Sprintf("%s %q: %s", e.Op, e.URL, msg)
	case e.Op != "":
		return e.Op + ": " + msg
	default:
		return msg
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the error is a cancellation caused by a
// deadline: either the client timeout or a deadline on the caller's
// context.
func (e *Error) Timeout() bool {
	return e.Kind == KindCancelled && errors.Is(e.Err, context.DeadlineExceeded)
}

// KindOf returns the Kind of err. If err is not, and does not wrap, an
// *Error, KindUnknown is returned.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// classify decides the outcome of a send that failed with err. If the
// send's derived context was not cancelled when the failure surfaced,
// err is returned unchanged. Otherwise the failure is reported as a
// cancellation carrying the caller's context error, or cause if the
// caller's context is not done, regardless of what err was.
func classify(err error, derivedCancelled bool, callerCtx context.Context, cause error) error {
	if err == nil || !derivedCancelled {
		return err
	}

	reason := callerCtx.Err()
	if reason == nil {
		reason = cause
	}
	if reason == nil {
		reason = context.Canceled
	}

	return &Error{Kind: KindCancelled, Err: reason}
}

func bufferError(err error) error {
	if errors.Is(err, content.ErrTooLarge) {
		return &Error{Kind: KindContentTooLarge, Err: err}
	}
	return err
}

func withTarget(err error, op, url string) error {
	if e, ok := err.(*Error); ok && e.Op == "" {
		e.Op = op
		e.URL = url
	}
	return err
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
