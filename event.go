// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpc

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality such as logging, metrics, or tracing.
type Event int

const (
	// BeforeSend identifies the event that occurs after a request has
	// been prepared but before it is handed to the HTTPDoer.
	//
	// When Client fires BeforeSend, the execution's Request URL is
	// resolved, default headers are merged, and HTTPRequest is set to
	// the HTTP request that WILL BE sent after all BeforeSend handlers
	// have finished. Handlers may add headers to HTTPRequest.
	//
	// BeforeSend does not fire if the send fails before dispatch, for
	// example because the client is closed or the request was already
	// sent.
	BeforeSend Event = iota
	// AfterSend identifies the event that occurs after a send
	// completes successfully.
	//
	// When Client fires AfterSend, the execution's Response field is
	// set to the response that will be returned to the caller. If the
	// response body was buffered, it is fully readable.
	AfterSend
	// AfterSendError identifies the event that occurs after a send
	// fails once dispatched.
	//
	// When Client fires AfterSendError, the execution's Err field is
	// set to the error that will be returned, RawErr to the original
	// failure, and Cancelled indicates whether the failure was
	// reclassified as a cancellation.
	AfterSendError
	// AfterSendEnd identifies the event that occurs after every
	// dispatched send ends, whether it succeeded or failed. It always
	// follows either AfterSend or AfterSendError.
	//
	// When Client fires AfterSendEnd, the execution's End time is set.
	AfterSendEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeSend",
	"AfterSend",
	"AfterSendError",
	"AfterSendEnd",
}

// Events returns a slice containing all events which can occur during
// a send, in the order in which they would occur. Exactly one of
// AfterSend and AfterSendError occurs on each send.
func Events() []Event {
	return []Event{
		BeforeSend,
		AfterSend,
		AfterSendError,
		AfterSendEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
