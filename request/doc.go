// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Request (describes one outbound
HTTP request) and Execution (describes the sending of a Request). These
two types are the currency of the httpc client.

The first core type is Request, a single-use description of an HTTP
request. For those familiar with the Go standard HTTP library, net/http,
a Request looks like a stripped-down http.Request with the server-side
fields removed, and with a URL which may be relative (or absent) until
the client resolves it against its base address.

Create a request and send it:

	r, err := request.NewRequest("GET", "items/5", nil)
	...
	resp, err := client.Do(ctx, r)
	...

A Request may be sent at most once. The client marks it sent at the
start of dispatch and rejects any later attempt to send it again, and
the client closes the request Body exactly once when the send ends,
whatever the outcome.

The second core type is Execution, which represents the state of one
send. Execution is the input type for event handlers installed on the
client, which observe the send as it starts, completes, or fails.
*/
package request
