// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpc orchestrates HTTP requests on top of a transport: it
resolves request URLs against a base address, merges default headers,
enforces a timeout, buffers responses within a size limit, can cancel
every pending request at once, and classifies failures.

Create a Client to begin making requests.

	client := httpc.NewClient()
	defer client.Close()
	base, _ := url.Parse("https://api.example.com/v1/")
	_ = client.SetBaseAddress(base)
	client.DefaultHeaders().Set("Accept", "application/json")
	...
	resp, err := client.Get(ctx, "items/5")
	...
	s, err := client.GetString(ctx, "items/5/name")

Client configuration (base address, timeout, maximum response buffer
size, default headers) may only be changed before the first request is
sent.

For full control over a request, build a request.Request and send it
with Client.Send. A request can only be sent once.

	r, err := request.NewRequest("PUT", "items/5", body)
	...
	r.Header.Set("Content-Type", "application/json")
	resp, err := client.Send(ctx, r, httpc.ReadHeaders)
	...
	defer resp.Body.Close()

For control over how the client sends HTTP requests and receives HTTP
responses, supply a custom HTTPDoer, such as a GoLang standard HTTP
client:

	doer := &http.Client{
		..., // See package "net/http" for detailed documentation
	}
	client := httpc.NewClient(httpc.WithHTTPDoer(doer, false))

Errors produced by the client are of type *Error, and KindOf extracts
their Kind. A failure which occurs while a send is being cancelled,
whether by the caller's context, by the client timeout, or by
Client.CancelPending, has kind KindCancelled. Any other transport
failure is returned exactly as the transport returned it.

To hook into the details of each send, install a handler into the
appropriate handler chain. Package diagnostics provides ready-made
handlers for logging, metrics, and tracing.

	handlers := &httpc.HandlerGroup{}
	handlers.PushBack(httpc.AfterSendEnd, httpc.HandlerFunc(
		func(_ httpc.Event, e *request.Execution) {
			log.Printf("%s %s took %v", e.Method(), e.URL(), e.Duration())
		}),
	)
	client := httpc.NewClient(httpc.WithHandlers(handlers))
*/
package httpc
