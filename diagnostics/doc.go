// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package diagnostics provides event handlers which report on each request
sent by an httpc.Client: structured logs (zap), metrics (tally), and
distributed tracing spans (opentracing).

Install the handlers into a handler group before creating the client.

	handlers := &httpc.HandlerGroup{}
	diagnostics.InstallLogging(handlers, logger)
	diagnostics.InstallMetrics(handlers, scope.SubScope("http_client"))
	diagnostics.InstallTracing(handlers, opentracing.GlobalTracer())
	client := httpc.NewClient(httpc.WithHandlers(handlers))

The handlers never affect the outcome of a send.
*/
package diagnostics
