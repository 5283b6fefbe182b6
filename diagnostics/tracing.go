// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"github.com/gogama/httpc"
	"github.com/gogama/httpc/request"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	opentracinglog "github.com/opentracing/opentracing-go/log"
)

type spanKey struct{}

// InstallTracing installs handlers in g which wrap every dispatched
// send in a client span.
//
// The span is started just before the request is handed to the
// transport, as a child of any span found in the request context, and
// its context is injected into the request headers. The span finishes
// when the send ends. If tracer is nil, opentracing.GlobalTracer() is
// used.
func InstallTracing(g *httpc.HandlerGroup, tracer opentracing.Tracer) {
	g.PushBack(httpc.BeforeSend, httpc.HandlerFunc(func(_ httpc.Event, e *request.Execution) {
		t := tracer
		if t == nil {
			t = opentracing.GlobalTracer()
		}
		startSpan(t, e)
	}))
	g.PushBack(httpc.AfterSendEnd, httpc.HandlerFunc(func(_ httpc.Event, e *request.Execution) {
		finishSpan(e)
	}))
}

func startSpan(tracer opentracing.Tracer, e *request.Execution) {
	req := e.HTTPRequest
	var parent opentracing.SpanContext // ok to be nil
	if parentSpan := opentracing.SpanFromContext(req.Context()); parentSpan != nil {
		parent = parentSpan.Context()
	}
	span := tracer.StartSpan(
		"HTTP "+req.Method,
		opentracing.ChildOf(parent),
		opentracing.Tags{"request.id": e.ID.String()},
	)
	ext.SpanKindRPCClient.Set(span)
	ext.Component.Set(span, "httpc")
	ext.HTTPMethod.Set(span, req.Method)
	ext.HTTPUrl.Set(span, req.URL.String())

	err := tracer.Inject(
		span.Context(),
		opentracing.HTTPHeaders,
		opentracing.HTTPHeadersCarrier(req.Header),
	)
	if err != nil {
		span.LogFields(opentracinglog.String("event", "inject failed"), opentracinglog.Error(err))
	}
	e.SetValue(spanKey{}, span)
}

func finishSpan(e *request.Execution) {
	span, ok := e.Value(spanKey{}).(opentracing.Span)
	if !ok {
		return
	}
	if e.Response != nil {
		ext.HTTPStatusCode.Set(span, uint16(e.StatusCode()))
	}
	if e.Err != nil {
		ext.Error.Set(span, true)
		span.LogFields(opentracinglog.String("event", e.Err.Error()))
		span.SetTag("cancelled", e.Cancelled)
	}
	span.FinishWithOptions(opentracing.FinishOptions{FinishTime: e.End})
}
