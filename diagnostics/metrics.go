// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"strconv"

	"github.com/gogama/httpc"
	"github.com/gogama/httpc/request"
	"github.com/uber-go/tally"
)

// InstallMetrics installs a handler in g which records metrics on every
// send that was dispatched, once it ends.
//
// Every metric is tagged with the HTTP method. The metrics are:
//
// • "sends", a counter of all sends;
//
// • "successes", a counter of successful sends, additionally tagged
// with "status_class" (for example "2xx");
//
// • "failures", a counter of failed sends, additionally tagged with
// the failure "category" (see package transient);
//
// • "latency", a timer of the duration of each send.
func InstallMetrics(g *httpc.HandlerGroup, scope tally.Scope) {
	if scope == nil {
		scope = tally.NoopScope
	}
	g.PushBack(httpc.AfterSendEnd, httpc.HandlerFunc(func(_ httpc.Event, e *request.Execution) {
		recordSend(scope, e)
	}))
}

func recordSend(scope tally.Scope, e *request.Execution) {
	tagged := scope.Tagged(map[string]string{"method": e.Method()})
	tagged.Counter("sends").Inc(1)
	tagged.Timer("latency").Record(e.Duration())
	if e.Err != nil {
		tagged.Tagged(map[string]string{"category": e.Category().String()}).Counter("failures").Inc(1)
		return
	}
	tagged.Tagged(map[string]string{"status_class": statusClass(e.StatusCode())}).Counter("successes").Inc(1)
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}
