// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpc

import (
	"github.com/gogama/httpc/request"
	"go.uber.org/zap"
)

// A HandlerGroup is a group of event handler chains which can be
// installed in a Client.
//
// Handlers should be pushed into a group before the group is installed
// in a client. A group is not safe for concurrent modification.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the event handler chain
// for a specific event type.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("httpc: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

// Len returns the number of handlers in the chain for an event type.
func (g *HandlerGroup) Len(evt Event) int {
	i := int(evt)
	if i < len(g.handlers) {
		return len(g.handlers[i])
	}
	return 0
}

func (g *HandlerGroup) run(evt Event, e *request.Execution, logger *zap.Logger) {
	i := int(evt)
	if i < len(g.handlers) {
		run(g.handlers[i], evt, e, logger)
	}
}

func run(chain []Handler, evt Event, e *request.Execution, logger *zap.Logger) {
	for _, h := range chain {
		safeHandle(h, evt, e, logger)
	}
}

// safeHandle runs one handler, recovering and logging any panic so
// that a faulty handler never changes the outcome of a send.
func safeHandle(h Handler, evt Event, e *request.Execution, logger *zap.Logger) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Event handler panicked.",
				zap.Stringer("event", evt),
				zap.Stringer("id", e.ID),
				zap.Any("panic", p),
				zap.Stack("stack"),
			)
		}
	}()
	h.Handle(evt, e)
}

// A Handler handles the occurrence of an event during a send.
type Handler interface {
	Handle(Event, *request.Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
