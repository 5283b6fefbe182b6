// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpc

import (
	"fmt"
	"testing"

	"github.com/gogama/httpc/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandlerGroup(t *testing.T) {
	var evts []string
	var execs []*request.Execution
	h1 := &testHandler{seq: 1, evts: &evts, execs: &execs}
	h2 := &testHandler{seq: 2, evts: &evts, execs: &execs}
	g := &HandlerGroup{}
	logger := zap.NewNop()
	t.Run("PushBack", func(t *testing.T) {
		assert.Panics(t, func() { g.PushBack(BeforeSend, nil) })
		assert.Panics(t, func() { g.PushBack(Event(123), h1) })
		g.PushBack(BeforeSend, h1)
		g.PushBack(BeforeSend, h2)
		g.PushBack(AfterSendEnd, h1)
		assert.Equal(t, 2, g.Len(BeforeSend))
		assert.Equal(t, 0, g.Len(AfterSend))
		assert.Equal(t, 1, g.Len(AfterSendEnd))
		assert.Equal(t, 0, g.Len(Event(123)))
	})
	t.Run("run", func(t *testing.T) {
		e1 := request.NewExecution(&request.Request{})
		e2 := request.NewExecution(&request.Request{})
		assert.Empty(t, evts)
		assert.Empty(t, execs)
		g.run(AfterSendError, e1, logger)
		assert.Empty(t, evts)
		assert.Empty(t, execs)
		g.run(BeforeSend, e1, logger)
		assert.Equal(t, []string{"1.BeforeSend", "2.BeforeSend"}, evts)
		assert.Equal(t, []*request.Execution{e1, e1}, execs)
		evts = evts[:0]
		execs = execs[:0]
		g.run(AfterSendEnd, e2, logger)
		assert.Equal(t, []string{"1.AfterSendEnd"}, evts)
		assert.Equal(t, []*request.Execution{e2}, execs)
	})
	t.Run("empty group", func(t *testing.T) {
		var empty HandlerGroup
		assert.NotPanics(t, func() {
			empty.run(BeforeSend, request.NewExecution(&request.Request{}), logger)
		})
	})
}

func TestHandlerGroup_Panic(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	var evts []string
	var execs []*request.Execution
	g := &HandlerGroup{}
	g.PushBack(AfterSend, HandlerFunc(func(Event, *request.Execution) {
		panic("boom")
	}))
	g.PushBack(AfterSend, &testHandler{seq: 2, evts: &evts, execs: &execs})
	e := request.NewExecution(&request.Request{})

	assert.NotPanics(t, func() { g.run(AfterSend, e, logger) })

	assert.Equal(t, []string{"2.AfterSend"}, evts, "later handlers still run")
	entries := logs.FilterMessage("Event handler panicked.").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "AfterSend", fields["event"])
	assert.Equal(t, e.ID.String(), fields["id"])
	assert.Equal(t, "boom", fields["panic"])
	assert.Contains(t, fields, "stack")
}

type testHandler struct {
	seq   int
	evts  *[]string
	execs *[]*request.Execution
}

func (h *testHandler) Handle(evt Event, e *request.Execution) {
	*h.evts = append(*h.evts, fmt.Sprintf("%d.%s", h.seq, evt))
	*h.execs = append(*h.execs, e)
}

func TestHandlerFunc(t *testing.T) {
	var _evt Event
	var _e *request.Execution
	var f = func(evt Event, e *request.Execution) {
		_evt = evt
		_e = e
	}
	h := HandlerFunc(f)
	e := &request.Execution{}
	h.Handle(AfterSendError, e)

	assert.Equal(t, AfterSendError, _evt)
	assert.Same(t, e, _e)
}
