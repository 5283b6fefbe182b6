// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"github.com/gogama/httpc"
	"github.com/gogama/httpc/request"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	_successMsg = "Sent request."
	_errorMsg   = "Error sending request."
)

// InstallLogging installs a handler in g which logs every send that
// was dispatched, once it ends.
//
// Successful sends are logged at Debug level. Failed sends are logged
// at Error level, unless they failed because they were cancelled, in
// which case they are logged at Info level.
func InstallLogging(g *httpc.HandlerGroup, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g.PushBack(httpc.AfterSendEnd, httpc.HandlerFunc(func(_ httpc.Event, e *request.Execution) {
		logSend(logger, e)
	}))
}

func logSend(logger *zap.Logger, e *request.Execution) {
	var ce *zapcore.CheckedEntry
	switch {
	case e.Err == nil:
		ce = logger.Check(zapcore.DebugLevel, _successMsg)
	case e.Cancelled:
		ce = logger.Check(zapcore.InfoLevel, _errorMsg)
	default:
		ce = logger.Check(zapcore.ErrorLevel, _errorMsg)
	}
	if ce == nil {
		return
	}

	fields := make([]zap.Field, 0, 9)
	fields = append(fields, zap.Stringer("id", e.ID))
	fields = append(fields, zap.String("method", e.Method()))
	fields = append(fields, zap.String("url", e.URL()))
	fields = append(fields, zap.Duration("latency", e.Duration()))
	if e.Response != nil {
		fields = append(fields, zap.Int("status", e.StatusCode()))
	}
	if e.Err != nil {
		fields = append(fields, zap.Bool("cancelled", e.Cancelled))
		fields = append(fields, zap.Stringer("category", e.Category()))
		fields = append(fields, zap.Error(e.Err))
		if e.Cancelled && e.RawErr != nil {
			fields = append(fields, zap.NamedError("cause", e.RawErr))
		}
	}
	ce.Write(fields...)
}
