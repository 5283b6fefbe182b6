// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"errors"
	"io"
	"net/http"
)

const badBodyTypeMsg = "httpc/request: invalid type (for body use nil, " +
	"string, []byte, io.Reader or io.ReadCloser)"

type lener interface {
	Len() int
}

// toBody converts a generic body parameter to a request body.
//
// The conversion logic is:
//
// • If body is nil, a nil body is returned.
//
// • If body is a string or []byte, a replayable body reading its
// bytes is returned along with its length and a GetBody function. An
// empty string or []byte gives http.NoBody.
//
// • If body is an io.ReadCloser, it is returned as is. Its length is
// returned if it has a Len method (as *bytes.Reader does), and zero
// (unknown) otherwise.
//
// • If body is an io.Reader, it is given a no-op Close method and
// otherwise treated like an io.ReadCloser.
//
// • If body is any other type, an error is returned.
func toBody(body interface{}) (io.ReadCloser, int64, func() (io.ReadCloser, error), error) {
	switch x := body.(type) {
	case nil:
		return nil, 0, nil, nil
	case string:
		return bytesBody([]byte(x))
	case []byte:
		return bytesBody(x)
	case io.ReadCloser:
		var n int64
		if l, ok := x.(lener); ok {
			n = int64(l.Len())
		}
		return x, n, nil, nil
	case io.Reader:
		return toBody(readCloser{x})
	default:
		return nil, 0, nil, errors.New(badBodyTypeMsg)
	}
}

func bytesBody(b []byte) (io.ReadCloser, int64, func() (io.ReadCloser, error), error) {
	if len(b) == 0 {
		return http.NoBody, 0, func() (io.ReadCloser, error) { return http.NoBody, nil }, nil
	}
	getBody := func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}
	rc, _ := getBody()
	return rc, int64(len(b)), getBody, nil
}

// readCloser adds a no-op Close to a reader while still exposing its
// Len method, if any.
type readCloser struct {
	io.Reader
}

func (readCloser) Close() error {
	return nil
}

func (rc readCloser) Len() int {
	if l, ok := rc.Reader.(lener); ok {
		return l.Len()
	}
	return 0
}
