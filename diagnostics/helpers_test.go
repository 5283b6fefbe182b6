// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gogama/httpc"
	"github.com/stretchr/testify/require"
)

var errTransport = errors.New("connection went away")

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

func respondWith(statusCode int, body string) doerFunc {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: statusCode,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

func failWith(err error) doerFunc {
	return func(*http.Request) (*http.Response, error) {
		return nil, err
	}
}

// blockUntilDone returns a doer which waits for the request context to
// be cancelled and then fails with the context error.
func blockUntilDone() doerFunc {
	return func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	}
}

func newTestClient(t *testing.T, d httpc.HTTPDoer, g *httpc.HandlerGroup) *httpc.Client {
	cl := httpc.NewClient(httpc.WithHTTPDoer(d, false), httpc.WithHandlers(g))
	t.Cleanup(func() {
		require.NoError(t, cl.Close())
	})
	return cl
}
