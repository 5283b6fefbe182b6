// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpc

import (
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
//
// The HTTPDoer is the transport of a Client. It performs the network
// exchange and must abandon the exchange promptly when the context of
// the request it is given is cancelled.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
type IdleCloser interface {
	CloseIdleConnections()
}

// NewTransport returns a new HTTP client suitable for use as the
// HTTPDoer of a Client. Its transport has the same settings as
// http.DefaultTransport and is explicitly configured for HTTP/2.
//
// A Client created without WithHTTPDoer owns a transport created by
// NewTransport.
func NewTransport() (*http.Client, error) {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if err := http2.ConfigureTransport(t); err != nil {
		return nil, err
	}
	return &http.Client{Transport: t}, nil
}

// releaseDoer releases the resources held by an owned HTTPDoer. If the
// doer is an io.Closer it is closed, otherwise its idle connections
// are closed if it is an IdleCloser.
func releaseDoer(d HTTPDoer) error {
	if c, ok := d.(io.Closer); ok {
		return c.Close()
	}
	if ic, ok := d.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
	return nil
}
