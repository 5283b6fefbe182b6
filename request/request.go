// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/net/http/httpguts"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

// A Request is a single-use outbound HTTP request.
//
// The field structure of Request mirrors the structure of the
// lower-level http.Request, with the following differences. Server-only
// fields are removed. URL may be nil or relative; the client resolves
// it against its base address immediately before sending. There is no
// context: the context is supplied when the request is sent.
//
// A Request must not be copied after first use.
type Request struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// URL specifies the URL to access. It may be absolute, relative,
	// or nil. A relative or nil URL requires the sending client to
	// have a base address.
	//
	// The client replaces a relative or nil URL with the resolved
	// absolute URL when the request is sent.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent. The
	// client adds its default headers to Header for every name Header
	// does not already contain.
	Header http.Header

	// Body is the request body. A nil body means the request has no
	// body. The client closes Body exactly once when the send ends.
	Body io.ReadCloser

	// ContentLength records the length of Body, if known. A value of
	// zero with a non-nil Body means the length is unknown.
	ContentLength int64

	// GetBody optionally returns a fresh copy of Body, allowing the
	// transport to replay the body when following a redirect. It is
	// set by NewRequest for string and []byte bodies.
	GetBody func() (io.ReadCloser, error)

	// Close stipulates whether to close the connection after sending
	// this request and reading the response.
	Close bool

	// Host optionally overrides the Host header to send. If empty,
	// the host of the resolved URL is sent.
	Host string

	sent      atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewRequest returns a new Request given a method, URL, and optional
// body.
//
// Parameter url may be absolute, relative, or the empty string (no
// URL, meaning the client's base address is used as is).
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. String and []byte bodies are
// replayable and get a GetBody function. An io.Reader which is not an
// io.ReadCloser is given a no-op Close method.
func NewRequest(method, url string, body interface{}) (*Request, error) {
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("httpc/request: invalid method %q", method)
	}
	var u *urlpkg.URL
	if url != "" {
		var err error
		u, err = urlpkg.Parse(url)
		if err != nil {
			return nil, err
		}
		u.Host = removeEmptyPort(u.Host)
	}
	rc, n, getBody, err := toBody(body)
	if err != nil {
		return nil, err
	}
	return &Request{
		Method:        method,
		URL:           u,
		Header:        make(http.Header),
		Body:          rc,
		ContentLength: n,
		GetBody:       getBody,
	}, nil
}

// MarkSent atomically marks the request as sent. It returns true if
// this call marked the request, and false if the request had already
// been marked by an earlier call.
func (r *Request) MarkSent() bool {
	return r.sent.CompareAndSwap(false, true)
}

// Sent reports whether the request has been marked as sent.
func (r *Request) Sent() bool {
	return r.sent.Load()
}

// CloseBody closes the request Body. Only the first call closes the
// body; every call returns the result of that first close. CloseBody
// does nothing and returns nil if Body is nil.
func (r *Request) CloseBody() error {
	r.closeOnce.Do(func() {
		if r.Body != nil {
			r.closeErr = r.Body.Close()
		}
	})
	return r.closeErr
}

// AddCookie adds a cookie to the request. Per RFC 6265 section 5.4,
// AddCookie does not attach more than one Cookie header field. That
// means all cookies, if any, are written into the same line,
// separated by semicolons.
//
// AddCookie only sanitizes c's name and value, and does not sanitize
// a Cookie header already present in the request.
func (r *Request) AddCookie(c *http.Cookie) {
	c2 := &http.Cookie{Name: c.Name, Value: c.Value}
	s := c2.String()
	if h := r.Header.Get("Cookie"); h != "" {
		r.Header.Set("Cookie", h+"; "+s)
	} else {
		r.Header.Set("Cookie", s)
	}
}

// SetBasicAuth sets the request's Authorization header to use HTTP
// Basic Authentication with the provided username and password.
//
// With HTTP Basic Authentication the provided username and password
// are not encrypted.
func (r *Request) SetBasicAuth(username, password string) {
	r.Header.Set("Authorization", "Basic "+basicAuth(username, password))
}

// ToHTTP creates the lower-level http.Request corresponding to r, with
// its context set to ctx. The request URL should already be absolute.
//
// The http.Request body, if any, closes through CloseBody, so the body
// is closed once even though both the transport and the client close
// it.
func (r *Request) ToHTTP(ctx context.Context) *http.Request {
	h := template.WithContext(ctx)
	h.Method = r.Method
	if h.Method == "" {
		h.Method = "GET"
	}
	h.URL = r.URL
	h.Header = r.Header
	if h.Header == nil {
		h.Header = make(http.Header)
	}
	if r.Body != nil && r.Body != http.NoBody {
		h.Body = &onceBody{Reader: r.Body, r: r}
		h.GetBody = r.GetBody
		h.ContentLength = r.ContentLength
	}
	h.Close = r.Close
	h.Host = r.Host
	return h
}

type onceBody struct {
	io.Reader
	r *Request
}

func (b *onceBody) Close() error {
	return b.r.CloseBody()
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// validMethod reports whether method is a valid RFC 7230 token. The
// empty string is never passed here as it is interpreted as "GET".
func validMethod(method string) bool {
	return strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
