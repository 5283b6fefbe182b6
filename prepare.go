// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpc

import (
	"fmt"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/gogama/httpc/request"
	"golang.org/x/net/http/httpguts"
)

// prepare resolves the target URL of r against base and merges the
// default headers into r. The request is modified in place.
//
// A nil request URL targets base itself. An absolute request URL is
// used as is. A relative request URL is resolved against base.
// A default header is added only if r does not already carry a header
// with the same canonical name.
func prepare(r *request.Request, base *url.URL, defaults http.Header) error {
	switch {
	case r.URL == nil && base == nil:
		return &Error{Kind: KindInvalidRequest, Err: ErrNoBaseAddress}
	case r.URL == nil:
		u := *base
		r.URL = &u
	case r.URL.IsAbs():
	case base == nil:
		return &Error{Kind: KindInvalidRequest, URL: r.URL.String(), Err: ErrNoBaseAddress}
	default:
		r.URL = base.ResolveReference(r.URL)
	}

	if len(defaults) == 0 {
		return nil
	}
	if r.Header == nil {
		r.Header = make(http.Header, len(defaults))
	}
	present := make(map[string]bool, len(r.Header))
	for name := range r.Header {
		present[textproto.CanonicalMIMEHeaderKey(name)] = true
	}
	for name, values := range defaults {
		if !httpguts.ValidHeaderFieldName(name) {
			return &Error{
				Kind: KindInvalidRequest,
				Err:  fmt.Errorf("httpc: invalid default header field name %q", name),
			}
		}
		key := textproto.CanonicalMIMEHeaderKey(name)
		if present[key] {
			continue
		}
		r.Header[key] = append([]string(nil), values...)
	}
	return nil
}

// validBaseAddress reports whether u may be used as a base address. A
// nil URL is valid and means no base address.
func validBaseAddress(u *url.URL) bool {
	if u == nil {
		return true
	}
	return u.IsAbs() && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
