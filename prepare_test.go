// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpc

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gogama/httpc/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseURL(t *testing.T, s string) *url.URL {
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestPrepare_URL(t *testing.T) {
	base := "http://example.test/api/"
	testCases := []struct {
		name     string
		url      string
		base     string
		expected string
		kind     Kind
	}{
		{name: "relative", url: "items/5", base: base, expected: "http://example.test/api/items/5"},
		{name: "relative dot dot", url: "../v2/items", base: base, expected: "http://example.test/v2/items"},
		{name: "relative rooted", url: "/other", base: base, expected: "http://example.test/other"},
		{name: "relative query", url: "items?x=1", base: base, expected: "http://example.test/api/items?x=1"},
		{name: "absolute with base", url: "https://other.test/a/b?c=d", base: base, expected: "https://other.test/a/b?c=d"},
		{name: "absolute without base", url: "https://other.test/a", expected: "https://other.test/a"},
		{name: "nil with base", base: base, expected: base},
		{name: "nil without base", kind: KindInvalidRequest},
		{name: "relative without base", url: "items/5", kind: KindInvalidRequest},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			r, err := request.NewRequest("GET", testCase.url, nil)
			require.NoError(t, err)
			var b *url.URL
			if testCase.base != "" {
				b = mustParseURL(t, testCase.base)
			}

			err = prepare(r, b, nil)

			if testCase.kind != KindUnknown {
				assert.Equal(t, testCase.kind, KindOf(err))
				assert.ErrorIs(t, err, ErrNoBaseAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, r.URL.String())
			if b != nil {
				assert.Equal(t, testCase.base, b.String(), "base must not be modified")
				assert.NotSame(t, b, r.URL)
			}
		})
	}
}

func TestPrepare_Headers(t *testing.T) {
	t.Run("merge without overwrite", func(t *testing.T) {
		r, err := request.NewRequest("GET", "http://example.test", nil)
		require.NoError(t, err)
		r.Header.Set("Accept", "text/plain")
		r.Header["x-lower"] = []string{"request"}
		defaults := http.Header{}
		defaults.Set("Accept", "application/json")
		defaults.Add("User-Agent", "httpc-test")
		defaults.Add("X-Multi", "a")
		defaults.Add("X-Multi", "b")
		defaults.Set("X-Lower", "default")

		require.NoError(t, prepare(r, nil, defaults))

		assert.Equal(t, []string{"text/plain"}, r.Header.Values("Accept"))
		assert.Equal(t, "httpc-test", r.Header.Get("User-Agent"))
		assert.Equal(t, []string{"a", "b"}, r.Header.Values("X-Multi"))
		assert.Equal(t, []string{"request"}, r.Header["x-lower"])
		assert.Empty(t, r.Header.Values("X-Lower"))

		r.Header.Add("X-Multi", "c")
		assert.Equal(t, []string{"a", "b"}, defaults.Values("X-Multi"), "defaults must not share slices with request")
	})
	t.Run("nil request header", func(t *testing.T) {
		r := &request.Request{URL: mustParseURL(t, "http://example.test")}
		defaults := http.Header{"Accept": {"*/*"}}
		require.NoError(t, prepare(r, nil, defaults))
		assert.Equal(t, "*/*", r.Header.Get("Accept"))
	})
	t.Run("invalid default name", func(t *testing.T) {
		r := &request.Request{URL: mustParseURL(t, "http://example.test")}
		defaults := http.Header{"Bad Name": {"x"}}
		err := prepare(r, nil, defaults)
		assert.Equal(t, KindInvalidRequest, KindOf(err))
	})
}

func TestValidBaseAddress(t *testing.T) {
	assert.True(t, validBaseAddress(nil))
	assert.True(t, validBaseAddress(mustParseURL(t, "http://example.test/api/")))
	assert.True(t, validBaseAddress(mustParseURL(t, "https://example.test")))
	assert.False(t, validBaseAddress(mustParseURL(t, "ftp://example.test/")))
	assert.False(t, validBaseAddress(mustParseURL(t, "/api/")))
	assert.False(t, validBaseAddress(mustParseURL(t, "http:opaque")))
}
