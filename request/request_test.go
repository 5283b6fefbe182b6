// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r, err := NewRequest("", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "GET", r.Method)
		assert.Nil(t, r.URL)
		assert.NotNil(t, r.Header)
		assert.Nil(t, r.Body)
		assert.Nil(t, r.GetBody)
		assert.Equal(t, int64(0), r.ContentLength)
		assert.False(t, r.Sent())
	})
	t.Run("relative URL", func(t *testing.T) {
		r, err := NewRequest("POST", "items/5?x=y", "hello")
		require.NoError(t, err)
		assert.Equal(t, "POST", r.Method)
		require.NotNil(t, r.URL)
		assert.False(t, r.URL.IsAbs())
		assert.Equal(t, "items/5", r.URL.Path)
		assert.Equal(t, int64(5), r.ContentLength)
		require.NotNil(t, r.GetBody)
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(b))
		replay, err := r.GetBody()
		require.NoError(t, err)
		b, err = io.ReadAll(replay)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(b))
	})
	t.Run("absolute URL with empty port", func(t *testing.T) {
		r, err := NewRequest("PUT", "http://example.test:/a", []byte("xy"))
		require.NoError(t, err)
		assert.True(t, r.URL.IsAbs())
		assert.Equal(t, "example.test", r.URL.Host)
		assert.Equal(t, int64(2), r.ContentLength)
	})
	t.Run("empty body", func(t *testing.T) {
		r, err := NewRequest("POST", "", "")
		require.NoError(t, err)
		assert.Equal(t, http.NoBody, r.Body)
	})
	t.Run("reader body", func(t *testing.T) {
		r, err := NewRequest("POST", "", strings.NewReader("abc"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), r.ContentLength)
		assert.Nil(t, r.GetBody)
		assert.NoError(t, r.Body.Close())
	})
	t.Run("read closer body", func(t *testing.T) {
		rc := io.NopCloser(bytes.NewBufferString("abc"))
		r, err := NewRequest("POST", "", rc)
		require.NoError(t, err)
		assert.Equal(t, rc, r.Body)
		assert.Equal(t, int64(0), r.ContentLength)
	})
	t.Run("invalid method", func(t *testing.T) {
		r, err := NewRequest("BAD METHOD", "", nil)
		assert.Nil(t, r)
		assert.EqualError(t, err, `httpc/request: invalid method "BAD METHOD"`)
	})
	t.Run("invalid URL", func(t *testing.T) {
		r, err := NewRequest("GET", ":", nil)
		assert.Nil(t, r)
		assert.Error(t, err)
	})
	t.Run("invalid body", func(t *testing.T) {
		r, err := NewRequest("GET", "", 1)
		assert.Nil(t, r)
		assert.EqualError(t, err, badBodyTypeMsg)
	})
}

func TestRequest_MarkSent(t *testing.T) {
	r, err := NewRequest("GET", "", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.MarkSent() {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.True(t, r.Sent())
	assert.False(t, r.MarkSent())
}

func TestRequest_CloseBody(t *testing.T) {
	t.Run("nil body", func(t *testing.T) {
		r := &Request{}
		assert.NoError(t, r.CloseBody())
	})
	t.Run("closes once", func(t *testing.T) {
		body := &mockBody{}
		body.On("Close").Return(errors.New("close failed")).Once()
		r := &Request{Body: body}
		assert.EqualError(t, r.CloseBody(), "close failed")
		assert.EqualError(t, r.CloseBody(), "close failed")
		body.AssertExpectations(t)
	})
}

func TestRequest_AddCookie(t *testing.T) {
	r, err := NewRequest("GET", "", nil)
	require.NoError(t, err)
	r.AddCookie(&http.Cookie{Name: "a", Value: "1", Path: "/ignored"})
	r.AddCookie(&http.Cookie{Name: "b", Value: "2"})
	assert.Equal(t, "a=1; b=2", r.Header.Get("Cookie"))
}

func TestRequest_SetBasicAuth(t *testing.T) {
	r, err := NewRequest("GET", "", nil)
	require.NoError(t, err)
	r.SetBasicAuth("Aladdin", "open sesame")
	assert.Equal(t, "Basic QWxhZGRpbjpvcGVuIHNlc2FtZQ==", r.Header.Get("Authorization"))
}

func TestRequest_ToHTTP(t *testing.T) {
	t.Run("no body", func(t *testing.T) {
		r, err := NewRequest("", "http://example.test/x", nil)
		require.NoError(t, err)
		r.Host = "override.test"
		r.Close = true
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "v")
		h := r.ToHTTP(ctx)
		assert.Equal(t, "GET", h.Method)
		assert.Same(t, r.URL, h.URL)
		assert.Equal(t, "override.test", h.Host)
		assert.True(t, h.Close)
		assert.Nil(t, h.Body)
		assert.Equal(t, "v", h.Context().Value(key{}))
	})
	t.Run("body closes through request", func(t *testing.T) {
		body := &mockBody{}
		body.On("Close").Return(nil).Once()
		r := &Request{Method: "POST", Body: body, ContentLength: 7}
		h := r.ToHTTP(context.Background())
		assert.Nil(t, r.Header)
		assert.NotNil(t, h.Header)
		assert.Equal(t, int64(7), h.ContentLength)
		require.NotNil(t, h.Body)
		assert.NoError(t, h.Body.Close())
		assert.NoError(t, r.CloseBody())
		assert.NoError(t, h.Body.Close())
		body.AssertExpectations(t)
	})
}

type mockBody struct {
	mock.Mock
}

func (b *mockBody) Read(p []byte) (int, error) {
	return 0, io.EOF
}

func (b *mockBody) Close() error {
	args := b.Called()
	return args.Error(0)
}
