// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package content

import (
	"bytes"
	"errors"
	"io"
	"math"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrTooLarge is returned by Buffer when a body holds more bytes than
// the buffer limit allows.
var ErrTooLarge = errors.New("httpc/content: body exceeds buffer size limit")

// A Buffered is a body which has been read fully into memory. Reading
// it never blocks and Close never fails.
type Buffered struct {
	*bytes.Reader
	data []byte
}

// Bytes returns the complete buffered content, regardless of how much
// of it has been read.
func (b *Buffered) Bytes() []byte {
	return b.data
}

// Close implements io.Closer. It does nothing.
func (b *Buffered) Close() error {
	return nil
}

// IsEmpty reports whether body is nil or http.NoBody.
func IsEmpty(body io.ReadCloser) bool {
	return body == nil || body == http.NoBody
}

// Buffer reads body to the end into memory and always closes it.
//
// If body holds more than limit bytes, Buffer stops reading after
// limit+1 bytes and returns ErrTooLarge. A negative limit is treated
// as zero. If body is already a *Buffered, it is returned unchanged
// after the size check.
func Buffer(body io.ReadCloser, limit int64) (*Buffered, error) {
	if limit < 0 {
		limit = 0
	}
	if b, ok := body.(*Buffered); ok {
		if int64(len(b.data)) > limit {
			return nil, ErrTooLarge
		}
		return b, nil
	}
	if IsEmpty(body) {
		return newBuffered(nil), nil
	}

	defer func() {
		_ = body.Close()
	}()

	// Read one byte past the limit so overflow is detectable.
	n := limit
	if limit < math.MaxInt64 {
		n = limit + 1
	}
	data, err := io.ReadAll(&io.LimitedReader{R: body, N: n})
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return newBuffered(data), nil
}

func newBuffered(data []byte) *Buffered {
	return &Buffered{
		Reader: bytes.NewReader(data),
		data:   data,
	}
}

// ReadBytes reads body to the end and closes it. An empty body yields
// an empty, non-nil slice.
func ReadBytes(body io.ReadCloser) ([]byte, error) {
	if IsEmpty(body) {
		return []byte{}, nil
	}
	defer func() {
		_ = body.Close()
	}()
	if b, ok := body.(*Buffered); ok && b.data != nil {
		return b.data, nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// ReadString reads body to the end, closes it, and decodes it to a
// string using the character set named in contentType, the value of a
// Content-Type header.
//
// If contentType names no character set, or an unknown one, an HTML
// body (text/html) is sniffed as an HTML5 user agent would, and any
// other body is taken to be UTF-8 and returned as is. Content which
// cannot be decoded is also returned as is.
func ReadString(body io.ReadCloser, contentType string) (string, error) {
	data, err := ReadBytes(body)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}
	mediaType, params, _ := mime.ParseMediaType(contentType)
	if label := params["charset"]; label != "" {
		if enc, _ := charset.Lookup(label); enc != nil {
			if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
				return string(decoded), nil
			}
			return string(data), nil
		}
	}
	if mediaType != "text/html" {
		return string(data), nil
	}
	r, err := charset.NewReader(bytes.NewReader(data), contentType)
	if err != nil {
		return string(data), nil
	}
	var sb strings.Builder
	if _, err = io.Copy(&sb, r); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Stream returns body as a stream for incremental reading. An empty
// body yields http.NoBody, which is readable but empty.
func Stream(body io.ReadCloser) io.ReadCloser {
	if IsEmpty(body) {
		return http.NoBody
	}
	return body
}
