// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpc

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/gogama/httpc/content"
	"github.com/gogama/httpc/request"
)

// Sender is the interface that wraps the basic Send method.
//
// Send sends a single-use request and returns the response, completing
// as directed by the completion option. Client implements the Sender
// interface, and any other Sender implementation must behave
// substantially the same as Client.Send.
//
// Any Sender can be used to issue GET, HEAD, POST, PUT, and DELETE
// requests via the package functions of the same name.
type Sender interface {
	Send(ctx context.Context, r *request.Request, opt CompletionOption) (*http.Response, error)
}

var _ Sender = (*Client)(nil)

// Get issues a GET to the specified URL and buffers the response body.
//
// The URL may be relative, in which case it is resolved against the
// client's base address. To send a request with custom headers, use
// request.NewRequest and Client.Send.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return Get(ctx, c, url)
}

// GetWithOption issues a GET to the specified URL, completing as
// directed by opt.
func (c *Client) GetWithOption(ctx context.Context, url string, opt CompletionOption) (*http.Response, error) {
	return GetWithOption(ctx, c, url, opt)
}

// Head issues a HEAD to the specified URL.
func (c *Client) Head(ctx context.Context, url string) (*http.Response, error) {
	return Head(ctx, c, url)
}

// Post issues a POST to the specified URL and buffers the response
// body.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewRequest, namely: string; []byte;
// io.Reader; and io.ReadCloser.
func (c *Client) Post(ctx context.Context, url, contentType string, body interface{}) (*http.Response, error) {
	return Post(ctx, c, url, contentType, body)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
func (c *Client) PostForm(ctx context.Context, url string, data url.Values) (*http.Response, error) {
	return PostForm(ctx, c, url, data)
}

// Put issues a PUT to the specified URL and buffers the response body.
// The body parameter is as for Post.
func (c *Client) Put(ctx context.Context, url, contentType string, body interface{}) (*http.Response, error) {
	return Put(ctx, c, url, contentType, body)
}

// Delete issues a DELETE to the specified URL and buffers the response
// body.
func (c *Client) Delete(ctx context.Context, url string) (*http.Response, error) {
	return Delete(ctx, c, url)
}

// GetString issues a GET to the specified URL and returns the response
// body as a string, decoded according to the charset named in the
// response Content-Type. Without a charset, an HTML body is sniffed and
// any other body is taken to be UTF-8.
//
// GetString fails with KindUnsuccessfulStatus if the status code is not
// 2XX. A response with no body gives the empty string.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	return GetString(ctx, c, url)
}

// GetBytes issues a GET to the specified URL and returns the response
// body.
//
// GetBytes fails with KindUnsuccessfulStatus if the status code is not
// 2XX. A response with no body gives an empty, non-nil, slice.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	return GetBytes(ctx, c, url)
}

// GetStream issues a GET to the specified URL and returns the response
// body as soon as the response headers are received. The caller must
// close the returned stream.
//
// GetStream fails with KindUnsuccessfulStatus if the status code is not
// 2XX. A response with no body gives an empty stream.
func (c *Client) GetStream(ctx context.Context, url string) (io.ReadCloser, error) {
	return GetStream(ctx, c, url)
}

// Get uses the specified Sender to issue a GET to the specified URL,
// buffering the response body.
func Get(ctx context.Context, s Sender, url string) (*http.Response, error) {
	return GetWithOption(ctx, s, url, ReadContent)
}

// GetWithOption uses the specified Sender to issue a GET to the
// specified URL, completing as directed by opt.
func GetWithOption(ctx context.Context, s Sender, url string, opt CompletionOption) (*http.Response, error) {
	return send(ctx, s, "GET", url, "", nil, opt)
}

// Head uses the specified Sender to issue a HEAD to the specified URL.
func Head(ctx context.Context, s Sender, url string) (*http.Response, error) {
	return send(ctx, s, "HEAD", url, "", nil, ReadContent)
}

// Post uses the specified Sender to issue a POST to the specified URL,
// buffering the response body.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewRequest, namely: string; []byte;
// io.Reader; and io.ReadCloser.
func Post(ctx context.Context, s Sender, url, contentType string, body interface{}) (*http.Response, error) {
	return send(ctx, s, "POST", url, contentType, body, ReadContent)
}

// PostForm uses the specified Sender to issue a POST to the specified
// URL, with data's keys and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
func PostForm(ctx context.Context, s Sender, url string, data url.Values) (*http.Response, error) {
	return Post(ctx, s, url, "application/x-www-form-urlencoded", data.Encode())
}

// Put uses the specified Sender to issue a PUT to the specified URL,
// buffering the response body. The body parameter is as for Post.
func Put(ctx context.Context, s Sender, url, contentType string, body interface{}) (*http.Response, error) {
	return send(ctx, s, "PUT", url, contentType, body, ReadContent)
}

// Delete uses the specified Sender to issue a DELETE to the specified
// URL, buffering the response body.
func Delete(ctx context.Context, s Sender, url string) (*http.Response, error) {
	return send(ctx, s, "DELETE", url, "", nil, ReadContent)
}

// GetString uses the specified Sender to issue a GET to the specified
// URL and returns the response body as a string. See Client.GetString.
func GetString(ctx context.Context, s Sender, url string) (string, error) {
	resp, err := getSuccess(ctx, s, url, ReadContent)
	if err != nil {
		return "", err
	}
	return content.ReadString(resp.Body, resp.Header.Get("Content-Type"))
}

// GetBytes uses the specified Sender to issue a GET to the specified
// URL and returns the response body. See Client.GetBytes.
func GetBytes(ctx context.Context, s Sender, url string) ([]byte, error) {
	resp, err := getSuccess(ctx, s, url, ReadContent)
	if err != nil {
		return nil, err
	}
	return content.ReadBytes(resp.Body)
}

// GetStream uses the specified Sender to issue a GET to the specified
// URL and returns the response body as a stream. See Client.GetStream.
func GetStream(ctx context.Context, s Sender, url string) (io.ReadCloser, error) {
	resp, err := getSuccess(ctx, s, url, ReadHeaders)
	if err != nil {
		return nil, err
	}
	return content.Stream(resp.Body), nil
}

func send(ctx context.Context, s Sender, method, url, contentType string, body interface{}, opt CompletionOption) (*http.Response, error) {
	r, err := request.NewRequest(method, url, body)
	if err != nil {
		return nil, &Error{Kind: KindInvalidArgument, Op: urlErrorOp(method), URL: url, Err: err}
	}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return s.Send(ctx, r, opt)
}

// getSuccess issues a GET and fails with KindUnsuccessfulStatus, after
// closing the response body, unless the status code is 2XX.
func getSuccess(ctx context.Context, s Sender, url string, opt CompletionOption) (*http.Response, error) {
	resp, err := GetWithOption(ctx, s, url, opt)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, &Error{
			Kind:       KindUnsuccessfulStatus,
			Op:         "Get",
			URL:        responseURL(resp, url),
			StatusCode: resp.StatusCode,
		}
	}
	return resp, nil
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode <= 299
}

func responseURL(resp *http.Response, fallback string) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return fallback
}
