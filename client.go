// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gogama/httpc/cancellation"
	"github.com/gogama/httpc/content"
	"github.com/gogama/httpc/request"
	"github.com/gogama/httpc/timeout"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/net/http/httpguts"
)

const (
	// HardMaxResponseBufferSize is the largest value accepted by
	// Client.SetMaxResponseBufferSize.
	HardMaxResponseBufferSize int64 = 1<<31 - 1
	// DefaultMaxResponseBufferSize is the maximum response buffer size
	// of a new Client.
	DefaultMaxResponseBufferSize = HardMaxResponseBufferSize
)

// A CompletionOption tells Client.Send when a send is complete.
type CompletionOption int

const (
	// ReadContent completes the send once the whole response body has
	// been read into memory. The body of the returned response can be
	// read without blocking on the network.
	ReadContent CompletionOption = iota
	// ReadHeaders completes the send as soon as the response headers
	// have been read. The body of the returned response is a live
	// stream which the caller must close.
	ReadHeaders
)

// String returns the name of the completion option.
func (opt CompletionOption) String() string {
	switch opt {
	case ReadContent:
		return "ReadContent"
	case ReadHeaders:
		return "ReadHeaders"
	default:
		return "CompletionOption(?)"
	}
}

var emptyHandlers = HandlerGroup{}

// A Client sends HTTP requests through an HTTPDoer, adding a base
// address, default headers, a timeout, bounded response buffering, the
// ability to cancel every pending request at once, and event handlers.
//
// Client's HTTPDoer typically has an internal state (cached TCP
// connections) so Client instances should be reused instead of created
// as needed. Client is safe for concurrent use by multiple goroutines.
//
// A Client is higher-level than an HTTPDoer. The HTTPDoer is
// responsible for all details of sending the HTTP request and receiving
// the response, including redirects, proxies, and connection pooling,
// while Client orchestrates each send:
//
// • the configuration (base address, timeout, maximum response buffer
// size, default headers) can be changed until the first send starts,
// after which it is frozen;
//
// • each request is sent at most once;
//
// • each send runs under a context derived from the caller's context,
// the client timeout, and the client's pending-request cancellation
// source, so that cancelling any of the three cancels the send;
//
// • the request body is closed exactly once whatever the outcome;
//
// • a failure which occurs while the send is cancelled is reported as
// a cancellation (KindCancelled) rather than a transport error.
//
// Use NewClient to create a Client. The zero value is not usable.
type Client struct {
	doer     HTTPDoer
	owned    bool
	logger   *zap.Logger
	handlers *HandlerGroup

	mu             sync.RWMutex
	baseAddress    *url.URL
	timeout        time.Duration
	maxBufferSize  int64
	defaultHeaders http.Header
	sentHeaders    http.Header // defaultHeaders as frozen by the first send

	lc        lifecycle
	pending   atomic.Pointer[cancellation.Source]
	closeOnce sync.Once
}

// An Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPDoer sets the HTTPDoer the client sends requests through. If
// owned is true, the client releases the doer when it is closed: by
// calling its Close method if it is an io.Closer, or otherwise its
// CloseIdleConnections method if it is an IdleCloser.
//
// A nil doer is ignored.
func WithHTTPDoer(d HTTPDoer, owned bool) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
			c.owned = owned
		}
	}
}

// WithLogger sets the logger the client logs configuration changes,
// event handler panics, and cleanup failures to. A nil logger is
// ignored. The default logger discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHandlers installs a group of event handlers in the client. The
// group should not be modified after the client is created.
func WithHandlers(g *HandlerGroup) Option {
	return func(c *Client) {
		c.handlers = g
	}
}

// NewClient returns a new Client configured by opts.
//
// Unless WithHTTPDoer is given, the client creates its own transport
// with NewTransport and releases it on Close.
func NewClient(opts ...Option) *Client {
	c := &Client{
		logger:        zap.NewNop(),
		handlers:      &emptyHandlers,
		timeout:       timeout.Default,
		maxBufferSize: DefaultMaxResponseBufferSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.handlers == nil {
		c.handlers = &emptyHandlers
	}
	if c.doer == nil {
		doer, err := NewTransport()
		if err != nil {
			c.logger.Warn("Failed to configure HTTP/2, falling back to HTTP/1.1 transport.", zap.Error(err))
			doer = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
		}
		c.doer = doer
		c.owned = true
	}
	c.pending.Store(cancellation.NewSource())
	return c
}

// BaseAddress returns a copy of the client's base address, or nil if
// it has none.
func (c *Client) BaseAddress() *url.URL {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneURL(c.baseAddress)
}

// SetBaseAddress sets the base address which relative request URLs are
// resolved against. A nil URL clears the base address. A non-nil URL
// must be absolute, with scheme "http" or "https".
//
// SetBaseAddress fails with KindInvalidArgument if u is not a valid
// base address, with KindClosed if the client is closed, and with
// KindInvalidState once the client has started sending requests.
func (c *Client) SetBaseAddress(u *url.URL) error {
	const op = "SetBaseAddress"
	if !validBaseAddress(u) {
		return &Error{Kind: KindInvalidArgument, Op: op, URL: u.String(), Err: errBadBaseAddress}
	}

	c.mu.Lock()
	if err := c.lc.checkMutable(op); err != nil {
		c.mu.Unlock()
		return err
	}
	old := c.baseAddress
	c.baseAddress = cloneURL(u)
	c.mu.Unlock()

	c.logger.Info("Base address changed.",
		zap.String("old", urlString(old)),
		zap.String("new", urlString(u)),
	)
	return nil
}

// Timeout returns the client timeout, which may be timeout.Infinite.
func (c *Client) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

// SetTimeout sets the time limit for each send. The limit applies from
// the moment the request is dispatched until the send completes. For a
// send completed with ReadHeaders, reading the response body is not
// subject to the limit.
//
// The timeout must be timeout.Infinite or lie in (0, timeout.Max]. The
// timeout in effect when a request is dispatched applies to it for its
// whole life.
func (c *Client) SetTimeout(d time.Duration) error {
	const op = "SetTimeout"
	if err := timeout.Validate(d); err != nil {
		return &Error{Kind: KindInvalidArgument, Op: op, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.lc.checkMutable(op); err != nil {
		return err
	}
	c.timeout = d
	return nil
}

// MaxResponseBufferSize returns the largest response body, in bytes,
// that a send with ReadContent will buffer.
func (c *Client) MaxResponseBufferSize() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxBufferSize
}

// SetMaxResponseBufferSize sets the largest response body, in bytes,
// that a send with ReadContent will buffer. The size must lie in
// (0, HardMaxResponseBufferSize].
func (c *Client) SetMaxResponseBufferSize(n int64) error {
	const op = "SetMaxResponseBufferSize"
	if n <= 0 || n > HardMaxResponseBufferSize {
		return &Error{Kind: KindInvalidArgument, Op: op, Err: errBadBufferSize}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.lc.checkMutable(op); err != nil {
		return err
	}
	c.maxBufferSize = n
	return nil
}

// DefaultHeaders returns the headers added to every request sent by
// the client, for header names the request does not already carry.
//
// Until the client starts sending requests, the returned header is the
// client's own and may be modified, though not concurrently with a
// send. The first send freezes a copy of the default headers, which
// every later send uses. After that, DefaultHeaders returns a fresh
// copy of the frozen headers and modifying it has no effect.
func (c *Client) DefaultHeaders() http.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lc.started.Load() {
		h := c.sentHeaders.Clone()
		if h == nil {
			h = make(http.Header)
		}
		return h
	}
	if c.defaultHeaders == nil {
		c.defaultHeaders = make(http.Header)
	}
	return c.defaultHeaders
}

// AddDefaultHeader adds value to the default header name.
//
// AddDefaultHeader fails with KindInvalidArgument if name or value is
// not a valid header field, with KindClosed if the client is closed,
// and with KindInvalidState once the client has started sending
// requests.
func (c *Client) AddDefaultHeader(name, value string) error {
	const op = "AddDefaultHeader"
	if !httpguts.ValidHeaderFieldName(name) {
		return &Error{Kind: KindInvalidArgument, Op: op, Err: fmt.Errorf("httpc: invalid header field name %q", name)}
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return &Error{Kind: KindInvalidArgument, Op: op, Err: fmt.Errorf("httpc: invalid value for header field %q", name)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.lc.checkMutable(op); err != nil {
		return err
	}
	if c.defaultHeaders == nil {
		c.defaultHeaders = make(http.Header)
	}
	c.defaultHeaders.Add(name, value)
	return nil
}

// Do sends a request and buffers the response body. It is equivalent
// to Send(ctx, r, ReadContent).
func (c *Client) Do(ctx context.Context, r *request.Request) (*http.Response, error) {
	return c.Send(ctx, r, ReadContent)
}

type snapshot struct {
	baseAddress    *url.URL
	timeout        time.Duration
	maxBufferSize  int64
	defaultHeaders http.Header
}

// Send sends a request and returns the response.
//
// A request may be sent only once. Send resolves the request URL
// against the client's base address, merges the client's default
// headers into the request, and dispatches it to the HTTPDoer under a
// context which is cancelled when ctx is, when the client timeout
// elapses, or when CancelPending is called. The request body is closed
// when the HTTPDoer returns, whatever the outcome.
//
// If opt is ReadContent, the response body is read fully into memory
// before Send returns, failing with KindContentTooLarge if it exceeds
// the client's maximum response buffer size. If opt is ReadHeaders,
// Send returns as soon as the response headers are read and the body
// is a live stream which the caller must close.
//
// If the send fails while its context is cancelled, the error has
// kind KindCancelled no matter what the underlying failure was. Other
// transport failures are returned unchanged. A non-2XX status code is
// not an error.
//
// Send fails without dispatching the request, and without firing any
// event, with KindClosed if the client is closed, KindInvalidArgument
// if ctx or r is nil, KindInvalidState if r was already sent, and
// KindInvalidRequest if the request URL cannot be resolved.
func (c *Client) Send(ctx context.Context, r *request.Request, opt CompletionOption) (*http.Response, error) {
	const op = "Send"
	if err := c.lc.checkNotClosed(op); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, &Error{Kind: KindInvalidArgument, Op: op, Err: errNilRequest}
	}
	if ctx == nil {
		return nil, &Error{Kind: KindInvalidArgument, Op: op, Err: errNilContext}
	}
	if !r.MarkSent() {
		return nil, &Error{Kind: KindInvalidState, Op: urlErrorOp(r.Method), URL: urlString(r.URL), Err: ErrAlreadySent}
	}

	cfg := c.start()
	if err := prepare(r, cfg.baseAddress, cfg.defaultHeaders); err != nil {
		c.closeRequestBody(r, nil)
		return nil, withTarget(err, urlErrorOp(r.Method), urlString(r.URL))
	}

	d := cancellation.Compose(ctx, c.pending.Load(), cfg.timeout)
	e := request.NewExecution(r)
	e.HTTPRequest = r.ToHTTP(d.Context())
	c.handlers.run(BeforeSend, e, c.logger)

	e.Start = time.Now()
	resp, err := c.doer.Do(e.HTTPRequest)
	c.closeRequestBody(r, e)
	if err != nil {
		c.closeResponse(resp, e)
		resp = nil
	} else if resp == nil {
		err = &Error{Kind: KindNoResponse, Err: ErrNoResponse}
	} else if opt == ReadContent && !content.IsEmpty(resp.Body) {
		var buf *content.Buffered
		buf, err = content.Buffer(resp.Body, cfg.maxBufferSize)
		if err != nil {
			err = bufferError(err)
			resp = nil
		} else {
			resp.Body = buf
		}
	}

	if err != nil {
		e.RawErr = err
		e.Cancelled = d.Cancelled()
		e.Err = withTarget(classify(err, e.Cancelled, ctx, d.Cause()), urlErrorOp(r.Method), urlString(r.URL))
		d.Release()
		e.End = time.Now()
		c.handlers.run(AfterSendError, e, c.logger)
		c.handlers.run(AfterSendEnd, e, c.logger)
		return nil, e.Err
	}

	if opt == ReadHeaders && !content.IsEmpty(resp.Body) {
		d.Stop()
		resp.Body = newStreamBody(resp.Body, d.Release)
	} else {
		d.Release()
	}
	e.Response = resp
	e.End = time.Now()
	c.handlers.run(AfterSend, e, c.logger)
	c.handlers.run(AfterSendEnd, e, c.logger)
	return resp, nil
}

// start latches the started flag and returns the configuration in
// effect for the send. The flag is set, and the default headers
// frozen, under the write lock so that no setter can interleave with
// the first dispatch.
func (c *Client) start() snapshot {
	if !c.lc.started.Load() {
		c.mu.Lock()
		if c.lc.markStarted() {
			c.sentHeaders = c.defaultHeaders.Clone()
		}
		c.mu.Unlock()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return snapshot{
		baseAddress:    c.baseAddress,
		timeout:        c.timeout,
		maxBufferSize:  c.maxBufferSize,
		defaultHeaders: c.sentHeaders,
	}
}

// CancelPending cancels every request currently being sent by the
// client. Requests sent after CancelPending returns are not affected.
//
// CancelPending fails with KindClosed if the client is closed.
func (c *Client) CancelPending() error {
	const op = "CancelPending"
	if err := c.lc.checkNotClosed(op); err != nil {
		return err
	}

	old := c.pending.Swap(cancellation.NewSource())
	old.Cancel(cancellation.ErrPendingCancelled)

	// A concurrent Close may have cancelled the old source before the
	// swap.
	if c.lc.closed.Load() {
		c.pending.Load().Cancel(cancellation.ErrPendingCancelled)
	}
	return nil
}

// Close closes the client. It cancels every pending request and, if
// the client owns its HTTPDoer, releases the doer. After Close, every
// other operation on the client fails with KindClosed.
//
// Close is idempotent and always returns nil. A failure to release the
// doer is logged.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.lc.markClosed()
		c.pending.Load().Cancel(cancellation.ErrPendingCancelled)
		if !c.owned {
			return
		}
		if err := releaseDoer(c.doer); err != nil {
			c.logger.Warn("Failed to release transport.", zap.Error(err))
		}
	})
	return nil
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) closeRequestBody(r *request.Request, e *request.Execution) {
	if err := r.CloseBody(); err != nil {
		fields := []zap.Field{zap.Error(err)}
		if e != nil {
			fields = append(fields, zap.Stringer("id", e.ID))
		}
		c.logger.Debug("Failed to close request body.", fields...)
	}
}

func (c *Client) closeResponse(resp *http.Response, e *request.Execution) {
	if resp == nil || resp.Body == nil {
		return
	}
	if err := resp.Body.Close(); err != nil {
		c.logger.Debug("Failed to close response body.", zap.Stringer("id", e.ID), zap.Error(err))
	}
}

// streamBody is the body of a response sent with ReadHeaders. Closing
// it releases the send's derived context.
type streamBody struct {
	io.ReadCloser
	release func()
}

// newStreamBody wraps body so that closing it calls release. If body
// is writable, as the body of a 101 Switching Protocols response is,
// so is the result.
func newStreamBody(body io.ReadCloser, release func()) io.ReadCloser {
	b := &streamBody{ReadCloser: body, release: release}
	if w, ok := body.(io.Writer); ok {
		return &streamReadWriteBody{streamBody: b, Writer: w}
	}
	return b
}

func (b *streamBody) Close() error {
	err := b.ReadCloser.Close()
	b.release()
	return err
}

type streamReadWriteBody struct {
	*streamBody
	io.Writer
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	u2 := *u
	if u.User != nil {
		u2.User = new(url.Userinfo)
		*u2.User = *u.User
	}
	return &u2
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
