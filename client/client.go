// Package client implements the synchronous request/response façade over the
// asynchronous channel.
//
// The channel offers no correlation of its own: commands go in, and results
// and updates come back interleaved on one shared stream. Call tags every
// request with a fresh identifier, then polls the stream until the envelope
// echoing that identifier arrives or the deadline passes. Envelopes carrying
// any other identifier belong to no pending call at this layer and are
// discarded — the client is memory-less across calls.
//
// One call is in flight at a time. Callers must serialize access to a client;
// concurrent calls on the same channel would steal nothing from each other
// (discard-on-mismatch), but each would then time out waiting for an envelope
// the other consumed the polling window for. A multiplexing registry
// (identifier → waiting caller) would lift this, at the cost of cross-call
// state this layer deliberately does not keep.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tgclient/config"
	"tgclient/envelope"
	"tgclient/middleware"
	"tgclient/protocol"
	"tgclient/tgerr"
	"tgclient/transport"
)

// Client is the synchronous façade. Construct with New; release with Close.
type Client struct {
	cfg     config.Config
	channel transport.Channel
	logger  *zap.Logger

	middlewares []middleware.Middleware
	handler     middleware.Handler

	closeOnce sync.Once
	closeErr  error
}

// Option customizes a Client before bootstrap runs.
type Option func(*Client)

// WithLogger sets the structured logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMiddleware appends call interceptors. The first middleware added is the
// outermost.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *Client) { c.middlewares = append(c.middlewares, mws...) }
}

// New validates the configuration, takes ownership of the channel, and runs
// the bootstrap sequence. On any failure after taking ownership the channel
// is released before returning; otherwise releasing it is the caller's job
// via Close.
func New(cfg config.Config, ch transport.Channel, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:     cfg,
		channel: ch,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.handler = middleware.Chain(c.middlewares...)(c.dispatch)

	if err := c.bootstrap(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the channel. Safe to call more than once; only the first
// call touches the native handle.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { c.closeErr = c.channel.Close() })
	return c.closeErr
}

// Call issues one correlated request with the configured default timeout.
func (c *Client) Call(method protocol.Method, params envelope.Params) (envelope.Response, error) {
	return c.CallWithTimeout(method, params, c.cfg.RequestTimeout)
}

// CallWithTimeout issues one correlated request. A non-positive timeout falls
// back to the configured default; only a zero default waits indefinitely. The
// returned envelope always echoes the identifier attached to the request;
// classified remote errors are returned as errors instead.
func (c *Client) CallWithTimeout(method protocol.Method, params envelope.Params, timeout time.Duration) (envelope.Response, error) {
	req := envelope.NewRequest(method, uuid.NewString(), params)
	if timeout <= 0 {
		timeout = c.cfg.RequestTimeout
	}
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.handler(ctx, req)
}

// dispatch is the innermost handler: send, then poll for the matching
// response.
func (c *Client) dispatch(ctx context.Context, req *envelope.Request) (envelope.Response, error) {
	if err := c.channel.Send(req); err != nil {
		return nil, tgerr.New(tgerr.KindUnknown, fmt.Sprintf("send %s: %v", req.Method, err))
	}
	return c.awaitResponse(ctx, req)
}

// awaitResponse polls the channel at the configured interval until the
// envelope echoing req's identifier arrives or ctx expires. The bounded-wait
// receive is the single suspension point of the whole client.
func (c *Client) awaitResponse(ctx context.Context, req *envelope.Request) (envelope.Response, error) {
	for {
		// The deadline is checked on every iteration, discarded envelopes
		// included; a stream flooding updates must not starve it.
		select {
		case <-ctx.Done():
			return nil, tgerr.Timeout(req.Method,
				fmt.Sprintf("no response to %s within deadline", req.Method))
		default:
		}

		resp, ok := c.channel.Receive(c.cfg.PollInterval)
		if !ok {
			continue
		}
		if resp.RequestID() == req.RequestID {
			if err := tgerr.Classify(resp); err != nil {
				return nil, err
			}
			return resp, nil
		}
		// Belongs to no pending call at this layer; drop and keep polling.
		c.logger.Debug("discarding unmatched envelope",
			zap.String("type", resp.Type()),
			zap.String("request_id", resp.RequestID()))
	}
}
