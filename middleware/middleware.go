// Package middleware wraps the client's correlated call path in an onion of
// interceptors. The innermost handler performs the actual send-and-wait; each
// middleware sees the request envelope on the way in and the response (or
// classified error) on the way out.
package middleware

import (
	"context"

	"tgclient/envelope"
)

// Handler executes one correlated call: send the request, wait for the
// matching response. ctx carries the call deadline, if any.
type Handler func(ctx context.Context, req *envelope.Request) (envelope.Response, error)

// Middleware wraps a Handler with additional behavior.
type Middleware func(next Handler) Handler

// Chain composes middlewares into one. Chain(A, B, C)(h) runs as A(B(C(h))):
// the first middleware added is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
