// Package transport defines the boundary to the native messaging library.
//
// The native side is an opaque bidirectional channel: envelopes go in via
// Send, and a shared stream of result/update envelopes comes back out via a
// bounded-wait Receive. The channel offers no correlation of its own — that
// is the client's job — and no delivery guarantees beyond parse-level
// soundness.
package transport

import (
	"time"

	"tgclient/envelope"
)

// Channel is the opaque send/receive boundary. A channel is a process-wide
// resource: acquired once at client construction and released exactly once
// via Close, on every exit path.
type Channel interface {
	// Send submits one request envelope.
	Send(req *envelope.Request) error

	// Receive waits up to timeout for the next incoming envelope. The second
	// return value is false when nothing arrived within the window. A
	// non-positive timeout polls without waiting.
	Receive(timeout time.Duration) (envelope.Response, bool)

	// Close releases the underlying native handle. Implementations must
	// tolerate repeated calls.
	Close() error
}
