package transport

import (
	"encoding/json"
	"sync"
	"time"

	"tgclient/codec"
	"tgclient/envelope"
)

// Responder produces the envelopes a LoopbackChannel emits in reaction to one
// request. The request arrives as a decoded view (including "@type" and
// "@extra"), exactly as the native peer would see it. Returning zero
// envelopes simulates a peer that never answers.
type Responder func(req envelope.Response) []envelope.Response

// LoopbackChannel is an in-memory Channel driven by a scripted responder.
// Every envelope crosses the JSON codec in both directions, so tests exercise
// the same byte-level boundary a native channel would.
type LoopbackChannel struct {
	codec     codec.Codec
	responder Responder

	queue     chan envelope.Response
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoopback creates a loopback channel with the given responder. responder
// may be nil, in which case sends are accepted and nothing ever comes back.
func NewLoopback(responder Responder) *LoopbackChannel {
	return &LoopbackChannel{
		codec:     codec.JSONCodec{},
		responder: responder,
		queue:     make(chan envelope.Response, 64),
		done:      make(chan struct{}),
	}
}

// Send encodes the request, hands the decoded form to the responder, and
// queues whatever the responder produced.
func (c *LoopbackChannel) Send(req *envelope.Request) error {
	data, err := c.codec.Encode(req)
	if err != nil {
		return err
	}
	decoded, err := c.codec.Decode(data)
	if err != nil {
		return err
	}
	if c.responder == nil {
		return nil
	}
	for _, resp := range c.responder(decoded) {
		if err := c.Push(resp); err != nil {
			return err
		}
	}
	return nil
}

// Push queues an envelope as if the peer had emitted it unsolicited. The
// envelope is round-tripped through JSON so its numeric fields arrive in the
// same form real traffic would.
func (c *LoopbackChannel) Push(resp envelope.Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	normalized, err := c.codec.Decode(raw)
	if err != nil {
		return err
	}
	select {
	case c.queue <- normalized:
		return nil
	case <-c.done:
		return nil
	}
}

// Receive waits up to timeout for the next queued envelope.
func (c *LoopbackChannel) Receive(timeout time.Duration) (envelope.Response, bool) {
	if timeout <= 0 {
		select {
		case resp := <-c.queue:
			return resp, true
		default:
			return nil, false
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case resp := <-c.queue:
		return resp, true
	case <-timer.C:
		return nil, false
	case <-c.done:
		return nil, false
	}
}

// Close releases the channel. Safe to call more than once.
func (c *LoopbackChannel) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// Closed reports whether Close has been called.
func (c *LoopbackChannel) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
