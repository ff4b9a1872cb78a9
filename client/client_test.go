package client

import (
	"sync"
	"testing"
	"time"

	"tgclient/config"
	"tgclient/envelope"
	"tgclient/protocol"
	"tgclient/tgerr"
	"tgclient/transport"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.APIID = 12345
	cfg.APIHash = "a1b2c3"
	cfg.Phone = "+15550100"
	cfg.DatabaseEncryptionKey = "0123456789ab"
	cfg.RequestTimeout = 2 * time.Second
	cfg.PollInterval = 5 * time.Millisecond
	cfg.RequestDelay = time.Millisecond
	return cfg
}

// ok builds the generic success envelope echoing the request's "@extra".
func ok(req envelope.Response) envelope.Response {
	return envelope.Response{
		protocol.FieldType:  "ok",
		protocol.FieldExtra: req[protocol.FieldExtra],
	}
}

// reply echoes the request's "@extra" onto the given body.
func reply(req envelope.Response, body envelope.Response) envelope.Response {
	out := envelope.Response{protocol.FieldExtra: req[protocol.FieldExtra]}
	for k, v := range body {
		out[k] = v
	}
	return out
}

func remoteError(req envelope.Response, code int, message string) envelope.Response {
	return reply(req, envelope.Response{
		protocol.FieldType: protocol.TypeError,
		"code":             code,
		"message":          message,
	})
}

// callLog records every method the scripted peer saw.
type callLog struct {
	mu      sync.Mutex
	methods []string
}

func (l *callLog) add(method string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.methods = append(l.methods, method)
}

func (l *callLog) count(method protocol.Method) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.methods {
		if m == string(method) {
			n++
		}
	}
	return n
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.methods...)
}

// newTestClient builds a client over a loopback channel. The bootstrap
// methods are always answered with success; everything else goes to handle
// (nil handle answers "ok").
func newTestClient(t *testing.T, handle func(req envelope.Response) []envelope.Response, opts ...Option) (*Client, *callLog, *transport.LoopbackChannel) {
	t.Helper()
	return newTestClientWithConfig(t, testConfig(), handle, opts...)
}

func newTestClientWithConfig(t *testing.T, cfg config.Config, handle func(req envelope.Response) []envelope.Response, opts ...Option) (*Client, *callLog, *transport.LoopbackChannel) {
	t.Helper()
	log := &callLog{}
	ch := transport.NewLoopback(func(req envelope.Response) []envelope.Response {
		log.add(req.Type())
		switch req.Type() {
		case string(protocol.MethodSetTdlibParameters),
			string(protocol.MethodCheckDatabaseEncryptionKey),
			string(protocol.MethodAddProxy):
			return []envelope.Response{ok(req)}
		}
		if handle != nil {
			return handle(req)
		}
		return []envelope.Response{ok(req)}
	})
	c, err := New(cfg, ch, opts...)
	if err != nil {
		t.Fatalf("client construction failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, log, ch
}

func TestCallReturnsMatchingResponse(t *testing.T) {
	var seenID string
	c, _, _ := newTestClient(t, func(req envelope.Response) []envelope.Response {
		seenID = req.RequestID()
		return []envelope.Response{reply(req, envelope.Response{
			protocol.FieldType: "user",
			"id":               99,
		})}
	})

	resp, err := c.Call(protocol.MethodGetMe, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Type() != "user" {
		t.Errorf("type: got %q", resp.Type())
	}
	if seenID == "" || resp.RequestID() != seenID {
		t.Errorf("identity violated: sent %q, got back %q", seenID, resp.RequestID())
	}
}

func TestCallIdentifiersAreFresh(t *testing.T) {
	var ids []string
	c, _, _ := newTestClient(t, func(req envelope.Response) []envelope.Response {
		ids = append(ids, req.RequestID())
		return []envelope.Response{ok(req)}
	})

	for i := 0; i < 3; i++ {
		if _, err := c.Call(protocol.MethodGetMe, nil); err != nil {
			t.Fatal(err)
		}
	}
	seen := make(map[string]struct{})
	for _, id := range ids {
		if id == "" {
			t.Fatal("empty correlation identifier")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("identifier reused: %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestCallDiscardsUnmatchedEnvelopes(t *testing.T) {
	c, _, _ := newTestClient(t, func(req envelope.Response) []envelope.Response {
		if req.Type() != string(protocol.MethodGetMe) {
			return []envelope.Response{ok(req)}
		}
		return []envelope.Response{
			// An update with no correlation identifier at all.
			{protocol.FieldType: "updateOption", "name": "version"},
			// A response destined for some other caller.
			{protocol.FieldType: "user", protocol.FieldExtra: map[string]any{
				protocol.FieldRequestID: "someone-else",
			}, "id": 1},
			{protocol.FieldType: "updateConnectionState"},
			reply(req, envelope.Response{protocol.FieldType: "user", "id": 2}),
		}
	})

	resp, err := c.Call(protocol.MethodGetMe, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := resp.Int64("id"); n != 2 {
		t.Errorf("returned the wrong envelope: %v", resp)
	}
}

func TestCallTimesOut(t *testing.T) {
	c, _, _ := newTestClient(t, func(req envelope.Response) []envelope.Response {
		if req.Type() == string(protocol.MethodGetMe) {
			return nil // peer never answers
		}
		return []envelope.Response{ok(req)}
	})

	start := time.Now()
	_, err := c.CallWithTimeout(protocol.MethodGetMe, nil, 60*time.Millisecond)
	if err == nil {
		t.Fatal("expected a timeout")
	}
	if !tgerr.IsTimeout(err) {
		t.Fatalf("wrong kind: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("timed out too early: %s", elapsed)
	}
}

func TestCallTimesOutUnderUpdateStream(t *testing.T) {
	c, _, lb := newTestClient(t, func(req envelope.Response) []envelope.Response {
		if req.Type() == string(protocol.MethodGetMe) {
			return nil // peer never answers this one
		}
		return []envelope.Response{ok(req)}
	})

	// Flood the channel with unmatched updates so no poll window ever comes
	// up empty; the deadline must still be honored.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		noise := envelope.Response{protocol.FieldType: "updateChatOrder"}
		for {
			select {
			case <-stop:
				return
			default:
			}
			lb.Push(noise)
			time.Sleep(time.Millisecond)
		}
	}()

	start := time.Now()
	_, err := c.CallWithTimeout(protocol.MethodGetMe, nil, 60*time.Millisecond)
	if err == nil {
		t.Fatal("expected a timeout")
	}
	if !tgerr.IsTimeout(err) {
		t.Fatalf("wrong kind: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond || elapsed > 2*time.Second {
		t.Errorf("deadline not honored under noise: %s", elapsed)
	}
}

func TestCallZeroTimeoutFallsBackToDefault(t *testing.T) {
	cfg := testConfig()
	cfg.RequestTimeout = 60 * time.Millisecond
	c, _, _ := newTestClientWithConfig(t, cfg, func(req envelope.Response) []envelope.Response {
		if req.Type() == string(protocol.MethodGetMe) {
			return nil // peer never answers
		}
		return []envelope.Response{ok(req)}
	})

	_, err := c.CallWithTimeout(protocol.MethodGetMe, nil, 0)
	if err == nil {
		t.Fatal("an explicit zero must use the configured default, not wait forever")
	}
	if !tgerr.IsTimeout(err) {
		t.Fatalf("wrong kind: %v", err)
	}
}

func TestCallZeroDefaultWaitsIndefinitely(t *testing.T) {
	var (
		pending envelope.Response
		ch      *transport.LoopbackChannel
	)
	cfg := testConfig()
	cfg.RequestTimeout = 0
	c, _, lb := newTestClientWithConfig(t, cfg, func(req envelope.Response) []envelope.Response {
		if req.Type() != string(protocol.MethodGetMe) {
			return []envelope.Response{ok(req)}
		}
		pending = reply(req, envelope.Response{protocol.FieldType: "user", "id": 5})
		time.AfterFunc(100*time.Millisecond, func() { ch.Push(pending) })
		return nil
	})
	ch = lb

	resp, err := c.CallWithTimeout(protocol.MethodGetMe, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := resp.Int64("id"); n != 5 {
		t.Errorf("got %v", resp)
	}
}

func TestCallSurfacesClassifiedErrors(t *testing.T) {
	c, _, _ := newTestClient(t, func(req envelope.Response) []envelope.Response {
		return []envelope.Response{remoteError(req, 429, "Too Many Requests: retry after 30")}
	})

	_, err := c.Call(protocol.MethodGetChats, envelope.Params{"limit": 10})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !tgerr.IsKind(err, tgerr.KindTooManyRequests) {
		t.Fatalf("wrong kind: %v", err)
	}
}

func TestNewValidatesBeforeAnyRequest(t *testing.T) {
	sent := 0
	ch := transport.NewLoopback(func(req envelope.Response) []envelope.Response {
		sent++
		return []envelope.Response{ok(req)}
	})
	defer ch.Close()

	cfg := testConfig()
	cfg.DatabaseEncryptionKey = "tooshort"
	if _, err := New(cfg, ch); err == nil || !tgerr.IsKind(err, tgerr.KindValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if sent != 0 {
		t.Errorf("validation failure still sent %d requests", sent)
	}
}

func TestCloseIdempotent(t *testing.T) {
	c, _, lb := newTestClient(t, nil)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if !lb.Closed() {
		t.Error("channel not released")
	}
}
