// Package envelope models the JSON objects exchanged with the channel.
//
// A Request is the envelope for one outgoing call: a method tag, the
// correlation identifier under "@extra", and method parameters flattened at
// the top level. A Response is a read-only view over the decoded mapping the
// peer sent back; it stays map-backed because the method surface is open-ended
// and only a handful of fields ever need typed access.
package envelope

import (
	"encoding/json"
	"strconv"

	"tgclient/protocol"
)

// Params holds the method-specific parameters of a request.
type Params map[string]any

// Request is the envelope for a single outgoing call. The correlation
// identifier is generated fresh per call and never reused.
type Request struct {
	Method    protocol.Method
	RequestID string
	Params    Params
}

// NewRequest builds a request envelope for the given method. params may be
// nil for parameterless methods.
func NewRequest(method protocol.Method, requestID string, params Params) *Request {
	return &Request{Method: method, RequestID: requestID, Params: params}
}

// MarshalJSON flattens the params to the top level and writes the "@type" and
// "@extra" tags last, so a params key can never clobber the envelope fields.
func (r *Request) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(r.Params)+2)
	for k, v := range r.Params {
		obj[k] = v
	}
	obj[protocol.FieldType] = string(r.Method)
	obj[protocol.FieldExtra] = map[string]any{protocol.FieldRequestID: r.RequestID}
	return json.Marshal(obj)
}

// Response is a decoded envelope received from the channel.
type Response map[string]any

// Type returns the "@type" tag, or "" if absent.
func (r Response) Type() string {
	s, _ := r[protocol.FieldType].(string)
	return s
}

// RequestID returns the correlation identifier echoed under "@extra",
// or "" when the envelope belongs to no pending request.
func (r Response) RequestID() string {
	extra, ok := r[protocol.FieldExtra].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := extra[protocol.FieldRequestID].(string)
	return id
}

// IsError reports whether the envelope carries the error type tag.
func (r Response) IsError() bool {
	return r.Type() == protocol.TypeError
}

// String returns the named field as a string, or "" if absent or not a string.
func (r Response) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Int64 returns the named field as an int64. The peer serializes 64-bit
// values either as JSON numbers or as decimal strings (values above 2^53
// always come as strings), so both forms are accepted.
func (r Response) Int64(key string) (int64, bool) {
	return toInt64(r[key])
}

// Int64Slice returns the named field as a slice of int64, skipping elements
// that do not parse. Used for id lists such as getChats' "chat_ids".
func (r Response) Int64Slice(key string) []int64 {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(raw))
	for _, v := range raw {
		if n, ok := toInt64(v); ok {
			out = append(out, n)
		}
	}
	return out
}

// Object returns a nested mapping as a Response view, or nil if absent.
func (r Response) Object(key string) Response {
	obj, ok := r[key].(map[string]any)
	if !ok {
		return nil
	}
	return Response(obj)
}

// Objects returns a list of nested mappings, such as a member page.
func (r Response) Objects(key string) []Response {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Response, 0, len(raw))
	for _, v := range raw {
		if obj, ok := v.(map[string]any); ok {
			out = append(out, Response(obj))
		}
	}
	return out
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
