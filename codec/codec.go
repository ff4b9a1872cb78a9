// Package codec translates envelopes to and from raw bytes at the channel
// boundary. The native side of the channel deals in JSON strings, so JSON is
// the only wire format; the interface exists so tests and alternative channel
// implementations can inject their own.
package codec

import (
	"tgclient/envelope"
)

type Codec interface {
	Encode(req *envelope.Request) ([]byte, error)
	Decode(data []byte) (envelope.Response, error)
}
