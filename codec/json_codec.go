package codec

import (
	"bytes"
	"encoding/json"

	"tgclient/envelope"
)

// JSONCodec encodes request envelopes to JSON and decodes incoming objects
// into map-backed responses.
type JSONCodec struct{}

func (JSONCodec) Encode(req *envelope.Request) ([]byte, error) {
	return json.Marshal(req)
}

// Decode parses one JSON object. Numbers are kept as json.Number so 64-bit
// identifiers survive without float64 truncation.
func (JSONCodec) Decode(data []byte) (envelope.Response, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var resp envelope.Response
	if err := dec.Decode(&resp); err != nil {
		return nil, err
	}
	return resp, nil
}
