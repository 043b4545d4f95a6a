// Package apiconnect wires the pizzeria services to Connect handlers and
// clients. All procedures use a JSON codec, so a unary call is a plain HTTP
// POST with a JSON body.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// IdempotencyKeyHeader lets clients retry a submission without creating a
// second order.
const IdempotencyKeyHeader = "Idempotency-Key"

// JSONCodec encodes messages with encoding/json. It registers under the name
// "json", replacing Connect's protobuf-only JSON codec.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// charsetJSONCodec serves "application/json; charset=utf-8", which Connect
// otherwise maps to its protobuf JSON codec.
type charsetJSONCodec struct{ JSONCodec }

// Name implements connect.Codec.
func (charsetJSONCodec) Name() string { return "json; charset=utf-8" }

func handlerOptions(opts []connect.HandlerOption) connect.HandlerOption {
	codecs := []connect.HandlerOption{connect.WithCodec(JSONCodec{}), connect.WithCodec(charsetJSONCodec{})}
	return connect.WithHandlerOptions(append(codecs, opts...)...)
}

func clientOptions(opts []connect.ClientOption) connect.ClientOption {
	return connect.WithClientOptions(append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)...)
}
