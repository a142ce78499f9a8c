// Package api defines the sharefare RPC surface: message types, procedure
// names, and Connect handler/client constructors.
//
// Messages are plain Go structs exchanged as JSON. Money travels as decimal
// strings fixed to two places and dates as YYYY-MM-DD.
package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// Codec is the JSON codec every handler and client in this package uses.
// It replaces Connect's protobuf JSON codec under the same "json" name.
var Codec connect.Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec)}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec)}, opts...)
}
