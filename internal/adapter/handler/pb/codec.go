// Package pb holds the gRPC contracts shared by the order and inventory
// services. Messages are plain structs sent with a JSON codec, so no
// generated protobuf code is needed.
package pb

import (
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype used by every call in this package.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// CallOption selects the JSON codec on the client side.
func CallOption() grpc.CallOption {
	return grpc.CallContentSubtype(CodecName)
}
