// Package proto defines the memodo auth wire contract: request and
// response messages, the gRPC service descriptor and a typed client.
//
// Messages are encoded in the protobuf wire format against the
// descriptor built in descriptor.go. The codec is registered under its
// own content subtype; clients select it with CallContentSubtype(CodecName).
// Well-known types (emptypb) are marshaled directly.
package proto

import (
	"fmt"
	"reflect"

	"google.golang.org/grpc/encoding"
	gproto "google.golang.org/protobuf/proto"
)

const CodecName = "memodo"

type wireCodec struct{}

func (wireCodec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(gproto.Message); ok {
		return gproto.Marshal(m)
	}
	m, rv, err := lookup(v)
	if err != nil {
		return nil, err
	}
	return gproto.Marshal(m.toProto(rv))
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(gproto.Message); ok {
		return gproto.Unmarshal(data, m)
	}
	m, rv, err := lookup(v)
	if err != nil {
		return err
	}
	return m.fromProto(data, rv)
}

func (wireCodec) Name() string { return CodecName }

func lookup(v any) (*wireMessage, reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, reflect.Value{}, fmt.Errorf("proto: %T is not a message pointer", v)
	}
	m, ok := messages[rv.Elem().Type()]
	if !ok {
		return nil, reflect.Value{}, fmt.Errorf("proto: %T is not an auth message", v)
	}
	return m, rv.Elem(), nil
}

func init() {
	encoding.RegisterCodec(wireCodec{})
}
