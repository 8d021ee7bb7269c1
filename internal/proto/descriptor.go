package proto

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	gproto "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	FileName    = "memodo/auth.proto"
	PackageName = "memodo.auth"
)

// Field numbers follow declaration order; append new fields, never reorder.
var wireTypes = []any{
	GetSaltRequest{},
	GetSaltResponse{},
	SignUpRequest{},
	SignUpResponse{},
	SignInRequest{},
	SignInResponse{},
	RefreshRequest{},
	RefreshResponse{},
	SignOutRequest{},
	WhoAmIResponse{},
	PingResponse{},
}

var (
	bytesType = reflect.TypeOf([]byte(nil))
	timeType  = reflect.TypeOf(time.Time{})
)

type wireMessage struct {
	desc   protoreflect.MessageDescriptor
	fields []protoreflect.FieldDescriptor
}

// File is the descriptor of the auth wire contract.
var messages, File = mustBuild(wireTypes)

func mustBuild(types []any) (map[reflect.Type]*wireMessage, protoreflect.FileDescriptor) {
	m, fd, err := build(types)
	if err != nil {
		panic(err)
	}
	return m, fd
}

func build(types []any) (map[reflect.Type]*wireMessage, protoreflect.FileDescriptor, error) {
	fdp := &descriptorpb.FileDescriptorProto{
		Name:       gproto.String(FileName),
		Package:    gproto.String(PackageName),
		Syntax:     gproto.String("proto3"),
		Dependency: []string{timestamppb.File_google_protobuf_timestamp_proto.Path()},
	}
	for _, v := range types {
		dp, err := describe(reflect.TypeOf(v))
		if err != nil {
			return nil, nil, err
		}
		fdp.MessageType = append(fdp.MessageType, dp)
	}

	fd, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
	if err != nil {
		return nil, nil, fmt.Errorf("proto: build %s: %w", FileName, err)
	}

	out := make(map[reflect.Type]*wireMessage, len(types))
	for _, v := range types {
		rt := reflect.TypeOf(v)
		md := fd.Messages().ByName(protoreflect.Name(rt.Name()))
		wm := &wireMessage{desc: md}
		for i := 0; i < rt.NumField(); i++ {
			wm.fields = append(wm.fields, md.Fields().ByNumber(protoreflect.FieldNumber(i+1)))
		}
		out[rt] = wm
	}
	return out, fd, nil
}

func describe(rt reflect.Type) (*descriptorpb.DescriptorProto, error) {
	dp := &descriptorpb.DescriptorProto{Name: gproto.String(rt.Name())}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		f := &descriptorpb.FieldDescriptorProto{
			Name:   gproto.String(fieldName(sf)),
			Number: gproto.Int32(int32(i + 1)),
			Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		}
		switch sf.Type {
		case reflect.TypeOf(""):
			f.Type = descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()
		case bytesType:
			f.Type = descriptorpb.FieldDescriptorProto_TYPE_BYTES.Enum()
		case timeType:
			f.Type = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum()
			f.TypeName = gproto.String("." + string((&timestamppb.Timestamp{}).ProtoReflect().Descriptor().FullName()))
		default:
			return nil, fmt.Errorf("proto: %s.%s: unsupported field type %s", rt.Name(), sf.Name, sf.Type)
		}
		dp.Field = append(dp.Field, f)
	}
	return dp, nil
}

func fieldName(sf reflect.StructField) string {
	if tag, _, _ := strings.Cut(sf.Tag.Get("json"), ","); tag != "" {
		return tag
	}
	return strings.ToLower(sf.Name)
}

func (m *wireMessage) toProto(rv reflect.Value) *dynamicpb.Message {
	dm := dynamicpb.NewMessage(m.desc)
	for i, fd := range m.fields {
		fv := rv.Field(i)
		if fv.IsZero() {
			continue
		}
		switch x := fv.Interface().(type) {
		case string:
			dm.Set(fd, protoreflect.ValueOfString(x))
		case []byte:
			dm.Set(fd, protoreflect.ValueOfBytes(x))
		case time.Time:
			dm.Set(fd, protoreflect.ValueOfMessage(timestamppb.New(x).ProtoReflect()))
		}
	}
	return dm
}

func (m *wireMessage) fromProto(data []byte, rv reflect.Value) error {
	dm := dynamicpb.NewMessage(m.desc)
	if err := gproto.Unmarshal(data, dm); err != nil {
		return fmt.Errorf("proto: decode %s: %w", m.desc.Name(), err)
	}
	rv.SetZero()
	for i, fd := range m.fields {
		if !dm.Has(fd) {
			continue
		}
		v := dm.Get(fd)
		fv := rv.Field(i)
		switch fd.Kind() {
		case protoreflect.StringKind:
			fv.SetString(v.String())
		case protoreflect.BytesKind:
			fv.SetBytes(append([]byte(nil), v.Bytes()...))
		case protoreflect.MessageKind:
			ts := v.Message()
			fields := ts.Descriptor().Fields()
			sec := ts.Get(fields.ByName("seconds")).Int()
			nanos := ts.Get(fields.ByName("nanos")).Int()
			fv.Set(reflect.ValueOf(time.Unix(sec, nanos).UTC()))
		}
	}
	return nil
}
