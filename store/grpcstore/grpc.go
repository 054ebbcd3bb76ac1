package grpcstore

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// NameStoreServer is the server API for the NameStore gRPC service.
//
// We intentionally use protobuf well-known wrapper types so this package does
// not require a protoc/codegen toolchain. Put takes the encoded record
// envelope; the name and sequence are derived and enforced server-side from
// the envelope itself.
//
// Proto definition: namestore.proto.
type NameStoreServer interface {
	Get(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	Put(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	Has(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
}

// UnimplementedNameStoreServer can be embedded to have forward compatible
// implementations.
type UnimplementedNameStoreServer struct{}

func (UnimplementedNameStoreServer) Get(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}
func (UnimplementedNameStoreServer) Put(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Put not implemented")
}
func (UnimplementedNameStoreServer) Has(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Has not implemented")
}

// RegisterNameStoreServer registers the NameStore service on a gRPC server.
func RegisterNameStoreServer(s grpc.ServiceRegistrar, srv NameStoreServer) {
	s.RegisterService(&NameStore_ServiceDesc, srv)
}

// NameStoreClient is the client API for the NameStore gRPC service.
type NameStoreClient interface {
	Get(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Put(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Has(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
}

type nameStoreClient struct{ cc grpc.ClientConnInterface }

func NewNameStoreClient(cc grpc.ClientConnInterface) NameStoreClient { return &nameStoreClient{cc: cc} }

func (c *nameStoreClient) Get(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/xdao.names.store.grpcstore.v1.NameStore/Get", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nameStoreClient) Put(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	err := c.cc.Invoke(ctx, "/xdao.names.store.grpcstore.v1.NameStore/Put", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nameStoreClient) Has(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	err := c.cc.Invoke(ctx, "/xdao.names.store.grpcstore.v1.NameStore/Has", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func _NameStore_Get_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NameStoreServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/xdao.names.store.grpcstore.v1.NameStore/Get"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NameStoreServer).Get(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _NameStore_Put_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NameStoreServer).Put(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/xdao.names.store.grpcstore.v1.NameStore/Put"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NameStoreServer).Put(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _NameStore_Has_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NameStoreServer).Has(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/xdao.names.store.grpcstore.v1.NameStore/Has"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NameStoreServer).Has(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// NameStore_ServiceDesc is the grpc.ServiceDesc for the NameStore service.
var NameStore_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "xdao.names.store.grpcstore.v1.NameStore",
	HandlerType: (*NameStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: _NameStore_Get_Handler},
		{MethodName: "Put", Handler: _NameStore_Put_Handler},
		{MethodName: "Has", Handler: _NameStore_Has_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "namestore.proto",
}
