package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "xdao.abiparam.rpc.v1.Resolver"

// ResolverServer is the server API for the Resolver gRPC service.
//
// Messages are protobuf well-known wrapper types, so no protoc step is needed.
//
// Proto definition: resolver.proto.
type ResolverServer interface {
	ResolveParam(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Signatures(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	Publish(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	Fetch(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedResolverServer can be embedded to have forward compatible implementations.
type UnimplementedResolverServer struct{}

func (UnimplementedResolverServer) ResolveParam(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ResolveParam not implemented")
}
func (UnimplementedResolverServer) Signatures(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Signatures not implemented")
}
func (UnimplementedResolverServer) Publish(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Publish not implemented")
}
func (UnimplementedResolverServer) Fetch(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Fetch not implemented")
}

// RegisterResolverServer registers the Resolver service on a gRPC server.
func RegisterResolverServer(s grpc.ServiceRegistrar, srv ResolverServer) {
	s.RegisterService(&Resolver_ServiceDesc, srv)
}

// ResolverClient is the client API for the Resolver gRPC service.
type ResolverClient interface {
	ResolveParam(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Signatures(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Publish(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Fetch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type resolverClient struct{ cc grpc.ClientConnInterface }

func NewResolverClient(cc grpc.ClientConnInterface) ResolverClient { return &resolverClient{cc: cc} }

func (c *resolverClient) ResolveParam(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/ResolveParam", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *resolverClient) Signatures(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Signatures", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *resolverClient) Publish(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Publish", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *resolverClient) Fetch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Fetch", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Resolver_ResolveParam_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResolverServer).ResolveParam(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/ResolveParam"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ResolverServer).ResolveParam(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Resolver_Signatures_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResolverServer).Signatures(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Signatures"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ResolverServer).Signatures(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Resolver_Publish_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResolverServer).Publish(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Publish"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ResolverServer).Publish(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Resolver_Fetch_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResolverServer).Fetch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Fetch"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ResolverServer).Fetch(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Resolver_ServiceDesc is the grpc.ServiceDesc for the Resolver service.
var Resolver_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ResolverServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ResolveParam", Handler: _Resolver_ResolveParam_Handler},
		{MethodName: "Signatures", Handler: _Resolver_Signatures_Handler},
		{MethodName: "Publish", Handler: _Resolver_Publish_Handler},
		{MethodName: "Fetch", Handler: _Resolver_Fetch_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "resolver.proto",
}
