package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "memodo.auth.AuthService"

const (
	AuthService_GetSalt_FullMethodName = "/" + ServiceName + "/GetSalt"
	AuthService_SignUp_FullMethodName  = "/" + ServiceName + "/SignUp"
	AuthService_SignIn_FullMethodName  = "/" + ServiceName + "/SignIn"
	AuthService_Refresh_FullMethodName = "/" + ServiceName + "/Refresh"
	AuthService_SignOut_FullMethodName = "/" + ServiceName + "/SignOut"
	AuthService_WhoAmI_FullMethodName  = "/" + ServiceName + "/WhoAmI"
	AuthService_Ping_FullMethodName    = "/" + ServiceName + "/Ping"
)

// AuthServiceClient is the client API for AuthService.
type AuthServiceClient interface {
	GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error)
	SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*SignUpResponse, error)
	SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*SignInResponse, error)
	Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*RefreshResponse, error)
	SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	WhoAmI(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*WhoAmIResponse, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authServiceClient) GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error) {
	return invoke[GetSaltRequest, GetSaltResponse](ctx, c.cc, AuthService_GetSalt_FullMethodName, in, opts)
}

func (c *authServiceClient) SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*SignUpResponse, error) {
	return invoke[SignUpRequest, SignUpResponse](ctx, c.cc, AuthService_SignUp_FullMethodName, in, opts)
}

func (c *authServiceClient) SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*SignInResponse, error) {
	return invoke[SignInRequest, SignInResponse](ctx, c.cc, AuthService_SignIn_FullMethodName, in, opts)
}

func (c *authServiceClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*RefreshResponse, error) {
	return invoke[RefreshRequest, RefreshResponse](ctx, c.cc, AuthService_Refresh_FullMethodName, in, opts)
}

func (c *authServiceClient) SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[SignOutRequest, emptypb.Empty](ctx, c.cc, AuthService_SignOut_FullMethodName, in, opts)
}

func (c *authServiceClient) WhoAmI(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*WhoAmIResponse, error) {
	return invoke[emptypb.Empty, WhoAmIResponse](ctx, c.cc, AuthService_WhoAmI_FullMethodName, in, opts)
}

func (c *authServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[emptypb.Empty, PingResponse](ctx, c.cc, AuthService_Ping_FullMethodName, in, opts)
}

// AuthServiceServer is the server API for AuthService.
type AuthServiceServer interface {
	GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error)
	SignUp(context.Context, *SignUpRequest) (*SignUpResponse, error)
	SignIn(context.Context, *SignInRequest) (*SignInResponse, error)
	Refresh(context.Context, *RefreshRequest) (*RefreshResponse, error)
	SignOut(context.Context, *SignOutRequest) (*emptypb.Empty, error)
	WhoAmI(context.Context, *emptypb.Empty) (*WhoAmIResponse, error)
	Ping(context.Context, *emptypb.Empty) (*PingResponse, error)
}

// UnimplementedAuthServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedAuthServiceServer struct{}

func (UnimplementedAuthServiceServer) GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSalt not implemented")
}
func (UnimplementedAuthServiceServer) SignUp(context.Context, *SignUpRequest) (*SignUpResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SignUp not implemented")
}
func (UnimplementedAuthServiceServer) SignIn(context.Context, *SignInRequest) (*SignInResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SignIn not implemented")
}
func (UnimplementedAuthServiceServer) Refresh(context.Context, *RefreshRequest) (*RefreshResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
}
func (UnimplementedAuthServiceServer) SignOut(context.Context, *SignOutRequest) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SignOut not implemented")
}
func (UnimplementedAuthServiceServer) WhoAmI(context.Context, *emptypb.Empty) (*WhoAmIResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method WhoAmI not implemented")
}
func (UnimplementedAuthServiceServer) Ping(context.Context, *emptypb.Empty) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

func handler[Req, Resp any](method string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		h := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, h)
	}
}

// AuthService_ServiceDesc is the grpc.ServiceDesc for AuthService.
var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSalt", Handler: handler(AuthService_GetSalt_FullMethodName, AuthServiceServer.GetSalt)},
		{MethodName: "SignUp", Handler: handler(AuthService_SignUp_FullMethodName, AuthServiceServer.SignUp)},
		{MethodName: "SignIn", Handler: handler(AuthService_SignIn_FullMethodName, AuthServiceServer.SignIn)},
		{MethodName: "Refresh", Handler: handler(AuthService_Refresh_FullMethodName, AuthServiceServer.Refresh)},
		{MethodName: "SignOut", Handler: handler(AuthService_SignOut_FullMethodName, AuthServiceServer.SignOut)},
		{MethodName: "WhoAmI", Handler: handler(AuthService_WhoAmI_FullMethodName, AuthServiceServer.WhoAmI)},
		{MethodName: "Ping", Handler: handler(AuthService_Ping_FullMethodName, AuthServiceServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "memodo/auth.proto",
}
