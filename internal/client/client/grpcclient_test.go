package client

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/memodo/internal/common"
	pb "github.com/dmitrijs2005/memodo/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type fakePB struct {
	lastRefreshReq *pb.RefreshRequest
	lastGetSaltReq *pb.GetSaltRequest
	lastSignInReq  *pb.SignInRequest
	lastSignUpReq  *pb.SignUpRequest
	lastSignOutReq *pb.SignOutRequest

	refreshResp *pb.RefreshResponse
	refreshErr  error
	getSaltResp *pb.GetSaltResponse
	getSaltErr  error
	signInResp  *pb.SignInResponse
	signInErr   error
	signUpErr   error
	signOutErr  error
	whoAmIResp  *pb.WhoAmIResponse
	whoAmIErr   error
	pingResp    *pb.PingResponse
	pingErr     error
}

func (f *fakePB) GetSalt(ctx context.Context, in *pb.GetSaltRequest, opts ...grpc.CallOption) (*pb.GetSaltResponse, error) {
	f.lastGetSaltReq = in
	return f.getSaltResp, f.getSaltErr
}
func (f *fakePB) SignUp(ctx context.Context, in *pb.SignUpRequest, opts ...grpc.CallOption) (*pb.SignUpResponse, error) {
	f.lastSignUpReq = in
	return &pb.SignUpResponse{}, f.signUpErr
}
func (f *fakePB) SignIn(ctx context.Context, in *pb.SignInRequest, opts ...grpc.CallOption) (*pb.SignInResponse, error) {
	f.lastSignInReq = in
	return f.signInResp, f.signInErr
}
func (f *fakePB) Refresh(ctx context.Context, in *pb.RefreshRequest, opts ...grpc.CallOption) (*pb.RefreshResponse, error) {
	f.lastRefreshReq = in
	return f.refreshResp, f.refreshErr
}
func (f *fakePB) SignOut(ctx context.Context, in *pb.SignOutRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	f.lastSignOutReq = in
	return &emptypb.Empty{}, f.signOutErr
}
func (f *fakePB) WhoAmI(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*pb.WhoAmIResponse, error) {
	return f.whoAmIResp, f.whoAmIErr
}
func (f *fakePB) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*pb.PingResponse, error) {
	return f.pingResp, f.pingErr
}

func TestInterceptor_RefreshesTokenOnExpiredAndRetries(t *testing.T) {
	f := &fakePB{refreshResp: &pb.RefreshResponse{AccessToken: "A2", RefreshToken: "R2"}}
	c := &GRPCClient{client: f, accessToken: "A1", refreshToken: "R1"}

	var refreshed Session
	c.OnRefresh = func(s Session) { refreshed = s }

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get(common.AccessTokenHeaderName)
		require.Len(t, toks, 1)

		if callCount == 1 {
			require.Equal(t, "A1", toks[0])
			return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		require.Equal(t, "A2", toks[0])
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), pb.AuthService_WhoAmI_FullMethodName, nil, nil, nil, invoker)
	require.NoError(t, err)
	assert.Equal(t, 2, callCount)
	assert.Equal(t, Session{AccessToken: "A2", RefreshToken: "R2"}, c.Session())
	assert.Equal(t, c.Session(), refreshed)
	assert.Equal(t, "R1", f.lastRefreshReq.RefreshToken)
}

func TestInterceptor_NoRefreshIfNoRefreshToken(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f, accessToken: "A1"}

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
	assert.Nil(t, f.lastRefreshReq)
}

func TestInterceptor_RefreshFailureReturnsOriginalError(t *testing.T) {
	f := &fakePB{refreshErr: status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())}
	c := &GRPCClient{client: f, accessToken: "A1", refreshToken: "R1"}

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	assert.Equal(t, common.ErrTokenExpired.Error(), status.Convert(err).Message())
	assert.Equal(t, "A1", c.Session().AccessToken)
}

func TestInterceptor_IgnoresOtherErrors(t *testing.T) {
	c := &GRPCClient{accessToken: "X"}
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Internal, "boom")
	}
	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
}

func TestInterceptor_NoHeaderWithoutToken(t *testing.T) {
	c := &GRPCClient{}
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		assert.Empty(t, md.Get(common.AccessTokenHeaderName))
		return nil
	}
	require.NoError(t, c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker))
}

func TestSignInStoresSession(t *testing.T) {
	f := &fakePB{signInResp: &pb.SignInResponse{AccessToken: "a", RefreshToken: "r"}}
	c := &GRPCClient{client: f}

	s, err := c.SignIn(context.Background(), "u@x", []byte("v"))
	require.NoError(t, err)
	assert.Equal(t, Session{AccessToken: "a", RefreshToken: "r"}, s)
	assert.Equal(t, s, c.Session())
	assert.Equal(t, "u@x", f.lastSignInReq.Email)
	assert.Equal(t, []byte("v"), f.lastSignInReq.VerifierCandidate)
}

func TestSignOutClearsSessionEvenOnError(t *testing.T) {
	f := &fakePB{signOutErr: status.Error(codes.Unavailable, "down")}
	c := &GRPCClient{client: f, accessToken: "a", refreshToken: "r"}

	err := c.SignOut(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, c.Session().Empty())
	assert.Equal(t, "r", f.lastSignOutReq.RefreshToken)

	require.NoError(t, c.SignOut(context.Background()))
}

func TestGetSaltSignUpWhoAmIPing(t *testing.T) {
	f := &fakePB{
		getSaltResp: &pb.GetSaltResponse{Salt: []byte("salt")},
		whoAmIResp:  &pb.WhoAmIResponse{Email: "me@x"},
		pingResp:    &pb.PingResponse{Status: "OK"},
	}
	c := &GRPCClient{client: f}
	ctx := context.Background()

	salt, err := c.GetSalt(ctx, "me@x")
	require.NoError(t, err)
	assert.Equal(t, []byte("salt"), salt)

	require.NoError(t, c.SignUp(ctx, "me@x", []byte("s"), []byte("v")))
	assert.Equal(t, []byte("v"), f.lastSignUpReq.Verifier)

	who, err := c.WhoAmI(ctx)
	require.NoError(t, err)
	assert.Equal(t, "me@x", who)

	require.NoError(t, c.Ping(ctx))
	f.pingResp = &pb.PingResponse{Status: "DEGRADED"}
	require.ErrorIs(t, c.Ping(ctx), ErrUnavailable)
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	assert.NoError(t, c.mapError(nil))
	assert.ErrorIs(t, c.mapError(status.Error(codes.Unauthenticated, "x")), common.ErrorUnauthorized)
	assert.ErrorIs(t, c.mapError(status.Error(codes.PermissionDenied, "x")), common.ErrorUnauthorized)
	assert.ErrorIs(t, c.mapError(status.Error(codes.AlreadyExists, "x")), common.ErrAlreadyExists)
	assert.ErrorIs(t, c.mapError(status.Error(codes.InvalidArgument, "x")), common.ErrValidation)
	assert.ErrorIs(t, c.mapError(status.Error(codes.ResourceExhausted, "x")), ErrRateLimited)
	assert.ErrorIs(t, c.mapError(status.Error(codes.Unavailable, "x")), ErrUnavailable)
	assert.ErrorIs(t, c.mapError(status.Error(codes.DeadlineExceeded, "x")), ErrUnavailable)

	plain := errors.New("plain")
	assert.ErrorIs(t, c.mapError(plain), plain)
}
