package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/memodo/internal/common"
	pb "github.com/dmitrijs2005/memodo/internal/proto"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// RequestIDHeader carries the id the server logged a call under.
const RequestIDHeader = "x-request-id"

// authenticated lists the methods that need a valid access token.
var authenticated = map[string]bool{
	pb.AuthService_WhoAmI_FullMethodName: true,
}

// rateLimited lists the credential methods throttled per peer.
var rateLimited = map[string]bool{
	pb.AuthService_GetSalt_FullMethodName: true,
	pb.AuthService_SignUp_FullMethodName:  true,
	pb.AuthService_SignIn_FullMethodName:  true,
	pb.AuthService_Refresh_FullMethodName: true,
}

func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if !authenticated[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := s.users.UserIDFromAccessToken(accessToken)
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(context.WithValue(ctx, userIDKey, userID), req)
}

func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if rateLimited[info.FullMethod] && !s.limiter.Allow(peerKey(ctx)) {
		return nil, status.Error(codes.ResourceExhausted, "too many requests")
	}
	return handler(ctx, req)
}

func (s *GRPCServer) requestLogInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	id := uuid.NewString()
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, id))

	l := s.logger.With("request_id", id, "method", info.FullMethod)
	start := time.Now()

	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"code", code.String(), "duration", time.Since(start)}
	switch code {
	case codes.OK:
		l.Debug(ctx, "request served", args...)
	case codes.Internal, codes.Unknown:
		l.Error(ctx, "request failed", args...)
	default:
		l.Info(ctx, "request rejected", args...)
	}

	return resp, err
}
