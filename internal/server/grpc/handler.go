package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/memodo/internal/common"
	pb "github.com/dmitrijs2005/memodo/internal/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// toStatus maps service errors onto gRPC codes. Expired access tokens keep
// the sentinel text so clients know a refresh can help.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "user already exists")
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func requireEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return status.Error(codes.InvalidArgument, "email is required")
	}
	return nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *pb.GetSaltRequest) (*pb.GetSaltResponse, error) {
	if err := requireEmail(req.Email); err != nil {
		return nil, err
	}

	salt, err := s.users.GetSalt(ctx, req.Email)
	if err != nil {
		s.logger.Error(ctx, "get salt failed", "error", err)
		return nil, toStatus(err)
	}

	return &pb.GetSaltResponse{Salt: salt}, nil
}

func (s *GRPCServer) SignUp(ctx context.Context, req *pb.SignUpRequest) (*pb.SignUpResponse, error) {
	if err := requireEmail(req.Email); err != nil {
		return nil, err
	}

	user, err := s.users.Register(ctx, req.Email, req.Salt, req.Verifier)
	if err != nil {
		if !errors.Is(err, common.ErrAlreadyExists) && !errors.Is(err, common.ErrValidation) {
			s.logger.Error(ctx, "registration failed", "error", err)
		}
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &pb.SignUpResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *pb.SignInRequest) (*pb.SignInResponse, error) {
	if err := requireEmail(req.Email); err != nil {
		return nil, err
	}

	tokens, err := s.users.Login(ctx, req.Email, req.VerifierCandidate)
	if err != nil {
		return nil, toStatus(err)
	}

	return &pb.SignInResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	}, nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *pb.RefreshRequest) (*pb.RefreshResponse, error) {
	if req.RefreshToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing refresh token")
	}

	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}

	return &pb.RefreshResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

// SignOut revokes the refresh token. Holding the token is enough, so an
// expired access token does not block signing out.
func (s *GRPCServer) SignOut(ctx context.Context, req *pb.SignOutRequest) (*emptypb.Empty, error) {
	if req.RefreshToken != "" {
		if err := s.users.Logout(ctx, req.RefreshToken); err != nil {
			return nil, toStatus(err)
		}
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *emptypb.Empty) (*pb.WhoAmIResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	user, err := s.users.WhoAmI(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &pb.WhoAmIResponse{UserID: user.ID, Email: user.Email}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}
