// Package grpc exposes the memodo auth service over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/memodo/internal/logging"
	pb "github.com/dmitrijs2005/memodo/internal/proto"
	"github.com/dmitrijs2005/memodo/internal/server/models"
	"github.com/dmitrijs2005/memodo/internal/server/services"
	"google.golang.org/grpc"
)

// userService is the part of services.UserService the handlers use.
type userService interface {
	Register(ctx context.Context, email string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, email string) ([]byte, error)
	Login(ctx context.Context, email string, verifierCandidate []byte) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	WhoAmI(ctx context.Context, userID string) (*models.User, error)
	UserIDFromAccessToken(token string) (string, error)
}

type GRPCServer struct {
	pb.UnimplementedAuthServiceServer
	address string
	users   userService
	logger  logging.Logger
	limiter *peerLimiter
}

// NewGRPCServer builds a server for address. Credential RPCs are limited to
// rps requests per second per peer with the given burst.
func NewGRPCServer(a string, l logging.Logger, us userService, rps float64, burst int) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		limiter: newPeerLimiter(rps, burst),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.requestLogInterceptor,
		s.rateLimitInterceptor,
		s.accessTokenInterceptor,
	))
	pb.RegisterAuthServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-done:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
