package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/memodo/internal/common"
	pb "github.com/dmitrijs2005/memodo/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const saltTimeout = 12 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.AuthServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string

	// OnRefresh is called with the rotated pair after a transparent refresh.
	OnRefresh func(Session)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	session := s.Session()

	err := invoker(withAccessToken(ctx, session.AccessToken), method, req, reply, cc, opts...)
	if err == nil || method == pb.AuthService_Refresh_FullMethodName {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if session.RefreshToken == "" {
		return err
	}

	resp, rerr := s.client.Refresh(ctx, &pb.RefreshRequest{RefreshToken: session.RefreshToken})
	if rerr != nil {
		return err
	}

	fresh := Session{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	s.SetSession(fresh)
	if s.OnRefresh != nil {
		s.OnRefresh(fresh)
	}

	return invoker(withAccessToken(ctx, fresh.AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to the auth server at endpointURL.
func NewGRPCClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewAuthServiceClient(conn)
	return nil
}

func (s *GRPCClient) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Session{AccessToken: s.accessToken, RefreshToken: s.refreshToken}
}

func (s *GRPCClient) SetSession(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = session.AccessToken
	s.refreshToken = session.RefreshToken
}

func (s *GRPCClient) GetSalt(ctx context.Context, email string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, saltTimeout)
	defer cancel()

	resp, err := s.client.GetSalt(ctx, &pb.GetSaltRequest{Email: email})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Salt, nil
}

func (s *GRPCClient) SignUp(ctx context.Context, email string, salt, verifier []byte) error {
	_, err := s.client.SignUp(ctx, &pb.SignUpRequest{Email: email, Salt: salt, Verifier: verifier})
	return s.mapError(err)
}

func (s *GRPCClient) SignIn(ctx context.Context, email string, verifier []byte) (Session, error) {
	resp, err := s.client.SignIn(ctx, &pb.SignInRequest{Email: email, VerifierCandidate: verifier})
	if err != nil {
		return Session{}, s.mapError(err)
	}

	session := Session{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	s.SetSession(session)
	return session, nil
}

// SignOut revokes the refresh token on the server and forgets the session
// locally even when the server call fails.
func (s *GRPCClient) SignOut(ctx context.Context) error {
	session := s.Session()
	defer s.SetSession(Session{})

	if session.RefreshToken == "" {
		return nil
	}
	_, err := s.client.SignOut(ctx, &pb.SignOutRequest{RefreshToken: session.RefreshToken})
	return s.mapError(err)
}

func (s *GRPCClient) WhoAmI(ctx context.Context) (string, error) {
	resp, err := s.client.WhoAmI(ctx, &emptypb.Empty{})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Email, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", common.ErrorUnauthorized, st.Message())
	case codes.AlreadyExists:
		return common.ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrValidation, st.Message())
	case codes.ResourceExhausted:
		return ErrRateLimited
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
