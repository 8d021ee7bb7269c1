package client

import (
	"context"
)

// Session is the token pair issued by the auth server.
type Session struct {
	AccessToken  string
	RefreshToken string
}

func (s Session) Empty() bool { return s.AccessToken == "" && s.RefreshToken == "" }

type Client interface {
	Close() error
	GetSalt(ctx context.Context, email string) ([]byte, error)
	SignUp(ctx context.Context, email string, salt, verifier []byte) error
	SignIn(ctx context.Context, email string, verifier []byte) (Session, error)
	SignOut(ctx context.Context) error
	// WhoAmI returns the email of the session owner.
	WhoAmI(ctx context.Context) (string, error)
	Ping(ctx context.Context) error

	Session() Session
	SetSession(s Session)
}
