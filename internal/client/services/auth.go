// Package services holds the state owners the REPL drives: the task list,
// the note list with its memo boards, and the sign-in session.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sync"

	"github.com/dmitrijs2005/memodo/internal/client/client"
	"github.com/dmitrijs2005/memodo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/memodo/internal/common"
	"github.com/dmitrijs2005/memodo/internal/cryptox"
	"github.com/dmitrijs2005/memodo/internal/logging"
)

const saltSize = 32

var errNoServer = errors.New("no auth server configured")

// AuthService is the sign-in gate in front of the lists. When sign-in is
// not required the gate is always open.
type AuthService struct {
	client   client.Client
	meta     metadata.Repository
	required bool
	log      logging.Logger

	mu            sync.Mutex
	authenticated bool
	loading       bool
	email         string
}

// NewAuthService builds the gate. c may be nil when no server is configured.
func NewAuthService(c client.Client, meta metadata.Repository, required bool, l logging.Logger) *AuthService {
	return &AuthService{client: c, meta: meta, required: required, log: l.With("module", "auth")}
}

func (a *AuthService) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.required || a.authenticated
}

func (a *AuthService) IsLoading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Email of the signed-in user, or "".
func (a *AuthService) Email() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.email
}

func validateCredentials(email string, password []byte) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if len(password) == 0 {
		return fmt.Errorf("%w: empty password", common.ErrValidation)
	}
	return nil
}

// SignIn derives the verifier from password and the server-issued salt and
// exchanges it for a session, which is saved locally.
func (a *AuthService) SignIn(ctx context.Context, email string, password []byte) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	if a.client == nil {
		return errNoServer
	}

	salt, err := a.client.GetSalt(ctx, email)
	if err != nil {
		return fmt.Errorf("get salt: %w", err)
	}

	key := cryptox.DeriveMasterKey(password, salt)
	verifier := cryptox.MakeVerifier(key)
	common.WipeByteArray(key)

	session, err := a.client.SignIn(ctx, email, verifier)
	if err != nil {
		a.log.Warn(ctx, "sign in failed", "email", email, "error", err)
		return fmt.Errorf("sign in: %w", err)
	}

	if err := a.saveSession(ctx, email, session); err != nil {
		return err
	}

	a.mu.Lock()
	a.authenticated = true
	a.email = email
	a.mu.Unlock()

	a.log.Info(ctx, "signed in", "email", email)
	return nil
}

// SignUp registers a new account with a fresh salt and signs in.
func (a *AuthService) SignUp(ctx context.Context, email string, password []byte) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	if a.client == nil {
		return errNoServer
	}

	salt := common.GenerateRandByteArray(saltSize)
	key := cryptox.DeriveMasterKey(password, salt)
	verifier := cryptox.MakeVerifier(key)
	common.WipeByteArray(key)

	if err := a.client.SignUp(ctx, email, salt, verifier); err != nil {
		return fmt.Errorf("sign up: %w", err)
	}

	return a.SignIn(ctx, email, password)
}

// SignOut revokes the session on the server when reachable and always
// forgets it locally.
func (a *AuthService) SignOut(ctx context.Context) error {
	if a.client != nil {
		if err := a.client.SignOut(ctx); err != nil {
			a.log.Warn(ctx, "server sign out failed", "error", err)
		}
	}

	a.mu.Lock()
	a.authenticated = false
	a.email = ""
	a.mu.Unlock()

	return a.meta.Delete(ctx, metadata.KeyUsername, metadata.KeyAccessToken, metadata.KeyRefreshToken)
}

// Restore resumes a saved session at start-up. A rejected session is
// discarded; an unreachable server leaves the user signed out.
func (a *AuthService) Restore(ctx context.Context) error {
	a.mu.Lock()
	a.loading = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.loading = false
		a.mu.Unlock()
	}()

	if a.client == nil {
		return nil
	}

	stored, err := a.meta.List(ctx)
	if err != nil {
		return err
	}
	session := client.Session{
		AccessToken:  string(stored[metadata.KeyAccessToken]),
		RefreshToken: string(stored[metadata.KeyRefreshToken]),
	}
	if session.Empty() {
		return nil
	}

	a.client.SetSession(session)
	email, err := a.client.WhoAmI(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			a.log.Info(ctx, "saved session rejected")
			a.client.SetSession(client.Session{})
			return a.meta.Delete(ctx, metadata.KeyAccessToken, metadata.KeyRefreshToken)
		}
		return fmt.Errorf("restore session: %w", err)
	}

	a.mu.Lock()
	a.authenticated = true
	a.email = email
	a.mu.Unlock()
	return nil
}

// SaveTokens persists a token pair rotated by the transport.
func (a *AuthService) SaveTokens(ctx context.Context, s client.Session) error {
	return a.meta.SetMany(ctx, map[string][]byte{
		metadata.KeyAccessToken:  []byte(s.AccessToken),
		metadata.KeyRefreshToken: []byte(s.RefreshToken),
	})
}

func (a *AuthService) saveSession(ctx context.Context, email string, s client.Session) error {
	return a.meta.SetMany(ctx, map[string][]byte{
		metadata.KeyUsername:     []byte(email),
		metadata.KeyAccessToken:  []byte(s.AccessToken),
		metadata.KeyRefreshToken: []byte(s.RefreshToken),
	})
}
