package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/memodo/internal/common"
)

// SignUp prompts for an email and password, registers the account and
// signs in. The password is wiped before returning.
func (a *App) SignUp(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.SignUp(ctx, email, password); err != nil {
		return err
	}

	printlnFn("Signed up as", email)
	return nil
}

func (a *App) SignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.SignIn(ctx, email, password); err != nil {
		return err
	}

	a.setMode(ctx, ModeOnline)
	printlnFn("Signed in as", email)
	return nil
}

// SignOut forgets the session and every note opened during it.
func (a *App) SignOut(ctx context.Context) error {
	if a.board != nil {
		a.board.Close()
		a.board = nil
	}
	a.gate.Reset()

	if err := a.auth.SignOut(ctx); err != nil {
		return err
	}
	printlnFn("Signed out.")
	return nil
}
