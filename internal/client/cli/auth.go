package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todoapi/internal/client/client"
	"github.com/dmitrijs2005/todoapi/internal/client/session"
)

// Prompt seams, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for an email and a confirmed password and creates the
// account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := confirmPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	u, err := a.api.Register(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s, use 'login' to sign in.\n", u.Email)
	return nil
}

// Login prompts for credentials, authenticates and saves the session so the
// next run starts logged in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer wipe(password)

	u, err := a.api.Login(ctx, email, string(password))
	if errors.Is(err, client.ErrUnauthorized) {
		return errBadCredentials
	}
	if err != nil {
		return err
	}

	a.email = u.Email
	a.lastList = nil
	if err := a.sessions.Save(&session.Session{Email: u.Email, Token: a.api.Token()}); err != nil {
		return fmt.Errorf("logged in, but the session was not saved: %w", err)
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", u.Email)
	return nil
}

// Logout revokes the token on the server and forgets it locally. A token the
// server already rejects is forgotten too; when the server cannot be reached
// the session is kept so the token can still be revoked later.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	err := a.api.Logout(ctx)
	if err != nil && !errors.Is(err, client.ErrUnauthorized) {
		return err
	}

	a.forget()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
