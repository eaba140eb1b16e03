package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/snapgram/internal/client/client"
	"github.com/dmitrijs2005/snapgram/internal/client/services"
	"github.com/dmitrijs2005/snapgram/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup collects the account fields and creates the account. It does not
// sign the new user in.
func (a *App) Signup(ctx context.Context) error {
	var in services.SignupInput

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter email", &in.Email},
		{"Enter username", &in.UserName},
		{"Enter first name", &in.FirstName},
		{"Enter last name", &in.LastName},
		{"Enter phone number", &in.PhoneNumber},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	in.Password = string(password)

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	u, err := a.auth.Signup(ctx, in)
	if err != nil {
		return a.fail("signup", err)
	}

	a.printOK("Account @%s created. Use 'login' to sign in.", u.UserName)
	return nil
}

// Login prompts for credentials and stores the session on success.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	u, err := a.auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) || errors.Is(err, common.ErrorTransientGateway) {
			a.setMode(ModeOffline)
		}
		return a.fail("login", err)
	}

	a.setMode(ModeOnline)
	a.printOK("Welcome, %s!", u.Summary().DisplayName())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return a.fail("logout", err)
	}
	a.printf("Logged out.")
	return nil
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, ok, err := a.auth.CurrentUserID(ctx)
	return err == nil && ok
}

// requireUser reads the session fresh. Without one it prints "please log in".
func (a *App) requireUser(ctx context.Context) (int64, error) {
	id, err := a.auth.RequireUser(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotAuthenticated) {
			a.printWarn("please log in")
			return 0, err
		}
		return 0, a.fail("session", err)
	}
	return id, nil
}
