package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hexsocial/internal/client/services"
)

// getSimpleText, getPassword and getYesNo are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getYesNo      = GetYesNo
)

// Register walks through the three registration steps: email OTP, code
// verification and credentials.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := a.svc.Auth.SendOTP(ctx, email); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "A verification code was sent to %s\n", email)

	code, err := getSimpleText(a.reader, "Enter verification code", a.out)
	if err != nil {
		return err
	}
	if err := a.svc.Auth.VerifyOTP(ctx, email, code); err != nil {
		return err
	}

	username, err := getSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out, a.termFD)
	if err != nil {
		return err
	}

	if err := a.svc.Auth.SetCredentials(ctx, services.Credentials{
		Email:    email,
		Username: username,
		Password: password,
	}); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registration complete, you can log in now.")
	return nil
}

// Login asks for credentials and whether to remember the session across
// restarts.
func (a *App) Login(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter email or username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out, a.termFD)
	if err != nil {
		return err
	}
	remember, err := getYesNo(a.reader, "Remember me", a.out)
	if err != nil {
		return err
	}

	res, err := a.svc.Auth.Login(ctx, services.LoginInput{
		Login:    login,
		Password: password,
		Remember: remember,
	})
	if err != nil {
		return err
	}

	name := login
	if res.User != nil && res.User.Username != "" {
		name = res.User.Username
	}
	a.resetCaches()
	a.setUser(name)

	fmt.Fprintf(a.out, "Logged in as %s (%s, %s session)\n", name, res.Role, res.Tier)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.svc.Auth.Logout(ctx); err != nil {
		return err
	}
	a.signedOut()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}
	id, err := a.svc.Auth.WhoAmI(ctx)
	if err != nil {
		return err
	}

	a.setUser(id.Profile.Name())
	fmt.Fprintf(a.out, "%s <%s>\nrole: %s\nsession: %s\n",
		id.Profile.Name(), id.Profile.Email, id.Role, a.session.Persistence(ctx))
	return nil
}
