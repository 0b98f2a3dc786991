package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pulse/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates a new account. The
// session starts immediately on success.
func (a *App) Register(ctx context.Context) error {
	var creds models.RegisterCredentials
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter username", &creds.Username},
		{"Enter email", &creds.Email},
		{"Enter first name", &creds.FirstName},
		{"Enter last name (optional)", &creds.LastName},
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
	creds.Password = password

	user, err := a.session.Register(ctx, creds)
	if err != nil {
		return err
	}

	a.setFeed(nil)
	fmt.Fprintf(a.out, "Welcome, @%s!\n", user.Username)
	return nil
}

// Login prompts for a username or email and a password.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.session.Login(ctx, models.LoginCredentials{Identifier: identifier, Password: password})
	if err != nil {
		return err
	}

	a.setFeed(nil)
	fmt.Fprintf(a.out, "Logged in as @%s\n", user.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.setFeed(nil)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Me fetches the current user from the server rather than the cached copy.
func (a *App) Me(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	u, err := a.auth.Me(ctx)
	if err != nil {
		return err
	}

	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	fmt.Fprintf(a.out, "@%s (%s) <%s>, joined %s\n", u.Username, name, u.Email, u.DateJoined.Format("2006-01-02"))
	return nil
}
