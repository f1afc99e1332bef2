package cli

import (
	"context"
	"os"

	"github.com/teamboard/client/internal/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates through the session
// manager. Validation errors and server rejections come back as errors for
// the REPL to print.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	return a.session.Login(ctx, username, password)
}

// Register prompts for the registration form and creates the account. On
// success the session manager has already logged the user in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	confirm, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}

	qq, err := getSimpleText(a.reader, "Enter QQ number", os.Stdout)
	if err != nil {
		return err
	}

	return a.session.Register(ctx, session.RegisterFields{
		Username:        username,
		Password:        password,
		ConfirmPassword: confirm,
		QQ:              qq,
	})
}

// Logout ends the local session. No server call is involved.
func (a *App) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

// WhoAmI prints the current user's profile.
func (a *App) WhoAmI(ctx context.Context) error {
	user := a.session.CurrentUser()
	if user == nil {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn("Username:", user.Username)
	if user.DisplayName != "" {
		printlnFn("Name:", user.DisplayName)
	}
	if user.Email != "" {
		printlnFn("Email:", user.Email)
	}
	if user.QQ != "" {
		printlnFn("QQ:", user.QQ)
	}
	printlnFn("Role:", user.Role)
	return nil
}
