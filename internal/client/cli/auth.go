package cli

import (
	"context"

	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/common"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login prompts the user for credentials and signs in. The password is
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getSecret(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.auth.Login(ctx, userName, password)
	if err != nil {
		a.log.Debug(ctx, "login failed", "user", userName, "error", err)
		return err
	}

	a.printf("Welcome, %s\n", id)
	return nil
}

// Logout ends the session and drops everything cached for it.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.printf("Logged out\n")
	return nil
}

// WhoAmI prints the signed-in identity.
func (a *App) WhoAmI(ctx context.Context) error {
	id, ok := a.auth.Current()
	if !ok {
		a.printf("Not logged in\n")
		return nil
	}
	a.printf("%s (id %s, email %s, role %s)\n", id, id.ID, id.Email, id.Role)
	return nil
}

// Profile shows the profile, or with "edit" prompts for a new one.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "edit" {
		return a.editProfile(ctx)
	}
	if len(args) > 0 {
		return errUsage("profile [edit]")
	}

	p, err := a.auth.Profile(ctx)
	if err != nil {
		return err
	}
	a.printf("Username: %s\nName:     %s\nEmail:    %s\nPhone:    %s\nRole:     %s\n",
		p.Username, p.FullName, p.Email, p.Phone, p.Role)
	return nil
}

func (a *App) editProfile(ctx context.Context) error {
	var in models.ProfileUpdate
	var err error
	if in.FullName, err = getSimpleText(a.reader, "Enter full name", a.out); err != nil {
		return err
	}
	if in.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if in.Phone, err = getSimpleText(a.reader, "Enter phone (optional)", a.out); err != nil {
		return err
	}

	p, err := a.account.UpdateProfile(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Profile updated for %s\n", p.Username)
	return nil
}

// Passwd changes the account password.
func (a *App) Passwd(ctx context.Context) error {
	current, err := getSecret(a.out, "Enter current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)
	next, err := getSecret(a.out, "Enter new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)
	confirm, err := getSecret(a.out, "Repeat new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	err = a.account.ChangePassword(ctx, models.PasswordChange{
		CurrentPassword: string(current),
		NewPassword:     string(next),
		ConfirmPassword: string(confirm),
	})
	if err != nil {
		return err
	}
	a.printf("Password changed\n")
	return nil
}
