package main

import (
	"context"
	"time"

	"github.com/frostwarlord/portal/core"
	"github.com/frostwarlord/portal/core/user"
)

// addUser updates or creates a user.User. Users created here are
// verified immediately; there is no email round-trip on the CLI.
func (cli *commandLine) addUser(name, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:      name,
			Email:     email,
			Role:      "member",
			CreatedAt: now,
		}
	} else {
		usr.Name = name
	}
	usr.IsVerified = true
	usr.IsAdmin = isAdmin
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	}
	return err
}
