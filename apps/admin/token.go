package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/madrasahbd/natija/core/user"
)

// token prints a signed API token for the given identity.
func (cli *commandLine) token(subject, username string, roles []string) error {
	data := user.NewToken{Subject: subject, Username: username, Roles: roles}
	if err := data.Validate(cli.validate); err != nil {
		return err
	}

	token, err := user.GenerateToken(user.NewClaims(data.User(), cli.conf), cli.conf.SecretKey)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
