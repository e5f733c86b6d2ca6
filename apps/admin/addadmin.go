package main

import (
	"context"
	"fmt"

	"github.com/tatame-app/tatame/core/user"
)

// addAdmin creates a general admin, or updates the one already holding email.
func (cli *commandLine) addAdmin(name, email, pwd string) error {
	usr, err := cli.usrSvc.SaveAdmin(context.Background(), user.NewAdmin{Name: name, Email: email, Password: pwd})
	if err != nil {
		return err
	}
	fmt.Printf("admin %q saved (id %d)\n", usr.Email, usr.ID)
	return nil
}
