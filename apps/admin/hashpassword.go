package main

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashPassword prints the hash to set as `<ENV>_ADMIN_PASSWORDHASH`.
func (cli *commandLine) hashPassword(pwd []byte) error {
	hash, err := bcrypt.GenerateFromPassword(pwd, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, string(hash))
	return nil
}
