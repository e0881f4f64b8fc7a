package main

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// setPassword hashes the new admin password and prints the env var to set;
// the API only accepts logins once it is configured.
func (cli *commandLine) setPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Printf("Set the following in your environment or config/.env file:\n\n")
	fmt.Printf("  %s_ADMINPASSWORDHASH='%s'\n", cli.conf.Env, hash)
	return nil
}
