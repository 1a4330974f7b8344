package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// PasswordEnvVar holds the database password when set.
const PasswordEnvVar = "NEO4J_PASSWORD"

// ErrNoPassword is returned when no password is in the environment and
// stdin is not a terminal to prompt on.
var ErrNoPassword = errors.New("no password: set " + PasswordEnvVar + " or run interactively")

// Password returns the password for username, from NEO4J_PASSWORD or by
// prompting on the terminal without echo.
func Password(username string, prompt io.Writer) (string, error) {
	if pw, ok := os.LookupEnv(PasswordEnvVar); ok {
		return pw, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoPassword
	}

	fmt.Fprintf(prompt, "Password for %s: ", username)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}
