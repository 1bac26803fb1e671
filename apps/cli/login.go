package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/darasahq/darasa/core/session"
)

var readPasswordFunc = term.ReadPassword // mockable

func (cli *commandLine) loginCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email; the password will be prompted next")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		fs.Usage()
		return errHelp
	}

	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}

	usr, err := cli.authSvc.Login(ctx, session.Credentials{Email: *email, Password: string(pwd)})
	if err != nil {
		return cli.renderErr(err)
	}
	fmt.Fprintf(cli.out, "welcome back, %s\n", usr.FullName)
	return nil
}

// confirm asks a yes/no question on the terminal; anything but y/yes declines.
func (cli *commandLine) confirm(prompt string) bool {
	fmt.Fprintf(cli.out, "%s [y/N] ", prompt)
	scanner := cli.stdin()
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func splitRoles(s string) []string {
	parts := strings.Split(s, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, p)
		}
	}
	return roles
}
