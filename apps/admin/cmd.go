package main

import (
	"errors"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/revisioncam/core"
	"github.com/trezcool/revisioncam/core/auth"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	hashPasswordFunc = auth.HashPassword // mockable

	errHelp             = errors.New("help provided")
	errPasswordMismatch = errors.New("passwords do not match")
)

type commandLine struct {
	conf *core.Config
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  hashpassword - prompt for a password and print its hash for the auth configuration")
	fmt.Fprintln(cli.out, "  showconfig - print the effective auth and import settings")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "hashpassword":
		return cli.hashPassword()
	case "showconfig":
		cli.showConfig()
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) prompt(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) hashPassword() error {
	pwd, err := cli.prompt("Enter password:")
	if err != nil {
		return err
	}
	if pwd == "" {
		fmt.Fprintln(cli.out, "the password may not be empty")
		return errHelp
	}
	confirm, err := cli.prompt("Confirm password:")
	if err != nil {
		return err
	}
	if confirm != pwd {
		return errPasswordMismatch
	}

	hash, err := hashPasswordFunc(pwd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, hash)
	fmt.Fprintf(cli.out, "set it as %s_AUTH_PASSWORDHASH to enable logins for %q\n", cli.conf.Env, cli.conf.Auth.Username)
	return nil
}

func (cli *commandLine) showConfig() {
	policy := auth.NewCredentialPolicy(cli.conf.Auth.Username, cli.conf.Auth.PasswordHash)
	fmt.Fprintf(cli.out, "env: %s\n", cli.conf.Env)
	fmt.Fprintf(cli.out, "username: %s\n", cli.conf.Auth.Username)
	fmt.Fprintf(cli.out, "login enabled: %t\n", policy.Enabled())
	fmt.Fprintf(cli.out, "session duration: %s\n", cli.conf.Auth.SessionDuration)
	fmt.Fprintf(cli.out, "max file size: %d bytes\n", cli.conf.Import.MaxFileSize)
	fmt.Fprintf(cli.out, "live preview: %t\n", cli.conf.Import.LivePreview)
}
