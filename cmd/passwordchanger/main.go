package main

import (
	"errors"
	"os"
	"strings"

	"github.com/mjwhitta/cli"

	"github.com/ineffectivecoder/LogonGooser/internal/console"
	"github.com/ineffectivecoder/LogonGooser/pkg/debug"
	"github.com/ineffectivecoder/LogonGooser/pkg/netuser"
)

func main() {
	var domain string

	cli.Align = true
	cli.Banner = "passwordchanger [OPTIONS] <username> [old-password] [new-password]"
	cli.Info("Change the password of a local account with NetUserChangePassword")
	cli.Info("Passwords not given on the command line are prompted for")
	cli.Authors = []string{"LogonGooser Team"}

	cli.Flag(&domain, "d", "domain", "", "Domain or server (default: local machine)")
	cli.Flag(&debug.Verbose, "v", "verbose", false, "Verbose output")
	cli.Parse()

	args := cli.Args()
	if len(args) < 1 || len(args) > 3 {
		console.Error("Expected <username> [old-password] [new-password]")
		cli.Usage(1)
	}

	user := args[0]
	if d, u, ok := strings.Cut(user, `\`); ok && domain == "" {
		domain, user = d, u
	}

	var oldPwd, newPwd string
	if len(args) > 1 {
		oldPwd = args[1]
	} else {
		oldPwd = console.PromptPassword("Old password: ")
	}
	if len(args) > 2 {
		newPwd = args[2]
	} else {
		newPwd = console.PromptPassword("New password: ")
		if console.PromptPassword("Confirm new password: ") != newPwd {
			console.Error("Passwords do not match")
			os.Exit(1)
		}
	}

	console.Info("Changing password for %s", user)
	console.Debug("Domain: %q", domain)
	if err := netuser.ChangePassword(domain, user, oldPwd, newPwd); err != nil {
		switch {
		case errors.Is(err, netuser.ErrUserNotFound):
			console.Error("User name not found.")
		case errors.Is(err, netuser.ErrInvalidPassword):
			console.Error("Old password is incorrect.")
		default:
			console.Error("Password change failed: %v", err)
		}
		os.Exit(2)
	}
	console.Success("Password changed")
}
