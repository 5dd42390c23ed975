package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mjwhitta/cli"

	"github.com/ineffectivecoder/LogonGooser/internal/console"
	"github.com/ineffectivecoder/LogonGooser/pkg/debug"
	"github.com/ineffectivecoder/LogonGooser/pkg/launch"
	"github.com/ineffectivecoder/LogonGooser/pkg/msv1_0"
)

// Exit codes
const (
	exitOK      = 0
	exitUsage   = 1
	exitFailure = 2
)

// originName identifies this tool in logon audit records
const originName = "AuthPkgTester"

// invocation is what the positional arguments ask for
type invocation struct {
	List           bool
	Package        string
	Domain         string
	User           string
	Password       string
	PromptPassword bool
}

var errUsage = errors.New("expected [auth-package] <username> [password]")

// parseArgs interprets the positional arguments. With none it lists
// packages. One argument is a user whose password is prompted for, two
// are user and password, three add the package name in front. A user of
// the form DOMAIN\name sets the domain unless one was given explicitly.
func parseArgs(args []string, domain string) (*invocation, error) {
	inv := &invocation{Domain: domain}
	switch len(args) {
	case 0:
		inv.List = true
		return inv, nil
	case 1:
		inv.User = args[0]
		inv.PromptPassword = true
	case 2:
		inv.User, inv.Password = args[0], args[1]
	case 3:
		inv.Package, inv.User, inv.Password = args[0], args[1], args[2]
	default:
		return nil, errUsage
	}

	if d, u, ok := strings.Cut(inv.User, `\`); ok {
		if inv.Domain == "" {
			inv.Domain = d
		}
		inv.User = u
	}
	if inv.User == "" {
		return nil, errUsage
	}
	if inv.Package == "" {
		inv.Package = msv1_0.PackageMSV1_0
	}
	return inv, nil
}

// fileTimeEpoch is 1601-01-01 in Unix 100ns ticks, negated
const fileTimeEpoch = 116444736000000000

// formatTime renders a LARGE_INTEGER FILETIME from a logon profile
func formatTime(ft int64) string {
	switch {
	case ft == msv1_0.Forever:
		return "never"
	case ft == 0:
		return "not set"
	case ft < fileTimeEpoch:
		return fmt.Sprintf("0x%X", ft)
	}
	return time.Unix(0, (ft-fileTimeEpoch)*100).UTC().Format(time.RFC3339)
}

func printProfile(p *msv1_0.InteractiveProfile) {
	console.Header("Interactive profile")
	fmt.Printf("  LogonCount:         %d\n", p.LogonCount)
	fmt.Printf("  BadPasswordCount:   %d\n", p.BadPasswordCount)
	fmt.Printf("  LogonTime:          %s\n", formatTime(p.LogonTime))
	fmt.Printf("  LogoffTime:         %s\n", formatTime(p.LogoffTime))
	fmt.Printf("  KickOffTime:        %s\n", formatTime(p.KickOffTime))
	fmt.Printf("  PasswordLastSet:    %s\n", formatTime(p.PasswordLastSet))
	fmt.Printf("  PasswordCanChange:  %s\n", formatTime(p.PasswordCanChange))
	fmt.Printf("  PasswordMustChange: %s\n", formatTime(p.PasswordMustChange))
	fmt.Printf("  LogonScript:        %s\n", p.LogonScript)
	fmt.Printf("  HomeDirectory:      %s\n", p.HomeDirectory)
	fmt.Printf("  FullName:           %s\n", p.FullName)
	fmt.Printf("  ProfilePath:        %s\n", p.ProfilePath)
	fmt.Printf("  HomeDirectoryDrive: %s\n", p.HomeDirectoryDrive)
	fmt.Printf("  LogonServer:        %s\n", p.LogonServer)
	fmt.Printf("  UserFlags:          0x%X\n", p.UserFlags)
}

func main() {
	var (
		domain   string
		exe      string
		noLaunch bool
		noWait   bool
		inherit  bool
	)

	cli.Align = true
	cli.Banner = "authpkgtester [OPTIONS] [auth-package] <username> [password]"
	cli.Info("Interactive logon through LsaLogonUser, then start a process under the resulting token")
	cli.Info("Without arguments, list the installed and predefined security packages")
	cli.Authors = []string{"LogonGooser Team"}

	opts := launch.DefaultOptions()
	cli.Flag(&domain, "d", "domain", "", "Logon domain (default: local)")
	cli.Flag(&exe, "e", "exec", opts.Executable, "Executable to start under the token")
	cli.Flag(&noLaunch, "n", "no-launch", false, "Log on only, do not start a process")
	cli.Flag(&noWait, "W", "no-wait", false, "Do not wait for the process to exit")
	cli.Flag(&inherit, "I", "inherit", false, "Share this console instead of opening a new one")
	cli.Flag(&debug.Verbose, "v", "verbose", false, "Verbose output")
	cli.Parse()

	inv, err := parseArgs(cli.Args(), domain)
	if err != nil {
		console.Error("%v", err)
		cli.Usage(exitUsage)
	}

	if inv.List {
		os.Exit(listPackages())
	}

	if inv.PromptPassword {
		inv.Password = console.PromptPassword("Password: ")
	}

	opts.Executable = exe
	opts.Wait = !noWait
	opts.NewConsole = !inherit

	os.Exit(logon(inv, opts, noLaunch))
}
