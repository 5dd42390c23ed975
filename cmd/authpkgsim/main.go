package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mjwhitta/cli"

	"github.com/ineffectivecoder/LogonGooser/internal/console"
	"github.com/ineffectivecoder/LogonGooser/pkg/debug"
)

func main() {
	var (
		configPath string
		pkgName    string
		domain     string
		password   string
		absolute   bool
		host       bool
	)

	cli.Align = true
	cli.Banner = "authpkgsim [OPTIONS] <username>"
	cli.Info("Drive the server-side authentication packages through an in-memory LSA")
	cli.Info("Accounts, groups and passwords come from a TOML config")
	cli.Authors = []string{"LogonGooser Team"}

	cli.Flag(&configPath, "c", "config", "authpkgsim.toml", "Config file path")
	cli.Flag(&pkgName, "P", "package", "", "Package to drive (overrides config)")
	cli.Flag(&domain, "d", "domain", "", "Logon domain")
	cli.Flag(&password, "p", "password", "", "Password (prompted if not provided)")
	cli.Flag(&absolute, "a", "absolute", false, "Submit descriptors holding client addresses")
	cli.Flag(&host, "H", "host", false, "Resolve accounts against the local SAM (Windows only)")
	cli.Flag(&debug.Verbose, "v", "verbose", false, "Verbose output")
	cli.Parse()

	if cli.NArg() != 1 {
		console.Error("Expected exactly one <username>")
		cli.Usage(1)
	}
	user := cli.Arg(0)

	cfg, err := loadConfig(configPath)
	if err != nil {
		console.Error("%v", err)
		os.Exit(1)
	}
	if pkgName != "" {
		cfg.Package = pkgName
	}
	if absolute {
		cfg.Client.Absolute = true
	}
	if host {
		cfg.HostDirectory = true
	}
	if password == "" {
		password = console.PromptPassword("Password: ")
	}

	log, err := openLog(cfg, cfg.Package, debug.Verbose)
	if err != nil {
		console.Error("%v", err)
		os.Exit(1)
	}

	out, err := simulate(cfg, log, domain, user, password)
	if err != nil {
		console.Error("%v", err)
		os.Exit(2)
	}
	report(out)

	if out.LogonErr != nil || out.Filter != nil || out.Routine != nil {
		os.Exit(2)
	}
}

func report(out *outcome) {
	console.Info("Package %s (ID %d)", out.Package, out.PackageID)
	debug.Hexdump("submit buffer", out.Submit)

	if out.LogonErr != nil {
		console.Error("LsaApLogonUserEx2: %s", status(out.LogonErr))
	} else {
		res := out.Logon
		console.Success("LsaApLogonUserEx2: STATUS_SUCCESS")
		fmt.Printf("  LogonId:        %s\n", res.LogonID)
		fmt.Printf("  Account:        %s\n", res.AccountName)
		fmt.Printf("  Authority:      %s\n", res.AuthenticatingAuthority)
		fmt.Printf("  Machine:        %s\n", res.MachineName)
		fmt.Printf("  LogonSID:       %s\n", out.SessionSID)
		if res.Token != nil {
			fmt.Printf("  User:           %s\n", res.Token.User)
			fmt.Printf("  PrimaryGroup:   %s\n", res.Token.PrimaryGroup)
			for _, g := range res.Token.Groups {
				fmt.Printf("  Group:          %s (0x%X)\n", g.SID, g.Attributes)
			}
		}
		if p := out.Profile; p != nil {
			console.Header("Interactive profile")
			fmt.Printf("  LogonCount:     %d\n", p.LogonCount)
			fmt.Printf("  FullName:       %s\n", p.FullName)
			fmt.Printf("  HomeDirectory:  %s\n", p.HomeDirectory)
			fmt.Printf("  ProfilePath:    %s\n", p.ProfilePath)
			fmt.Printf("  LogonServer:    %s\n", strings.TrimPrefix(p.LogonServer, `\\`))
		}
	}

	if out.Filter != nil {
		console.Warn("Msv1_0SubAuthenticationFilter: %s", status(out.Filter))
	} else {
		console.Success("Msv1_0SubAuthenticationFilter: STATUS_SUCCESS")
	}
	if out.Routine != nil {
		console.Warn("Msv1_0SubAuthenticationRoutine: %s", status(out.Routine))
	} else {
		console.Success("Msv1_0SubAuthenticationRoutine: STATUS_SUCCESS")
	}
}
