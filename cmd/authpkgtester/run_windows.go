package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ineffectivecoder/LogonGooser/internal/console"
	"github.com/ineffectivecoder/LogonGooser/pkg/launch"
	"github.com/ineffectivecoder/LogonGooser/pkg/lsa"
	"github.com/ineffectivecoder/LogonGooser/pkg/msv1_0"
	"github.com/ineffectivecoder/LogonGooser/pkg/netuser"
	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
	"github.com/ineffectivecoder/LogonGooser/pkg/token"
)

func listPackages() int {
	conn, err := lsa.Connect()
	if err != nil {
		console.Error("%v", err)
		return exitFailure
	}
	defer conn.Close()

	// EnumerateSecurityPackagesW does not report MSV1_0, hence the
	// predefined list below.
	pkgs, err := lsa.EnumeratePackages()
	if err != nil {
		console.Error("%v", err)
		return exitFailure
	}

	console.Header("Installed security packages")
	for _, p := range pkgs {
		fmt.Printf("\n* %s\n", p)
		if id, err := conn.LookupPackage(p.Name); err == nil {
			fmt.Printf("  AuthPkgID: %d\n", id)
		} else {
			console.Debug("%v", err)
		}
	}

	console.Header("Predefined security packages")
	for _, name := range lsa.PredefinedPackages {
		fmt.Printf("* Package: %s\n", name)
		if id, err := conn.LookupPackage(name); err == nil {
			fmt.Printf("  AuthPkgID: %d\n", id)
		}
	}
	return exitOK
}

// checkPrivileges reports the privileges this process needs to start a
// process under another token and enables SeImpersonate when it is held.
func checkPrivileges() {
	cur, err := token.Current()
	if err != nil {
		console.Warn("OpenProcessToken: %v", err)
		return
	}
	defer cur.Close()

	report, err := token.Privileges(cur, token.LaunchPrivileges...)
	if err != nil {
		console.Warn("%v", err)
		return
	}
	console.Header("Caller privileges")
	fmt.Print(report.Format(token.LaunchPrivileges...))

	if missing := report.Missing(token.LaunchPrivileges...); len(missing) > 0 {
		console.Warn("%s not held, process launch will likely fail", strings.Join(missing, ", "))
	}
	if report[token.SeImpersonate] == token.PrivilegeDisabled {
		if err := token.EnablePrivilege(cur, token.SeImpersonate); err != nil {
			console.Warn("%v", err)
		}
	}
}

func logon(inv *invocation, opts launch.Options, noLaunch bool) int {
	conn, err := lsa.Connect()
	if err != nil {
		console.Error("%v", err)
		return exitFailure
	}
	defer conn.Close()

	if path, err := netuser.ProfilePath(inv.User); err != nil {
		console.Warn("User profile lookup: %v", err)
	} else if path != "" {
		console.Info("User profile path: %s", path)
	}

	console.Info("Attempting local interactive logon against the %s authentication package...", inv.Package)
	res, err := conn.LogonUser(&lsa.LogonRequest{
		Package:    inv.Package,
		OriginName: originName,
		Domain:     inv.Domain,
		User:       inv.User,
		Password:   inv.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, lsa.ErrPackageNotFound):
			console.Error("Unknown authentication package: %v", err)
		case ntstatus.StatusOf(err) == ntstatus.StatusLogonFailure:
			// MSV1_0 reports unknown users and bad passwords alike
			console.Error("Logon rejected, unknown user name or bad password: %v", err)
		case errors.Is(err, ntstatus.ErrAuthentication):
			console.Error("Logon rejected: %v", err)
		default:
			console.Error("%v", err)
		}
		return exitFailure
	}
	defer res.Token.Close()
	console.Success("LsaLogonUser succeeded, logon ID %s", res.LogonID)

	if primary, err := token.IsPrimary(res.Token); err != nil {
		console.Warn("%v", err)
	} else if !primary {
		console.Warn("%v", token.ErrNotPrimary)
	}

	logonSID, err := token.LogonSID(res.Token)
	if err != nil {
		console.Error("%v", err)
		return exitFailure
	}
	console.Info("Logon session SID: %s", logonSID)

	console.Info("Profile buffer length: %d", len(res.Profile))
	if typ, err := res.ProfileType(); err == nil && typ == msv1_0.MsV1_0InteractiveProfile {
		if p, err := res.InteractiveProfile(); err != nil {
			console.Warn("Profile decode: %v", err)
		} else {
			printProfile(p)
		}
	}

	checkPrivileges()

	if noLaunch {
		console.Success("User logon succeeded.")
		return exitOK
	}

	console.Info("Starting %s", opts.CommandLine())
	proc, err := launch.StartWithToken(res.Token, logonSID, opts)
	if err != nil {
		if errors.Is(err, ntstatus.ErrAuthorization) {
			console.Error("Not permitted to start a process under the token: %v", err)
		} else {
			console.Error("%v", err)
		}
		return exitFailure
	}
	if proc.Exited {
		console.Info("Process %d exited with code %d", proc.PID, proc.ExitCode)
	} else {
		console.Info("Process %d started", proc.PID)
	}
	console.Success("User logon succeeded.")
	return exitOK
}
