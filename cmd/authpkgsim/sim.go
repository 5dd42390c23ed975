package main

import (
	"errors"
	"fmt"

	"github.com/ineffectivecoder/LogonGooser/internal/crypto"
	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg"
	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg/custom"
	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg/nopassword"
	"github.com/ineffectivecoder/LogonGooser/pkg/bluetooth"
	"github.com/ineffectivecoder/LogonGooser/pkg/debug"
	"github.com/ineffectivecoder/LogonGooser/pkg/lsa"
	"github.com/ineffectivecoder/LogonGooser/pkg/msv1_0"
	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
	"github.com/ineffectivecoder/LogonGooser/pkg/sid"
	"github.com/ineffectivecoder/LogonGooser/pkg/subauth"
)

// clientBase is where the submit buffer pretends to live in the client
// when descriptors are absolute.
const clientBase = 0x00200000

// staticGate is a sub-authentication gate with a fixed verdict
type staticGate bool

func (g staticGate) Blocked() (bool, error) {
	return bool(g), nil
}

// outcome is everything one simulated logon produced
type outcome struct {
	Package   string
	PackageID uint32
	Submit    []byte
	Logon     *authpkg.LogonResult
	LogonErr  error
	// SessionSID is the S-1-5-5-X-Y SID LSA adds to the token
	SessionSID *sid.SID
	Profile    *msv1_0.InteractiveProfile
	Filter     error
	Routine    error
}

func openLog(cfg *config, name string, console bool) (*authpkg.Log, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return authpkg.OpenLog(name, cfg.LogFile, level, console)
}

func gateFor(cfg *config) subauth.Gate {
	if cfg.Gate.Bluetooth {
		return &bluetooth.Probe{
			TimeoutMultiplier: uint8(cfg.Gate.Timeout),
			OnDevice: func(d bluetooth.Device) {
				debug.Printf("bluetooth device %s [%s]\n", d.Name, d.AddressString())
			},
		}
	}
	return staticGate(cfg.Gate.Blocked)
}

// simulate runs one interactive logon for user through the configured
// package on an in-memory LSA, then runs the sub-authentication filter
// and routine on the same credentials.
func simulate(cfg *config, log *authpkg.Log, domain, user, password string) (*outcome, error) {
	dir, err := cfg.accounts()
	if err != nil {
		return nil, err
	}

	d := authpkg.NewMemDispatch()
	table := authpkg.ModeInitialize(cfg.LSA.Version, log,
		nopassword.New(dir, log),
		custom.New(dir, log),
	)
	params := &authpkg.Parameters{
		Version:      cfg.LSA.Version,
		MachineState: cfg.LSA.MachineState,
		DomainName:   cfg.Computer,
	}
	if err := table.Initialize(cfg.LSA.FirstID, params); err != nil {
		return nil, err
	}
	defer table.Shutdown()

	pkg, id, ok := table.Lookup(cfg.Package)
	if !ok {
		return nil, fmt.Errorf("%w: %q", lsa.ErrPackageNotFound, cfg.Package)
	}
	out := &outcome{Package: pkg.Info().Name, PackageID: id}

	l := cfg.layout()
	submit, err := l.EncodeInteractiveLogon(msv1_0.InteractiveLogon{
		MessageType:     msv1_0.SubmitTypeFor(cfg.Package),
		LogonDomainName: domain,
		UserName:        user,
		Password:        password,
	})
	if err != nil {
		return nil, err
	}
	req := &authpkg.LogonRequest{LogonType: lsa.Interactive, SubmitBuffer: submit, Layout: l}
	if cfg.Client.Absolute {
		if req.SubmitBuffer, err = l.Relocate(submit, clientBase); err != nil {
			return nil, err
		}
		req.ClientBufferBase = clientBase
	}
	out.Submit = req.SubmitBuffer

	out.Logon, out.LogonErr = pkg.LogonUser(d, req)
	if out.LogonErr == nil {
		out.SessionSID = sid.LogonSessionSID(out.Logon.LogonID.HighPart, out.Logon.LogonID.LowPart)
		if out.Logon.ProfileBuffer != 0 {
			buf, err := d.ClientBuffer(out.Logon.ProfileBuffer)
			if err != nil {
				return nil, err
			}
			if out.Profile, err = l.DecodeInteractiveProfile(buf, out.Logon.ProfileBuffer); err != nil {
				return nil, err
			}
			if err := d.FreeClientBuffer(out.Logon.ProfileBuffer); err != nil {
				return nil, err
			}
		}
		pkg.LogonTerminated(d, out.Logon.LogonID)
		if err := d.DeleteLogonSession(out.Logon.LogonID); err != nil {
			return nil, err
		}
	}

	u, _ := cfg.user(user)
	sreq := &subauth.Request{
		LogonLevel: subauth.NetlogonInteractiveInformation,
		Identity: subauth.Identity{
			LogonDomainName: domain,
			UserName:        user,
			Workstation:     cfg.Computer,
		},
		NtOwfPassword: crypto.NTOWF(password),
		User:          subauth.Account{UserName: user, NtOwfPassword: u.storedHash()},
	}
	filter := &subauth.Filter{Gate: gateFor(cfg), Log: log}
	_, out.Filter = filter.SubAuthenticationFilter(sreq)
	_, out.Routine = filter.SubAuthenticationRoutine(sreq)
	return out, nil
}

// status renders an error from a package entry point as its NTSTATUS
func status(err error) string {
	st := ntstatus.StatusOf(err)
	var ne *ntstatus.Error
	if errors.As(err, &ne) && ne.SubStatus != 0 {
		return fmt.Sprintf("%s (sub-status %s)", st, ne.SubStatus)
	}
	return st.String()
}
