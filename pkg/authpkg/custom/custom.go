// Package custom implements CustomAuthPkg, a minimal LSA authentication
// package that accepts interactive logons for existing local accounts.
package custom

import (
	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg"
	"github.com/ineffectivecoder/LogonGooser/pkg/lsa"
	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

// Name is the package name registered with LSA
const Name = "CustomAuthPkg"

// Package is the CustomAuthPkg implementation
type Package struct {
	dir authpkg.Directory
	log *authpkg.Log
	id  uint32
}

// New creates the package
func New(dir authpkg.Directory, log *authpkg.Log) *Package {
	return &Package{dir: dir, log: log}
}

// InitializePackage is LsaApInitializePackage, the legacy entry used when
// the DLL is registered as a plain authentication package.
func (p *Package) InitializePackage(id uint32) string {
	p.id = id
	p.log.Info("LsaApInitializePackage: AuthenticationPackageId %d", id)
	return Name
}

// Initialize is SpInitialize
func (p *Package) Initialize(id uint32, params *authpkg.Parameters) error {
	p.id = id
	p.log.Info("SpInitialize: PackageId %d, %s", id, params)
	return nil
}

// Info is SpGetInfo
func (p *Package) Info() authpkg.Info {
	return authpkg.Info{
		Capabilities: lsa.FlagAcceptWin32Name | lsa.FlagConnection,
		Version:      1,
		RPCID:        lsa.IDNone,
		MaxToken:     0,
		Name:         Name,
		Comment:      "Custom security package for testing",
	}
}

// ExtendedInformation is not offered by this package
func (p *Package) ExtendedInformation(class authpkg.ExtendedInfoClass) (*authpkg.ExtendedInfo, error) {
	return nil, authpkg.Unsupported("SpGetExtendedInformation")
}

// LogonUser is LsaApLogonUserEx2. It returns no profile buffer.
func (p *Package) LogonUser(d authpkg.Dispatch, req *authpkg.LogonRequest) (*authpkg.LogonResult, error) {
	p.log.Info("LsaApLogonUserEx2: LogonType %s, SubmitBufferSize %d", req.LogonType, len(req.SubmitBuffer))

	if err := authpkg.CheckLogonType(req.LogonType, lsa.Interactive); err != nil {
		p.log.Warning("return STATUS_NOT_IMPLEMENTED (unsupported LogonType)")
		return nil, err
	}

	if len(req.SubmitBuffer) < req.ClientLayout().HeaderSize() {
		p.log.Error("SubmitBufferSize too small")
		return nil, ntstatus.New("LsaApLogonUserEx2", ntstatus.StatusInvalidParameter)
	}
	logon, err := req.DecodeInteractiveLogon()
	if err != nil {
		p.log.Error("Bad submit buffer: %s", err)
		return nil, ntstatus.New("LsaApLogonUserEx2", ntstatus.StatusInvalidParameter)
	}

	computer, err := p.dir.ComputerName()
	if err != nil {
		p.log.Error("return STATUS_INTERNAL_ERROR (GetComputerNameW failed: %s)", err)
		return nil, ntstatus.New("GetComputerNameW", ntstatus.StatusInternalError)
	}

	res := &authpkg.LogonResult{
		AccountName:             logon.UserName,
		AuthenticatingAuthority: logon.LogonDomainName,
		MachineName:             computer,
	}
	if res.LogonID, err = authpkg.NewLogonSession(d, p.log); err != nil {
		return nil, err
	}

	if res.Token, err = authpkg.BuildTokenInformation(p.dir, logon.UserName, p.log); err != nil {
		st := ntstatus.StatusOf(err)
		authpkg.DeleteLogonSession(d, res.LogonID, p.log)
		return nil, &ntstatus.Error{Op: "LsaApLogonUserEx2", Status: st, SubStatus: st}
	}

	p.log.Debug("AccountName: %s", res.AccountName)
	p.log.Debug("MachineName: %s", res.MachineName)
	p.log.Info("return STATUS_SUCCESS")
	return res, nil
}

// LogonTerminated is LsaApLogonTerminated
func (p *Package) LogonTerminated(d authpkg.Dispatch, id lsa.LUID) {
	p.log.Info("LsaApLogonTerminated: LogonId High=0x%X, Low=0x%X", uint32(id.HighPart), id.LowPart)
}

// CallPackage accepts every call kind and returns nothing
func (p *Package) CallPackage(d authpkg.Dispatch, kind authpkg.CallKind, submit []byte) ([]byte, error) {
	p.log.Info("LsaAp%s: %d byte(s), return STATUS_SUCCESS", kind, len(submit))
	return nil, nil
}

// Shutdown is SpShutDown
func (p *Package) Shutdown() error {
	p.log.Info("SpShutDown")
	return nil
}
