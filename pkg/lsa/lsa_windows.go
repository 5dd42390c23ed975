package lsa

import (
	"fmt"
	"unsafe"

	"github.com/alexbrainman/sspi"
	"github.com/dblohm7/wingoes"
	"golang.org/x/sys/windows"

	"github.com/ineffectivecoder/LogonGooser/pkg/debug"
	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

var (
	modsecur32  = windows.NewLazySystemDLL("secur32.dll")
	modadvapi32 = windows.NewLazySystemDLL("advapi32.dll")

	procLsaConnectUntrusted            = modsecur32.NewProc("LsaConnectUntrusted")
	procLsaLookupAuthenticationPackage = modsecur32.NewProc("LsaLookupAuthenticationPackage")
	procLsaLogonUser                   = modsecur32.NewProc("LsaLogonUser")
	procLsaFreeReturnBuffer            = modsecur32.NewProc("LsaFreeReturnBuffer")
	procLsaDeregisterLogonProcess      = modsecur32.NewProc("LsaDeregisterLogonProcess")
	procEnumerateSecurityPackagesW     = modsecur32.NewProc("EnumerateSecurityPackagesW")
	procFreeContextBuffer              = modsecur32.NewProc("FreeContextBuffer")
	procAllocateLocallyUniqueId        = modadvapi32.NewProc("AllocateLocallyUniqueId")
)

type _LSAHANDLE windows.Handle

type _TOKEN_SOURCE struct {
	SourceName       [TokenSourceLength]byte
	SourceIdentifier windows.LUID
}

type _QUOTA_LIMITS struct {
	PagedPoolLimit        uintptr
	NonPagedPoolLimit     uintptr
	MinimumWorkingSetSize uintptr
	MaximumWorkingSetSize uintptr
	PagefileLimit         uintptr
	TimeLimit             int64
}

type _SecPkgInfoW struct {
	Capabilities uint32
	Version      uint16
	RPCID        uint16
	MaxToken     uint32
	Name         *uint16
	Comment      *uint16
}

func lsaConnectUntrusted(h *_LSAHANDLE) windows.NTStatus {
	r, _, _ := procLsaConnectUntrusted.Call(uintptr(unsafe.Pointer(h)))
	return windows.NTStatus(r)
}

func lsaLookupAuthenticationPackage(h _LSAHANDLE, name *windows.NTString, id *uint32) windows.NTStatus {
	r, _, _ := procLsaLookupAuthenticationPackage.Call(uintptr(h), uintptr(unsafe.Pointer(name)), uintptr(unsafe.Pointer(id)))
	return windows.NTStatus(r)
}

func lsaLogonUser(h _LSAHANDLE, origin *windows.NTString, logonType LogonType, pkg uint32,
	authInfo unsafe.Pointer, authInfoLen uint32, src *_TOKEN_SOURCE, profile *uintptr, profileLen *uint32,
	logonID *windows.LUID, token *windows.Token, quotas *_QUOTA_LIMITS, subStatus *windows.NTStatus) windows.NTStatus {
	r, _, _ := procLsaLogonUser.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(origin)),
		uintptr(logonType),
		uintptr(pkg),
		uintptr(authInfo),
		uintptr(authInfoLen),
		0, // LocalGroups
		uintptr(unsafe.Pointer(src)),
		uintptr(unsafe.Pointer(profile)),
		uintptr(unsafe.Pointer(profileLen)),
		uintptr(unsafe.Pointer(logonID)),
		uintptr(unsafe.Pointer(token)),
		uintptr(unsafe.Pointer(quotas)),
		uintptr(unsafe.Pointer(subStatus)),
	)
	return windows.NTStatus(r)
}

func lsaFreeReturnBuffer(buf uintptr) windows.NTStatus {
	r, _, _ := procLsaFreeReturnBuffer.Call(buf)
	return windows.NTStatus(r)
}

func lsaDeregisterLogonProcess(h _LSAHANDLE) windows.NTStatus {
	r, _, _ := procLsaDeregisterLogonProcess.Call(uintptr(h))
	return windows.NTStatus(r)
}

func allocateLocallyUniqueId(luid *windows.LUID) error {
	r, _, err := procAllocateLocallyUniqueId.Call(uintptr(unsafe.Pointer(luid)))
	if r == 0 {
		return fmt.Errorf("AllocateLocallyUniqueId: %w", err)
	}
	return nil
}

// Conn is an untrusted LSA connection
type Conn struct {
	handle _LSAHANDLE
}

// Connect opens an untrusted LSA connection
func Connect() (*Conn, error) {
	var h _LSAHANDLE
	if e := wingoes.ErrorFromNTStatus(lsaConnectUntrusted(&h)); e.Failed() {
		return nil, fmt.Errorf("LsaConnectUntrusted: %w", e)
	}
	return &Conn{handle: h}, nil
}

// LookupPackage resolves an authentication package name to its ID. An
// unknown name yields ErrPackageNotFound.
func (c *Conn) LookupPackage(name string) (uint32, error) {
	ntName, err := windows.NewNTString(name)
	if err != nil {
		return 0, err
	}

	var id uint32
	st := lsaLookupAuthenticationPackage(c.handle, ntName, &id)
	if err := LookupError(name, ntstatus.NTStatus(st)); err != nil {
		return 0, err
	}
	return id, nil
}

// LogonUser resolves the package, submits an interactive logon buffer and
// returns the token with a copy of the profile buffer. The caller owns
// the token.
func (c *Conn) LogonUser(req *LogonRequest) (*LogonResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pkgID, err := c.LookupPackage(req.Package)
	if err != nil {
		return nil, err
	}

	authInfo, err := req.SubmitBuffer()
	if err != nil {
		return nil, err
	}
	debug.Hexdump("MSV1_0_INTERACTIVE_LOGON", authInfo)

	ts, err := NewTokenSource(req.SourceName)
	if err != nil {
		return nil, err
	}
	src := _TOKEN_SOURCE{SourceName: ts.SourceName}
	if err := allocateLocallyUniqueId(&src.SourceIdentifier); err != nil {
		return nil, err
	}

	origin, err := windows.NewNTString(req.OriginName)
	if err != nil {
		return nil, err
	}

	var (
		profileBuf uintptr
		profileLen uint32
		logonID    windows.LUID
		token      windows.Token
		quotas     _QUOTA_LIMITS
		subStatus  windows.NTStatus
	)
	st := lsaLogonUser(c.handle, origin, req.LogonType, pkgID, unsafe.Pointer(&authInfo[0]), uint32(len(authInfo)),
		&src, &profileBuf, &profileLen, &logonID, &token, &quotas, &subStatus)
	if err := LogonError(req.User, ntstatus.NTStatus(st), ntstatus.NTStatus(subStatus)); err != nil {
		return nil, err
	}

	res := &LogonResult{
		Token:   token,
		LogonID: LUID{LowPart: logonID.LowPart, HighPart: logonID.HighPart},
		Quotas: QuotaLimits{
			PagedPoolLimit:        uint64(quotas.PagedPoolLimit),
			NonPagedPoolLimit:     uint64(quotas.NonPagedPoolLimit),
			MinimumWorkingSetSize: uint64(quotas.MinimumWorkingSetSize),
			MaximumWorkingSetSize: uint64(quotas.MaximumWorkingSetSize),
			PagefileLimit:         uint64(quotas.PagefileLimit),
			TimeLimit:             quotas.TimeLimit,
		},
		SubStatus: ntstatus.NTStatus(subStatus),
	}
	if profileBuf != 0 {
		res.Profile = append([]byte(nil), unsafe.Slice((*byte)(unsafe.Pointer(profileBuf)), profileLen)...)
		res.ProfileBase = uint64(profileBuf)
		lsaFreeReturnBuffer(profileBuf)
	}
	return res, nil
}

// Close deregisters the connection
func (c *Conn) Close() error {
	if e := wingoes.ErrorFromNTStatus(lsaDeregisterLogonProcess(c.handle)); e.Failed() {
		return e
	}
	c.handle = 0
	return nil
}

// EnumeratePackages lists installed security packages
func EnumeratePackages() ([]PackageInfo, error) {
	var count uint32
	var infos *_SecPkgInfoW
	r, _, _ := procEnumerateSecurityPackagesW.Call(uintptr(unsafe.Pointer(&count)), uintptr(unsafe.Pointer(&infos)))
	if r != 0 {
		return nil, fmt.Errorf("EnumerateSecurityPackagesW: %w", windows.Errno(r))
	}
	defer procFreeContextBuffer.Call(uintptr(unsafe.Pointer(infos)))

	out := make([]PackageInfo, 0, count)
	for _, p := range unsafe.Slice(infos, count) {
		out = append(out, PackageInfo{
			Capabilities: p.Capabilities,
			Version:      p.Version,
			RPCID:        p.RPCID,
			MaxToken:     p.MaxToken,
			Name:         windows.UTF16PtrToString(p.Name),
			Comment:      windows.UTF16PtrToString(p.Comment),
		})
	}
	return out, nil
}

// QueryPackage returns information about one security package
func QueryPackage(name string) (*PackageInfo, error) {
	pi, err := sspi.QueryPackageInfo(name)
	if err != nil {
		return nil, fmt.Errorf("QuerySecurityPackageInfo(%q): %w", name, err)
	}
	return &PackageInfo{
		Capabilities: pi.Capabilities,
		Version:      pi.Version,
		RPCID:        pi.RPCID,
		MaxToken:     pi.MaxToken,
		Name:         pi.Name,
		Comment:      pi.Comment,
	}, nil
}
