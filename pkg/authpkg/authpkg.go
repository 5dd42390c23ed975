// Package authpkg models the LSA side of a custom authentication package:
// the function table LSA hands over, the parameters it initializes the
// package with, and the logon call contract.
//
// LSA's function table is a capability. It is passed as a Dispatch to
// every handler instead of being stashed in package state, so handlers
// can be driven by a real LSA shim or by the in-memory MemDispatch.
package authpkg

import (
	"fmt"
	"strings"

	"github.com/ineffectivecoder/LogonGooser/pkg/lsa"
	"github.com/ineffectivecoder/LogonGooser/pkg/msv1_0"
	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
	"github.com/ineffectivecoder/LogonGooser/pkg/sid"
)

// InterfaceVersion is SECPKG_INTERFACE_VERSION
const InterfaceVersion uint32 = 0x00010000

// Dispatch is the subset of LSA_SECPKG_FUNCTION_TABLE packages call back into
type Dispatch interface {
	AllocateLocallyUniqueID() (lsa.LUID, error)
	CreateLogonSession(id lsa.LUID) error
	DeleteLogonSession(id lsa.LUID) error
	// AllocateClientBuffer reserves size bytes in the client process and
	// returns their address.
	AllocateClientBuffer(size int) (uint64, error)
	FreeClientBuffer(addr uint64) error
	CopyToClientBuffer(addr uint64, data []byte) error
}

// GroupMembership is a global group name with its SE_GROUP_* attributes
type GroupMembership struct {
	Name       string
	Attributes uint32
}

// Directory resolves accounts and group memberships on the local machine
type Directory interface {
	LookupAccountName(name string) (*sid.SID, error)
	UserGroups(user string) ([]GroupMembership, error)
	UserLocalGroups(user string) ([]string, error)
	ComputerName() (string, error)
}

// SECPKG_STATE_* machine state flags
const (
	StateEncryptionPermitted       uint32 = 0x01
	StateStrongEncryptionPermitted uint32 = 0x02
	StateDomainController          uint32 = 0x04
	StateWorkstation               uint32 = 0x08
	StateStandalone                uint32 = 0x10
)

// MachineStateNames returns the names of the flags set in state. Unknown
// bits are reported as a trailing hex value.
func MachineStateNames(state uint32) []string {
	flags := []struct {
		flag uint32
		name string
	}{
		{StateEncryptionPermitted, "ENCRYPTION_PERMITTED"},
		{StateStrongEncryptionPermitted, "STRONG_ENCRYPTION_PERMITTED"},
		{StateDomainController, "DOMAIN_CONTROLLER"},
		{StateWorkstation, "WORKSTATION"},
		{StateStandalone, "STANDALONE"},
	}

	var names []string
	for _, f := range flags {
		if state&f.flag != 0 {
			names = append(names, f.name)
			state &^= f.flag
		}
	}
	if state != 0 {
		names = append(names, fmt.Sprintf("0x%X", state))
	}
	return names
}

// Parameters is SECPKG_PARAMETERS
type Parameters struct {
	Version       uint32
	MachineState  uint32
	SetupMode     uint32
	DomainSID     *sid.SID
	DomainName    string
	DNSDomainName string
	DomainGUID    [16]byte
}

func (p *Parameters) String() string {
	return fmt.Sprintf("version %d, machine state [%s], setup mode %d, domain %q",
		p.Version, strings.Join(MachineStateNames(p.MachineState), "|"), p.SetupMode, p.DomainName)
}

// Info is SecPkgInfo as returned by SpGetInfo
type Info = lsa.PackageInfo

// LogonRequest carries the arguments of LsaApLogonUser
type LogonRequest struct {
	LogonType lsa.LogonType
	// SubmitBuffer is LSA's copy of the client's authentication buffer
	SubmitBuffer []byte
	// ClientBufferBase is the address the buffer had in the client
	ClientBufferBase uint64
	// Layout is the client's pointer layout, native when zero
	Layout msv1_0.Layout
}

// ClientLayout is the pointer layout of the calling process
func (r *LogonRequest) ClientLayout() msv1_0.Layout {
	if r.Layout.PointerSize == 0 {
		return msv1_0.NativeLayout
	}
	return r.Layout
}

// DecodeInteractiveLogon parses the submit buffer. Descriptors may hold
// offsets from the buffer start or addresses in the client buffer.
func (r *LogonRequest) DecodeInteractiveLogon() (*msv1_0.InteractiveLogon, error) {
	l := r.ClientLayout()

	in, err := l.DecodeInteractiveLogon(r.SubmitBuffer)
	if err != nil && r.ClientBufferBase != 0 {
		if abs, aerr := l.DecodeInteractiveLogonAt(r.SubmitBuffer, r.ClientBufferBase); aerr == nil {
			return abs, nil
		}
	}
	return in, err
}

// LogonResult carries the outputs of LsaApLogonUserEx2
type LogonResult struct {
	LogonID lsa.LUID
	// ProfileBuffer is the client address of the profile, zero for none
	ProfileBuffer uint64
	ProfileLength int
	Token         *TokenInformation
	AccountName   string
	// AuthenticatingAuthority is the domain that validated the logon
	AuthenticatingAuthority string
	MachineName             string
	SubStatus               ntstatus.NTStatus
}

// ExtendedInfoClass is SECPKG_EXTENDED_INFORMATION_CLASS
type ExtendedInfoClass uint32

const (
	ExtendedGSSInfo        ExtendedInfoClass = 1
	ExtendedContextThunks  ExtendedInfoClass = 2
	ExtendedMutualAuthInfo ExtendedInfoClass = 3
	ExtendedWOWClientDLL   ExtendedInfoClass = 4
	ExtendedExtraOIDs      ExtendedInfoClass = 5
	ExtendedMaxInfo        ExtendedInfoClass = 6
	ExtendedNego2Info      ExtendedInfoClass = 7
)

// ExtendedInfo is SECPKG_EXTENDED_INFORMATION
type ExtendedInfo struct {
	Class ExtendedInfoClass
	// GSSOID is the DER body of the package's GSS mechanism OID
	GSSOID    []byte
	ExtraOIDs [][]byte
}

// CallKind selects which of the three LsaApCallPackage entries was used
type CallKind int

const (
	CallTrusted CallKind = iota
	CallUntrusted
	CallPassthrough
)

func (k CallKind) String() string {
	switch k {
	case CallTrusted:
		return "CallPackage"
	case CallUntrusted:
		return "CallPackageUntrusted"
	default:
		return "CallPackagePassthrough"
	}
}

// Package is an authentication package as LSA drives it
type Package interface {
	Initialize(id uint32, params *Parameters) error
	Info() Info
	LogonUser(d Dispatch, req *LogonRequest) (*LogonResult, error)
	LogonTerminated(d Dispatch, id lsa.LUID)
	CallPackage(d Dispatch, kind CallKind, submit []byte) ([]byte, error)
	ExtendedInformation(class ExtendedInfoClass) (*ExtendedInfo, error)
	Shutdown() error
}

// Unsupported returns the error packages give for unimplemented entries
func Unsupported(op string) error {
	return ntstatus.New(op, ntstatus.SecEUnsupportedFunction)
}

// CheckLogonType rejects logon types outside allowed with STATUS_NOT_IMPLEMENTED
func CheckLogonType(t lsa.LogonType, allowed ...lsa.LogonType) error {
	for _, a := range allowed {
		if t == a {
			return nil
		}
	}
	return ntstatus.New(fmt.Sprintf("LogonUser(%s)", t), ntstatus.StatusNotImplemented)
}

// NewLogonSession allocates a logon ID and creates its session. Allocation
// failures map to STATUS_FAIL_FAST_EXCEPTION, session failures keep their
// status.
func NewLogonSession(d Dispatch, log *Log) (lsa.LUID, error) {
	id, err := d.AllocateLocallyUniqueID()
	if err != nil {
		log.Error("AllocateLocallyUniqueId failed: %s", err)
		return lsa.LUID{}, &ntstatus.Error{Op: "AllocateLocallyUniqueId", Status: ntstatus.StatusFailFastException}
	}
	if err := d.CreateLogonSession(id); err != nil {
		st := ntstatus.StatusOf(err)
		log.Error("CreateLogonSession failed with err: 0x%X", uint32(st))
		return lsa.LUID{}, &ntstatus.Error{Op: "CreateLogonSession", Status: st}
	}
	log.Debug("LogonId: High=0x%X, Low=0x%X", uint32(id.HighPart), id.LowPart)
	return id, nil
}

// DeleteLogonSession undoes NewLogonSession on a failed logon. The logon
// already has its own error, so a failure here is only logged.
func DeleteLogonSession(d Dispatch, id lsa.LUID, log *Log) {
	if err := d.DeleteLogonSession(id); err != nil {
		log.Warning("DeleteLogonSession(High=0x%X, Low=0x%X) failed: %s", uint32(id.HighPart), id.LowPart, err)
	}
}

// FreeClientBuffer releases a client buffer on a failed logon, logging
// any failure.
func FreeClientBuffer(d Dispatch, addr uint64, log *Log) {
	if err := d.FreeClientBuffer(addr); err != nil {
		log.Warning("FreeClientBuffer(0x%X) failed: %s", addr, err)
	}
}
