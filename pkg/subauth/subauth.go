// Package subauth implements an MSV1_0 sub-authentication package that
// refuses logons while a gate (a nearby Bluetooth device) is present.
package subauth

import (
	"crypto/subtle"

	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg"
	"github.com/ineffectivecoder/LogonGooser/pkg/msv1_0"
	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

// LogonLevel is NETLOGON_LOGON_INFO_CLASS
type LogonLevel uint32

const (
	NetlogonInteractiveInformation LogonLevel = 1
	NetlogonNetworkInformation     LogonLevel = 2
	NetlogonServiceInformation     LogonLevel = 3
	NetlogonGenericInformation     LogonLevel = 4
)

// MSV1_0 sub-authentication flags
const (
	FlagPassthru   uint32 = 0x01
	FlagGuestLogon uint32 = 0x02
)

// Identity is NETLOGON_LOGON_IDENTITY_INFO
type Identity struct {
	LogonDomainName string
	UserName        string
	Workstation     string
}

// Account is the part of USER_ALL_INFORMATION the routine consults
type Account struct {
	UserName string
	// NtOwfPassword is the stored NT hash, all zero when unknown
	NtOwfPassword [16]byte
}

// Request holds the inputs of Msv1_0SubAuthenticationRoutine/Filter
type Request struct {
	LogonLevel LogonLevel
	Identity   Identity
	// NtOwfPassword is the NT hash of the password supplied at logon
	NtOwfPassword [16]byte
	Flags         uint32
	User          Account
}

// Result holds the outputs of the sub-authentication entries
type Result struct {
	// WhichFields selects USER_ALL_* fields to write back to SAM
	WhichFields   uint32
	UserFlags     uint32
	Authoritative bool
	LogoffTime    int64
	KickoffTime   int64
}

// Gate decides whether logons are currently blocked
type Gate interface {
	Blocked() (bool, error)
}

// Filter is the sub-authentication package
type Filter struct {
	Gate Gate
	Log  *authpkg.Log
}

func (f *Filter) check(entry string, req *Request) (*Result, error) {
	res := &Result{
		Authoritative: true,
		LogoffTime:    msv1_0.Forever,
		KickoffTime:   msv1_0.Forever,
	}
	f.Log.Info("%s: LogonLevel %d, user %q, flags 0x%X", entry, req.LogonLevel, req.Identity.UserName, req.Flags)

	blocked, err := f.Gate.Blocked()
	if err != nil {
		f.Log.Error("%s: gate check failed: %s", entry, err)
		return res, ntstatus.New(entry, ntstatus.StatusAccountLockedOut)
	}
	if blocked {
		f.Log.Warning("%s: return STATUS_ACCOUNT_LOCKED_OUT (gate present)", entry)
		return res, ntstatus.New(entry, ntstatus.StatusAccountLockedOut)
	}
	return res, nil
}

// SubAuthenticationFilter is the Msv1_0SubAuthenticationFilter entry, run
// for every interactive logon after MSV1_0 validated the password.
func (f *Filter) SubAuthenticationFilter(req *Request) (*Result, error) {
	res, err := f.check("Msv1_0SubAuthenticationFilter", req)
	if err == nil {
		f.Log.Info("Msv1_0SubAuthenticationFilter: return STATUS_SUCCESS")
	}
	return res, err
}

// SubAuthenticationRoutine is the Msv1_0SubAuthenticationRoutine entry.
// MSV1_0 leaves password validation to the routine, so when the account
// has a stored hash the supplied one must match it.
func (f *Filter) SubAuthenticationRoutine(req *Request) (*Result, error) {
	res, err := f.check("Msv1_0SubAuthenticationRoutine", req)
	if err != nil {
		return res, err
	}

	var zero [16]byte
	if req.User.NtOwfPassword != zero &&
		subtle.ConstantTimeCompare(req.User.NtOwfPassword[:], req.NtOwfPassword[:]) != 1 {
		f.Log.Warning("Msv1_0SubAuthenticationRoutine: return STATUS_WRONG_PASSWORD")
		return res, ntstatus.New("Msv1_0SubAuthenticationRoutine", ntstatus.StatusWrongPassword)
	}

	f.Log.Info("Msv1_0SubAuthenticationRoutine: return STATUS_SUCCESS")
	return res, nil
}
