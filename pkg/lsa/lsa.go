// Package lsa is a client for the Local Security Authority logon API:
// package lookup, LsaLogonUser and security package enumeration.
package lsa

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

var (
	// ErrPackageNotFound is returned when no package with the requested
	// name is registered with LSA.
	ErrPackageNotFound = fmt.Errorf("%w: authentication package not found", ntstatus.ErrLookup)
	// ErrNotSupported is returned on platforms without LSA.
	ErrNotSupported = errors.New("LSA is only available on Windows")
	// ErrBadSourceName is returned if a token source name is empty, too
	// long or not ASCII.
	ErrBadSourceName = errors.New("token source name must be ASCII with length > 0 and <= 8")
)

// LUID is a locally unique identifier, used for logon session IDs
type LUID struct {
	LowPart  uint32
	HighPart int32
}

// Uint64 packs the LUID into one value
func (l LUID) Uint64() uint64 {
	return uint64(uint32(l.HighPart))<<32 | uint64(l.LowPart)
}

// LUIDFromUint64 unpacks a LUID
func LUIDFromUint64(v uint64) LUID {
	return LUID{LowPart: uint32(v), HighPart: int32(uint32(v >> 32))}
}

func (l LUID) String() string {
	return fmt.Sprintf("0x%X:0x%X", uint32(l.HighPart), l.LowPart)
}

// LogonType is SECURITY_LOGON_TYPE
type LogonType uint32

const (
	UndefinedLogonType      LogonType = 0
	Interactive             LogonType = 2
	Network                 LogonType = 3
	Batch                   LogonType = 4
	Service                 LogonType = 5
	Proxy                   LogonType = 6
	Unlock                  LogonType = 7
	NetworkCleartext        LogonType = 8
	NewCredentials          LogonType = 9
	RemoteInteractive       LogonType = 10
	CachedInteractive       LogonType = 11
	CachedRemoteInteractive LogonType = 12
	CachedUnlock            LogonType = 13
)

func (t LogonType) String() string {
	switch t {
	case Interactive:
		return "Interactive"
	case Network:
		return "Network"
	case Batch:
		return "Batch"
	case Service:
		return "Service"
	case Proxy:
		return "Proxy"
	case Unlock:
		return "Unlock"
	case NetworkCleartext:
		return "NetworkCleartext"
	case NewCredentials:
		return "NewCredentials"
	case RemoteInteractive:
		return "RemoteInteractive"
	case CachedInteractive:
		return "CachedInteractive"
	case CachedRemoteInteractive:
		return "CachedRemoteInteractive"
	case CachedUnlock:
		return "CachedUnlock"
	default:
		return fmt.Sprintf("LogonType(%d)", uint32(t))
	}
}

// TokenSourceLength is TOKEN_SOURCE_LENGTH
const TokenSourceLength = 8

// DefaultTokenSource is the source name stamped on tokens we request
const DefaultTokenSource = "APtest"

// TokenSource is TOKEN_SOURCE
type TokenSource struct {
	SourceName       [TokenSourceLength]byte
	SourceIdentifier LUID
}

// NewTokenSource validates name and builds a TokenSource. The identifier
// is filled in at logon time.
func NewTokenSource(name string) (TokenSource, error) {
	var ts TokenSource
	if n := len(name); n == 0 || n > TokenSourceLength {
		return ts, fmt.Errorf("%w, actual length is %d", ErrBadSourceName, n)
	}
	for _, c := range []byte(name) {
		if c > unicode.MaxASCII {
			return ts, fmt.Errorf("%w: %q contains 0x%02X", ErrBadSourceName, name, c)
		}
	}
	copy(ts.SourceName[:], name)
	return ts, nil
}

// Name returns the source name without padding
func (ts TokenSource) Name() string {
	return strings.TrimRight(string(ts.SourceName[:]), "\x00")
}

// QuotaLimits is QUOTA_LIMITS
type QuotaLimits struct {
	PagedPoolLimit        uint64
	NonPagedPoolLimit     uint64
	MinimumWorkingSetSize uint64
	MaximumWorkingSetSize uint64
	PagefileLimit         uint64
	TimeLimit             int64
}

// LookupError maps the status of LsaLookupAuthenticationPackage. An
// unknown package yields ErrPackageNotFound, other failures an
// *ntstatus.Error.
func LookupError(name string, status ntstatus.NTStatus) error {
	switch {
	case status.IsSuccess():
		return nil
	case status == ntstatus.StatusNoSuchPackage:
		return fmt.Errorf("%w: %q", ErrPackageNotFound, name)
	default:
		return ntstatus.New(fmt.Sprintf("LsaLookupAuthenticationPackage(%q)", name), status)
	}
}

// LogonError maps the status and sub-status of LsaLogonUser
func LogonError(user string, status, subStatus ntstatus.NTStatus) error {
	if status.IsSuccess() {
		return nil
	}
	return &ntstatus.Error{
		Op:        fmt.Sprintf("LsaLogonUser(%q)", user),
		Status:    status,
		SubStatus: subStatus,
	}
}
